// Package contract reports precondition failures in the simulation core.
//
// A violated precondition is a caller bug, not a runtime condition, so it
// panics instead of returning an error. The panic value is a *Violation,
// which unwraps to one of the Err* kinds below.
package contract

import (
	"errors"
	"fmt"
)

// Violation kinds.
var (
	ErrOutOfDomain  = errors.New("value out of domain")
	ErrOutOfBounds  = errors.New("index out of bounds")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrDuplicate    = errors.New("duplicate registration")
	ErrNotOwned     = errors.New("item not owned")
	ErrUnknownID    = errors.New("unknown id")
)

// Violation is the panic value raised by Fail and Require.
type Violation struct {
	Kind error
	Op   string
	Msg  string
}

func (v *Violation) Error() string {
	if v.Msg == "" {
		return fmt.Sprintf("%s: %v", v.Op, v.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", v.Op, v.Kind, v.Msg)
}

func (v *Violation) Unwrap() error { return v.Kind }

// Fail panics with a Violation of the given kind.
func Fail(kind error, op, format string, args ...any) {
	panic(&Violation{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)})
}

// Require panics with a Violation when cond is false.
func Require(cond bool, kind error, op, format string, args ...any) {
	if !cond {
		Fail(kind, op, format, args...)
	}
}

// Recover converts a recovered panic value back into a Violation.
// Any other panic value is re-raised.
//
//	defer func() { v = contract.Recover(recover()) }()
func Recover(r any) *Violation {
	if r == nil {
		return nil
	}
	if v, ok := r.(*Violation); ok {
		return v
	}
	panic(r)
}
