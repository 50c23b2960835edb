// Package scripted provides an agent whose policy is a Lua function.
//
// The script defines a global select_action(view) returning an action
// name. view has the fields x, y, last_result, round and actions, plus
// cell(x, y) and symbol(x, y) which read the grid the agent can observe.
// Returning nil or an unknown name means no action.
package scripted

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
	"github.com/nathoo/gridsim/loader/sandbox"
)

// EntryPoint is the global the script must define.
const EntryPoint = "select_action"

// Program is the Lua code behind an agent: a file, or inline source when
// Path is empty.
type Program struct {
	Path   string
	Source string
}

// Agent runs its Program in a private sandbox.
type Agent struct {
	*entity.AgentBase
	prog Program
	log  logrus.FieldLogger
	vm   *lua.LState
	err  error
}

var _ entity.ContextSelector = (*Agent)(nil)

// New returns a build function for engine.AddAgent. Script failures are
// logged to log and leave the agent idle for the turn.
func New(prog Program, log logrus.FieldLogger) func(*entity.AgentBase) *Agent {
	return func(base *entity.AgentBase) *Agent {
		return &Agent{AgentBase: base, prog: prog, log: log}
	}
}

// Initialize compiles the script and checks it defines select_action.
func (a *Agent) Initialize() error {
	L := sandbox.New()
	var err error
	if a.prog.Path != "" {
		err = L.DoFile(a.prog.Path)
	} else {
		err = L.DoString(a.prog.Source)
	}
	if err != nil {
		L.Close()
		return fmt.Errorf("loading script for %q: %w", a.Name(), err)
	}
	if _, ok := L.GetGlobal(EntryPoint).(*lua.LFunction); !ok {
		L.Close()
		return fmt.Errorf("script for %q does not define %s", a.Name(), EntryPoint)
	}
	a.vm = L
	return nil
}

// Close releases the Lua state.
func (a *Agent) Close() {
	if a.vm != nil {
		a.vm.Close()
		a.vm = nil
	}
}

// Err returns the most recent script failure, or nil.
func (a *Agent) Err() error { return a.err }

// SelectAction calls select_action with a view of g.
func (a *Agent) SelectAction(g grid.Reader) entity.ActionID {
	id, _ := a.SelectActionContext(context.Background(), g)
	return id
}

// SelectActionContext is SelectAction with the script interruptible by ctx.
// A cancelled context is returned as the error; script errors are not.
func (a *Agent) SelectActionContext(ctx context.Context, g grid.Reader) (entity.ActionID, error) {
	if a.vm == nil {
		a.err = errors.New("script not loaded")
		return entity.NoAction, nil
	}
	a.vm.SetContext(ctx)
	defer a.vm.RemoveContext()

	err := a.vm.CallByParam(lua.P{
		Fn:      a.vm.GetGlobal(EntryPoint),
		NRet:    1,
		Protect: true,
	}, a.view(g))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return entity.NoAction, ctxErr
		}
		a.fail(err)
		return entity.NoAction, nil
	}

	ret := a.vm.Get(-1)
	a.vm.Pop(1)
	a.err = nil
	if ret == lua.LNil {
		return entity.NoAction, nil
	}
	name, ok := ret.(lua.LString)
	if !ok {
		a.fail(fmt.Errorf("%s returned %s, want a string", EntryPoint, ret.Type()))
		return entity.NoAction, nil
	}
	id, ok := a.LookupAction(string(name))
	if !ok {
		a.fail(fmt.Errorf("%s returned unknown action %q", EntryPoint, string(name)))
		return entity.NoAction, nil
	}
	return id, nil
}

func (a *Agent) fail(err error) {
	a.err = err
	if a.log != nil {
		a.log.WithFields(logrus.Fields{
			"agent_id":   a.ID(),
			"agent_name": a.Name(),
			"error":      err,
		}).Warn("Script failed to select an action.")
	}
}

// view builds the table handed to select_action.
func (a *Agent) view(g grid.Reader) *lua.LTable {
	L := a.vm
	t := L.NewTable()

	if loc := a.Location(); loc.IsPosition() {
		pos := loc.AsPosition()
		t.RawSetString("x", lua.LNumber(math.Floor(pos.X())))
		t.RawSetString("y", lua.LNumber(math.Floor(pos.Y())))
	}
	t.RawSetString("last_result", lua.LNumber(a.ActionResult()))
	if w := a.World(); w != nil {
		t.RawSetString("round", lua.LNumber(w.Round()))
	}

	actions := L.NewTable()
	for _, name := range a.ActionNames() {
		actions.Append(lua.LString(name))
	}
	t.RawSetString("actions", actions)

	// cell(x, y) and symbol(x, y); out-of-bounds reads as Unknown.
	lookup := func(L *lua.LState) grid.CellTypeID {
		x, y := L.CheckInt(1), L.CheckInt(2)
		if !g.IsValid(float64(x), float64(y)) {
			return grid.Unknown
		}
		return g.At(x, y)
	}
	t.RawSetString("cell", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(g.CellTypeName(lookup(L))))
		return 1
	}))
	t.RawSetString("symbol", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(string(g.CellTypeSymbol(lookup(L)))))
		return 1
	}))
	return t
}
