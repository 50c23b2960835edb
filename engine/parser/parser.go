// Package parser converts player input into Commands.
// Intentionally dumb: no NLP, just lookups.
package parser

import (
	"strings"

	"github.com/nathoo/gridsim/types"
)

// Wait is the action name for standing still. Controllers map it to
// entity.NoAction.
const Wait = "wait"

var actionAliases = map[string]string{
	// Movement, WASD and vi keys
	"w": "up", "k": "up", "n": "up", "north": "up",
	"s": "down", "j": "down", "south": "down",
	"a": "left", "h": "left", "west": "left",
	"d": "right", "l": "right", "e": "right", "east": "right",

	// Take / Drop
	"t":     "take",
	"get":   "take",
	"grab":  "take",
	"pick":  "take",
	"carry": "take",
	"p":     "drop",
	"put":   "drop",

	// Stand still
	"z":     Wait,
	".":     Wait,
	"stay":  Wait,
	"rest":  Wait,
	"pause": Wait,
}

var metaAliases = map[string]string{
	"q":    "quit",
	"quit": "quit",
	"exit": "quit",
	"?":    "help",
	"help": "help",
}

// Parse converts a raw input line into a Command. Lines starting with "/"
// are meta commands; bare "q", "quit" and "help" are meta commands too.
// Unknown words pass through as the action name.
func Parse(input string) types.Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Command{}
	}

	if strings.HasPrefix(input, "/") {
		words := strings.Fields(input[1:])
		if len(words) == 0 {
			return types.Command{Raw: input}
		}
		meta := strings.ToLower(words[0])
		if alias, ok := metaAliases[meta]; ok {
			meta = alias
		}
		return types.Command{Meta: meta, Args: rest(words), Raw: input}
	}

	words := strings.Fields(strings.ToLower(input))
	if len(words) == 1 {
		if meta, ok := metaAliases[words[0]]; ok {
			return types.Command{Meta: meta, Raw: input}
		}
	}

	words = expandMultiWordVerbs(words)
	return types.Command{Action: normalize(words[0]), Args: rest(words), Raw: input}
}

// expandMultiWordVerbs handles "go north", "pick up", "put down" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "go", "move", "walk", "run", "step", "head":
		return words[1:]
	case "pick":
		if words[1] == "up" {
			return append([]string{"take"}, words[2:]...)
		}
	case "put", "set":
		if words[1] == "down" {
			return append([]string{"drop"}, words[2:]...)
		}
	}

	return words
}

func normalize(word string) string {
	if alias, ok := actionAliases[word]; ok {
		return alias
	}
	return word
}

// rest returns the words after the first, or nil.
func rest(words []string) []string {
	if len(words) < 2 {
		return nil
	}
	return words[1:]
}
