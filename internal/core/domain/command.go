package domain

import "strings"

// Command is one request: the command name followed by its arguments.
//
// Elements are arbitrary byte strings; the codec length-prefixes them, so
// no escaping is applied here.
type Command [][]byte

// NewCommand builds a command from CLI tokens, preserving order.
// It fails only when there is no command name at all.
func NewCommand(tokens ...string) (Command, error) {
	if len(tokens) == 0 {
		return nil, NewError(KindUsage, "no command given")
	}
	cmd := make(Command, len(tokens))
	for i, tok := range tokens {
		cmd[i] = []byte(tok)
	}
	return cmd, nil
}

// Name returns the upper-cased command name.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return strings.ToUpper(string(c[0]))
}

// Args returns the arguments after the command name.
func (c Command) Args() [][]byte {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

// Strings returns the command as strings, for logging.
func (c Command) Strings() []string {
	out := make([]string, len(c))
	for i, b := range c {
		out[i] = string(b)
	}
	return out
}
