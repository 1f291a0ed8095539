package grass

import (
	"strings"
)

// Param is one key=value module parameter.
type Param struct {
	Key   string
	Value string
}

// Command is one GRASS module invocation.
type Command struct {
	// Module is the module name, e.g. "v.select".
	Module string

	// Flags are single-letter flags, e.g. "f" for -f.
	Flags string

	// Params are passed as key=value in order.
	Params []Param

	// Stdin is written to the module's standard input when non-empty.
	Stdin string

	// Quiet adds --quiet.
	Quiet bool

	// DiscardStderr drops the module's diagnostics.
	DiscardStderr bool
}

// Args returns the command line arguments after the module name.
func (c Command) Args() []string {
	args := make([]string, 0, len(c.Params)+2)
	if c.Flags != "" {
		args = append(args, "-"+c.Flags)
	}
	for _, p := range c.Params {
		args = append(args, p.Key+"="+p.Value)
	}
	if c.Quiet {
		args = append(args, "--quiet")
	}
	return args
}

// String renders the command as it would be typed.
func (c Command) String() string {
	return strings.Join(append([]string{c.Module}, c.Args()...), " ")
}

// Param returns the value of key and whether it is set.
func (c Command) Param(key string) (string, bool) {
	for _, p := range c.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// p is shorthand for Param construction.
func p(key, value string) Param {
	return Param{Key: key, Value: value}
}
