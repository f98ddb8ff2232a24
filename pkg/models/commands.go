package models

import "github.com/opnlabs/glci/pkg/reference"

// Command is a single entry of a script-like field: either a literal
// shell command or an unresolved !reference placeholder.
type Command struct {
	Line string
	Ref  *reference.Reference
}

// Commands models script, before_script, after_script and
// hooks.pre_get_sources_script: a scalar command or a list whose
// entries may be commands or reference placeholders.
type Commands struct {
	Lines []Command
}

// Strings returns the literal command lines. Placeholder entries
// render with the !reference tag syntax.
func (c *Commands) Strings() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Lines))
	for _, cmd := range c.Lines {
		if cmd.Ref != nil {
			out = append(out, cmd.Ref.String())
			continue
		}
		out = append(out, cmd.Line)
	}
	return out
}

func parseCommands(path string, v any, errs *SchemaError) *Commands {
	switch val := v.(type) {
	case *reference.Reference:
		return &Commands{Lines: []Command{{Ref: val}}}
	case string:
		return &Commands{Lines: []Command{{Line: val}}}
	case []any:
		c := &Commands{Lines: make([]Command, 0, len(val))}
		for i, item := range val {
			switch entry := item.(type) {
			case string:
				c.Lines = append(c.Lines, Command{Line: entry})
			case *reference.Reference:
				c.Lines = append(c.Lines, Command{Ref: entry})
			default:
				errs.mismatch(indexPath(path, i), "a string", item)
			}
		}
		return c
	default:
		errs.mismatch(path, "a string or a list of strings", v)
		return nil
	}
}

func (c *Commands) serialize() any {
	out := make([]any, 0, len(c.Lines))
	for _, cmd := range c.Lines {
		if cmd.Ref != nil {
			out = append(out, cmd.Ref)
			continue
		}
		out = append(out, cmd.Line)
	}
	return out
}
