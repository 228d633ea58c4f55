package defs

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/vic/lambdabox/pkg/lambda"
	"github.com/vic/lambdabox/pkg/reduce"
)

// Context maps definition names to immutable term snapshots. It is rebuilt
// from the text buffer on every evaluation and never merged.
type Context struct {
	defs  map[string]lambda.Snapshot
	names lambda.NameTable
}

// Definition is one parsed "!name=term" line.
type Definition struct {
	Name string
	Term lambda.Term
	// Normalize is set for "!!name=term": the term is reduced to normal
	// form before it is stored.
	Normalize bool
}

func New() *Context {
	return &Context{defs: make(map[string]lambda.Snapshot)}
}

// Define stores t under name, shadowing any earlier definition.
func (c *Context) Define(name string, t lambda.Term) {
	c.defs[name] = lambda.Freeze(t)
	c.names = append(c.names, lambda.Entry{Name: name, Term: lambda.Clone(t)})
}

// Lookup implements reduce.Resolver. A nil Context defines nothing.
func (c *Context) Lookup(name string) (lambda.Snapshot, bool) {
	if c == nil {
		return lambda.Snapshot{}, false
	}
	s, ok := c.defs[name]
	return s, ok
}

// Names returns every definition in the order it was made, shadowed ones
// included; the printer prefers the latest match.
func (c *Context) Names() lambda.NameTable {
	if c == nil {
		return nil
	}
	return c.names
}

// Len is the number of distinct visible names.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.defs)
}

// Defined returns the visible names, sorted.
func (c *Context) Defined() []string {
	if c == nil {
		return nil
	}
	names := lo.Keys(c.defs)
	slices.Sort(names)
	return names
}

// IsDefinition reports whether line is a definition line.
func IsDefinition(line string) bool {
	return strings.HasPrefix(line, "!")
}

// ParseDefinition parses "!name=term" or "!!name=term". Error positions are
// rune offsets into line.
func ParseDefinition(line string) (Definition, error) {
	src := []rune(line)
	eq := lo.IndexOf(src, '=')
	if !IsDefinition(line) || eq < 0 {
		return Definition{}, lambda.IllFormedAt(0)
	}

	var def Definition
	start := 1
	if len(src) > 1 && src[1] == '!' {
		def.Normalize = true
		start = 2
	}
	if eq < start || strings.TrimSpace(string(src[start:eq])) == "" {
		return Definition{}, lambda.IllFormedAt(eq)
	}
	def.Name = string(src[start:eq])

	t, err := lambda.ParseAt(string(src[eq+1:]), eq+1)
	if err != nil {
		return Definition{}, err
	}
	def.Term = t
	return def, nil
}

// Build collects the definitions of buffer top to bottom. Later lines shadow
// earlier ones. "!!" definitions are reduced with limit against the
// definitions above them; opts configure that reduction.
func Build(buffer string, limit int, opts ...reduce.Option) (*Context, error) {
	ctx := New()
	for i, line := range strings.Split(buffer, "\n") {
		line = strings.TrimRight(line, "\r")
		if !IsDefinition(line) {
			continue
		}

		def, err := ParseDefinition(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}

		t := def.Term
		if def.Normalize {
			t, err = reduce.New(ctx, opts...).NormalForm(t, limit, nil)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: normalizing %q", i+1, def.Name)
			}
		}
		ctx.Define(def.Name, t)
	}
	return ctx, nil
}
