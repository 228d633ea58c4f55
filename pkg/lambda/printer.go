package lambda

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Entry binds a definition name to its term for printing.
type Entry struct {
	Name string
	Term Term
}

// NameTable lists definitions in the order they were made.
type NameTable []Entry

// Lookup returns the name of the most recent entry structurally equal to t.
func (nt NameTable) Lookup(t Term) (string, bool) {
	e, _, ok := lo.FindLastIndexOf(nt, func(e Entry) bool {
		return Equal(e.Term, t)
	})
	return e.Name, ok
}

type printer struct {
	names    NameTable
	free     map[int]string // free id -> display name
	bound    map[int]string // binder level -> display name
	dangling map[int]string
	pool     []string // names of closed binders, reused before minting
	cursor   rune
}

// Render prints t with the sugar the parser accepts. Subterms equal to an
// entry of names are printed as quoted references. Render does not modify t.
func Render(t Term, names NameTable) string {
	p := &printer{
		names:    names,
		free:     make(map[int]string),
		bound:    make(map[int]string),
		dangling: make(map[int]string),
	}
	s, _ := p.render(t, 0)
	return s
}

// render returns the text of t and whether t was folded into a name.
func (p *printer) render(t Term, depth int) (string, bool) {
	switch t := t.(type) {
	case *Bound:
		return p.boundName(depth - t.Depth), false
	case *Free:
		name, ok := p.free[t.ID]
		if !ok {
			name = p.fresh()
			p.free[t.ID] = name
		}
		return name, false
	}

	if name, ok := p.names.Lookup(t); ok {
		return quote(name), true
	}

	switch t := t.(type) {
	case *Abs:
		return p.renderAbs(t, depth), false
	case *App:
		fun, folded := p.render(t.Fun, depth+1)
		arg, _ := p.render(t.Arg, depth+1)
		if _, ok := t.Fun.(*App); ok && !folded {
			fun = unwrap(fun)
		}
		return "(" + fun + arg + ")", false
	case *Named:
		return quote(t.Name), false
	default:
		panic("Unknown term type")
	}
}

func (p *printer) renderAbs(t *Abs, depth int) string {
	var v string
	if n := len(p.pool); n > 0 {
		v, p.pool = p.pool[n-1], p.pool[:n-1]
	} else {
		v = p.fresh()
	}
	p.bound[depth] = v
	body, folded := p.render(t.Body, depth+1)
	delete(p.bound, depth)
	p.pool = append(p.pool, v)

	head := "(" + string(Lambda) + v
	switch t.Body.(type) {
	case *Abs:
		if !folded {
			// (λy.B) -> (λxy.B)
			return head + strings.TrimPrefix(body, "("+string(Lambda))
		}
	case *App:
		if !folded {
			body = unwrap(body)
		}
	}
	return head + "." + body + ")"
}

func (p *printer) boundName(level int) string {
	if name, ok := p.bound[level]; ok {
		return name
	}
	name, ok := p.dangling[level]
	if !ok {
		name = p.fresh()
		p.dangling[level] = name
	}
	return name
}

// fresh mints the next letter that has not been handed out yet.
func (p *printer) fresh() string {
	for {
		p.cursor++
		if p.cursor != Lambda && unicode.IsLetter(p.cursor) {
			return string(p.cursor)
		}
	}
}

func quote(name string) string {
	return `"` + name + `"`
}

func unwrap(s string) string {
	return s[1 : len(s)-1]
}
