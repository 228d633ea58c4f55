package lambda

// Term represents a lambda calculus term in de Bruijn form.
//
// Depths count tree edges: the body of an abstraction and both sides of an
// application each sit one level below their parent. A Bound with Depth d
// refers to the abstraction d edges above it, so λx.x is Abs{Bound{1}} and
// λx.xx is Abs{App{Bound{2}, Bound{2}}}.
type Term interface {
	String() string
	term()
}

// Bound is a variable bound by an enclosing abstraction.
type Bound struct {
	Depth int
}

// Free is a variable never bound inside the term. IDs are assigned per
// distinct name within one parse.
type Free struct {
	ID int
}

// Abs represents an abstraction (lambda).
type Abs struct {
	Body Term
}

// App represents an application.
type App struct {
	Fun Term
	Arg Term
}

// Named is an unresolved reference to a definition, resolved lazily by the
// reducer.
type Named struct {
	Name string
}

func (*Bound) term() {}
func (*Free) term()  {}
func (*Abs) term()   {}
func (*App) term()   {}
func (*Named) term() {}

func (b *Bound) String() string { return Render(b, nil) }
func (f *Free) String() string  { return Render(f, nil) }
func (a *Abs) String() string   { return Render(a, nil) }
func (a *App) String() string   { return Render(a, nil) }
func (n *Named) String() string { return Render(n, nil) }

// Equal reports whether two terms are syntactically identical.
// It does not decide beta-equivalence.
func Equal(a, b Term) bool {
	switch a := a.(type) {
	case *Bound:
		b, ok := b.(*Bound)
		return ok && a.Depth == b.Depth
	case *Free:
		b, ok := b.(*Free)
		return ok && a.ID == b.ID
	case *Abs:
		b, ok := b.(*Abs)
		return ok && Equal(a.Body, b.Body)
	case *App:
		b, ok := b.(*App)
		return ok && Equal(a.Fun, b.Fun) && Equal(a.Arg, b.Arg)
	case *Named:
		b, ok := b.(*Named)
		return ok && a.Name == b.Name
	default:
		return false
	}
}

// Clone returns a deep copy of t.
func Clone(t Term) Term {
	switch t := t.(type) {
	case *Bound:
		return &Bound{Depth: t.Depth}
	case *Free:
		return &Free{ID: t.ID}
	case *Abs:
		return &Abs{Body: Clone(t.Body)}
	case *App:
		return &App{Fun: Clone(t.Fun), Arg: Clone(t.Arg)}
	case *Named:
		return &Named{Name: t.Name}
	default:
		panic("Unknown term type")
	}
}

// Snapshot is an immutable copy of a term. Every Thaw returns a fresh tree,
// so repeated copies during substitution never alias.
type Snapshot struct {
	frozen Term
}

// Freeze captures t. Later mutations of t do not affect the snapshot.
func Freeze(t Term) Snapshot {
	return Snapshot{frozen: Clone(t)}
}

// Thaw returns a new mutable copy of the captured term.
func (s Snapshot) Thaw() Term {
	if s.frozen == nil {
		return nil
	}
	return Clone(s.frozen)
}
