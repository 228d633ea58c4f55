package lambda

// Shift adds delta to every Bound in t whose depth exceeds the boundary,
// i.e. every index that escapes t. The boundary grows by one per edge.
// t is modified in place.
func Shift(t Term, boundary, delta int) {
	switch t := t.(type) {
	case *Bound:
		if t.Depth > boundary {
			t.Depth += delta
		}
	case *Abs:
		Shift(t.Body, boundary+1, delta)
	case *App:
		Shift(t.Fun, boundary+1, delta)
		Shift(t.Arg, boundary+1, delta)
	}
}

// Substitute replaces every Bound whose depth equals the current level with
// a fresh copy of the replacement, re-anchored at the insertion point.
// Level starts at depth and grows by one per edge. t is modified in place;
// the returned term must be used in its stead.
func Substitute(t Term, depth int, replacement Snapshot) Term {
	switch v := t.(type) {
	case *Bound:
		if v.Depth != depth {
			return v
		}
		fresh := replacement.Thaw()
		Shift(fresh, 0, depth)
		return fresh
	case *Abs:
		v.Body = Substitute(v.Body, depth+1, replacement)
		return v
	case *App:
		v.Fun = Substitute(v.Fun, depth+1, replacement)
		v.Arg = Substitute(v.Arg, depth+1, replacement)
		return v
	default:
		// Free and Named carry no indices.
		return t
	}
}
