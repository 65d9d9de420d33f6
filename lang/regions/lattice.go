package regions

import "fmt"

// NoOverlap is returned by GLB when two concrete lifetimes share no common
// sub-lifetime.
type NoOverlap struct {
	A, B Lifetime
}

func (e *NoOverlap) Error() string {
	return fmt.Sprintf("no overlap between %s and %s", e.A, e.B)
}

// canonFree orders a pair of Free lifetimes by their identity tag so that
// LUB/GLB over free regions are order-agnostic: swapping the arguments must
// always produce the same result.
func canonFree(a, b Free) (lo, hi Free, swapped bool) {
	if a.ID <= b.ID {
		return a, b, false
	}
	return b, a, true
}

// LUB computes the least upper bound of two concrete lifetimes: the
// shortest lifetime that outlives both a and b. It must never be called
// with a KindVar lifetime; doing so is a caller bug.
func LUB(oracle ScopeOracle, a, b Lifetime) Lifetime {
	assertConcrete(a, "LUB")
	assertConcrete(b, "LUB")

	switch {
	case a.Kind == KindStatic || b.Kind == KindStatic:
		return Static()
	case a.Kind == KindEmpty:
		return b
	case b.Kind == KindEmpty:
		return a
	}

	switch {
	case a.Kind == KindFree && b.Kind == KindScope:
		return lubFreeScope(oracle, a.Free, b.Scope)
	case b.Kind == KindFree && a.Kind == KindScope:
		return lubFreeScope(oracle, b.Free, a.Scope)
	case a.Kind == KindScope && b.Kind == KindScope:
		if anc, ok := oracle.CommonAncestor(a.Scope, b.Scope); ok {
			return OfScope(anc)
		}
		return Static()
	case a.Kind == KindFree && b.Kind == KindFree:
		return lubFree(oracle, a.Free, b.Free)
	default:
		// Skolem or Bound on either side: identical values combine to
		// themselves, anything else collapses to the top of the lattice.
		if a == b {
			return a
		}
		return Static()
	}
}

func lubFreeScope(oracle ScopeOracle, f Free, s ScopeID) Lifetime {
	anc, ok := oracle.CommonAncestor(f.Scope, s)
	if ok && anc == f.Scope {
		// The free region's home scope is an ancestor of s, so the free
		// region outlives it.
		return OfFree(f)
	}
	return Static()
}

func lubFree(oracle ScopeOracle, a, b Free) Lifetime {
	if a == b {
		return OfFree(a)
	}
	lo, hi, _ := canonFree(a, b)
	switch {
	case oracle.SubFree(lo, hi):
		return OfFree(hi)
	case oracle.SubFree(hi, lo):
		return OfFree(lo)
	default:
		return Static()
	}
}

// GLB computes the greatest lower bound of two concrete lifetimes: the
// longest lifetime contained in both a and b. It fails with NoOverlap when
// no such lifetime exists. It must never be called with a KindVar lifetime.
func GLB(oracle ScopeOracle, a, b Lifetime) (Lifetime, error) {
	assertConcrete(a, "GLB")
	assertConcrete(b, "GLB")

	switch {
	case a.Kind == KindStatic:
		return b, nil
	case b.Kind == KindStatic:
		return a, nil
	case a.Kind == KindEmpty || b.Kind == KindEmpty:
		return Empty(), nil
	}

	switch {
	case a.Kind == KindFree && b.Kind == KindScope:
		return glbFreeScope(oracle, a.Free, b.Scope, a, b)
	case b.Kind == KindFree && a.Kind == KindScope:
		return glbFreeScope(oracle, b.Free, a.Scope, a, b)
	case a.Kind == KindScope && b.Kind == KindScope:
		return intersectScopes(oracle, a, b)
	case a.Kind == KindFree && b.Kind == KindFree:
		return glbFree(oracle, a.Free, b.Free)
	default:
		if a == b {
			return a, nil
		}
		return Lifetime{}, &NoOverlap{A: a, B: b}
	}
}

func glbFreeScope(oracle ScopeOracle, f Free, s ScopeID, a, b Lifetime) (Lifetime, error) {
	anc, ok := oracle.CommonAncestor(f.Scope, s)
	if ok && anc == f.Scope {
		return OfScope(s), nil
	}
	return Lifetime{}, &NoOverlap{A: a, B: b}
}

func glbFree(oracle ScopeOracle, a, b Free) (Lifetime, error) {
	if a == b {
		return OfFree(a), nil
	}
	lo, hi, _ := canonFree(a, b)
	switch {
	case oracle.SubFree(lo, hi):
		return OfFree(lo), nil
	case oracle.SubFree(hi, lo):
		return OfFree(hi), nil
	default:
		return intersectScopes(oracle, OfFree(a), OfFree(b))
	}
}

// intersectScopes returns, as a Scope lifetime, whichever of the two scopes
// carried by a and b is the descendant of the other, provided their common
// ancestor equals one of the two input scopes. It is used both for
// Scope/Scope GLB and as the fallback for unrelated Free/Free pairs.
func intersectScopes(oracle ScopeOracle, a, b Lifetime) (Lifetime, error) {
	scopeOf := func(l Lifetime) ScopeID {
		if l.Kind == KindFree {
			return l.Free.Scope
		}
		return l.Scope
	}
	sa, sb := scopeOf(a), scopeOf(b)
	anc, ok := oracle.CommonAncestor(sa, sb)
	switch {
	case ok && anc == sa:
		return OfScope(sb), nil
	case ok && anc == sb:
		return OfScope(sa), nil
	default:
		return Lifetime{}, &NoOverlap{A: a, B: b}
	}
}

// Outlives reports whether sub ⊑ sup for two concrete lifetimes, i.e.
// whether sup is at least as long-lived as sub. It is defined in terms of
// LUB: sub ⊑ sup exactly when their least upper bound is sup.
func Outlives(oracle ScopeOracle, sub, sup Lifetime) bool {
	return LUB(oracle, sub, sup) == sup
}

func assertConcrete(l Lifetime, who string) {
	if l.Kind == KindVar {
		panic(&BugError{Msg: who + " invoked with a non-concrete (Var) lifetime: " + l.String()})
	}
}
