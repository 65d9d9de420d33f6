package regions

// ScopeOracle is the scope-tree service the core requires from the
// surrounding compiler. The solver only ever consults this interface:
// production callers back it by whatever lexical-scope tree the type
// checker already maintains, and tests back it with ScopeTree (see
// scopetree.go).
type ScopeOracle interface {
	// CommonAncestor returns the nearest common ancestor scope of a and b, or
	// false if the two scopes do not share one (e.g. they belong to unrelated
	// functions).
	CommonAncestor(a, b ScopeID) (ScopeID, bool)

	// SubFree reports whether free region a is at most as long-lived as free
	// region b, i.e. a ⊑ b. It is only ever asked about two distinct Free
	// values, after the pair has been ordered by canonFree; both directions
	// of the canonical pair may be asked.
	SubFree(a, b Free) bool
}

// Origin is an opaque token supplied by the caller to identify where a
// variable or a constraint came from. The core never inspects an Origin; it
// only carries it through to diagnostics.
type Origin interface{}
