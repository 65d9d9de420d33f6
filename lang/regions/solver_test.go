package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSolveTransitiveLub mirrors a chain scope(10) <= $0 <= $1 <= $2: every
// variable should settle on scope(10).
func TestSolveTransitiveLub(t *testing.T) {
	tr := NewScopeTree()
	outer := tr.Root()
	inner := tr.Child(outer)

	s := NewStore(tr)
	v0 := s.NewVar("v0")
	v1 := s.NewVar("v1")
	v2 := s.NewVar("v2")
	s.MakeSubregion("o1", OfScope(inner), OfVar(v0))
	s.MakeSubregion("o2", OfVar(v0), OfVar(v1))
	s.MakeSubregion("o3", OfVar(v1), OfVar(v2))

	errs := s.Solve()
	require.Empty(t, errs)
	assert.Equal(t, OfScope(inner), s.ResolveVar(v0))
	assert.Equal(t, OfScope(inner), s.ResolveVar(v1))
	assert.Equal(t, OfScope(inner), s.ResolveVar(v2))
	_ = outer
}

// TestSolveExpandingSubSupConflict mirrors two incompatible lower bounds
// expanding a variable past what a single upper bound allows.
func TestSolveExpandingSubSupConflict(t *testing.T) {
	tr := NewScopeTree()
	root := tr.Root()
	a := tr.Child(root)
	b := tr.Child(root)

	s := NewStore(tr)
	v0 := s.NewVar("v0")
	s.MakeSubregion("lowerA", OfScope(a), OfVar(v0))
	s.MakeSubregion("lowerB", OfScope(b), OfVar(v0))
	s.MakeSubregion("upperA", OfVar(v0), OfScope(a))

	errs := s.Solve()
	require.Len(t, errs, 1)
	assert.Equal(t, SubSupConflict, errs[0].Kind)
	assert.Equal(t, Static(), s.ResolveVar(v0))
}

// TestSolveContractingSupSupConflict mirrors a variable with two upper
// bounds from disjoint scopes and no lower bound at all.
func TestSolveContractingSupSupConflict(t *testing.T) {
	tr := NewScopeTree()
	a := tr.Root()
	b := tr.Root()

	s := NewStore(tr)
	v0 := s.NewVar("v0")
	s.MakeSubregion("upperA", OfVar(v0), OfScope(a))
	s.MakeSubregion("upperB", OfVar(v0), OfScope(b))

	errs := s.Solve()
	require.Len(t, errs, 1)
	assert.Equal(t, SupSupConflict, errs[0].Kind)
	assert.Equal(t, Static(), s.ResolveVar(v0))
}

func TestSolveUnconstrainedVarResolvesToEmpty(t *testing.T) {
	s := NewStore(NewScopeTree())
	v0 := s.NewVar("v0")
	errs := s.Solve()
	require.Empty(t, errs)
	assert.Equal(t, Empty(), s.ResolveVar(v0))
}

func TestSolveConcreteFailureOnDisjointRegSubReg(t *testing.T) {
	tr := NewScopeTree()
	a := tr.Root()
	b := tr.Root()

	s := NewStore(tr)
	s.MakeSubregion("bad", OfScope(a), OfScope(b))

	errs := s.Solve()
	require.Len(t, errs, 1)
	assert.Equal(t, ConcreteFailure, errs[0].Kind)
}

func TestSolveIsCallableOnlyOnce(t *testing.T) {
	s := NewStore(NewScopeTree())
	s.NewVar(nil)
	s.Solve()
	assert.Panics(t, func() { s.Solve() })
}

// TestSolveLubViaCombineVars checks that a variable produced by LubRegions
// resolves to the expected least upper bound once solved.
func TestSolveLubViaCombineVars(t *testing.T) {
	tr := NewScopeTree()
	root := tr.Root()
	a := tr.Child(root)
	b := tr.Child(root)

	s := NewStore(tr)
	combined := s.LubRegions("combine", OfScope(a), OfScope(b))

	errs := s.Solve()
	require.Empty(t, errs)
	assert.Equal(t, OfScope(root), s.ResolveVar(combined.Var))
}
