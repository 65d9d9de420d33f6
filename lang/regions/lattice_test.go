package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLUBStaticAbsorbs(t *testing.T) {
	tr := NewScopeTree()
	s := tr.Root()
	assert.Equal(t, Static(), LUB(tr, Static(), OfScope(s)))
	assert.Equal(t, Static(), LUB(tr, OfScope(s), Static()))
}

func TestLUBEmptyIdentity(t *testing.T) {
	tr := NewScopeTree()
	s := tr.Root()
	assert.Equal(t, OfScope(s), LUB(tr, Empty(), OfScope(s)))
	assert.Equal(t, OfScope(s), LUB(tr, OfScope(s), Empty()))
}

func TestLUBScopeAncestor(t *testing.T) {
	tr := NewScopeTree()
	root := tr.Root()
	a := tr.Child(root)
	b := tr.Child(root)

	got := LUB(tr, OfScope(a), OfScope(b))
	assert.Equal(t, OfScope(root), got)
}

func TestLUBNestedScopes(t *testing.T) {
	tr := NewScopeTree()
	root := tr.Root()
	child := tr.Child(root)
	grandchild := tr.Child(child)

	// the outer scope outlives the inner one, so their LUB is the outer.
	assert.Equal(t, OfScope(root), LUB(tr, OfScope(root), OfScope(grandchild)))
}

func TestLUBUnrelatedScopesFallsToStatic(t *testing.T) {
	tr := NewScopeTree()
	a := tr.Root()
	b := tr.Root()
	assert.Equal(t, Static(), LUB(tr, OfScope(a), OfScope(b)))
}

func TestGLBScopeDescendant(t *testing.T) {
	tr := NewScopeTree()
	root := tr.Root()
	child := tr.Child(root)

	got, err := GLB(tr, OfScope(root), OfScope(child))
	require.NoError(t, err)
	assert.Equal(t, OfScope(child), got)
}

func TestGLBUnrelatedScopesFails(t *testing.T) {
	tr := NewScopeTree()
	a := tr.Root()
	b := tr.Root()
	_, err := GLB(tr, OfScope(a), OfScope(b))
	require.Error(t, err)
	var noOverlap *NoOverlap
	assert.ErrorAs(t, err, &noOverlap)
}

func TestGLBStaticAndEmpty(t *testing.T) {
	tr := NewScopeTree()
	s := tr.Root()

	got, err := GLB(tr, Static(), OfScope(s))
	require.NoError(t, err)
	assert.Equal(t, OfScope(s), got)

	got, err = GLB(tr, OfScope(s), Empty())
	require.NoError(t, err)
	assert.Equal(t, Empty(), got)
}

func TestOutlivesIsReflexive(t *testing.T) {
	tr := NewScopeTree()
	s := tr.Root()
	assert.True(t, Outlives(tr, OfScope(s), OfScope(s)))
}

func TestOutlivesRespectsNesting(t *testing.T) {
	tr := NewScopeTree()
	root := tr.Root()
	child := tr.Child(root)

	assert.True(t, Outlives(tr, OfScope(child), OfScope(root)))
	assert.False(t, Outlives(tr, OfScope(root), OfScope(child)))
}

func TestFreeRegionsCombineViaDeclaredBound(t *testing.T) {
	tr := NewScopeTree()
	fn := tr.Root()
	a := Free{Scope: fn, ID: 0}
	b := Free{Scope: fn, ID: 1}
	tr.DeclareSubFree(a, b) // a ⊑ b, i.e. 'b: 'a

	assert.Equal(t, OfFree(b), LUB(tr, OfFree(a), OfFree(b)))
	got, err := GLB(tr, OfFree(a), OfFree(b))
	require.NoError(t, err)
	assert.Equal(t, OfFree(a), got)
}

func TestFreeRegionsWithNoDeclaredBoundFallToStatic(t *testing.T) {
	tr := NewScopeTree()
	fn := tr.Root()
	a := Free{Scope: fn, ID: 0}
	b := Free{Scope: fn, ID: 1}

	assert.Equal(t, Static(), LUB(tr, OfFree(a), OfFree(b)))
}

func TestFreeRegionsOfUnrelatedFunctionsFailGLB(t *testing.T) {
	tr := NewScopeTree()
	fnA := tr.Root()
	fnB := tr.Root()
	a := Free{Scope: fnA, ID: 0}
	b := Free{Scope: fnB, ID: 0}

	_, err := GLB(tr, OfFree(a), OfFree(b))
	require.Error(t, err)
}

func TestLatticeOperatorsPanicOnVar(t *testing.T) {
	tr := NewScopeTree()
	assert.Panics(t, func() { LUB(tr, OfVar(0), Static()) })
	assert.Panics(t, func() { _, _ = GLB(tr, OfVar(0), Static()) })
}
