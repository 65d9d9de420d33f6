package regions

import "github.com/dolthub/swiss"

// CombineKind selects which combine memo (LUB's or GLB's) a pair of
// lifetimes is looked up in.
type CombineKind uint8

const (
	// Lub is the least-upper-bound combine memo.
	Lub CombineKind = iota
	// Glb is the greatest-lower-bound combine memo.
	Glb
)

func (k CombineKind) String() string {
	if k == Lub {
		return "lub"
	}
	return "glb"
}

// combineKey is the unordered-pair key of the combine memo: combine(t, a, b)
// and combine(t, b, a) must resolve to the same entry, so the pair is
// canonicalized with less() before it is ever used as a key.
type combineKey struct {
	kind   CombineKind
	lo, hi Lifetime
}

func makeCombineKey(t CombineKind, a, b Lifetime) combineKey {
	if less(b, a) {
		a, b = b, a
	}
	return combineKey{kind: t, lo: a, hi: b}
}

// combineMemo maps an unordered pair of lifetimes under a LUB or GLB
// combination to the variable synthesized for it, backed by a swiss.Map
// (an open-addressing hash map). It preserves idempotence: once a pair has been
// combined, repeated calls return the same synthesized variable.
type combineMemo struct {
	m *swiss.Map[combineKey, VarID]
}

func newCombineMemo() *combineMemo {
	return &combineMemo{m: swiss.NewMap[combineKey, VarID](8)}
}

func (cm *combineMemo) get(k combineKey) (VarID, bool) {
	return cm.m.Get(k)
}

func (cm *combineMemo) put(k combineKey, v VarID) {
	cm.m.Put(k, v)
}

func (cm *combineMemo) delete(k combineKey) {
	cm.m.Delete(k)
}
