package regions

import "fmt"

// ConstraintKind discriminates the four shapes a Constraint may take.
type ConstraintKind uint8

const (
	// VarSubVar constrains Var(A) ⊑ Var(B).
	VarSubVar ConstraintKind = iota
	// RegSubVar constrains a concrete region R ⊑ Var(B).
	RegSubVar
	// VarSubReg constrains Var(A) ⊑ a concrete region R.
	VarSubReg
	// RegSubReg is a purely concrete constraint, carried through to
	// diagnostics only; it never touches a variable.
	RegSubReg
)

// Constraint is one outlives-edge accumulated by the store. Exactly one of
// the (A, B) / (R, B) / (A, R) / (Sub, Sup) field pairs is meaningful,
// selected by Kind.
type Constraint struct {
	Kind ConstraintKind

	A, B VarID    // VarSubVar
	R    Lifetime // RegSubVar (sub), VarSubReg (sup)
	Sub  Lifetime // RegSubReg
	Sup  Lifetime // RegSubReg

	// SubOrigin is the opaque token identifying where this constraint came
	// from; it participates in diagnostics only, never in the dedup key.
	SubOrigin Origin
}

func (c Constraint) String() string {
	switch c.Kind {
	case VarSubVar:
		return fmt.Sprintf("%s ⊑ %s", OfVar(c.A), OfVar(c.B))
	case RegSubVar:
		return fmt.Sprintf("%s ⊑ %s", c.R, OfVar(c.B))
	case VarSubReg:
		return fmt.Sprintf("%s ⊑ %s", OfVar(c.A), c.R)
	case RegSubReg:
		return fmt.Sprintf("%s ⊑ %s", c.Sub, c.Sup)
	default:
		return fmt.Sprintf("<invalid Constraint %#v>", c)
	}
}

// key is the shape-only identity used to deduplicate constraints on
// insertion: the origin is intentionally excluded.
type key struct {
	kind ConstraintKind
	a, b VarID
	r    Lifetime
	sub  Lifetime
	sup  Lifetime
}

func (c Constraint) key() key {
	switch c.Kind {
	case VarSubVar:
		return key{kind: VarSubVar, a: c.A, b: c.B}
	case RegSubVar:
		return key{kind: RegSubVar, r: c.R, b: c.B}
	case VarSubReg:
		return key{kind: VarSubReg, a: c.A, r: c.R}
	case RegSubReg:
		return key{kind: RegSubReg, sub: c.Sub, sup: c.Sup}
	default:
		panic(&BugError{Msg: fmt.Sprintf("invalid constraint kind %d", c.Kind)})
	}
}

// variable is a created inference variable, identified by its dense index
// in Store.vars; it holds the opaque origin token identifying where it
// came from.
type variable struct {
	origin Origin
}
