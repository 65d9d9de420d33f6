// Package regions implements the region (lifetime) inference core used by
// the surrounding type checker of a function body. It assigns concrete
// lifetime values to inference variables that satisfy all outlives
// constraints accumulated during a checking pass, or reports the conflicts
// that make the system unsatisfiable.
//
// The package owns the constraint store, the lattice operators used to
// combine concrete lifetimes, a taint walker for skolemization-leak
// detection, and the two-phase fixed-point solver. It never parses source,
// never walks an AST and never renders diagnostics: those are the
// responsibility of the caller, which supplies a ScopeOracle and collects
// the structured error records that (*Store).Solve produces.
package regions

import "fmt"

// ScopeID identifies a lexical scope. The core never interprets the value;
// it only ever asks the ScopeOracle to compare or combine two of them.
type ScopeID uint32

// FreeID is the identity tag carried by a Free lifetime. It exists solely to
// give LUB/GLB a stable, argument-order-independent way to canonicalize a
// pair of free regions before asking the oracle to relate them.
type FreeID uint32

// VarID is the dense, zero-based index of an inference variable.
type VarID uint32

// Kind discriminates the cases of a Lifetime value.
type Kind uint8

const (
	// KindStatic outlives everything.
	KindStatic Kind = iota
	// KindEmpty is outlived by everything.
	KindEmpty
	// KindScope is the lexical scope identified by Lifetime.Scope.
	KindScope
	// KindFree is a function-parameter lifetime.
	KindFree
	// KindVar is an inference variable, not yet resolved to a concrete value.
	KindVar
	// KindSkolem is a skolem witness generated for a higher-rank subtyping
	// check, remembering the bound name it stood for.
	KindSkolem
	// KindBound is a name internal to a function type's binder. It may only
	// ever appear as an input to subtyping, never in a solved variable value.
	KindBound
)

var kindNames = [...]string{
	KindStatic: "static",
	KindEmpty:  "empty",
	KindScope:  "scope",
	KindFree:   "free",
	KindVar:    "var",
	KindSkolem: "skolem",
	KindBound:  "bound",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("<invalid Kind %d>", k)
	}
	return kindNames[k]
}

// Free is the payload of a KindFree lifetime: a function-parameter lifetime
// tied to the scope of the function that introduced it, with an identity
// tag used to order a pair of Free values deterministically.
type Free struct {
	Scope ScopeID
	ID    FreeID
}

// Lifetime is a concrete or in-progress lifetime value. It is a small,
// fixed-arity tagged variant rather than an interface: every field below is
// meaningful only for its matching Kind, which keeps Lifetime comparable
// and cheap to use as a map key (the combine memo keys on pairs of it).
type Lifetime struct {
	Kind   Kind
	Scope  ScopeID // KindScope
	Free   Free    // KindFree
	Var    VarID   // KindVar
	Bound  uint32  // KindSkolem (the bound name it stands for) or KindBound (its own name)
	Skolem uint32  // KindSkolem: the k-th skolemization that produced it
}

// Static returns the lifetime that outlives everything.
func Static() Lifetime { return Lifetime{Kind: KindStatic} }

// Empty returns the lifetime that is outlived by everything.
func Empty() Lifetime { return Lifetime{Kind: KindEmpty} }

// OfScope returns the lifetime of the lexical scope s.
func OfScope(s ScopeID) Lifetime { return Lifetime{Kind: KindScope, Scope: s} }

// OfFree returns the lifetime of the function-parameter region f.
func OfFree(f Free) Lifetime { return Lifetime{Kind: KindFree, Free: f} }

// OfVar returns the lifetime referring to inference variable v.
func OfVar(v VarID) Lifetime { return Lifetime{Kind: KindVar, Var: v} }

// OfSkolem returns the k-th skolem witness standing in for bound name b.
func OfSkolem(k uint32, b uint32) Lifetime { return Lifetime{Kind: KindSkolem, Skolem: k, Bound: b} }

// OfBound returns the binder-local bound name b.
func OfBound(b uint32) Lifetime { return Lifetime{Kind: KindBound, Bound: b} }

// IsConcrete reports whether the value is anything other than KindVar. The
// lattice operators must never be called with a non-concrete lifetime.
func (l Lifetime) IsConcrete() bool { return l.Kind != KindVar }

func (l Lifetime) String() string {
	switch l.Kind {
	case KindStatic:
		return "'static"
	case KindEmpty:
		return "'empty"
	case KindScope:
		return fmt.Sprintf("'scope(%d)", l.Scope)
	case KindFree:
		return fmt.Sprintf("'free(%d,#%d)", l.Free.Scope, l.Free.ID)
	case KindVar:
		return fmt.Sprintf("'_#%d", l.Var)
	case KindSkolem:
		return fmt.Sprintf("'skol(%d,%%%d)", l.Skolem, l.Bound)
	case KindBound:
		return fmt.Sprintf("'%%%d", l.Bound)
	default:
		return fmt.Sprintf("<invalid Lifetime %#v>", l)
	}
}

// less gives Lifetime a total, arbitrary-but-stable order. It is used only
// to canonicalize the unordered pair key of the combine memo: combine(a, b)
// and combine(b, a) must hit the same memo entry.
func less(a, b Lifetime) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	switch a.Kind {
	case KindScope:
		return a.Scope < b.Scope
	case KindFree:
		if a.Free.Scope != b.Free.Scope {
			return a.Free.Scope < b.Free.Scope
		}
		return a.Free.ID < b.Free.ID
	case KindVar:
		return a.Var < b.Var
	case KindSkolem:
		if a.Skolem != b.Skolem {
			return a.Skolem < b.Skolem
		}
		return a.Bound < b.Bound
	case KindBound:
		return a.Bound < b.Bound
	default:
		return false
	}
}
