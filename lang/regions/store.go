package regions

import "fmt"

// undoKind discriminates the four shapes of undo log entry.
type undoKind uint8

const (
	undoSnapshot undoKind = iota
	undoAddedVar
	undoAddedConstraint
	undoAddedCombine
)

type undoEntry struct {
	kind       undoKind
	v          VarID      // undoAddedVar
	cKey       key        // undoAddedConstraint
	combineKey combineKey // undoAddedCombine
}

// Store is the append-only, snapshottable constraint store: it owns the
// variables, their origins, the deduplicated constraint set, the LUB/GLB
// combine memos, the skolemization and fresh-bound counters, and the undo
// log that makes all of the above undoable within a building phase.
//
// A Store is built up by one logical agent at a time: every building-phase
// method below asserts that solving has not begun. Once Solve has run, the
// store is read-only; only ResolveVar may still be called.
type Store struct {
	oracle ScopeOracle

	vars        []variable
	constraints []Constraint
	constraintSet map[key]struct{}

	lubs *combineMemo
	glbs *combineMemo

	skolemCount uint32
	boundCount  uint32

	undo []undoEntry

	solved bool
	graph  *Graph
}

// NewStore creates an empty constraint store that will consult oracle for
// its scope-tree and free-region queries.
func NewStore(oracle ScopeOracle) *Store {
	return &Store{
		oracle:        oracle,
		constraintSet: make(map[key]struct{}),
		lubs:          newCombineMemo(),
		glbs:          newCombineMemo(),
	}
}

func (s *Store) bug(format string, args ...any) {
	panic(&BugError{Msg: fmt.Sprintf(format, args...)})
}

func (s *Store) assertBuilding() {
	if s.solved {
		s.bug("cannot mutate the constraint store after solving has begun")
	}
}

// InSnapshot reports whether a snapshot is currently open, i.e. whether the
// undo log is non-empty.
func (s *Store) InSnapshot() bool { return len(s.undo) > 0 }

// NumVars returns the number of variables created so far.
func (s *Store) NumVars() int { return len(s.vars) }

// VarOrigin returns the origin token that was supplied when v was created.
func (s *Store) VarOrigin(v VarID) Origin {
	if int(v) >= len(s.vars) {
		s.bug("VarOrigin: variable %d does not exist", v)
	}
	return s.vars[v].origin
}

// NewVar creates a fresh inference variable with the given origin and
// returns its dense index.
func (s *Store) NewVar(origin Origin) VarID {
	s.assertBuilding()
	v := VarID(len(s.vars))
	s.vars = append(s.vars, variable{origin: origin})
	if s.InSnapshot() {
		s.undo = append(s.undo, undoEntry{kind: undoAddedVar, v: v})
	}
	return v
}

// NewSkolem creates a fresh skolem witness standing in for the bound name b,
// incrementing the monotonic skolemization counter.
func (s *Store) NewSkolem(b uint32) Lifetime {
	s.assertBuilding()
	k := s.skolemCount
	s.skolemCount++
	return OfSkolem(k, b)
}

// NewFreshBound creates a fresh bound-lifetime name, incrementing the
// monotonic fresh-bound counter. It is used to generalize the result of a
// GLB computation back into a binder.
func (s *Store) NewFreshBound() Lifetime {
	s.assertBuilding()
	b := s.boundCount
	s.boundCount++
	return OfBound(b)
}

// addConstraint inserts c if it is not already present (shape-only dedup)
// and logs the addition if a snapshot is open. Returns true if it was new.
func (s *Store) addConstraint(c Constraint) bool {
	s.assertBuilding()
	k := c.key()
	if _, ok := s.constraintSet[k]; ok {
		return false
	}
	s.constraintSet[k] = struct{}{}
	s.constraints = append(s.constraints, c)
	if s.InSnapshot() {
		s.undo = append(s.undo, undoEntry{kind: undoAddedConstraint, cKey: k})
	}
	return true
}

// MakeSubregion records sub ⊑ sup, dispatching to the appropriate
// Constraint shape based on whether each side is a variable. Relating a
// Bound lifetime as either side is a caller bug: Bound names only ever
// appear as inputs to subtyping performed by the caller, never inside a
// constraint recorded here.
func (s *Store) MakeSubregion(origin Origin, sub, sup Lifetime) {
	s.assertBuilding()
	if sub.Kind == KindBound || sup.Kind == KindBound {
		s.bug("cannot relate a Bound lifetime as sub or super region: %s ⊑ %s", sub, sup)
	}

	switch {
	case sub.Kind == KindVar && sup.Kind == KindVar:
		s.addConstraint(Constraint{Kind: VarSubVar, A: sub.Var, B: sup.Var, SubOrigin: origin})
	case sup.Kind == KindVar:
		s.addConstraint(Constraint{Kind: RegSubVar, R: sub, B: sup.Var, SubOrigin: origin})
	case sub.Kind == KindVar:
		s.addConstraint(Constraint{Kind: VarSubReg, A: sub.Var, R: sup, SubOrigin: origin})
	default:
		s.addConstraint(Constraint{Kind: RegSubReg, Sub: sub, Sup: sup, SubOrigin: origin})
	}
}

// LubRegions returns a lifetime that outlives both a and b, synthesizing a
// fresh variable related to both when neither side already settles it.
func (s *Store) LubRegions(origin Origin, a, b Lifetime) Lifetime {
	s.assertBuilding()
	if a.Kind == KindStatic || b.Kind == KindStatic {
		return Static()
	}
	return s.combineVars(Lub, a, b, origin)
}

// GlbRegions returns a lifetime contained in both a and b, synthesizing a
// fresh variable related to both when neither side already settles it.
func (s *Store) GlbRegions(origin Origin, a, b Lifetime) Lifetime {
	s.assertBuilding()
	if a.Kind == KindStatic {
		return b
	}
	if b.Kind == KindStatic {
		return a
	}
	return s.combineVars(Glb, a, b, origin)
}

// combineVars implements the memoized fresh-variable synthesis shared by
// LubRegions and GlbRegions: look up the unordered pair in the memo for
// kind t, or else create a variable for it and relate both sides.
func (s *Store) combineVars(t CombineKind, a, b Lifetime, origin Origin) Lifetime {
	ck := makeCombineKey(t, a, b)
	memo := s.memoFor(t)
	if v, ok := memo.get(ck); ok {
		return OfVar(v)
	}

	c := s.NewVar(origin)
	memo.put(ck, c)
	if s.InSnapshot() {
		s.undo = append(s.undo, undoEntry{kind: undoAddedCombine, combineKey: ck})
	}

	cv := OfVar(c)
	if t == Lub {
		s.MakeSubregion(origin, a, cv)
		s.MakeSubregion(origin, b, cv)
	} else {
		s.MakeSubregion(origin, cv, a)
		s.MakeSubregion(origin, cv, b)
	}
	return cv
}

func (s *Store) memoFor(t CombineKind) *combineMemo {
	if t == Lub {
		return s.lubs
	}
	return s.glbs
}

// StartSnapshot opens a new snapshot and returns a depth token to later pass
// to RollbackTo. Nested snapshots share the single outermost marker: only
// the call that actually pushes the marker resets depth to zero.
func (s *Store) StartSnapshot() int {
	s.assertBuilding()
	if s.InSnapshot() {
		return len(s.undo)
	}
	s.undo = append(s.undo, undoEntry{kind: undoSnapshot})
	return 0
}

// Commit discards the entire undo log, making every change made since any
// open snapshot irrevocable.
func (s *Store) Commit() {
	s.assertBuilding()
	s.undo = s.undo[:0]
}

// RollbackTo undoes every change logged since depth was returned by
// StartSnapshot, restoring the store's variables, constraints and combine
// memos to their state at that point.
func (s *Store) RollbackTo(depth int) {
	s.assertBuilding()
	for len(s.undo) > depth {
		e := s.undo[len(s.undo)-1]
		s.undo = s.undo[:len(s.undo)-1]
		switch e.kind {
		case undoSnapshot:
			// marker only, nothing to undo
		case undoAddedVar:
			if int(e.v) != len(s.vars)-1 {
				s.bug("rollback: variable %d is not the most recently created (have %d)", e.v, len(s.vars)-1)
			}
			s.vars = s.vars[:len(s.vars)-1]
		case undoAddedConstraint:
			delete(s.constraintSet, e.cKey)
			s.constraints = s.constraints[:len(s.constraints)-1]
		case undoAddedCombine:
			s.memoFor(e.combineKey.kind).delete(e.combineKey)
		}
	}
}

// Constraints returns the accumulated constraints in insertion order. The
// returned slice is owned by the store and must not be mutated.
func (s *Store) Constraints() []Constraint { return s.constraints }

// VarsCreatedSinceSnapshot returns every variable whose AddedVar undo entry
// was logged at or after depth, in creation order. The surrounding type
// checker uses this together with Tainted to detect a skolemized region
// leaking into a variable that predates the snapshot: if a skolem witness
// taints a variable not present in this list, the leak escaped the scope
// the skolemization was supposed to be confined to.
func (s *Store) VarsCreatedSinceSnapshot(depth int) []VarID {
	var out []VarID
	for i := depth; i < len(s.undo); i++ {
		if s.undo[i].kind == undoAddedVar {
			out = append(out, s.undo[i].v)
		}
	}
	return out
}
