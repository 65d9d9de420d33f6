package regions

// Tainted returns every lifetime transitively related to the seed r0 by
// constraints added at or after the given snapshot depth, treating the
// relation as its symmetric closure (edges are undirected for taint
// purposes). It is exposed so the surrounding type checker can detect a
// skolemized region leaking into a variable that existed before the
// skolemization was introduced.
//
// The returned set always contains r0.
func (s *Store) Tainted(snapshot int, r0 Lifetime) map[Lifetime]struct{} {
	result := map[Lifetime]struct{}{r0: {}}
	worklist := []Lifetime{r0}

	for len(worklist) > 0 {
		r := worklist[0]
		worklist = worklist[1:]

		for i := snapshot; i < len(s.undo); i++ {
			e := s.undo[i]
			if e.kind != undoAddedConstraint {
				continue
			}
			r1, r2, ok := regionsOf(e.cKey)
			if !ok {
				continue
			}
			worklist = considerAdding(result, worklist, r, r1, r2)
			worklist = considerAdding(result, worklist, r, r2, r1)
		}
	}
	return result
}

func considerAdding(result map[Lifetime]struct{}, worklist []Lifetime, r, x, y Lifetime) []Lifetime {
	if r != x {
		return worklist
	}
	if _, ok := result[y]; ok {
		return worklist
	}
	result[y] = struct{}{}
	return append(worklist, y)
}

// regionsOf extracts the pair of lifetimes directly related by a logged
// constraint shape. RegSubReg constraints still participate in taint (they
// carry no variable but do relate two concrete regions).
func regionsOf(k key) (r1, r2 Lifetime, ok bool) {
	switch k.kind {
	case VarSubVar:
		return OfVar(k.a), OfVar(k.b), true
	case RegSubVar:
		return k.r, OfVar(k.b), true
	case VarSubReg:
		return OfVar(k.a), k.r, true
	case RegSubReg:
		return k.sub, k.sup, true
	default:
		return Lifetime{}, Lifetime{}, false
	}
}
