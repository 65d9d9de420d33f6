package regions

// Solve runs the two-phase fixed-point propagation over the accumulated
// constraints and returns the structured errors it finds. It must be called
// exactly once; afterwards the store no longer accepts new constraints and
// ResolveVar becomes callable.
//
// Solve never returns a Go error for unsatisfiable constraints: those are
// reported as ResolutionError records in the returned ErrorList, which is
// empty (not nil) when nothing went wrong.
func (s *Store) Solve() ErrorList {
	if s.solved {
		s.bug("Solve called twice")
	}
	s.solved = true

	g := BuildGraph(originsOf(s.vars), s.constraints)
	s.graph = g

	expand(s.oracle, g)
	contract(s.oracle, g)

	errs := ErrorList{}
	errs = append(errs, concreteConflicts(s.oracle, g)...)
	errs = append(errs, extractAndCollect(s.oracle, g)...)
	return errs
}

func originsOf(vars []variable) []Origin {
	out := make([]Origin, len(vars))
	for i, v := range vars {
		out[i] = v.origin
	}
	return out
}

// ResolveVar returns the final lifetime assigned to v. It is a bug to call
// this before Solve has run.
func (s *Store) ResolveVar(v VarID) Lifetime {
	if !s.solved {
		s.bug("ResolveVar called before Solve")
	}
	n := &s.graph.Nodes[v]
	switch n.state {
	case hasValue:
		return n.Value
	case noValue:
		return Empty()
	default: // errorValue
		return Static()
	}
}

// --- Phase A: expansion -----------------------------------------------

// expand runs the fixed-point pass that propagates concrete lower bounds
// upward through VarSubVar edges until nothing changes in a full pass.
func expand(oracle ScopeOracle, g *Graph) {
	for {
		changed := false
		for i := range g.Edges {
			c := g.Edges[i].Constraint
			switch c.Kind {
			case RegSubVar:
				if expandNode(oracle, g, c.R, c.B) {
					changed = true
				}
			case VarSubVar:
				an := &g.Nodes[c.A]
				if an.state == hasValue {
					if expandNode(oracle, g, an.Value, c.B) {
						changed = true
					}
				}
			}
		}
		if !changed {
			return
		}
	}
}

func expandNode(oracle ScopeOracle, g *Graph, aRegion Lifetime, bVid VarID) bool {
	b := &g.Nodes[bVid]
	b.Class = Expanding
	switch b.state {
	case noValue:
		b.state = hasValue
		b.Value = aRegion
		return true
	case hasValue:
		lub := LUB(oracle, aRegion, b.Value)
		if lub == b.Value {
			return false
		}
		b.Value = lub
		return true
	default: // errorValue
		return false
	}
}

// --- Phase B: contraction -----------------------------------------------

// contract runs the fixed-point pass that propagates concrete upper bounds
// downward through VarSubVar edges until nothing changes in a full pass.
func contract(oracle ScopeOracle, g *Graph) {
	for {
		changed := false
		for i := range g.Edges {
			c := g.Edges[i].Constraint
			switch c.Kind {
			case VarSubReg:
				if contractNode(oracle, g, c.A, c.R) {
					changed = true
				}
			case VarSubVar:
				bn := &g.Nodes[c.B]
				if bn.state == hasValue {
					if contractNode(oracle, g, c.A, bn.Value) {
						changed = true
					}
				}
			}
		}
		if !changed {
			return
		}
	}
}

func contractNode(oracle ScopeOracle, g *Graph, aVid VarID, bRegion Lifetime) bool {
	a := &g.Nodes[aVid]
	switch a.state {
	case noValue:
		a.state = hasValue
		a.Value = bRegion
		return true
	case errorValue:
		return false
	default: // hasValue
		if a.Class == Expanding {
			// The value is already settled by expansion; this is a check,
			// not an adjustment, and never reports a change so the fixed
			// point is still reached even though a later pass may revisit
			// (and re-check) the same node.
			if !Outlives(oracle, a.Value, bRegion) {
				a.state = errorValue
			}
			return false
		}
		glb, err := GLB(oracle, a.Value, bRegion)
		if err != nil {
			a.state = errorValue
			return false
		}
		if glb == a.Value {
			return false
		}
		a.Value = glb
		return true
	}
}

// --- Phase C: concrete conflicts ----------------------------------------

func concreteConflicts(oracle ScopeOracle, g *Graph) ErrorList {
	var errs ErrorList
	for _, e := range g.Edges {
		if e.Constraint.Kind != RegSubReg {
			continue
		}
		sub, sup := e.Constraint.Sub, e.Constraint.Sup
		if Outlives(oracle, sub, sup) {
			continue
		}
		errs = append(errs, &ResolutionError{
			Kind:   ConcreteFailure,
			Origin: e.Constraint.SubOrigin,
			Sub:    sub,
			Sup:    sup,
		})
	}
	return errs
}

// --- Phase D: extraction and conflict collection -------------------------

func extractAndCollect(oracle ScopeOracle, g *Graph) ErrorList {
	dupVec := make([]uint32, len(g.Nodes))
	for i := range dupVec {
		dupVec[i] = noEdge
	}

	var errs ErrorList
	for idx := range g.Nodes {
		n := &g.Nodes[idx]
		if n.state != errorValue {
			continue
		}
		v := VarID(idx)
		if n.Class == Expanding {
			if e := collectErrorForExpandingNode(oracle, g, dupVec, v); e != nil {
				errs = append(errs, e)
			}
		} else {
			if e := collectErrorForContractingNode(oracle, g, dupVec, v); e != nil {
				errs = append(errs, e)
			}
		}
	}
	return errs
}

// regionAndOrigin is one concrete bound discovered while walking the graph
// in search of a witness for an inconsistent variable.
type regionAndOrigin struct {
	region Lifetime
	origin Origin
}

func collectErrorForExpandingNode(oracle ScopeOracle, g *Graph, dupVec []uint32, v VarID) *ResolutionError {
	lowerBounds, lowerDup := collectConcreteRegions(g, v, Incoming, dupVec)
	upperBounds, upperDup := collectConcreteRegions(g, v, Outgoing, dupVec)
	if lowerDup || upperDup {
		// Another, already-reported root claimed part of this subgraph;
		// its error covers this one too.
		return nil
	}

	for _, lo := range lowerBounds {
		for _, up := range upperBounds {
			if !Outlives(oracle, lo.region, up.region) {
				return &ResolutionError{
					Kind:         SubSupConflict,
					VarOrigin:    g.Nodes[v].Origin,
					FirstOrigin:  lo.origin,
					FirstRegion:  lo.region,
					SecondOrigin: up.origin,
					SecondRegion: up.region,
				}
			}
		}
	}
	panic(&BugError{Msg: "collectErrorForExpandingNode: no conflicting bound pair found for an ErrorValue node"})
}

func collectErrorForContractingNode(oracle ScopeOracle, g *Graph, dupVec []uint32, v VarID) *ResolutionError {
	upperBounds, dupFound := collectConcreteRegions(g, v, Outgoing, dupVec)
	if dupFound {
		return nil
	}

	for _, u1 := range upperBounds {
		for _, u2 := range upperBounds {
			if _, err := GLB(oracle, u1.region, u2.region); err != nil {
				return &ResolutionError{
					Kind:         SupSupConflict,
					VarOrigin:    g.Nodes[v].Origin,
					FirstOrigin:  u1.origin,
					FirstRegion:  u1.region,
					SecondOrigin: u2.origin,
					SecondRegion: u2.region,
				}
			}
		}
	}
	panic(&BugError{Msg: "collectErrorForContractingNode: no conflicting upper-bound pair found for an ErrorValue node"})
}

// collectConcreteRegions walks the subgraph reachable from root by
// following edges in dir for the root itself, and thereafter in whatever
// direction each visited node's own classification prescribes (Expanding
// routes toward Incoming edges, Contracting toward Outgoing edges): this
// steers the walk toward the concrete regions that justify the node's
// value. VarSubVar edges extend the walk to the opposite variable;
// RegSubVar/VarSubReg edges contribute a terminal (region, origin) bound.
//
// dupVec marks, for every node visited by any call during the current
// resolve pass, which root first claimed it; a second root touching an
// already-claimed node sets dupFound so the caller can suppress what would
// otherwise be a cascading duplicate error.
func collectConcreteRegions(g *Graph, root VarID, dir Direction, dupVec []uint32) ([]regionAndOrigin, bool) {
	visited := map[VarID]struct{}{root: {}}
	worklist := []VarID{root}
	var result []regionAndOrigin
	dupFound := false

	processEdges := func(v VarID, d Direction) {
		g.EachEdge(v, d, func(_ uint32, e *Edge) {
			switch e.Constraint.Kind {
			case VarSubVar:
				opp := e.Constraint.B
				if opp == v {
					opp = e.Constraint.A
				}
				if _, ok := visited[opp]; !ok {
					visited[opp] = struct{}{}
					worklist = append(worklist, opp)
				}
			case RegSubVar:
				result = append(result, regionAndOrigin{region: e.Constraint.R, origin: e.Constraint.SubOrigin})
			case VarSubReg:
				result = append(result, regionAndOrigin{region: e.Constraint.R, origin: e.Constraint.SubOrigin})
			case RegSubReg:
				// no variable endpoint, nothing to collect here
			}
		})
	}

	processEdges(root, dir)
	for len(worklist) > 0 {
		v := worklist[0]
		worklist = worklist[1:]
		if v == root {
			continue
		}

		if dupVec[v] == noEdge {
			dupVec[v] = uint32(root)
		} else if dupVec[v] != uint32(root) {
			dupFound = true
		}

		nodeDir := Incoming
		if g.Nodes[v].Class == Contracting {
			nodeDir = Outgoing
		}
		processEdges(v, nodeDir)
	}

	if dupVec[root] == noEdge {
		dupVec[root] = uint32(root)
	} else if dupVec[root] != uint32(root) {
		dupFound = true
	}

	return result, dupFound
}
