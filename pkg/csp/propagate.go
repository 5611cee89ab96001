package csp

// Result is the outcome of a propagator run: OK means every domain
// remains non-empty; DWO means some variable's current domain was
// wiped out. This replaces exception-style signaling with an explicit
// sum type the engine must check at every call site.
type Result int

const (
	OK Result = iota
	DWO
)

// forwardCheck implements FC (§4.4): for each unassigned neighbor u of
// the just-assigned v, remove every candidate value of u inconsistent
// with v's assignment under any constraint the pair shares.
func (s *Store) forwardCheck(v int) Result {
	vVal, _ := s.Assigned(v)
	for _, u := range s.UnassignedNeighbors(v) {
		cids := s.PairConstraints(v, u)
		var toRemove []int
		for _, x := range s.current[u].Values() {
			ok := true
			for _, cid := range cids {
				c := s.constraints[cid]
				if !c.Check(Assignment{v: vVal, u: x}) {
					ok = false
					break
				}
			}
			if !ok {
				toRemove = append(toRemove, x)
			}
		}
		for _, x := range toRemove {
			s.current[u].Remove(x)
			s.recordRemoval(u, x)
		}
		if s.current[u].IsEmpty() {
			return DWO
		}
	}
	return OK
}

// arc is a directed arc (Xi, Xj) in the AC3 worklist.
type arc struct{ xi, xj int }

// ac3 runs the classic AC3 worklist algorithm seeded from every arc
// incident to the variables in seeds, enforcing set-membership in the
// worklist to avoid duplicate entries (§4.4).
func (s *Store) ac3(seeds []int) Result {
	inQueue := make(map[arc]bool)
	var queue []arc

	push := func(a arc) {
		if !inQueue[a] {
			inQueue[a] = true
			queue = append(queue, a)
		}
	}

	for _, v := range seeds {
		for _, u := range s.UnassignedNeighbors(v) {
			push(arc{xi: u, xj: v})
		}
	}

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		inQueue[a] = false

		changed, wipeout := s.revise(a.xi, a.xj)
		if wipeout {
			return DWO
		}
		if changed {
			for _, xk := range s.Neighbors(a.xi) {
				if xk == a.xj {
					continue
				}
				if _, assigned := s.Assigned(xk); assigned {
					continue
				}
				push(arc{xi: xk, xj: a.xi})
			}
		}
	}
	return OK
}

// acfc runs FC first, then seeds AC3 from the variables FC touched
// (its unassigned neighbors), per §4.4.
func (s *Store) acfc(v int) Result {
	if s.forwardCheck(v) == DWO {
		return DWO
	}
	return s.ac3(s.UnassignedNeighbors(v))
}

// propagate dispatches to the configured propagator chain, always
// including GAC all-different when cfg.UseGACAllDiff is set, and
// returning early on the first DWO from either stage.
func (s *Store) propagate(v int, cfg SolveConfig) Result {
	if cfg.Monitor != nil {
		cfg.Monitor.StartPropagation()
		defer cfg.Monitor.EndPropagation()
	}

	var res Result
	switch cfg.Pruning {
	case PruningFC:
		res = s.forwardCheck(v)
	case PruningAC3:
		res = s.ac3([]int{v})
	case PruningACFC:
		res = s.acfc(v)
	default:
		res = OK
	}
	if res == DWO {
		return DWO
	}

	if cfg.UseGACAllDiff {
		if s.gacAllDifferent() == DWO {
			return DWO
		}
	}
	return OK
}
