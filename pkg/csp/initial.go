package csp

// initialPropagation implements §4.8: before the first search step,
// every variable whose current domain holds a single value (a
// "given"; an equality-to-constant constraint alone does not make a
// variable one) prunes its value from
// every neighbor, and an AC3 cascade seeded from those arcs runs to a
// fixpoint. These prunings are made directly against current_domains
// with no pruning-log entry and are never rolled back — per §9's
// explicit preservation of that source behavior, they are permanent
// for the life of this solve. Returns false if a contradiction is
// found (reported by the caller as UNSAT, not a fault).
func (s *Store) initialPropagation() bool {
	var givens []int
	for v := 0; v < s.NumVars; v++ {
		if s.current[v].Len() == 1 {
			givens = append(givens, v)
		}
	}

	for _, v := range givens {
		value := s.current[v].Values()[0]
		for _, u := range s.Neighbors(v) {
			if u == v || s.current[u].Len() == 1 {
				continue
			}
			if s.current[u].Contains(value) {
				s.current[u].Remove(value)
				if s.current[u].IsEmpty() {
					return false
				}
			}
		}
	}

	return s.initialAC3(givens)
}

// initialAC3 runs AC3 directly against current_domains with no
// pruning-log bookkeeping, seeded from every arc incident to a given.
// Distinct from the search-time ac3 (propagate.go), which always logs
// removals for rollback.
func (s *Store) initialAC3(seeds []int) bool {
	type arc struct{ xi, xj int }
	inQueue := make(map[arc]bool)
	var queue []arc

	push := func(a arc) {
		if !inQueue[a] {
			inQueue[a] = true
			queue = append(queue, a)
		}
	}

	for _, v := range seeds {
		for _, u := range s.Neighbors(v) {
			push(arc{xi: u, xj: v})
		}
	}

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		inQueue[a] = false

		changed, wipeout := s.reviseNoLog(a.xi, a.xj)
		if wipeout {
			return false
		}
		if changed {
			for _, xk := range s.Neighbors(a.xi) {
				if xk != a.xj {
					push(arc{xi: xk, xj: a.xi})
				}
			}
		}
	}
	return true
}

// reviseNoLog is revise (§4.3) without pruning-log bookkeeping, used
// only by initial propagation whose prunings are permanent and never
// undone within a solve.
func (s *Store) reviseNoLog(xi, xj int) (changed, wipeout bool) {
	cids := s.PairConstraints(xi, xj)
	if len(cids) == 0 {
		return false, false
	}

	satisfies := func(x, y int) bool {
		asn := Assignment{xi: x, xj: y}
		for _, cid := range cids {
			c := s.constraints[cid]
			if !scopeSubsetOfPair(c.Scope, xi, xj) {
				continue
			}
			if !c.Check(asn) {
				return false
			}
		}
		return true
	}

	var toRemove []int
	for _, x := range s.current[xi].Values() {
		supported := false
		for _, y := range s.current[xj].Values() {
			if satisfies(x, y) {
				supported = true
				break
			}
		}
		if !supported {
			toRemove = append(toRemove, x)
		}
	}
	if len(toRemove) == 0 {
		return false, false
	}
	for _, x := range toRemove {
		s.current[xi].Remove(x)
	}
	return true, s.current[xi].IsEmpty()
}
