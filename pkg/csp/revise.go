package csp

// revise enforces arc consistency of Xi with respect to Xj: every
// value remaining in Xi's current domain must have some supporting
// value in Xj's current domain under every constraint whose scope is
// a subset of {Xi, Xj}. Unsupported values are removed and logged in
// the active pruning frame.
//
// The residual-support cache (AC-2001) is never rolled back on
// backtrack: a stale cached support costs exactly one extra failed
// scan, after which the cache self-heals by recording the new
// support. This trades a small amount of wasted work for avoiding an
// undo-log entry per cache write.
func (s *Store) revise(xi, xj int) (changed, wipeout bool) {
	cids := s.PairConstraints(xi, xj)
	if len(cids) == 0 {
		return false, false
	}
	representative := cids[0]

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
		key := residualKey{constraintID: representative, xi: xi, value: x, xj: xj}
		if cached, ok := s.residual[key]; ok && s.current[xj].Contains(cached) && satisfies(x, cached) {
			continue
		}

		supported := false
		for _, y := range s.current[xj].Values() {
			if satisfies(x, y) {
				s.residual[key] = y
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
		s.recordRemoval(xi, x)
	}
	return true, s.current[xi].IsEmpty()
}

func scopeSubsetOfPair(scope []int, xi, xj int) bool {
	for _, v := range scope {
		if v != xi && v != xj {
			return false
		}
	}
	return true
}
