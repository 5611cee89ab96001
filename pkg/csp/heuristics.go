package csp

// unassignedVars returns every variable index not currently assigned,
// in ascending order (the deterministic tie-break order).
func (s *Store) unassignedVars() []int {
	out := make([]int, 0, s.NumVars)
	for v := 0; v < s.NumVars; v++ {
		if _, ok := s.assignment[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// selectVariable picks the next variable to branch on according to
// cfg.Ordering. All three strategies break ties at equal score by
// choosing the lowest index, matching the loop order below.
func (s *Store) selectVariable(cfg SolveConfig) int {
	switch cfg.Ordering {
	case OrderingMRV:
		return s.selectMRV()
	case OrderingDomWdeg:
		return s.selectDomWdeg()
	default:
		return s.selectStatic()
	}
}

func (s *Store) selectStatic() int {
	for v := 0; v < s.NumVars; v++ {
		if _, ok := s.assignment[v]; !ok {
			return v
		}
	}
	return -1
}

func (s *Store) selectMRV() int {
	best := -1
	bestLen := -1
	for v := 0; v < s.NumVars; v++ {
		if _, ok := s.assignment[v]; ok {
			continue
		}
		l := s.current[v].Len()
		if best == -1 || l < bestLen {
			best, bestLen = v, l
		}
	}
	return best
}

// weightedDegree computes wdeg(v): the sum of weights over every
// constraint in v's list that still has at least two unassigned scope
// members (§4.7).
func (s *Store) weightedDegree(v int) float64 {
	var total float64
	for _, cid := range s.varConstraints[v] {
		c := s.constraints[cid]
		unassignedCount := 0
		for _, u := range c.Scope {
			if _, ok := s.assignment[u]; !ok {
				unassignedCount++
			}
		}
		if unassignedCount >= 2 {
			total += c.Weight
		}
	}
	return total
}

func (s *Store) selectDomWdeg() int {
	best := -1
	var bestScore float64
	for v := 0; v < s.NumVars; v++ {
		if _, ok := s.assignment[v]; ok {
			continue
		}
		domLen := float64(s.current[v].Len())
		wdeg := s.weightedDegree(v)
		var score float64
		if wdeg == 0 {
			score = domLen
		} else {
			score = domLen / wdeg
		}
		if best == -1 || score < bestScore {
			best, bestScore = v, score
		}
	}
	return best
}

// bumpWeights implements the dom/wdeg feedback of §4.4/§4.7: on a DWO
// attributed to assigning v, every constraint containing v and at
// least one other unassigned variable has its weight incremented by 1.
func (s *Store) bumpWeights(v int) {
	for _, cid := range s.varConstraints[v] {
		c := s.constraints[cid]
		if !scopeContains(c.Scope, v) {
			continue
		}
		hasOtherUnassigned := false
		for _, u := range c.Scope {
			if u == v {
				continue
			}
			if _, ok := s.assignment[u]; !ok {
				hasOtherUnassigned = true
				break
			}
		}
		if hasOtherUnassigned {
			c.Weight++
		}
	}
}
