package csp

import "math/rand"

// conflictCount returns the number of constraints in v's list that
// evaluate false under total, the literal definition mandated by §9:
// a variable is in conflict iff some constraint in its list evaluates
// false under the current total assignment, regardless of arity.
func (s *Store) conflictCount(v int, total Solution) int {
	count := 0
	asn := make(Assignment, s.NumVars)
	for i, x := range total {
		asn[i] = x
	}
	for _, cid := range s.varConstraints[v] {
		if !s.constraints[cid].Check(asn) {
			count++
		}
	}
	return count
}

// totalConflictsWith counts the constraints in v's list that evaluate
// false when v is tentatively set to candidate (total is restored
// before returning). Constraints outside v's list are unaffected by
// the change, so minimizing this count minimizes the total conflict
// count. Used only to evaluate candidate reassignments, not as the
// per-variable predicate.
func (s *Store) totalConflictsWith(v, candidate int, total Solution) int {
	saved := total[v]
	total[v] = candidate
	defer func() { total[v] = saved }()

	asn := make(Assignment, s.NumVars)
	for i, x := range total {
		asn[i] = x
	}
	count := 0
	for _, cid := range s.varConstraints[v] {
		if !s.constraints[cid].Check(asn) {
			count++
		}
	}
	return count
}

// MinConflicts runs the incomplete local-search alternative (C9): seed
// a random total assignment, repeatedly repair a variable in conflict
// by reassigning it to the value minimizing its own conflict count
// (ties broken uniformly at random), and stop at zero conflicts or the
// iteration cap. It never mutates the Store's current domains or
// pruning stack — it works entirely over a plain Solution — and is an
// alternative interface to systematic search, not a fallback from it.
func (s *Store) MinConflicts(maxIterations int, rng *rand.Rand) Solution {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	total := make(Solution, s.NumVars)
	for v := 0; v < s.NumVars; v++ {
		values := s.initial[v].Values()
		total[v] = values[rng.Intn(len(values))]
	}

	inConflict := func() []int {
		var vs []int
		for v := 0; v < s.NumVars; v++ {
			if s.conflictCount(v, total) > 0 {
				vs = append(vs, v)
			}
		}
		return vs
	}

	for iter := 0; iter < maxIterations; iter++ {
		conflicted := inConflict()
		if len(conflicted) == 0 {
			break
		}
		v := conflicted[rng.Intn(len(conflicted))]

		values := s.initial[v].Values()
		bestVals := []int{values[0]}
		bestCount := s.totalConflictsWith(v, values[0], total)
		for _, cand := range values[1:] {
			c := s.totalConflictsWith(v, cand, total)
			if c < bestCount {
				bestCount = c
				bestVals = []int{cand}
			} else if c == bestCount {
				bestVals = append(bestVals, cand)
			}
		}
		total[v] = bestVals[rng.Intn(len(bestVals))]
	}

	return total
}
