package csp

import "context"

// choicePoint is the undo-aware state for one position in the search
// tree: the variable chosen there, the stable snapshot of domain
// values to try (§4.6 step 3), and whether a pruning frame is
// currently pushed for the value at idx.
type choicePoint struct {
	variable    int
	values      []int
	idx         int
	frameActive bool
}

func copyAssignment(s *Store) Solution {
	sol := make(Solution, s.NumVars)
	for v, x := range s.assignment {
		sol[v] = x
	}
	return sol
}

// Solve runs the backtracking search engine (C6) to completion, to the
// requested solution cap, or to cancellation. The engine is iterative
// — an explicit stack of choice points — rather than recursive, both
// to mirror the iterative-SCC requirement elsewhere in this package
// and to keep stack depth bounded on large boards. Cancellation is
// checked once per frame push, never inside an inner loop.
//
// On return the store is back in its pre-solve state: every current
// domain is as it was when Solve was called (its initial domain,
// unless initial propagation pruned it beforehand) and the
// pruning-log stack is empty, whether the search exhausted the tree,
// hit max solutions, or was cancelled.
func (s *Store) Solve(ctx context.Context, cfg SolveConfig) SolveResult {
	var solutions []Solution

	if s.NumVars == 0 {
		return SolveResult{Solutions: []Solution{{}}}
	}

	var stack []*choicePoint
	stack = append(stack, &choicePoint{
		variable: s.selectVariable(cfg),
	})
	stack[0].values = append([]int(nil), s.current[stack[0].variable].Values()...)

	unwindAll := func() {
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.frameActive {
				s.rollback()
			}
			stack = stack[:len(stack)-1]
		}
	}

	cancelled := false

loop:
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.idx >= len(top.values) {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break loop
			}
			parent := stack[len(stack)-1]
			s.rollback()
			parent.frameActive = false
			parent.idx++
			continue loop
		}

		if ctx.Err() != nil {
			cancelled = true
			break loop
		}

		x := top.values[top.idx]
		s.pushFrame(top.variable, x)
		top.frameActive = true

		if cfg.Monitor != nil {
			cfg.Monitor.RecordNode()
			cfg.Monitor.RecordDepth(len(stack))
		}

		asn := s.snapshotAssignment()
		constraintsOK := true
		for _, cid := range s.varConstraints[top.variable] {
			if !s.constraints[cid].Check(asn) {
				constraintsOK = false
				break
			}
		}

		if constraintsOK {
			if res := s.propagate(top.variable, cfg); res == DWO {
				constraintsOK = false
				s.bumpWeights(top.variable)
				if cfg.Monitor != nil {
					cfg.Monitor.RecordDWO()
				}
			}
		}

		if !constraintsOK {
			s.rollback()
			top.frameActive = false
			top.idx++
			if cfg.Monitor != nil {
				cfg.Monitor.RecordBacktrack()
			}
			continue loop
		}

		if len(s.assignment) == s.NumVars {
			solutions = append(solutions, copyAssignment(s))
			if cfg.Monitor != nil {
				cfg.Monitor.RecordSolution()
			}
			if cfg.MaxSolutions > 0 && len(solutions) >= cfg.MaxSolutions {
				s.rollback()
				top.frameActive = false
				stack = stack[:len(stack)-1]
				unwindAll()
				break loop
			}
			s.rollback()
			top.frameActive = false
			top.idx++
			continue loop
		}

		nextVar := s.selectVariable(cfg)
		nextVals := append([]int(nil), s.current[nextVar].Values()...)
		stack = append(stack, &choicePoint{variable: nextVar, values: nextVals})
	}

	if cancelled {
		unwindAll()
	}

	if cfg.Monitor != nil {
		cfg.Monitor.FinishSearch()
	}

	if len(s.stack) != 0 {
		panicInvariant("pruning-log stack non-empty after solve: depth=%d", len(s.stack))
	}

	return SolveResult{Solutions: solutions, Cancelled: cancelled}
}

// SolveWithInitialPropagation runs §4.8's one-hop-plus-AC3 initial
// propagation for every already-singleton "given" variable and, when
// cfg.UseGACAllDiff is set, one GAC all-different pass, then performs
// a normal Solve. Both passes prune permanently. If either finds a
// contradiction it returns immediately with an empty, non-cancelled
// result (UnsatDuringInitialPropagation, reported as plain UNSAT).
func (s *Store) SolveWithInitialPropagation(ctx context.Context, cfg SolveConfig) SolveResult {
	if !s.initialPropagation() {
		return SolveResult{}
	}
	if cfg.UseGACAllDiff {
		// A scratch frame gives gacAllDifferent somewhere to log its
		// removals; dropping it without rollback keeps them permanent.
		s.stack = append(s.stack, &frame{variable: -1})
		res := s.gacAllDifferent()
		s.stack = s.stack[:len(s.stack)-1]
		if res == DWO {
			return SolveResult{}
		}
	}
	return s.Solve(ctx, cfg)
}
