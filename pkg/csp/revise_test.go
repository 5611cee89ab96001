package csp

import "testing"

func TestReviseResidualSupportSelfHeals(t *testing.T) {
	s := NewStore(2)
	if err := s.SetDomain(0, NewBitSetDomain([]int{1})); err != nil {
		t.Fatalf("SetDomain: %v", err)
	}
	if err := s.SetDomain(1, NewBitSetDomain([]int{1})); err != nil {
		t.Fatalf("SetDomain: %v", err)
	}
	scope, check := NotEqual(0, 1)
	if _, err := s.AddConstraint(scope, check, TagNone); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}

	s.stack = append(s.stack, &frame{variable: -1})
	defer func() { s.stack = s.stack[:0] }()

	cids := s.PairConstraints(0, 1)
	key := residualKey{constraintID: cids[0], xi: 0, value: 1, xj: 1}
	s.residual[key] = 1 // poisoned: 1 != 1 violates NotEqual, not a real support

	changed, wipeout := s.revise(0, 1)
	if !wipeout {
		t.Fatalf("expected wipeout: the only candidate value has no real support despite the poisoned cache")
	}
	if !changed {
		t.Fatalf("expected revise to report a change despite the poisoned cache entry")
	}
}

func TestReviseEnforcesArcConsistency(t *testing.T) {
	s := NewStore(2)
	if err := s.SetDomain(0, NewBitSetDomain([]int{1, 2, 3})); err != nil {
		t.Fatalf("SetDomain: %v", err)
	}
	if err := s.SetDomain(1, NewBitSetDomain([]int{3})); err != nil {
		t.Fatalf("SetDomain: %v", err)
	}
	scope, check := NotEqual(0, 1)
	if _, err := s.AddConstraint(scope, check, TagNone); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	s.stack = append(s.stack, &frame{variable: -1})
	defer func() { s.stack = s.stack[:0] }()

	changed, wipeout := s.revise(0, 1)
	if wipeout {
		t.Fatalf("unexpected wipeout")
	}
	if !changed {
		t.Fatalf("expected value 3 to be pruned from Xi's domain")
	}
	if s.current[0].Contains(3) {
		t.Fatalf("value 3 should have been removed: it has no support in Xj={3}")
	}
	if !s.current[0].Contains(1) || !s.current[0].Contains(2) {
		t.Fatalf("values 1 and 2 should remain: both are supported by Xj=3")
	}
}
