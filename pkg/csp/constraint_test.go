package csp

import "testing"

func TestEqualConstantHoldsOnlyForGivenValue(t *testing.T) {
	scope, check := EqualConstant(0, 5)
	if len(scope) != 1 || scope[0] != 0 {
		t.Fatalf("scope = %v, want [0]", scope)
	}
	if !check(Assignment{}) {
		t.Fatalf("unassigned variable should vacuously satisfy the constraint")
	}
	if !check(Assignment{0: 5}) {
		t.Fatalf("assignment equal to the constant should satisfy the constraint")
	}
	if check(Assignment{0: 6}) {
		t.Fatalf("assignment differing from the constant should violate the constraint")
	}
}

func TestLambdaDelegatesToPredicate(t *testing.T) {
	calls := 0
	predicate := func(a Assignment) bool {
		calls++
		return a[0]+a[1] == 10
	}
	scope, check := Lambda([]int{0, 1}, predicate)
	if len(scope) != 2 {
		t.Fatalf("scope = %v, want length 2", scope)
	}
	if !check(Assignment{0: 4, 1: 6}) {
		t.Fatalf("4+6 should satisfy the predicate")
	}
	if check(Assignment{0: 4, 1: 5}) {
		t.Fatalf("4+5 should violate the predicate")
	}
	if calls != 2 {
		t.Fatalf("predicate invoked %d times, want 2", calls)
	}
}

func TestLambdaScopeIsIndependentCopy(t *testing.T) {
	scope := []int{0, 1}
	outScope, _ := Lambda(scope, func(Assignment) bool { return true })
	outScope[0] = 99
	if scope[0] != 0 {
		t.Fatalf("Lambda must copy its scope slice, not alias the caller's")
	}
}
