package csp

import (
	"reflect"
	"testing"
)

func TestBitSetAddRemoveContains(t *testing.T) {
	b := NewBitSet(1, 9)
	for v := 1; v <= 9; v++ {
		b.Add(v)
	}
	if b.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", b.Len())
	}
	b.Remove(5)
	if b.Contains(5) {
		t.Fatalf("Contains(5) = true after Remove")
	}
	if b.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", b.Len())
	}
	want := []int{1, 2, 3, 4, 6, 7, 8, 9}
	if got := b.Values(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
}

func TestBitSetClone(t *testing.T) {
	b := NewBitSetDomain([]int{1, 2, 3}).(*BitSet)
	clone := b.Clone().(*BitSet)
	clone.Remove(2)
	if !b.Contains(2) {
		t.Fatalf("mutating clone affected original")
	}
	if clone.Contains(2) {
		t.Fatalf("clone still contains removed value")
	}
}

func TestHashSetDomainDeterministicOrder(t *testing.T) {
	d := NewHashSetDomain([]int{5, 1, 3, 2, 4})
	want := []int{1, 2, 3, 4, 5}
	for i := 0; i < 5; i++ {
		if got := d.Values(); !reflect.DeepEqual(got, want) {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
}

func TestHashSetDomainCloneIndependent(t *testing.T) {
	d := NewHashSetDomain([]int{1, 2, 3})
	clone := d.Clone()
	clone.Remove(2)
	if !d.Contains(2) {
		t.Fatalf("mutating clone affected original")
	}
}

func TestBitSetIsEmpty(t *testing.T) {
	b := NewBitSet(0, 4)
	if !b.IsEmpty() {
		t.Fatalf("fresh BitSet should be empty")
	}
	b.Add(2)
	if b.IsEmpty() {
		t.Fatalf("BitSet with a member should not be empty")
	}
}
