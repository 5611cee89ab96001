package csp

import "sort"

// pairKey is the canonical (sorted) key for an unordered variable pair
// in the pair-constraint index.
type pairKey struct{ lo, hi int }

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// removal is one entry in a frame's pruning log: value was removed
// from var's current domain during this frame and must be restored on
// rollback.
type removal struct {
	variable int
	value    int
}

// frame is the undo-record for one tentative assignment pushed by the
// search engine. The pruning-log stack depth always equals the
// current assignment size (§3 invariant).
type frame struct {
	variable int
	value    int
	oldValue int // previous value if variable was already assigned at push time; unused (kept for clarity)
	removed  []removal
}

// residualKey is the AC-2001 cache key: the representative constraint
// between Xi and Xj, the value of Xi under test, and the neighbor Xj
// the support was found in.
type residualKey struct {
	constraintID int
	xi           int
	value        int
	xj           int
}

// Store is the problem store (C3): variables, current domains, the
// constraint registry, the pair-constraint index, the partial
// assignment, the pruning-log stack, and the residual-support cache.
// A Store is built once and then solved; it is never shared across
// concurrent solves (§5).
type Store struct {
	NumVars int

	initial []Domain
	current []Domain

	neighbors      [][]int // fixed at build time, never mutated during search
	neighborSet    []map[int]struct{}
	constraints    map[int]*Constraint
	nextID         int
	pairIndex      map[pairKey][]int
	varConstraints [][]int

	assignment Assignment
	stack      []*frame

	residual map[residualKey]int

	// Names maps a variable index to its application-level name, for
	// diagnostics only; never consulted on the hot path.
	Names []string

	nextVar int
}

// NewStore allocates an empty problem store for numVars variables.
func NewStore(numVars int) *Store {
	return &Store{
		NumVars:        numVars,
		initial:        make([]Domain, numVars),
		current:        make([]Domain, numVars),
		neighbors:      make([][]int, numVars),
		neighborSet:    make([]map[int]struct{}, numVars),
		constraints:    make(map[int]*Constraint),
		pairIndex:      make(map[pairKey][]int),
		varConstraints: make([][]int, numVars),
		assignment:     make(Assignment),
		residual:       make(map[residualKey]int),
		Names:          make([]string, numVars),
	}
}

// SetDomain installs variable v's initial (and current) domain. Must
// be called once per variable before any constraint referencing it is
// added.
func (s *Store) SetDomain(v int, d Domain) error {
	if v < 0 || v >= s.NumVars {
		return buildErrorf("variable index %d out of range [0,%d)", v, s.NumVars)
	}
	if s.initial[v] != nil {
		return buildErrorf("duplicate variable index %d", v)
	}
	if d.IsEmpty() {
		return buildErrorf("variable %d has an empty domain universe", v)
	}
	s.initial[v] = d
	s.current[v] = d.Clone()
	s.neighborSet[v] = make(map[int]struct{})
	return nil
}

// AddVariable is the embedding-API convenience for the common case of
// filling variables in order: it installs values as the next
// variable's domain (bitmask if useHashSet is false, hash-set
// otherwise) and returns its index.
func (s *Store) AddVariable(name string, values []int, useHashSet bool) (int, error) {
	if s.nextVar >= s.NumVars {
		return -1, buildErrorf("AddVariable called more than NumVars (%d) times", s.NumVars)
	}
	if len(values) == 0 {
		return -1, buildErrorf("variable %q has an empty domain universe", name)
	}
	v := s.nextVar
	s.nextVar++

	var d Domain
	if useHashSet {
		d = NewHashSetDomain(values)
	} else {
		d = NewBitSetDomain(values)
	}
	if err := s.SetDomain(v, d); err != nil {
		return -1, err
	}
	s.Names[v] = name
	return v, nil
}

// AddConstraint registers a constraint, assigning it a fresh id,
// indexing it by every unordered pair in its scope, and extending
// every scope member's neighbor set and constraint list (§4.2).
func (s *Store) AddConstraint(scope []int, check CheckFunc, tag Tag) (int, error) {
	for _, v := range scope {
		if v < 0 || v >= s.NumVars || s.initial[v] == nil {
			return -1, buildErrorf("constraint scope references unknown variable %d", v)
		}
	}
	id := s.nextID
	s.nextID++
	c := &Constraint{ID: id, Scope: append([]int(nil), scope...), Check: check, Tag: tag, Weight: 1.0}
	s.constraints[id] = c

	for i, u := range scope {
		s.varConstraints[u] = append(s.varConstraints[u], id)
		for j, v := range scope {
			if i == j {
				continue
			}
			s.neighborSet[u][v] = struct{}{}
		}
	}
	for i := 0; i < len(scope); i++ {
		for j := i + 1; j < len(scope); j++ {
			key := makePairKey(scope[i], scope[j])
			s.pairIndex[key] = append(s.pairIndex[key], id)
		}
	}
	for _, v := range scope {
		neigh := make([]int, 0, len(s.neighborSet[v]))
		for n := range s.neighborSet[v] {
			neigh = append(neigh, n)
		}
		sort.Ints(neigh)
		s.neighbors[v] = neigh
	}
	return id, nil
}

// Constraint returns the registered constraint with the given id.
func (s *Store) Constraint(id int) *Constraint { return s.constraints[id] }

// ConstraintsOf returns the ids of every constraint in v's scope list.
func (s *Store) ConstraintsOf(v int) []int { return s.varConstraints[v] }

// Neighbors returns every variable sharing at least one constraint
// with v, excluding v itself.
func (s *Store) Neighbors(v int) []int { return s.neighbors[v] }

// PairConstraints returns the constraint ids shared by the unordered
// pair {u,v}.
func (s *Store) PairConstraints(u, v int) []int {
	return s.pairIndex[makePairKey(u, v)]
}

// Current returns variable v's current (mutable) domain.
func (s *Store) Current(v int) Domain { return s.current[v] }

// Initial returns variable v's initial (pristine) domain.
func (s *Store) Initial(v int) Domain { return s.initial[v] }

// Assigned reports whether v currently has a value in the partial
// assignment.
func (s *Store) Assigned(v int) (int, bool) {
	val, ok := s.assignment[v]
	return val, ok
}

// UnassignedNeighbors filters Neighbors(v) to those not currently
// assigned.
func (s *Store) UnassignedNeighbors(v int) []int {
	all := s.Neighbors(v)
	out := make([]int, 0, len(all))
	for _, u := range all {
		if _, ok := s.assignment[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}

// snapshotAssignment copies the current partial assignment for a
// constraint check call. Constraints only ever observe the scope
// members actually present.
func (s *Store) snapshotAssignment() Assignment {
	cp := make(Assignment, len(s.assignment))
	for k, v := range s.assignment {
		cp[k] = v
	}
	return cp
}

// pushFrame pushes a new pruning frame for assigning v=x, shrinking
// v's current domain to {x} and logging every other value it held as
// removed (so it is restored on rollback, per §4.6 step 4b).
func (s *Store) pushFrame(v, x int) *frame {
	f := &frame{variable: v, value: x}
	for _, old := range s.current[v].Values() {
		if old != x {
			s.current[v].Remove(old)
			f.removed = append(f.removed, removal{variable: v, value: old})
		}
	}
	s.assignment[v] = x
	s.stack = append(s.stack, f)
	return f
}

// recordRemoval appends a pruning-log entry to the frame currently on
// top of the stack (the active propagation frame).
func (s *Store) recordRemoval(v, value int) {
	if len(s.stack) == 0 {
		panicInvariant("recordRemoval called with empty frame stack")
	}
	top := s.stack[len(s.stack)-1]
	top.removed = append(top.removed, removal{variable: v, value: value})
}

// rollback pops the top frame, restores every value it removed, and
// unassigns its variable. Matches §4.6's rollback description exactly.
func (s *Store) rollback() {
	n := len(s.stack)
	if n == 0 {
		panicInvariant("rollback called with empty frame stack")
	}
	f := s.stack[n-1]
	s.stack = s.stack[:n-1]
	for _, r := range f.removed {
		s.current[r.variable].Add(r.value)
	}
	delete(s.assignment, f.variable)
}

// Reset restores every current domain to its initial domain, clears
// the assignment and pruning stack, and drops the residual-support
// cache. This also undoes the permanent prunings made by initial
// propagation (§4.8), so a Store may be solved repeatedly from a
// pristine state.
func (s *Store) Reset() {
	for v := range s.current {
		s.current[v] = s.initial[v].Clone()
	}
	s.assignment = make(Assignment)
	s.stack = nil
	s.residual = make(map[residualKey]int)
	for _, c := range s.constraints {
		c.Weight = 1.0
	}
}

// StackDepth reports the current pruning-log stack depth, which must
// always equal the assignment size (§3 invariant) — exposed for tests.
func (s *Store) StackDepth() int { return len(s.stack) }

// DomainsEqualInitial reports whether every current domain equals its
// initial domain, i.e. the rollback-integrity property of §8 holds.
func (s *Store) DomainsEqualInitial() bool {
	for v := range s.current {
		cur := s.current[v].Values()
		ini := s.initial[v].Values()
		if len(cur) != len(ini) {
			return false
		}
		for i := range cur {
			if cur[i] != ini[i] {
				return false
			}
		}
	}
	return true
}
