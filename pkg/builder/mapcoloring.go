package builder

import (
	"fmt"

	"github.com/gitrdm/gridsolve/pkg/csp"
)

// MapColoring holds a region-adjacency graph and the color-token
// universe each region's variable ranges over. Region and color names
// are opaque application strings; NewMapColoring maps both to dense
// int indices, exercising the hash-set domain fallback (§4.1) rather
// than the bitmask representation used by the numeric puzzle
// builders.
type MapColoring struct {
	store       *csp.Store
	regionIndex map[string]int
	regionNames []string
	colorIndex  map[string]int
	colorNames  []string
}

// NewMapColoring builds a Store with one variable per region in
// regions, each ranging over colors, and a binary not-equal constraint
// for every (a, b) pair in adjacency.
func NewMapColoring(regions []string, colors []string, adjacency [][2]string) (*MapColoring, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("builder: map-coloring requires at least one region")
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("builder: map-coloring requires at least one color")
	}

	mc := &MapColoring{
		regionIndex: make(map[string]int, len(regions)),
		regionNames: append([]string(nil), regions...),
		colorIndex:  make(map[string]int, len(colors)),
		colorNames:  append([]string(nil), colors...),
	}
	for i, r := range regions {
		if _, dup := mc.regionIndex[r]; dup {
			return nil, fmt.Errorf("builder: duplicate region name %q", r)
		}
		mc.regionIndex[r] = i
	}
	for i, c := range colors {
		mc.colorIndex[c] = i
	}

	colorTokens := make([]int, len(colors))
	for i := range colors {
		colorTokens[i] = i
	}

	store := csp.NewStore(len(regions))
	for _, r := range regions {
		if _, err := store.AddVariable(r, colorTokens, true); err != nil {
			return nil, err
		}
	}
	mc.store = store

	seen := make(map[[2]int]bool)
	for _, edge := range adjacency {
		a, ok := mc.regionIndex[edge[0]]
		if !ok {
			return nil, fmt.Errorf("builder: adjacency references unknown region %q", edge[0])
		}
		b, ok := mc.regionIndex[edge[1]]
		if !ok {
			return nil, fmt.Errorf("builder: adjacency references unknown region %q", edge[1])
		}
		if a == b {
			return nil, fmt.Errorf("builder: region %q is adjacent to itself", edge[0])
		}
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		scope, check := csp.NotEqual(a, b)
		if _, err := store.AddConstraint(scope, check, csp.TagNone); err != nil {
			return nil, err
		}
	}

	return mc, nil
}

// Store returns the underlying problem store, ready to solve.
func (m *MapColoring) Store() *csp.Store { return m.store }

// Coloring renders a completed Solution as a region-name -> color-name
// map.
func (m *MapColoring) Coloring(sol csp.Solution) map[string]string {
	out := make(map[string]string, len(m.regionNames))
	for i, name := range m.regionNames {
		out[name] = m.colorNames[sol[i]]
	}
	return out
}

// AustraliaMapColoring builds the canonical seven-territory Australia
// adjacency graph (§8's 18-solution, three-color scenario).
func AustraliaMapColoring(colors []string) (*MapColoring, error) {
	regions := []string{"WA", "NT", "SA", "Q", "NSW", "V", "T"}
	adjacency := [][2]string{
		{"WA", "NT"},
		{"WA", "SA"},
		{"NT", "SA"},
		{"NT", "Q"},
		{"SA", "Q"},
		{"SA", "NSW"},
		{"SA", "V"},
		{"Q", "NSW"},
		{"NSW", "V"},
	}
	return NewMapColoring(regions, colors, adjacency)
}
