package builder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gitrdm/gridsolve/pkg/csp"
)

// Futoshiki holds an N x N Latin-square board with inequality arcs
// between cells, laid out in row-major order like Sudoku.
type Futoshiki struct {
	N     int
	store *csp.Store
}

// FutoshikiSpec is the parsed form of the five-line board file format
// (§6): N, the flat indices of given cells, their values, and the
// source/destination flat indices of each "greater than" inequality arc
// (source > destination).
type FutoshikiSpec struct {
	N              int
	GivenIndices   []int
	GivenValues    []int
	IneqSources    []int
	IneqDestations []int
}

// ParseFutoshiki reads the five-line board format: N; given cell flat
// indices; given cell values; inequality source indices; inequality
// destination indices. Each of lines two through five is a
// whitespace-separated list (possibly empty).
func ParseFutoshiki(r io.Reader) (*FutoshikiSpec, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make([]string, 0, 5)
	for sc.Scan() && len(lines) < 5 {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("builder: reading futoshiki board: %w", err)
	}
	if len(lines) < 5 {
		return nil, fmt.Errorf("builder: futoshiki board needs 5 lines, got %d", len(lines))
	}

	n, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, fmt.Errorf("builder: parsing futoshiki N: %w", err)
	}

	parseInts := func(line string) ([]int, error) {
		fields := strings.Fields(line)
		out := make([]int, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("builder: parsing futoshiki int field %q: %w", f, err)
			}
			out = append(out, v)
		}
		return out, nil
	}

	givenIdx, err := parseInts(lines[1])
	if err != nil {
		return nil, err
	}
	givenVal, err := parseInts(lines[2])
	if err != nil {
		return nil, err
	}
	if len(givenIdx) != len(givenVal) {
		return nil, fmt.Errorf("builder: futoshiki given-index count %d != given-value count %d", len(givenIdx), len(givenVal))
	}
	ineqSrc, err := parseInts(lines[3])
	if err != nil {
		return nil, err
	}
	ineqDst, err := parseInts(lines[4])
	if err != nil {
		return nil, err
	}
	if len(ineqSrc) != len(ineqDst) {
		return nil, fmt.Errorf("builder: futoshiki inequality source count %d != destination count %d", len(ineqSrc), len(ineqDst))
	}

	return &FutoshikiSpec{
		N:              n,
		GivenIndices:   givenIdx,
		GivenValues:    givenVal,
		IneqSources:    ineqSrc,
		IneqDestations: ineqDst,
	}, nil
}

// NewFutoshiki builds a Store from a parsed board spec: an N x N Latin
// square (all-different per row and column) plus one binary > arc per
// inequality entry (source > destination). Given cells are registered
// with a singleton domain rather than a free domain plus an
// equality-to-constant constraint, so initialPropagation (§4.8) sees
// them as givens and can seed its one-hop-plus-AC3 pass from them.
func NewFutoshiki(spec *FutoshikiSpec) (*Futoshiki, error) {
	n := spec.N
	if n <= 0 {
		return nil, fmt.Errorf("builder: futoshiki N must be positive, got %d", n)
	}
	store := csp.NewStore(n * n)

	full := make([]int, n)
	for i := range full {
		full[i] = i + 1
	}

	given := make(map[int]int, len(spec.GivenIndices))
	for i, idx := range spec.GivenIndices {
		if idx < 0 || idx >= n*n {
			return nil, fmt.Errorf("builder: futoshiki given index %d out of range [0,%d)", idx, n*n)
		}
		value := spec.GivenValues[i]
		if value < 1 || value > n {
			return nil, fmt.Errorf("builder: futoshiki given value %d out of range [1,%d]", value, n)
		}
		given[idx] = value
	}

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			idx := row*n + col
			name := fmt.Sprintf("r%dc%d", row, col)
			values := full
			if value, ok := given[idx]; ok {
				values = []int{value}
			}
			if _, err := store.AddVariable(name, values, false); err != nil {
				return nil, err
			}
		}
	}

	for row := 0; row < n; row++ {
		scope := make([]int, n)
		for col := 0; col < n; col++ {
			scope[col] = row*n + col
		}
		outScope, check, tag := csp.AllDifferent(scope)
		if _, err := store.AddConstraint(outScope, check, tag); err != nil {
			return nil, err
		}
	}
	for col := 0; col < n; col++ {
		scope := make([]int, n)
		for row := 0; row < n; row++ {
			scope[row] = row*n + col
		}
		outScope, check, tag := csp.AllDifferent(scope)
		if _, err := store.AddConstraint(outScope, check, tag); err != nil {
			return nil, err
		}
	}

	for i, src := range spec.IneqSources {
		dst := spec.IneqDestations[i]
		if src < 0 || src >= n*n || dst < 0 || dst >= n*n {
			return nil, fmt.Errorf("builder: futoshiki inequality arc (%d,%d) out of range [0,%d)", src, dst, n*n)
		}
		scope, check := csp.BinaryOp(src, dst, func(x, y int) bool { return x > y })
		if _, err := store.AddConstraint(scope, check, csp.TagNone); err != nil {
			return nil, err
		}
	}

	return &Futoshiki{N: n, store: store}, nil
}

// Store returns the underlying problem store, ready to solve.
func (f *Futoshiki) Store() *csp.Store { return f.store }

// Board renders a completed Solution as an N x N grid of values.
func (f *Futoshiki) Board(sol csp.Solution) [][]int {
	grid := make([][]int, f.N)
	for row := 0; row < f.N; row++ {
		grid[row] = make([]int, f.N)
		for col := 0; col < f.N; col++ {
			grid[row][col] = sol[row*f.N+col]
		}
	}
	return grid
}
