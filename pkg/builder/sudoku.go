// Package builder assembles concrete csp.Store instances for the three
// canonical puzzle families: Sudoku, Futoshiki, and map-coloring. Each
// builder owns the variable-index layout and is the sole place that
// translates an application-level board or adjacency list into
// csp.Store calls.
package builder

import (
	"fmt"
	"math"

	"github.com/gitrdm/gridsolve/pkg/csp"
)

// Sudoku holds a square board of subgrid size boxSize (so the board is
// boxSize*boxSize on a side) and maps cell (row, col) to a variable
// index in row-major order.
type Sudoku struct {
	BoxSize int
	N       int
	store   *csp.Store
}

// cellVar returns the variable index for board cell (row, col).
func (s *Sudoku) cellVar(row, col int) int {
	return row*s.N + col
}

// NewSudoku builds a Store for an N=boxSize*boxSize board. givens maps
// (row, col) -> 1-based value for every pre-filled cell; those cells
// are registered with a singleton domain rather than a free domain
// plus an equality-to-constant constraint, so initialPropagation
// (§4.8) sees them as givens and can seed its one-hop-plus-AC3 pass
// from them. Cells absent from givens start with the full [1, N]
// domain. boxSize must be in [2, 5] (§4.10).
func NewSudoku(boxSize int, givens map[[2]int]int) (*Sudoku, error) {
	if boxSize < 2 || boxSize > 5 {
		return nil, fmt.Errorf("builder: sudoku subgrid size %d out of range [2,5]", boxSize)
	}
	n := boxSize * boxSize
	store := csp.NewStore(n * n)

	full := make([]int, n)
	for i := range full {
		full[i] = i + 1
	}

	sd := &Sudoku{BoxSize: boxSize, N: n, store: store}

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			name := fmt.Sprintf("r%dc%d", row, col)
			values := full
			if value, ok := givens[[2]int{row, col}]; ok {
				if value < 1 || value > n {
					return nil, fmt.Errorf("builder: sudoku given %d at (%d,%d) out of range [1,%d]", value, row, col, n)
				}
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
			scope[col] = sd.cellVar(row, col)
		}
		if err := sd.addAllDifferent(scope); err != nil {
			return nil, err
		}
	}
	for col := 0; col < n; col++ {
		scope := make([]int, n)
		for row := 0; row < n; row++ {
			scope[row] = sd.cellVar(row, col)
		}
		if err := sd.addAllDifferent(scope); err != nil {
			return nil, err
		}
	}
	for boxRow := 0; boxRow < boxSize; boxRow++ {
		for boxCol := 0; boxCol < boxSize; boxCol++ {
			scope := make([]int, 0, n)
			for r := 0; r < boxSize; r++ {
				for c := 0; c < boxSize; c++ {
					scope = append(scope, sd.cellVar(boxRow*boxSize+r, boxCol*boxSize+c))
				}
			}
			if err := sd.addAllDifferent(scope); err != nil {
				return nil, err
			}
		}
	}

	return sd, nil
}

func (s *Sudoku) addAllDifferent(scope []int) error {
	outScope, check, tag := csp.AllDifferent(scope)
	_, err := s.store.AddConstraint(outScope, check, tag)
	return err
}

// Store returns the underlying problem store, ready to solve.
func (s *Sudoku) Store() *csp.Store { return s.store }

// Board renders a completed Solution as an N x N grid of values.
func (s *Sudoku) Board(sol csp.Solution) [][]int {
	grid := make([][]int, s.N)
	for row := 0; row < s.N; row++ {
		grid[row] = make([]int, s.N)
		for col := 0; col < s.N; col++ {
			grid[row][col] = sol[s.cellVar(row, col)]
		}
	}
	return grid
}

// RandomGivenCount returns a reasonable given-count target for a
// difficulty label on an N x N board, used only to drive random board
// generation; it is not a solver-quality measure.
func RandomGivenCount(n int, difficulty string) int {
	total := n * n
	switch difficulty {
	case "easy":
		return int(math.Round(float64(total) * 0.55))
	case "hard":
		return int(math.Round(float64(total) * 0.3))
	default:
		return int(math.Round(float64(total) * 0.4))
	}
}
