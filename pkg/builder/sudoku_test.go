package builder

import (
	"context"
	"testing"

	"github.com/gitrdm/gridsolve/pkg/csp"
)

func TestBlankFourByFourSudokuProducesValidBoard(t *testing.T) {
	sd, err := NewSudoku(2, nil)
	if err != nil {
		t.Fatalf("NewSudoku: %v", err)
	}

	cfg := csp.SolveConfig{Pruning: csp.PruningFC, Ordering: csp.OrderingMRV, MaxSolutions: 1, UseGACAllDiff: true}
	result := sd.Store().SolveWithInitialPropagation(context.Background(), cfg)
	if len(result.Solutions) != 1 {
		t.Fatalf("got %d solutions, want 1", len(result.Solutions))
	}

	board := sd.Board(result.Solutions[0])
	assertLatinAndBoxes(t, board, 2)
}

// seventeenClueBoard is a known minimal 9x9 Sudoku puzzle (17 givens,
// unique solution), from the Royle minimal-puzzle collection, '0'
// marking a blank cell.
const seventeenClueBoard = "000000010400000000020000000000050407008000300001090000300400200050100000000806000"

func parseSeventeenClueBoard(t *testing.T) map[[2]int]int {
	t.Helper()
	if len(seventeenClueBoard) != 81 {
		t.Fatalf("board string has length %d, want 81", len(seventeenClueBoard))
	}
	givens := make(map[[2]int]int)
	for i, ch := range seventeenClueBoard {
		if ch == '0' {
			continue
		}
		givens[[2]int{i / 9, i % 9}] = int(ch - '0')
	}
	return givens
}

func TestSeventeenClueSudokuSolvesUniquelyWithinBacktrackBound(t *testing.T) {
	givens := parseSeventeenClueBoard(t)
	sd, err := NewSudoku(3, givens)
	if err != nil {
		t.Fatalf("NewSudoku: %v", err)
	}

	monitor := csp.NewSolverMonitor()
	cfg := csp.SolveConfig{
		Pruning:       csp.PruningFC,
		Ordering:      csp.OrderingDomWdeg,
		MaxSolutions:  2,
		UseGACAllDiff: true,
		Monitor:       monitor,
	}
	result := sd.Store().SolveWithInitialPropagation(context.Background(), cfg)
	if len(result.Solutions) != 1 {
		t.Fatalf("got %d solutions, want exactly 1 (minimal puzzle)", len(result.Solutions))
	}

	board := sd.Board(result.Solutions[0])
	assertLatinAndBoxes(t, board, 3)

	for cell, val := range givens {
		if board[cell[0]][cell[1]] != val {
			t.Fatalf("given at (%d,%d) not honored: got %d, want %d", cell[0], cell[1], board[cell[0]][cell[1]], val)
		}
	}

	stats := monitor.GetStats()
	if stats.Backtracks > 400 {
		t.Fatalf("backtracks = %d, want <= 400 (regression guard)", stats.Backtracks)
	}
}

func assertLatinAndBoxes(t *testing.T, board [][]int, boxSize int) {
	t.Helper()
	n := boxSize * boxSize

	for row := 0; row < n; row++ {
		seen := make(map[int]bool)
		for col := 0; col < n; col++ {
			v := board[row][col]
			if v < 1 || v > n || seen[v] {
				t.Fatalf("row %d is not a permutation of 1..%d: %v", row, n, board[row])
			}
			seen[v] = true
		}
	}
	for col := 0; col < n; col++ {
		seen := make(map[int]bool)
		for row := 0; row < n; row++ {
			v := board[row][col]
			if v < 1 || v > n || seen[v] {
				t.Fatalf("column %d is not a permutation of 1..%d", col, n)
			}
			seen[v] = true
		}
	}
	for boxRow := 0; boxRow < boxSize; boxRow++ {
		for boxCol := 0; boxCol < boxSize; boxCol++ {
			seen := make(map[int]bool)
			for r := 0; r < boxSize; r++ {
				for c := 0; c < boxSize; c++ {
					v := board[boxRow*boxSize+r][boxCol*boxSize+c]
					if v < 1 || v > n || seen[v] {
						t.Fatalf("box (%d,%d) is not a permutation of 1..%d", boxRow, boxCol, n)
					}
					seen[v] = true
				}
			}
		}
	}
}

func TestSudokuRejectsOutOfRangeBoxSize(t *testing.T) {
	if _, err := NewSudoku(1, nil); err == nil {
		t.Fatalf("expected error for box size 1")
	}
	if _, err := NewSudoku(6, nil); err == nil {
		t.Fatalf("expected error for box size 6")
	}
}

func TestSudokuRejectsOutOfRangeGiven(t *testing.T) {
	if _, err := NewSudoku(2, map[[2]int]int{{0, 0}: 9}); err == nil {
		t.Fatalf("expected error for given value out of [1,4] range on a 4x4 board")
	}
}
