package builder

import (
	"context"
	"strings"
	"testing"

	"github.com/gitrdm/gridsolve/pkg/csp"
)

// futoshikiSample5 is a 5x5 board whose row givens alone force a
// unique Latin-square completion (each row already fixes 4 of its 5
// cells, leaving the 5th forced by the row all-different constraint),
// plus one inequality arc consistent with that forced completion.
const futoshikiSample5 = `5
0 1 2 3 5 6 7 8 10 11 12 13 15 16 17 18 20 21 22 23
1 2 3 4 2 3 4 5 3 4 5 1 4 5 1 2 5 1 2 3
4
9
`

func TestFutoshikiSampleFiveHasUniqueSolution(t *testing.T) {
	spec, err := ParseFutoshiki(strings.NewReader(futoshikiSample5))
	if err != nil {
		t.Fatalf("ParseFutoshiki: %v", err)
	}
	if spec.N != 5 {
		t.Fatalf("N = %d, want 5", spec.N)
	}

	fut, err := NewFutoshiki(spec)
	if err != nil {
		t.Fatalf("NewFutoshiki: %v", err)
	}

	cfg := csp.SolveConfig{Pruning: csp.PruningFC, Ordering: csp.OrderingMRV, MaxSolutions: 0, UseGACAllDiff: true}
	result := fut.Store().SolveWithInitialPropagation(context.Background(), cfg)
	if len(result.Solutions) != 1 {
		t.Fatalf("got %d solutions, want exactly 1", len(result.Solutions))
	}

	board := fut.Board(result.Solutions[0])
	assertLatinSquare(t, board, 5)

	// source (row0,col4) flat index 4 must be > destination (row1,col4)
	// flat index 9, matching the inequality arc declared above.
	if board[0][4] <= board[1][4] {
		t.Fatalf("inequality violated: board[0][4]=%d, board[1][4]=%d", board[0][4], board[1][4])
	}

	want := [][]int{
		{1, 2, 3, 4, 5},
		{2, 3, 4, 5, 1},
		{3, 4, 5, 1, 2},
		{4, 5, 1, 2, 3},
		{5, 1, 2, 3, 4},
	}
	for r := range want {
		for c := range want[r] {
			if board[r][c] != want[r][c] {
				t.Fatalf("board[%d][%d] = %d, want %d", r, c, board[r][c], want[r][c])
			}
		}
	}
}

func assertLatinSquare(t *testing.T, board [][]int, n int) {
	t.Helper()
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
}

func TestParseFutoshikiRejectsMismatchedCounts(t *testing.T) {
	bad := "3\n0 1\n5\n\n\n"
	if _, err := ParseFutoshiki(strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for given-index/given-value count mismatch")
	}
}

func TestParseFutoshikiRejectsTooFewLines(t *testing.T) {
	if _, err := ParseFutoshiki(strings.NewReader("3\n0 1\n")); err == nil {
		t.Fatalf("expected error for a board with fewer than 5 lines")
	}
}
