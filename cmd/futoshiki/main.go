// Command futoshiki solves a Futoshiki board read from a file in the
// five-line builder format and prints every solution found.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gitrdm/gridsolve/pkg/builder"
	"github.com/gitrdm/gridsolve/pkg/csp"
)

const usage = "usage: futoshiki <algo> <filename>\n  algo is one of: none, fc, ac3, acfc\n"

func algoConfig(algo string) (csp.SolveConfig, bool) {
	cfg := csp.SolveConfig{
		Ordering:      csp.OrderingDomWdeg,
		MaxSolutions:  0,
		UseGACAllDiff: true,
	}
	switch strings.ToLower(algo) {
	case "none":
		cfg.Pruning = csp.PruningNone
	case "fc":
		cfg.Pruning = csp.PruningFC
	case "ac3":
		cfg.Pruning = csp.PruningAC3
	case "acfc":
		cfg.Pruning = csp.PruningACFC
	default:
		return cfg, false
	}
	return cfg, true
}

func run() int {
	if len(os.Args) != 3 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, ok := algoConfig(os.Args[1])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown algo %q\n%s", os.Args[1], usage)
		return 2
	}

	f, err := os.Open(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "futoshiki: %v\n", err)
		return 2
	}
	defer f.Close()

	spec, err := builder.ParseFutoshiki(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "futoshiki: %v\n", err)
		return 2
	}

	fut, err := builder.NewFutoshiki(spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "futoshiki: %v\n", err)
		return 2
	}

	result := fut.Store().SolveWithInitialPropagation(context.Background(), cfg)
	if len(result.Solutions) == 0 {
		return 1
	}

	for i, sol := range result.Solutions {
		if i > 0 {
			fmt.Println("###############")
		}
		board := fut.Board(sol)
		for _, row := range board {
			strs := make([]string, len(row))
			for j, v := range row {
				strs[j] = fmt.Sprintf("%d", v)
			}
			fmt.Println(strings.Join(strs, " "))
		}
	}
	return 0
}

func main() {
	os.Exit(run())
}
