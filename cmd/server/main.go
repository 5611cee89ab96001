// Command server exposes the solver over HTTP: a random-board
// generator and a synchronous solve endpoint, each request building
// its own problem store (§5, §12.4). Solve requests run on a bounded
// worker pool behind an admission semaphore and a rate limiter;
// random-board requests solve on the handler's own goroutine.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/gitrdm/gridsolve/internal/parallel"
	"github.com/gitrdm/gridsolve/pkg/builder"
	"github.com/gitrdm/gridsolve/pkg/csp"
)

type serverConfig struct {
	addr           string
	maxWorkers     int
	admissionLimit int64
	rateLimit      int
}

func parseFlags(args []string) serverConfig {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	cfg := serverConfig{}
	fs.StringVar(&cfg.addr, "addr", ":8080", "HTTP listen address")
	fs.IntVar(&cfg.maxWorkers, "max-workers", 0, "maximum solve worker goroutines (0 = NumCPU)")
	fs.Int64Var(&cfg.admissionLimit, "admission-limit", 64, "maximum concurrently admitted solve requests")
	fs.IntVar(&cfg.rateLimit, "rate-limit", 200, "maximum solve requests admitted per second")
	fs.Parse(args)
	return cfg
}

// server bundles the shared, request-lifetime-free infrastructure: the
// worker pool that runs solves, the semaphore gating admission, the
// rate limiter smoothing bursts, and the logger every handler writes
// through. None of it holds per-request solver state — every request
// builds its own csp.Store.
type server struct {
	pool      *parallel.WorkerPool
	admission *semaphore.Weighted
	limiter   *parallel.RateLimiter
	log       zerolog.Logger
	requestID atomic.Int64
}

// nextTaskID returns a process-unique identifier for registering one
// in-flight request with the worker pool's deadlock detector.
func (s *server) nextTaskID(kind string) string {
	return fmt.Sprintf("%s-%d", kind, s.requestID.Add(1))
}

func newServer(cfg serverConfig, log zerolog.Logger) *server {
	return &server{
		pool:      parallel.NewDynamicWorkerPool(cfg.maxWorkers, 1),
		admission: semaphore.NewWeighted(cfg.admissionLimit),
		limiter:   parallel.NewRateLimiter(cfg.rateLimit),
		log:       log,
	}
}

func (s *server) shutdown() {
	s.pool.Shutdown()
	s.limiter.Close()
}

// recoverMiddleware stops an invariant-violation panic from one
// malformed board from crashing the whole process, per §11's
// boundary-only recovery rule.
func (s *server) recoverMiddleware(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("recovered panic in request handler")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal solver fault"})
			c.Abort()
		}
	}()
	c.Next()
}

type solveRequest struct {
	Values map[string]int `json:"values"`
	Size   int            `json:"size"`
}

type solveResponse struct {
	Solved bool           `json:"solved"`
	Values map[string]int `json:"values,omitempty"`
}

// handleSolve implements POST /solve: builds a Sudoku store from the
// given cell values, runs it on the bounded worker pool under a
// deadlock-detector-backed wall clock (the request is registered at
// submission and unregistered when the solve returns, is cancelled,
// or the deadline fires), and reports whether it found a solution.
func (s *server) handleSolve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	boxSize, err := boxSizeForN(req.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	givens := make(map[[2]int]int, len(req.Values))
	for k, v := range req.Values {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= req.Size*req.Size {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid cell index %q", k)})
			return
		}
		givens[[2]int{idx / req.Size, idx % req.Size}] = v
	}

	sudoku, err := builder.NewSudoku(boxSize, givens)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskID := s.nextTaskID("solve")
	ctx, cancel := s.pool.GetDeadlockDetector().TimeoutContext(c.Request.Context(), taskID, fmt.Sprintf("POST /solve size=%d", req.Size))
	defer cancel()

	if err := s.admission.Acquire(ctx, 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "solver busy"})
		return
	}
	defer s.admission.Release(1)

	if err := s.limiter.Wait(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate limited"})
		return
	}

	resultCh := make(chan csp.SolveResult, 1)
	submitErr := s.pool.Submit(ctx, func() {
		cfg := csp.SolveConfig{
			Pruning:       csp.PruningFC,
			Ordering:      csp.OrderingDomWdeg,
			MaxSolutions:  1,
			UseGACAllDiff: true,
		}
		resultCh <- sudoku.Store().SolveWithInitialPropagation(ctx, cfg)
	})
	if submitErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": submitErr.Error()})
		return
	}

	select {
	case result := <-resultCh:
		if len(result.Solutions) == 0 {
			c.JSON(http.StatusOK, solveResponse{Solved: false})
			return
		}
		board := sudoku.Board(result.Solutions[0])
		values := make(map[string]int, req.Size*req.Size)
		for row := 0; row < req.Size; row++ {
			for col := 0; col < req.Size; col++ {
				values[strconv.Itoa(row*req.Size+col)] = board[row][col]
			}
		}
		c.JSON(http.StatusOK, solveResponse{Solved: true, Values: values})
	case <-ctx.Done():
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "solve timed out"})
	}
}

// handleRandom implements GET /random/:size/:difficulty: builds a
// blank board of the requested size, carves a random set of cells out
// of a solved instance down to the difficulty's given-count target,
// and returns the resulting partial board.
func (s *server) handleRandom(c *gin.Context) {
	size, err := strconv.Atoi(c.Param("size"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be an integer"})
		return
	}
	boxSize, err := boxSizeForN(size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	difficulty := c.Param("difficulty")

	sudoku, err := builder.NewSudoku(boxSize, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	taskID := s.nextTaskID("random")
	ctx, cancel := s.pool.GetDeadlockDetector().TimeoutContext(c.Request.Context(), taskID, fmt.Sprintf("GET /random size=%d difficulty=%s", size, difficulty))
	defer cancel()

	cfg := csp.SolveConfig{
		Pruning:       csp.PruningFC,
		Ordering:      csp.OrderingDomWdeg,
		MaxSolutions:  1,
		UseGACAllDiff: true,
	}
	result := sudoku.Store().SolveWithInitialPropagation(ctx, cfg)
	if len(result.Solutions) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate a solved board"})
		return
	}
	board := sudoku.Board(result.Solutions[0])

	target := builder.RandomGivenCount(size, difficulty)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cellOrder := rng.Perm(size * size)

	values := make(map[string]int, target)
	for i := 0; i < target && i < len(cellOrder); i++ {
		idx := cellOrder[i]
		row, col := idx/size, idx%size
		values[strconv.Itoa(idx)] = board[row][col]
	}

	c.JSON(http.StatusOK, gin.H{"size": size, "difficulty": difficulty, "values": values})
}

func boxSizeForN(n int) (int, error) {
	for box := 2; box <= 5; box++ {
		if box*box == n {
			return box, nil
		}
	}
	return 0, fmt.Errorf("unsupported board size %d (must be a perfect square of 2..5)", n)
}

func main() {
	cfg := parseFlags(os.Args[1:])

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	srv := newServer(cfg, log)
	defer srv.shutdown()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), srv.recoverMiddleware)
	router.GET("/random/:size/:difficulty", srv.handleRandom)
	router.POST("/solve", srv.handleSolve)

	log.Info().Str("addr", cfg.addr).Msg("listening")
	if err := router.Run(cfg.addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
