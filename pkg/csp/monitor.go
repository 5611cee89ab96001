package csp

import (
	"sync/atomic"
	"time"
)

// SolverStats holds statistics about one solve. All counter fields are
// updated through atomic operations so a SolverMonitor may be read from
// a concurrent HTTP handler while the solve itself is still running;
// SearchTime is a plain field written once by FinishSearch.
type SolverStats struct {
	NodesExplored    int64
	Backtracks       int64
	SolutionsFound   int64
	SearchTime       time.Duration
	MaxDepth         int64
	PropagationCount int64
	PropagationTime  int64
	DWOCount         int64
}

// SolverMonitor is a lock-free, nil-safe statistics collector for one
// solve. Every method is safe to call on a nil *SolverMonitor so that
// instrumentation can be wired in optionally without branching at
// every call site.
type SolverMonitor struct {
	stats     SolverStats
	startTime time.Time
	propStart atomic.Int64
}

func NewSolverMonitor() *SolverMonitor {
	return &SolverMonitor{startTime: time.Now()}
}

func (m *SolverMonitor) GetStats() *SolverStats {
	if m == nil {
		return nil
	}
	return &SolverStats{
		NodesExplored:    atomic.LoadInt64(&m.stats.NodesExplored),
		Backtracks:       atomic.LoadInt64(&m.stats.Backtracks),
		SolutionsFound:   atomic.LoadInt64(&m.stats.SolutionsFound),
		SearchTime:       m.stats.SearchTime,
		MaxDepth:         atomic.LoadInt64(&m.stats.MaxDepth),
		PropagationCount: atomic.LoadInt64(&m.stats.PropagationCount),
		PropagationTime:  atomic.LoadInt64(&m.stats.PropagationTime),
		DWOCount:         atomic.LoadInt64(&m.stats.DWOCount),
	}
}

func (m *SolverMonitor) StartPropagation() {
	if m == nil {
		return
	}
	m.propStart.Store(time.Now().UnixNano())
}

func (m *SolverMonitor) EndPropagation() {
	if m == nil {
		return
	}
	start := m.propStart.Load()
	if start != 0 {
		atomic.AddInt64(&m.stats.PropagationTime, time.Now().UnixNano()-start)
		atomic.AddInt64(&m.stats.PropagationCount, 1)
		m.propStart.Store(0)
	}
}

func (m *SolverMonitor) RecordNode() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.NodesExplored, 1)
}

func (m *SolverMonitor) RecordBacktrack() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.Backtracks, 1)
}

func (m *SolverMonitor) RecordSolution() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.SolutionsFound, 1)
}

func (m *SolverMonitor) RecordDWO() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.DWOCount, 1)
}

func (m *SolverMonitor) RecordDepth(depth int) {
	if m == nil {
		return
	}
	d := int64(depth)
	for {
		old := atomic.LoadInt64(&m.stats.MaxDepth)
		if d <= old {
			return
		}
		if atomic.CompareAndSwapInt64(&m.stats.MaxDepth, old, d) {
			return
		}
	}
}

func (m *SolverMonitor) FinishSearch() {
	if m == nil {
		return
	}
	m.stats.SearchTime = time.Since(m.startTime)
}
