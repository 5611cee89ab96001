package csp

// gacAllDifferent runs Régin's GAC propagator (§4.5) over every
// ALL_DIFFERENT-tagged constraint whose scope still has at least three
// unassigned variables (binary groups are already handled by forward
// checking). Returns DWO on the first infeasible group.
func (s *Store) gacAllDifferent() Result {
	for _, c := range s.constraints {
		if c.Tag != TagAllDifferent {
			continue
		}
		unassigned := make([]int, 0, len(c.Scope))
		forbidden := make(map[int]struct{})
		for _, v := range c.Scope {
			if val, ok := s.Assigned(v); ok {
				forbidden[val] = struct{}{}
			} else {
				unassigned = append(unassigned, v)
			}
		}
		if len(unassigned) < 3 {
			continue
		}

		// Assigned scope members impose forbidden values on every
		// other unassigned member before the bipartite graph is built.
		for _, v := range unassigned {
			var toRemove []int
			for val := range forbidden {
				if s.current[v].Contains(val) {
					toRemove = append(toRemove, val)
				}
			}
			for _, val := range toRemove {
				s.current[v].Remove(val)
				s.recordRemoval(v, val)
			}
			if s.current[v].IsEmpty() {
				return DWO
			}
		}

		if s.reginFilter(unassigned) == DWO {
			return DWO
		}
	}
	return OK
}

// reginFilter applies steps 1-5 of §4.5 to one unassigned variable
// group: build the bipartite compatibility graph, find a maximum
// matching (Hopcroft-Karp), construct the directed residual graph
// with a virtual free-value source, compute strongly connected
// components (iterative Tarjan), and prune every candidate edge whose
// endpoints fall in different components and is not itself matched.
func (s *Store) reginFilter(vars []int) Result {
	n := len(vars)

	valueSet := make(map[int]struct{})
	for _, v := range vars {
		for _, val := range s.current[v].Values() {
			valueSet[val] = struct{}{}
		}
	}
	values := make([]int, 0, len(valueSet))
	for val := range valueSet {
		values = append(values, val)
	}
	// Deterministic ordering keeps the matching (and hence pruning
	// order) reproducible across runs.
	sortInts(values)
	m := len(values)

	valIndex := make(map[int]int, m)
	for i, val := range values {
		valIndex[val] = i
	}

	// adj[i] = local value indices compatible with var i (0..n-1 are
	// variables, values occupy n..n+m-1 in the combined node space).
	adj := make([][]int, n)
	for i, v := range vars {
		for _, val := range s.current[v].Values() {
			adj[i] = append(adj[i], valIndex[val])
		}
	}

	matchL, matchR, matched := hopcroftKarp(adj, n, m)
	if matched < n {
		return DWO
	}

	// Combined node space: [0,n) variables, [n,n+m) values, n+m the
	// virtual free-value sink/source.
	free := n + m
	numNodes := n + m + 1
	graph := make([][]int, numNodes)

	for i := 0; i < n; i++ {
		for _, j := range adj[i] {
			valNode := n + j
			if matchL[i] == j {
				graph[valNode] = append(graph[valNode], i) // matched: value -> var
			} else {
				graph[i] = append(graph[i], valNode) // candidate: var -> value
			}
		}
	}
	for j := 0; j < m; j++ {
		valNode := n + j
		if matchR[j] == -1 {
			graph[valNode] = append(graph[valNode], free) // unmatched value -> free
		} else {
			graph[free] = append(graph[free], valNode) // free -> matched value
		}
	}

	scc := tarjanSCC(graph, numNodes)

	for i, v := range vars {
		for _, j := range adj[i] {
			if matchL[i] == j {
				continue
			}
			valNode := n + j
			if scc[i] != scc[valNode] {
				val := values[j]
				s.current[v].Remove(val)
				s.recordRemoval(v, val)
			}
		}
		if s.current[v].IsEmpty() {
			return DWO
		}
	}
	return OK
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// hopcroftKarp finds a maximum matching in the bipartite graph given
// by adj (adjacency lists from left nodes [0,nLeft) to right nodes
// [0,nRight)). Augmenting-path search is bounded by path length (at
// most nLeft), so the recursive DFS here is safe; only the SCC pass
// below is required to be iterative.
func hopcroftKarp(adj [][]int, nLeft, nRight int) (matchL, matchR []int, matched int) {
	const inf = int(^uint(0) >> 1)

	matchL = make([]int, nLeft)
	matchR = make([]int, nRight)
	for i := range matchL {
		matchL[i] = -1
	}
	for j := range matchR {
		matchR[j] = -1
	}
	dist := make([]int, nLeft)

	bfs := func() bool {
		queue := make([]int, 0, nLeft)
		for i := 0; i < nLeft; i++ {
			if matchL[i] == -1 {
				dist[i] = 0
				queue = append(queue, i)
			} else {
				dist[i] = inf
			}
		}
		foundFree := false
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range adj[u] {
				w := matchR[v]
				if w == -1 {
					foundFree = true
				} else if dist[w] == inf {
					dist[w] = dist[u] + 1
					queue = append(queue, w)
				}
			}
		}
		return foundFree
	}

	var dfs func(u int) bool
	dfs = func(u int) bool {
		for _, v := range adj[u] {
			w := matchR[v]
			if w == -1 || (dist[w] == dist[u]+1 && dfs(w)) {
				matchL[u] = v
				matchR[v] = u
				return true
			}
		}
		dist[u] = inf
		return false
	}

	for bfs() {
		for i := 0; i < nLeft; i++ {
			if matchL[i] == -1 && dfs(i) {
				matched++
			}
		}
	}
	return matchL, matchR, matched
}

// tarjanSCC computes strongly connected components of graph (adjacency
// list over numNodes nodes) using an explicit-stack iterative
// formulation of Tarjan's algorithm — mandated in place of recursion
// to avoid call-depth limits on large (16x16, 25x25) boards. Returns a
// component id per node.
func tarjanSCC(graph [][]int, numNodes int) []int {
	index := make([]int, numNodes)
	low := make([]int, numNodes)
	onStack := make([]bool, numNodes)
	comp := make([]int, numNodes)
	for i := range index {
		index[i] = -1
	}

	var stack []int
	nextIndex := 0
	nextComp := 0

	type callFrame struct {
		node   int
		edgeAt int
	}

	for start := 0; start < numNodes; start++ {
		if index[start] != -1 {
			continue
		}

		var work []callFrame
		work = append(work, callFrame{node: start, edgeAt: 0})
		index[start] = nextIndex
		low[start] = nextIndex
		nextIndex++
		stack = append(stack, start)
		onStack[start] = true

		for len(work) > 0 {
			top := &work[len(work)-1]
			v := top.node

			if top.edgeAt < len(graph[v]) {
				w := graph[v][top.edgeAt]
				top.edgeAt++
				if index[w] == -1 {
					index[w] = nextIndex
					low[w] = nextIndex
					nextIndex++
					stack = append(stack, w)
					onStack[w] = true
					work = append(work, callFrame{node: w, edgeAt: 0})
				} else if onStack[w] {
					if index[w] < low[v] {
						low[v] = index[w]
					}
				}
				continue
			}

			// All of v's edges are processed: pop and propagate low-link
			// to the parent frame (if any), then root out an SCC if v is
			// its own component root.
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := &work[len(work)-1]
				if low[v] < low[parent.node] {
					low[parent.node] = low[v]
				}
			}
			if low[v] == index[v] {
				for {
					n := len(stack) - 1
					w := stack[n]
					stack = stack[:n]
					onStack[w] = false
					comp[w] = nextComp
					if w == v {
						break
					}
				}
				nextComp++
			}
		}
	}
	return comp
}
