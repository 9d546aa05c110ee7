package spreadsheet

import "sort"

// DependencyNode represents a cell in the dependency graph
type DependencyNode struct {
	// address of *THIS* node
	Address CellAddress

	// cell-to-cell dependencies
	CellPrecedents map[CellAddress]*DependencyNode // cells this cell depends on
	CellDependents map[CellAddress]*DependencyNode // cells that depend on this cell
}

// DependencyGraph holds the explicit dependency edges between formula
// cells and the cells they reference. edges are only inserted after
// WouldCreateCycle has cleared them, so the graph stays acyclic.
type DependencyGraph struct {
	nodes map[CellAddress]*DependencyNode // all nodes in the graph
}

// NewDependencyGraph creates a new dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[CellAddress]*DependencyNode),
	}
}

// GetOrCreateNode gets an existing node or creates a new one
func (dg *DependencyGraph) GetOrCreateNode(addr CellAddress) *DependencyNode {
	if node, exists := dg.nodes[addr]; exists {
		return node
	}

	node := &DependencyNode{
		Address:        addr,
		CellPrecedents: make(map[CellAddress]*DependencyNode),
		CellDependents: make(map[CellAddress]*DependencyNode),
	}
	dg.nodes[addr] = node
	return node
}

// GetNode retrieves a node if it exists
func (dg *DependencyGraph) GetNode(addr CellAddress) (*DependencyNode, bool) {
	node, exists := dg.nodes[addr]
	return node, exists
}

// cleanupNodeIfEmpty removes a node if it has no edges left
func (dg *DependencyGraph) cleanupNodeIfEmpty(addr CellAddress) {
	node, exists := dg.nodes[addr]
	if !exists {
		return
	}
	if len(node.CellPrecedents) > 0 || len(node.CellDependents) > 0 {
		return
	}
	delete(dg.nodes, addr)
}

// AddCellDependency adds a cell-to-cell dependency (from depends on to)
func (dg *DependencyGraph) AddCellDependency(from, to CellAddress) {
	fromNode := dg.GetOrCreateNode(from)
	toNode := dg.GetOrCreateNode(to)

	// mark dep
	fromNode.CellPrecedents[to] = toNode
	toNode.CellDependents[from] = fromNode
}

// RemoveCellDependency removes a cell-to-cell dependency
func (dg *DependencyGraph) RemoveCellDependency(from, to CellAddress) bool {
	fromNode, fromExists := dg.nodes[from]
	toNode, toExists := dg.nodes[to]

	if !fromExists || !toExists {
		return false
	}
	if _, linked := fromNode.CellPrecedents[to]; !linked {
		return false
	}

	// remove the dependency
	delete(fromNode.CellPrecedents, to)
	delete(toNode.CellDependents, from)

	// clean up empty nodes
	dg.cleanupNodeIfEmpty(from)
	dg.cleanupNodeIfEmpty(to)

	return true
}

// ClearDependencies removes every precedent edge of a cell. edges from
// cells that depend on addr are left alone.
func (dg *DependencyGraph) ClearDependencies(addr CellAddress) {
	node, exists := dg.nodes[addr]
	if !exists {
		return
	}
	for precedentAddr := range node.CellPrecedents {
		dg.RemoveCellDependency(addr, precedentAddr)
	}
}

// SetDependencies replaces the precedents of from with exactly targets.
// stale edges are removed and existing ones are kept, so setting the
// same targets twice is a no-op.
func (dg *DependencyGraph) SetDependencies(from CellAddress, targets []CellAddress) {
	wanted := make(map[CellAddress]struct{}, len(targets))
	for _, to := range targets {
		wanted[to] = struct{}{}
	}

	if node, exists := dg.nodes[from]; exists {
		for precedentAddr := range node.CellPrecedents {
			if _, keep := wanted[precedentAddr]; !keep {
				dg.RemoveCellDependency(from, precedentAddr)
			}
		}
	}

	for to := range wanted {
		dg.AddCellDependency(from, to)
	}
}

// WouldCreateCycle reports whether making from depend on to would close a
// loop, i.e. whether from is already reachable from to through
// precedents. a direct self edge counts.
func (dg *DependencyGraph) WouldCreateCycle(from, to CellAddress) bool {
	if from == to {
		return true
	}
	visited := make(map[CellAddress]struct{})
	return dg.reaches(to, from, visited)
}

// reaches walks precedents depth-first from addr looking for target
func (dg *DependencyGraph) reaches(addr, target CellAddress, visited map[CellAddress]struct{}) bool {
	if _, alreadyVisited := visited[addr]; alreadyVisited {
		return false
	}
	visited[addr] = struct{}{}

	node, exists := dg.nodes[addr]
	if !exists {
		return false
	}
	for precedentAddr := range node.CellPrecedents {
		if precedentAddr == target {
			return true
		}
		if dg.reaches(precedentAddr, target, visited) {
			return true
		}
	}
	return false
}

// sortAddresses orders addresses by row, then column
func sortAddresses(addrs []CellAddress) {
	sort.Slice(addrs, func(i, j int) bool {
		if addrs[i].Row != addrs[j].Row {
			return addrs[i].Row < addrs[j].Row
		}
		return addrs[i].Column < addrs[j].Column
	})
}

// GetDirectDependents returns cells directly depending on this cell,
// sorted by position
func (dg *DependencyGraph) GetDirectDependents(addr CellAddress) []CellAddress {
	node, exists := dg.nodes[addr]
	if !exists {
		return nil
	}

	result := make([]CellAddress, 0, len(node.CellDependents))
	for dependentAddr := range node.CellDependents {
		result = append(result, dependentAddr)
	}
	sortAddresses(result)
	return result
}

// GetAllDependents returns all cells affected by this cell (transitive closure)
func (dg *DependencyGraph) GetAllDependents(addr CellAddress) []CellAddress {
	visited := make(map[CellAddress]struct{})
	var result []CellAddress

	dg.collectDependents(addr, visited, &result)
	sortAddresses(result)
	return result
}

// collectDependents recursively collects all dependents
func (dg *DependencyGraph) collectDependents(addr CellAddress, visited map[CellAddress]struct{}, result *[]CellAddress) {
	if _, alreadyVisited := visited[addr]; alreadyVisited {
		return
	}
	visited[addr] = struct{}{}

	node, exists := dg.nodes[addr]
	if !exists {
		return
	}

	for dependentAddr := range node.CellDependents {
		if _, alreadyVisited := visited[dependentAddr]; !alreadyVisited {
			*result = append(*result, dependentAddr)
			dg.collectDependents(dependentAddr, visited, result)
		}
	}
}

// GetDirectPrecedents returns cells this cell directly depends on,
// sorted by position
func (dg *DependencyGraph) GetDirectPrecedents(addr CellAddress) []CellAddress {
	node, exists := dg.nodes[addr]
	if !exists {
		return nil
	}

	result := make([]CellAddress, 0, len(node.CellPrecedents))
	for precedentAddr := range node.CellPrecedents {
		result = append(result, precedentAddr)
	}
	sortAddresses(result)
	return result
}

// HasCycle checks the whole graph for circular dependencies. it should
// never be true, edges are validated on insertion.
func (dg *DependencyGraph) HasCycle() bool {
	// three states: unvisited (not in map), visiting (false), visited (true)
	state := make(map[CellAddress]bool)

	var visit func(addr CellAddress) bool
	visit = func(addr CellAddress) bool {
		if completed, exists := state[addr]; exists {
			// currently visiting - cycle detected
			return !completed
		}

		// mark as visiting
		state[addr] = false

		if node, exists := dg.nodes[addr]; exists {
			for precedentAddr := range node.CellPrecedents {
				if visit(precedentAddr) {
					return true
				}
			}
		}

		// mark as visited
		state[addr] = true
		return false
	}

	for addr := range dg.nodes {
		if _, visited := state[addr]; !visited {
			if visit(addr) {
				return true
			}
		}
	}
	return false
}

// NodeCount returns the number of nodes in the graph
func (dg *DependencyGraph) NodeCount() int {
	return len(dg.nodes)
}

// EdgeCount returns the number of dependency edges
func (dg *DependencyGraph) EdgeCount() int {
	total := 0
	for _, node := range dg.nodes {
		total += len(node.CellPrecedents)
	}
	return total
}

// Clear removes all nodes and dependencies from the graph
func (dg *DependencyGraph) Clear() {
	dg.nodes = make(map[CellAddress]*DependencyNode)
}
