// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

// scheduleResult is the output of schedule(): a culled, topologically
// ordered node list plus each node's position within it.
type scheduleResult struct {
	order []NodeID
	index map[NodeID]int // position of a node id within order
}

// schedule culls unreachable nodes and produces one topological order of
// the survivors. Physical aliasing (alias.go) and renderpass merging
// (renderpass.go) both key off the position a node ends up at in order, so
// scheduling runs before them despite spec section 4.4.3 (aliasing) being
// numbered ahead of 4.4.4 (scheduling): aliasing's own liveness-range
// definition ("disjoint in the final schedule") only makes sense once an
// order exists.
func schedule(g *Graph) (*scheduleResult, error) {
	predecessors := make([][]NodeID, len(g.nodes))
	for _, u := range g.imageUsages {
		if u.Access != AccessRead && u.Access != AccessModifyRead {
			continue
		}
		creator := g.images[u.Virtual].versions[u.Version.Version].creatorNode
		predecessors[u.Node] = append(predecessors[u.Node], creator)
	}
	for _, u := range g.bufferUsages {
		if u.Access != AccessRead && u.Access != AccessModifyRead {
			continue
		}
		creator := g.buffers[u.Virtual].versions[u.Version.Version].creatorNode
		predecessors[u.Node] = append(predecessors[u.Node], creator)
	}
	for _, n := range g.nodes {
		predecessors[n.ID] = append(predecessors[n.ID], n.ExplicitDeps...)
	}

	needed := computeNeeded(g, predecessors)

	// Kahn's algorithm over the needed subset, ignoring edges that point at
	// culled nodes. computeNeeded closes over every predecessor edge (data
	// and explicit dependencies alike), so a needed node's predecessors are
	// all needed and the skip below is only defensive.
	inDegree := make(map[NodeID]int, len(needed))
	successors := make(map[NodeID][]NodeID, len(needed))
	for id := range needed {
		inDegree[id] = 0
	}
	for _, n := range g.nodes {
		if !needed[n.ID] {
			continue
		}
		for _, p := range predecessors[n.ID] {
			if !needed[p] {
				continue
			}
			inDegree[n.ID]++
			successors[p] = append(successors[p], n.ID)
		}
	}

	var ready []NodeID
	for id := range needed {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sortNodeIDs(ready)

	order := make([]NodeID, 0, len(needed))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		var newlyReady []NodeID
		for _, s := range successors[next] {
			inDegree[s]--
			if inDegree[s] == 0 {
				newlyReady = append(newlyReady, s)
			}
		}
		sortNodeIDs(newlyReady)
		ready = append(ready, newlyReady...)
		sortNodeIDs(ready)
	}

	if len(order) != len(needed) {
		return nil, &BuildError{Reason: "cyclic dependency among render graph nodes"}
	}

	idx := make(map[NodeID]int, len(order))
	for i, id := range order {
		idx[id] = i
	}
	return &scheduleResult{order: order, index: idx}, nil
}

// computeNeeded marks every node that (directly or transitively) produces
// a version consumed by an output binding, plus every node with
// CanBeCulled == false, and returns the closure under predecessor edges
// (data and explicit dependencies).
func computeNeeded(g *Graph, predecessors [][]NodeID) map[NodeID]bool {
	needed := make(map[NodeID]bool, len(g.nodes))
	var stack []NodeID

	for _, n := range g.nodes {
		if !n.CanBeCulled {
			if !needed[n.ID] {
				needed[n.ID] = true
				stack = append(stack, n.ID)
			}
		}
	}
	for _, out := range g.outputImages {
		node := g.imageUsage(out.Usage).Node
		if !needed[node] {
			needed[node] = true
			stack = append(stack, node)
		}
	}
	for _, out := range g.outputBuffers {
		node := g.bufferUsage(out.Usage).Node
		if !needed[node] {
			needed[node] = true
			stack = append(stack, node)
		}
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range predecessors[id] {
			if !needed[p] {
				needed[p] = true
				stack = append(stack, p)
			}
		}
	}
	return needed
}

func sortNodeIDs(ids []NodeID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
