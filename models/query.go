package models

import (
	"fmt"
)

// NodeFilter is a function type used to filter nodes in queries.
type NodeFilter func(node *Node) bool

// FindNodeByID returns a node by its ID.
func (g *Graph) FindNodeByID(id int) (*Node, error) {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node, nil
		}
	}
	return nil, fmt.Errorf("node with ID %d not found", id)
}

// FindNodes returns all nodes matching the filter.
func (g *Graph) FindNodes(filter NodeFilter) []*Node {
	var result []*Node
	for _, node := range g.Nodes {
		if filter(node) {
			result = append(result, node)
		}
	}
	return result
}

// ConnectedNodes returns the nodes that own at least one edge.
func (g *Graph) ConnectedNodes() []*Node {
	return g.FindNodes(func(n *Node) bool { return len(n.Edges) > 0 })
}

// EdgeCount returns the total number of owned edges in the graph.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, node := range g.Nodes {
		total += len(node.Edges)
	}
	return total
}

// BranchCount returns the total number of decorative branches in the graph.
func (g *Graph) BranchCount() int {
	total := 0
	for _, node := range g.Nodes {
		total += len(node.Branches)
	}
	return total
}

// InViewport reports whether the node lies within the graph bounds extended
// by margin on every side.
func (n *Node) InViewport(width, height, margin float64) bool {
	return n.X >= -margin && n.X <= width+margin &&
		n.Y >= -margin && n.Y <= height+margin
}
