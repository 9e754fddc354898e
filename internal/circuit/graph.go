package circuit

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyID       = errors.New("empty node id")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrDanglingEdge  = errors.New("edge references unknown node")
)

// Handle tags the end of a wire. Empty means unspecified.
type Handle string

const (
	HandleNone   Handle = ""
	HandlePower  Handle = "power"
	HandleGround Handle = "ground"
)

// Edge is a directed wire from Source to Target.
type Edge struct {
	ID           string
	Source       string
	Target       string
	SourceHandle Handle
	TargetHandle Handle
}

// Graph is an immutable snapshot of a circuit.
// Construct it with NewGraph; validators only ever read from it.
type Graph struct {
	nodes    []Node
	index    map[string]Node   // id → Node
	edges    []Edge
	outgoing map[string][]Edge // source id → edges in input order
}

// NewGraph builds a snapshot and checks referential integrity: node ids must
// be non-empty and unique, and every edge must connect two known nodes.
func NewGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes:    make([]Node, 0, len(nodes)),
		index:    make(map[string]Node, len(nodes)),
		edges:    make([]Edge, len(edges)),
		outgoing: make(map[string][]Edge),
	}
	for i, n := range nodes {
		if n == nil || n.ID() == "" {
			return nil, fmt.Errorf("nodes[%d]: %w", i, ErrEmptyID)
		}
		if _, dup := g.index[n.ID()]; dup {
			return nil, fmt.Errorf("node %q: %w", n.ID(), ErrDuplicateNode)
		}
		g.index[n.ID()] = n
		g.nodes = append(g.nodes, n)
	}
	copy(g.edges, edges)
	for _, e := range g.edges {
		if _, ok := g.index[e.Source]; !ok {
			return nil, fmt.Errorf("edge %q source %q: %w", e.ID, e.Source, ErrDanglingEdge)
		}
		if _, ok := g.index[e.Target]; !ok {
			return nil, fmt.Errorf("edge %q target %q: %w", e.ID, e.Target, ErrDanglingEdge)
		}
		g.outgoing[e.Source] = append(g.outgoing[e.Source], e)
	}
	return g, nil
}

// Node returns a node by ID (nil if not found).
func (g *Graph) Node(id string) Node {
	return g.index[id]
}

// Nodes returns the nodes in input order. The slice is a copy.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in input order. The slice is a copy.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Outgoing returns the edges leaving id, in input order.
func (g *Graph) Outgoing(id string) []Edge {
	return g.outgoing[id]
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodesOf returns every node of concrete type T, in input order.
func NodesOf[T Node](g *Graph) []T {
	var out []T
	for _, n := range g.nodes {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
