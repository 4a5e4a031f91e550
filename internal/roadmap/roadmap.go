package roadmap

import "sort"

// Kind is the node type reported by the roadmap graph.
type Kind string

const (
	KindTopic    Kind = "topic"
	KindSubtopic Kind = "subtopic"
)

// Position is a node's coordinate in the roadmap canvas.
type Position struct {
	X float64
	Y float64
}

// Node is a single topic or subtopic from the roadmap graph.
type Node struct {
	ID        string
	Label     string // Display name
	Position  Position
	ParentIDs []string
	Kind      Kind
}

// Section is a cluster of nodes that share a vertical band of the canvas.
type Section struct {
	ID     string   // Synthetic, e.g. "section_0"
	Label  string   // Name table entry, or the anchor's label when the table ran out
	Anchor Position // Position of the first node placed in the section
	Nodes  []Node   // Members in insertion order

	// FallbackLabel is set when Label is the anchor node's raw label.
	FallbackLabel bool
}

// Ordered returns the section members sorted by Y, then X.
func (s Section) Ordered() []Node {
	nodes := make([]Node, len(s.Nodes))
	copy(nodes, s.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Position.Y != nodes[j].Position.Y {
			return nodes[i].Position.Y < nodes[j].Position.Y
		}
		return nodes[i].Position.X < nodes[j].Position.X
	})
	return nodes
}
