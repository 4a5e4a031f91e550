package sections

import (
	"fmt"
	"sort"

	"github.com/dgallion1/roadmapdocs/internal/roadmap"
)

// DefaultThreshold is the vertical distance from a section's anchor beyond
// which a node starts a new section.
const DefaultThreshold = 300

// DefaultNames labels sections by their visual order on the AI Engineer
// roadmap. The mapping is positional only.
var DefaultNames = []string{
	"Introduction",
	"Common Terminology",
	"Prompt Engineering",
	"Pre-trained Models",
	"Open vs Closed Source",
	"AI Safety and Ethics",
	"Handling User Input",
	"Embeddings",
	"Vector Databases",
	"RAG Fundamentals",
	"RAG Implementation",
	"RAG Frameworks",
	"AI Agents",
	"Model Context Protocol",
	"MCP Architecture",
	"MCP Implementation",
	"Multimodal AI",
	"Development Tools",
}

// Config controls clustering behavior.
type Config struct {
	Threshold float64  // Max distance from the anchor's Y to stay in a section.
	Names     []string // Section labels in order. Nil means DefaultNames.
}

// DefaultConfig returns the roadmap.sh layout defaults.
func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Names:     DefaultNames,
	}
}

// Build clusters nodes into sections by vertical position and names them.
//
// Nodes are walked in ascending Y order. A node opens a new section when
// its Y exceeds the active section's anchor Y by more than the threshold.
// The anchor is never moved, so a long section may hold members farther
// from the anchor than from their predecessor.
func Build(nodes []roadmap.Node, cfg Config) []roadmap.Section {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Names == nil {
		cfg.Names = DefaultNames
	}
	if len(nodes) == 0 {
		return nil
	}

	sorted := make([]roadmap.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position.Y < sorted[j].Position.Y
	})

	var secs []roadmap.Section
	for _, n := range sorted {
		if len(secs) == 0 || n.Position.Y-secs[len(secs)-1].Anchor.Y > cfg.Threshold {
			secs = append(secs, roadmap.Section{
				ID:     fmt.Sprintf("section_%d", len(secs)),
				Label:  n.Label,
				Anchor: n.Position,
			})
		}
		active := &secs[len(secs)-1]
		active.Nodes = append(active.Nodes, n)
	}

	sort.SliceStable(secs, func(i, j int) bool {
		return secs[i].Anchor.Y < secs[j].Anchor.Y
	})

	applyNames(secs, cfg.Names)
	return secs
}

// applyNames labels sections from the name table in order. Sections past
// the end of the table keep their anchor's label.
func applyNames(secs []roadmap.Section, names []string) {
	for i := range secs {
		if i < len(names) {
			secs[i].Label = names[i]
			secs[i].FallbackLabel = false
			continue
		}
		secs[i].FallbackLabel = true
	}
}

// Fallbacks returns the sections whose label came from the anchor node.
func Fallbacks(secs []roadmap.Section) []roadmap.Section {
	var out []roadmap.Section
	for _, s := range secs {
		if s.FallbackLabel {
			out = append(out, s)
		}
	}
	return out
}
