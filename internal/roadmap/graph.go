package roadmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// GraphSource returns the raw graph description.
type GraphSource interface {
	Graph(ctx context.Context) ([]byte, error)
}

// NetworkError means the graph description could not be retrieved.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch graph: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError means the graph description was retrieved but is not usable.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse graph: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type graphDoc struct {
	Nodes []graphNode `json:"nodes"`
}

type graphNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Label string `json:"label"`
	} `json:"data"`
	Position struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"position"`
	ParentIDs []string `json:"parentIds"`
}

// Load fetches and parses the graph. Any failure is fatal for the caller.
func Load(ctx context.Context, src GraphSource) ([]Node, error) {
	data, err := src.Graph(ctx)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return ParseGraph(data)
}

// ParseGraph decodes a graph description and keeps only topic and subtopic
// nodes, in document order.
func ParseGraph(data []byte) ([]Node, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ParseError{Err: fmt.Errorf("expected a JSON object")}
	}

	var doc graphDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	nodes := make([]Node, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		kind := Kind(n.Type)
		if kind != KindTopic && kind != KindSubtopic {
			continue
		}
		nodes = append(nodes, Node{
			ID:        n.ID,
			Label:     n.Data.Label,
			Position:  Position{X: n.Position.X, Y: n.Position.Y},
			ParentIDs: n.ParentIDs,
			Kind:      kind,
		})
	}
	return nodes, nil
}
