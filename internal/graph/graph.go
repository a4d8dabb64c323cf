// Package graph builds the relationship graph over a record batch from
// declared `related` references.
package graph

import (
	"strings"

	"github.com/starford/ansuz/internal/record"
)

// EdgeKind is the relationship type carried by an edge.
type EdgeKind string

const (
	EdgeKindRelated EdgeKind = "related"
	// EdgeKindSupersedes is defined for consumers but never synthesized
	// by Build; no frontmatter field declares the superseding record.
	EdgeKindSupersedes EdgeKind = "supersedes"
)

// Node is one record in the graph. Placeholder nodes stand in for
// referenced identifiers with no corresponding record: they carry the
// default status and no title.
type Node struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Title  string `json:"title,omitempty"`
}

// Edge is a directed relationship between two identifiers.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"type"`
}

// Graph is the node and edge sequence for one batch. Nodes are
// deduplicated by ID; edges are not, so a record referencing the same
// target twice contributes two identical edges.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// Build constructs the graph for a batch. Every record becomes a node;
// every `related` entry becomes a Related edge, even when the target is
// outside the batch, in which case a placeholder node is appended. The
// final dedup keeps first occurrences, so real record nodes always win
// over placeholders for the same ID.
func Build(records []*record.Record) *Graph {
	nodes := make([]Node, 0, len(records))
	known := make(map[string]struct{}, len(records))
	for _, r := range records {
		nodes = append(nodes, Node{
			ID:     r.ID,
			Status: r.Status().String(),
			Title:  r.Title(),
		})
		known[r.ID] = struct{}{}
	}

	var edges []Edge
	for _, r := range records {
		for _, ref := range r.Meta.Related {
			target := targetID(ref)
			edges = append(edges, Edge{
				Source: r.ID,
				Target: target,
				Kind:   EdgeKindRelated,
			})
			if _, ok := known[target]; !ok {
				nodes = append(nodes, Node{
					ID:     target,
					Status: record.StatusProposed.String(),
				})
			}
		}
	}

	return &Graph{Nodes: dedupNodes(nodes), Edges: edges}
}

// targetID strips an optional trailing .md suffix from a reference
// string to obtain the candidate identifier.
func targetID(ref string) string {
	return strings.TrimSuffix(ref, ".md")
}

// dedupNodes removes later duplicates by ID, keeping first occurrences.
func dedupNodes(nodes []Node) []Node {
	seen := make(map[string]struct{}, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	return out
}
