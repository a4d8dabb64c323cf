package graph

import (
	"testing"

	"github.com/starford/ansuz/internal/record"
)

func rec(id string, status record.Status, related ...string) *record.Record {
	return &record.Record{
		ID: id,
		Meta: record.Metadata{
			Title:   "Record " + id,
			Status:  status,
			Related: related,
		},
	}
}

func TestBuild(t *testing.T) {
	g := Build([]*record.Record{
		rec("a", record.StatusAccepted, "b.md"),
		rec("b", record.StatusProposed),
	})
	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(g.Edges))
	}
	e := g.Edges[0]
	if e.Source != "a" || e.Target != "b" || e.Kind != EdgeKindRelated {
		t.Errorf("edge = %+v", e)
	}
}

func TestBuild_StripsMarkdownSuffix(t *testing.T) {
	g := Build([]*record.Record{rec("a", record.StatusAccepted, "b.md", "c")})
	if len(g.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(g.Edges))
	}
	if g.Edges[0].Target != "b" || g.Edges[1].Target != "c" {
		t.Errorf("targets = %q, %q", g.Edges[0].Target, g.Edges[1].Target)
	}
}

func TestBuild_PlaceholderNodes(t *testing.T) {
	g := Build([]*record.Record{rec("a", record.StatusAccepted, "ghost.md")})
	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(g.Nodes))
	}
	var placeholder *Node
	for i := range g.Nodes {
		if g.Nodes[i].ID == "ghost" {
			placeholder = &g.Nodes[i]
		}
	}
	if placeholder == nil {
		t.Fatal("placeholder node missing")
	}
	if placeholder.Title != "" {
		t.Errorf("placeholder title = %q", placeholder.Title)
	}
	if placeholder.Status != record.StatusProposed.String() {
		t.Errorf("placeholder status = %q", placeholder.Status)
	}
}

func TestBuild_RealNodeWinsOverPlaceholder(t *testing.T) {
	// "b" is referenced before it appears as a record in the node list;
	// the dedup must keep the real node with its title and status.
	g := Build([]*record.Record{
		rec("a", record.StatusAccepted, "b.md"),
		rec("b", record.StatusDeprecated),
	})
	for _, n := range g.Nodes {
		if n.ID == "b" {
			if n.Title != "Record b" || n.Status != "deprecated" {
				t.Errorf("node b = %+v, want real record node", n)
			}
			return
		}
	}
	t.Fatal("node b missing")
}

func TestBuild_DuplicateReferencesKeepDuplicateEdges(t *testing.T) {
	g := Build([]*record.Record{rec("a", record.StatusAccepted, "b", "b")})
	if len(g.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(g.Edges))
	}
	if len(g.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2 (placeholder deduplicated)", len(g.Nodes))
	}
}

func TestIsEmpty(t *testing.T) {
	if !Build(nil).IsEmpty() {
		t.Error("empty batch should produce an empty graph")
	}
	if Build([]*record.Record{rec("a", record.StatusProposed)}).IsEmpty() {
		t.Error("non-empty batch should not produce an empty graph")
	}
}
