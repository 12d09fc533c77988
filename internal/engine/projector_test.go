package engine

import (
	"testing"

	"github.com/datvo/accessengine/internal/domain"
)

func TestProjectGraph_EmptyNodeSet(t *testing.T) {
	data := ProjectGraph(nil, "Taylor Vance")

	if len(data.Nodes) != 1 {
		t.Fatalf("expected only the celebrity node, got %d nodes", len(data.Nodes))
	}
	if len(data.Edges) != 0 {
		t.Fatalf("expected no edges, got %d", len(data.Edges))
	}

	celeb := data.Nodes[0]
	if celeb.ID != CelebrityNodeID {
		t.Fatalf("expected reserved celebrity id, got %s", celeb.ID)
	}
	if celeb.Label != "Taylor Vance" {
		t.Fatalf("expected celebrity label, got %s", celeb.Label)
	}
	if celeb.Size != 40 {
		t.Fatalf("expected celebrity size 40, got %d", celeb.Size)
	}
	if celeb.Font == nil || celeb.Font.Size != 16 || !celeb.Font.Bold {
		t.Fatalf("expected bold 16pt celebrity font, got %+v", celeb.Font)
	}
}

func TestProjectGraph_NodeAndEdgeCounts(t *testing.T) {
	nodes := []domain.Node{
		{ID: "n1", PersonName: "A", RelationshipType: "manager", HopDistance: 1, WarmScore: 80},
		{ID: "n2", PersonName: "B", RelationshipType: "investor", HopDistance: 2, WarmScore: 60},
		{ID: "n3", PersonName: "C", RelationshipType: "mystery", HopDistance: 3, WarmScore: 45},
	}

	data := ProjectGraph(nodes, "Taylor Vance")

	if len(data.Nodes) != len(nodes)+1 {
		t.Fatalf("expected %d visual nodes, got %d", len(nodes)+1, len(data.Nodes))
	}
	if len(data.Edges) != len(nodes) {
		t.Fatalf("expected %d edges, got %d", len(nodes), len(data.Edges))
	}
}

func TestProjectGraph_NodeStyling(t *testing.T) {
	nodes := []domain.Node{
		{ID: "n1", PersonName: "Maya", Role: "talent manager", RelationshipType: "manager", HopDistance: 1, WarmScore: 87, WhyWarm: "handles bookings", ContactInfo: "maya@agency.com"},
		{ID: "n2", PersonName: "Unknown", RelationshipType: "astrologer", HopDistance: 2, WarmScore: 30},
	}

	data := ProjectGraph(nodes, "Taylor Vance")

	manager := data.Nodes[1]
	if manager.Size != 20+87/10 {
		t.Fatalf("expected size 28, got %d", manager.Size)
	}
	if manager.Color.Background != "#FF6B6B" {
		t.Fatalf("expected manager palette color, got %s", manager.Color.Background)
	}
	if manager.Title != "talent manager\nWarm score: 87/100" {
		t.Fatalf("unexpected title: %q", manager.Title)
	}
	if manager.HopDistance != 1 || manager.WarmScore != 87 {
		t.Fatalf("domain metadata not carried: %+v", manager)
	}

	unknown := data.Nodes[2]
	if unknown.Color.Background != "#A0A0A0" {
		t.Fatalf("expected neutral fallback color, got %s", unknown.Color.Background)
	}
	if unknown.Group != "astrologer" {
		t.Fatalf("expected group to keep the raw type, got %s", unknown.Group)
	}
}

func TestProjectGraph_EdgeStyling(t *testing.T) {
	nodes := []domain.Node{
		{ID: "direct", RelationshipType: "manager", HopDistance: 1, WarmScore: 80},
		{ID: "indirect", RelationshipType: "investor", HopDistance: 2, WarmScore: 60},
	}

	data := ProjectGraph(nodes, "Taylor Vance")

	directEdge := data.Edges[0]
	if directEdge.From != "direct" || directEdge.To != CelebrityNodeID {
		t.Fatalf("unexpected edge endpoints: %+v", directEdge)
	}
	if directEdge.Width != 3 || directEdge.Dashes {
		t.Fatalf("direct edge should be heavy and solid: %+v", directEdge)
	}

	indirectEdge := data.Edges[1]
	if indirectEdge.Width != 1 || !indirectEdge.Dashes {
		t.Fatalf("indirect edge should be light and dashed: %+v", indirectEdge)
	}
	if indirectEdge.Label != "investor" {
		t.Fatalf("expected relationship label, got %s", indirectEdge.Label)
	}
}

func TestProjectGraph_EmptyRelationshipTypeFallsBackToOther(t *testing.T) {
	data := ProjectGraph([]domain.Node{{ID: "n1", PersonName: "X", HopDistance: 1, WarmScore: 50}}, "T")

	if data.Nodes[1].Group != "other" {
		t.Fatalf("expected group other, got %s", data.Nodes[1].Group)
	}
}
