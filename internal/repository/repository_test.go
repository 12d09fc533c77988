package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/datvo/accessengine/internal/domain"
	"github.com/datvo/accessengine/internal/graph"
)

func TestRepository_CreateCelebrity(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	now := time.Now().UTC()
	celeb := domain.Celebrity{
		ID:            "CEL-001",
		Name:          "Taylor Vance",
		Industry:      "music",
		Bio:           "Grammy-nominated producer.",
		TwitterHandle: "@taylorvance",
		KnownManager:  "Maya Chen",
		RecentNews: []domain.NewsItem{
			{Title: "Taylor Vance announces tour", Source: "mock"},
		},
		AccessScore: 50,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := repo.CreateCelebrity(context.Background(), celeb); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}

	call := calls[0]
	if call.Query != createCelebrityCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", createCelebrityCypher, call.Query)
	}
	if call.Params["celebrityId"] != celeb.ID {
		t.Errorf("expected celebrityId %s, got %v", celeb.ID, call.Params["celebrityId"])
	}

	props, ok := call.Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", call.Params["props"])
	}
	if props["name"] != celeb.Name {
		t.Errorf("name mismatch: want %s got %v", celeb.Name, props["name"])
	}
	if props["accessScore"] != 50 {
		t.Errorf("accessScore mismatch: want 50 got %v", props["accessScore"])
	}

	news, ok := props["recentNews"].(string)
	if !ok || !strings.Contains(news, "announces tour") {
		t.Fatalf("expected recent news encoded as JSON string, got %v", props["recentNews"])
	}
}

func TestRepository_CreateCelebrityRequiresID(t *testing.T) {
	repo := New(graph.NewMemoryClient())

	if err := repo.CreateCelebrity(context.Background(), domain.Celebrity{Name: "No ID"}); err == nil {
		t.Fatal("expected error for missing celebrity id")
	}
}

func TestRepository_GetCelebrity(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	created := time.Now().UTC().Format(time.RFC3339)
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"celebrityId":   "CEL-001",
			"name":          "Taylor Vance",
			"industry":      "music",
			"bio":           "Producer.",
			"twitterHandle": "@taylorvance",
			"knownManager":  "Maya Chen",
			"recentNews":    `[{"title":"Tour announced"}]`,
			"accessScore":   int64(72),
			"createdAt":     created,
			"updatedAt":     created,
		},
	}})

	celeb, err := repo.GetCelebrity(context.Background(), "CEL-001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if celeb.Name != "Taylor Vance" {
		t.Errorf("expected name Taylor Vance, got %s", celeb.Name)
	}
	if celeb.AccessScore != 72 {
		t.Errorf("expected access score 72, got %d", celeb.AccessScore)
	}
	if len(celeb.RecentNews) != 1 || celeb.RecentNews[0].Title != "Tour announced" {
		t.Errorf("expected decoded news list, got %+v", celeb.RecentNews)
	}
	if celeb.CreatedAt.IsZero() {
		t.Error("expected createdAt to be parsed")
	}
}

func TestRepository_GetCelebrityNotFound(t *testing.T) {
	repo := New(graph.NewMemoryClient())

	_, err := repo.GetCelebrity(context.Background(), "CEL-MISSING")
	if !errors.Is(err, ErrCelebrityNotFound) {
		t.Fatalf("expected ErrCelebrityNotFound, got %v", err)
	}
}

func TestRepository_FindCelebrityByName(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"celebrityId": "CEL-001",
			"name":        "Taylor Vance",
			"industry":    "music",
			"accessScore": int64(60),
		},
	}})

	celeb, err := repo.FindCelebrityByName(context.Background(), "  taylor ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if celeb.ID != "CEL-001" {
		t.Errorf("expected CEL-001, got %s", celeb.ID)
	}

	calls := mem.ReadCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 read query, got %d", len(calls))
	}
	if calls[0].Params["name"] != "taylor" {
		t.Errorf("expected trimmed name param, got %v", calls[0].Params["name"])
	}
	if !strings.Contains(calls[0].Query, "toLower(c.name) CONTAINS toLower($name)") {
		t.Errorf("expected case-insensitive match in query: %s", calls[0].Query)
	}
}

func TestRepository_FindCelebrityByNameEmpty(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	if _, err := repo.FindCelebrityByName(context.Background(), "   "); !errors.Is(err, ErrCelebrityNotFound) {
		t.Fatalf("expected ErrCelebrityNotFound for blank name, got %v", err)
	}
	if len(mem.ReadCalls()) != 0 {
		t.Error("expected no query for blank name")
	}
}

func TestRepository_ListCelebrities(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"celebrityId": "CEL-001", "name": "Taylor Vance", "industry": "music", "accessScore": int64(72)},
		{"celebrityId": "CEL-002", "name": "Jordan Ellis", "industry": "film", "accessScore": int64(41)},
	}})

	summaries, err := repo.ListCelebrities(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].AccessScore != 72 {
		t.Errorf("expected first summary score 72, got %d", summaries[0].AccessScore)
	}

	calls := mem.ReadCalls()
	if !strings.Contains(calls[0].Query, "ORDER BY c.accessScore DESC") {
		t.Errorf("unexpected ordering in list query: %s", calls[0].Query)
	}
}

func TestRepository_UpdateAccessScore(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{
		{"celebrityId": "CEL-001"},
	}})

	if err := repo.UpdateAccessScore(context.Background(), "CEL-001", 67); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	if calls[0].Params["accessScore"] != 67 {
		t.Errorf("expected accessScore 67, got %v", calls[0].Params["accessScore"])
	}
}

func TestRepository_UpdateAccessScoreMissingCelebrity(t *testing.T) {
	repo := New(graph.NewMemoryClient())

	err := repo.UpdateAccessScore(context.Background(), "CEL-MISSING", 50)
	if !errors.Is(err, ErrCelebrityNotFound) {
		t.Fatalf("expected ErrCelebrityNotFound, got %v", err)
	}
}

func TestRepository_InsertNode(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{
		{"nodeId": "NODE-001"},
	}})

	node := domain.Node{
		ID:               "NODE-001",
		CelebrityID:      "CEL-001",
		PersonName:       "Maya Chen",
		Role:             "talent manager",
		RelationshipType: domain.RelationshipManager,
		HopDistance:      1,
		WarmScore:        85,
		WhyWarm:          "handles all bookings",
		ContactInfo:      "maya@agency.com",
		CreatedAt:        time.Now().UTC(),
	}

	if err := repo.InsertNode(context.Background(), node); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}

	props, ok := calls[0].Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", calls[0].Params["props"])
	}
	if props["warmScore"] != 85 {
		t.Errorf("warmScore mismatch: want 85 got %v", props["warmScore"])
	}
	if props["relationshipType"] != domain.RelationshipManager {
		t.Errorf("relationshipType mismatch: got %v", props["relationshipType"])
	}
}

func TestRepository_InsertNodeMissingCelebrity(t *testing.T) {
	repo := New(graph.NewMemoryClient())

	node := domain.Node{ID: "NODE-001", CelebrityID: "CEL-MISSING", HopDistance: 1, WarmScore: 70}
	if err := repo.InsertNode(context.Background(), node); !errors.Is(err, ErrCelebrityNotFound) {
		t.Fatalf("expected ErrCelebrityNotFound, got %v", err)
	}
}

func TestRepository_FetchNodesByCelebrity(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"nodeId":           "NODE-001",
			"celebrityId":      "CEL-001",
			"personName":       "Maya Chen",
			"role":             "talent manager",
			"relationshipType": "manager",
			"hopDistance":      int64(1),
			"warmScore":        int64(85),
			"whyWarm":          "handles bookings",
			"contactInfo":      "maya@agency.com",
		},
		{
			"nodeId":           "NODE-002",
			"celebrityId":      "CEL-001",
			"personName":       "Dev Patel",
			"role":             "podcast host",
			"relationshipType": "media",
			"hopDistance":      int64(2),
			"warmScore":        int64(55),
		},
	}})

	nodes, err := repo.FetchNodesByCelebrity(context.Background(), "CEL-001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].PersonName != "Maya Chen" || nodes[0].WarmScore != 85 {
		t.Errorf("unexpected first node: %+v", nodes[0])
	}
	if nodes[1].HopDistance != 2 {
		t.Errorf("expected hop distance 2, got %d", nodes[1].HopDistance)
	}

	calls := mem.ReadCalls()
	if !strings.Contains(calls[0].Query, "ORDER BY n.warmScore DESC, n.nodeId ASC") {
		t.Errorf("unexpected ordering in fetch nodes query: %s", calls[0].Query)
	}
}

func TestRepository_GetNodeNotFound(t *testing.T) {
	repo := New(graph.NewMemoryClient())

	if _, err := repo.GetNode(context.Background(), "NODE-MISSING"); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestRepository_InsertOutreach(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{
		{"outreachId": "OUT-001"},
	}})

	outreach := domain.Outreach{
		ID:               "OUT-001",
		CelebrityID:      "CEL-001",
		NodeID:           "NODE-001",
		MessageText:      "Hi Maya, quick question about Taylor.",
		ValueProposition: "warm intro through shared label contacts",
		SubjectLine:      "Quick intro",
		Status:           domain.OutreachStatusDraft,
		CreatedAt:        time.Now().UTC(),
	}

	if err := repo.InsertOutreach(context.Background(), outreach); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	props, ok := calls[0].Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", calls[0].Params["props"])
	}
	if props["status"] != domain.OutreachStatusDraft {
		t.Errorf("status mismatch: got %v", props["status"])
	}
}

func TestRepository_ListOutreachByCelebrity(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	created := time.Now().UTC().Format(time.RFC3339)
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"outreachId":       "OUT-001",
			"celebrityId":      "CEL-001",
			"nodeId":           "NODE-001",
			"messageText":      "Hi Maya",
			"valueProposition": "shared contacts",
			"subjectLine":      "Quick intro",
			"status":           "sent",
			"createdAt":        created,
			"personName":       "Maya Chen",
			"role":             "talent manager",
			"contactInfo":      "maya@agency.com",
		},
	}})

	records, err := repo.ListOutreachByCelebrity(context.Background(), "CEL-001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 outreach record, got %d", len(records))
	}
	if records[0].Status != "sent" {
		t.Errorf("expected status sent, got %s", records[0].Status)
	}
	if records[0].PersonName != "Maya Chen" || records[0].ContactInfo != "maya@agency.com" {
		t.Errorf("expected joined node details, got %+v", records[0])
	}

	calls := mem.ReadCalls()
	if !strings.Contains(calls[0].Query, "ORDER BY o.createdAt DESC") {
		t.Errorf("unexpected ordering in outreach list query: %s", calls[0].Query)
	}
}

func TestRepository_UpdateOutreachStatus(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{
		{
			"outreachId":  "OUT-001",
			"celebrityId": "CEL-001",
			"nodeId":      "NODE-001",
			"messageText": "Hi Maya",
			"status":      "replied",
		},
	}})

	outreach, err := repo.UpdateOutreachStatus(context.Background(), "OUT-001", "replied")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outreach.Status != "replied" {
		t.Errorf("expected status replied, got %s", outreach.Status)
	}
}

func TestRepository_UpdateOutreachStatusNotFound(t *testing.T) {
	repo := New(graph.NewMemoryClient())

	if _, err := repo.UpdateOutreachStatus(context.Background(), "OUT-MISSING", "sent"); !errors.Is(err, ErrOutreachNotFound) {
		t.Fatalf("expected ErrOutreachNotFound, got %v", err)
	}
}

func TestRepository_ListOutreachStatuses(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"status": "draft"},
		{"status": "sent"},
		{"status": "replied"},
	}})

	statuses, err := repo.ListOutreachStatuses(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if statuses[2] != "replied" {
		t.Errorf("expected replied, got %s", statuses[2])
	}
}

func TestRepository_PropagatesClientErrors(t *testing.T) {
	boom := errors.New("bolt connection refused")
	repo := New(graph.NewMemoryClient().WithError(boom))

	if _, err := repo.GetCelebrity(context.Background(), "CEL-001"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
	if _, err := repo.FetchNodesByCelebrity(context.Background(), "CEL-001"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}
