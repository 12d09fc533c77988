package engine

import (
	"testing"

	"github.com/datvo/accessengine/internal/domain"
)

func TestComputeAccessScore_EmptyReturnsDefault(t *testing.T) {
	if got := ComputeAccessScore(nil); got != DefaultAccessScore {
		t.Fatalf("expected default score %d, got %d", DefaultAccessScore, got)
	}
	if got := ComputeAccessScore([]domain.Node{}); got != DefaultAccessScore {
		t.Fatalf("expected default score %d for empty slice, got %d", DefaultAccessScore, got)
	}
}

func TestComputeAccessScore_KnownScenario(t *testing.T) {
	// avg warm 70 * 0.6 = 42, one direct node = +5, two types = +6 -> 53.
	nodes := []domain.Node{
		{WarmScore: 80, HopDistance: 1, RelationshipType: "manager"},
		{WarmScore: 60, HopDistance: 2, RelationshipType: "investor"},
	}

	if got := ComputeAccessScore(nodes); got != 53 {
		t.Fatalf("expected score 53, got %d", got)
	}
}

func TestComputeAccessScore_Clamping(t *testing.T) {
	cases := []struct {
		name  string
		nodes []domain.Node
		want  int
	}{
		{
			name:  "floor at 10",
			nodes: []domain.Node{{WarmScore: 0, HopDistance: 3, RelationshipType: "media"}},
			want:  10,
		},
		{
			name: "cap at 99",
			nodes: []domain.Node{
				{WarmScore: 100, HopDistance: 1, RelationshipType: "manager"},
				{WarmScore: 100, HopDistance: 1, RelationshipType: "investor"},
				{WarmScore: 100, HopDistance: 1, RelationshipType: "collaborator"},
				{WarmScore: 100, HopDistance: 1, RelationshipType: "media"},
				{WarmScore: 100, HopDistance: 1, RelationshipType: "colleague"},
				{WarmScore: 100, HopDistance: 1, RelationshipType: "partner"},
				{WarmScore: 100, HopDistance: 1, RelationshipType: "other"},
			},
			want: 99,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeAccessScore(tc.nodes); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestComputeAccessScore_DirectBonusCapped(t *testing.T) {
	// Five direct nodes would be +25 uncapped; the bonus stops at 20.
	nodes := make([]domain.Node, 0, 5)
	for i := 0; i < 5; i++ {
		nodes = append(nodes, domain.Node{WarmScore: 50, HopDistance: 1, RelationshipType: "colleague"})
	}

	// 50*0.6 + 20 + 3 = 53
	if got := ComputeAccessScore(nodes); got != 53 {
		t.Fatalf("expected 53 with capped direct bonus, got %d", got)
	}
}

func TestComputeAccessScore_MonotonicInWarmScore(t *testing.T) {
	base := []domain.Node{
		{WarmScore: 40, HopDistance: 2, RelationshipType: "media"},
		{WarmScore: 55, HopDistance: 1, RelationshipType: "manager"},
		{WarmScore: 70, HopDistance: 3, RelationshipType: "investor"},
	}

	prev := ComputeAccessScore(base)
	for warm := 41; warm <= 100; warm += 7 {
		bumped := make([]domain.Node, len(base))
		copy(bumped, base)
		bumped[0].WarmScore = warm

		got := ComputeAccessScore(bumped)
		if got < prev {
			t.Fatalf("score decreased from %d to %d when warm score rose to %d", prev, got, warm)
		}
		prev = got
	}
}

func TestComputeAccessScore_AlwaysInRange(t *testing.T) {
	sets := [][]domain.Node{
		{{WarmScore: 0, HopDistance: 5}},
		{{WarmScore: 100, HopDistance: 1, RelationshipType: "manager"}},
		{
			{WarmScore: 13, HopDistance: 2, RelationshipType: "media"},
			{WarmScore: 91, HopDistance: 1, RelationshipType: "partner"},
		},
	}

	for i, nodes := range sets {
		got := ComputeAccessScore(nodes)
		if got < 10 || got > 99 {
			t.Fatalf("set %d: score %d outside [10,99]", i, got)
		}
	}
}
