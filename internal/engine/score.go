package engine

import (
	"math"

	"github.com/datvo/accessengine/internal/domain"
)

const (
	// DefaultAccessScore is reported when a celebrity has no known nodes.
	DefaultAccessScore = 30

	minAccessScore = 10
	maxAccessScore = 99

	directNodeBonus    = 5
	directBonusCap     = 20
	varietyBonusPerTyp = 3
	warmWeight         = 0.6
)

// ComputeAccessScore derives a reachability score for a celebrity from its
// current node set. The score rewards the average warmth of the network, the
// number of directly reachable (1-hop) nodes, and the variety of relationship
// categories, and is always clamped to [10,99] so a target is never reported
// as impossible or guaranteed. Pure function; callers persist the result.
func ComputeAccessScore(nodes []domain.Node) int {
	if len(nodes) == 0 {
		return DefaultAccessScore
	}

	warmTotal := 0
	directCount := 0
	types := make(map[string]struct{})
	for _, n := range nodes {
		warmTotal += n.WarmScore
		if n.HopDistance == 1 {
			directCount++
		}
		types[n.RelationshipType] = struct{}{}
	}

	avgWarm := float64(warmTotal) / float64(len(nodes))

	directBonus := directCount * directNodeBonus
	if directBonus > directBonusCap {
		directBonus = directBonusCap
	}
	varietyBonus := len(types) * varietyBonusPerTyp

	score := int(math.Floor(avgWarm*warmWeight + float64(directBonus) + float64(varietyBonus)))
	return clampScore(score)
}

func clampScore(score int) int {
	if score < minAccessScore {
		return minAccessScore
	}
	if score > maxAccessScore {
		return maxAccessScore
	}
	return score
}
