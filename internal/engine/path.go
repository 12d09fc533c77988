package engine

import (
	"sort"
	"strings"

	"github.com/datvo/accessengine/internal/domain"
)

const (
	industryBoost   = 15
	connectionBoost = 10

	// allNodesLimit caps the ranked summary list returned for visualization.
	allNodesLimit = 8
)

// RequesterContext describes the person asking for the introduction. All
// fields are optional; empty values contribute no ranking boost.
type RequesterContext struct {
	Industry    string   `json:"industry"`
	Connections []string `json:"connections"`
	Background  string   `json:"background"`
}

// Hop is one step of the recommended introduction chain.
type Hop struct {
	PersonName       string `json:"person_name"`
	Role             string `json:"role"`
	RelationshipType string `json:"relationship_type"`
	Hop              int    `json:"hop"`
	WarmScore        int    `json:"warm_score"`
	WhyWarm          string `json:"why_warm"`
	ContactInfo      string `json:"contact_info"`
	NodeID           string `json:"node_id"`
}

// NodeSummary is the lightweight ranked-node shape exposed for inspection
// and visualization alongside the selected path.
type NodeSummary struct {
	PersonName       string `json:"person_name"`
	Role             string `json:"role"`
	WarmScore        int    `json:"warm_score"`
	HopDistance      int    `json:"hop_distance"`
	RelationshipType string `json:"relationship_type"`
	ContactInfo      string `json:"contact_info"`
	NodeID           string `json:"node_id"`
}

// PathResult is the outcome of path selection for one celebrity.
type PathResult struct {
	Path       []Hop         `json:"path"`
	TotalHops  int           `json:"total_hops"`
	PathScore  int           `json:"path_score"`
	EntryPoint *Hop          `json:"entry_point,omitempty"`
	AllNodes   []NodeSummary `json:"all_nodes,omitempty"`
}

type rankedNode struct {
	domain.Node
	finalScore int
}

// SelectBestPath picks and orders the best introduction chain for the given
// node set and requester context. Ranking is deterministic: 1-hop nodes rank
// above all others, then final score descending, with input order breaking
// ties. The path is the top-ranked entry point plus at most one 1-hop bridge
// when the entry point is indirect; pathfinding is intentionally capped at
// two hops.
func SelectBestPath(nodes []domain.Node, rctx RequesterContext) PathResult {
	if len(nodes) == 0 {
		return PathResult{Path: []Hop{}, TotalHops: 0, PathScore: 0}
	}

	ranked := rankNodes(nodes, rctx)

	path := []Hop{toHop(ranked[0].Node)}
	if ranked[0].HopDistance > 1 {
		for _, candidate := range ranked {
			if candidate.HopDistance == 1 {
				path = append(path, toHop(candidate.Node))
				break
			}
		}
	}

	maxHop := 0
	warmTotal := 0
	for _, hop := range path {
		if hop.Hop > maxHop {
			maxHop = hop.Hop
		}
		warmTotal += hop.WarmScore
	}

	result := PathResult{
		Path: path,
		// The final hop from the last intermediate to the celebrity counts.
		TotalHops:  maxHop + 1,
		PathScore:  warmTotal / len(path),
		EntryPoint: &path[0],
	}

	limit := allNodesLimit
	if len(ranked) < limit {
		limit = len(ranked)
	}
	summaries := make([]NodeSummary, 0, limit)
	for _, rn := range ranked[:limit] {
		summaries = append(summaries, NodeSummary{
			PersonName:       rn.PersonName,
			Role:             rn.Role,
			WarmScore:        rn.WarmScore,
			HopDistance:      rn.HopDistance,
			RelationshipType: rn.RelationshipType,
			ContactInfo:      rn.ContactInfo,
			NodeID:           rn.ID,
		})
	}
	result.AllNodes = summaries

	return result
}

// rankNodes applies the requester-context boosts and sorts a copy of the
// node set without mutating the input.
func rankNodes(nodes []domain.Node, rctx RequesterContext) []rankedNode {
	industry := strings.ToLower(strings.TrimSpace(rctx.Industry))
	connections := make([]string, 0, len(rctx.Connections))
	for _, conn := range rctx.Connections {
		conn = strings.ToLower(strings.TrimSpace(conn))
		if conn != "" {
			connections = append(connections, conn)
		}
	}

	ranked := make([]rankedNode, 0, len(nodes))
	for _, n := range nodes {
		score := n.WarmScore
		text := strings.ToLower(n.Role + " " + n.WhyWarm + " " + n.RelationshipType)

		if industry != "" && strings.Contains(text, industry) {
			score += industryBoost
		}
		for _, conn := range connections {
			if strings.Contains(text, conn) {
				score += connectionBoost
			}
		}

		ranked = append(ranked, rankedNode{Node: n, finalScore: score})
	}

	// Stable sort keeps the store read order for exact ties, which keeps
	// repeated selections reproducible.
	sort.SliceStable(ranked, func(i, j int) bool {
		iDirect := ranked[i].HopDistance == 1
		jDirect := ranked[j].HopDistance == 1
		if iDirect != jDirect {
			return iDirect
		}
		return ranked[i].finalScore > ranked[j].finalScore
	})

	return ranked
}

func toHop(n domain.Node) Hop {
	return Hop{
		PersonName:       n.PersonName,
		Role:             n.Role,
		RelationshipType: n.RelationshipType,
		Hop:              n.HopDistance,
		WarmScore:        n.WarmScore,
		WhyWarm:          n.WhyWarm,
		ContactInfo:      n.ContactInfo,
		NodeID:           n.ID,
	}
}
