package engine

import (
	"fmt"

	"github.com/datvo/accessengine/internal/domain"
)

// CelebrityNodeID is the reserved identifier of the synthetic target node in
// every projected graph.
const CelebrityNodeID = "celebrity"

const (
	celebrityNodeSize = 40
	baseNodeSize      = 20

	directEdgeWidth   = 3
	indirectEdgeWidth = 1

	fallbackNodeColor = "#A0A0A0"
)

// relationshipColors is the fixed palette keyed on relationship type.
// Unknown types fall back to a neutral grey.
var relationshipColors = map[string]string{
	domain.RelationshipManager:      "#FF6B6B",
	domain.RelationshipInvestor:     "#4ECDC4",
	domain.RelationshipCollaborator: "#45B7D1",
	domain.RelationshipMedia:        "#96CEB4",
	domain.RelationshipColleague:    "#FFEAA7",
	domain.RelationshipPartner:      "#DDA0DD",
}

// NodeColor is the vis.js color descriptor for a visual node.
type NodeColor struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// NodeFont styles the label of the synthetic celebrity node.
type NodeFont struct {
	Size int  `json:"size"`
	Bold bool `json:"bold"`
}

// VisualNode is one renderable node in the projected graph.
type VisualNode struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Title       string    `json:"title,omitempty"`
	Group       string    `json:"group"`
	Size        int       `json:"size"`
	Color       NodeColor `json:"color"`
	Font        *NodeFont `json:"font,omitempty"`
	HopDistance int       `json:"hop_distance,omitempty"`
	WarmScore   int       `json:"warm_score,omitempty"`
	WhyWarm     string    `json:"why_warm,omitempty"`
	ContactInfo string    `json:"contact_info,omitempty"`
}

// VisualEdge is one renderable edge. Indirect connections render dashed.
type VisualEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Dashes bool   `json:"dashes"`
}

// GraphData is the node/edge structure consumed by force-directed
// visualization libraries such as vis.js and React Flow.
type GraphData struct {
	Nodes []VisualNode `json:"nodes"`
	Edges []VisualEdge `json:"edges"`
}

// ProjectGraph transforms a node set into visualization-ready data. The
// output always contains exactly one synthetic celebrity node plus one
// visual node and one edge per input node; no filtering or scoring happens
// here.
func ProjectGraph(nodes []domain.Node, celebrityName string) GraphData {
	visNodes := make([]VisualNode, 0, len(nodes)+1)
	visNodes = append(visNodes, VisualNode{
		ID:    CelebrityNodeID,
		Label: celebrityName,
		Group: "celebrity",
		Size:  celebrityNodeSize,
		Color: NodeColor{Background: "#FFD700", Border: "#FFA500"},
		Font:  &NodeFont{Size: 16, Bold: true},
	})

	visEdges := make([]VisualEdge, 0, len(nodes))
	for _, n := range nodes {
		color, ok := relationshipColors[n.RelationshipType]
		if !ok {
			color = fallbackNodeColor
		}
		group := n.RelationshipType
		if group == "" {
			group = "other"
		}

		visNodes = append(visNodes, VisualNode{
			ID:          n.ID,
			Label:       n.PersonName,
			Title:       fmt.Sprintf("%s\nWarm score: %d/100", n.Role, n.WarmScore),
			Group:       group,
			Size:        baseNodeSize + n.WarmScore/10,
			Color:       NodeColor{Background: color, Border: color},
			HopDistance: n.HopDistance,
			WarmScore:   n.WarmScore,
			WhyWarm:     n.WhyWarm,
			ContactInfo: n.ContactInfo,
		})

		width := indirectEdgeWidth
		if n.HopDistance == 1 {
			width = directEdgeWidth
		}
		visEdges = append(visEdges, VisualEdge{
			From:   n.ID,
			To:     CelebrityNodeID,
			Label:  n.RelationshipType,
			Width:  width,
			Dashes: n.HopDistance > 1,
		})
	}

	return GraphData{Nodes: visNodes, Edges: visEdges}
}
