package domain

import "time"

// Known relationship type values. The vocabulary is open; these are the
// categories the graph projector styles explicitly.
const (
	RelationshipManager      = "manager"
	RelationshipInvestor     = "investor"
	RelationshipCollaborator = "collaborator"
	RelationshipMedia        = "media"
	RelationshipColleague    = "colleague"
	RelationshipPartner      = "partner"
)

// Node is a known person who could relay an introduction to a celebrity.
// HopDistance is 1 when the requester can reach them directly, >1 when an
// intermediate is required. WarmScore rates willingness to help on [0,100].
// Both are required on every node; the store boundary rejects records
// missing them before they reach the engine.
type Node struct {
	ID               string
	CelebrityID      string
	PersonName       string
	Role             string
	RelationshipType string
	HopDistance      int
	WarmScore        int
	WhyWarm          string
	ContactInfo      string
	CreatedAt        time.Time
}
