package domain

import "time"

// Outreach status lifecycle: draft -> sent -> replied.
const (
	OutreachStatusDraft   = "draft"
	OutreachStatusSent    = "sent"
	OutreachStatusReplied = "replied"
)

// Outreach is a drafted introduction message targeting a celebrity through
// a specific warm node.
type Outreach struct {
	ID               string
	CelebrityID      string
	NodeID           string
	MessageText      string
	ValueProposition string
	SubjectLine      string
	Status           string
	CreatedAt        time.Time
}
