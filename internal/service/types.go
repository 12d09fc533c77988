package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/datvo/accessengine/internal/domain"
)

// ErrInvalidInput marks payload validation failures so the HTTP layer can
// map them to 400 responses.
var ErrInvalidInput = errors.New("invalid input")

// Defaults applied to inbound payloads when optional fields are omitted.
const (
	defaultUserBackground   = "Tech founder from San Francisco"
	defaultUserIndustry     = "tech"
	defaultSenderName       = "Dat"
	defaultSenderBackground = "Tech founder building AI tools in San Francisco"
	defaultHopDistance      = 1
	defaultWarmScore        = 70
)

// SearchInput is the inbound payload for a celebrity search.
type SearchInput struct {
	Name            string
	UserBackground  string
	UserAsk         string
	UserIndustry    string
	UserConnections []string
	SenderName      string
}

func (in *SearchInput) applyDefaults() {
	in.Name = strings.TrimSpace(in.Name)
	if in.UserBackground == "" {
		in.UserBackground = defaultUserBackground
	}
	if in.UserIndustry == "" {
		in.UserIndustry = defaultUserIndustry
	}
	if in.SenderName == "" {
		in.SenderName = defaultSenderName
	}
}

// NodeInput is the inbound payload for manually adding a warm node.
type NodeInput struct {
	PersonName       string
	Role             string
	RelationshipType string
	HopDistance      *int
	WarmScore        *int
	WhyWarm          string
	ContactInfo      string
}

func (in NodeInput) validate() error {
	if strings.TrimSpace(in.PersonName) == "" {
		return fmt.Errorf("%w: person_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.RelationshipType) == "" {
		return fmt.Errorf("%w: relationship_type is required", ErrInvalidInput)
	}
	if in.WarmScore != nil && (*in.WarmScore < 0 || *in.WarmScore > 100) {
		return fmt.Errorf("%w: warm_score must be between 0 and 100", ErrInvalidInput)
	}
	if in.HopDistance != nil && *in.HopDistance < 1 {
		return fmt.Errorf("%w: hop_distance must be at least 1", ErrInvalidInput)
	}
	return nil
}

func (in NodeInput) hopDistance() int {
	if in.HopDistance != nil {
		return *in.HopDistance
	}
	return defaultHopDistance
}

func (in NodeInput) warmScore() int {
	if in.WarmScore != nil {
		return *in.WarmScore
	}
	return defaultWarmScore
}

// CelebrityInput is the seeding payload for pre-loading a celebrity profile.
type CelebrityInput struct {
	ID            string
	Name          string
	Industry      string
	Bio           string
	TwitterHandle string
	KnownManager  string
	RecentNews    []domain.NewsItem
	AccessScore   int
}

// NodeSeed pairs a node payload with the celebrity it belongs to, for bulk
// seeding.
type NodeSeed struct {
	CelebrityID string
	Node        NodeInput
}

// GenerateOutreachInput is the inbound payload for drafting one outreach
// message targeted at a specific warm node.
type GenerateOutreachInput struct {
	CelebrityID      string
	NodeID           string
	SenderName       string
	SenderBackground string
	UserAsk          string
}

func (in *GenerateOutreachInput) applyDefaults() {
	if in.SenderName == "" {
		in.SenderName = defaultSenderName
	}
	if in.SenderBackground == "" {
		in.SenderBackground = defaultSenderBackground
	}
	if in.UserAsk == "" {
		in.UserAsk = "3-minute FaceTime to show you something I built"
	}
}
