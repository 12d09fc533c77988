package domain

import "time"

// NewsItem is a single recent-news entry attached to a celebrity profile.
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source"`
}

// Celebrity is the high-profile individual a requester wants to reach.
// AccessScore is derived from the node set and is only authoritative right
// after a recalculation; it is clamped to [10,99] by the engine.
type Celebrity struct {
	ID            string
	Name          string
	Industry      string
	Bio           string
	TwitterHandle string
	KnownManager  string
	RecentNews    []NewsItem
	AccessScore   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CelebritySummary is the listing projection ordered by access score.
type CelebritySummary struct {
	ID            string
	Name          string
	Industry      string
	AccessScore   int
	TwitterHandle string
	KnownManager  string
}
