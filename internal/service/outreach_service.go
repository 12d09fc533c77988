package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/datvo/accessengine/internal/domain"
	"github.com/datvo/accessengine/internal/intel"
	"github.com/datvo/accessengine/internal/repository"
)

// OutreachRepository is the storage contract required by the outreach service.
type OutreachRepository interface {
	GetCelebrity(ctx context.Context, id string) (domain.Celebrity, error)
	GetNode(ctx context.Context, nodeID string) (domain.Node, error)
	InsertOutreach(ctx context.Context, outreach domain.Outreach) error
	ListOutreachByCelebrity(ctx context.Context, celebrityID string) ([]repository.OutreachRecord, error)
	UpdateOutreachStatus(ctx context.Context, id, status string) (domain.Outreach, error)
	ListOutreachStatuses(ctx context.Context) ([]string, error)
}

// OutreachTarget identifies the node a message was drafted for.
type OutreachTarget struct {
	PersonName  string
	Role        string
	ContactInfo string
}

// GeneratedOutreach is the response of a generate call: the saved draft plus
// the leverage used to write it.
type GeneratedOutreach struct {
	OutreachID string
	Draft      intel.OutreachDraft
	Leverage   intel.Leverage
	Target     OutreachTarget
}

// OutreachStats aggregates message counts for the dashboard.
type OutreachStats struct {
	Draft            int
	Sent             int
	Replied          int
	Total            int
	ReplyRatePercent float64
}

// OutreachService drafts, stores, and tracks outreach messages.
type OutreachService struct {
	repo   OutreachRepository
	intel  IntelGenerator
	logger *slog.Logger
	nowFn  func() time.Time
	newID  func() string
}

// NewOutreachService constructs an OutreachService.
func NewOutreachService(repo OutreachRepository, gen IntelGenerator, logger *slog.Logger) *OutreachService {
	return &OutreachService{
		repo:   repo,
		intel:  gen,
		logger: logger,
		nowFn:  time.Now,
		newID:  uuid.NewString,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *OutreachService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// WithIDs overrides the identifier generator (used primarily in tests).
func (s *OutreachService) WithIDs(newID func() string) {
	if newID != nil {
		s.newID = newID
	}
}

// Generate drafts a personalized outreach message for one warm node, saves
// it with draft status, and returns the full package.
func (s *OutreachService) Generate(ctx context.Context, in GenerateOutreachInput) (GeneratedOutreach, error) {
	in.applyDefaults()

	node, err := s.repo.GetNode(ctx, in.NodeID)
	if err != nil {
		return GeneratedOutreach{}, err
	}
	celeb, err := s.repo.GetCelebrity(ctx, in.CelebrityID)
	if err != nil {
		return GeneratedOutreach{}, err
	}

	leverage, err := s.intel.Leverage(ctx, intel.LeverageInput{
		CelebrityName:  celeb.Name,
		CelebrityBio:   celeb.Bio,
		RecentNews:     celeb.RecentNews,
		UserBackground: in.SenderBackground,
		UserAsk:        in.UserAsk,
	})
	if err != nil {
		return GeneratedOutreach{}, err
	}

	draft, err := s.intel.DraftMessage(ctx, intel.DraftInput{
		SenderName:       in.SenderName,
		SenderBackground: in.SenderBackground,
		TargetPerson:     node.PersonName,
		TargetRole:       node.Role,
		RelationshipType: node.RelationshipType,
		CelebrityName:    celeb.Name,
		ValueProp:        leverage.ValueProp,
		WhyForward:       node.WhyWarm,
		HopNumber:        node.HopDistance,
	})
	if err != nil {
		return GeneratedOutreach{}, err
	}

	outreach := domain.Outreach{
		ID:               s.newID(),
		CelebrityID:      in.CelebrityID,
		NodeID:           in.NodeID,
		MessageText:      draft.Message,
		ValueProposition: leverage.ValueProp,
		SubjectLine:      draft.SubjectLine,
		Status:           domain.OutreachStatusDraft,
		CreatedAt:        s.nowFn().UTC(),
	}
	if err := s.repo.InsertOutreach(ctx, outreach); err != nil {
		return GeneratedOutreach{}, err
	}

	s.logger.Info("outreach drafted",
		"celebrity", celeb.Name,
		"target", node.PersonName,
		"outreach_id", outreach.ID)

	return GeneratedOutreach{
		OutreachID: outreach.ID,
		Draft:      draft,
		Leverage:   leverage,
		Target: OutreachTarget{
			PersonName:  node.PersonName,
			Role:        node.Role,
			ContactInfo: node.ContactInfo,
		},
	}, nil
}

// ListForCelebrity returns all outreach drafted for one celebrity, newest
// first.
func (s *OutreachService) ListForCelebrity(ctx context.Context, celebrityID string) ([]repository.OutreachRecord, error) {
	return s.repo.ListOutreachByCelebrity(ctx, celebrityID)
}

// UpdateStatus transitions an outreach message between draft, sent, and
// replied.
func (s *OutreachService) UpdateStatus(ctx context.Context, outreachID, status string) (domain.Outreach, error) {
	switch status {
	case domain.OutreachStatusDraft, domain.OutreachStatusSent, domain.OutreachStatusReplied:
	default:
		return domain.Outreach{}, fmt.Errorf("%w: status must be one of: draft, sent, replied", ErrInvalidInput)
	}
	return s.repo.UpdateOutreachStatus(ctx, outreachID, status)
}

// Stats aggregates message counts and the reply rate across all celebrities.
func (s *OutreachService) Stats(ctx context.Context) (OutreachStats, error) {
	statuses, err := s.repo.ListOutreachStatuses(ctx)
	if err != nil {
		return OutreachStats{}, err
	}

	stats := OutreachStats{Total: len(statuses)}
	for _, status := range statuses {
		switch status {
		case domain.OutreachStatusSent:
			stats.Sent++
		case domain.OutreachStatusReplied:
			stats.Replied++
		default:
			stats.Draft++
		}
	}

	if stats.Sent > 0 {
		rate := float64(stats.Replied) / float64(stats.Sent) * 100
		stats.ReplyRatePercent = math.Round(rate*10) / 10
	}
	return stats, nil
}
