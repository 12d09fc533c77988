package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/datvo/accessengine/internal/domain"
	"github.com/datvo/accessengine/internal/engine"
	"github.com/datvo/accessengine/internal/intel"
	"github.com/datvo/accessengine/internal/repository"
	"github.com/datvo/accessengine/internal/scraper"
)

// NodeRepository is the storage contract required by the access service.
type NodeRepository interface {
	CreateCelebrity(ctx context.Context, celeb domain.Celebrity) error
	GetCelebrity(ctx context.Context, id string) (domain.Celebrity, error)
	FindCelebrityByName(ctx context.Context, name string) (domain.Celebrity, error)
	ListCelebrities(ctx context.Context) ([]domain.CelebritySummary, error)
	UpdateAccessScore(ctx context.Context, id string, score int) error
	InsertNode(ctx context.Context, node domain.Node) error
	FetchNodesByCelebrity(ctx context.Context, celebrityID string) ([]domain.Node, error)
}

// Enricher pulls public data about a celebrity on first search.
type Enricher interface {
	ScrapeAll(ctx context.Context, name string) scraper.Intel
}

// IntelGenerator produces the LLM-backed portions of a search result.
type IntelGenerator interface {
	FullPackage(ctx context.Context, in intel.PackageInput) (intel.Package, error)
	Leverage(ctx context.Context, in intel.LeverageInput) (intel.Leverage, error)
	DraftMessage(ctx context.Context, in intel.DraftInput) (intel.OutreachDraft, error)
}

// SearchResult is the full intelligence package returned by a search.
type SearchResult struct {
	Celebrity    domain.Celebrity
	Graph        engine.GraphData
	BestPath     engine.PathResult
	Intelligence intel.Package
}

// AccessService orchestrates celebrity lookup, scoring, path selection, and
// intelligence generation.
type AccessService struct {
	repo    NodeRepository
	scraper Enricher
	intel   IntelGenerator
	logger  *slog.Logger
	nowFn   func() time.Time
	newID   func() string
}

// NewAccessService constructs an AccessService.
func NewAccessService(repo NodeRepository, enricher Enricher, gen IntelGenerator, logger *slog.Logger) *AccessService {
	return &AccessService{
		repo:    repo,
		scraper: enricher,
		intel:   gen,
		logger:  logger,
		nowFn:   time.Now,
		newID:   uuid.NewString,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *AccessService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// WithIDs overrides the identifier generator (used primarily in tests).
func (s *AccessService) WithIDs(newID func() string) {
	if newID != nil {
		s.newID = newID
	}
}

// ListCelebrities returns all stored celebrity summaries, highest access
// score first.
func (s *AccessService) ListCelebrities(ctx context.Context) ([]domain.CelebritySummary, error) {
	return s.repo.ListCelebrities(ctx)
}

// Search is the main entry point: look up or create the celebrity, refresh
// the access score, select the best path, project the graph, and generate
// the intelligence package.
func (s *AccessService) Search(ctx context.Context, in SearchInput) (SearchResult, error) {
	in.applyDefaults()
	if in.Name == "" {
		return SearchResult{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	celeb, err := s.repo.FindCelebrityByName(ctx, in.Name)
	switch {
	case errors.Is(err, repository.ErrCelebrityNotFound):
		celeb, err = s.createFromScrape(ctx, in.Name)
		if err != nil {
			return SearchResult{}, err
		}
	case err != nil:
		return SearchResult{}, err
	}

	nodes, err := s.repo.FetchNodesByCelebrity(ctx, celeb.ID)
	if err != nil {
		return SearchResult{}, err
	}

	score := engine.ComputeAccessScore(nodes)
	if err := s.repo.UpdateAccessScore(ctx, celeb.ID, score); err != nil {
		return SearchResult{}, err
	}
	celeb.AccessScore = score

	bestPath := engine.SelectBestPath(nodes, engine.RequesterContext{
		Industry:    in.UserIndustry,
		Connections: in.UserConnections,
		Background:  in.UserBackground,
	})
	graph := engine.ProjectGraph(nodes, celeb.Name)

	pkg, err := s.intel.FullPackage(ctx, intel.PackageInput{
		CelebrityName:  celeb.Name,
		CelebrityBio:   celeb.Bio,
		RecentNews:     celeb.RecentNews,
		AccessScore:    score,
		Path:           bestPath,
		SenderName:     in.SenderName,
		UserBackground: in.UserBackground,
		UserAsk:        in.UserAsk,
	})
	if err != nil {
		return SearchResult{}, err
	}

	s.logger.Info("search completed",
		"celebrity", celeb.Name,
		"access_score", score,
		"nodes", len(nodes),
		"path_hops", bestPath.TotalHops)

	return SearchResult{
		Celebrity:    celeb,
		Graph:        graph,
		BestPath:     bestPath,
		Intelligence: pkg,
	}, nil
}

func (s *AccessService) createFromScrape(ctx context.Context, name string) (domain.Celebrity, error) {
	s.logger.Info("celebrity not found, scraping public sources", "celebrity", name)

	scraped := s.scraper.ScrapeAll(ctx, name)
	now := s.nowFn().UTC()

	celeb := domain.Celebrity{
		ID:         s.newID(),
		Name:       name,
		Bio:        scraped.Bio,
		RecentNews: scraped.RecentNews,
		// Placeholder until nodes exist and the score is recomputed.
		AccessScore: 50,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCelebrity(ctx, celeb); err != nil {
		return domain.Celebrity{}, err
	}
	return celeb, nil
}

// CreateCelebrity stores a fully specified celebrity profile, minting an ID
// when the payload omits one. Used by the bulk seeder.
func (s *AccessService) CreateCelebrity(ctx context.Context, in CelebrityInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: celebrity name is required", ErrInvalidInput)
	}

	now := s.nowFn().UTC()
	celeb := domain.Celebrity{
		ID:            in.ID,
		Name:          in.Name,
		Industry:      in.Industry,
		Bio:           in.Bio,
		TwitterHandle: in.TwitterHandle,
		KnownManager:  in.KnownManager,
		RecentNews:    in.RecentNews,
		AccessScore:   in.AccessScore,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if celeb.ID == "" {
		celeb.ID = s.newID()
	}
	return s.repo.CreateCelebrity(ctx, celeb)
}

// AccessScore recomputes and persists the access score for one celebrity.
func (s *AccessService) AccessScore(ctx context.Context, celebrityID string) (int, error) {
	nodes, err := s.repo.FetchNodesByCelebrity(ctx, celebrityID)
	if err != nil {
		return 0, err
	}

	score := engine.ComputeAccessScore(nodes)
	if err := s.repo.UpdateAccessScore(ctx, celebrityID, score); err != nil {
		return 0, err
	}
	return score, nil
}

// GraphData builds the visualization payload for one celebrity's network.
func (s *AccessService) GraphData(ctx context.Context, celebrityID string) (engine.GraphData, error) {
	celeb, err := s.repo.GetCelebrity(ctx, celebrityID)
	if err != nil {
		return engine.GraphData{}, err
	}

	nodes, err := s.repo.FetchNodesByCelebrity(ctx, celebrityID)
	if err != nil {
		return engine.GraphData{}, err
	}
	return engine.ProjectGraph(nodes, celeb.Name), nil
}

// Nodes returns all warm nodes for a celebrity, warmest first.
func (s *AccessService) Nodes(ctx context.Context, celebrityID string) ([]domain.Node, error) {
	return s.repo.FetchNodesByCelebrity(ctx, celebrityID)
}

// AddNode validates and stores a manually supplied warm node.
func (s *AccessService) AddNode(ctx context.Context, celebrityID string, in NodeInput) (domain.Node, error) {
	if err := in.validate(); err != nil {
		return domain.Node{}, err
	}

	node := domain.Node{
		ID:               s.newID(),
		CelebrityID:      celebrityID,
		PersonName:       in.PersonName,
		Role:             in.Role,
		RelationshipType: in.RelationshipType,
		HopDistance:      in.hopDistance(),
		WarmScore:        in.warmScore(),
		WhyWarm:          in.WhyWarm,
		ContactInfo:      in.ContactInfo,
		CreatedAt:        s.nowFn().UTC(),
	}
	if err := s.repo.InsertNode(ctx, node); err != nil {
		return domain.Node{}, err
	}
	return node, nil
}
