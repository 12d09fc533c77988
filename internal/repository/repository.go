package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/datvo/accessengine/internal/domain"
	"github.com/datvo/accessengine/internal/graph"
)

// Sentinel errors surfaced to the service layer.
var (
	ErrCelebrityNotFound = errors.New("celebrity not found")
	ErrNodeNotFound      = errors.New("node not found")
	ErrOutreachNotFound  = errors.New("outreach message not found")
)

// OutreachRecord joins an outreach message with its target node's contact
// details for listing endpoints.
type OutreachRecord struct {
	domain.Outreach
	PersonName  string
	Role        string
	ContactInfo string
}

// Repository encapsulates node-store persistence for celebrities, warm
// nodes, and outreach messages.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

const createCelebrityCypher = `
MERGE (c:Celebrity {celebrityId: $celebrityId})
SET c += $props
RETURN c.celebrityId AS celebrityId`

// CreateCelebrity persists a celebrity profile, replacing properties when the
// identifier already exists.
func (r *Repository) CreateCelebrity(ctx context.Context, celeb domain.Celebrity) error {
	if celeb.ID == "" {
		return errors.New("celebrity id is required")
	}

	props, err := celebrityProperties(celeb)
	if err != nil {
		return err
	}

	params := map[string]any{
		"celebrityId": celeb.ID,
		"props":       props,
	}
	if _, err := r.client.ExecuteWrite(ctx, createCelebrityCypher, params); err != nil {
		return fmt.Errorf("create celebrity %s: %w", celeb.ID, err)
	}
	return nil
}

const getCelebrityCypher = `
MATCH (c:Celebrity {celebrityId: $celebrityId})
RETURN c.celebrityId AS celebrityId, c.name AS name, c.industry AS industry,
       c.bio AS bio, c.twitterHandle AS twitterHandle, c.knownManager AS knownManager,
       c.recentNews AS recentNews, c.accessScore AS accessScore,
       c.createdAt AS createdAt, c.updatedAt AS updatedAt`

// GetCelebrity fetches a celebrity by identifier.
func (r *Repository) GetCelebrity(ctx context.Context, id string) (domain.Celebrity, error) {
	res, err := r.client.ExecuteRead(ctx, getCelebrityCypher, map[string]any{"celebrityId": id})
	if err != nil {
		return domain.Celebrity{}, fmt.Errorf("get celebrity %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.Celebrity{}, ErrCelebrityNotFound
	}
	return celebrityFromRecord(res.Records[0]), nil
}

const findCelebrityByNameCypher = `
MATCH (c:Celebrity)
WHERE toLower(c.name) CONTAINS toLower($name)
RETURN c.celebrityId AS celebrityId, c.name AS name, c.industry AS industry,
       c.bio AS bio, c.twitterHandle AS twitterHandle, c.knownManager AS knownManager,
       c.recentNews AS recentNews, c.accessScore AS accessScore,
       c.createdAt AS createdAt, c.updatedAt AS updatedAt
LIMIT 1`

// FindCelebrityByName performs a case-insensitive substring lookup, returning
// ErrCelebrityNotFound when no profile matches.
func (r *Repository) FindCelebrityByName(ctx context.Context, name string) (domain.Celebrity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Celebrity{}, ErrCelebrityNotFound
	}

	res, err := r.client.ExecuteRead(ctx, findCelebrityByNameCypher, map[string]any{"name": name})
	if err != nil {
		return domain.Celebrity{}, fmt.Errorf("find celebrity %q: %w", name, err)
	}
	if len(res.Records) == 0 {
		return domain.Celebrity{}, ErrCelebrityNotFound
	}
	return celebrityFromRecord(res.Records[0]), nil
}

const listCelebritiesCypher = `
MATCH (c:Celebrity)
RETURN c.celebrityId AS celebrityId, c.name AS name, c.industry AS industry,
       c.accessScore AS accessScore, c.twitterHandle AS twitterHandle,
       c.knownManager AS knownManager
ORDER BY c.accessScore DESC`

// ListCelebrities returns all celebrity summaries ordered by access score.
func (r *Repository) ListCelebrities(ctx context.Context) ([]domain.CelebritySummary, error) {
	res, err := r.client.ExecuteRead(ctx, listCelebritiesCypher, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("list celebrities: %w", err)
	}

	summaries := make([]domain.CelebritySummary, 0, len(res.Records))
	for _, record := range res.Records {
		summaries = append(summaries, domain.CelebritySummary{
			ID:            toString(record["celebrityId"]),
			Name:          toString(record["name"]),
			Industry:      toString(record["industry"]),
			AccessScore:   toInt(record["accessScore"]),
			TwitterHandle: toString(record["twitterHandle"]),
			KnownManager:  toString(record["knownManager"]),
		})
	}
	return summaries, nil
}

const updateAccessScoreCypher = `
MATCH (c:Celebrity {celebrityId: $celebrityId})
SET c.accessScore = $accessScore, c.updatedAt = $updatedAt
RETURN c.celebrityId AS celebrityId`

// UpdateAccessScore persists a freshly computed access score. The write is
// last-writer-wins: concurrent recomputations for one celebrity are allowed
// to race and settle on eventual consistency.
func (r *Repository) UpdateAccessScore(ctx context.Context, id string, score int) error {
	params := map[string]any{
		"celebrityId": id,
		"accessScore": score,
		"updatedAt":   formatTime(time.Now().UTC()),
	}
	res, err := r.client.ExecuteWrite(ctx, updateAccessScoreCypher, params)
	if err != nil {
		return fmt.Errorf("update access score for %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return ErrCelebrityNotFound
	}
	return nil
}

const insertNodeCypher = `
MATCH (c:Celebrity {celebrityId: $celebrityId})
MERGE (n:Node {nodeId: $nodeId})
SET n += $props
MERGE (n)-[:KNOWS]->(c)
RETURN n.nodeId AS nodeId`

// InsertNode persists a warm node and links it to its celebrity.
func (r *Repository) InsertNode(ctx context.Context, node domain.Node) error {
	if node.ID == "" {
		return errors.New("node id is required")
	}
	if node.CelebrityID == "" {
		return errors.New("celebrity id is required")
	}

	params := map[string]any{
		"celebrityId": node.CelebrityID,
		"nodeId":      node.ID,
		"props":       nodeProperties(node),
	}
	res, err := r.client.ExecuteWrite(ctx, insertNodeCypher, params)
	if err != nil {
		return fmt.Errorf("insert node %s: %w", node.ID, err)
	}
	if len(res.Records) == 0 {
		return ErrCelebrityNotFound
	}
	return nil
}

const getNodeCypher = `
MATCH (n:Node {nodeId: $nodeId})-[:KNOWS]->(c:Celebrity)
RETURN n.nodeId AS nodeId, c.celebrityId AS celebrityId, n.personName AS personName,
       n.role AS role, n.relationshipType AS relationshipType,
       n.hopDistance AS hopDistance, n.warmScore AS warmScore,
       n.whyWarm AS whyWarm, n.contactInfo AS contactInfo, n.createdAt AS createdAt`

// GetNode fetches a single warm node by identifier.
func (r *Repository) GetNode(ctx context.Context, nodeID string) (domain.Node, error) {
	res, err := r.client.ExecuteRead(ctx, getNodeCypher, map[string]any{"nodeId": nodeID})
	if err != nil {
		return domain.Node{}, fmt.Errorf("get node %s: %w", nodeID, err)
	}
	if len(res.Records) == 0 {
		return domain.Node{}, ErrNodeNotFound
	}
	return nodeFromRecord(res.Records[0]), nil
}

const fetchNodesCypher = `
MATCH (n:Node)-[:KNOWS]->(c:Celebrity {celebrityId: $celebrityId})
RETURN n.nodeId AS nodeId, c.celebrityId AS celebrityId, n.personName AS personName,
       n.role AS role, n.relationshipType AS relationshipType,
       n.hopDistance AS hopDistance, n.warmScore AS warmScore,
       n.whyWarm AS whyWarm, n.contactInfo AS contactInfo, n.createdAt AS createdAt
ORDER BY n.warmScore DESC, n.nodeId ASC`

// FetchNodesByCelebrity returns the full node set for one celebrity. The
// ordering is total (warm score, then node id) so repeated reads feed the
// path selector an identical sequence.
func (r *Repository) FetchNodesByCelebrity(ctx context.Context, celebrityID string) ([]domain.Node, error) {
	res, err := r.client.ExecuteRead(ctx, fetchNodesCypher, map[string]any{"celebrityId": celebrityID})
	if err != nil {
		return nil, fmt.Errorf("fetch nodes for %s: %w", celebrityID, err)
	}

	nodes := make([]domain.Node, 0, len(res.Records))
	for _, record := range res.Records {
		nodes = append(nodes, nodeFromRecord(record))
	}
	return nodes, nil
}

const insertOutreachCypher = `
MATCH (c:Celebrity {celebrityId: $celebrityId})
MATCH (n:Node {nodeId: $nodeId})
CREATE (o:Outreach {outreachId: $outreachId})
SET o += $props
MERGE (o)-[:TARGETS]->(c)
MERGE (o)-[:VIA]->(n)
RETURN o.outreachId AS outreachId`

// InsertOutreach persists a drafted outreach message.
func (r *Repository) InsertOutreach(ctx context.Context, outreach domain.Outreach) error {
	if outreach.ID == "" {
		return errors.New("outreach id is required")
	}

	params := map[string]any{
		"celebrityId": outreach.CelebrityID,
		"nodeId":      outreach.NodeID,
		"outreachId":  outreach.ID,
		"props": map[string]any{
			"messageText":      outreach.MessageText,
			"valueProposition": outreach.ValueProposition,
			"subjectLine":      outreach.SubjectLine,
			"status":           outreach.Status,
			"createdAt":        formatTime(outreach.CreatedAt),
		},
	}
	res, err := r.client.ExecuteWrite(ctx, insertOutreachCypher, params)
	if err != nil {
		return fmt.Errorf("insert outreach %s: %w", outreach.ID, err)
	}
	if len(res.Records) == 0 {
		return ErrNodeNotFound
	}
	return nil
}

const listOutreachCypher = `
MATCH (o:Outreach)-[:TARGETS]->(c:Celebrity {celebrityId: $celebrityId})
MATCH (o)-[:VIA]->(n:Node)
RETURN o.outreachId AS outreachId, c.celebrityId AS celebrityId, n.nodeId AS nodeId,
       o.messageText AS messageText, o.valueProposition AS valueProposition,
       o.subjectLine AS subjectLine, o.status AS status, o.createdAt AS createdAt,
       n.personName AS personName, n.role AS role, n.contactInfo AS contactInfo
ORDER BY o.createdAt DESC`

// ListOutreachByCelebrity returns all outreach drafted for one celebrity,
// newest first, joined with the target node's contact details.
func (r *Repository) ListOutreachByCelebrity(ctx context.Context, celebrityID string) ([]OutreachRecord, error) {
	res, err := r.client.ExecuteRead(ctx, listOutreachCypher, map[string]any{"celebrityId": celebrityID})
	if err != nil {
		return nil, fmt.Errorf("list outreach for %s: %w", celebrityID, err)
	}

	records := make([]OutreachRecord, 0, len(res.Records))
	for _, record := range res.Records {
		records = append(records, OutreachRecord{
			Outreach:    outreachFromRecord(record),
			PersonName:  toString(record["personName"]),
			Role:        toString(record["role"]),
			ContactInfo: toString(record["contactInfo"]),
		})
	}
	return records, nil
}

const updateOutreachStatusCypher = `
MATCH (o:Outreach {outreachId: $outreachId})
OPTIONAL MATCH (o)-[:TARGETS]->(c:Celebrity)
OPTIONAL MATCH (o)-[:VIA]->(n:Node)
SET o.status = $status
RETURN o.outreachId AS outreachId, c.celebrityId AS celebrityId, n.nodeId AS nodeId,
       o.messageText AS messageText, o.valueProposition AS valueProposition,
       o.subjectLine AS subjectLine, o.status AS status, o.createdAt AS createdAt`

// UpdateOutreachStatus transitions an outreach message and returns the
// updated record.
func (r *Repository) UpdateOutreachStatus(ctx context.Context, id, status string) (domain.Outreach, error) {
	params := map[string]any{
		"outreachId": id,
		"status":     status,
	}
	res, err := r.client.ExecuteWrite(ctx, updateOutreachStatusCypher, params)
	if err != nil {
		return domain.Outreach{}, fmt.Errorf("update outreach %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.Outreach{}, ErrOutreachNotFound
	}
	return outreachFromRecord(res.Records[0]), nil
}

const listOutreachStatusesCypher = `
MATCH (o:Outreach)
RETURN o.status AS status`

// ListOutreachStatuses returns the status of every outreach message, for
// aggregate dashboard stats.
func (r *Repository) ListOutreachStatuses(ctx context.Context) ([]string, error) {
	res, err := r.client.ExecuteRead(ctx, listOutreachStatusesCypher, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("list outreach statuses: %w", err)
	}

	statuses := make([]string, 0, len(res.Records))
	for _, record := range res.Records {
		statuses = append(statuses, toString(record["status"]))
	}
	return statuses, nil
}

// --- property / record mapping helpers ---

func celebrityProperties(celeb domain.Celebrity) (map[string]any, error) {
	// Neo4j properties are flat, so the news list rides along as JSON.
	newsJSON := "[]"
	if len(celeb.RecentNews) > 0 {
		encoded, err := json.Marshal(celeb.RecentNews)
		if err != nil {
			return nil, fmt.Errorf("encode recent news: %w", err)
		}
		newsJSON = string(encoded)
	}

	return map[string]any{
		"name":          celeb.Name,
		"industry":      celeb.Industry,
		"bio":           celeb.Bio,
		"twitterHandle": celeb.TwitterHandle,
		"knownManager":  celeb.KnownManager,
		"recentNews":    newsJSON,
		"accessScore":   celeb.AccessScore,
		"createdAt":     formatTime(celeb.CreatedAt),
		"updatedAt":     formatTime(celeb.UpdatedAt),
	}, nil
}

func celebrityFromRecord(record graph.Record) domain.Celebrity {
	celeb := domain.Celebrity{
		ID:            toString(record["celebrityId"]),
		Name:          toString(record["name"]),
		Industry:      toString(record["industry"]),
		Bio:           toString(record["bio"]),
		TwitterHandle: toString(record["twitterHandle"]),
		KnownManager:  toString(record["knownManager"]),
		AccessScore:   toInt(record["accessScore"]),
	}

	if raw := toString(record["recentNews"]); raw != "" {
		var news []domain.NewsItem
		if err := json.Unmarshal([]byte(raw), &news); err == nil {
			celeb.RecentNews = news
		}
	}
	if created := toTimePtr(record["createdAt"]); created != nil {
		celeb.CreatedAt = *created
	}
	if updated := toTimePtr(record["updatedAt"]); updated != nil {
		celeb.UpdatedAt = *updated
	}
	return celeb
}

func nodeProperties(node domain.Node) map[string]any {
	return map[string]any{
		"personName":       node.PersonName,
		"role":             node.Role,
		"relationshipType": node.RelationshipType,
		"hopDistance":      node.HopDistance,
		"warmScore":        node.WarmScore,
		"whyWarm":          node.WhyWarm,
		"contactInfo":      node.ContactInfo,
		"createdAt":        formatTime(node.CreatedAt),
	}
}

func nodeFromRecord(record graph.Record) domain.Node {
	node := domain.Node{
		ID:               toString(record["nodeId"]),
		CelebrityID:      toString(record["celebrityId"]),
		PersonName:       toString(record["personName"]),
		Role:             toString(record["role"]),
		RelationshipType: toString(record["relationshipType"]),
		HopDistance:      toInt(record["hopDistance"]),
		WarmScore:        toInt(record["warmScore"]),
		WhyWarm:          toString(record["whyWarm"]),
		ContactInfo:      toString(record["contactInfo"]),
	}
	if created := toTimePtr(record["createdAt"]); created != nil {
		node.CreatedAt = *created
	}
	return node
}

func outreachFromRecord(record graph.Record) domain.Outreach {
	outreach := domain.Outreach{
		ID:               toString(record["outreachId"]),
		CelebrityID:      toString(record["celebrityId"]),
		NodeID:           toString(record["nodeId"]),
		MessageText:      toString(record["messageText"]),
		ValueProposition: toString(record["valueProposition"]),
		SubjectLine:      toString(record["subjectLine"]),
		Status:           toString(record["status"]),
	}
	if created := toTimePtr(record["createdAt"]); created != nil {
		outreach.CreatedAt = *created
	}
	return outreach
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func toInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func toTimePtr(value any) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return &v
	case string:
		if v == "" {
			return nil
		}
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &ts
		}
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return &ts
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
