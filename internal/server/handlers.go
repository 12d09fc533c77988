package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/datvo/accessengine/internal/domain"
	"github.com/datvo/accessengine/internal/engine"
	"github.com/datvo/accessengine/internal/intel"
	"github.com/datvo/accessengine/internal/repository"
	"github.com/datvo/accessengine/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger   *slog.Logger
	access   *service.AccessService
	outreach *service.OutreachService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, access *service.AccessService, outreach *service.OutreachService) *APIHandlers {
	return &APIHandlers{
		logger:   logger,
		access:   access,
		outreach: outreach,
	}
}

func (h *APIHandlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "access engine",
		"status":  "ok",
	})
}

func (h *APIHandlers) handleCelebrities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	summaries, err := h.access.ListCelebrities(r.Context())
	if err != nil {
		h.logger.Error("failed to list celebrities", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list celebrities")
		return
	}

	resp := listCelebritiesResponse{Celebrities: []celebritySummaryResponse{}, Count: len(summaries)}
	for _, item := range summaries {
		resp.Celebrities = append(resp.Celebrities, celebritySummaryResponse{
			ID:            item.ID,
			Name:          item.Name,
			Industry:      item.Industry,
			AccessScore:   item.AccessScore,
			TwitterHandle: item.TwitterHandle,
			KnownManager:  item.KnownManager,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload searchRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.access.Search(r.Context(), service.SearchInput{
		Name:            payload.Name,
		UserBackground:  payload.UserBackground,
		UserAsk:         payload.UserAsk,
		UserIndustry:    payload.UserIndustry,
		UserConnections: payload.UserConnections,
		SenderName:      payload.SenderName,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("search failed", "error", err, "name", payload.Name)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	respondJSON(w, http.StatusOK, searchResponse{
		Celebrity:    toCelebrityResponse(result.Celebrity),
		Graph:        result.Graph,
		BestPath:     result.BestPath,
		Intelligence: result.Intelligence,
	})
}

// handleCelebritySubroutes dispatches /celebrities/{id}/graph, /score, and
// /nodes.
func (h *APIHandlers) handleCelebritySubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/celebrities/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	celebrityID, action := parts[0], parts[1]

	switch action {
	case "graph":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.getGraph(w, r, celebrityID)
	case "score":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.getScore(w, r, celebrityID)
	case "nodes":
		switch r.Method {
		case http.MethodGet:
			h.listNodes(w, r, celebrityID)
		case http.MethodPost:
			h.addNode(w, r, celebrityID)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *APIHandlers) getGraph(w http.ResponseWriter, r *http.Request, celebrityID string) {
	graph, err := h.access.GraphData(r.Context(), celebrityID)
	if err != nil {
		if errors.Is(err, repository.ErrCelebrityNotFound) {
			writeError(w, http.StatusNotFound, "celebrity not found")
			return
		}
		h.logger.Error("failed to build graph", "error", err, "celebrityId", celebrityID)
		writeError(w, http.StatusInternalServerError, "failed to build graph")
		return
	}
	respondJSON(w, http.StatusOK, graph)
}

func (h *APIHandlers) getScore(w http.ResponseWriter, r *http.Request, celebrityID string) {
	score, err := h.access.AccessScore(r.Context(), celebrityID)
	if err != nil {
		if errors.Is(err, repository.ErrCelebrityNotFound) {
			writeError(w, http.StatusNotFound, "celebrity not found")
			return
		}
		h.logger.Error("failed to compute access score", "error", err, "celebrityId", celebrityID)
		writeError(w, http.StatusInternalServerError, "failed to compute access score")
		return
	}
	respondJSON(w, http.StatusOK, scoreResponse{
		CelebrityID: celebrityID,
		AccessScore: score,
	})
}

func (h *APIHandlers) listNodes(w http.ResponseWriter, r *http.Request, celebrityID string) {
	nodes, err := h.access.Nodes(r.Context(), celebrityID)
	if err != nil {
		h.logger.Error("failed to list nodes", "error", err, "celebrityId", celebrityID)
		writeError(w, http.StatusInternalServerError, "failed to list nodes")
		return
	}

	resp := listNodesResponse{Nodes: []nodeResponse{}, Count: len(nodes)}
	for _, node := range nodes {
		resp.Nodes = append(resp.Nodes, toNodeResponse(node))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) addNode(w http.ResponseWriter, r *http.Request, celebrityID string) {
	var payload addNodeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.access.AddNode(r.Context(), celebrityID, service.NodeInput{
		PersonName:       payload.PersonName,
		Role:             payload.Role,
		RelationshipType: payload.RelationshipType,
		HopDistance:      payload.HopDistance,
		WarmScore:        payload.WarmScore,
		WhyWarm:          payload.WhyWarm,
		ContactInfo:      payload.ContactInfo,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrCelebrityNotFound):
			writeError(w, http.StatusNotFound, "celebrity not found")
		default:
			h.logger.Error("failed to add node", "error", err, "celebrityId", celebrityID)
			writeError(w, http.StatusInternalServerError, "failed to add node")
		}
		return
	}

	respondJSON(w, http.StatusCreated, addNodeResponse{
		Node:    toNodeResponse(node),
		Message: "Node added successfully",
	})
}

func (h *APIHandlers) handleGenerateOutreach(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload generateOutreachRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.CelebrityID == "" || payload.NodeID == "" {
		writeError(w, http.StatusBadRequest, "celebrity_id and node_id are required")
		return
	}

	result, err := h.outreach.Generate(r.Context(), service.GenerateOutreachInput{
		CelebrityID:      payload.CelebrityID,
		NodeID:           payload.NodeID,
		SenderName:       payload.SenderName,
		SenderBackground: payload.SenderBackground,
		UserAsk:          payload.UserAsk,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNodeNotFound):
			writeError(w, http.StatusNotFound, "node not found")
		case errors.Is(err, repository.ErrCelebrityNotFound):
			writeError(w, http.StatusNotFound, "celebrity not found")
		default:
			h.logger.Error("failed to generate outreach", "error", err, "nodeId", payload.NodeID)
			writeError(w, http.StatusInternalServerError, "failed to generate outreach")
		}
		return
	}

	respondJSON(w, http.StatusOK, generateOutreachResponse{
		OutreachID:   result.OutreachID,
		Message:      result.Draft.Message,
		SubjectLine:  result.Draft.SubjectLine,
		PlatformNote: result.Draft.PlatformNote,
		ToneNote:     result.Draft.ToneNote,
		WordCount:    result.Draft.WordCount,
		Leverage:     result.Leverage,
		Target: targetResponse{
			PersonName:  result.Target.PersonName,
			Role:        result.Target.Role,
			ContactInfo: result.Target.ContactInfo,
		},
	})
}

func (h *APIHandlers) handleOutreachForCelebrity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	celebrityID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/outreach/celebrity/"), "/")
	if celebrityID == "" {
		writeError(w, http.StatusBadRequest, "celebrity ID is required")
		return
	}

	records, err := h.outreach.ListForCelebrity(r.Context(), celebrityID)
	if err != nil {
		h.logger.Error("failed to list outreach", "error", err, "celebrityId", celebrityID)
		writeError(w, http.StatusInternalServerError, "failed to list outreach")
		return
	}

	resp := listOutreachResponse{Messages: []outreachMessageResponse{}, Count: len(records)}
	for _, record := range records {
		resp.Messages = append(resp.Messages, outreachMessageResponse{
			outreachResponse: toOutreachResponse(record.Outreach),
			Node: targetResponse{
				PersonName:  record.PersonName,
				Role:        record.Role,
				ContactInfo: record.ContactInfo,
			},
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleOutreachSubroutes dispatches /outreach/{id}/status.
func (h *APIHandlers) handleOutreachSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/outreach/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, http.MethodPatch)
		return
	}
	outreachID := parts[0]

	var payload updateStatusRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.outreach.UpdateStatus(r.Context(), outreachID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrOutreachNotFound):
			writeError(w, http.StatusNotFound, "outreach message not found")
		default:
			h.logger.Error("failed to update outreach status", "error", err, "outreachId", outreachID)
			writeError(w, http.StatusInternalServerError, "failed to update outreach status")
		}
		return
	}

	respondJSON(w, http.StatusOK, updateStatusResponse{
		Message:  fmt.Sprintf("Status updated to '%s'", updated.Status),
		Outreach: toOutreachResponse(updated),
	})
}

func (h *APIHandlers) handleOutreachStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	stats, err := h.outreach.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute outreach stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute outreach stats")
		return
	}

	respondJSON(w, http.StatusOK, statsResponse{
		Draft:            stats.Draft,
		Sent:             stats.Sent,
		Replied:          stats.Replied,
		Total:            stats.Total,
		ReplyRatePercent: stats.ReplyRatePercent,
	})
}

// --- wire DTOs (snake_case, matching the dashboard contract) ---

type searchRequest struct {
	Name            string   `json:"name"`
	UserBackground  string   `json:"user_background"`
	UserAsk         string   `json:"user_ask"`
	UserIndustry    string   `json:"user_industry"`
	UserConnections []string `json:"user_connections"`
	SenderName      string   `json:"sender_name"`
}

type searchResponse struct {
	Celebrity    celebrityResponse `json:"celebrity"`
	Graph        engine.GraphData  `json:"graph"`
	BestPath     engine.PathResult `json:"best_path"`
	Intelligence intel.Package     `json:"intelligence"`
}

type celebrityResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Industry      string            `json:"industry"`
	Bio           string            `json:"bio"`
	AccessScore   int               `json:"access_score"`
	TwitterHandle string            `json:"twitter_handle"`
	KnownManager  string            `json:"known_manager"`
	RecentNews    []domain.NewsItem `json:"recent_news"`
}

type celebritySummaryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Industry      string `json:"industry"`
	AccessScore   int    `json:"access_score"`
	TwitterHandle string `json:"twitter_handle"`
	KnownManager  string `json:"known_manager"`
}

type listCelebritiesResponse struct {
	Celebrities []celebritySummaryResponse `json:"celebrities"`
	Count       int                        `json:"count"`
}

type scoreResponse struct {
	CelebrityID string `json:"celebrity_id"`
	AccessScore int    `json:"access_score"`
}

type addNodeRequest struct {
	PersonName       string `json:"person_name"`
	Role             string `json:"role"`
	RelationshipType string `json:"relationship_type"`
	HopDistance      *int   `json:"hop_distance"`
	WarmScore        *int   `json:"warm_score"`
	WhyWarm          string `json:"why_warm"`
	ContactInfo      string `json:"contact_info"`
}

type nodeResponse struct {
	ID               string `json:"id"`
	CelebrityID      string `json:"celebrity_id"`
	PersonName       string `json:"person_name"`
	Role             string `json:"role"`
	RelationshipType string `json:"relationship_type"`
	HopDistance      int    `json:"hop_distance"`
	WarmScore        int    `json:"warm_score"`
	WhyWarm          string `json:"why_warm"`
	ContactInfo      string `json:"contact_info"`
	CreatedAt        string `json:"created_at"`
}

type listNodesResponse struct {
	Nodes []nodeResponse `json:"nodes"`
	Count int            `json:"count"`
}

type addNodeResponse struct {
	Node    nodeResponse `json:"node"`
	Message string       `json:"message"`
}

type generateOutreachRequest struct {
	CelebrityID      string `json:"celebrity_id"`
	NodeID           string `json:"node_id"`
	SenderName       string `json:"sender_name"`
	SenderBackground string `json:"sender_background"`
	UserAsk          string `json:"user_ask"`
}

type targetResponse struct {
	PersonName  string `json:"person_name"`
	Role        string `json:"role"`
	ContactInfo string `json:"contact_info"`
}

type generateOutreachResponse struct {
	OutreachID   string         `json:"outreach_id"`
	Message      string         `json:"message"`
	SubjectLine  string         `json:"subject_line"`
	PlatformNote string         `json:"platform_note"`
	ToneNote     string         `json:"tone_note"`
	WordCount    int            `json:"word_count"`
	Leverage     intel.Leverage `json:"leverage"`
	Target       targetResponse `json:"target"`
}

type outreachResponse struct {
	ID               string `json:"id"`
	CelebrityID      string `json:"celebrity_id"`
	NodeID           string `json:"node_id"`
	MessageText      string `json:"message_text"`
	ValueProposition string `json:"value_proposition"`
	SubjectLine      string `json:"subject_line"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

type outreachMessageResponse struct {
	outreachResponse
	Node targetResponse `json:"node"`
}

type listOutreachResponse struct {
	Messages []outreachMessageResponse `json:"messages"`
	Count    int                       `json:"count"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateStatusResponse struct {
	Message  string           `json:"message"`
	Outreach outreachResponse `json:"outreach"`
}

type statsResponse struct {
	Draft            int     `json:"draft"`
	Sent             int     `json:"sent"`
	Replied          int     `json:"replied"`
	Total            int     `json:"total"`
	ReplyRatePercent float64 `json:"reply_rate_percent"`
}

func toCelebrityResponse(celeb domain.Celebrity) celebrityResponse {
	news := celeb.RecentNews
	if news == nil {
		news = []domain.NewsItem{}
	}
	return celebrityResponse{
		ID:            celeb.ID,
		Name:          celeb.Name,
		Industry:      celeb.Industry,
		Bio:           celeb.Bio,
		AccessScore:   celeb.AccessScore,
		TwitterHandle: celeb.TwitterHandle,
		KnownManager:  celeb.KnownManager,
		RecentNews:    news,
	}
}

func toNodeResponse(node domain.Node) nodeResponse {
	return nodeResponse{
		ID:               node.ID,
		CelebrityID:      node.CelebrityID,
		PersonName:       node.PersonName,
		Role:             node.Role,
		RelationshipType: node.RelationshipType,
		HopDistance:      node.HopDistance,
		WarmScore:        node.WarmScore,
		WhyWarm:          node.WhyWarm,
		ContactInfo:      node.ContactInfo,
		CreatedAt:        formatTime(node.CreatedAt),
	}
}

func toOutreachResponse(outreach domain.Outreach) outreachResponse {
	return outreachResponse{
		ID:               outreach.ID,
		CelebrityID:      outreach.CelebrityID,
		NodeID:           outreach.NodeID,
		MessageText:      outreach.MessageText,
		ValueProposition: outreach.ValueProposition,
		SubjectLine:      outreach.SubjectLine,
		Status:           outreach.Status,
		CreatedAt:        formatTime(outreach.CreatedAt),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
