package intel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/datvo/accessengine/internal/domain"
	"github.com/datvo/accessengine/internal/engine"
)

const (
	leverageMaxTokens = 500
	outreachMaxTokens = 400
	strategyMaxTokens = 400

	// The drafter only writes messages for the first hops of the chain; the
	// rest of the path is visible in the graph but not pre-drafted.
	maxDraftedHops = 2

	// DefaultAsk is the requester goal used when a search omits one.
	DefaultAsk = "3-minute FaceTime"
)

// Leverage is the persuasion package for one celebrity.
type Leverage struct {
	ValueProp     string `json:"value_prop"`
	EgoHook       string `json:"ego_hook"`
	CuriosityHook string `json:"curiosity_hook"`
	SubjectLine   string `json:"subject_line"`
}

// OutreachDraft is a drafted message for one hop of the access path.
type OutreachDraft struct {
	Message      string `json:"message"`
	SubjectLine  string `json:"subject_line"`
	PlatformNote string `json:"platform_note"`
	ToneNote     string `json:"tone_note"`
	WordCount    int    `json:"word_count"`
	HopNumber    int    `json:"hop_number"`
	TargetPerson string `json:"target_person"`
}

// Package bundles everything the dashboard needs after a search.
type Package struct {
	Leverage         Leverage        `json:"leverage"`
	OutreachMessages []OutreachDraft `json:"outreach_messages"`
	Strategy         string          `json:"strategy"`
}

// LeverageInput describes the celebrity and requester for leverage generation.
type LeverageInput struct {
	CelebrityName  string
	CelebrityBio   string
	RecentNews     []domain.NewsItem
	UserBackground string
	UserAsk        string
}

// DraftInput describes one hop target for the outreach drafter.
type DraftInput struct {
	SenderName       string
	SenderBackground string
	TargetPerson     string
	TargetRole       string
	RelationshipType string
	CelebrityName    string
	ValueProp        string
	WhyForward       string
	HopNumber        int
}

// StrategyInput feeds the access strategy advisor.
type StrategyInput struct {
	CelebrityName  string
	CelebrityBio   string
	AccessScore    int
	BestNodes      []engine.NodeSummary
	UserBackground string
}

// PackageInput drives the full pipeline after a search.
type PackageInput struct {
	CelebrityName  string
	CelebrityBio   string
	RecentNews     []domain.NewsItem
	AccessScore    int
	Path           engine.PathResult
	SenderName     string
	UserBackground string
	UserAsk        string
}

// Generator produces leverage, outreach drafts, and strategy briefs via the
// chat model.
type Generator struct {
	llm    LLMClient
	logger *slog.Logger
}

// NewGenerator builds a Generator over the supplied model client.
func NewGenerator(llm LLMClient, logger *slog.Logger) *Generator {
	return &Generator{llm: llm, logger: logger}
}

// Leverage generates a custom value proposition for the celebrity.
func (g *Generator) Leverage(ctx context.Context, in LeverageInput) (Leverage, error) {
	ask := in.UserAsk
	if ask == "" {
		ask = DefaultAsk
	}

	newsLines := make([]string, 0, 3)
	for _, item := range in.RecentNews {
		if len(newsLines) == 3 {
			break
		}
		newsLines = append(newsLines, "- "+item.Title)
	}
	newsSummary := strings.Join(newsLines, "\n")
	if newsSummary == "" {
		newsSummary = "No recent news available"
	}

	prompt := fmt.Sprintf(`You are a world-class relationship strategist helping someone get a FaceTime with %[1]s.

ABOUT %[2]s:
%[3]s

RECENT NEWS ABOUT THEM:
%[4]s

THE PERSON REQUESTING ACCESS:
%[5]s

WHAT THEY WANT:
%[6]s

Generate a compelling leverage package with these 4 components:

1. VALUE_PROP: A 2-sentence explanation of why meeting this person genuinely benefits %[1]s.
   Must be specific to their current situation/goals. NOT generic flattery.

2. EGO_HOOK: A 1-sentence observation about %[1]s that shows deep understanding of their work.
   Something that makes them feel truly seen, not just famous.

3. CURIOSITY_HOOK: A 1-sentence teaser that makes them curious enough to respond.
   Should feel like an incomplete story they need to hear the end of.

4. SUBJECT_LINE: A 6-word email/DM subject line that gets opened. Not clickbait. Genuinely intriguing.

Format your response EXACTLY like this:
VALUE_PROP: [your text]
EGO_HOOK: [your text]
CURIOSITY_HOOK: [your text]
SUBJECT_LINE: [your text]`,
		in.CelebrityName, strings.ToUpper(in.CelebrityName), in.CelebrityBio, newsSummary, in.UserBackground, ask)

	text, err := g.llm.Complete(ctx, prompt, leverageMaxTokens)
	if err != nil {
		return Leverage{}, fmt.Errorf("generate leverage for %s: %w", in.CelebrityName, err)
	}

	fields := parseKeyValues(text)
	return Leverage{
		ValueProp:     fields["value_prop"],
		EgoHook:       fields["ego_hook"],
		CuriosityHook: fields["curiosity_hook"],
		SubjectLine:   fields["subject_line"],
	}, nil
}

// DraftMessage writes a personalized outreach message for one hop.
func (g *Generator) DraftMessage(ctx context.Context, in DraftInput) (OutreachDraft, error) {
	prompt := fmt.Sprintf(`You are writing a %[1]s outreach message.

SENDER: %[2]s
SENDER BACKGROUND: %[3]s

TARGET: %[4]s (%[5]s)
TARGET'S CONNECTION TO %[6]s: %[7]s
WHY THEY WOULD FORWARD: %[8]s

ULTIMATE GOAL: Get a FaceTime with %[9]s
VALUE PROPOSITION: %[10]s

CRITICAL: This message is to %[4]s who has a connection to %[9]s.
You are asking %[4]s to forward or intro you to %[9]s.

Write a message that sounds like a real text or DM from a smart person:
- Start with "Hi," then introduce the sender by name and background
- First line acknowledges the target's connection to %[9]s naturally
- Warm and grateful tone, like you genuinely appreciate them taking the time
- One sentence of what you built
- One sentence why it's relevant to %[9]s's world
- Phrase the ask softly, like "Would you be open to passing this along?"
- Under 70 words

Also provide:
- SUBJECT_LINE: if this is an email (6 words max)
- PLATFORM_NOTE: best platform to send this (email / Twitter DM / LinkedIn / text)
- TONE_NOTE: one-word tone description

Format EXACTLY:
MESSAGE: [your message]
SUBJECT_LINE: [subject]
PLATFORM_NOTE: [platform]
TONE_NOTE: [tone]`,
		hopLabel(in.HopNumber), in.SenderName, in.SenderBackground, in.TargetPerson, in.TargetRole,
		strings.ToUpper(in.CelebrityName), in.RelationshipType, in.WhyForward, in.CelebrityName, in.ValueProp)

	text, err := g.llm.Complete(ctx, prompt, outreachMaxTokens)
	if err != nil {
		return OutreachDraft{}, fmt.Errorf("draft outreach to %s: %w", in.TargetPerson, err)
	}

	fields := parseKeyValues(text)
	message := fields["message"]

	draft := OutreachDraft{
		Message:      message,
		SubjectLine:  fields["subject_line"],
		PlatformNote: fields["platform_note"],
		ToneNote:     fields["tone_note"],
		WordCount:    len(strings.Fields(message)),
		HopNumber:    in.HopNumber,
		TargetPerson: in.TargetPerson,
	}
	if draft.PlatformNote == "" {
		draft.PlatformNote = "Twitter DM or Email"
	}
	if draft.ToneNote == "" {
		draft.ToneNote = "warm"
	}
	return draft, nil
}

// Strategy writes a 3-paragraph strategic brief for approaching the celebrity.
func (g *Generator) Strategy(ctx context.Context, in StrategyInput) (string, error) {
	nodeLines := make([]string, 0, 4)
	for _, n := range in.BestNodes {
		if len(nodeLines) == 4 {
			break
		}
		nodeLines = append(nodeLines, fmt.Sprintf("- %s (%s), warm score: %d", n.PersonName, n.Role, n.WarmScore))
	}

	bio := in.CelebrityBio
	if len(bio) > 300 {
		bio = bio[:300]
	}

	prompt := fmt.Sprintf(`You are a strategic advisor helping someone access %[1]s.

CELEBRITY PROFILE:
%[2]s

ACCESS SCORE: %[3]d/100
(%[4]s)

BEST ENTRY POINTS FOUND:
%[5]s

USER BACKGROUND:
%[6]s

Write a 3-paragraph strategic brief (plain text, no headers, no bullet points):
1. Why this celebrity is or isn't reachable and what their main access pattern is
2. The single best entry point and exactly why it works for this user specifically
3. One unconventional tactic that most people wouldn't think of for THIS specific celebrity

Keep it sharp, specific, and under 200 words total. Write like a well-connected advisor who actually knows this world.`,
		in.CelebrityName, bio, in.AccessScore, scoreBand(in.AccessScore), strings.Join(nodeLines, "\n"), in.UserBackground)

	text, err := g.llm.Complete(ctx, prompt, strategyMaxTokens)
	if err != nil {
		return "", fmt.Errorf("generate strategy for %s: %w", in.CelebrityName, err)
	}
	return strings.TrimSpace(text), nil
}

// FullPackage runs the whole pipeline: leverage, then a drafted message for
// up to the first two hops of the path, then the strategy brief.
func (g *Generator) FullPackage(ctx context.Context, in PackageInput) (Package, error) {
	g.logger.Info("generating intelligence package", "celebrity", in.CelebrityName)

	leverage, err := g.Leverage(ctx, LeverageInput{
		CelebrityName:  in.CelebrityName,
		CelebrityBio:   in.CelebrityBio,
		RecentNews:     in.RecentNews,
		UserBackground: in.UserBackground,
		UserAsk:        in.UserAsk,
	})
	if err != nil {
		return Package{}, err
	}

	drafts := make([]OutreachDraft, 0, maxDraftedHops)
	for i, hop := range in.Path.Path {
		if i == maxDraftedHops {
			break
		}
		draft, err := g.DraftMessage(ctx, DraftInput{
			SenderName:       in.SenderName,
			SenderBackground: in.UserBackground,
			TargetPerson:     hop.PersonName,
			TargetRole:       hop.Role,
			RelationshipType: hop.RelationshipType,
			CelebrityName:    in.CelebrityName,
			ValueProp:        leverage.ValueProp,
			WhyForward:       hop.WhyWarm,
			HopNumber:        i + 1,
		})
		if err != nil {
			return Package{}, err
		}
		drafts = append(drafts, draft)
	}

	strategy, err := g.Strategy(ctx, StrategyInput{
		CelebrityName:  in.CelebrityName,
		CelebrityBio:   in.CelebrityBio,
		AccessScore:    in.AccessScore,
		BestNodes:      in.Path.AllNodes,
		UserBackground: in.UserBackground,
	})
	if err != nil {
		return Package{}, err
	}

	return Package{
		Leverage:         leverage,
		OutreachMessages: drafts,
		Strategy:         strategy,
	}, nil
}

func hopLabel(hop int) string {
	switch hop {
	case 1:
		return "FIRST (you sending directly)"
	case 2:
		return "SECOND (forwarded intro)"
	case 3:
		return "THIRD (near the celebrity)"
	default:
		return fmt.Sprintf("HOP %d", hop)
	}
}

func scoreBand(score int) string {
	switch {
	case score < 60:
		return "Hard to reach directly, use warm paths"
	case score < 80:
		return "Moderately reachable, direct and warm paths both viable"
	default:
		return "Highly reachable, multiple strong entry points"
	}
}

// parseKeyValues reads "KEY: value" lines from model output into a map with
// lowercased snake_case keys. Lines without a colon are ignored.
func parseKeyValues(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}
