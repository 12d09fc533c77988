package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/datvo/accessengine/internal/domain"
	"github.com/datvo/accessengine/internal/service"
)

// Dataset contains the generated celebrities and their warm nodes.
type Dataset struct {
	Celebrities []service.CelebrityInput `json:"celebrities"`
	Nodes       []service.NodeSeed       `json:"nodes"`
}

// Generator produces synthetic network data aligned with the access engine
// schema.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumCelebrities <= 0 {
		cfg.NumCelebrities = DefaultConfig().NumCelebrities
	}
	if cfg.MinNodesPerCeleb <= 0 {
		cfg.MinNodesPerCeleb = DefaultConfig().MinNodesPerCeleb
	}
	if cfg.MaxNodesPerCeleb < cfg.MinNodesPerCeleb {
		cfg.MaxNodesPerCeleb = cfg.MinNodesPerCeleb
	}
	if cfg.ContactInfoChance <= 0 {
		cfg.ContactInfoChance = DefaultConfig().ContactInfoChance
	}
	if cfg.SecondHopChance <= 0 {
		cfg.SecondHopChance = DefaultConfig().SecondHopChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultNameFragments(),
	}
}

// Generate synthesises celebrities and warm nodes. It respects context
// cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	celebrities := make([]service.CelebrityInput, g.cfg.NumCelebrities)
	var nodes []service.NodeSeed

	for i := 0; i < g.cfg.NumCelebrities; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		celebrityID := fmt.Sprintf("CEL-%04d", i+1)
		name := g.randomFullName()
		industry := g.fragments.industries[g.rand.Intn(len(g.fragments.industries))]

		celebrities[i] = service.CelebrityInput{
			ID:            celebrityID,
			Name:          name,
			Industry:      industry,
			Bio:           g.randomBio(name, industry),
			TwitterHandle: "@" + strings.ToLower(strings.ReplaceAll(name, " ", "")),
			KnownManager:  g.randomFullName(),
			RecentNews:    g.randomNews(name),
		}

		count := g.cfg.MinNodesPerCeleb + g.rand.Intn(g.cfg.MaxNodesPerCeleb-g.cfg.MinNodesPerCeleb+1)
		for j := 0; j < count; j++ {
			nodes = append(nodes, service.NodeSeed{
				CelebrityID: celebrityID,
				Node:        g.randomNode(name),
			})
		}
	}

	return Dataset{Celebrities: celebrities, Nodes: nodes}, nil
}

func (g *Generator) randomNode(celebrityName string) service.NodeInput {
	relType := g.fragments.relationshipTypes[g.rand.Intn(len(g.fragments.relationshipTypes))]

	hop := 1
	if g.rand.Float64() < g.cfg.SecondHopChance {
		hop = 2
	}
	// Direct contacts run warmer than second-hop intermediaries.
	warm := 55 + g.rand.Intn(40)
	if hop == 2 {
		warm = 35 + g.rand.Intn(40)
	}

	personName := g.randomFullName()
	contact := ""
	if g.rand.Float64() < g.cfg.ContactInfoChance {
		contact = g.randomContact(personName)
	}

	return service.NodeInput{
		PersonName:       personName,
		Role:             g.roleFor(relType),
		RelationshipType: relType,
		HopDistance:      &hop,
		WarmScore:        &warm,
		WhyWarm:          g.randomWhyWarm(celebrityName, relType),
		ContactInfo:      contact,
	}
}

func (g *Generator) roleFor(relType string) string {
	roles, ok := g.fragments.rolesByType[relType]
	if !ok || len(roles) == 0 {
		return "associate"
	}
	return roles[g.rand.Intn(len(roles))]
}

func (g *Generator) randomFullName() string {
	return fmt.Sprintf("%s %s", g.fragments.first[g.rand.Intn(len(g.fragments.first))],
		g.fragments.last[g.rand.Intn(len(g.fragments.last))])
}

func (g *Generator) randomBio(name, industry string) string {
	templates := []string{
		"%s is a leading figure in %s, known for high-profile collaborations.",
		"%s built a reputation in %s over the last decade.",
		"%s is an award-winning name in %s with a large public following.",
	}
	return fmt.Sprintf(templates[g.rand.Intn(len(templates))], name, industry)
}

func (g *Generator) randomNews(name string) []domain.NewsItem {
	count := g.rand.Intn(3)
	items := make([]domain.NewsItem, 0, count)
	for i := 0; i < count; i++ {
		outlet := g.fragments.outlets[g.rand.Intn(len(g.fragments.outlets))]
		items = append(items, domain.NewsItem{
			Title:       fmt.Sprintf("%s %s", name, g.fragments.headlines[g.rand.Intn(len(g.fragments.headlines))]),
			Description: "Synthetic press coverage.",
			URL:         fmt.Sprintf("https://%s/story/%06d", strings.ToLower(outlet)+".example.com", g.rand.Intn(999999)),
			PublishedAt: time.Now().UTC().AddDate(0, 0, -g.rand.Intn(90)).Format("2006-01-02"),
			Source:      outlet,
		})
	}
	return items
}

func (g *Generator) randomWhyWarm(celebrityName, relType string) string {
	reasons := []string{
		fmt.Sprintf("Worked with %s on a recent project", celebrityName),
		fmt.Sprintf("Handles day-to-day scheduling for %s", celebrityName),
		fmt.Sprintf("Longtime %s contact, responds to cold intros", relType),
		fmt.Sprintf("Introduced %s at an industry event last year", celebrityName),
	}
	return reasons[g.rand.Intn(len(reasons))]
}

func (g *Generator) randomContact(personName string) string {
	parts := strings.Fields(strings.ToLower(personName))
	if g.rand.Float64() < 0.5 {
		return fmt.Sprintf("%s@%s", strings.Join(parts, "."), g.fragments.domains[g.rand.Intn(len(g.fragments.domains))])
	}
	return "@" + strings.Join(parts, "_")
}

type nameFragments struct {
	first             []string
	last              []string
	domains           []string
	industries        []string
	relationshipTypes []string
	rolesByType       map[string][]string
	outlets           []string
	headlines         []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:             []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:              []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		domains:           []string{"example.com", "mail.com", "agency.net", "mgmt.org", "studio.io"},
		industries:        []string{"music", "film", "tech", "sports", "fashion", "media"},
		relationshipTypes: []string{domain.RelationshipManager, domain.RelationshipInvestor, domain.RelationshipCollaborator, domain.RelationshipMedia, domain.RelationshipColleague, domain.RelationshipPartner},
		rolesByType: map[string][]string{
			domain.RelationshipManager:      {"talent manager", "business manager", "agent"},
			domain.RelationshipInvestor:     {"angel investor", "fund partner", "board member"},
			domain.RelationshipCollaborator: {"producer", "co-founder", "creative director"},
			domain.RelationshipMedia:        {"podcast host", "journalist", "editor"},
			domain.RelationshipColleague:    {"former colleague", "label executive", "studio head"},
			domain.RelationshipPartner:      {"brand partner", "sponsor lead", "tour promoter"},
		},
		outlets:   []string{"TechCrunch", "Billboard", "Variety", "Forbes", "Wired"},
		headlines: []string{"announces new venture", "lands major partnership", "headlines industry summit", "launches charity initiative"},
	}
}
