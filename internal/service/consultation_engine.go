package service

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/groundviewhq/groundview/internal/logger"
)

// CompanyProfile is the fixed identity the consultative tenant presents.
type CompanyProfile struct {
	Name        string   `json:"name"`
	Founded     int      `json:"founded"`
	HQCity      string   `json:"hq_city"`
	Region      string   `json:"region"`
	ServiceArea []string `json:"service_area"`
}

// FactCard is one keyword-triggered knowledge entry. GeoTemplate may
// contain a {city} placeholder filled with the caller's city.
type FactCard struct {
	Title          string   `json:"title"`
	Triggers       []string `json:"triggers"`
	ScientificFact string   `json:"scientific_fact"`
	GeoTemplate    string   `json:"geo_template"`
	VisualTags     []string `json:"visual_tags"`
}

// Knowledge is the consultative tenant's narrative dataset.
type Knowledge struct {
	Profile CompanyProfile `json:"company_profile"`
	Facts   []FactCard     `json:"fact_cards"`
}

// ConsultationEngine produces trust headers and knowledge cards for the
// consultative strategy.
type ConsultationEngine struct {
	profile CompanyProfile
	facts   []FactCard
}

// NewConsultationEngine loads the knowledge dataset from knowledgePath, or
// falls back to the built-in dataset when the path is empty.
func NewConsultationEngine(knowledgePath string, log *logger.Logger) (*ConsultationEngine, error) {
	knowledge := defaultKnowledge()

	if knowledgePath != "" {
		data, err := os.ReadFile(knowledgePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read knowledge file: %w", err)
		}
		var loaded Knowledge
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
		}
		knowledge = loaded
		log.WithField("path", knowledgePath).Info("loaded consultation knowledge file")
	}

	if knowledge.Profile.Name == "" || len(knowledge.Facts) == 0 {
		return nil, fmt.Errorf("knowledge dataset is missing a company profile or fact cards")
	}

	return &ConsultationEngine{
		profile: knowledge.Profile,
		facts:   knowledge.Facts,
	}, nil
}

// Region returns the profile's default region phrase, used when no city is
// extracted from the query.
func (e *ConsultationEngine) Region() string {
	return e.profile.Region
}

// ExtractCity returns the first service-area city mentioned in the query,
// or empty when none match.
func (e *ConsultationEngine) ExtractCity(query string) string {
	lowered := strings.ToLower(query)
	for _, city := range e.profile.ServiceArea {
		if strings.Contains(lowered, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}

// TrustHeader renders the branded introduction for a query. The phrasing
// branches on commercial and hardscape vocabulary.
func (e *ConsultationEngine) TrustHeader(query, userCity string) string {
	targetCity := userCity
	if targetCity == "" {
		targetCity = e.profile.Region
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Since %d, %s has served %s with commercial and residential expertise. ",
		e.profile.Founded, e.profile.Name, targetCity)

	lowered := strings.ToLower(query)
	switch {
	case strings.Contains(lowered, "commercial"):
		b.WriteString("From municipal parks to corporate campuses, our team handles large-scale management.")
	case containsAny(lowered, "patio", "hardscape", "stone", "granite", "paver"):
		fmt.Fprintf(&b, "While we have worked in %s for decades, the examples below highlight our masonry standards across the region.", targetCity)
	default:
		fmt.Fprintf(&b, "Below are examples of our work and technical approach, available for your project in %s.", targetCity)
	}
	return b.String()
}

// KnowledgeCard returns the card for the first fact whose trigger phrase
// appears in the query, or nil when none match.
func (e *ConsultationEngine) KnowledgeCard(query, userCity string) *KnowledgeCard {
	if userCity == "" {
		userCity = e.profile.Region
	}
	lowered := strings.ToLower(query)

	for _, card := range e.facts {
		for _, trigger := range card.Triggers {
			if strings.Contains(lowered, trigger) {
				return &KnowledgeCard{
					Title:        card.Title,
					Fact:         card.ScientificFact,
					LocalContext: strings.ReplaceAll(card.GeoTemplate, "{city}", userCity),
					VisualTags:   card.VisualTags,
				}
			}
		}
	}
	return nil
}

// FallbackCard is the generic expertise card returned when no trigger
// matches and no images clear the confidence floor.
func (e *ConsultationEngine) FallbackCard(userCity string) *KnowledgeCard {
	if userCity == "" {
		userCity = e.profile.Region
	}
	return &KnowledgeCard{
		Title: "Coastal Experts",
		Fact:  "New England coastal projects require specialized knowledge of salt-tolerant plantings and freeze-thaw masonry.",
		LocalContext: fmt.Sprintf("Our team has maintained high standards in %s since %d.",
			userCity, e.profile.Founded),
		VisualTags: []string{"natural_stone", "bluestone"},
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// defaultKnowledge is the built-in dataset for the consultative tenant.
func defaultKnowledge() Knowledge {
	return Knowledge{
		Profile: CompanyProfile{
			Name:    "Atlantic Landscape Group",
			Founded: 1984,
			HQCity:  "Beverly",
			Region:  "the North Shore",
			ServiceArea: []string{
				"Beverly", "Salem", "Marblehead", "Swampscott", "Gloucester",
				"Ipswich", "Manchester", "Danvers", "Hamilton", "Wenham",
			},
		},
		Facts: []FactCard{
			{
				Title:          "Granite That Lasts",
				Triggers:       []string{"patio", "granite", "stone", "paver", "walkway"},
				ScientificFact: "Locally quarried granite withstands over 100 freeze-thaw cycles per winter without spalling, unlike poured concrete.",
				GeoTemplate:    "We source stone from regional quarries so hardscapes in {city} age with the neighborhood, not against it.",
				VisualTags:     []string{"natural_stone", "bluestone"},
			},
			{
				Title:          "Drainage Before Design",
				Triggers:       []string{"drainage", "flood", "wet", "runoff", "erosion"},
				ScientificFact: "A yard pitched less than 2% toward a collection point will pond after any one-inch storm.",
				GeoTemplate:    "Coastal clay soils around {city} drain slowly, so we grade and pipe before a single plant goes in.",
				VisualTags:     []string{"gravel", "stone_edging"},
			},
			{
				Title:          "Walls That Hold",
				Triggers:       []string{"retaining", "wall", "slope", "terrace"},
				ScientificFact: "A retaining wall over four feet carries lateral loads that double with saturated backfill, which is why we engineer drainage into every course.",
				GeoTemplate:    "Glacial grades in {city} make terracing the difference between a usable yard and a washout.",
				VisualTags:     []string{"retaining_wall", "natural_stone"},
			},
			{
				Title:          "Salt-Tolerant Plantings",
				Triggers:       []string{"plant", "garden", "shrub", "perennial", "coastal"},
				ScientificFact: "Salt spray travels up to half a mile inland, so ocean-adjacent beds need species rated for aerosol salinity, not just hardiness zone.",
				GeoTemplate:    "Our planting palettes for {city} lean on bayberry, rugosa and switchgrass that shrug off nor'easters.",
				VisualTags:     []string{"naturalistic", "ornamental_grasses"},
			},
			{
				Title:          "Lighting For Shoulder Seasons",
				Triggers:       []string{"lighting", "light", "evening", "night"},
				ScientificFact: "Low-voltage LED systems draw under a tenth of the power of halogen while doubling fixture life in coastal air.",
				GeoTemplate:    "Early dusk from October on means outdoor rooms in {city} earn their keep with layered lighting.",
				VisualTags:     []string{"string_lights", "path_lights"},
			},
		},
	}
}
