package service

import (
	"strings"
	"testing"

	"github.com/groundviewhq/groundview/internal/logger"
)

func newTestEngine(t *testing.T) *ConsultationEngine {
	t.Helper()
	engine, err := NewConsultationEngine("", logger.New(logger.DefaultConfig()))
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return engine
}

func TestTrustHeaderBranches(t *testing.T) {
	engine := newTestEngine(t)

	testCases := []struct {
		name     string
		query    string
		wantPart string
	}{
		{"commercial branch", "commercial property maintenance", "large-scale management"},
		{"hardscape branch", "granite patio ideas", "masonry standards"},
		{"generic branch", "pollinator garden", "technical approach"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			header := engine.TrustHeader(tc.query, "")
			if header == "" {
				t.Fatal("trust header is empty")
			}
			if !strings.Contains(header, tc.wantPart) {
				t.Errorf("header %q missing %q", header, tc.wantPart)
			}
			if !strings.Contains(header, "Since 1984") {
				t.Errorf("header %q missing founding year", header)
			}
		})
	}
}

func TestTrustHeaderUsesExtractedCity(t *testing.T) {
	engine := newTestEngine(t)

	city := engine.ExtractCity("stone walkway in Salem for a small yard")
	if city != "Salem" {
		t.Fatalf("ExtractCity = %q, want Salem", city)
	}

	header := engine.TrustHeader("stone walkway in Salem", city)
	if !strings.Contains(header, "Salem") {
		t.Errorf("header %q does not mention the city", header)
	}
}

func TestExtractCityNoMatch(t *testing.T) {
	engine := newTestEngine(t)
	if city := engine.ExtractCity("modern fire pit"); city != "" {
		t.Errorf("ExtractCity = %q, want empty", city)
	}
}

func TestKnowledgeCardTriggers(t *testing.T) {
	engine := newTestEngine(t)

	card := engine.KnowledgeCard("bluestone patio with seating", "Beverly")
	if card == nil {
		t.Fatal("expected a card for a patio query")
	}
	if card.Title == "" || card.Fact == "" {
		t.Errorf("card missing content: %+v", card)
	}
	if !strings.Contains(card.LocalContext, "Beverly") {
		t.Errorf("local context %q not localized", card.LocalContext)
	}
}

func TestKnowledgeCardNoTrigger(t *testing.T) {
	engine := newTestEngine(t)
	if card := engine.KnowledgeCard("pergola ideas", ""); card != nil {
		t.Errorf("expected nil card, got %+v", card)
	}
}

func TestFallbackCard(t *testing.T) {
	engine := newTestEngine(t)
	card := engine.FallbackCard("")
	if card == nil {
		t.Fatal("fallback card is nil")
	}
	if !strings.Contains(card.LocalContext, engine.Region()) {
		t.Errorf("fallback context %q missing region", card.LocalContext)
	}
}
