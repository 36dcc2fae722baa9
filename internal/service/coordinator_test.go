package service

import (
	"context"
	"testing"

	"github.com/groundviewhq/groundview/internal/config"
	"github.com/groundviewhq/groundview/internal/logger"
	"github.com/groundviewhq/groundview/internal/vision"
)

type fakeStrategy struct {
	name       string
	lastTenant string
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	f.lastTenant = req.Tenant
	return &SearchResponse{Strategy: f.name}, nil
}

func (f *fakeStrategy) SearchByImage(ctx context.Context, req *ImageSearchRequest) (*SearchResponse, error) {
	f.lastTenant = req.Tenant
	return &SearchResponse{Strategy: f.name}, nil
}

func (f *fakeStrategy) SearchByObject(ctx context.Context, req *ObjectSearchRequest) (*SearchResponse, error) {
	f.lastTenant = req.Tenant
	return &SearchResponse{Strategy: f.name}, nil
}

func (f *fakeStrategy) AnalyzeBoard(ctx context.Context, req *BoardRequest) (*vision.Analysis, error) {
	f.lastTenant = req.Tenant
	return &vision.Analysis{}, nil
}

func newTestCoordinator(searchTenant, consultTenant string) (*StrategyCoordinator, *int, *int) {
	standardBuilds := 0
	consultBuilds := 0
	return NewStrategyCoordinator(
		func() SearchStrategy {
			standardBuilds++
			return &fakeStrategy{name: StrategyStandard}
		},
		func() SearchStrategy {
			consultBuilds++
			return &fakeStrategy{name: StrategyConsultation}
		},
		config.SearchConfig{Tenant: searchTenant},
		config.ConsultationConfig{Tenant: consultTenant},
		logger.New(logger.DefaultConfig()),
	), &standardBuilds, &consultBuilds
}

func TestResolveSelectsStrategyByTenant(t *testing.T) {
	testCases := []struct {
		name   string
		tenant string
		want   string
	}{
		{"designated tenant gets consultation", "atlantic", StrategyConsultation},
		{"other tenant gets standard", "acme", StrategyStandard},
		{"no tenant gets standard", "", StrategyStandard},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestCoordinator("", "atlantic")
			if got := c.Resolve(tc.tenant).Name(); got != tc.want {
				t.Errorf("Resolve(%q) = %s, want %s", tc.tenant, got, tc.want)
			}
		})
	}
}

func TestResolveMemoizesPerStrategyClass(t *testing.T) {
	c, standardBuilds, consultBuilds := newTestCoordinator("", "atlantic")

	s1 := c.Resolve("acme")
	s2 := c.Resolve("globex")
	s3 := c.Resolve("")
	if s1 != s2 || s2 != s3 {
		t.Error("standard tenants should share one strategy instance")
	}
	if *standardBuilds != 1 {
		t.Errorf("standard built %d times, want 1", *standardBuilds)
	}

	c1 := c.Resolve("atlantic")
	c2 := c.Resolve("atlantic")
	if c1 != c2 {
		t.Error("consultation strategy should be memoized")
	}
	if *consultBuilds != 1 {
		t.Errorf("consultation built %d times, want 1", *consultBuilds)
	}
}

func TestTenantRestrictionOverridesCaller(t *testing.T) {
	c, _, _ := newTestCoordinator("locked", "atlantic")

	resp, err := c.Search(context.Background(), &SearchRequest{Tenant: "atlantic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The override maps everyone to the restricted tenant, which is not the
	// consultative one, so the standard strategy serves the request.
	if resp.Strategy != StrategyStandard {
		t.Errorf("strategy = %s, want %s", resp.Strategy, StrategyStandard)
	}

	fake := c.Resolve("locked").(*fakeStrategy)
	if fake.lastTenant != "locked" {
		t.Errorf("effective tenant = %q, want %q", fake.lastTenant, "locked")
	}
}

func TestEffectiveTenantWithoutRestriction(t *testing.T) {
	c, _, _ := newTestCoordinator("", "atlantic")
	if got := c.EffectiveTenant("acme"); got != "acme" {
		t.Errorf("EffectiveTenant = %q, want %q", got, "acme")
	}
}
