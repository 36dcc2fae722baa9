package service

import (
	"context"
	"sync"

	"github.com/groundviewhq/groundview/internal/config"
	"github.com/groundviewhq/groundview/internal/logger"
	"github.com/groundviewhq/groundview/internal/vision"
)

// StrategyCoordinator routes every operation to the strategy its tenant
// belongs to. Exactly one designated tenant gets the consultative strategy;
// everyone else, including the no-tenant case, gets the standard one.
// Strategy instances are memoized per class, so all standard tenants share
// one instance and its loaded resources.
type StrategyCoordinator struct {
	newStandard     func() SearchStrategy
	newConsultation func() SearchStrategy

	consultTenant  string
	tenantOverride string
	log            *logger.Logger

	mu           sync.Mutex
	standard     SearchStrategy
	consultation SearchStrategy
}

// NewStrategyCoordinator creates a coordinator with lazy strategy
// construction. The search tenant restriction, when configured, overrides
// any caller-supplied tenant for the whole process.
func NewStrategyCoordinator(
	newStandard func() SearchStrategy,
	newConsultation func() SearchStrategy,
	searchCfg config.SearchConfig,
	consultCfg config.ConsultationConfig,
	log *logger.Logger,
) *StrategyCoordinator {
	return &StrategyCoordinator{
		newStandard:     newStandard,
		newConsultation: newConsultation,
		consultTenant:   consultCfg.Tenant,
		tenantOverride:  searchCfg.Tenant,
		log:             log,
	}
}

// Resolve returns the memoized strategy instance for a tenant.
func (c *StrategyCoordinator) Resolve(tenant string) SearchStrategy {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.consultTenant != "" && tenant == c.consultTenant {
		if c.consultation == nil {
			c.consultation = c.newConsultation()
			c.log.WithField(logger.FieldStrategy, c.consultation.Name()).Info("strategy initialized")
		}
		return c.consultation
	}

	if c.standard == nil {
		c.standard = c.newStandard()
		c.log.WithField(logger.FieldStrategy, c.standard.Name()).Info("strategy initialized")
	}
	return c.standard
}

// EffectiveTenant applies the process-wide tenant restriction.
func (c *StrategyCoordinator) EffectiveTenant(tenant string) string {
	if c.tenantOverride != "" {
		return c.tenantOverride
	}
	return tenant
}

// Search dispatches a text search for the effective tenant.
func (c *StrategyCoordinator) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	req.Tenant = c.EffectiveTenant(req.Tenant)
	return c.Resolve(req.Tenant).Search(ctx, req)
}

// SearchByImage dispatches an anchor-image search for the effective tenant.
func (c *StrategyCoordinator) SearchByImage(ctx context.Context, req *ImageSearchRequest) (*SearchResponse, error) {
	req.Tenant = c.EffectiveTenant(req.Tenant)
	return c.Resolve(req.Tenant).SearchByImage(ctx, req)
}

// SearchByObject dispatches an anchor-object search for the effective
// tenant.
func (c *StrategyCoordinator) SearchByObject(ctx context.Context, req *ObjectSearchRequest) (*SearchResponse, error) {
	req.Tenant = c.EffectiveTenant(req.Tenant)
	return c.Resolve(req.Tenant).SearchByObject(ctx, req)
}

// AnalyzeBoard dispatches a vision-board analysis for the effective tenant.
func (c *StrategyCoordinator) AnalyzeBoard(ctx context.Context, req *BoardRequest) (*vision.Analysis, error) {
	req.Tenant = c.EffectiveTenant(req.Tenant)
	return c.Resolve(req.Tenant).AnalyzeBoard(ctx, req)
}
