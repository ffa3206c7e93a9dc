// Package catalog provides the read-only plan catalog. Plans come from
// configuration at startup; there is no runtime mutation path, which is what
// keeps referenced prices immutable.
package catalog

import (
	"fmt"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

type StaticCatalog struct {
	plans map[string]domain.Plan
	order []string
}

// NewStaticCatalog builds a catalog from configured plans. Later duplicates of
// a plan id are ignored; the first definition wins.
func NewStaticCatalog(plans []domain.Plan) *StaticCatalog {
	c := &StaticCatalog{plans: make(map[string]domain.Plan, len(plans))}
	for _, p := range plans {
		if _, exists := c.plans[p.PlanID]; exists {
			continue
		}
		c.plans[p.PlanID] = p
		c.order = append(c.order, p.PlanID)
	}
	return c
}

func (c *StaticCatalog) Resolve(planID string) (domain.Plan, error) {
	plan, ok := c.plans[planID]
	if !ok {
		return domain.Plan{}, fmt.Errorf("%w: %q", domain.ErrInvalidPlan, planID)
	}
	return plan, nil
}

func (c *StaticCatalog) List() []domain.Plan {
	out := make([]domain.Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// DefaultPlans is the shipped catalog, used when the config file defines none.
func DefaultPlans() []domain.Plan {
	return []domain.Plan{
		{PlanID: "starter", Name: "Starter", PriceMinor: 4900, Currency: "usd"},
		{PlanID: "pro", Name: "Pro", PriceMinor: 9900, Currency: "usd"},
		{PlanID: "enterprise", Name: "Enterprise", PriceMinor: 24900, Currency: "usd"},
	}
}
