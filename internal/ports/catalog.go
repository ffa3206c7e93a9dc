package ports

import "github.com/amani-patrick/Amnii-WAF/internal/domain"

// PlanCatalog resolves purchasable subscription tiers. Implementations are
// read-only; plan prices never change underneath an in-flight charge.
type PlanCatalog interface {
	Resolve(planID string) (domain.Plan, error)
	List() []domain.Plan
}
