package domain

// Plan is a purchasable subscription tier. Prices are minor currency units
// (cents) and immutable once a payment references them; the catalog is
// read-only at runtime.
type Plan struct {
	PlanID     string
	Name       string
	PriceMinor int64
	Currency   string
}
