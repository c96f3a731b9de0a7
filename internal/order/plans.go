package order

import "errors"

// ErrUnknownPlan indicates the requested plan id is not in the catalog.
var ErrUnknownPlan = errors.New("order: unknown plan")

// ServiceType names what a plan delivers.
type ServiceType string

const (
	ServiceFollowers ServiceType = "followers"
	ServiceLikes     ServiceType = "likes"
	ServiceViews     ServiceType = "views"
)

// Plan is one purchasable package.
type Plan struct {
	ID            string      `json:"id"`
	Service       ServiceType `json:"service"`
	QuantityLabel string      `json:"quantityLabel"`
	PriceLabel    string      `json:"priceLabel"`
	AmountINR     int         `json:"amountInr"`
	Badge         string      `json:"badge,omitempty"`
	Perks         []string    `json:"perks"`
}

var catalog = []Plan{
	{
		ID:            "followers-1000",
		Service:       ServiceFollowers,
		QuantityLabel: "1,000 Followers",
		PriceLabel:    "₹2,499",
		AmountINR:     99,
		Perks:         []string{"Instant delivery", "Real-looking profiles", "24/7 support"},
	},
	{
		ID:            "followers-2500",
		Service:       ServiceFollowers,
		QuantityLabel: "2,500 Followers",
		PriceLabel:    "₹4,999",
		AmountINR:     199,
		Badge:         "Most popular",
		Perks:         []string{"Instant delivery", "Real-looking profiles", "Priority support"},
	},
	{
		ID:            "followers-5000",
		Service:       ServiceFollowers,
		QuantityLabel: "5,000 Followers",
		PriceLabel:    "₹9,999",
		AmountINR:     399,
		Badge:         "Best value",
		Perks:         []string{"Instant delivery", "Real-looking profiles", "Priority support"},
	},
	{
		ID:            "likes-2500",
		Service:       ServiceLikes,
		QuantityLabel: "2,500 Likes",
		PriceLabel:    "₹3,999",
		AmountINR:     149,
		Perks:         []string{"Split across recent posts", "Instant delivery"},
	},
	{
		ID:            "views-10000",
		Service:       ServiceViews,
		QuantityLabel: "10,000 Views",
		PriceLabel:    "₹2,999",
		AmountINR:     129,
		Perks:         []string{"Works on reels and videos", "Instant delivery"},
	},
}

// Plans returns the purchasable plan catalog.
func Plans() []Plan {
	plans := make([]Plan, len(catalog))
	copy(plans, catalog)
	return plans
}

// PlanByID looks a plan up by its identifier.
func PlanByID(id string) (Plan, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, ErrUnknownPlan
}
