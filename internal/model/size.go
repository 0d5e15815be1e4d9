package model

// StandardSize is one row of the configurable price table. PriceWithBoard is
// nil when board mounting is unavailable for that size.
type StandardSize struct {
	Label          string `json:"label"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	PriceNoBoard   int    `json:"price_without_board"`
	PriceWithBoard *int   `json:"price_with_board,omitempty"`
}

// PriceTable is the versioned configuration blob stored in settings. The
// version increments on every operator edit so concurrent dashboards can
// detect a stale table.
type PriceTable struct {
	Version int            `json:"version"`
	Sizes   []StandardSize `json:"sizes"`
}

// Flat shipping fees by zone, in taka.
const (
	ShippingInsideDhaka  = 80
	ShippingOutsideDhaka = 120
)

// ShippingCost returns the flat fee for the zone flag.
func ShippingCost(insideDhaka bool) int {
	if insideDhaka {
		return ShippingInsideDhaka
	}
	return ShippingOutsideDhaka
}

func intp(v int) *int { return &v }

// DefaultSizes returns the seed price table. Operators can edit or reset the
// stored table back to these values.
func DefaultSizes() []StandardSize {
	return []StandardSize{
		{Label: `12" x 8"`, Width: 12, Height: 8, PriceNoBoard: 350, PriceWithBoard: intp(450)},
		{Label: `18" x 12"`, Width: 18, Height: 12, PriceNoBoard: 550, PriceWithBoard: intp(700)},
		{Label: `24" x 16"`, Width: 24, Height: 16, PriceNoBoard: 850, PriceWithBoard: intp(1050)},
		{Label: `35" x 24"`, Width: 35, Height: 24, PriceNoBoard: 1500},
	}
}
