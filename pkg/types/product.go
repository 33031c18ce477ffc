package types

import (
	"github.com/shopspring/decimal"
)

// ProductSnapshot carries the denormalized product fields cart lines need for
// display. Backends disagree about field spelling and nesting, so the shape
// tolerates both a flat product and one wrapped under a product key.
type ProductSnapshot struct {
	ID       ID               `json:"id,omitempty"`
	Name     string           `json:"name,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Image    string           `json:"image,omitempty"`
	ImageURL string           `json:"imageUrl,omitempty"`
	Category string           `json:"category,omitempty"`

	Product *ProductSnapshot `json:"product,omitempty"`
}

// PrimaryImage picks whichever image field the backend filled in.
func (p *ProductSnapshot) PrimaryImage() string {
	if p == nil {
		return ""
	}
	if p.Image != "" {
		return p.Image
	}
	return p.ImageURL
}
