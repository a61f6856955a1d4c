package entity

// Product is a single catalog entry as loaded from products.json.
// Code is the primary key across the whole catalog.
type Product struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	BenefitsText    string   `json:"benefits_text"`
	IngredientsText string   `json:"ingredients_text"`
	UsageText       string   `json:"usage_text"`
	PriceText       string   `json:"price_text"`
	ProductURL      string   `json:"product_url"`
	Aliases         []string `json:"aliases,omitempty"`
	HealthTags      []string `json:"health_tags,omitempty"`

	// InStock is optional in the source data. When absent, the lack of a
	// product link is used as a proxy signal for unavailability.
	InStock *bool `json:"in_stock,omitempty"`
}

// OutOfStock reports whether the product should be penalized during ranking.
func (p Product) OutOfStock() bool {
	if p.InStock != nil {
		return !*p.InStock
	}
	return p.ProductURL == ""
}

// Clone returns a deep copy so catalog enrichment never mutates loader output.
func (p Product) Clone() Product {
	out := p
	out.Aliases = append([]string(nil), p.Aliases...)
	out.HealthTags = append([]string(nil), p.HealthTags...)
	if p.InStock != nil {
		v := *p.InStock
		out.InStock = &v
	}
	return out
}
