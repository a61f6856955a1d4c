package entity

// ComboItem references one product inside a combo. Name, price and URL may be
// left empty in the source data and are back-filled from the referenced
// product during catalog build.
type ComboItem struct {
	ProductCode string `json:"product_code"`
	Name        string `json:"name,omitempty"`
	DoseText    string `json:"dose_text,omitempty"`
	RoleText    string `json:"role_text,omitempty"`
	PriceText   string `json:"price_text,omitempty"`
	ProductURL  string `json:"product_url,omitempty"`
}

// Combo is a bundle of products recommended together for a health goal.
// ID defaults to the normalized name when the source omits it.
type Combo struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	HeaderText   string      `json:"header_text,omitempty"`
	DurationText string      `json:"duration_text,omitempty"`
	Items        []ComboItem `json:"products,omitempty"`
	Aliases      []string    `json:"aliases,omitempty"`
	HealthTags   []string    `json:"health_tags,omitempty"`
}

// Clone returns a deep copy so catalog enrichment never mutates loader output.
func (c Combo) Clone() Combo {
	out := c
	out.Items = append([]ComboItem(nil), c.Items...)
	out.Aliases = append([]string(nil), c.Aliases...)
	out.HealthTags = append([]string(nil), c.HealthTags...)
	return out
}
