package models

// Product is the display-time view of a catalogue item. The composer treats it
// as immutable for the duration of one composition.
type Product struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	SKU              string   `json:"sku"`
	Type             string   `json:"type"` // simple, variable, grouped, external
	Price            float64  `json:"price"`
	RegularPrice     float64  `json:"regular_price"`
	SalePrice        *float64 `json:"sale_price,omitempty"`
	StockStatus      string   `json:"stock_status"` // instock, outofstock, onbackorder
	CategoryIDs      []int64  `json:"category_ids"`
	CategoryNames    []string `json:"category_names,omitempty"`
	TagIDs           []int64  `json:"tag_ids"`
	Featured         bool     `json:"featured"`
	OnSale           bool     `json:"on_sale"`
	ShortDescription string   `json:"short_description,omitempty"`
	Weight           string   `json:"weight,omitempty"`
	Dimensions       string   `json:"dimensions,omitempty"`

	// CustomFields holds product meta. Values are scalars (string, number, bool)
	// or lists of scalars.
	CustomFields map[string]any `json:"custom_fields,omitempty"`

	// Attributes maps attribute name to its term values
	Attributes map[string][]string `json:"attributes,omitempty"`
}
