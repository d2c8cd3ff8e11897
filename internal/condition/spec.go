package condition

import (
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"
)

// Kind is the stored "type" of a condition
type Kind string

const (
	KindAll         Kind = "all"
	KindCategory    Kind = "category"
	KindPriceRange  Kind = "price_range"
	KindStockStatus Kind = "stock_status"
	KindCustomField Kind = "custom_field"
	KindProductType Kind = "product_type"
	KindTags        Kind = "product_tag"
	KindFeatured    Kind = "featured"
	KindOnSale      Kind = "sale"
)

// Operator compares a product attribute with the condition's value
type Operator string

const (
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpAll         Operator = "all"
	OpBetween     Operator = "between"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpEmpty       Operator = "empty"
	OpNotEmpty    Operator = "not_empty"
)

// Spec is a parsed condition. The set of implementations is closed: every
// variant lives in this package and carries its own predicate, so a new kind
// cannot be added without writing its Matches.
type Spec interface {
	Kind() Kind
	Matches(p *models.Product) bool
	sealed()
}

// All places no restriction on the product.
type All struct{}

// Category matches on the product's category ids.
type Category struct {
	IDs      []int64
	Operator Operator // in, not_in, all
}

// PriceRange matches on the product's current price. between uses both
// bounds inclusively; greater_than compares with Min, less_than with Max,
// equals and not_equals with Min.
type PriceRange struct {
	Min      float64
	Max      float64
	Operator Operator
}

// StockStatus matches on the product's stock status.
type StockStatus struct {
	Value    string
	Operator Operator // equals, not_equals
}

// CustomField matches on one product meta value.
type CustomField struct {
	Key      string
	Value    string
	Operator Operator
}

// ProductType matches on the product type (simple, variable, ...).
type ProductType struct {
	Values   []string
	Operator Operator // in, not_in
}

// Tags matches on the product's tag ids.
type Tags struct {
	IDs      []int64
	Operator Operator // in, not_in, all
}

// Featured matches when the product's featured flag equals Expected.
type Featured struct {
	Expected bool
}

// OnSale matches when the product's on-sale flag equals Expected.
type OnSale struct {
	Expected bool
}

func (All) Kind() Kind         { return KindAll }
func (Category) Kind() Kind    { return KindCategory }
func (PriceRange) Kind() Kind  { return KindPriceRange }
func (StockStatus) Kind() Kind { return KindStockStatus }
func (CustomField) Kind() Kind { return KindCustomField }
func (ProductType) Kind() Kind { return KindProductType }
func (Tags) Kind() Kind        { return KindTags }
func (Featured) Kind() Kind    { return KindFeatured }
func (OnSale) Kind() Kind      { return KindOnSale }

func (All) sealed()         {}
func (Category) sealed()    {}
func (PriceRange) sealed()  {}
func (StockStatus) sealed() {}
func (CustomField) sealed() {}
func (ProductType) sealed() {}
func (Tags) sealed()        {}
func (Featured) sealed()    {}
func (OnSale) sealed()      {}

// operators each kind accepts; the first entry is the default when the stored
// payload omits one
var kindOperators = map[Kind][]Operator{
	KindCategory:    {OpIn, OpNotIn, OpAll},
	KindPriceRange:  {OpBetween, OpGreaterThan, OpLessThan, OpEquals, OpNotEquals},
	KindStockStatus: {OpEquals, OpNotEquals},
	KindCustomField: {OpEquals, OpNotEquals, OpContains, OpNotContains, OpEmpty, OpNotEmpty, OpGreaterThan, OpLessThan},
	KindProductType: {OpIn, OpNotIn},
	KindTags:        {OpIn, OpNotIn, OpAll},
}
