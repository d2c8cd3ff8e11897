// Package placeholder expands {token} placeholders in tab titles and content.
//
// Static tokens:
//
//	{product_name} {product_sku} {product_price} {product_regular_price}
//	{product_sale_price} {product_short_description} {product_weight}
//	{product_dimensions} {product_stock_status} {product_type} {product_categories}
//
// Dynamic tokens:
//
//	{custom_field_<meta key>}  value of the product meta field
//	{attribute_<name>}         comma separated attribute terms
//
// Unknown tokens are left in place.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	customFieldPrefix = "custom_field_"
	attributePrefix   = "attribute_"
)

var tokenPattern = regexp.MustCompile(`\{([A-Za-z0-9_\-]+)\}`)

// Expander substitutes product values into templates. Prices are formatted
// for its locale.
type Expander struct {
	printer *message.Printer
}

// NewExpander creates an expander for a BCP 47 locale, falling back to English
func NewExpander(locale string) *Expander {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Expander{printer: message.NewPrinter(tag)}
}

// Expand replaces every known token in tmpl with the product's value
func (x *Expander) Expand(tmpl string, p *models.Product) string {
	if p == nil || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	return tokenPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		token := match[1 : len(match)-1]
		if value, ok := x.resolve(token, p); ok {
			return value
		}
		return match
	})
}

func (x *Expander) resolve(token string, p *models.Product) (string, bool) {
	switch token {
	case "product_name":
		return p.Name, true
	case "product_sku":
		return p.SKU, true
	case "product_price":
		return x.formatPrice(p.Price), true
	case "product_regular_price":
		return x.formatPrice(p.RegularPrice), true
	case "product_sale_price":
		if p.SalePrice == nil {
			return "", true
		}
		return x.formatPrice(*p.SalePrice), true
	case "product_short_description":
		return p.ShortDescription, true
	case "product_weight":
		return p.Weight, true
	case "product_dimensions":
		return p.Dimensions, true
	case "product_stock_status":
		return p.StockStatus, true
	case "product_type":
		return p.Type, true
	case "product_categories":
		return strings.Join(p.CategoryNames, ", "), true
	}

	if key, ok := strings.CutPrefix(token, customFieldPrefix); ok && key != "" {
		return fieldString(p.CustomFields[key]), true
	}
	if name, ok := strings.CutPrefix(token, attributePrefix); ok && name != "" {
		return strings.Join(p.Attributes[name], ", "), true
	}
	return "", false
}

func (x *Expander) formatPrice(v float64) string {
	return x.printer.Sprintf("%.2f", v)
}

func fieldString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fieldString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
