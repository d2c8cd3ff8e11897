package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"
)

// Matches always returns true.
func (All) Matches(*models.Product) bool { return true }

func (c Category) Matches(p *models.Product) bool {
	return matchIDs(c.IDs, p.CategoryIDs, c.Operator)
}

func (c Tags) Matches(p *models.Product) bool {
	return matchIDs(c.IDs, p.TagIDs, c.Operator)
}

func (c PriceRange) Matches(p *models.Product) bool {
	price := p.Price
	switch c.Operator {
	case OpBetween:
		return price >= c.Min && price <= c.Max
	case OpGreaterThan:
		return price > c.Min
	case OpLessThan:
		return price < c.Max
	case OpEquals:
		return price == c.Min
	case OpNotEquals:
		return price != c.Min
	}
	return true
}

func (c StockStatus) Matches(p *models.Product) bool {
	equal := strings.EqualFold(p.StockStatus, c.Value)
	if c.Operator == OpNotEquals {
		return !equal
	}
	return equal
}

func (c ProductType) Matches(p *models.Product) bool {
	if len(c.Values) == 0 {
		return true
	}
	found := false
	for _, v := range c.Values {
		if strings.EqualFold(v, p.Type) {
			found = true
			break
		}
	}
	if c.Operator == OpNotIn {
		return !found
	}
	return found
}

func (c Featured) Matches(p *models.Product) bool {
	return p.Featured == c.Expected
}

func (c OnSale) Matches(p *models.Product) bool {
	return p.OnSale == c.Expected
}

// Matches compares the stored meta value with c.Value. List values apply the
// operator to each element: positive operators succeed on the first matching
// element, negated operators fail on the first violating one.
func (c CustomField) Matches(p *models.Product) bool {
	target := p.CustomFields[c.Key]
	if list, isList := asList(target); isList {
		return c.matchList(list)
	}
	return c.matchScalar(scalarString(target))
}

func (c CustomField) matchList(list []string) bool {
	switch c.Operator {
	case OpEmpty, OpNotEmpty:
		hasValue := false
		for _, v := range list {
			if v != "" {
				hasValue = true
				break
			}
		}
		if c.Operator == OpEmpty {
			return !hasValue
		}
		return hasValue
	case OpNotEquals, OpNotContains:
		for _, v := range list {
			if !c.matchScalar(v) {
				return false
			}
		}
		return true
	default:
		for _, v := range list {
			if c.matchScalar(v) {
				return true
			}
		}
		return false
	}
}

func (c CustomField) matchScalar(target string) bool {
	switch c.Operator {
	case OpEquals:
		return valuesEqual(target, c.Value)
	case OpNotEquals:
		return !valuesEqual(target, c.Value)
	case OpContains:
		return strings.Contains(target, c.Value)
	case OpNotContains:
		return !strings.Contains(target, c.Value)
	case OpEmpty:
		return target == ""
	case OpNotEmpty:
		return target != ""
	case OpGreaterThan, OpLessThan:
		left, err1 := parseFloat(target)
		right, err2 := parseFloat(c.Value)
		if err1 != nil || err2 != nil {
			return false
		}
		if c.Operator == OpGreaterThan {
			return left > right
		}
		return left < right
	}
	return true
}

// matchIDs implements in / not_in / all over id sets. An empty requirement
// never restricts.
func matchIDs(required, actual []int64, op Operator) bool {
	if len(required) == 0 {
		return true
	}

	have := make(map[int64]struct{}, len(actual))
	for _, id := range actual {
		have[id] = struct{}{}
	}

	switch op {
	case OpAll:
		for _, id := range required {
			if _, ok := have[id]; !ok {
				return false
			}
		}
		return true
	case OpNotIn:
		for _, id := range required {
			if _, ok := have[id]; ok {
				return false
			}
		}
		return true
	default:
		for _, id := range required {
			if _, ok := have[id]; ok {
				return true
			}
		}
		return false
	}
}

// valuesEqual compares numerically when both sides are numbers ("10" == "10.0"),
// otherwise as strings.
func valuesEqual(a, b string) bool {
	if a == b {
		return true
	}
	fa, err1 := parseFloat(a)
	fb, err2 := parseFloat(b)
	return err1 == nil && err2 == nil && fa == fb
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func asList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, scalarString(item))
		}
		return out, true
	}
	return nil, false
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
