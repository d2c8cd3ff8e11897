package condition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedCondition is returned by Parse for payloads it cannot turn into a Spec
var ErrMalformedCondition = errors.New("malformed condition")

// storedCondition is the JSON shape conditions are persisted in
type storedCondition struct {
	Type     string          `json:"type"`
	Operator string          `json:"operator"`
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	MinPrice *float64        `json:"min_price"`
	MaxPrice *float64        `json:"max_price"`
}

// Parse decodes a stored condition payload. Empty payloads ("", null, {}) and
// a missing type mean no restriction and parse to All.
func Parse(raw []byte) (Spec, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return All{}, nil
	}

	var sc storedCondition
	if err := json.Unmarshal(trimmed, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCondition, err)
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(sc.Type)))
	if kind == "" {
		return All{}, nil
	}

	op, err := parseOperator(kind, sc.Operator)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindAll:
		return All{}, nil

	case KindCategory, KindTags:
		ids, err := parseIDs(sc.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s value: %v", ErrMalformedCondition, kind, err)
		}
		if kind == KindCategory {
			return Category{IDs: ids, Operator: op}, nil
		}
		return Tags{IDs: ids, Operator: op}, nil

	case KindPriceRange:
		return parsePriceRange(sc, op)

	case KindStockStatus:
		value, err := parseString(sc.Value)
		if err != nil || value == "" {
			return nil, fmt.Errorf("%w: stock_status requires a value", ErrMalformedCondition)
		}
		return StockStatus{Value: value, Operator: op}, nil

	case KindCustomField:
		if strings.TrimSpace(sc.Key) == "" {
			return nil, fmt.Errorf("%w: custom_field requires a key", ErrMalformedCondition)
		}
		value, err := parseString(sc.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: custom_field value: %v", ErrMalformedCondition, err)
		}
		return CustomField{Key: strings.TrimSpace(sc.Key), Value: value, Operator: op}, nil

	case KindProductType:
		values, err := parseStrings(sc.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: product_type value: %v", ErrMalformedCondition, err)
		}
		return ProductType{Values: values, Operator: op}, nil

	case KindFeatured, KindOnSale:
		expected, err := parseBool(sc.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s value: %v", ErrMalformedCondition, kind, err)
		}
		if kind == KindFeatured {
			return Featured{Expected: expected}, nil
		}
		return OnSale{Expected: expected}, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedCondition, sc.Type)
}

func parseOperator(kind Kind, raw string) (Operator, error) {
	allowed, ok := kindOperators[kind]
	if !ok {
		// kinds without operators
		return "", nil
	}
	if raw == "" {
		return allowed[0], nil
	}
	op := Operator(strings.ToLower(strings.TrimSpace(raw)))
	for _, a := range allowed {
		if a == op {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: operator %q not valid for %s", ErrMalformedCondition, raw, kind)
}

func parsePriceRange(sc storedCondition, op Operator) (Spec, error) {
	pr := PriceRange{Operator: op}
	switch op {
	case OpBetween:
		if sc.MinPrice == nil || sc.MaxPrice == nil {
			return nil, fmt.Errorf("%w: between requires min_price and max_price", ErrMalformedCondition)
		}
		pr.Min, pr.Max = *sc.MinPrice, *sc.MaxPrice
	case OpLessThan:
		if sc.MaxPrice == nil {
			return nil, fmt.Errorf("%w: less_than requires max_price", ErrMalformedCondition)
		}
		pr.Max = *sc.MaxPrice
	default:
		if sc.MinPrice == nil {
			return nil, fmt.Errorf("%w: %s requires min_price", ErrMalformedCondition, op)
		}
		pr.Min = *sc.MinPrice
	}
	return pr, nil
}

// parseIDs accepts a JSON list of integers or integer strings. A missing value is an empty list.
func parseIDs(raw json.RawMessage) ([]int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var items []any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case json.Number:
			// plain integers within int64 only
			id, err := strconv.ParseInt(v.String(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid id %s", v)
			}
			ids = append(ids, id)
		case string:
			id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q", v)
			}
			ids = append(ids, id)
		default:
			return nil, fmt.Errorf("invalid id %v", v)
		}
	}
	return ids, nil
}

func parseStrings(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		// a single string is accepted as a one element list
		single, serr := parseString(raw)
		if serr != nil {
			return nil, err
		}
		return []string{single}, nil
	}
	return values, nil
}

// parseString accepts a JSON string, number or bool and returns its text form.
func parseString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch val := v.(type) {
	case string, float64, bool:
		return scalarString(val), nil
	}
	return "", fmt.Errorf("expected a scalar, got %s", string(raw))
}

// parseBool defaults to true when the value is absent, and accepts the usual
// string spellings ("yes", "1", "true").
func parseBool(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return true, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, err
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case float64:
		return val != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "yes", "true", "1", "on":
			return true, nil
		case "no", "false", "0", "off", "":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected a boolean, got %s", string(raw))
}
