package condition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyPayloadsAreAll(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "{}", `{"type":""}`, `{"type":"all"}`} {
		spec, err := Parse([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, All{}, spec, raw)
	}
}

func TestParse_Variants(t *testing.T) {
	tests := []struct {
		raw  string
		want Spec
	}{
		{`{"type":"category","value":[12,"14"],"operator":"not_in"}`, Category{IDs: []int64{12, 14}, Operator: OpNotIn}},
		{`{"type":"category","value":[3]}`, Category{IDs: []int64{3}, Operator: OpIn}},
		{`{"type":"category","value":[9007199254740993]}`, Category{IDs: []int64{9007199254740993}, Operator: OpIn}},
		{`{"type":"product_tag","value":[1,2],"operator":"all"}`, Tags{IDs: []int64{1, 2}, Operator: OpAll}},
		{`{"type":"price_range","min_price":10,"max_price":50}`, PriceRange{Min: 10, Max: 50, Operator: OpBetween}},
		{`{"type":"price_range","min_price":10,"operator":"greater_than"}`, PriceRange{Min: 10, Operator: OpGreaterThan}},
		{`{"type":"price_range","max_price":5,"operator":"less_than"}`, PriceRange{Max: 5, Operator: OpLessThan}},
		{`{"type":"stock_status","value":"outofstock","operator":"not_equals"}`, StockStatus{Value: "outofstock", Operator: OpNotEquals}},
		{`{"type":"custom_field","key":" _material ","value":"cotton","operator":"contains"}`, CustomField{Key: "_material", Value: "cotton", Operator: OpContains}},
		{`{"type":"custom_field","key":"_weight","value":2.5,"operator":"greater_than"}`, CustomField{Key: "_weight", Value: "2.5", Operator: OpGreaterThan}},
		{`{"type":"custom_field","key":"_note","operator":"empty"}`, CustomField{Key: "_note", Operator: OpEmpty}},
		{`{"type":"product_type","value":["simple","variable"]}`, ProductType{Values: []string{"simple", "variable"}, Operator: OpIn}},
		{`{"type":"product_type","value":"simple","operator":"not_in"}`, ProductType{Values: []string{"simple"}, Operator: OpNotIn}},
		{`{"type":"featured","value":true}`, Featured{Expected: true}},
		{`{"type":"featured","value":"no"}`, Featured{Expected: false}},
		{`{"type":"featured"}`, Featured{Expected: true}},
		{`{"type":"sale","value":false}`, OnSale{Expected: false}},
		{`{"type":"SALE","value":"yes"}`, OnSale{Expected: true}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			spec, err := Parse([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec)
			assert.Equal(t, tt.want.Kind(), spec.Kind())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	payloads := []string{
		`{"type":`,
		`"category"`,
		`{"type":"weather","value":"sunny"}`,
		`{"type":"category","value":[1],"operator":"between"}`,
		`{"type":"category","value":["abc"]}`,
		`{"type":"category","value":[12.7]}`,
		`{"type":"category","value":[1e30]}`,
		`{"type":"category","value":[9223372036854775808]}`,
		`{"type":"category","value":["9223372036854775808"]}`,
		`{"type":"category","value":{"id":1}}`,
		`{"type":"price_range","min_price":10}`,
		`{"type":"price_range","operator":"less_than","min_price":10}`,
		`{"type":"stock_status","operator":"equals"}`,
		`{"type":"custom_field","value":"x"}`,
		`{"type":"custom_field","key":"k","value":{"nested":true}}`,
		`{"type":"featured","value":"maybe"}`,
	}

	for _, raw := range payloads {
		t.Run(raw, func(t *testing.T) {
			spec, err := Parse([]byte(raw))
			require.Error(t, err)
			assert.Nil(t, spec)
			assert.True(t, errors.Is(err, ErrMalformedCondition))
		})
	}
}
