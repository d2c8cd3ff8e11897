package condition

import (
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"

	"go.uber.org/zap"
)

// Evaluator tests rule conditions against product attributes. It holds no
// state besides the logger and is safe for concurrent use.
type Evaluator struct {
	logger *zap.Logger
}

// NewEvaluator creates a new condition evaluator
func NewEvaluator(logger *zap.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Evaluate reports whether product satisfies spec. A nil spec places no restriction.
func (e *Evaluator) Evaluate(product *models.Product, spec Spec) bool {
	if spec == nil {
		return true
	}
	if product == nil {
		product = &models.Product{}
	}
	return spec.Matches(product)
}

// EvaluateRaw parses a stored condition payload and evaluates it. Malformed
// payloads evaluate to true (the tab is shown) and are logged as warnings;
// fields are attached to that warning to identify the rule.
func (e *Evaluator) EvaluateRaw(product *models.Product, raw []byte, fields ...zap.Field) bool {
	spec, err := Parse(raw)
	if err != nil {
		e.logger.Warn("Malformed rule condition, showing tab",
			append(fields, zap.ByteString("condition", raw), zap.Error(err))...,
		)
		return true
	}
	return e.Evaluate(product, spec)
}
