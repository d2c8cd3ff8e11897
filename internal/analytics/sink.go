package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Sink persists one tab view
type Sink interface {
	RecordView(ctx context.Context, tabID string, productID int64) error
}

// ViewCounter is the storage side of the postgres sink
type ViewCounter interface {
	IncrementView(ctx context.Context, tabID string, productID int64) error
}

// PostgresSink counts views in product_tab_views
type PostgresSink struct {
	counter ViewCounter
}

// NewPostgresSink creates a sink backed by counter
func NewPostgresSink(counter ViewCounter) *PostgresSink {
	return &PostgresSink{counter: counter}
}

func (s *PostgresSink) RecordView(ctx context.Context, tabID string, productID int64) error {
	return s.counter.IncrementView(ctx, tabID, productID)
}

// ViewEvent is the body posted by HTTPSink
type ViewEvent struct {
	TabID     string `json:"tab_id"`
	ProductID int64  `json:"product_id"`
	ViewedAt  int64  `json:"viewed_at"`
}

// HTTPSink forwards views to an external collector
type HTTPSink struct {
	httpClient *resty.Client
	endpoint   string
}

// NewHTTPSink creates a sink posting to endpoint
func NewHTTPSink(endpoint string, timeout time.Duration) *HTTPSink {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HTTPSink{httpClient: client, endpoint: endpoint}
}

func (s *HTTPSink) RecordView(ctx context.Context, tabID string, productID int64) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(ViewEvent{
			TabID:     tabID,
			ProductID: productID,
			ViewedAt:  time.Now().Unix(),
		}).
		Post(s.endpoint)
	if err != nil {
		return fmt.Errorf("failed to post tab view: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("collector returned status %d", resp.StatusCode())
	}
	return nil
}

// NopSink discards views
type NopSink struct{}

func (NopSink) RecordView(context.Context, string, int64) error { return nil }
