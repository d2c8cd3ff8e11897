package analytics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type viewEvent struct {
	tabID     string
	productID int64
}

// Recorder queues tab views and writes them to a sink in the background.
// RecordView never blocks and never returns an error; a full queue drops the
// view with a warning.
type Recorder struct {
	sink    Sink
	logger  *zap.Logger
	timeout time.Duration
	queue   chan viewEvent

	closeOnce sync.Once
	done      chan struct{}
	started   atomic.Bool
	stopped   chan struct{}
}

// NewRecorder creates a recorder with a queue of queueSize views
func NewRecorder(sink Sink, logger *zap.Logger, timeout time.Duration, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Recorder{
		sink:    sink,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan viewEvent, queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// RecordView enqueues one view. ctx is only checked for cancellation.
func (r *Recorder) RecordView(ctx context.Context, tabID string, productID int64) {
	if tabID == "" || ctx.Err() != nil {
		return
	}

	select {
	case r.queue <- viewEvent{tabID: tabID, productID: productID}:
	case <-r.done:
	default:
		r.logger.Warn("Analytics queue full, dropping tab view",
			zap.String("tab_id", tabID),
			zap.Int64("product_id", productID),
		)
	}
}

// Start runs the recorder in a new goroutine. Close waits for it.
func (r *Recorder) Start(ctx context.Context) {
	r.started.Store(true)
	go r.Run(ctx)
}

// Run writes queued views until ctx is cancelled or Close is called, then
// writes whatever is still queued. Call it at most once.
func (r *Recorder) Run(ctx context.Context) {
	r.started.Store(true)
	defer close(r.stopped)

	for {
		select {
		case <-ctx.Done():
			r.drain()
			return
		case <-r.done:
			r.drain()
			return
		case ev := <-r.queue:
			r.write(ev)
		}
	}
}

// Close stops the recorder and, if it was started, returns once the queued
// views are written
func (r *Recorder) Close() {
	r.closeOnce.Do(func() { close(r.done) })
	if r.started.Load() {
		<-r.stopped
	}
}

func (r *Recorder) drain() {
	for {
		select {
		case ev := <-r.queue:
			r.write(ev)
		default:
			return
		}
	}
}

func (r *Recorder) write(ev viewEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.sink.RecordView(ctx, ev.tabID, ev.productID); err != nil {
		r.logger.Warn("Failed to record tab view",
			zap.String("tab_id", ev.tabID),
			zap.Int64("product_id", ev.productID),
			zap.Error(err),
		)
	}
}
