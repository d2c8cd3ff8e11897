package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	rediscommon "github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/redis"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// EventCacheInvalidated is published after rules or tab settings change
const EventCacheInvalidated = "cache.invalidated"

// CacheEvent is the payload carried in the stream's "data" field
type CacheEvent struct {
	EventType string `json:"event_type"`
	Origin    string `json:"origin"`
	Reason    string `json:"reason,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// LocalInvalidator drops an instance's in-process snapshots
type LocalInvalidator interface {
	InvalidateLocal()
}

// InvalidationPublisher announces cache invalidations to other instances
type InvalidationPublisher struct {
	redisClient *redis.Client
	stream      string
	instanceID  string
	logger      *zap.Logger
}

// NewInvalidationPublisher creates a new invalidation publisher
func NewInvalidationPublisher(redisClient *redis.Client, stream, instanceID string, logger *zap.Logger) *InvalidationPublisher {
	return &InvalidationPublisher{
		redisClient: redisClient,
		stream:      stream,
		instanceID:  instanceID,
		logger:      logger,
	}
}

// Publish appends a cache.invalidated event to the stream
func (p *InvalidationPublisher) Publish(ctx context.Context, reason string) error {
	event := CacheEvent{
		EventType: EventCacheInvalidated,
		Origin:    p.instanceID,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}

	id, err := rediscommon.PublishJSONToStream(ctx, p.redisClient, p.stream, event)
	if err != nil {
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}

	p.logger.Info("Published cache invalidation",
		zap.String("stream", p.stream),
		zap.String("message_id", id),
		zap.String("reason", reason),
	)
	return nil
}

// InvalidationConsumer applies invalidations published by other instances
type InvalidationConsumer struct {
	redisClient  *redis.Client
	target       LocalInvalidator
	logger       *zap.Logger
	stream       string
	groupName    string
	consumerName string
	batchSize    int64
	block        time.Duration
}

// NewInvalidationConsumer creates a new invalidation consumer. Each instance
// must use its own group so that every instance sees every event.
func NewInvalidationConsumer(
	redisClient *redis.Client,
	target LocalInvalidator,
	logger *zap.Logger,
	stream string,
	groupName string,
	consumerName string,
) *InvalidationConsumer {
	return &InvalidationConsumer{
		redisClient:  redisClient,
		target:       target,
		logger:       logger,
		stream:       stream,
		groupName:    groupName,
		consumerName: consumerName,
		batchSize:    10,
		block:        5 * time.Second,
	}
}

// Start blocks consuming events until ctx is cancelled
func (c *InvalidationConsumer) Start(ctx context.Context) error {
	if err := rediscommon.CreateConsumerGroup(ctx, c.redisClient, c.stream, c.groupName); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.logger.Info("Invalidation consumer started",
		zap.String("stream", c.stream),
		zap.String("consumer_group", c.groupName),
		zap.String("consumer_name", c.consumerName),
	)

	backoffDuration := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := c.consumeEvents(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to consume cache events",
				zap.Error(err),
				zap.Duration("backoff", backoffDuration),
			)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoffDuration):
				backoffDuration *= 2
				if backoffDuration > maxBackoff {
					backoffDuration = maxBackoff
				}
			}
			continue
		}
		backoffDuration = time.Second
	}
}

func (c *InvalidationConsumer) consumeEvents(ctx context.Context) error {
	messages, err := rediscommon.ReadFromStream(
		ctx,
		c.redisClient,
		c.stream,
		c.groupName,
		c.consumerName,
		c.batchSize,
		c.block,
	)
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, msg := range messages {
		if err := c.processEvent(msg); err != nil {
			// malformed events are acked anyway; redelivery cannot fix them
			c.logger.Warn("Skipping cache event",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
		if err := rediscommon.Ack(ctx, c.redisClient, c.stream, c.groupName, msg.ID); err != nil {
			c.logger.Warn("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (c *InvalidationConsumer) processEvent(msg rediscommon.StreamMessage) error {
	event, err := parseEvent(msg)
	if err != nil {
		return err
	}

	if event.Origin == c.consumerName {
		// already applied locally by the publisher
		return nil
	}

	switch event.EventType {
	case EventCacheInvalidated:
		c.target.InvalidateLocal()
		c.logger.Info("Applied remote cache invalidation",
			zap.String("origin", event.Origin),
			zap.String("reason", event.Reason),
		)
	default:
		c.logger.Debug("Ignoring cache event", zap.String("event_type", event.EventType))
	}
	return nil
}

func parseEvent(msg rediscommon.StreamMessage) (*CacheEvent, error) {
	data, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing data field")
	}

	var event CacheEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}
