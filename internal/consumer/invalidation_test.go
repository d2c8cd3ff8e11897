package consumer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	rediscommon "github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testStream = "product-tabs:cache-events"

type countingInvalidator struct {
	calls int32
}

func (c *countingInvalidator) InvalidateLocal() {
	atomic.AddInt32(&c.calls, 1)
}

func (c *countingInvalidator) count() int {
	return int(atomic.LoadInt32(&c.calls))
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { redisClient.Close() })
	return mr, redisClient
}

func setupConsumer(t *testing.T, client *redis.Client, instanceID string) (*InvalidationConsumer, *countingInvalidator) {
	target := &countingInvalidator{}
	c := NewInvalidationConsumer(client, target, zap.NewNop(), testStream, "product-tabs-"+instanceID, instanceID)
	c.block = 50 * time.Millisecond
	require.NoError(t, rediscommon.CreateConsumerGroup(context.Background(), client, testStream, c.groupName))
	return c, target
}

func TestInvalidationPublisher_Publish(t *testing.T) {
	mr, client := setupTestRedis(t)
	publisher := NewInvalidationPublisher(client, testStream, "node-a", zap.NewNop())

	require.NoError(t, publisher.Publish(context.Background(), "rule saved"))

	entries, err := mr.Stream(testStream)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Values, "data")
}

func TestInvalidationConsumer_AppliesRemoteEvents(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	c, target := setupConsumer(t, client, "node-b")
	publisher := NewInvalidationPublisher(client, testStream, "node-a", zap.NewNop())

	require.NoError(t, publisher.Publish(ctx, "settings saved"))
	require.NoError(t, c.consumeEvents(ctx))

	assert.Equal(t, 1, target.count())

	pending, err := client.XPending(ctx, testStream, c.groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestInvalidationConsumer_IgnoresOwnEvents(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	c, target := setupConsumer(t, client, "node-a")
	publisher := NewInvalidationPublisher(client, testStream, "node-a", zap.NewNop())

	require.NoError(t, publisher.Publish(ctx, "rule deleted"))
	require.NoError(t, c.consumeEvents(ctx))

	assert.Equal(t, 0, target.count())
}

func TestInvalidationConsumer_AcksMalformedEvents(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	c, target := setupConsumer(t, client, "node-b")

	_, err := rediscommon.PublishToStream(ctx, client, testStream, map[string]interface{}{"data": "{not json"})
	require.NoError(t, err)
	_, err = rediscommon.PublishToStream(ctx, client, testStream, map[string]interface{}{"other": "x"})
	require.NoError(t, err)
	_, err = rediscommon.PublishJSONToStream(ctx, client, testStream, CacheEvent{EventType: "cache.warmed", Origin: "node-c"})
	require.NoError(t, err)

	require.NoError(t, c.consumeEvents(ctx))

	assert.Equal(t, 0, target.count())
	pending, err := client.XPending(ctx, testStream, c.groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestInvalidationConsumer_EveryInstanceSeesEveryEvent(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	b, targetB := setupConsumer(t, client, "node-b")
	c, targetC := setupConsumer(t, client, "node-c")
	publisher := NewInvalidationPublisher(client, testStream, "node-a", zap.NewNop())

	require.NoError(t, publisher.Publish(ctx, "rule saved"))
	require.NoError(t, b.consumeEvents(ctx))
	require.NoError(t, c.consumeEvents(ctx))

	assert.Equal(t, 1, targetB.count())
	assert.Equal(t, 1, targetC.count())
}

func TestInvalidationConsumer_StartStopsOnCancel(t *testing.T) {
	_, client := setupTestRedis(t)
	c, target := setupConsumer(t, client, "node-b")
	publisher := NewInvalidationPublisher(client, testStream, "node-a", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.NoError(t, publisher.Publish(context.Background(), "rule saved"))
	assert.Eventually(t, func() bool { return target.count() == 1 }, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
