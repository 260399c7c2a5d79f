package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher publishes events over Redis pub/sub.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(redisAddr string, logger *zap.Logger) *RedisPublisher {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return NewRedisPublisherWithClient(rdb, logger)
}

func NewRedisPublisherWithClient(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{rdb: rdb, channel: ChannelInterviewCompleted, logger: logger}
}

// Ping checks the connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *RedisPublisher) Publish(ctx context.Context, ev InterviewCompleted) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", p.channel, err)
	}
	receivers, err := p.rdb.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", p.channel, err)
	}
	p.logger.Info("Published interview completed event",
		zap.String("interview_id", ev.InterviewID),
		zap.String("end_reason", ev.EndReason),
		zap.Int64("receivers", receivers))
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// Subscribe calls handle for every event on the channel until ctx is done.
// Malformed payloads are logged and skipped.
func Subscribe(ctx context.Context, rdb *redis.Client, logger *zap.Logger, handle func(InterviewCompleted)) error {
	subscriber := rdb.Subscribe(ctx, ChannelInterviewCompleted)
	defer subscriber.Close()

	// wait for the subscription to be confirmed
	if _, err := subscriber.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", ChannelInterviewCompleted, err)
	}
	ch := subscriber.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev InterviewCompleted
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("Failed to parse interview completed event", zap.Error(err))
				continue
			}
			handle(ev)
		}
	}
}
