package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// RedisSink publica cada notificación como JSON en un canal Pub/Sub de Redis.
type RedisSink struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisSink usa un cliente existente; el llamador conserva su ownership.
func NewRedisSink(client redis.UniversalClient, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, n event.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", s.channel, err)
	}
	return nil
}

// LogSink escribe cada notificación en el log. Se usa cuando Redis no está configurado.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink crea el sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, n event.Notification) error {
	s.log.Info().Str("type", n.Type).Time("occurred_at", n.OccurredAt).Interface("payload", n.Payload).Msg("notificación")
	return nil
}
