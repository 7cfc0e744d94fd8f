package publisher

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
)

// Subscriber tails the snapshot stream.
type Subscriber struct {
	client *redis.Client
	stream string
	block  time.Duration
	logger *zap.Logger
}

// NewSubscriber creates a Subscriber that waits up to block for each read.
func NewSubscriber(client *redis.Client, block time.Duration, logger *zap.Logger) *Subscriber {
	if block <= 0 {
		block = 5 * time.Second
	}
	return &Subscriber{
		client: client,
		stream: SnapshotStream,
		block:  block,
		logger: logging.OrNop(logger).Named("subscriber"),
	}
}

// Run delivers every event published after the call to handle until ctx is
// cancelled. Malformed messages are logged and skipped.
func (s *Subscriber) Run(ctx context.Context, handle func(SnapshotEvent)) error {
	lastID := "$"
	for {
		streams, err := s.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{s.stream, lastID},
			Count:   10,
			Block:   s.block,
		}).Result()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			s.logger.Warn("stream read failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				ev, err := Decode(msg)
				if err != nil {
					s.logger.Warn("skipping malformed event", zap.Error(err))
					continue
				}
				handle(ev)
			}
		}
	}
}
