// Package publisher announces newly written snapshots on a Redis stream.
package publisher

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// SnapshotStream is the stream every pipeline stage publishes to.
const SnapshotStream = "acb.snapshots"

// SnapshotEvent announces one written snapshot file.
type SnapshotEvent struct {
	RunID      string `json:"run_id"`
	Dataset    string `json:"dataset"`
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportDate string `json:"export_date"`
}

// Publisher announces snapshots.
type Publisher interface {
	PublishSnapshot(ctx context.Context, ev SnapshotEvent) error
}

// Nop discards every event. It is used when Redis is not configured.
type Nop struct{}

func (Nop) PublishSnapshot(context.Context, SnapshotEvent) error { return nil }

// RedisStreamPublisher appends events to a Redis stream.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	now    func() time.Time
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: SnapshotStream,
		now:    time.Now,
	}
}

// PublishSnapshot XADDs the event to the snapshot stream.
func (p *RedisStreamPublisher) PublishSnapshot(ctx context.Context, ev SnapshotEvent) error {
	values, err := encode(ev, p.now())
	if err != nil {
		return err
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err()
	return errors.Wrapf(err, "xadd %s", p.stream)
}

func encode(ev SnapshotEvent, at time.Time) (map[string]interface{}, error) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		return nil, errors.Wrap(err, "encode snapshot event")
	}
	return map[string]interface{}{
		"data":      string(data),
		"timestamp": at.Unix(),
	}, nil
}

// Decode reads an event back from a stream message.
func Decode(msg redis.XMessage) (SnapshotEvent, error) {
	var ev SnapshotEvent
	raw, ok := msg.Values["data"].(string)
	if !ok {
		return ev, errors.Newf("message %s has no data field", msg.ID)
	}
	if err := sonic.UnmarshalString(raw, &ev); err != nil {
		return ev, errors.Wrapf(err, "decode message %s", msg.ID)
	}
	return ev, nil
}

// Timestamp returns the publish time recorded in a stream message.
func Timestamp(msg redis.XMessage) (time.Time, bool) {
	var secs int64
	switch v := msg.Values["timestamp"].(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		secs = n
	case int64:
		secs = v
	default:
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}
