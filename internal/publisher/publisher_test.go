package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	ev := SnapshotEvent{
		RunID:      "8d7f3c1e-4b5a-4c1d-9e0f-123456789abc",
		Dataset:    "unified_american_players",
		Path:       "output/json/unified_american_players_20251101_093000.json",
		Count:      12,
		ExportDate: "2025-11-01T09:30:00.000000",
	}
	at := time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC)

	values, err := encode(ev, at)
	require.NoError(t, err)
	assert.Equal(t, at.Unix(), values["timestamp"])

	// Redis hands field values back as strings.
	msg := redis.XMessage{ID: "1-0", Values: map[string]interface{}{
		"data":      values["data"],
		"timestamp": "1761989400",
	}}
	got, err := Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	ts, ok := Timestamp(msg)
	require.True(t, ok)
	assert.True(t, ts.Equal(at))
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, err := Decode(redis.XMessage{ID: "1-0", Values: map[string]interface{}{}})
	assert.Error(t, err)

	_, err = Decode(redis.XMessage{ID: "2-0", Values: map[string]interface{}{"data": "{not json"}})
	assert.Error(t, err)

	_, ok := Timestamp(redis.XMessage{Values: map[string]interface{}{"timestamp": "soon"}})
	assert.False(t, ok)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishSnapshot(context.Background(), SnapshotEvent{}))
}
