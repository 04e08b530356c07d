package dlq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventflow/internal/models"
)

func TestEntry(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 10, 22, 10, 0, 0, 0, time.UTC)
	d := NewWithClient(nil, "dlq:test")
	d.now = func() time.Time { return at }

	entry := d.Entry(models.Rejection{
		Record: models.Record{Value: []byte(`{"eventId":"e1","eventType":"Nope"}`)},
		Err:    errors.New("unknown event type"),
	})

	assert.Equal(t, "e1", entry.EventID)
	assert.Equal(t, "unknown event type", entry.Error)
	assert.Equal(t, at, entry.Timestamp)
	assert.Zero(t, entry.RetryCount)

	var original map[string]any
	require.NoError(t, json.Unmarshal([]byte(entry.OriginalData), &original))
	assert.Equal(t, "unknown event type", original["dlq"].(map[string]any)["reason"])
}

func TestEntryKeepsNonJSON(t *testing.T) {
	t.Parallel()

	d := NewWithClient(nil, "dlq:test")
	entry := d.Entry(models.Rejection{
		Record: models.Record{Value: []byte(`garbage`)},
		Err:    errors.New("malformed record"),
	})

	assert.Empty(t, entry.EventID)
	assert.Equal(t, "garbage", entry.OriginalData)
	assert.NoError(t, d.Close())
}

type fakeRedis struct {
	redis.Cmdable
	list []string
	err  error
}

func (f *fakeRedis) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	for _, v := range values {
		f.list = append(f.list, string(v.([]byte)))
	}
	cmd.SetVal(int64(len(f.list)))
	return cmd
}

func (f *fakeRedis) LLen(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(f.list)))
	return cmd
}

func (f *fakeRedis) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx)
	cmd.SetVal(append([]string(nil), f.list...))
	return cmd
}

func TestPushAndRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeRedis{}
	d := NewWithClient(client, "dlq:test")

	for _, id := range []string{"a", "b"} {
		require.NoError(t, d.Push(ctx, models.Rejection{
			Record: models.Record{Value: []byte(`{"eventId":"` + id + `"}`)},
			Err:    models.ErrMalformed,
		}))
	}
	client.list = append(client.list, "not an entry")

	count, err := d.GetCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	entries, err := d.GetEntries(ctx, 0, -1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].EventID)
	assert.Equal(t, "b", entries[1].EventID)
	assert.Equal(t, models.ErrMalformed.Error(), entries[0].Error)
}

func TestPushFailure(t *testing.T) {
	t.Parallel()

	d := NewWithClient(&fakeRedis{err: errors.New("connection refused")}, "dlq:test")
	err := d.Push(context.Background(), models.Rejection{
		Record: models.Record{Value: []byte(`{}`)},
		Err:    models.ErrMalformed,
	})
	assert.ErrorContains(t, err, "connection refused")
}
