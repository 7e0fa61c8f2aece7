package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

// fakeReader serves queued messages, then io.EOF
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	fetchErrs []error
	committed []int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		return kafka.Message{}, err
	}
	if len(f.queue) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &Producer{writer: w, now: func() time.Time { return at }}

	err := p.Publish(context.Background(), "42", map[string]any{"type": "OrderPlaced", "orderId": 42})

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))
	assert.Equal(t, at, w.msgs[0].Time)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "OrderPlaced", decoded["type"])
}

func TestProducer_Publish_Errors(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &Producer{writer: w, now: time.Now}

	assert.EqualError(t, p.Publish(context.Background(), "1", struct{}{}), "leader not available")
	assert.ErrorContains(t, p.Publish(context.Background(), "1", make(chan int)), "encode event")
}

func TestConsumer_CommitsAfterEachMessage(t *testing.T) {
	r := &fakeReader{
		queue: []kafka.Message{
			{Key: []byte("1"), Value: []byte("a"), Offset: 10},
			{Key: []byte("2"), Value: []byte("b"), Offset: 11},
			{Key: []byte("3"), Value: []byte("c"), Offset: 12},
		},
		fetchErrs: []error{errors.New("rebalance in progress")},
	}
	c := &Consumer{reader: r, log: zap.NewNop()}

	var seen []string
	err := c.Consume(context.Background(), func(_ context.Context, key, value []byte) error {
		seen = append(seen, string(key)+"="+string(value))
		if string(key) == "2" {
			return errors.New("smtp unavailable")
		}
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"1=a", "2=b", "3=c"}, seen)
	assert.Equal(t, []int64{10, 11, 12}, r.committed)
}

func TestConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeReader{fetchErrs: []error{context.Canceled}}
	c := &Consumer{reader: r, log: zap.NewNop()}

	err := c.Consume(ctx, func(context.Context, []byte, []byte) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsumer_BacksOffAfterFetchError(t *testing.T) {
	r := &fakeReader{fetchErrs: []error{errors.New("broker down"), errors.New("broker down")}}
	c := &Consumer{reader: r, log: zap.NewNop(), backoff: 25 * time.Millisecond}

	start := time.Now()
	err := c.Consume(context.Background(), func(context.Context, []byte, []byte) error { return nil })

	assert.ErrorIs(t, err, io.EOF)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestConsumer_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	r := &fakeReader{fetchErrs: []error{errors.New("broker down")}}
	c := &Consumer{reader: r, log: zap.NewNop(), backoff: time.Hour}

	err := c.Consume(ctx, func(context.Context, []byte, []byte) error { return nil })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
