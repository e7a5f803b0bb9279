package notify_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

type memSink struct {
	mu   sync.Mutex
	got  []event.Notification
	err  error
	gate chan struct{}
}

func (s *memSink) Name() string { return "mem" }

func (s *memSink) Deliver(_ context.Context, n event.Notification) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.err
}

func (s *memSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func TestDispatcher_DeliversToAllSinks(t *testing.T) {
	failing := &memSink{err: errors.New("caído")}
	ok := &memSink{}
	d := notify.NewDispatcher(logger.Nop(), 8, failing, ok)

	require.NoError(t, d.Publish(context.Background(), event.Notification{Type: event.TypeSaleCompleted}))
	require.NoError(t, d.Publish(context.Background(), event.Notification{Type: event.TypeStockLow}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.Equal(t, 2, failing.count())
	assert.Equal(t, 2, ok.count())
	assert.False(t, ok.got[0].OccurredAt.IsZero())
}

func TestDispatcher_QueueFullDoesNotBlock(t *testing.T) {
	gate := make(chan struct{})
	sink := &memSink{gate: gate}
	d := notify.NewDispatcher(logger.Nop(), 1, sink)

	// El worker toma la primera y queda bloqueado; la segunda llena la cola
	require.NoError(t, d.Publish(context.Background(), event.Notification{Type: "a"}))
	assert.Eventually(t, func() bool {
		return d.Publish(context.Background(), event.Notification{Type: "b"}) == nil
	}, time.Second, 5*time.Millisecond)

	err := d.Publish(context.Background(), event.Notification{Type: "c"})
	assert.ErrorIs(t, err, notify.ErrQueueFull)

	close(gate)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.Equal(t, 2, sink.count())
}

func TestDispatcher_PublishAfterClose(t *testing.T) {
	d := notify.NewDispatcher(logger.Nop(), 1)
	require.NoError(t, d.Close(context.Background()))
	assert.ErrorIs(t, d.Publish(context.Background(), event.Notification{Type: "x"}), notify.ErrClosed)
	// Cerrar dos veces no entra en pánico
	require.NoError(t, d.Close(context.Background()))
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	s := notify.NewLogSink(logger.FromZerolog(zerolog.New(&buf)))
	require.NoError(t, s.Deliver(context.Background(), event.Notification{Type: event.TypeStockLow, Payload: event.StockLow{ProductID: "P1"}}))
	assert.Contains(t, buf.String(), `"type":"stock.low"`)
	assert.Contains(t, buf.String(), `"product_id":"P1"`)
}
