package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// ErrQueueFull la cola está llena; la notificación se descarta.
var ErrQueueFull = errors.New("notify: cola llena")

// ErrClosed el despachador ya fue cerrado.
var ErrClosed = errors.New("notify: despachador cerrado")

const deliverTimeout = 5 * time.Second

// Sink destino final de una notificación.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n event.Notification) error
}

// Dispatcher implementa event.Publisher con una cola en memoria y un worker.
// Publish nunca bloquea al llamador: si la cola está llena devuelve ErrQueueFull.
// Un sink que falla se registra y no afecta a los demás.
type Dispatcher struct {
	queue  chan event.Notification
	sinks  []Sink
	log    *logger.Logger
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher crea el despachador y arranca su worker.
func NewDispatcher(log *logger.Logger, buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	d := &Dispatcher{
		queue: make(chan event.Notification, buffer),
		sinks: sinks,
		log:   log.Component("notify"),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish encola n.
func (d *Dispatcher) Publish(_ context.Context, n event.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	}
	select {
	case d.queue <- n:
		return nil
	default:
		d.log.Warn().Str("type", n.Type).Msg("cola de notificaciones llena, se descarta")
		return ErrQueueFull
	}
}

// Close deja de aceptar notificaciones y espera a que se entreguen las encoladas
// o a que ctx expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
			if err := s.Deliver(ctx, n); err != nil {
				d.log.Error().Err(err).Str("sink", s.Name()).Str("type", n.Type).Msg("entrega de notificación fallida")
			}
			cancel()
		}
	}
}

var _ event.Publisher = (*Dispatcher)(nil)
