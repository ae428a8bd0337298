package progress

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/models"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("progress reducer closed")

const defaultQueueSize = 64

// Observer receives every replaced snapshot, in order, from the drain
// goroutine.
type Observer func(models.SyncProgress)

// SleepFunc pauses the drain loop. It must return early with ctx's error
// when ctx ends.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a [Reducer].
type Options struct {
	// PacingDelay is waited before an account_started event that switches
	// away from the account currently shown. Zero disables pacing.
	PacingDelay time.Duration
	// QueueSize bounds the FIFO queue; Enqueue blocks while it is full.
	QueueSize int
	// Sleep replaces the real timer, for tests.
	Sleep SleepFunc
}

// Reducer serialises snapshot updates. Events are queued by Enqueue and
// applied one at a time, in arrival order, by a single drain goroutine
// started with Start.
type Reducer struct {
	queue    chan models.SyncEvent
	pacing   time.Duration
	sleep    SleepFunc
	observer Observer

	mu       sync.RWMutex
	snapshot models.SyncProgress

	// inMu guards the input side; it is separate from mu so that a blocked
	// Enqueue never stalls the drain goroutine.
	inMu    sync.RWMutex
	closed  bool
	started bool

	stopped  chan struct{}
	drainErr error

	logger *logger.Logger
}

// NewReducer returns an idle reducer. observer may be nil.
func NewReducer(opts Options, observer Observer, log *logger.Logger) *Reducer {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Reducer{
		queue:    make(chan models.SyncEvent, opts.QueueSize),
		pacing:   opts.PacingDelay,
		sleep:    opts.Sleep,
		observer: observer,
		stopped:  make(chan struct{}),
		logger:   log,
	}
}

// Start launches the drain goroutine. It stops once the queue is closed and
// empty, or when ctx ends; queued events are then discarded.
func (r *Reducer) Start(ctx context.Context) {
	r.inMu.Lock()
	if r.started {
		r.inMu.Unlock()
		return
	}
	r.started = true
	r.inMu.Unlock()

	go func() {
		defer close(r.stopped)
		r.drainErr = r.drain(ctx)
	}()
}

// Enqueue appends ev to the queue. It blocks while the queue is full and
// returns ErrClosed after Close, or ctx's error if ctx ends first.
func (r *Reducer) Enqueue(ctx context.Context, ev models.SyncEvent) error {
	r.inMu.RLock()
	defer r.inMu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	select {
	case <-r.stopped:
		return ErrClosed
	default:
	}

	select {
	case r.queue <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.stopped:
		return ErrClosed
	}
}

// Close marks the end of input. Already queued events are still drained.
func (r *Reducer) Close() {
	r.inMu.Lock()
	defer r.inMu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.queue)
}

// Wait blocks until the drain goroutine started by Start returned and reports why it
// stopped: nil when the queue was fully drained, ctx's error otherwise.
func (r *Reducer) Wait() error {
	<-r.stopped
	return r.drainErr
}

// Snapshot returns the current snapshot.
func (r *Reducer) Snapshot() models.SyncProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Process applies ev synchronously, bypassing queue and pacing.
func (r *Reducer) Process(ev models.SyncEvent) {
	r.mu.Lock()
	r.snapshot = Apply(r.snapshot, ev)
	next := r.snapshot
	r.mu.Unlock()

	if af, ok := ev.(models.AccountFailed); ok {
		r.logger.Warn().Str("iban", af.IBAN).Str("error", af.Error).Msg("account sync failed")
	}
	if r.observer != nil {
		r.observer(next)
	}
}

func (r *Reducer) drain(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-r.queue:
			if !ok {
				return nil
			}
			if r.needsPacing(ev) {
				if err := r.sleep(ctx, r.pacing); err != nil {
					return err
				}
			}
			r.Process(ev)
		}
	}
}

// needsPacing holds back an account switch so the finished account stays
// visible for a moment.
func (r *Reducer) needsPacing(ev models.SyncEvent) bool {
	if r.pacing <= 0 {
		return false
	}
	started, ok := ev.(models.AccountStarted)
	if !ok {
		return false
	}
	current := r.Snapshot().CurrentAccount
	return current != "" && current != started.IBAN
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
