package progress

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

type recordingSleep struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (s *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.calls = append(s.calls, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleep) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type snapshots struct {
	mu   sync.Mutex
	seen []models.SyncProgress
}

func (s *snapshots) observe(p models.SyncProgress) {
	s.mu.Lock()
	s.seen = append(s.seen, p)
	s.mu.Unlock()
}

func runReducer(t *testing.T, opts Options, obs Observer, events []models.SyncEvent) *Reducer {
	t.Helper()
	r := NewReducer(opts, obs, nil)
	r.Start(context.Background())
	for _, ev := range events {
		require.NoError(t, r.Enqueue(context.Background(), ev))
	}
	r.Close()
	require.NoError(t, r.Wait())
	return r
}

func twoAccountEvents() []models.SyncEvent {
	return []models.SyncEvent{
		models.SyncStarted{TotalAccounts: 2},
		models.AccountStarted{IBAN: "DE1", Index: 1, Total: 2},
		models.AccountFetched{IBAN: "DE1", NewTransactions: 1},
		models.TransactionClassified{IBAN: "DE1", Current: 1, Total: 1, Description: "Rent"},
		models.AccountCompleted{IBAN: "DE1", Imported: 1},
		models.AccountStarted{IBAN: "DE2", Index: 2, Total: 2},
		models.AccountFetched{IBAN: "DE2", NewTransactions: 0},
		models.AccountCompleted{IBAN: "DE2"},
	}
}

// ── ordering ──────────────────────────────────────────────────────────────────

func TestReducer_HappyPath(t *testing.T) {
	var obs snapshots
	r := runReducer(t, Options{QueueSize: 2}, obs.observe, happyPathEvents())

	got := r.Snapshot()
	assert.Equal(t, models.PhaseComplete, got.Phase)
	assert.Equal(t, 3, got.TransactionsCurrent)
	assert.Equal(t, 3, got.TransactionsTotal)
	assert.Len(t, obs.seen, len(happyPathEvents()))
}

// TestReducer_DrainEqualsSynchronousFold checks that draining random event
// sequences yields exactly the synchronous fold, with and without pacing.
func TestReducer_DrainEqualsSynchronousFold(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ibans := []string{"DE1", "DE2", "DE3"}

	randomEvent := func() models.SyncEvent {
		iban := ibans[rng.IntN(len(ibans))]
		switch rng.IntN(7) {
		case 0:
			return models.SyncStarted{TotalAccounts: rng.IntN(4)}
		case 1:
			return models.AccountStarted{IBAN: iban, Index: rng.IntN(3) + 1, Total: 3}
		case 2:
			return models.AccountFetched{IBAN: iban, NewTransactions: rng.IntN(3)}
		case 3:
			return models.AccountClassifying{IBAN: iban, Current: rng.IntN(5), Total: 5}
		case 4:
			return models.TransactionClassified{IBAN: iban, Current: rng.IntN(5), Total: 5, Description: iban}
		case 5:
			return models.AccountFailed{IBAN: iban, Error: "x"}
		default:
			return models.AccountCompleted{IBAN: iban}
		}
	}

	for i := 0; i < 50; i++ {
		events := make([]models.SyncEvent, rng.IntN(40))
		for j := range events {
			events[j] = randomEvent()
		}
		want := Fold(events)

		var obs snapshots
		var pacing recordingSleep
		r := runReducer(t, Options{QueueSize: 1 + rng.IntN(4), PacingDelay: time.Second, Sleep: pacing.sleep}, obs.observe, events)

		require.Equal(t, want, r.Snapshot(), "sequence %d", i)
		require.Len(t, obs.seen, len(events))

		// every intermediate snapshot equals the prefix fold
		var p models.SyncProgress
		for j, ev := range events {
			p = Apply(p, ev)
			require.Equal(t, p, obs.seen[j], "sequence %d, event %d", i, j)
		}
	}
}

// ── pacing ────────────────────────────────────────────────────────────────────

func TestReducer_PacingOnlyOnAccountSwitch(t *testing.T) {
	var pacing recordingSleep
	events := append(twoAccountEvents(),
		// same account again: no pause
		models.AccountStarted{IBAN: "DE2", Index: 2, Total: 2},
	)

	runReducer(t, Options{PacingDelay: 600 * time.Millisecond, Sleep: pacing.sleep}, nil, events)

	// DE1 is the first account (nothing shown yet), DE2 switches once
	require.Equal(t, 1, pacing.count())
	assert.Equal(t, 600*time.Millisecond, pacing.calls[0])
}

func TestReducer_PacingHappensBeforeSwitch(t *testing.T) {
	var obs snapshots
	var seenAtPause models.SyncProgress
	var r *Reducer
	sleep := func(ctx context.Context, d time.Duration) error {
		seenAtPause = r.Snapshot()
		return nil
	}

	r = NewReducer(Options{PacingDelay: time.Millisecond, Sleep: sleep}, obs.observe, nil)
	r.Start(context.Background())
	for _, ev := range twoAccountEvents() {
		require.NoError(t, r.Enqueue(context.Background(), ev))
	}
	r.Close()
	require.NoError(t, r.Wait())

	// while paused, the first account is still displayed as complete
	assert.Equal(t, "DE1", seenAtPause.CurrentAccount)
	assert.Equal(t, models.PhaseComplete, seenAtPause.Phase)
}

func TestReducer_ZeroPacingNeverSleeps(t *testing.T) {
	var pacing recordingSleep
	runReducer(t, Options{Sleep: pacing.sleep}, nil, twoAccountEvents())
	assert.Zero(t, pacing.count())
}

func TestReducer_RealSleepDelaysSwitch(t *testing.T) {
	start := time.Now()
	runReducer(t, Options{PacingDelay: 50 * time.Millisecond}, nil, twoAccountEvents())
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

// ── lifecycle ─────────────────────────────────────────────────────────────────

func TestReducer_EnqueueAfterClose(t *testing.T) {
	r := NewReducer(Options{}, nil, nil)
	r.Start(context.Background())
	r.Close()
	r.Close()

	assert.ErrorIs(t, r.Enqueue(context.Background(), models.SyncStarted{}), ErrClosed)
	assert.NoError(t, r.Wait())
}

func TestReducer_ContextStopsDrain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	block := make(chan struct{})
	sleep := func(ctx context.Context, d time.Duration) error {
		close(block)
		<-ctx.Done()
		return ctx.Err()
	}

	r := NewReducer(Options{PacingDelay: time.Hour, QueueSize: 1, Sleep: sleep}, nil, nil)
	r.Start(ctx)
	require.NoError(t, r.Enqueue(ctx, models.AccountStarted{IBAN: "DE1"}))
	require.NoError(t, r.Enqueue(ctx, models.AccountStarted{IBAN: "DE2"}))

	<-block
	cancel()

	assert.ErrorIs(t, r.Wait(), context.Canceled)
	assert.Equal(t, "DE1", r.Snapshot().CurrentAccount)

	// the drain goroutine is gone; a blocked producer must not hang
	assert.Error(t, r.Enqueue(context.Background(), models.AccountStarted{IBAN: "DE3"}))
}

func TestReducer_ProcessIsSynchronous(t *testing.T) {
	var obs snapshots
	r := NewReducer(Options{}, obs.observe, nil)

	r.Process(models.SyncStarted{TotalAccounts: 2})

	assert.Equal(t, 2, r.Snapshot().TotalAccounts)
	assert.Len(t, obs.seen, 1)
}
