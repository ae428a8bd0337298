package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/progress"
	"github.com/MKhiriev/go-bank-connect/internal/sse"
	"github.com/MKhiriev/go-bank-connect/internal/stream"
	"github.com/MKhiriev/go-bank-connect/models"
)

const (
	syncStreamPath = "/api/banking/sync/stream"

	historyWriteTimeout = 5 * time.Second
)

// StreamOpener opens an authenticated event stream. [*stream.Transport]
// implements it.
type StreamOpener interface {
	Open(ctx context.Context, path string, body any) (*stream.Stream, error)
}

// SyncConsumer drives a streaming sync: it opens the sync stream, decodes
// its events, folds them into a progress snapshot and resolves with the
// final result. At most one sync runs per consumer; starting a new one
// supersedes the previous.
type SyncConsumer struct {
	transport StreamOpener
	history   HistoryRecorder
	cfg       config.ClientSync

	mu      sync.Mutex
	cancel  context.CancelCauseFunc
	attempt uint64

	logger *logger.Logger
}

// NewSyncConsumer returns a consumer. history may be nil, then runs are not
// recorded.
func NewSyncConsumer(transport StreamOpener, history HistoryRecorder, cfg config.ClientSync, log *logger.Logger) *SyncConsumer {
	if log == nil {
		log = logger.Nop()
	}
	return &SyncConsumer{
		transport: transport,
		history:   history,
		cfg:       cfg,
		logger:    log,
	}
}

// Run performs one sync and calls onProgress, which may be nil, with every
// new snapshot in order. It returns once the result event arrived and every
// queued event was applied.
//
// Cancellation of ctx, Abort and a newer Run stop the sync with an error
// for which [stream.IsCanceled] is true. A sync_failed event yields
// [*SyncFailedError].
func (c *SyncConsumer) Run(ctx context.Context, req models.SyncStreamRequest, onProgress func(models.SyncProgress)) (models.SyncResult, error) {
	runCtx, cancel := context.WithCancelCause(ctx)

	c.mu.Lock()
	prev := c.cancel
	c.cancel = cancel
	c.attempt++
	attempt := c.attempt
	c.mu.Unlock()

	if prev != nil {
		prev(stream.ErrSuperseded)
	}
	defer func() {
		c.mu.Lock()
		if c.attempt == attempt {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel(nil)
	}()

	startedAt := time.Now().UTC()
	result, err := c.run(runCtx, req, onProgress)
	c.record(ctx, req, startedAt, result, err)

	return result, err
}

// Abort stops the running sync, if any.
func (c *SyncConsumer) Abort() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel(stream.ErrAborted)
	}
}

func (c *SyncConsumer) run(ctx context.Context, req models.SyncStreamRequest, onProgress func(models.SyncProgress)) (models.SyncResult, error) {
	s, err := c.transport.Open(ctx, syncStreamPath, req)
	if err != nil {
		return models.SyncResult{}, err
	}
	defer s.Close()

	reducer := progress.NewReducer(progress.Options{
		PacingDelay: c.cfg.PacingDelay,
		QueueSize:   c.cfg.QueueSize,
	}, onProgress, c.logger)
	reducer.Start(ctx)

	h := &syncEventHandler{ctx: ctx, reducer: reducer, logger: c.logger}
	decoder := sse.NewDecoder(c.logger)

	readErr := s.ReadLoop(func(chunk []byte) bool {
		return h.handleAll(decoder.Feed(chunk))
	})
	if readErr == nil && !h.stopped() {
		h.handleAll(decoder.Flush())
	}

	reducer.Close()
	drainErr := reducer.Wait()

	switch {
	case readErr != nil:
		return models.SyncResult{}, readErr
	case h.enqueueErr != nil:
		return models.SyncResult{}, canceledErr(ctx, h.enqueueErr)
	case drainErr != nil:
		return models.SyncResult{}, canceledErr(ctx, drainErr)
	case h.failure != nil:
		return models.SyncResult{}, h.failure
	case h.result != nil:
		return *h.result, nil
	case h.completed != nil:
		return models.SyncResult{
			Success:        true,
			TotalImported:  h.completed.TotalImported,
			AccountsSynced: h.completed.AccountsSynced,
			Message:        h.completed.Message,
		}, nil
	default:
		return models.SyncResult{}, ErrStreamEnded
	}
}

func (c *SyncConsumer) record(ctx context.Context, req models.SyncStreamRequest, startedAt time.Time, result models.SyncResult, err error) {
	if c.history == nil || stream.IsCanceled(err) {
		return
	}

	run := models.SyncRun{
		BLZ:            req.BLZ,
		Days:           req.Days,
		StartedAt:      startedAt,
		FinishedAt:     time.Now().UTC(),
		Success:        err == nil && result.Success,
		TotalImported:  result.TotalImported,
		AccountsSynced: result.AccountsSynced,
	}
	switch {
	case err != nil:
		run.Error = err.Error()
	case !result.Success:
		run.Error = result.Message
		if run.Error == "" {
			run.Error = strings.Join(result.Errors, "; ")
		}
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()

	id, recErr := c.history.RecordSyncRun(recordCtx, run)
	if recErr != nil {
		c.logger.Error().Err(recErr).Msg("failed to record sync run")
		return
	}
	c.logger.Debug().Int64("run_id", id).Bool("success", run.Success).Msg("sync run recorded")
}

// syncEventHandler routes decoded events into the reducer and remembers the
// terminal ones.
type syncEventHandler struct {
	ctx     context.Context
	reducer *progress.Reducer

	result     *models.SyncResult
	completed  *models.SyncCompleted
	failure    error
	enqueueErr error

	logger *logger.Logger
}

func (h *syncEventHandler) stopped() bool {
	return h.result != nil || h.failure != nil || h.enqueueErr != nil
}

// handleAll reports true once the stream should not be read any further.
func (h *syncEventHandler) handleAll(events []sse.Event) bool {
	for _, ev := range events {
		if h.handle(ev) {
			return true
		}
	}
	return false
}

func (h *syncEventHandler) handle(ev sse.Event) bool {
	se, err := models.DecodeSyncEvent(ev.Type, ev.Data)
	if err != nil {
		h.logger.Warn().Err(err).Str("event", ev.Type).Msg("skipping sync event")
		return false
	}

	if err = h.reducer.Enqueue(h.ctx, se); err != nil {
		h.enqueueErr = err
		return true
	}

	switch e := se.(type) {
	case models.SyncCompleted:
		h.completed = &e
	case models.SyncFailed:
		h.failure = &SyncFailedError{Message: e.Error}
		return true
	case models.Result:
		result := e.ToSyncResult()
		h.result = &result
		return true
	}
	return false
}

// canceledErr maps an error caused by the end of ctx to the stream package
// reasons, so callers can rely on stream.IsCanceled.
func canceledErr(ctx context.Context, err error) error {
	cause := context.Cause(ctx)
	switch {
	case cause == nil:
		return err
	case errors.Is(cause, stream.ErrStreamTimeout),
		errors.Is(cause, stream.ErrSuperseded),
		errors.Is(cause, stream.ErrAborted):
		return cause
	default:
		return fmt.Errorf("%w: %w", stream.ErrAborted, cause)
	}
}
