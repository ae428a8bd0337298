package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/stream"
	"github.com/MKhiriev/go-bank-connect/models"
)

const defaultSyncInterval = 5 * time.Minute

// SyncRunner runs one sync. [*SyncConsumer] implements it.
type SyncRunner interface {
	Run(ctx context.Context, req models.SyncStreamRequest, onProgress func(models.SyncProgress)) (models.SyncResult, error)
}

// SyncJob runs adaptive syncs on a ticker. It is idle until Start is called.
type SyncJob struct {
	runner SyncRunner

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

func NewSyncJob(runner SyncRunner, log *logger.Logger) *SyncJob {
	if log == nil {
		log = logger.Nop()
	}
	return &SyncJob{runner: runner, logger: log}
}

// Start stops a running job, then syncs req every interval until ctx ends
// or Stop is called. req.Days is cleared so the backend picks the range.
// A non-positive interval defaults to 5 minutes. onResult, if not nil, is
// called after every finished run except canceled ones.
func (j *SyncJob) Start(ctx context.Context, req models.SyncStreamRequest, interval time.Duration, onResult func(models.SyncResult, error)) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	req.Days = nil

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				result, err := j.runner.Run(jobCtx, req, nil)
				if stream.IsCanceled(err) {
					continue
				}
				if err != nil {
					j.logger.Warn().Err(err).Msg("scheduled sync failed")
				} else {
					j.logger.Info().Int("imported", result.TotalImported).Msg("scheduled sync finished")
				}
				if onResult != nil {
					onResult(result, err)
				}
			}
		}
	}()
}

// Stop cancels the job and waits until its goroutine exited. It is a no-op
// when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
