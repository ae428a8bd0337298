package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/service"
	"github.com/MKhiriev/go-bank-connect/internal/store"
	"github.com/MKhiriev/go-bank-connect/internal/tui"
	"github.com/MKhiriev/go-bank-connect/internal/wizard"
	"github.com/MKhiriev/go-bank-connect/models"
)

var ErrEmptyModelName = errors.New("model name is empty")

// App owns everything a bankconnect command needs. Close must be called
// once the command finished.
type App struct {
	cfg       *config.ClientConfig
	buildInfo models.BuildInfo

	storages *store.ClientStorages
	services *service.ClientServices

	// newUI builds the interactive front end for a wizard machine.
	newUI func(*wizard.Machine) UI

	logger *logger.Logger
}

// NewApp opens the local database and wires the backend services to it.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.BuildInfo, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	services, err := service.NewClientServices(cfg, storages.SyncRuns, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create client services: %w", err)
	}

	return &App{
		cfg:       cfg,
		buildInfo: buildInfo,
		storages:  storages,
		services:  services,
		newUI: func(m *wizard.Machine) UI {
			return tui.New(m, buildInfo, log)
		},
		logger: log,
	}, nil
}

// Connect runs the interactive connection wizard.
func (a *App) Connect(ctx context.Context) (wizard.State, error) {
	machine := wizard.NewMachine(a.services.Bank, a.services.Sync, wizard.Options{AutoPost: a.cfg.Sync.AutoPost}, a.logger)

	state, err := a.newUI(machine).Run(ctx)
	if err != nil {
		return state, err
	}

	a.logger.Info().Str("step", state.Step.String()).Msg("connection wizard finished")
	return state, nil
}

// Sync runs one streaming sync. The configured auto-post setting is applied
// unless req already carries one.
func (a *App) Sync(ctx context.Context, req models.SyncStreamRequest, onProgress func(models.SyncProgress)) (models.SyncResult, error) {
	if req.AutoPost == nil && a.cfg.Sync.AutoPost {
		autoPost := true
		req.AutoPost = &autoPost
	}

	result, err := a.services.Sync.Run(ctx, req, onProgress)
	if err != nil {
		return result, err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = strings.Join(result.Errors, "; ")
		}
		return result, &service.SyncFailedError{Message: msg}
	}
	return result, nil
}

// Watch syncs req every interval until ctx ends. A non-positive interval
// falls back to the configured one.
func (a *App) Watch(ctx context.Context, req models.SyncStreamRequest, interval time.Duration, onResult func(models.SyncResult, error)) {
	if interval <= 0 {
		interval = a.cfg.Workers.SyncInterval
	}

	a.services.SyncJob.Start(ctx, req, interval, onResult)
	<-ctx.Done()
	a.services.SyncJob.Stop()
}

// PullModel downloads model and reports every progress frame.
func (a *App) PullModel(ctx context.Context, model string, onProgress func(models.ModelPullProgress)) error {
	if model == "" {
		return ErrEmptyModelName
	}
	return a.services.Models.Pull(ctx, model, onProgress)
}

// History returns the latest recorded syncs, newest first.
func (a *App) History(ctx context.Context, limit int) ([]models.SyncRun, error) {
	return a.storages.SyncRuns.ListSyncRuns(ctx, limit)
}

// BuildInfo returns the release metadata the app was started with.
func (a *App) BuildInfo() models.BuildInfo {
	return a.buildInfo
}

// Close stops background work and closes the database.
func (a *App) Close() error {
	a.services.SyncJob.Stop()
	a.services.Sync.Abort()
	return a.storages.Close()
}
