package service

import (
	"fmt"

	"github.com/MKhiriev/go-bank-connect/internal/adapter"
	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/stream"
)

// ClientServices bundles everything the client commands need.
type ClientServices struct {
	Bank    adapter.BankAdapter
	Sync    *SyncConsumer
	Models  *ModelService
	SyncJob *SyncJob
	History HistoryRecorder
}

// NewClientServices wires the REST adapter and the stream transport to one
// shared token store. history may be nil.
func NewClientServices(cfg *config.ClientConfig, history HistoryRecorder, log *logger.Logger) (*ClientServices, error) {
	bank, err := adapter.NewHTTPBankAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		return nil, fmt.Errorf("error creating bank adapter: %w", err)
	}

	transport, err := stream.NewTransport(cfg.Adapter, bank.Tokens(), log)
	if err != nil {
		return nil, fmt.Errorf("error creating stream transport: %w", err)
	}

	consumer := NewSyncConsumer(transport, history, cfg.Sync, log)

	return &ClientServices{
		Bank:    bank,
		Sync:    consumer,
		Models:  NewModelService(transport, log),
		SyncJob: NewSyncJob(consumer, log),
		History: history,
	}, nil
}
