package fakebank

import (
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/validators"
)

// Handler serves the fake backend's HTTP surface.
type Handler struct {
	bank *Bank
	auth *Auth

	validator validators.Validator

	// eventDelay is slept between two streamed events.
	eventDelay time.Duration

	logger *logger.Logger
}

func NewHandler(bank *Bank, auth *Auth, eventDelay time.Duration, logger *logger.Logger) *Handler {
	logger.Info().Msg("fakebank handler created")
	return &Handler{
		bank:       bank,
		auth:       auth,
		validator:  validators.NewBankingValidator(),
		eventDelay: eventDelay,
		logger:     logger,
	}
}
