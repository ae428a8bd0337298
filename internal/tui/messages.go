package tui

import (
	"github.com/MKhiriev/go-bank-connect/internal/wizard"
	"github.com/MKhiriev/go-bank-connect/models"
)

// stateMsg carries a state published by the wizard machine.
type stateMsg struct {
	state wizard.State
}

// opDoneMsg reports the end of an async wizard action. The outcome itself
// is already part of the machine state.
type opDoneMsg struct {
	step models.ConnectionStep
	err  error
}

type copiedMsg struct {
	iban string
	err  error
}

type clearStatusMsg struct{}
