// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SyncEventType is the SSE event name of a sync event.
type SyncEventType string

const (
	EventSyncStarted           SyncEventType = "sync_started"
	EventAccountStarted        SyncEventType = "account_started"
	EventAccountFetched        SyncEventType = "account_fetched"
	EventAccountClassifying    SyncEventType = "account_classifying"
	EventTransactionClassified SyncEventType = "transaction_classified"
	EventAccountCompleted      SyncEventType = "account_completed"
	EventAccountFailed         SyncEventType = "account_failed"
	EventSyncFailed            SyncEventType = "sync_failed"
	EventSyncCompleted         SyncEventType = "sync_completed"
	EventResult                SyncEventType = "result"
)

// ErrUnknownSyncEvent is returned by [DecodeSyncEvent] for event names
// outside the closed set above.
var ErrUnknownSyncEvent = errors.New("unknown sync event")

// SyncEvent is one of the variants below. The set is closed: only types in
// this package implement it.
type SyncEvent interface {
	EventType() SyncEventType
	syncEvent()
}

type SyncStarted struct {
	TotalAccounts int    `json:"total_accounts"`
	Message       string `json:"message,omitempty"`
}

type AccountStarted struct {
	IBAN        string `json:"iban"`
	AccountName string `json:"account_name,omitempty"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
}

type AccountFetched struct {
	IBAN            string `json:"iban"`
	NewTransactions int    `json:"new_transactions"`
	Message         string `json:"message,omitempty"`
}

type AccountClassifying struct {
	IBAN    string `json:"iban"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

type TransactionClassified struct {
	IBAN               string `json:"iban"`
	Current            int    `json:"current"`
	Total              int    `json:"total"`
	Description        string `json:"description,omitempty"`
	CounterAccountName string `json:"counter_account_name,omitempty"`
}

type AccountCompleted struct {
	IBAN     string `json:"iban"`
	Imported int    `json:"imported"`
	Message  string `json:"message,omitempty"`
}

type AccountFailed struct {
	IBAN  string `json:"iban"`
	Error string `json:"error"`
}

type SyncFailed struct {
	Error string `json:"error"`
}

type SyncCompleted struct {
	TotalImported  int    `json:"total_imported"`
	AccountsSynced int    `json:"accounts_synced"`
	Message        string `json:"message,omitempty"`
}

// Result is the last event of a stream.
type Result struct {
	Success        bool     `json:"success"`
	TotalImported  int      `json:"total_imported"`
	AccountsSynced int      `json:"accounts_synced"`
	Errors         []string `json:"errors,omitempty"`
	Message        string   `json:"message,omitempty"`
}

func (SyncStarted) EventType() SyncEventType           { return EventSyncStarted }
func (AccountStarted) EventType() SyncEventType        { return EventAccountStarted }
func (AccountFetched) EventType() SyncEventType        { return EventAccountFetched }
func (AccountClassifying) EventType() SyncEventType    { return EventAccountClassifying }
func (TransactionClassified) EventType() SyncEventType { return EventTransactionClassified }
func (AccountCompleted) EventType() SyncEventType      { return EventAccountCompleted }
func (AccountFailed) EventType() SyncEventType         { return EventAccountFailed }
func (SyncFailed) EventType() SyncEventType            { return EventSyncFailed }
func (SyncCompleted) EventType() SyncEventType         { return EventSyncCompleted }
func (Result) EventType() SyncEventType                { return EventResult }

func (SyncStarted) syncEvent()           {}
func (AccountStarted) syncEvent()        {}
func (AccountFetched) syncEvent()        {}
func (AccountClassifying) syncEvent()    {}
func (TransactionClassified) syncEvent() {}
func (AccountCompleted) syncEvent()      {}
func (AccountFailed) syncEvent()         {}
func (SyncFailed) syncEvent()            {}
func (SyncCompleted) syncEvent()         {}
func (Result) syncEvent()                {}

// ToSyncResult converts the terminal event into the value a sync resolves with.
func (r Result) ToSyncResult() SyncResult {
	return SyncResult{
		Success:        r.Success,
		TotalImported:  r.TotalImported,
		AccountsSynced: r.AccountsSynced,
		Errors:         r.Errors,
		Message:        r.Message,
	}
}

// DecodeSyncEvent builds the variant named by eventType from a JSON payload.
// The variant is chosen by the SSE framing name only; an event_type field
// inside the payload is ignored even when it disagrees.
func DecodeSyncEvent(eventType string, data []byte) (SyncEvent, error) {
	var (
		ev  SyncEvent
		err error
	)

	switch SyncEventType(eventType) {
	case EventSyncStarted:
		ev, err = decodeInto[SyncStarted](data)
	case EventAccountStarted:
		ev, err = decodeInto[AccountStarted](data)
	case EventAccountFetched:
		ev, err = decodeInto[AccountFetched](data)
	case EventAccountClassifying:
		ev, err = decodeInto[AccountClassifying](data)
	case EventTransactionClassified:
		ev, err = decodeInto[TransactionClassified](data)
	case EventAccountCompleted:
		ev, err = decodeInto[AccountCompleted](data)
	case EventAccountFailed:
		ev, err = decodeInto[AccountFailed](data)
	case EventSyncFailed:
		ev, err = decodeInto[SyncFailed](data)
	case EventSyncCompleted:
		ev, err = decodeInto[SyncCompleted](data)
	case EventResult:
		ev, err = decodeInto[Result](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyncEvent, eventType)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", eventType, err)
	}

	return ev, nil
}

func decodeInto[T SyncEvent](data []byte) (SyncEvent, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
