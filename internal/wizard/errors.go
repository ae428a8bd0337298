package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-bank-connect/internal/adapter"
	"github.com/MKhiriev/go-bank-connect/internal/app"
	"github.com/MKhiriev/go-bank-connect/internal/stream"
)

// ErrValidation is returned by actions that were rejected before any
// network call.
var ErrValidation = errors.New("wizard input invalid")

// ErrWrongStep is returned by actions started from a step that does not
// lead to them. It matches [ErrValidation].
var ErrWrongStep = fmt.Errorf("%w: action not allowed on this step", ErrValidation)

// userMessager is implemented by errors that carry a message meant for the
// user, such as a fatal sync failure reported by the backend.
type userMessager interface {
	UserMessage() string
}

// TranslateError turns err into the message shown on a step. Cancellation
// yields "" and is never shown.
func TranslateError(err error) string {
	if err == nil || stream.IsCanceled(err) || errors.Is(err, context.Canceled) {
		return ""
	}

	if adapter.HasCode(err, app.CodeBankingGatewayNotConfigured) {
		return app.MsgGatewayNotConfigured
	}
	if errors.Is(err, stream.ErrSessionExpired) {
		return app.MsgSessionExpired
	}
	if errors.Is(err, stream.ErrStreamTimeout) {
		return app.MsgStreamTimeout
	}

	var um userMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}

	var apiErr *adapter.APIError
	if errors.As(err, &apiErr) {
		if errors.Is(err, adapter.ErrUnauthorized) && adapter.HasCode(err, app.CodeTokenExpired) {
			return app.MsgSessionExpired
		}
		return apiErr.Error()
	}

	return err.Error()
}
