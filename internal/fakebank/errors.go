package fakebank

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-bank-connect/internal/app"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/MKhiriev/go-bank-connect/models"
)

var (
	ErrBankNotFound         = errors.New("bank not found")
	ErrInvalidCredentials   = errors.New("invalid username or PIN")
	ErrGatewayNotConfigured = errors.New("banking gateway is not configured")
	ErrNoStoredCredentials  = errors.New("no credentials stored for this bank")
	ErrUnknownTANMethod     = errors.New("unknown TAN method")
	ErrUnknownAccount       = errors.New("unknown account")
	ErrNoAccountsToImport   = errors.New("no accounts to import")
	ErrInvalidJSON          = errors.New("invalid JSON was passed")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInvalidRefreshToken  = errors.New("refresh token is invalid or expired")
	ErrEmptyAuthorization   = errors.New("empty `Authorization` header")
	ErrInvalidAuthorization = errors.New("invalid `Authorization` header")
	ErrEmptyModelName       = errors.New("model name is empty")
)

type errorMapping struct {
	status int
	code   string
}

var errorStatusMap = map[error]errorMapping{
	ErrBankNotFound:         {http.StatusNotFound, app.CodeBankNotFound},
	ErrInvalidCredentials:   {http.StatusBadRequest, app.CodeInvalidCredentials},
	ErrGatewayNotConfigured: {http.StatusBadGateway, app.CodeBankingGatewayNotConfigured},
	ErrNoStoredCredentials:  {http.StatusConflict, ""},
	ErrUnknownTANMethod:     {http.StatusBadRequest, ""},
	ErrUnknownAccount:       {http.StatusBadRequest, ""},
	ErrNoAccountsToImport:   {http.StatusBadRequest, ""},
	ErrInvalidJSON:          {http.StatusBadRequest, ""},
	ErrInvalidRequest:       {http.StatusBadRequest, ""},
	ErrInvalidRefreshToken:  {http.StatusUnauthorized, app.CodeTokenExpired},
	ErrEmptyAuthorization:   {http.StatusUnauthorized, ""},
	ErrInvalidAuthorization: {http.StatusUnauthorized, ""},
	ErrEmptyModelName:       {http.StatusBadRequest, ""},
}

func mapError(err error) errorMapping {
	for target, m := range errorStatusMap {
		if errors.Is(err, target) {
			return m
		}
	}
	return errorMapping{status: http.StatusInternalServerError}
}

// writeError answers with the JSON error body the client parses.
func writeError(w http.ResponseWriter, err error) {
	m := mapError(err)
	_, _ = utils.WriteJSON(w, models.APIErrorBody{Detail: err.Error(), Code: m.code}, m.status)
}
