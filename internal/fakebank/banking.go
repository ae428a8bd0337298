package fakebank

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		log.Err(err).Str("func", "*Handler.refresh").Msg("refresh rejected")
		writeError(w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	_, _ = utils.WriteJSON(w, map[string]string{"message": "token refreshed"}, http.StatusOK)
}

func (h *Handler) lookupBank(w http.ResponseWriter, r *http.Request) {
	bank, err := h.bank.LookupBank(chi.URLParam(r, "blz"))
	respond(w, r, "*Handler.lookupBank", bank, err)
}

func (h *Handler) tanMethods(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	resp, err := h.bank.TANMethods(req)
	respond(w, r, "*Handler.tanMethods", resp, err)
}

func (h *Handler) storeCredentials(w http.ResponseWriter, r *http.Request) {
	var form models.BankForm
	if !h.decodeRequest(w, r, &form) {
		return
	}
	resp, err := h.bank.StoreCredentials(form)
	respond(w, r, "*Handler.storeCredentials", resp, err)
}

func (h *Handler) discoverAccounts(w http.ResponseWriter, r *http.Request) {
	var req models.DiscoverAccountsRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	accounts, err := h.bank.DiscoverAccounts(req.BLZ)
	respond(w, r, "*Handler.discoverAccounts", models.DiscoverAccountsResponse{Accounts: accounts}, err)
}

func (h *Handler) importAccounts(w http.ResponseWriter, r *http.Request) {
	var req models.ImportAccountsRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	result, err := h.bank.ImportAccounts(req)
	respond(w, r, "*Handler.importAccounts", result, err)
}

func (h *Handler) syncRecommendation(w http.ResponseWriter, r *http.Request) {
	rec := h.bank.Recommendation(r.URL.Query().Get("blz"))
	respond(w, r, "*Handler.syncRecommendation", rec, nil)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")
		writeError(w, ErrInvalidJSON)
		return false
	}
	return true
}

// decodeRequest decodes the body into v and validates it.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := h.validator.Validate(r.Context(), v); err != nil {
		logger.FromRequest(r).Warn().Err(err).Msg("request rejected by validator")
		writeError(w, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return false
	}
	return true
}

func respond(w http.ResponseWriter, r *http.Request, fn string, body any, err error) {
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", fn).Send()
		writeError(w, err)
		return
	}
	_, _ = utils.WriteJSON(w, body, http.StatusOK)
}
