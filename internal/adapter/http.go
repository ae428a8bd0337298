package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/go-resty/resty/v2"
)

// refreshSkew is how long before its exp claim a token is refreshed
// proactively.
const refreshSkew = 30 * time.Second

type httpBankAdapter struct {
	client *utils.HTTPClient
	tokens *TokenStore

	logger *logger.Logger
}

// NewHTTPBankAdapter constructs the resty implementation of [BankAdapter].
// It normalises adapterCfg.HTTPAddress, applies the request timeout and
// seeds a [TokenStore] from appCfg whose refresh routine is this adapter's
// RefreshAccessToken.
//
// Returns an error if the address is empty or cannot be parsed as a URL.
func NewHTTPBankAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, log *logger.Logger) (BankAdapter, error) {
	baseURL, err := NormalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	if log == nil {
		log = logger.Nop()
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	a := &httpBankAdapter{client: client, logger: log}
	a.tokens = NewTokenStore(appCfg.Token, appCfg.RefreshToken, a.RefreshAccessToken, log)
	return a, nil
}

// NormalizeBaseURL adds a missing http scheme and strips trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpBankAdapter) Tokens() *TokenStore {
	return h.tokens
}

// LookupBank implements [BankAdapter] via GET /api/banking/banks/{blz}.
func (h *httpBankAdapter) LookupBank(ctx context.Context, blz string) (models.BankInfo, error) {
	var bank models.BankInfo
	_, err := h.do(ctx, "lookup bank", func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetPathParam("blz", blz).
			SetResult(&bank).
			Get("/api/banking/banks/{blz}")
	})
	return bank, err
}

// GetTANMethods implements [BankAdapter] via POST /api/banking/tan-methods.
func (h *httpBankAdapter) GetTANMethods(ctx context.Context, creds models.CredentialsRequest) (models.TANMethodsResponse, error) {
	var methods models.TANMethodsResponse
	_, err := h.do(ctx, "get tan methods", func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(creds).
			SetResult(&methods).
			Post("/api/banking/tan-methods")
	})
	return methods, err
}

// StoreCredentials implements [BankAdapter] via POST /api/banking/credentials.
func (h *httpBankAdapter) StoreCredentials(ctx context.Context, form models.BankForm) (models.StoreCredentialsResponse, error) {
	var stored models.StoreCredentialsResponse
	_, err := h.do(ctx, "store credentials", func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(form).
			SetResult(&stored).
			Post("/api/banking/credentials")
	})
	return stored, err
}

// DiscoverAccounts implements [BankAdapter] via POST /api/banking/accounts/discover.
func (h *httpBankAdapter) DiscoverAccounts(ctx context.Context, blz string) ([]models.DiscoveredAccount, error) {
	var discovered models.DiscoverAccountsResponse
	_, err := h.do(ctx, "discover accounts", func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(models.DiscoverAccountsRequest{BLZ: blz}).
			SetResult(&discovered).
			Post("/api/banking/accounts/discover")
	})
	return discovered.Accounts, err
}

// ImportAccounts implements [BankAdapter] via POST /api/banking/accounts/import.
func (h *httpBankAdapter) ImportAccounts(ctx context.Context, importReq models.ImportAccountsRequest) (models.ConnectionResult, error) {
	var result models.ConnectionResult
	_, err := h.do(ctx, "import accounts", func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(importReq).
			SetResult(&result).
			Post("/api/banking/accounts/import")
	})
	return result, err
}

// GetSyncRecommendation implements [BankAdapter] via
// GET /api/banking/sync/recommendation.
func (h *httpBankAdapter) GetSyncRecommendation(ctx context.Context, blz string) (models.SyncRecommendation, error) {
	var rec models.SyncRecommendation
	_, err := h.do(ctx, "get sync recommendation", func(req *resty.Request) (*resty.Response, error) {
		if blz != "" {
			req.SetQueryParam("blz", blz)
		}
		return req.
			SetResult(&rec).
			Get("/api/banking/sync/recommendation")
	})
	return rec, err
}

// RefreshAccessToken implements [BankAdapter]. It POSTs the refresh token to
// /api/auth/refresh and returns the bearer token from the Authorization
// response header. The call is never retried.
func (h *httpBankAdapter) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{RefreshToken: refreshToken}).
		Post("/api/auth/refresh")
	if err != nil {
		return "", fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return "", fmt.Errorf("refresh parse bearer token: %w", err)
	}
	return token, nil
}

// do sends an authenticated request built by send. A 401 triggers exactly
// one token refresh and one retry of the same request.
func (h *httpBankAdapter) do(ctx context.Context, op string, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if h.tokens.CanRefresh() && h.tokens.ExpiresWithin(refreshSkew) {
		if _, err := h.tokens.Refresh(ctx); err != nil {
			h.logger.Warn().Err(err).Str("op", op).Msg("proactive token refresh failed")
		}
	}

	resp, err := send(h.authedRequest(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", op, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && h.tokens.CanRefresh() {
		h.logger.Debug().Str("op", op).Msg("unauthorized, refreshing token once")
		if _, refreshErr := h.tokens.Refresh(ctx); refreshErr != nil {
			return nil, errors.Join(refreshErr, mapHTTPError(resp))
		}

		resp, err = send(h.authedRequest(ctx))
		if err != nil {
			return nil, fmt.Errorf("%s retry: %w", op, err)
		}
	}

	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Str("op", op).Int("status", resp.StatusCode()).Err(err).Msg("backend call failed")
		return resp, err
	}
	return resp, nil
}

func (h *httpBankAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token := h.tokens.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
