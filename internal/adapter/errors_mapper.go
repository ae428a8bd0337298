package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	return NewAPIError(resp.StatusCode(), resp.Status(), resp.Body())
}

// NewAPIError builds an [APIError] from a raw error response. statusLine is
// used when body is empty.
func NewAPIError(status int, statusLine string, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var parsed models.APIErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && (parsed.Detail != "" || parsed.Code != "") {
		apiErr.Code = parsed.Code
		apiErr.Message = parsed.Detail
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(statusLine)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}
