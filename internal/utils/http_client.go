package utils

import (
	"github.com/go-resty/resty/v2"
)

// RequestIDHeader carries the per-request trace identifier.
const RequestIDHeader = "X-Request-ID"

// HTTPClient embeds *resty.Client so the adapter and the stream transport
// share one request-ID policy.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client that stamps every request with
// X-Request-ID. An explicit header wins, then the ID stored by
// [WithRequestID], then a fresh one from [NewRequestID].
func NewHTTPClient() *HTTPClient {
	client := resty.New()
	client.OnBeforeRequest(stampRequestID)

	return &HTTPClient{Client: client}
}

func stampRequestID(_ *resty.Client, req *resty.Request) error {
	if req.Header.Get(RequestIDHeader) != "" {
		return nil
	}
	id, ok := GetRequestIDFromContext(req.Context())
	if !ok {
		id = NewRequestID()
	}
	req.SetHeader(RequestIDHeader, id)
	return nil
}
