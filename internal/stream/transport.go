package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/adapter"
	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/go-resty/resty/v2"
)

const (
	// maxErrorBody caps how much of a non-2xx body is read into the error.
	maxErrorBody = 4 << 10
	readBufSize  = 32 << 10
)

// TokenSource provides the bearer token and the shared refresh routine.
type TokenSource interface {
	Token() string
	Refresh(ctx context.Context) (string, error)
}

// Transport opens SSE streams against the backend.
type Transport struct {
	client  *utils.HTTPClient
	tokens  TokenSource
	timeout time.Duration

	logger *logger.Logger
}

// NewTransport builds a transport for the configured backend. The underlying
// client has no per-request timeout; streams are bounded by
// cfg.StreamTimeout instead.
func NewTransport(cfg config.ClientAdapter, tokens TokenSource, log *logger.Logger) (*Transport, error) {
	baseURL, err := adapter.NormalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid stream address: %w", err)
	}
	if cfg.StreamTimeout <= 0 {
		return nil, fmt.Errorf("stream timeout must be positive, got %s", cfg.StreamTimeout)
	}
	if log == nil {
		log = logger.Nop()
	}

	client := utils.NewHTTPClient()
	client.SetBaseURL(baseURL)

	return &Transport{
		client:  client,
		tokens:  tokens,
		timeout: cfg.StreamTimeout,
		logger:  log,
	}, nil
}

// Open POSTs body to path and returns the streaming response once a 2xx
// status arrived. The returned stream must be closed; all its resources are
// released on Close, on the end of ReadLoop, and when ctx ends.
func (t *Transport) Open(ctx context.Context, path string, body any) (*Stream, error) {
	attemptCtx, cancel := context.WithCancelCause(ctx)
	attemptCtx, stopTimer := context.WithTimeoutCause(attemptCtx, t.timeout, ErrStreamTimeout)

	s := &Stream{ctx: attemptCtx, cancel: cancel, stopTimer: stopTimer}
	requestID := utils.NewRequestID()
	log := t.logger.With().Str("path", path).Str("request_id", requestID).Logger()

	for attempt := 1; attempt <= 2; attempt++ {
		resp, err := t.send(attemptCtx, path, body, requestID)
		if err != nil {
			return nil, s.fail(fmt.Errorf("open stream: %w", err))
		}

		status := resp.StatusCode()
		log.Debug().Int("attempt", attempt).Int("status", status).Msg("stream response")

		if status == http.StatusUnauthorized {
			closeBody(resp)
			if attempt == 2 {
				s.release()
				return nil, ErrSessionExpired
			}
			if _, err = t.tokens.Refresh(attemptCtx); err != nil {
				log.Warn().Err(err).Msg("token refresh for stream failed")
				return nil, s.fail(fmt.Errorf("%w: %w", ErrSessionExpired, err))
			}
			continue
		}

		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			apiErr := readAPIError(resp)
			s.release()
			return nil, apiErr
		}

		s.body = resp.RawBody()
		return s, nil
	}

	// unreachable: the loop returns on the second attempt
	s.release()
	return nil, ErrSessionExpired
}

func (t *Transport) send(ctx context.Context, path string, body any, requestID string) (*resty.Response, error) {
	req := t.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetHeader(utils.RequestIDHeader, requestID).
		SetBody(body)
	if token := t.tokens.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req.Post(path)
}

func readAPIError(resp *resty.Response) *adapter.APIError {
	var data []byte
	if raw := resp.RawBody(); raw != nil {
		data, _ = io.ReadAll(io.LimitReader(raw, maxErrorBody))
		_ = raw.Close()
	}
	return adapter.NewAPIError(resp.StatusCode(), resp.Status(), data)
}

func closeBody(resp *resty.Response) {
	if raw := resp.RawBody(); raw != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(raw, maxErrorBody))
		_ = raw.Close()
	}
}

// Stream is an open event-stream response.
type Stream struct {
	ctx       context.Context
	cancel    context.CancelCauseFunc
	stopTimer context.CancelFunc
	body      io.ReadCloser

	once sync.Once
}

// ReadLoop reads the body chunk by chunk and hands each chunk to handle
// until handle returns true, the body ends, or the stream is stopped. The
// chunk is only valid during the call. The stream is closed when ReadLoop
// returns.
//
// A clean EOF or an early stop by handle returns nil. A stopped stream
// returns the stop reason ([ErrStreamTimeout], [ErrAborted] or the cause
// passed to Abort).
func (s *Stream) ReadLoop(handle func(chunk []byte) (done bool)) error {
	defer s.Close()

	buf := make([]byte, readBufSize)
	for {
		n, err := s.body.Read(buf)
		if n > 0 && handle(buf[:n]) {
			return nil
		}
		if err == nil {
			continue
		}
		if s.ctx.Err() != nil {
			return s.stopReason()
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read stream: %w", err)
	}
}

// Abort stops the stream with cause. Only the first stop reason is kept.
func (s *Stream) Abort(cause error) {
	s.cancel(cause)
}

// Close releases the body, the timer and the cancellation hook. It is safe
// to call more than once.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		if s.body != nil {
			err = s.body.Close()
		}
		s.stopTimer()
		s.cancel(nil)
	})
	return err
}

// Done is closed when the stream stops for any reason, including Close.
func (s *Stream) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Stream) release() {
	_ = s.Close()
}

// fail releases the stream and returns the stop reason if the stream was
// already stopped, err otherwise.
func (s *Stream) fail(err error) error {
	stopped := s.ctx.Err() != nil
	s.release()
	if stopped {
		return s.stopReason()
	}
	return err
}

// stopReason maps the context cause to the package errors. A parent context
// that ended yields ErrAborted wrapping the parent's cause.
func (s *Stream) stopReason() error {
	cause := context.Cause(s.ctx)
	switch {
	case cause == nil:
		return nil
	case errors.Is(cause, ErrStreamTimeout), errors.Is(cause, ErrSuperseded), errors.Is(cause, ErrAborted):
		return cause
	default:
		return fmt.Errorf("%w: %w", ErrAborted, cause)
	}
}
