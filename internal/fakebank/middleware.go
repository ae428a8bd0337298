package fakebank

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/rs/zerolog"
)

// withTraceID attaches a request-scoped logger carrying the client's
// X-Request-ID, or a fresh one, and echoes the ID back.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(utils.RequestIDHeader)
		if requestID == "" {
			requestID = utils.NewRequestID()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", requestID)
		})
		ctx := utils.WithRequestID(l.WithContext(r.Context()), requestID)

		w.Header().Set(utils.RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}

// authenticate rejects requests without a valid bearer token and stores the
// token subject in the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		header := r.Header.Get("Authorization")
		if header == "" {
			log.Err(ErrEmptyAuthorization).Send()
			writeError(w, ErrEmptyAuthorization)
			return
		}

		token, err := utils.ParseBearerToken(header)
		if err != nil {
			log.Err(err).Send()
			writeError(w, ErrInvalidAuthorization)
			return
		}

		subject, err := h.auth.Validate(token)
		if err != nil {
			log.Err(err).Msg("rejecting access token")
			writeError(w, ErrInvalidAuthorization)
			return
		}

		ctx := context.WithValue(r.Context(), utils.SubjectCtxKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// responseWriter records status and size for withLogging. It keeps
// Flush reachable for the event streams.
type responseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
	size        int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
