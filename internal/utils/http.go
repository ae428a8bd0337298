package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrStreamingNotSupported = errors.New("streaming not supported")

// WriteJSON serializes data and writes it with statusCode and an
// "application/json" content type. A marshaling failure answers 500.
//
//	WriteJSON(w, models.BankInfo{...}, http.StatusOK)
//	WriteJSON(w, models.APIErrorBody{Detail: "bank not found"}, http.StatusNotFound)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// EventWriter writes text/event-stream frames and flushes after each one.
type EventWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// StartEventStream sends the 200 header of an event stream. It fails with
// [ErrStreamingNotSupported] before writing anything if w cannot flush.
func StartEventStream(w http.ResponseWriter) (*EventWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingNotSupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &EventWriter{w: w, flusher: flusher}, nil
}

// Event writes one named frame. data must not contain newlines.
func (e *EventWriter) Event(name string, data []byte) error {
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

// Data writes one unnamed frame with the JSON encoding of v.
func (e *EventWriter) Data(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding frame: %w", err)
	}
	if _, err = fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}
