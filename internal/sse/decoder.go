// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sse

import (
	"bytes"
	"encoding/json"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
)

// Event is one fully formed server-sent event.
type Event struct {
	// Type is the value of the `event:` line.
	Type string
	// Data is the JSON payload of the `data:` line(s).
	Data json.RawMessage
}

var (
	prefixEvent = []byte("event:")
	prefixData  = []byte("data:")
)

// Decoder splits a chunked SSE body into events.
//
// Lines are separated by "\n" (a trailing "\r" is dropped). An event is
// emitted at the first blank line once both an `event:` and a `data:` line
// were seen. An `event:` line keeps waiting for its data across blank lines
// and Feed calls; `data:` lines of a block that has no event type are
// dropped at the blank line ending it. Incomplete lines stay pending too.
type Decoder struct {
	buf []byte

	eventType string
	data      []byte
	hasType   bool
	hasData   bool

	logger *logger.Logger
}

// NewDecoder returns an empty decoder. A nil logger discards output.
func NewDecoder(log *logger.Logger) *Decoder {
	if log == nil {
		log = logger.Nop()
	}
	return &Decoder{logger: log}
}

// Feed appends chunk to the buffer and returns every event completed by it,
// in arrival order. Frames whose data is not valid JSON are logged and
// skipped.
func (d *Decoder) Feed(chunk []byte) []Event {
	d.buf = append(d.buf, chunk...)

	var events []Event
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}
		line := bytes.TrimSuffix(d.buf[:idx], []byte("\r"))
		if ev, ok := d.processLine(line); ok {
			events = append(events, ev)
		}
		d.buf = d.buf[idx+1:]
	}

	// release the consumed prefix once the buffer drains
	if len(d.buf) == 0 {
		d.buf = nil
	}

	return events
}

// Flush treats whatever is left in the buffer as a final line followed by a
// blank line. Call it once the body hit EOF; an event type still waiting
// for data is discarded.
func (d *Decoder) Flush() []Event {
	var events []Event
	if len(d.buf) > 0 {
		line := bytes.TrimSuffix(d.buf, []byte("\r"))
		if ev, ok := d.processLine(line); ok {
			events = append(events, ev)
		}
		d.buf = nil
	}
	if ev, ok := d.processLine(nil); ok {
		events = append(events, ev)
	}
	if d.hasType {
		d.logger.Debug().Str("event", d.eventType).Msg("sse body ended before event data")
		d.clearPending()
	}
	return events
}

// Reset drops the buffer and any pending fields.
func (d *Decoder) Reset() {
	d.buf = nil
	d.clearPending()
}

// Pending reports whether unconsumed bytes or fields are buffered.
func (d *Decoder) Pending() bool {
	return len(d.buf) > 0 || d.hasType || d.hasData
}

func (d *Decoder) processLine(line []byte) (Event, bool) {
	switch {
	case len(line) == 0:
		return d.dispatch()
	case line[0] == ':':
		// comment / keep-alive
	case bytes.HasPrefix(line, prefixEvent):
		d.eventType = string(fieldValue(line[len(prefixEvent):]))
		d.hasType = true
	case bytes.HasPrefix(line, prefixData):
		value := fieldValue(line[len(prefixData):])
		if d.hasData {
			d.data = append(d.data, '\n')
		}
		d.data = append(d.data, value...)
		d.hasData = true
	}
	return Event{}, false
}

func (d *Decoder) dispatch() (Event, bool) {
	switch {
	case d.hasType && !d.hasData:
		return Event{}, false
	case !d.hasType:
		if d.hasData {
			d.logger.Debug().Int("bytes", len(d.data)).Msg("dropping sse data without event type")
		}
		d.clearPending()
		return Event{}, false
	}

	ev := Event{Type: d.eventType, Data: json.RawMessage(bytes.Clone(d.data))}
	d.clearPending()

	if !json.Valid(ev.Data) {
		d.logger.Warn().
			Str("event", ev.Type).
			Int("bytes", len(ev.Data)).
			Msg("skipping sse frame with malformed json payload")
		return Event{}, false
	}

	return ev, true
}

func (d *Decoder) clearPending() {
	d.eventType = ""
	d.data = nil
	d.hasType = false
	d.hasData = false
}

// fieldValue strips the single optional space after the colon.
func fieldValue(v []byte) []byte {
	return bytes.TrimPrefix(v, []byte(" "))
}
