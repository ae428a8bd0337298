// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sse

import (
	"bytes"
	"encoding/json"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
)

// DataDecoder is the single-field decoder for streams where every `data:`
// line carries a complete JSON frame and event names are irrelevant.
type DataDecoder struct {
	buf    []byte
	logger *logger.Logger
}

// NewDataDecoder returns an empty decoder. A nil logger discards output.
func NewDataDecoder(log *logger.Logger) *DataDecoder {
	if log == nil {
		log = logger.Nop()
	}
	return &DataDecoder{logger: log}
}

// Feed returns the payload of every complete `data:` line in chunk.
func (d *DataDecoder) Feed(chunk []byte) []json.RawMessage {
	d.buf = append(d.buf, chunk...)

	var frames []json.RawMessage
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}
		if frame, ok := d.processLine(d.buf[:idx]); ok {
			frames = append(frames, frame)
		}
		d.buf = d.buf[idx+1:]
	}
	if len(d.buf) == 0 {
		d.buf = nil
	}
	return frames
}

// Flush decodes a trailing line that had no newline.
func (d *DataDecoder) Flush() []json.RawMessage {
	defer d.Reset()
	if frame, ok := d.processLine(d.buf); ok {
		return []json.RawMessage{frame}
	}
	return nil
}

// Reset drops buffered bytes.
func (d *DataDecoder) Reset() {
	d.buf = nil
}

func (d *DataDecoder) processLine(line []byte) (json.RawMessage, bool) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !bytes.HasPrefix(line, prefixData) {
		return nil, false
	}

	payload := fieldValue(line[len(prefixData):])
	if !json.Valid(payload) {
		d.logger.Warn().Int("bytes", len(payload)).Msg("skipping malformed data frame")
		return nil, false
	}
	return json.RawMessage(bytes.Clone(payload)), true
}
