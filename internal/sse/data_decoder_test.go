package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDecoder_Feed(t *testing.T) {
	d := NewDataDecoder(nil)

	frames := d.Feed([]byte("data: {\"status\":\"pulling\"}\n\ndata: {\"sta"))
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"status":"pulling"}`, string(frames[0]))

	frames = d.Feed([]byte("tus\":\"success\"}\n"))
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"status":"success"}`, string(frames[0]))
}

func TestDataDecoder_IgnoresOtherLinesAndBadJSON(t *testing.T) {
	d := NewDataDecoder(nil)

	frames := d.Feed([]byte("event: progress\n: ping\ndata: nope\ndata: {\"total\":10}\r\n"))
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"total":10}`, string(frames[0]))
}

func TestDataDecoder_Flush(t *testing.T) {
	d := NewDataDecoder(nil)
	assert.Empty(t, d.Feed([]byte(`data: {"status":"done"}`)))

	frames := d.Flush()
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"status":"done"}`, string(frames[0]))
	assert.Empty(t, d.Flush())
}
