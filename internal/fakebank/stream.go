package fakebank

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/MKhiriev/go-bank-connect/models"
)

func (h *Handler) syncStream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.SyncStreamRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	if req.BLZ != "" {
		if err := h.bank.requireCredentials(req.BLZ); err != nil {
			writeError(w, err)
			return
		}
	}

	ew, err := utils.StartEventStream(w)
	if err != nil {
		writeError(w, err)
		return
	}
	subject, _ := utils.GetSubjectFromContext(r.Context())
	log.Info().Str("subject", subject).Str("blz", req.BLZ).Msg("sync stream started")

	for _, ev := range h.bank.SyncEvents(req) {
		data, err := eventPayload(ev)
		if err != nil {
			log.Err(err).Str("event", string(ev.EventType())).Msg("error encoding event")
			return
		}
		if err = ew.Event(string(ev.EventType()), data); err != nil {
			log.Err(err).Msg("client went away")
			return
		}

		if !h.pause(r) {
			log.Debug().Msg("sync stream canceled by client")
			return
		}
	}
}

func (h *Handler) pullModel(w http.ResponseWriter, r *http.Request) {
	var req models.ModelPullRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	frames, err := h.bank.PullFrames(req.Model)
	if err != nil {
		writeError(w, err)
		return
	}

	ew, err := utils.StartEventStream(w)
	if err != nil {
		writeError(w, err)
		return
	}

	for _, frame := range frames {
		if err = ew.Data(frame); err != nil {
			logger.FromRequest(r).Err(err).Msg("error writing pull frame")
			return
		}

		if !h.pause(r) {
			return
		}
	}
}

// pause waits eventDelay and reports false if the client went away.
func (h *Handler) pause(r *http.Request) bool {
	if h.eventDelay <= 0 {
		return r.Context().Err() == nil
	}
	t := time.NewTimer(h.eventDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

// eventPayload encodes ev and repeats its name in event_type, like the real
// backend does.
func eventPayload(ev models.SyncEvent) ([]byte, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err = json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["event_type"] = ev.EventType()
	return json.Marshal(fields)
}
