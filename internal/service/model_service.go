package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/sse"
	"github.com/MKhiriev/go-bank-connect/models"
)

const modelPullPath = "/api/models/pull/stream"

// ModelService downloads classification models on the backend.
type ModelService struct {
	transport StreamOpener
	logger    *logger.Logger
}

func NewModelService(transport StreamOpener, log *logger.Logger) *ModelService {
	if log == nil {
		log = logger.Nop()
	}
	return &ModelService{transport: transport, logger: log}
}

// Pull starts the download of model and calls onProgress, which may be nil,
// for every progress frame. It returns nil once the backend reported
// success, [*PullFailedError] for an error frame and [ErrPullIncomplete] if
// the stream ended early.
func (s *ModelService) Pull(ctx context.Context, model string, onProgress func(models.ModelPullProgress)) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return ErrEmptyModelName
	}

	st, err := s.transport.Open(ctx, modelPullPath, models.ModelPullRequest{Model: model})
	if err != nil {
		return err
	}
	defer st.Close()

	var (
		done    bool
		failure error
	)
	handle := func(frames []json.RawMessage) bool {
		for _, frame := range frames {
			var p models.ModelPullProgress
			if err := json.Unmarshal(frame, &p); err != nil {
				s.logger.Warn().Err(err).Str("model", model).Msg("skipping pull frame")
				continue
			}
			if p.Error != "" {
				failure = &PullFailedError{Model: model, Message: p.Error}
				return true
			}
			if onProgress != nil {
				onProgress(p)
			}
			if p.Done() {
				done = true
				return true
			}
		}
		return false
	}

	decoder := sse.NewDataDecoder(s.logger)
	if err = st.ReadLoop(func(chunk []byte) bool { return handle(decoder.Feed(chunk)) }); err != nil {
		return err
	}
	if !done && failure == nil {
		handle(decoder.Flush())
	}

	switch {
	case failure != nil:
		return failure
	case !done:
		return ErrPullIncomplete
	}

	s.logger.Info().Str("model", model).Msg("model pulled")
	return nil
}
