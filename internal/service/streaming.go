package service

import (
	"context"
)

// Stream stages
const (
	StageStart    = "start"
	StageCheck    = "check"
	StageLookup   = "lookup"
	StageComplete = "complete"
	StageError    = "error"
)

// StreamEvent represents a progressive event during an analysis
type StreamEvent struct {
	Stage   string      `json:"stage"`   // one of the Stage constants
	Message string      `json:"message"` // Human-readable message
	Data    interface{} `json:"data"`    // Stage-specific data or final result
}

// AnalyzeStreaming runs Analyze and emits progress events as the analysis proceeds.
// Local check results are sent before remote lookups finish. The channel is
// closed after the complete or error event.
func (s *Service) AnalyzeStreaming(ctx context.Context, raw string) <-chan StreamEvent {
	events := make(chan StreamEvent, 16)

	go func() {
		defer close(events)

		send := func(evt StreamEvent) {
			select {
			case events <- evt:
			case <-ctx.Done():
			}
		}

		result, err := s.analyze(ctx, raw, send)
		if err != nil {
			send(StreamEvent{Stage: StageError, Message: result.Error, Data: result})
		}
	}()

	return events
}
