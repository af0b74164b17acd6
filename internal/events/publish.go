package events

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Emit publishes an event and only logs failures. Writes are already
// committed when events go out, a lost notification must not fail them.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish event",
			"event_type", e.Type,
			"board_id", e.BoardID,
			"task_id", e.TaskID,
			"error", err)
	}
}

// decodeEvent parses a payload received from source. Payloads that are not
// events are logged and reported as not ok.
func decodeEvent(source string, data []byte) (Event, bool) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		slog.Warn("dropping undecodable event",
			"source", source,
			"bytes", len(data),
			"error", err)
		return Event{}, false
	}
	return e, true
}
