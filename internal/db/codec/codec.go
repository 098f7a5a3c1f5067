package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"eventreminder/internal/core/domain/event"
	"fmt"
)

var (
	ErrEmpty     = errors.New("event store is empty")
	ErrMalformed = errors.New("event store is not a JSON array")
)

// Empty is the canonical content of a store without events.
var Empty = []byte("[]\n")

// Decode reads the stored array. Records with fields that can't be read
// are kept as they are, see event.Event.UnmarshalJSON.
func Decode(data []byte) ([]event.Event, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []event.Event{}, ErrEmpty
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return []event.Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	events := make([]event.Event, len(records))
	for i, record := range records {
		if err := events[i].UnmarshalJSON(record); err != nil {
			return []event.Event{}, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
	}
	return events, nil
}

// Encode writes the collection as a two-space indented JSON array with
// every instant rendered in event.Zone.
func Encode(events []event.Event) ([]byte, error) {
	normalized := event.Clone(events)
	for i := range normalized {
		normalized[i].ScheduledAt = normalized[i].ScheduledAt.In(event.Zone)
	}
	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
