package event

import (
	"encoding/json"
	e "eventreminder/internal/core/domain/errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

type ID int64

// UnmarshalJSON accepts numbers and numeric strings. Anything else decodes
// to 0 instead of failing, so one malformed record can't poison the store.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = 0
	raw := strings.TrimSpace(string(data))
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err == nil && n > 0 {
		*id = ID(n)
	}
	return nil
}

type Event struct {
	ID          ID        `json:"id"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Title       string    `json:"title"`
	Notified    bool      `json:"notified"`

	raw  json.RawMessage
	kept map[string]json.RawMessage
}

func (ev *Event) Validate() error {
	if ev.ID <= 0 {
		return e.NewInvalidStateError("event ID must be positive")
	}
	if strings.TrimSpace(ev.Title) == "" {
		return ErrInvalidTitle
	}
	if ev.ScheduledAt.IsZero() || ev.ScheduledAt.Second() != 0 || ev.ScheduledAt.Nanosecond() != 0 {
		return ErrInvalidScheduledAt
	}
	return nil
}

// Bucket returns the minute bucket the event is due in.
func (ev *Event) Bucket() Bucket {
	return BucketOf(ev.ScheduledAt)
}

// IsDue reports whether a pending event falls into the bucket now.
func (ev *Event) IsDue(now Bucket) bool {
	return !ev.Notified && ev.Bucket() == now
}

// NextID returns one greater than the highest ID present, or 1.
func NextID(events []Event) ID {
	var max ID
	for _, ev := range events {
		if ev.ID > max {
			max = ev.ID
		}
	}
	return max + 1
}

// SortByScheduledAt orders events by their instant, keeping the stored
// order for events scheduled at the same moment.
func SortByScheduledAt(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ScheduledAt.Before(events[j].ScheduledAt)
	})
}

// Clone returns a copy that can be mutated without touching the source.
func Clone(events []Event) []Event {
	if events == nil {
		return []Event{}
	}
	cloned := make([]Event, len(events))
	copy(cloned, events)
	return cloned
}
