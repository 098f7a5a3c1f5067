package event

import (
	"bytes"
	"encoding/json"
	"sort"
)

const (
	fieldID          = "id"
	fieldScheduledAt = "scheduledAt"
	fieldTitle       = "title"
	fieldNotified    = "notified"
)

var fieldOrder = []string{fieldID, fieldScheduledAt, fieldTitle, fieldNotified}

// UnmarshalJSON never fails. A field that can't be read is left at its
// zero value and its stored JSON is kept, together with unknown fields and
// records that are not objects at all, so that MarshalJSON writes it back.
func (ev *Event) UnmarshalJSON(data []byte) error {
	*ev = Event{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		ev.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
		return nil
	}

	for key, value := range fields {
		if !ev.decodeField(key, value) {
			if ev.kept == nil {
				ev.kept = map[string]json.RawMessage{}
			}
			ev.kept[key] = append(json.RawMessage(nil), value...)
		}
	}
	return nil
}

func (ev *Event) decodeField(key string, value json.RawMessage) bool {
	if isNull(value) {
		return false
	}
	switch key {
	case fieldID:
		_ = json.Unmarshal(value, &ev.ID)
		return ev.ID > 0
	case fieldScheduledAt:
		return json.Unmarshal(value, &ev.ScheduledAt) == nil
	case fieldTitle:
		return json.Unmarshal(value, &ev.Title) == nil
	case fieldNotified:
		return json.Unmarshal(value, &ev.Notified) == nil
	}
	return false
}

// MarshalJSON writes the known fields in a fixed order followed by the
// kept ones. A kept field is written as stored while its value is still
// zero.
func (ev Event) MarshalJSON() ([]byte, error) {
	if ev.raw != nil {
		return ev.raw, nil
	}

	values := map[string]struct {
		value  any
		isZero bool
	}{
		fieldID:          {ev.ID, ev.ID == 0},
		fieldScheduledAt: {ev.ScheduledAt, ev.ScheduledAt.IsZero()},
		fieldTitle:       {ev.Title, ev.Title == ""},
		fieldNotified:    {ev.Notified, !ev.Notified},
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, value json.RawMessage) {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(key)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}

	for _, key := range fieldOrder {
		field := values[key]
		if stored, ok := ev.kept[key]; ok && field.isZero {
			write(key, stored)
			continue
		}
		data, err := json.Marshal(field.value)
		if err != nil {
			return nil, err
		}
		write(key, data)
	}

	extra := make([]string, 0, len(ev.kept))
	for key := range ev.kept {
		if _, known := values[key]; !known {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		write(key, ev.kept[key])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IsMalformed reports whether the stored record had fields that could not
// be read or was not an object.
func (ev *Event) IsMalformed() bool {
	if ev.raw != nil {
		return true
	}
	for key := range ev.kept {
		for _, known := range fieldOrder {
			if key == known {
				return true
			}
		}
	}
	return false
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
