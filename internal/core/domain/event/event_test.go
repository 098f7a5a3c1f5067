package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextID(t *testing.T) {
	cases := []struct {
		id       string
		events   []Event
		expected ID
	}{
		{id: "empty", events: nil, expected: 1},
		{id: "single", events: []Event{{ID: 1}}, expected: 2},
		{id: "gaps", events: []Event{{ID: 3}, {ID: 1}, {ID: 7}}, expected: 8},
		{id: "only malformed", events: []Event{{ID: 0}, {ID: 0}}, expected: 1},
		{id: "mixed", events: []Event{{ID: 0}, {ID: 4}}, expected: 5},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testcase.expected, NextID(testcase.events))
		})
	}
}

func TestIDUnmarshalJSON(t *testing.T) {
	cases := []struct {
		raw      string
		expected ID
	}{
		{raw: `1`, expected: 1},
		{raw: `42`, expected: 42},
		{raw: `"7"`, expected: 7},
		{raw: `" 8 "`, expected: 8},
		{raw: `"abc"`, expected: 0},
		{raw: `null`, expected: 0},
		{raw: `1.5`, expected: 0},
		{raw: `-3`, expected: 0},
		{raw: `true`, expected: 0},
	}
	for _, testcase := range cases {
		t.Run(testcase.raw, func(t *testing.T) {
			assert := require.New(t)
			var ev Event
			err := json.Unmarshal([]byte(`{"id": `+testcase.raw+`, "title": "x"}`), &ev)
			assert.NoError(err)
			assert.Equal(testcase.expected, ev.ID)
		})
	}
}

func TestEventValidate(t *testing.T) {
	at := time.Date(2026, 1, 12, 9, 30, 0, 0, Zone)

	assert := require.New(t)
	valid := Event{ID: 1, ScheduledAt: at, Title: "Standup"}
	assert.NoError(valid.Validate())

	noTitle := Event{ID: 1, ScheduledAt: at, Title: "   "}
	assert.ErrorIs(noTitle.Validate(), ErrInvalidTitle)

	withSeconds := Event{ID: 1, ScheduledAt: at.Add(5 * time.Second), Title: "Standup"}
	assert.ErrorIs(withSeconds.Validate(), ErrInvalidScheduledAt)

	noID := Event{ScheduledAt: at, Title: "Standup"}
	assert.Error(noID.Validate())
}

func TestIsDue(t *testing.T) {
	at := time.Date(2026, 1, 12, 9, 30, 0, 0, Zone)
	now := BucketOf(at.Add(20 * time.Second))

	assert := require.New(t)
	assert.True((&Event{ScheduledAt: at}).IsDue(now))
	assert.False((&Event{ScheduledAt: at, Notified: true}).IsDue(now))
	assert.False((&Event{ScheduledAt: at.Add(time.Minute)}).IsDue(now))
	assert.False((&Event{ScheduledAt: at.Add(-time.Minute)}).IsDue(now))
}

func TestSortByScheduledAtIsStable(t *testing.T) {
	at := time.Date(2026, 1, 12, 9, 30, 0, 0, Zone)
	events := []Event{
		{ID: 1, ScheduledAt: at.Add(time.Hour)},
		{ID: 2, ScheduledAt: at},
		{ID: 3, ScheduledAt: at.Add(time.Hour)},
		{ID: 4, ScheduledAt: at.Add(-time.Hour)},
	}

	SortByScheduledAt(events)

	assert := require.New(t)
	ids := []ID{}
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	assert.Equal([]ID{4, 2, 1, 3}, ids)
}
