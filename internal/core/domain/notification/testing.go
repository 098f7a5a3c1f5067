package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrFakeDeliveryFailed = errors.New("delivery failed")

type FakeSink struct {
	Sent     []Message
	Attempts []Message
	Error    error
	// FailIfContains makes delivery fail for messages containing the text.
	FailIfContains string
	lock           sync.Mutex
}

func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

func (s *FakeSink) Post(ctx context.Context, m Message) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Attempts = append(s.Attempts, m)
	if s.Error != nil {
		return s.Error
	}
	if s.FailIfContains != "" && strings.Contains(m.Text, s.FailIfContains) {
		return ErrFakeDeliveryFailed
	}
	s.Sent = append(s.Sent, m)
	return nil
}
