package bot

import (
	"context"
	"sync"
)

type FakeCommandResponder struct {
	Replies []CommandReply
	Error   error
	// Done receives every reply once it has been recorded.
	Done chan CommandReply
	lock sync.Mutex
}

func NewFakeCommandResponder() *FakeCommandResponder {
	return &FakeCommandResponder{Done: make(chan CommandReply, 16)}
}

func (r *FakeCommandResponder) RespondToCommand(ctx context.Context, reply CommandReply) error {
	r.lock.Lock()
	r.Replies = append(r.Replies, reply)
	r.lock.Unlock()
	r.Done <- reply
	return r.Error
}
