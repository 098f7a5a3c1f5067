package notification

import "context"

type ChannelID string

type Message struct {
	Channel ChannelID
	Text    string
}

// Sink delivers a message to a channel of the messaging platform.
type Sink interface {
	Post(ctx context.Context, m Message) error
}
