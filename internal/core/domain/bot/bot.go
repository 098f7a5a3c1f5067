package bot

import "context"

// CommandReply is the private answer to one slash-command invocation.
type CommandReply struct {
	ResponseURL string
	Text        string
}

type CommandResponder interface {
	RespondToCommand(ctx context.Context, r CommandReply) error
}
