package processcommand

import (
	"context"
	"errors"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
	"eventreminder/internal/core/services"
	addevent "eventreminder/internal/core/services/add_event"
	listevents "eventreminder/internal/core/services/list_events"
	removeevent "eventreminder/internal/core/services/remove_event"
	"fmt"
	"strings"
)

type Input struct {
	Text   string
	UserID string
}

func (i Input) GetRateLimitKey() string {
	return i.UserID
}

type Result struct {
	Reply string
}

type service struct {
	log           logging.Logger
	addService    services.Service[addevent.Input, addevent.Result]
	listService   services.Service[listevents.Input, listevents.Result]
	removeService services.Service[removeevent.Input, removeevent.Result]
}

func New(
	log logging.Logger,
	addService services.Service[addevent.Input, addevent.Result],
	listService services.Service[listevents.Input, listevents.Result],
	removeService services.Service[removeevent.Input, removeevent.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if addService == nil {
		panic(e.NewNilArgumentError("addService"))
	}
	if listService == nil {
		panic(e.NewNilArgumentError("listService"))
	}
	if removeService == nil {
		panic(e.NewNilArgumentError("removeService"))
	}
	return &service{
		log:           log,
		addService:    addService,
		listService:   listService,
		removeService: removeService,
	}
}

// Run never fails on user input: every outcome, including storage errors,
// is turned into a reply. The error is returned for the caller to log.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	cmd := Parse(input.Text)
	s.log.Debug(
		ctx,
		"Command received.",
		logging.Entry("userID", input.UserID),
		logging.Entry("subcommand", cmd.Name),
	)

	switch cmd.Name {
	case "", "help":
		result.Reply = HelpText
	case "add":
		result.Reply, err = s.add(ctx, cmd.Args)
	case "list":
		result.Reply, err = s.list(ctx)
	case "remove", "del":
		result.Reply, err = s.remove(ctx, cmd.Args)
	default:
		result.Reply = fmt.Sprintf("Unknown subcommand %q.\n%s", cmd.Raw, HelpText)
	}
	return result, err
}

func (s *service) add(ctx context.Context, args string) (string, error) {
	addArgs, err := ParseAddArgs(args)
	if err != nil {
		return usage(AddUsage, err), nil
	}

	result, err := s.addService.Run(ctx, addevent.Input{ScheduledAt: addArgs.ScheduledAt, Title: addArgs.Title})
	if err != nil {
		if errors.Is(err, event.ErrInvalidTitle) || errors.Is(err, event.ErrInvalidScheduledAt) {
			return usage(AddUsage, err), nil
		}
		return ReplyStorageError, err
	}
	return fmt.Sprintf(
		"Added event ID=%d: %s %s",
		result.Event.ID,
		event.FormatInstant(result.Event.ScheduledAt),
		result.Event.Title,
	), nil
}

func (s *service) list(ctx context.Context) (string, error) {
	result, err := s.listService.Run(ctx, listevents.Input{})
	if err != nil {
		return ReplyStorageError, err
	}
	if len(result.Events) == 0 {
		return ReplyNoEvents, nil
	}

	lines := make([]string, 0, len(result.Events)+1)
	for _, ev := range result.Events {
		lines = append(lines, FormatListItem(ev))
	}
	if result.TotalCount > len(result.Events) {
		lines = append(lines, fmt.Sprintf("…and %d more.", result.TotalCount-len(result.Events)))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *service) remove(ctx context.Context, args string) (string, error) {
	id, err := ParseRemoveArgs(args)
	if err != nil {
		return usage(RemoveUsage, err), nil
	}

	_, err = s.removeService.Run(ctx, removeevent.Input{ID: id})
	switch {
	case errors.Is(err, event.ErrEventDoesNotExist):
		return fmt.Sprintf("Event ID=%d not found.", id), nil
	case err != nil:
		return ReplyStorageError, err
	}
	return fmt.Sprintf("Removed event ID=%d.", id), nil
}

// FormatListItem renders one event as a bulleted line with a status glyph.
func FormatListItem(ev event.Event) string {
	status := "⏳"
	if ev.Notified {
		status = "✅"
	}
	return fmt.Sprintf("• [%d] %s %s %s", ev.ID, event.FormatInstant(ev.ScheduledAt), ev.Title, status)
}

func usage(usage string, err error) string {
	return fmt.Sprintf("Invalid arguments: %s\nUsage: %s", err, usage)
}
