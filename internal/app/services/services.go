package services

import (
	"eventreminder/internal/app/deps"
	"eventreminder/internal/app/scheduler"
	"eventreminder/internal/core/domain/notification"
	drl "eventreminder/internal/core/domain/rate_limiter"
	"eventreminder/internal/core/services"
	addevent "eventreminder/internal/core/services/add_event"
	listevents "eventreminder/internal/core/services/list_events"
	processcommand "eventreminder/internal/core/services/process_command"
	ratelimiting "eventreminder/internal/core/services/rate_limiting"
	removeevent "eventreminder/internal/core/services/remove_event"
	sendreminders "eventreminder/internal/core/services/send_reminders"
)

type Services struct {
	AddEvent      services.Service[addevent.Input, addevent.Result]
	ListEvents    services.Service[listevents.Input, listevents.Result]
	RemoveEvent   services.Service[removeevent.Input, removeevent.Result]
	SendReminders services.Service[sendreminders.Input, sendreminders.Result]

	// ProcessCommand is used by local operators, ProcessSlackCommand by the
	// slash command endpoint where per-user rate limits apply.
	ProcessCommand      services.Service[processcommand.Input, processcommand.Result]
	ProcessSlackCommand services.Service[processcommand.Input, processcommand.Result]

	Scheduler *scheduler.Scheduler
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendReminders = sendreminders.New(
		deps.NamedLogger("reminders"),
		deps.UnitOfWork,
		deps.NotificationSink,
		notification.ChannelID(deps.Config.SlackChannelID),
		deps.Now,
	)
	s.Scheduler = scheduler.New(deps.NamedLogger("scheduler"), s.SendReminders, deps.Config.SchedulerPeriod)

	s.AddEvent = scheduler.NotifyAfter(addevent.New(deps.Logger, deps.UnitOfWork), s.Scheduler)
	s.ListEvents = listevents.New(deps.Logger, deps.UnitOfWork)
	s.RemoveEvent = removeevent.New(deps.Logger, deps.UnitOfWork)

	s.ProcessCommand = processcommand.New(deps.Logger, s.AddEvent, s.ListEvents, s.RemoveEvent)
	s.ProcessSlackCommand = s.ProcessCommand
	if deps.RateLimiter != nil {
		s.ProcessSlackCommand = ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			drl.Limit{Value: deps.Config.CommandRateLimitPerMinute, Interval: drl.Minute},
			"command",
			s.ProcessCommand,
		)
	}

	return s
}
