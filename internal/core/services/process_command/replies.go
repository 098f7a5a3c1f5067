package processcommand

const (
	AddUsage    = "add YYYY-MM-DD HH:mm <title>"
	RemoveUsage = "remove <id>"

	ReplyNoEvents     = "No events registered."
	ReplyStorageError = "Could not access the event store, please try again later."
)

const HelpText = "Commands (times are UTC+09:00):\n" +
	"• add YYYY-MM-DD HH:mm <title> - schedule a one-time reminder\n" +
	"• list - show upcoming and delivered events\n" +
	"• remove <id> (or del <id>) - delete an event\n" +
	"• help - show this message"
