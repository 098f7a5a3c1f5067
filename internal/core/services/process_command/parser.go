package processcommand

import (
	"errors"
	"eventreminder/internal/core/domain/event"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
	idPattern   = regexp.MustCompile(`^[-+]?\d+$`)

	errInvalidInstant = errors.New("no such date or time")
	errInvalidID      = errors.New("must be a positive event ID")
)

type Command struct {
	// Name is the lower-cased subcommand, Raw keeps it as typed.
	Name string
	Raw  string
	Args string
}

func Parse(text string) Command {
	raw, rest := nextToken(text)
	return Command{
		Name: strings.ToLower(raw),
		Raw:  raw,
		Args: strings.TrimSpace(rest),
	}
}

type AddArgs struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Title string `json:"title"`

	ScheduledAt time.Time `json:"-"`
}

func (a *AddArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Date, validation.Required, validation.Match(datePattern)),
		validation.Field(&a.Time, validation.Required, validation.Match(timePattern), validation.By(validateClock)),
		validation.Field(&a.Title, validation.Required),
	)
}

func ParseAddArgs(args string) (AddArgs, error) {
	date, rest := nextToken(args)
	clock, rest := nextToken(rest)
	a := AddArgs{Date: date, Time: clock, Title: strings.TrimSpace(rest)}
	if err := a.Validate(); err != nil {
		return a, err
	}

	at, err := event.ParseInstant(a.Date + " " + a.Time)
	if err != nil {
		return a, errInvalidInstant
	}
	a.ScheduledAt = at
	return a, nil
}

type removeArgs struct {
	ID string `json:"id"`
}

func (a *removeArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.ID, validation.Required, validation.Match(idPattern), validation.By(validateID)),
	)
}

func ParseRemoveArgs(args string) (event.ID, error) {
	token, _ := nextToken(args)
	a := removeArgs{ID: token}
	if err := a.Validate(); err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(a.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return event.ID(id), nil
}

// validateID rejects ids that are out of range or not positive. Stored
// records with an unreadable id count as 0 and must never match.
func validateID(value interface{}) error {
	s, _ := value.(string)
	if !idPattern.MatchString(s) {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return errInvalidID
	}
	return nil
}

func validateClock(value interface{}) error {
	s, _ := value.(string)
	if !timePattern.MatchString(s) {
		return nil
	}
	hour, _ := strconv.Atoi(s[:2])
	minute, _ := strconv.Atoi(s[3:])
	if hour > 23 || minute > 59 {
		return errors.New("must be a time between 00:00 and 23:59")
	}
	return nil
}

func nextToken(s string) (token string, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}
