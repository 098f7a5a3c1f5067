package event

import (
	"time"

	"github.com/golang-module/carbon/v2"
)

const KeyLayout = "2006-01-02 15:04"

// Zone is the only offset events are scheduled and matched in.
var Zone = time.FixedZone("UTC+09:00", 9*60*60)

// Bucket identifies one calendar minute. Two instants are in the same
// bucket iff they fall into the same minute, whatever zone they carry.
type Bucket struct {
	minute int64
}

func BucketOf(t time.Time) Bucket {
	start := carbon.Time2Carbon(t).SetLocation(Zone).StartOfMinute().Carbon2Time()
	return Bucket{minute: start.Unix() / 60}
}

func (b Bucket) Time() time.Time {
	return time.Unix(b.minute*60, 0).In(Zone)
}

// String renders the bucket as "YYYY-MM-DD HH:mm" in Zone.
func (b Bucket) String() string {
	return b.Time().Format(KeyLayout)
}

// FormatInstant renders t the way replies and reminders show it.
func FormatInstant(t time.Time) string {
	return BucketOf(t).String()
}

// ParseInstant reads "YYYY-MM-DD HH:mm" as a moment in Zone.
func ParseInstant(value string) (time.Time, error) {
	return time.ParseInLocation(KeyLayout, value, Zone)
}
