package codec

import (
	"context"
	"eventreminder/internal/core/domain/event"
	"eventreminder/internal/core/domain/logging"
)

// DecodeOrReset decodes a stored collection and logs the records that are
// kept malformed. needsReset reports that the stored content is unusable as a whole
// and must be replaced with Empty.
func DecodeOrReset(
	ctx context.Context,
	log logging.Logger,
	source string,
	data []byte,
) (events []event.Event, needsReset bool) {
	events, err := Decode(data)
	if err != nil {
		log.Warning(
			ctx,
			"Event store is unreadable and will be reset.",
			logging.Entry("source", source),
			logging.Entry("err", err),
		)
		return events, true
	}
	for i := range events {
		if events[i].IsMalformed() {
			log.Warning(
				ctx,
				"Malformed event record is kept as stored.",
				logging.Entry("source", source),
				logging.Entry("index", i),
				logging.Entry("id", events[i].ID),
			)
		}
	}
	return events, false
}
