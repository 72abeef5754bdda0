package events

import (
	"context"
	"encoding/json"
	"log/slog"
)

// IndexerQueue is the queue group shared by every indexer replica.
const IndexerQueue = "files-indexer"

type EventReader struct {
	bus    Bus
	config *EventConfig
	logger *slog.Logger
}

func NewEventReader(bus Bus, config *EventConfig, logger *slog.Logger) *EventReader {
	return &EventReader{
		bus:    bus,
		config: config,
		logger: logger,
	}
}

// SubscribeToIndexListingEvents delivers listing.index events to handler.
// Events without a listing id are acked and dropped.
func (r *EventReader) SubscribeToIndexListingEvents(handler func(ctx context.Context, evt IndexListingEvent) error) error {
	return subscribe(r, r.config.IndexListing, IndexerQueue, func(ctx context.Context, evt IndexListingEvent) error {
		if evt.ListingID == "" {
			r.logger.WarnContext(ctx, "Discarding index event without listing id", "reason", evt.Reason)
			return nil
		}
		return handler(ctx, evt)
	})
}

// subscribe decodes each payload into T. A malformed payload is acked since a
// redelivery can never succeed; handler errors are returned so the bus redelivers.
func subscribe[T any](r *EventReader, subject, queue string, handler func(ctx context.Context, evt T) error) error {
	r.logger.Info("Subscribing to events", "subject", subject, "queue", queue)

	_, err := r.bus.Subscribe(subject, queue, func(ctx context.Context, payload []byte) error {
		var evt T
		if err := json.Unmarshal(payload, &evt); err != nil {
			r.logger.ErrorContext(ctx, "Discarding malformed event", "subject", subject, "error", err)
			return nil
		}
		return handler(ctx, evt)
	})
	return err
}
