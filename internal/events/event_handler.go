package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

type EventHandler struct {
	bus    Bus
	config *EventConfig
	logger *slog.Logger
}

func NewEventHandler(bus Bus, config *EventConfig, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		bus:    bus,
		config: config,
		logger: logger,
	}
}

func (h *EventHandler) RaiseIndexListingEvent(evt IndexListingEvent) error {
	h.logger.Info("Raising IndexListingEvent", "listing_id", evt.ListingID, "reason", evt.Reason)

	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("Failed to marshal IndexListingEvent", "error", err)
		return err
	}

	// Not deduplicated by id: every change must trigger a fresh index pass.
	return h.bus.Publish(h.config.IndexListing, data, "")
}

func (h *EventHandler) RaiseApprovalQueuedEvent(evt ApprovalEvent) error {
	return h.raiseApprovalEvent(h.config.ApprovalQueued, "queued", evt)
}

func (h *EventHandler) RaiseApprovalAcceptedEvent(evt ApprovalEvent) error {
	return h.raiseApprovalEvent(h.config.ApprovalAccepted, "accepted", evt)
}

func (h *EventHandler) RaiseApprovalRejectedEvent(evt ApprovalEvent) error {
	return h.raiseApprovalEvent(h.config.ApprovalRejected, "rejected", evt)
}

func (h *EventHandler) raiseApprovalEvent(subject, kind string, evt ApprovalEvent) error {
	h.logger.Info("Raising ApprovalEvent",
		"kind", kind,
		"approval_id", evt.ApprovalID,
		"listing_id", evt.ListingID,
		"actor_id", evt.ActorID,
	)

	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("Failed to marshal ApprovalEvent", "error", err)
		return err
	}

	// Approval ids are never reused, so they make a safe JetStream dedup key.
	msgId := fmt.Sprintf("approval.%s.%s", kind, evt.ApprovalID)
	return h.bus.Publish(subject, data, msgId)
}
