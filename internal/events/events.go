package events

import (
	"os"
)

type IndexListingEvent struct {
	ListingID string `json:"listing_id"` // Database ID of the listing to (re)index
	Reason    string `json:"reason"`     // e.g. "updated" | "approval_accepted"
	TraceID   string `json:"trace_id"`   // This is used for tracing requests across services
}

// ApprovalEvent is raised whenever a pending approval is queued or resolved.
type ApprovalEvent struct {
	ApprovalID string   `json:"approval_id"`
	ListingID  string   `json:"listing_id"`
	OwnerID    string   `json:"owner_id"`
	ActorID    string   `json:"actor_id"` // Owner for queued, admin for accepted/rejected
	Fields     []string `json:"fields,omitempty"`
	TraceID    string   `json:"trace_id"`
}

type EventConfig struct {
	IndexListing     string
	ApprovalQueued   string
	ApprovalAccepted string
	ApprovalRejected string
}

func NewEventConfig() *EventConfig {
	return &EventConfig{
		IndexListing:     getenv("EVENT_INDEX_LISTING", "listing.index"),
		ApprovalQueued:   getenv("EVENT_APPROVAL_QUEUED", "approval.queued"),
		ApprovalAccepted: getenv("EVENT_APPROVAL_ACCEPTED", "approval.accepted"),
		ApprovalRejected: getenv("EVENT_APPROVAL_REJECTED", "approval.rejected"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
