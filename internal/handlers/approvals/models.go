package approvals

import (
	"time"
	"unicode/utf8"

	"filemarket/internal/approval"
	"filemarket/internal/handlers/listings"
)

const (
	DefaultQueueLimit = 50
	MaxQueueLimit     = 200

	cardOverviewLen = 150
)

type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// Card is one entry of the admin review queue.
type Card struct {
	ApprovalID    string    `json:"approval_id"`
	ListingID     string    `json:"listing_id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	OverviewShort string    `json:"overview_short"`
	CreatedAt     time.Time `json:"created_at"`
}

type Resolution struct {
	ApprovalID string                    `json:"approval_id"`
	ListingID  string                    `json:"listing_id"`
	Decision   Decision                  `json:"decision"`
	Listing    *listings.ListingResponse `json:"listing,omitempty"`
}

// PreviewResponse shows the listing as it is and as it would be after accepting.
type PreviewResponse struct {
	Current  listings.ListingResponse `json:"current"`
	Proposed listings.ListingResponse `json:"proposed"`
	Pending  *approval.Pending        `json:"pending_approval"`
}

func toCard(s approval.Summary) Card {
	return Card{
		ApprovalID:    s.ID,
		ListingID:     s.ListingID,
		OwnerID:       s.OwnerID,
		Title:         s.Title,
		OverviewShort: truncate(s.OverviewShort, cardOverviewLen),
		CreatedAt:     s.CreatedAt,
	}
}

// truncate cuts s to limit runes and marks the cut with "...".
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
