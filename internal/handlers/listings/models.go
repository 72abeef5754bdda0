package listings

import (
	"io"
	"time"

	"filemarket/internal/approval"
	"filemarket/internal/database/postgresql"
	repo "filemarket/internal/database/postgresql/sqlc"
	"filemarket/internal/video"
)

// ListingRequest is a partial update. A nil pointer means the field was not
// sent; a non-nil pointer to "" is an explicit clear.
type ListingRequest struct {
	Title         *string
	Overview      *string
	OverviewShort *string

	// Minor currency units
	Price *int64
	Live  *bool

	YouTubeURL *string
	VimeoURL   *string

	// At most one of Cover and CoverKey is set.
	Cover    *CoverUpload
	CoverKey *string
}

type CoverUpload struct {
	Filename string
	Body     io.Reader
}

// OutcomeKind tells the caller which message to render.
type OutcomeKind string

const (
	OutcomeSubmitted OutcomeKind = "submitted"
	OutcomeUpdated   OutcomeKind = "updated"
	OutcomeQueued    OutcomeKind = "queued"
)

const (
	MessageSubmitted = "Your file has been submitted for review."
	MessageUpdated   = "File Updated"
	MessageQueued    = "We will review your changes soon."
)

type Outcome struct {
	Kind       OutcomeKind `json:"outcome"`
	Message    string      `json:"message"`
	ListingID  string      `json:"listing_id"`
	ApprovalID string      `json:"approval_id,omitempty"`
}

func newOutcome(kind OutcomeKind, listingID, approvalID string) Outcome {
	msg := MessageUpdated
	switch kind {
	case OutcomeSubmitted:
		msg = MessageSubmitted
	case OutcomeQueued:
		msg = MessageQueued
	}
	return Outcome{Kind: kind, Message: msg, ListingID: listingID, ApprovalID: approvalID}
}

type VideoResponse struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	URL      string `json:"url"`
	EmbedURL string `json:"embed_url"`
}

func newVideoResponse(ref video.Ref) *VideoResponse {
	if ref.IsZero() {
		return nil
	}
	return &VideoResponse{
		Provider: string(ref.Provider),
		ID:       ref.ID,
		URL:      ref.URL(),
		EmbedURL: ref.EmbedURL(),
	}
}

// ListingResponse is the owner view of a listing.
type ListingResponse struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"owner_id"`
	Title         string         `json:"title"`
	Overview      string         `json:"overview"`
	OverviewShort string         `json:"overview_short"`
	PriceMinUnit  int64          `json:"price_min_unit"`
	CoverPath     *string        `json:"cover_path"`
	CoverURL      *string        `json:"cover_url"`
	Video         *VideoResponse `json:"video"`
	Finished      bool           `json:"finished"`
	Live          bool           `json:"live"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// EditResponse backs the edit form: current values plus what is waiting for review.
type EditResponse struct {
	Listing ListingResponse   `json:"listing"`
	Pending *approval.Pending `json:"pending_approval"`
}

// PublicListing is what anonymous visitors see. It is cached in Redis.
type PublicListing struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Overview      string         `json:"overview"`
	OverviewShort string         `json:"overview_short"`
	PriceMinUnit  int64          `json:"price_min_unit"`
	CoverURL      *string        `json:"cover_url"`
	Video         *VideoResponse `json:"video"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CoverURLs turns a stored object key into a browser URL.
type CoverURLs func(key string) string

func listingVideo(l repo.Listing) video.Ref {
	if !l.VideoProvider.Valid || !l.VideoID.Valid {
		return video.Ref{}
	}
	return video.Ref{Provider: video.Provider(l.VideoProvider.String), ID: l.VideoID.String}
}

func coverURL(urls CoverURLs, path *string) *string {
	if path == nil || urls == nil {
		return nil
	}
	u := urls(*path)
	return &u
}

// ToListingResponse renders the owner view of l.
func ToListingResponse(l repo.Listing, urls CoverURLs) ListingResponse {
	cover := postgresql.TextPtr(l.CoverPath)
	return ListingResponse{
		ID:            postgresql.UUIDString(l.ID),
		OwnerID:       postgresql.UUIDString(l.UserID),
		Title:         l.Title,
		Overview:      l.Overview,
		OverviewShort: l.OverviewShort,
		PriceMinUnit:  l.PriceMinUnit,
		CoverPath:     cover,
		CoverURL:      coverURL(urls, cover),
		Video:         newVideoResponse(listingVideo(l)),
		Finished:      l.Finished,
		Live:          l.Live,
		CreatedAt:     l.CreatedAt.Time,
		UpdatedAt:     l.UpdatedAt.Time,
	}
}

func toPublicListing(l repo.Listing, urls CoverURLs) PublicListing {
	return PublicListing{
		ID:            postgresql.UUIDString(l.ID),
		Title:         l.Title,
		Overview:      l.Overview,
		OverviewShort: l.OverviewShort,
		PriceMinUnit:  l.PriceMinUnit,
		CoverURL:      coverURL(urls, postgresql.TextPtr(l.CoverPath)),
		Video:         newVideoResponse(listingVideo(l)),
		UpdatedAt:     l.UpdatedAt.Time,
	}
}
