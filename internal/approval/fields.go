package approval

import (
	"encoding/json"
	"fmt"
	"time"

	"filemarket/internal/video"
)

// Fields holds proposed listing values. A nil pointer means the field was not
// part of the proposal. A zero video.Ref or an empty Cover clears the value.
type Fields struct {
	Title         *string    `json:"title,omitempty"`
	Overview      *string    `json:"overview,omitempty"`
	OverviewShort *string    `json:"overview_short,omitempty"`
	Cover         *string    `json:"cover,omitempty"`
	Video         *video.Ref `json:"video,omitempty"`
	Price         *int64     `json:"price_min_unit,omitempty"`
	Live          *bool      `json:"live,omitempty"`
}

// Present lists the fields carried by the proposal.
func (f Fields) Present() []Field {
	var present []Field
	if f.Title != nil {
		present = append(present, FieldTitle)
	}
	if f.Overview != nil {
		present = append(present, FieldOverview)
	}
	if f.OverviewShort != nil {
		present = append(present, FieldOverviewShort)
	}
	if f.Cover != nil {
		present = append(present, FieldCover)
	}
	if f.Video != nil {
		present = append(present, FieldVideo)
	}
	if f.Price != nil {
		present = append(present, FieldPrice)
	}
	if f.Live != nil {
		present = append(present, FieldLive)
	}
	return present
}

// pick copies the fields for which keep is true.
func (f Fields) pick(keep func(Field) bool) Fields {
	var out Fields
	if f.Title != nil && keep(FieldTitle) {
		out.Title = f.Title
	}
	if f.Overview != nil && keep(FieldOverview) {
		out.Overview = f.Overview
	}
	if f.OverviewShort != nil && keep(FieldOverviewShort) {
		out.OverviewShort = f.OverviewShort
	}
	if f.Cover != nil && keep(FieldCover) {
		out.Cover = f.Cover
	}
	if f.Video != nil && keep(FieldVideo) {
		out.Video = f.Video
	}
	if f.Price != nil && keep(FieldPrice) {
		out.Price = f.Price
	}
	if f.Live != nil && keep(FieldLive) {
		out.Live = f.Live
	}
	return out
}

// hasContent reports whether any field other than price and live is set.
func (f Fields) hasContent() bool {
	return f.Title != nil || f.Overview != nil || f.OverviewShort != nil || f.Cover != nil || f.Video != nil
}

func (f Fields) IsEmpty() bool {
	return len(f.Present()) == 0
}

func (f Fields) encode() ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding approval fields: %w", err)
	}
	return data, nil
}

func decodeFields(data []byte) (Fields, error) {
	var f Fields
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return Fields{}, fmt.Errorf("decoding approval fields: %w", err)
	}
	return f, nil
}

// Pending is an outstanding approval for a listing.
type Pending struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Fields    Fields    `json:"fields"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is a review-queue entry.
type Summary struct {
	ID            string    `json:"id"`
	ListingID     string    `json:"listing_id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	OverviewShort string    `json:"overview_short"`
	CreatedAt     time.Time `json:"created_at"`
}
