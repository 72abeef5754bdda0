package indexing

import (
	"context"
	"errors"
	"log/slog"

	"filemarket/internal/database/postgresql"
	repo "filemarket/internal/database/postgresql/sqlc"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ListingReader is the slice of the generated queries the worker needs.
type ListingReader interface {
	GetListingByID(ctx context.Context, id pgtype.UUID) (repo.Listing, error)
}

// Handles the business logic
type svc struct {
	indexer       Indexer
	repo          ListingReader
	logger        *slog.Logger
	publicBaseURL string
}

func NewService(indexer Indexer, repo ListingReader, logger *slog.Logger, publicBaseURL string) *svc {
	return &svc{
		indexer:       indexer,
		repo:          repo,
		logger:        logger,
		publicBaseURL: publicBaseURL,
	}
}

// IndexListing mirrors the listing's current state into the search index.
// A nil return acks the message; an error asks for redelivery.
func (s *svc) IndexListing(ctx context.Context, listingID string) error {
	s.logger.InfoContext(ctx, "Indexing listing", "listing_id", listingID)

	id, err := postgresql.ParseUUID(listingID)
	if err != nil {
		// Permanent: this id will never be valid.
		s.logger.ErrorContext(ctx, "Invalid UUID format, discarding", "listing_id", listingID)
		return nil
	}

	listing, err := s.repo.GetListingByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.WarnContext(ctx, "Listing not found, removing from index", "listing_id", listingID)
		return s.remove(ctx, listingID)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch listing from DB", "error", err, "listing_id", listingID)
		return err
	}

	if !listing.Finished || !listing.Live {
		return s.remove(ctx, listingID)
	}

	if err := s.indexer.Upsert(ctx, ListingsCollection, s.document(listing)); err != nil {
		// Transient: search engine is down, retry.
		s.logger.ErrorContext(ctx, "Failed to upsert listing", "error", err, "listing_id", listingID)
		return err
	}
	return nil
}

func (s *svc) remove(ctx context.Context, listingID string) error {
	if err := s.indexer.Delete(ctx, ListingsCollection, listingID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove listing from index", "error", err, "listing_id", listingID)
		return err
	}
	return nil
}

func (s *svc) document(l repo.Listing) Document {
	doc := Document{
		ID:            postgresql.UUIDString(l.ID),
		Title:         l.Title,
		OverviewShort: l.OverviewShort,
		Price:         l.PriceMinUnit,
		CreatedAt:     l.CreatedAt.Time.Unix(),
		UpdatedAt:     l.UpdatedAt.Time.Unix(),
	}
	if l.CoverPath.Valid {
		doc.CoverURL = s.publicBaseURL + l.CoverPath.String
	}
	if l.VideoProvider.Valid && l.VideoID.Valid {
		doc.VideoProvider = l.VideoProvider.String
	}
	return doc
}
