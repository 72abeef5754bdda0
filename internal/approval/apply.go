package approval

import (
	"context"
	"fmt"

	"filemarket/internal/database/postgresql"
	repo "filemarket/internal/database/postgresql/sqlc"
	"filemarket/internal/video"

	"github.com/jackc/pgx/v5/pgtype"
)

// Overlay returns l with every present field of f written over it. Nothing is persisted.
func (f Fields) Overlay(l repo.Listing) repo.Listing {
	if f.Title != nil {
		l.Title = *f.Title
	}
	if f.Overview != nil {
		l.Overview = *f.Overview
	}
	if f.OverviewShort != nil {
		l.OverviewShort = *f.OverviewShort
	}
	if f.Cover != nil {
		l.CoverPath = postgresql.Text(f.Cover)
	}
	if f.Video != nil {
		l.VideoProvider, l.VideoID = videoColumns(*f.Video)
	}
	if f.Price != nil {
		l.PriceMinUnit = *f.Price
	}
	if f.Live != nil {
		l.Live = *f.Live
	}
	return l
}

func videoColumns(ref video.Ref) (pgtype.Text, pgtype.Text) {
	if ref.IsZero() {
		return pgtype.Text{}, pgtype.Text{}
	}
	return pgtype.Text{String: string(ref.Provider), Valid: true}, pgtype.Text{String: ref.ID, Valid: true}
}

// Apply writes f onto the already loaded listing l and returns the stored row.
// Content fields and price/live go through separate statements so a price-only
// change never rewrites the gated columns.
func Apply(ctx context.Context, q repo.Querier, l repo.Listing, f Fields) (repo.Listing, error) {
	if f.hasContent() {
		merged := f.Overlay(l)
		updated, err := q.ApplyApprovedFields(ctx, repo.ApplyApprovedFieldsParams{
			ID:            l.ID,
			Title:         merged.Title,
			Overview:      merged.Overview,
			OverviewShort: merged.OverviewShort,
			CoverPath:     merged.CoverPath,
			VideoProvider: merged.VideoProvider,
			VideoID:       merged.VideoID,
		})
		if err != nil {
			return repo.Listing{}, fmt.Errorf("failed to apply listing fields: %w", err)
		}
		l = updated
	}

	if f.Price != nil || f.Live != nil {
		params := repo.UpdateListingPriceAndLiveParams{ID: l.ID}
		if f.Price != nil {
			params.PriceMinUnit = pgtype.Int8{Int64: *f.Price, Valid: true}
		}
		if f.Live != nil {
			params.Live = pgtype.Bool{Bool: *f.Live, Valid: true}
		}
		updated, err := q.UpdateListingPriceAndLive(ctx, params)
		if err != nil {
			return repo.Listing{}, fmt.Errorf("failed to update price and visibility: %w", err)
		}
		l = updated
	}

	return l, nil
}
