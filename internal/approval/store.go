package approval

import (
	"context"
	"errors"
	"fmt"

	"filemarket/internal/database/postgresql"
	repo "filemarket/internal/database/postgresql/sqlc"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("approval: not found")

// Store persists at most one pending approval per listing. Build it over a
// transaction-scoped Querier when its writes must commit together with a
// listing update.
type Store interface {
	// CreateOrReplace supersedes any outstanding approval for the listing.
	// The returned id is always new.
	CreateOrReplace(ctx context.Context, listingID string, fields Fields) (string, error)

	// Latest returns nil when the listing has no outstanding approval.
	Latest(ctx context.Context, listingID string) (*Pending, error)

	// Get returns ErrNotFound when the approval was resolved or superseded.
	Get(ctx context.Context, approvalID string) (Pending, error)

	// Accept removes the approval and hands back its proposed values.
	Accept(ctx context.Context, approvalID string) (Pending, error)

	// Reject removes the approval without applying it.
	Reject(ctx context.Context, approvalID string) error

	ListPending(ctx context.Context, limit int) ([]Summary, error)
}

type store struct {
	q repo.Querier
}

func NewStore(q repo.Querier) Store {
	return &store{q: q}
}

func (s *store) CreateOrReplace(ctx context.Context, listingID string, fields Fields) (string, error) {
	id, err := postgresql.ParseUUID(listingID)
	if err != nil {
		return "", fmt.Errorf("invalid listing id %q: %w", listingID, err)
	}

	data, err := fields.encode()
	if err != nil {
		return "", err
	}

	row, err := s.q.UpsertListingApproval(ctx, repo.UpsertListingApprovalParams{
		ListingID: id,
		Fields:    data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store approval: %w", err)
	}

	return postgresql.UUIDString(row.ID), nil
}

func (s *store) Latest(ctx context.Context, listingID string) (*Pending, error) {
	id, err := postgresql.ParseUUID(listingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing id %q: %w", listingID, err)
	}

	row, err := s.q.GetLatestListingApproval(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load approval: %w", err)
	}

	pending, err := toPending(row)
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *store) Get(ctx context.Context, approvalID string) (Pending, error) {
	id, err := postgresql.ParseUUID(approvalID)
	if err != nil {
		return Pending{}, ErrNotFound
	}

	row, err := s.q.GetListingApproval(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Pending{}, ErrNotFound
		}
		return Pending{}, fmt.Errorf("failed to load approval: %w", err)
	}
	return toPending(row)
}

func (s *store) Accept(ctx context.Context, approvalID string) (Pending, error) {
	row, err := s.remove(ctx, approvalID)
	if err != nil {
		return Pending{}, err
	}
	return toPending(row)
}

func (s *store) Reject(ctx context.Context, approvalID string) error {
	_, err := s.remove(ctx, approvalID)
	return err
}

func (s *store) ListPending(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := s.q.ListPendingApprovals(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, Summary{
			ID:            postgresql.UUIDString(row.ID),
			ListingID:     postgresql.UUIDString(row.ListingID),
			OwnerID:       postgresql.UUIDString(row.UserID),
			Title:         row.Title,
			OverviewShort: row.OverviewShort,
			CreatedAt:     row.CreatedAt.Time,
		})
	}
	return summaries, nil
}

func (s *store) remove(ctx context.Context, approvalID string) (repo.ListingApproval, error) {
	id, err := postgresql.ParseUUID(approvalID)
	if err != nil {
		// A malformed id can never name an existing approval.
		return repo.ListingApproval{}, ErrNotFound
	}

	row, err := s.q.DeleteListingApproval(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ListingApproval{}, ErrNotFound
		}
		return repo.ListingApproval{}, fmt.Errorf("failed to remove approval: %w", err)
	}
	return row, nil
}

func toPending(row repo.ListingApproval) (Pending, error) {
	fields, err := decodeFields(row.Fields)
	if err != nil {
		return Pending{}, err
	}
	return Pending{
		ID:        postgresql.UUIDString(row.ID),
		ListingID: postgresql.UUIDString(row.ListingID),
		Fields:    fields,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}
