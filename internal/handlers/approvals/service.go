package approvals

import (
	"context"
	stderrors "errors"
	"log/slog"

	"filemarket/internal/approval"
	"filemarket/internal/auth"
	"filemarket/internal/database/postgresql"
	repo "filemarket/internal/database/postgresql/sqlc"
	"filemarket/internal/errors"
	"filemarket/internal/events"
	"filemarket/internal/handlers/listings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("filemarket/approvals")

type ApprovalsService interface {
	ListPending(ctx context.Context, limit int) ([]Card, error)
	Preview(ctx context.Context, listingID string) (PreviewResponse, error)

	// AcceptPending applies the listing's outstanding approval.
	AcceptPending(ctx context.Context, admin auth.UserInfo, listingID string) (Resolution, error)
	RejectPending(ctx context.Context, admin auth.UserInfo, listingID string) (Resolution, error)

	// AcceptApproval resolves a specific approval. A superseded id is NOT_FOUND.
	AcceptApproval(ctx context.Context, admin auth.UserInfo, approvalID string) (Resolution, error)
	RejectApproval(ctx context.Context, admin auth.UserInfo, approvalID string) (Resolution, error)
}

// Invalidator drops a listing from the public cache.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// CoverRemover deletes covers that will never be published.
type CoverRemover interface {
	Delete(ctx context.Context, key string) error
}

type Deps struct {
	Repo      *repo.Queries
	DB        postgresql.DBPool
	Logger    *slog.Logger
	Cache     Invalidator
	Covers    CoverRemover
	Events    *events.EventHandler
	CoverURLs listings.CoverURLs
}

type svc struct {
	repo         *repo.Queries
	db           postgresql.DBPool
	logger       *slog.Logger
	cache        Invalidator
	covers       CoverRemover
	eventHandler *events.EventHandler
	coverURLs    listings.CoverURLs
}

func NewApprovalsService(d Deps) ApprovalsService {
	return &svc{
		repo:         d.Repo,
		db:           d.DB,
		logger:       d.Logger,
		cache:        d.Cache,
		covers:       d.Covers,
		eventHandler: d.Events,
		coverURLs:    d.CoverURLs,
	}
}

// target names an approval either by its listing or by its own id.
type target struct {
	listingID  string
	approvalID string
}

func (s *svc) ListPending(ctx context.Context, limit int) ([]Card, error) {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	limit = min(limit, MaxQueueLimit)

	summaries, err := approval.NewStore(s.repo).ListPending(ctx, limit)
	if err != nil {
		return nil, errors.New(errors.ErrInternal, "Unable to load the review queue", err)
	}

	cards := make([]Card, len(summaries))
	for i, summary := range summaries {
		cards[i] = toCard(summary)
	}
	return cards, nil
}

func (s *svc) Preview(ctx context.Context, listingID string) (PreviewResponse, error) {
	id, err := postgresql.ParseUUID(listingID)
	if err != nil {
		return PreviewResponse{}, errors.New(errors.ErrNotFound, "File not found", err)
	}

	l, err := s.repo.GetListingByID(ctx, id)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return PreviewResponse{}, errors.New(errors.ErrNotFound, "File not found", err)
	}
	if err != nil {
		return PreviewResponse{}, errors.New(errors.ErrInternal, "Unable to load file", err)
	}

	pending, err := approval.NewStore(s.repo).Latest(ctx, listingID)
	if err != nil {
		return PreviewResponse{}, errors.New(errors.ErrInternal, "Unable to load pending changes", err)
	}

	proposed := l
	if pending != nil {
		proposed = pending.Fields.Overlay(l)
	}

	return PreviewResponse{
		Current:  listings.ToListingResponse(l, s.coverURLs),
		Proposed: listings.ToListingResponse(proposed, s.coverURLs),
		Pending:  pending,
	}, nil
}

func (s *svc) AcceptPending(ctx context.Context, admin auth.UserInfo, listingID string) (Resolution, error) {
	return s.resolve(ctx, admin, target{listingID: listingID}, DecisionAccepted)
}

func (s *svc) RejectPending(ctx context.Context, admin auth.UserInfo, listingID string) (Resolution, error) {
	return s.resolve(ctx, admin, target{listingID: listingID}, DecisionRejected)
}

func (s *svc) AcceptApproval(ctx context.Context, admin auth.UserInfo, approvalID string) (Resolution, error) {
	return s.resolve(ctx, admin, target{approvalID: approvalID}, DecisionAccepted)
}

func (s *svc) RejectApproval(ctx context.Context, admin auth.UserInfo, approvalID string) (Resolution, error) {
	return s.resolve(ctx, admin, target{approvalID: approvalID}, DecisionRejected)
}

// resolve locks the listing before touching its approval so it serialises with
// owner updates, which take the same lock before replacing the approval.
func (s *svc) resolve(ctx context.Context, admin auth.UserInfo, t target, decision Decision) (Resolution, error) {
	ctx, span := tracer.Start(ctx, "approvals.resolve", trace.WithAttributes(
		attribute.String("decision", string(decision)),
		attribute.String("listing.id", t.listingID),
		attribute.String("approval.id", t.approvalID),
	))
	defer span.End()

	var (
		resolved approval.Pending
		listing  repo.Listing
	)
	err := postgresql.InTx(ctx, s.db, func(tx pgx.Tx) error {
		qtx := s.repo.WithTx(tx)
		store := approval.NewStore(qtx)

		if t.listingID == "" {
			p, err := store.Get(ctx, t.approvalID)
			if err != nil {
				return err
			}
			t.listingID = p.ListingID
			resolved = p
		}

		id, err := postgresql.ParseUUID(t.listingID)
		if err != nil {
			return errors.New(errors.ErrNotFound, "File not found", err)
		}
		listing, err = qtx.GetListingForUpdate(ctx, id)
		if stderrors.Is(err, pgx.ErrNoRows) {
			return errors.New(errors.ErrNotFound, "File not found", err)
		}
		if err != nil {
			return err
		}

		if t.approvalID == "" {
			latest, err := store.Latest(ctx, t.listingID)
			if err != nil {
				return err
			}
			if latest == nil {
				return approval.ErrNotFound
			}
			t.approvalID = latest.ID
			resolved = *latest
		}

		if decision == DecisionRejected {
			return store.Reject(ctx, t.approvalID)
		}

		// Apply the values of the row actually deleted.
		resolved, err = store.Accept(ctx, t.approvalID)
		if err != nil {
			return err
		}
		listing, err = approval.Apply(ctx, qtx, listing, resolved.Fields)
		return err
	})
	if err != nil {
		return Resolution{}, s.mapError(ctx, err, t)
	}

	ownerID := postgresql.UUIDString(listing.UserID)
	s.logger.InfoContext(ctx, "Approval resolved",
		"decision", decision,
		"approval_id", t.approvalID,
		"listing_id", t.listingID,
		"admin_id", admin.ID,
	)

	event := events.ApprovalEvent{
		ApprovalID: t.approvalID,
		ListingID:  t.listingID,
		OwnerID:    ownerID,
		ActorID:    admin.ID,
		Fields:     fieldNames(resolved.Fields.Present()),
		TraceID:    traceID(ctx),
	}

	res := Resolution{ApprovalID: t.approvalID, ListingID: t.listingID, Decision: decision}

	if decision == DecisionRejected {
		if cover := resolved.Fields.Cover; cover != nil {
			if err := s.covers.Delete(ctx, *cover); err != nil {
				s.logger.WarnContext(ctx, "Failed to delete rejected cover", "key", *cover, "error", err)
			}
		}
		if err := s.eventHandler.RaiseApprovalRejectedEvent(event); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish approval rejected event", "approval_id", t.approvalID, "error", err)
		}
		return res, nil
	}

	if err := s.cache.Invalidate(ctx, t.listingID); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate public listing cache", "listing_id", t.listingID, "error", err)
	}
	if err := s.eventHandler.RaiseIndexListingEvent(events.IndexListingEvent{
		ListingID: t.listingID,
		Reason:    "approval_accepted",
		TraceID:   event.TraceID,
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish index event", "listing_id", t.listingID, "error", err)
	}

	if err := s.eventHandler.RaiseApprovalAcceptedEvent(event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish approval accepted event", "approval_id", t.approvalID, "error", err)
	}

	updated := listings.ToListingResponse(listing, s.coverURLs)
	res.Listing = &updated
	return res, nil
}

func (s *svc) mapError(ctx context.Context, err error, t target) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	if stderrors.Is(err, approval.ErrNotFound) {
		s.logger.WarnContext(ctx, "Approval no longer pending", "listing_id", t.listingID, "approval_id", t.approvalID)
		return errors.New(errors.ErrNotFound, "These changes are no longer pending review", err)
	}
	return errors.New(errors.ErrInternal, "Unable to resolve the pending changes. Please try again later.", err)
}

func traceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

func fieldNames(fields []approval.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return names
}
