package listings

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"filemarket/internal/approval"
	"filemarket/internal/auth"
	"filemarket/internal/database/postgresql"
	repo "filemarket/internal/database/postgresql/sqlc"
	"filemarket/internal/errors"
	"filemarket/internal/events"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("filemarket/listings")

type ListingsService interface {
	// CreateDraft returns the owner's unfinished skeleton, creating one if needed.
	CreateDraft(ctx context.Context, userInfo auth.UserInfo) (ListingResponse, error)

	// Submit is the initial submission. Every supplied field is written directly.
	Submit(ctx context.Context, userInfo auth.UserInfo, listingID string, req *ListingRequest) (Outcome, error)

	// Update edits a finished listing. Gated fields are queued for review.
	Update(ctx context.Context, userInfo auth.UserInfo, listingID string, req *ListingRequest) (Outcome, error)

	Get(ctx context.Context, userInfo auth.UserInfo, listingID string) (EditResponse, error)
	ListForOwner(ctx context.Context, userInfo auth.UserInfo) ([]ListingResponse, error)
	GetPublic(ctx context.Context, listingID string) (PublicListing, error)
}

// CoverStore persists cover images and returns their object keys.
type CoverStore interface {
	Upload(ctx context.Context, ownerID, filename string, r io.Reader) (string, error)
	Claim(ctx context.Context, ownerID, incomingKey string) (string, error)
	Delete(ctx context.Context, key string) error
}

// PublicCache is satisfied by *cache.Typed[PublicListing].
type PublicCache interface {
	Get(ctx context.Context, id string) (*PublicListing, bool, error)
	Set(ctx context.Context, id string, value PublicListing) error
	Invalidate(ctx context.Context, id string) error
}

type Deps struct {
	Repo      *repo.Queries
	DB        postgresql.DBPool
	Logger    *slog.Logger
	Policy    *approval.Policy
	Covers    CoverStore
	Cache     PublicCache
	Events    *events.EventHandler
	CoverURLs CoverURLs
}

type svc struct {
	repo         *repo.Queries
	db           postgresql.DBPool
	logger       *slog.Logger
	policy       *approval.Policy
	covers       CoverStore
	cache        PublicCache
	eventHandler *events.EventHandler
	coverURLs    CoverURLs
}

func NewListingsService(d Deps) ListingsService {
	policy := d.Policy
	if policy == nil {
		policy = approval.DefaultPolicy()
	}
	return &svc{
		repo:         d.Repo,
		db:           d.DB,
		logger:       d.Logger,
		policy:       policy,
		covers:       d.Covers,
		cache:        d.Cache,
		eventHandler: d.Events,
		coverURLs:    d.CoverURLs,
	}
}

func (s *svc) CreateDraft(ctx context.Context, userInfo auth.UserInfo) (ListingResponse, error) {
	ownerID, err := ownerUUID(userInfo)
	if err != nil {
		return ListingResponse{}, err
	}

	draft, err := s.repo.GetDraftListingForUser(ctx, ownerID)
	if err == nil {
		s.logger.DebugContext(ctx, "Reusing draft listing", "user_id", userInfo.ID, "listing_id", postgresql.UUIDString(draft.ID))
		return ToListingResponse(draft, s.coverURLs), nil
	}
	if !stderrors.Is(err, pgx.ErrNoRows) {
		return ListingResponse{}, errors.New(errors.ErrInternal, "Unable to load your draft. Please try again later.", err)
	}

	draft, err = s.repo.CreateSkeletonListing(ctx, ownerID)
	if err != nil {
		return ListingResponse{}, errors.New(errors.ErrInternal, "Unable to start a new file. Please try again later.", err)
	}

	s.logger.InfoContext(ctx, "Created draft listing", "user_id", userInfo.ID, "listing_id", postgresql.UUIDString(draft.ID))
	return ToListingResponse(draft, s.coverURLs), nil
}

func (s *svc) Submit(ctx context.Context, userInfo auth.UserInfo, listingID string, req *ListingRequest) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "listings.Submit", trace.WithAttributes(attribute.String("listing.id", listingID)))
	defer span.End()

	fields, err := proposal(req)
	if err != nil {
		return Outcome{}, err
	}

	id, ownerID, err := parseIDs(userInfo, listingID)
	if err != nil {
		return Outcome{}, err
	}

	// Check state before uploading so a conflicting request stores nothing.
	current, err := s.loadOwned(ctx, s.repo, id, ownerID, false)
	if err != nil {
		return Outcome{}, err
	}
	if current.Finished {
		return Outcome{}, errors.New(errors.ErrConflict, "This file has already been submitted. Edit it instead.", nil)
	}

	if err := s.attachCover(ctx, userInfo, req, &fields); err != nil {
		return Outcome{}, err
	}

	var saved repo.Listing
	err = postgresql.InTx(ctx, s.db, func(tx pgx.Tx) error {
		qtx := s.repo.WithTx(tx)

		l, err := s.loadOwned(ctx, qtx, id, ownerID, true)
		if err != nil {
			return err
		}
		if l.Finished {
			return errors.New(errors.ErrConflict, "This file has already been submitted. Edit it instead.", nil)
		}

		merged := fields.Overlay(l)
		saved, err = qtx.FinalizeListing(ctx, repo.FinalizeListingParams{
			ID:            l.ID,
			Title:         merged.Title,
			Overview:      merged.Overview,
			OverviewShort: merged.OverviewShort,
			PriceMinUnit:  merged.PriceMinUnit,
			CoverPath:     merged.CoverPath,
			VideoProvider: merged.VideoProvider,
			VideoID:       merged.VideoID,
			Live:          merged.Live,
		})
		if err != nil {
			return fmt.Errorf("failed to finalize listing: %w", err)
		}
		return nil
	})
	if err != nil {
		s.discardCover(ctx, fields.Cover)
		return Outcome{}, asAppError(err, "Failed to submit your file. Please try again later.")
	}

	s.logger.InfoContext(ctx, "Listing submitted", "user_id", userInfo.ID, "listing_id", listingID, "live", saved.Live)
	s.afterWrite(ctx, listingID, "submitted")

	return newOutcome(OutcomeSubmitted, listingID, ""), nil
}

func (s *svc) Update(ctx context.Context, userInfo auth.UserInfo, listingID string, req *ListingRequest) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "listings.Update", trace.WithAttributes(attribute.String("listing.id", listingID)))
	defer span.End()

	// Validating: nothing has been read or written yet.
	fields, err := proposal(req)
	if err != nil {
		s.logger.WarnContext(ctx, "Rejected listing update", "listing_id", listingID, "error", err)
		return Outcome{}, err
	}

	id, ownerID, err := parseIDs(userInfo, listingID)
	if err != nil {
		return Outcome{}, err
	}

	current, err := s.loadOwned(ctx, s.repo, id, ownerID, false)
	if err != nil {
		return Outcome{}, err
	}
	if !current.Finished {
		return Outcome{}, errors.New(errors.ErrConflict, "This file has not been submitted yet.", nil)
	}

	if err := s.attachCover(ctx, userInfo, req, &fields); err != nil {
		return Outcome{}, err
	}

	direct, gated := s.policy.Partition(fields)
	queued := s.policy.RequiresApproval(gated.Present())

	var approvalID string
	err = postgresql.InTx(ctx, s.db, func(tx pgx.Tx) error {
		qtx := s.repo.WithTx(tx)

		l, err := s.loadOwned(ctx, qtx, id, ownerID, true)
		if err != nil {
			return err
		}

		// Applying: ungated fields are written regardless of the gating decision.
		if _, err := approval.Apply(ctx, qtx, l, direct); err != nil {
			return err
		}

		// Gating
		if queued {
			approvalID, err = approval.NewStore(qtx).CreateOrReplace(ctx, listingID, gated)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.discardCover(ctx, fields.Cover)
		return Outcome{}, asAppError(err, "Failed to update your file. Please try again later.")
	}

	if !direct.IsEmpty() {
		s.afterWrite(ctx, listingID, "updated")
	}

	if !queued {
		s.logger.InfoContext(ctx, "Listing updated", "user_id", userInfo.ID, "listing_id", listingID, "fields", direct.Present())
		return newOutcome(OutcomeUpdated, listingID, ""), nil
	}

	s.logger.InfoContext(ctx, "Listing changes queued for review",
		"user_id", userInfo.ID,
		"listing_id", listingID,
		"approval_id", approvalID,
		"fields", gated.Present(),
	)

	if err := s.eventHandler.RaiseApprovalQueuedEvent(events.ApprovalEvent{
		ApprovalID: approvalID,
		ListingID:  listingID,
		OwnerID:    userInfo.ID,
		ActorID:    userInfo.ID,
		Fields:     fieldNames(gated.Present()),
		TraceID:    traceID(ctx),
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish approval queued event", "approval_id", approvalID, "error", err)
	}

	return newOutcome(OutcomeQueued, listingID, approvalID), nil
}

func (s *svc) Get(ctx context.Context, userInfo auth.UserInfo, listingID string) (EditResponse, error) {
	id, ownerID, err := parseIDs(userInfo, listingID)
	if err != nil {
		return EditResponse{}, err
	}

	l, err := s.loadOwned(ctx, s.repo, id, ownerID, false)
	if err != nil {
		return EditResponse{}, err
	}

	pending, err := approval.NewStore(s.repo).Latest(ctx, listingID)
	if err != nil {
		return EditResponse{}, errors.New(errors.ErrInternal, "Unable to load pending changes", err)
	}

	return EditResponse{
		Listing: ToListingResponse(l, s.coverURLs),
		Pending: pending,
	}, nil
}

func (s *svc) ListForOwner(ctx context.Context, userInfo auth.UserInfo) ([]ListingResponse, error) {
	ownerID, err := ownerUUID(userInfo)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListFinishedListingsByUser(ctx, ownerID)
	if err != nil {
		return nil, errors.New(errors.ErrInternal, "Unable to get your files", err)
	}

	response := make([]ListingResponse, len(rows))
	for i, row := range rows {
		response[i] = ToListingResponse(row, s.coverURLs)
	}
	return response, nil
}

func (s *svc) GetPublic(ctx context.Context, listingID string) (PublicListing, error) {
	id, err := postgresql.ParseUUID(listingID)
	if err != nil {
		return PublicListing{}, errors.New(errors.ErrNotFound, "File not found", err)
	}

	if cached, found, err := s.cache.Get(ctx, listingID); err != nil {
		// Degrade to the database
		s.logger.WarnContext(ctx, "Public listing cache read failed", "listing_id", listingID, "error", err)
	} else if found {
		return *cached, nil
	}

	l, err := s.repo.GetListingByID(ctx, id)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return PublicListing{}, errors.New(errors.ErrNotFound, "File not found", err)
	}
	if err != nil {
		return PublicListing{}, errors.New(errors.ErrInternal, "Unable to load file", err)
	}
	if !l.Finished || !l.Live {
		return PublicListing{}, errors.New(errors.ErrNotFound, "File not found", nil)
	}

	public := toPublicListing(l, s.coverURLs)
	if err := s.cache.Set(ctx, listingID, public); err != nil {
		s.logger.WarnContext(ctx, "Public listing cache write failed", "listing_id", listingID, "error", err)
	}
	return public, nil
}

// attachCover uploads or claims the request's cover and records its key in fields.
func (s *svc) attachCover(ctx context.Context, userInfo auth.UserInfo, req *ListingRequest, fields *approval.Fields) error {
	if !req.hasCover() {
		return nil
	}

	var (
		key string
		err error
	)
	if req.Cover != nil {
		key, err = s.covers.Upload(ctx, userInfo.ID, req.Cover.Filename, req.Cover.Body)
	} else {
		key, err = s.covers.Claim(ctx, userInfo.ID, *req.CoverKey)
	}
	if err != nil {
		return err
	}

	fields.Cover = &key
	return nil
}

// discardCover removes a cover stored for a write that did not commit.
func (s *svc) discardCover(ctx context.Context, key *string) {
	if key == nil {
		return
	}
	if err := s.covers.Delete(ctx, *key); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete orphaned cover", "key", *key, "error", err)
	}
}

// afterWrite runs once a direct write has committed. Failures are logged only.
func (s *svc) afterWrite(ctx context.Context, listingID, reason string) {
	if err := s.cache.Invalidate(ctx, listingID); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate public listing cache", "listing_id", listingID, "error", err)
	}

	if err := s.eventHandler.RaiseIndexListingEvent(events.IndexListingEvent{
		ListingID: listingID,
		Reason:    reason,
		TraceID:   traceID(ctx),
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish index event", "listing_id", listingID, "error", err)
	}
}

// loadOwned reads a listing and hides listings owned by someone else behind NOT_FOUND.
func (s *svc) loadOwned(ctx context.Context, q repo.Querier, id, ownerID pgtype.UUID, forUpdate bool) (repo.Listing, error) {
	load := q.GetListingByID
	if forUpdate {
		load = q.GetListingForUpdate
	}

	l, err := load(ctx, id)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return repo.Listing{}, errors.New(errors.ErrNotFound, "File not found", err)
	}
	if err != nil {
		return repo.Listing{}, errors.New(errors.ErrInternal, "Unable to load file", err)
	}
	if l.UserID != ownerID {
		return repo.Listing{}, errors.New(errors.ErrNotFound, "File not found", nil)
	}
	return l, nil
}

func ownerUUID(userInfo auth.UserInfo) (pgtype.UUID, error) {
	id, err := postgresql.ParseUUID(userInfo.ID)
	if err != nil {
		return pgtype.UUID{}, errors.New(errors.ErrUnauthorized, "Invalid user identity", fmt.Errorf("invalid user uuid: %w", err))
	}
	return id, nil
}

func parseIDs(userInfo auth.UserInfo, listingID string) (id, ownerID pgtype.UUID, err error) {
	ownerID, err = ownerUUID(userInfo)
	if err != nil {
		return id, ownerID, err
	}
	id, err = postgresql.ParseUUID(listingID)
	if err != nil {
		return id, ownerID, errors.New(errors.ErrNotFound, "File not found", err)
	}
	return id, ownerID, nil
}

// asAppError keeps AppErrors raised inside a transaction and wraps everything else.
func asAppError(err error, msg string) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.New(errors.ErrInternal, msg, err)
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
