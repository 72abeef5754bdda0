package listings

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"filemarket/internal/approval"
	"filemarket/internal/auth"
	repo "filemarket/internal/database/postgresql/sqlc"
	apperrors "filemarket/internal/errors"
	"filemarket/internal/events"
	"filemarket/internal/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    = "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11"
	strangerID = "b1ffcd00-0d1c-4ef8-bb6d-6bb9bd380a22"
	listingID  = "11111111-1111-1111-1111-111111111111"
	approvalID = "22222222-2222-2222-2222-222222222222"
)

var (
	owner        = auth.UserInfo{ID: ownerID, Username: "maker"}
	errConnReset = errors.New("connection reset")
)

type stubCovers struct {
	key      string
	uploaded []string
	claimed  []string
	deleted  []string
}

func (c *stubCovers) Upload(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	c.uploaded = append(c.uploaded, filename)
	return c.key, nil
}

func (c *stubCovers) Claim(ctx context.Context, ownerID, incomingKey string) (string, error) {
	c.claimed = append(c.claimed, incomingKey)
	return c.key, nil
}

func (c *stubCovers) Delete(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	return nil
}

type fixture struct {
	svc    *svc
	mock   pgxmock.PgxPoolIface
	bus    *testutil.RecordingBus
	cache  *testutil.MemoryCache[PublicListing]
	covers *stubCovers
}

func newFixture(t *testing.T, policy *approval.Policy) *fixture {
	t.Helper()
	mock := testutil.NewMockDB(t)
	handler, bus := testutil.NewEventHandler()
	cache := testutil.NewMemoryCache[PublicListing]()
	covers := &stubCovers{key: "covers/2025/12/12/owner/upload/abc.jpg"}

	service := NewListingsService(Deps{
		Repo:      repo.New(mock),
		DB:        mock,
		Logger:    testutil.NewTestLogger(),
		Policy:    policy,
		Covers:    covers,
		Cache:     cache,
		Events:    handler,
		CoverURLs: func(key string) string { return "https://cdn.example.com/" + key },
	}).(*svc)

	return &fixture{svc: service, mock: mock, bus: bus, cache: cache, covers: covers}
}

func finishedListing() testutil.ListingRow {
	return testutil.ListingRow{
		ID: listingID, UserID: ownerID,
		Title: "Old", Overview: "Long text", OverviewShort: "Short",
		Price: 1000, Finished: true, Live: false,
	}
}

func skeleton() testutil.ListingRow {
	return testutil.ListingRow{
		ID: listingID, UserID: ownerID,
		Title: "Untitled", Overview: "none", OverviewShort: "None",
	}
}

func expectQuery(mock pgxmock.PgxPoolIface, name string) *pgxmock.ExpectedQuery {
	return mock.ExpectQuery(regexp.QuoteMeta("name: " + name + " "))
}

func ptr[T any](v T) *T { return &v }

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	assert.Equal(t, field, appErr.Field)
}

func TestUpdate_PriceAppliesAndTitleIsQueued(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())

	priced := finishedListing()
	priced.Price = 2000
	expectQuery(f.mock, "UpdateListingPriceAndLive").
		WithArgs(pgtype.Int8{Int64: 2000, Valid: true}, pgtype.Bool{}, pgxmock.AnyArg()).
		WillReturnRows(priced.Rows())

	expectQuery(f.mock, "UpsertListingApproval").
		WithArgs(pgxmock.AnyArg(), []byte(`{"title":"New"}`)).
		WillReturnRows(testutil.ApprovalRows(approvalID, listingID, `{"title":"New"}`))
	f.mock.ExpectCommit()

	out, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{
		Price: ptr(int64(2000)),
		Title: ptr("New"),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeQueued, out.Kind)
	assert.Equal(t, MessageQueued, out.Message)
	assert.Equal(t, approvalID, out.ApprovalID)
	assert.NoError(t, f.mock.ExpectationsWereMet(), "title must not be written directly")

	assert.Equal(t, []string{"listing.index", "approval.queued"}, f.bus.Subjects())
	var queued events.ApprovalEvent
	f.bus.Decode(t, 1, &queued)
	assert.Equal(t, []string{"title"}, queued.Fields)
	assert.Equal(t, []string{listingID}, f.cache.Invalidated)
}

func TestUpdate_InvalidYouTubeURLWritesNothing(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{
		Price:      ptr(int64(2000)),
		YouTubeURL: ptr("not-a-url"),
	})

	requireField(t, err, "youtube_url")
	assert.NoError(t, f.mock.ExpectationsWereMet())
	assert.Empty(t, f.bus.Subjects())
	assert.Empty(t, f.covers.uploaded)
}

func TestUpdate_InvalidVimeoURLRejectedBeforeUpload(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{
		VimeoURL: ptr("https://vimeo.com/channels/staffpicks"),
		Cover:    &CoverUpload{Filename: "a.png", Body: strings.NewReader("x")},
	})

	requireField(t, err, "vimeo_url")
	assert.Empty(t, f.covers.uploaded)
}

func TestUpdate_NegativePriceRejected(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{Price: ptr(int64(-1))})

	requireField(t, err, "price")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_UngatedOnlyIsAppliedDirectly(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	live := finishedListing()
	live.Live = true
	expectQuery(f.mock, "UpdateListingPriceAndLive").
		WithArgs(pgtype.Int8{}, pgtype.Bool{Bool: true, Valid: true}, pgxmock.AnyArg()).
		WillReturnRows(live.Rows())
	f.mock.ExpectCommit()

	out, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{Live: ptr(true)})

	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, out.Kind)
	assert.Equal(t, MessageUpdated, out.Message)
	assert.Empty(t, out.ApprovalID)
	assert.Equal(t, []string{"listing.index"}, f.bus.Subjects())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_VideoIsQueuedAsNormalizedID(t *testing.T) {
	f := newFixture(t, nil)
	fields := `{"video":{"provider":"youtube","id":"dQw4w9WgXcQ"}}`

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	expectQuery(f.mock, "UpsertListingApproval").
		WithArgs(pgxmock.AnyArg(), []byte(fields)).
		WillReturnRows(testutil.ApprovalRows(approvalID, listingID, fields))
	f.mock.ExpectCommit()

	out, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{
		YouTubeURL: ptr("https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42"),
		VimeoURL:   ptr(""),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeQueued, out.Kind)
	assert.Equal(t, []string{"approval.queued"}, f.bus.Subjects())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_CoverIsUploadedThenQueued(t *testing.T) {
	f := newFixture(t, nil)
	fields := `{"cover":"covers/2025/12/12/owner/upload/abc.jpg"}`

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	expectQuery(f.mock, "UpsertListingApproval").
		WithArgs(pgxmock.AnyArg(), []byte(fields)).
		WillReturnRows(testutil.ApprovalRows(approvalID, listingID, fields))
	f.mock.ExpectCommit()

	out, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{
		Cover: &CoverUpload{Filename: "cover.png", Body: strings.NewReader("png")},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeQueued, out.Kind)
	assert.Equal(t, []string{"cover.png"}, f.covers.uploaded)
	assert.Empty(t, f.covers.deleted)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_FailedWriteDeletesUploadedCover(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	expectQuery(f.mock, "UpsertListingApproval").WillReturnError(errConnReset)
	f.mock.ExpectRollback()

	_, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{
		Cover: &CoverUpload{Filename: "cover.png", Body: strings.NewReader("png")},
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))
	assert.Equal(t, []string{f.covers.key}, f.covers.deleted)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmit_ListingGoneDeletesClaimedCover(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(skeleton().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)
	f.mock.ExpectRollback()

	_, err := f.svc.Submit(context.Background(), owner, listingID, &ListingRequest{
		Title:    ptr("My Product"),
		CoverKey: ptr("2025/12/12/" + ownerID + "/upload/abc.png"),
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	assert.Equal(t, []string{f.covers.key}, f.covers.deleted)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_InjectedPolicyDecidesWhatIsGated(t *testing.T) {
	f := newFixture(t, approval.NewPolicy(approval.FieldPrice))

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	titled := finishedListing()
	titled.Title = "New"
	expectQuery(f.mock, "ApplyApprovedFields").
		WithArgs(pgxmock.AnyArg(), "New", "Long text", "Short", pgtype.Text{}, pgtype.Text{}, pgtype.Text{}).
		WillReturnRows(titled.Rows())
	expectQuery(f.mock, "UpsertListingApproval").
		WithArgs(pgxmock.AnyArg(), []byte(`{"price_min_unit":2000}`)).
		WillReturnRows(testutil.ApprovalRows(approvalID, listingID, `{"price_min_unit":2000}`))
	f.mock.ExpectCommit()

	out, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{
		Title: ptr("New"),
		Price: ptr(int64(2000)),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeQueued, out.Kind)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_RequiresFinishedListing(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(skeleton().Rows())

	_, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{Title: ptr("New")})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_OtherOwnersListingIsNotFound(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())

	_, err := f.svc.Update(context.Background(), auth.UserInfo{ID: strangerID}, listingID, &ListingRequest{Price: ptr(int64(1))})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_MissingListingAndBadIDs(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)

	_, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))

	_, err = f.svc.Update(context.Background(), owner, "not-a-uuid", &ListingRequest{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))

	_, err = f.svc.Update(context.Background(), auth.UserInfo{ID: "nope"}, listingID, &ListingRequest{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
}

func TestUpdate_StorageFailureRollsBack(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	expectQuery(f.mock, "UpdateListingPriceAndLive").WillReturnRows(finishedListing().Rows())
	expectQuery(f.mock, "UpsertListingApproval").WillReturnError(errConnReset)
	f.mock.ExpectRollback()

	_, err := f.svc.Update(context.Background(), owner, listingID, &ListingRequest{
		Price: ptr(int64(2000)),
		Title: ptr("New"),
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))
	assert.ErrorIs(t, err, errConnReset)
	assert.Empty(t, f.bus.Subjects(), "no events for a rolled back update")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmit_InitialSubmissionAppliesDirectly(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(skeleton().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(skeleton().Rows())

	done := skeleton()
	done.Title = "My Product"
	done.Finished = true
	expectQuery(f.mock, "FinalizeListing").
		WithArgs(pgxmock.AnyArg(), "My Product", "none", "None", int64(0),
			pgtype.Text{}, pgtype.Text{}, pgtype.Text{}, false).
		WillReturnRows(done.Rows())
	f.mock.ExpectCommit()

	out, err := f.svc.Submit(context.Background(), owner, listingID, &ListingRequest{Title: ptr("My Product")})

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, out.Kind)
	assert.Equal(t, MessageSubmitted, out.Message)
	assert.Empty(t, out.ApprovalID)
	assert.NoError(t, f.mock.ExpectationsWereMet(), "no approval may be created")
	assert.Equal(t, []string{"listing.index"}, f.bus.Subjects())
}

func TestSubmit_WritesEverySuppliedField(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(skeleton().Rows())
	f.mock.ExpectBegin()
	expectQuery(f.mock, "GetListingForUpdate").WithArgs(pgxmock.AnyArg()).WillReturnRows(skeleton().Rows())
	expectQuery(f.mock, "FinalizeListing").
		WithArgs(pgxmock.AnyArg(), "Lamp", "A desk lamp", "Lamp", int64(1250),
			pgtype.Text{String: f.covers.key, Valid: true},
			pgtype.Text{String: "vimeo", Valid: true},
			pgtype.Text{String: "76979871", Valid: true},
			true).
		WillReturnRows(skeleton().Rows())
	f.mock.ExpectCommit()

	_, err := f.svc.Submit(context.Background(), owner, listingID, &ListingRequest{
		Title:         ptr("Lamp"),
		Overview:      ptr("A desk lamp"),
		OverviewShort: ptr("Lamp"),
		Price:         ptr(int64(1250)),
		Live:          ptr(true),
		VimeoURL:      ptr("https://vimeo.com/76979871"),
		CoverKey:      ptr("2025/12/12/" + ownerID + "/u/abc.png"),
	})

	require.NoError(t, err)
	assert.Len(t, f.covers.claimed, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmit_AlreadyFinishedConflicts(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())

	_, err := f.svc.Submit(context.Background(), owner, listingID, &ListingRequest{
		Title: ptr("Again"),
		Cover: &CoverUpload{Filename: "a.png", Body: strings.NewReader("x")},
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))
	assert.Empty(t, f.covers.uploaded, "nothing is stored for a refused submission")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmit_ValidatesVideoFirst(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Submit(context.Background(), owner, listingID, &ListingRequest{
		Title:      ptr("My Product"),
		YouTubeURL: ptr("https://example.com/watch?v=dQw4w9WgXcQ"),
	})

	requireField(t, err, "youtube_url")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateDraft_ReusesExistingSkeleton(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetDraftListingForUser").WithArgs(pgxmock.AnyArg()).WillReturnRows(skeleton().Rows())

	draft, err := f.svc.CreateDraft(context.Background(), owner)

	require.NoError(t, err)
	assert.Equal(t, listingID, draft.ID)
	assert.False(t, draft.Finished)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateDraft_CreatesSkeletonWhenNone(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetDraftListingForUser").WithArgs(pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)
	expectQuery(f.mock, "CreateSkeletonListing").WithArgs(pgxmock.AnyArg()).WillReturnRows(skeleton().Rows())

	draft, err := f.svc.CreateDraft(context.Background(), owner)

	require.NoError(t, err)
	assert.Equal(t, "Untitled", draft.Title)
	assert.Equal(t, "None", draft.OverviewShort)
	assert.Equal(t, "none", draft.Overview)
	assert.Zero(t, draft.PriceMinUnit)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGet_IncludesLatestPendingApproval(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())
	expectQuery(f.mock, "GetLatestListingApproval").WithArgs(pgxmock.AnyArg()).
		WillReturnRows(testutil.ApprovalRows(approvalID, listingID, `{"title":"New"}`))

	resp, err := f.svc.Get(context.Background(), owner, listingID)

	require.NoError(t, err)
	assert.Equal(t, "Old", resp.Listing.Title)
	require.NotNil(t, resp.Pending)
	assert.Equal(t, approvalID, resp.Pending.ID)
	assert.Equal(t, "New", *resp.Pending.Fields.Title)
}

func TestListForOwner(t *testing.T) {
	f := newFixture(t, nil)

	rows := pgxmock.NewRows(testutil.ListingsCols)
	for _, id := range []string{listingID, "33333333-3333-3333-3333-333333333333"} {
		l := finishedListing()
		l.ID = id
		l.CoverPath = "covers/a.jpg"
		rows.AddRow(l.Values()...)
	}
	expectQuery(f.mock, "ListFinishedListingsByUser").WithArgs(pgxmock.AnyArg()).WillReturnRows(rows)

	list, err := f.svc.ListForOwner(context.Background(), owner)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "https://cdn.example.com/covers/a.jpg", *list[0].CoverURL)
}

func TestGetPublic_ReadThroughCache(t *testing.T) {
	f := newFixture(t, nil)

	live := finishedListing()
	live.Live = true
	live.VideoProvider = "youtube"
	live.VideoID = "dQw4w9WgXcQ"
	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(live.Rows())

	first, err := f.svc.GetPublic(context.Background(), listingID)
	require.NoError(t, err)
	require.NotNil(t, first.Video)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", first.Video.EmbedURL)

	// Served from cache: no further query expected.
	second, err := f.svc.GetPublic(context.Background(), listingID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetPublic_HidesUnpublishedListings(t *testing.T) {
	f := newFixture(t, nil)

	expectQuery(f.mock, "GetListingByID").WithArgs(pgxmock.AnyArg()).WillReturnRows(finishedListing().Rows())

	_, err := f.svc.GetPublic(context.Background(), listingID)

	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}
