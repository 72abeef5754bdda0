package testutil

// ListingsCols must match the RETURNING/SELECT column order in queries/listings.sql
var ListingsCols = []string{
	"id", "user_id", "title", "overview", "overview_short", "price_min_unit",
	"cover_path", "video_provider", "video_id", "finished", "live",
	"created_at", "updated_at",
}

// ApprovalCols must match the RETURNING/SELECT column order in queries/approvals.sql
var ApprovalCols = []string{
	"id", "listing_id", "fields", "created_at",
}

// PendingApprovalCols must match ListPendingApprovals
var PendingApprovalCols = []string{
	"id", "listing_id", "created_at", "user_id", "title", "overview_short",
}
