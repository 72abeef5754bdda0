package testutil

import (
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

// ListingRow describes a listings row returned from a mocked query.
type ListingRow struct {
	ID            string
	UserID        string
	Title         string
	Overview      string
	OverviewShort string
	Price         int64
	CoverPath     any
	VideoProvider any
	VideoID       any
	Finished      bool
	Live          bool
}

func (l ListingRow) Rows() *pgxmock.Rows {
	return pgxmock.NewRows(ListingsCols).AddRow(l.Values()...)
}

// Values returns the row in ListingsCols order.
func (l ListingRow) Values() []any {
	now := time.Now()
	return []any{
		l.ID, l.UserID, l.Title, l.Overview, l.OverviewShort, l.Price,
		l.CoverPath, l.VideoProvider, l.VideoID, l.Finished, l.Live,
		now, now,
	}
}

// ApprovalRows builds a single listing_approvals row.
func ApprovalRows(id, listingID string, fields string) *pgxmock.Rows {
	return pgxmock.NewRows(ApprovalCols).AddRow(id, listingID, []byte(fields), time.Now())
}
