package indexing

import "context"

const ListingsCollection = "files"

// Document is the search representation of a live listing.
type Document struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	OverviewShort string `json:"overview_short"`
	Price         int64  `json:"price"`
	CoverURL      string `json:"cover_url,omitempty"`
	VideoProvider string `json:"video_provider,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// Indexer is the search engine seen by the worker.
type Indexer interface {
	// Upsert adds or replaces a document.
	Upsert(ctx context.Context, collectionName string, document Document) error

	// Delete removes a document by ID. Deleting a missing document is not an error.
	Delete(ctx context.Context, collectionName string, id string) error

	HealthCheck(ctx context.Context) error
	Close() error
}
