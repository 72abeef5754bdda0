package indexing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/typesense/typesense-go/typesense"
)

const (
	requestTimeout = 5 * time.Second
	healthTimeout  = 2 * time.Second
)

// TypesenseClient stores listing documents in a Typesense collection.
type TypesenseClient struct {
	client *typesense.Client
}

func NewClient(apiKey, url string) *TypesenseClient {
	return &TypesenseClient{
		client: typesense.NewClient(
			typesense.WithServer(url),
			typesense.WithAPIKey(apiKey),
			typesense.WithConnectionTimeout(requestTimeout),
		),
	}
}

func (t *TypesenseClient) Upsert(ctx context.Context, collection string, doc Document) error {
	if _, err := t.client.Collection(collection).Documents().Upsert(ctx, doc); err != nil {
		return fmt.Errorf("failed to upsert listing %s into %s: %w", doc.ID, collection, err)
	}
	return nil
}

// Delete removes a listing document. A document that is already gone is not an error.
func (t *TypesenseClient) Delete(ctx context.Context, collection, id string) error {
	_, err := t.client.Collection(collection).Document(id).Delete(ctx)
	if err == nil || isNotFound(err) {
		return nil
	}
	return fmt.Errorf("failed to delete listing %s from %s: %w", id, collection, err)
}

func (t *TypesenseClient) HealthCheck(ctx context.Context) error {
	healthy, err := t.client.Health(ctx, healthTimeout)
	switch {
	case err != nil:
		return fmt.Errorf("typesense health check failed: %w", err)
	case !healthy:
		return errors.New("typesense reports unhealthy")
	}
	return nil
}

// Close is a no-op; the client holds no long-lived connections.
func (t *TypesenseClient) Close() error { return nil }

func isNotFound(err error) bool {
	var httpErr *typesense.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}
