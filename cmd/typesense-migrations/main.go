package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"filemarket/internal/indexing"
	"filemarket/internal/telemetry"

	"github.com/joho/godotenv"
	"github.com/typesense/typesense-go/typesense"
	"github.com/typesense/typesense-go/typesense/api"
	"github.com/typesense/typesense-go/typesense/api/pointer"
)

func main() {
	logger := slog.New(telemetry.NewTraceHandler(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(logger)

	godotenv.Load()
	url := os.Getenv("TYPESENSE_URL")
	key := os.Getenv("TYPESENSE_API_KEY")

	logger.Info("Starting Typesense schema migration", "url", url)

	client := typesense.NewClient(
		typesense.WithServer(url),
		typesense.WithAPIKey(key),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	if err := migrate(context.Background(), client, logger); err != nil {
		logger.Error("Schema migration failed", "error", err)
		os.Exit(1)
	}
}

// filesSchema mirrors indexing.Document.
func filesSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: indexing.ListingsCollection,
		Fields: []api.Field{
			{Name: "title", Type: "string"},
			{Name: "overview_short", Type: "string"},
			{Name: "price", Type: "int64", Facet: pointer.True(), Sort: pointer.True()},
			{Name: "cover_url", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "video_provider", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "created_at", Type: "int64", Sort: pointer.True()},
			{Name: "updated_at", Type: "int64", Sort: pointer.True()},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
}

func migrate(ctx context.Context, client *typesense.Client, logger *slog.Logger) error {
	schema := filesSchema()

	existing, err := client.Collection(schema.Name).Retrieve(ctx)
	var httpErr *typesense.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
		logger.Info("Collection not found, creating", "collection", schema.Name)
		if _, err := client.Collections().Create(ctx, schema); err != nil {
			return err
		}
		logger.Info("Collection created", "collection", schema.Name)
		return nil
	}
	if err != nil {
		return err
	}

	missing := missingFields(schema.Fields, existing.Fields)
	if len(missing) == 0 {
		logger.Info("Schema up to date", "collection", schema.Name)
		return nil
	}

	// Update can add fields but cannot change the type of an existing one.
	logger.Info("Adding fields", "collection", schema.Name, "count", len(missing))
	if _, err := client.Collection(schema.Name).Update(ctx, &api.CollectionUpdateSchema{Fields: missing}); err != nil {
		return err
	}
	logger.Info("Schema synced", "collection", schema.Name)
	return nil
}

func missingFields(want, have []api.Field) []api.Field {
	present := make(map[string]bool, len(have))
	for _, f := range have {
		present[f.Name] = true
	}

	var missing []api.Field
	for _, f := range want {
		if !present[f.Name] {
			missing = append(missing, f)
		}
	}
	return missing
}
