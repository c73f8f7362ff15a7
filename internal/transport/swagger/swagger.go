package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"
)

const specRoute = "/openapi.yml"

// Handler serves the Swagger UI pointed at the document served on specRoute.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(specRoute),
	)
}

// Load parses the OpenAPI document at path and validates it.
func Load(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document %s: %w", path, err)
	}
	return doc, nil
}

// Mount registers the document and the UI. The document is only served once it validates.
func Mount(ctx context.Context, mux chi.Router, path string) error {
	if _, err := Load(ctx, path); err != nil {
		return err
	}
	mux.Get(specRoute, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, path)
	})
	mux.Handle("/swagger/*", Handler())
	return nil
}
