package api

import (
	"net/http"

	"github.com/lectio-edu/lectio/internal/config"
	"github.com/lectio-edu/lectio/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	routes.Register(
		mux,
		domain.Syllabi.Handler(cfg.API.MaxUploadSizeBytes(), domain.Actors).Routes(),
		domain.Engine.Handler().Routes(),
		domain.Checks.Handler(domain.Worker).Routes(),
	)

	specHandler, err := specHandler(cfg)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", specHandler)

	return nil
}
