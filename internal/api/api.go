// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lectio-edu/lectio/internal/config"
	"github.com/lectio-edu/lectio/internal/infrastructure"
	"github.com/lectio-edu/lectio/pkg/middleware"
	"github.com/lectio-edu/lectio/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The Domain is returned alongside the module so the caller can start the
// background worker.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime, cfg)
	if err != nil {
		return nil, nil, err
	}

	auth, err := middleware.NewAuthenticator(ctx, &cfg.API.Auth)
	if err != nil {
		return nil, nil, fmt.Errorf("authenticator init failed: %w", err)
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, nil, fmt.Errorf("route registration failed: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(auth.Middleware())

	return m, domain, nil
}
