package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lectio-edu/lectio/pkg/middleware"
)

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	mw.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "first")
			next.ServeHTTP(w, r)
		})
	})

	mw.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "second")
			next.ServeHTTP(w, r)
		})
	})

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	handler.ServeHTTP(rec, req)

	if len(order) != 3 {
		t.Fatalf("execution count: got %d, want 3", len(order))
	}
	if order[0] != "first" || order[1] != "second" || order[2] != "handler" {
		t.Errorf("order: got %v, want [first second handler]", order)
	}
}

func TestCORSDisabled(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: false}
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers should not be set when disabled")
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	}

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("allow-origin: got %s, want http://example.com", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("allow-methods: got %s", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "3600" {
		t.Errorf("max-age: got %s, want 3600", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled: true,
		Origins: []string{"http://allowed.com"},
	}

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://denied.com")
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("should not set allow-origin for disallowed origin")
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
	}

	var handlerCalled bool
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	if handlerCalled {
		t.Error("preflight should short-circuit before the handler")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("preflight status: got %d, want 200", rec.Code)
	}
}

func TestIdentityContext(t *testing.T) {
	id := middleware.Identity{Subject: "sub-1", Email: "teacher@example.edu", Name: "Terry Teacher"}
	ctx := middleware.WithIdentity(context.Background(), id)

	got, ok := middleware.IdentityFrom(ctx)
	if !ok {
		t.Fatal("identity not found in context")
	}
	if got != id {
		t.Errorf("identity: got %+v, want %+v", got, id)
	}

	if _, ok := middleware.IdentityFrom(context.Background()); ok {
		t.Error("empty context should not carry an identity")
	}
}

func TestAuthenticatorDisabled(t *testing.T) {
	cfg := &middleware.AuthConfig{Enabled: false}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	auth, err := middleware.NewAuthenticator(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new authenticator failed: %v", err)
	}

	var captured middleware.Identity
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = middleware.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("dev header resolves identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Lectio-User", "dean@example.edu")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}
		if captured.Email != "dean@example.edu" {
			t.Errorf("email: got %s, want dean@example.edu", captured.Email)
		}
	})

	t.Run("missing dev header rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})
}

func TestAuthConfigValidation(t *testing.T) {
	t.Run("enabled requires issuer", func(t *testing.T) {
		cfg := &middleware.AuthConfig{Enabled: true, ClientID: "lectio"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for enabled auth without issuer")
		}
	})

	t.Run("enabled requires client id", func(t *testing.T) {
		cfg := &middleware.AuthConfig{Enabled: true, Issuer: "https://login.example.edu"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for enabled auth without client_id")
		}
	})

	t.Run("dev header defaults", func(t *testing.T) {
		cfg := &middleware.AuthConfig{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.DevHeader != "X-Lectio-User" {
			t.Errorf("dev_header: got %s, want X-Lectio-User", cfg.DevHeader)
		}
	})
}
