package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Identity holds the authenticated caller's claims resolved from a bearer token.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

type identityKey struct{}

// IdentityFrom extracts the authenticated Identity from a request context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given Identity.
// Exposed for handler tests that bypass the middleware.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// AuthConfig holds OIDC token verification settings.
// When Enabled is false, identity is read from the DevHeader instead,
// which is only suitable for local development.
type AuthConfig struct {
	Enabled   bool   `toml:"enabled"`
	Issuer    string `toml:"issuer"`
	ClientID  string `toml:"client_id"`
	DevHeader string `toml:"dev_header"`
}

// AuthEnv maps auth config fields to environment variable names for override injection.
type AuthEnv struct {
	Enabled  string
	Issuer   string
	ClientID string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if c.DevHeader == "" {
		c.DevHeader = "X-Lectio-User"
	}
	if env != nil {
		c.loadEnv(env)
	}
	if c.Enabled {
		if c.Issuer == "" {
			return fmt.Errorf("issuer required when auth enabled")
		}
		if c.ClientID == "" {
			return fmt.Errorf("client_id required when auth enabled")
		}
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies; string fields
// only apply when non-empty.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.DevHeader != "" {
		c.DevHeader = overlay.DevHeader
	}
}

func (c *AuthConfig) loadEnv(env *AuthEnv) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
}

// Authenticator verifies bearer tokens and attaches the resulting Identity
// to the request context.
type Authenticator struct {
	cfg      *AuthConfig
	verifier *oidc.IDTokenVerifier
}

// NewAuthenticator creates an Authenticator. When auth is enabled, the OIDC
// provider is discovered from the configured issuer.
func NewAuthenticator(ctx context.Context, cfg *AuthConfig) (*Authenticator, error) {
	a := &Authenticator{cfg: cfg}

	if cfg.Enabled {
		provider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("discover oidc provider: %w", err)
		}
		a.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	}

	return a, nil
}

// Middleware returns the authentication middleware. Requests without a
// resolvable identity are rejected with 401.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.resolve(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func (a *Authenticator) resolve(r *http.Request) (Identity, error) {
	if !a.cfg.Enabled {
		email := r.Header.Get(a.cfg.DevHeader)
		if email == "" {
			return Identity{}, fmt.Errorf("missing %s header", a.cfg.DevHeader)
		}
		return Identity{Subject: email, Email: email}, nil
	}

	raw, err := bearerToken(r)
	if err != nil {
		return Identity{}, err
	}

	token, err := a.verifier.Verify(r.Context(), raw)
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := token.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("parse claims: %w", err)
	}

	return Identity{
		Subject: token.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", fmt.Errorf("malformed authorization header")
	}

	return token, nil
}
