package actors

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/pkg/query"
	"github.com/lectio-edu/lectio/pkg/repository"
)

// System defines the public contract for actor resolution.
type System interface {
	// Resolve finds the registered user for an authenticated email address.
	Resolve(ctx context.Context, email string) (*Actor, error)
	// Find returns a registered user by ID.
	Find(ctx context.Context, id uuid.UUID) (*Actor, error)
	// FindByRole returns all registered users holding the given role.
	FindByRole(ctx context.Context, role string) ([]Actor, error)
}

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("email", "Email").
	Project("display_name", "DisplayName").
	Project("role", "Role")

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an actor repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "actors"),
	}
}

func (r *repo) Resolve(ctx context.Context, email string) (*Actor, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("Email", &email).
		BuildSingleOrNull()

	a, err := repository.QueryOne(ctx, r.db, q, args, scanActor)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &a, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Actor, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanActor)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &a, nil
}

func (r *repo) FindByRole(ctx context.Context, role string) ([]Actor, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "DisplayName"}).
		WhereEquals("Role", &role).
		Build()

	users, err := repository.QueryMany(ctx, r.db, q, args, scanActor)
	if err != nil {
		return nil, fmt.Errorf("query users by role: %w", err)
	}

	return users, nil
}

func scanActor(s repository.Scanner) (Actor, error) {
	var a Actor
	err := s.Scan(
		&a.ID,
		&a.Email,
		&a.DisplayName,
		&a.Role,
	)
	return a, err
}
