package api

import (
	"fmt"

	"github.com/lectio-edu/lectio/internal/actors"
	"github.com/lectio-edu/lectio/internal/checks"
	"github.com/lectio-edu/lectio/internal/config"
	"github.com/lectio-edu/lectio/internal/llm"
	"github.com/lectio-edu/lectio/internal/notify"
	"github.com/lectio-edu/lectio/internal/review"
	"github.com/lectio-edu/lectio/internal/syllabi"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Actors  actors.System
	Syllabi syllabi.System
	Engine  *review.Engine
	Checks  checks.System
	Worker  *checks.Worker
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) (*Domain, error) {
	db := runtime.Database.Connection()

	actorSys := actors.New(db, runtime.Logger)

	syllabiSys := syllabi.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	notifySys, err := notify.New(&cfg.Notify, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("notify init failed: %w", err)
	}

	gateway, err := llm.New(&cfg.LLM, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("llm init failed: %w", err)
	}

	recorder := review.NewRecorder(db, runtime.Logger)
	engine := review.NewEngine(syllabiSys, actorSys, recorder, notifySys, runtime.Logger)

	checkSys := checks.New(
		db,
		syllabiSys,
		runtime.Storage,
		gateway,
		&cfg.LLM,
		&cfg.Worker,
		runtime.Logger,
	)

	worker := checks.NewWorker(checkSys, engine, syllabiSys, &cfg.Worker, runtime.Logger)

	return &Domain{
		Actors:  actorSys,
		Syllabi: syllabiSys,
		Engine:  engine,
		Checks:  checkSys,
		Worker:  worker,
	}, nil
}
