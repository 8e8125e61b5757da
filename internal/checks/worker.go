package checks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/config"
	"github.com/lectio-edu/lectio/internal/review"
	"github.com/lectio-edu/lectio/internal/syllabi"
	"github.com/lectio-edu/lectio/pkg/lifecycle"
)

// Worker polls for syllabi awaiting an AI check, runs the pipeline, and
// applies the verdict through the workflow engine as the system actor.
type Worker struct {
	checks   System
	engine   *review.Engine
	syllabi  syllabi.System
	interval time.Duration
	logger   *slog.Logger
}

// NewWorker creates a check worker over the given systems.
func NewWorker(
	checksSys System,
	engine *review.Engine,
	syllabiSys syllabi.System,
	cfg *config.WorkerConfig,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		checks:   checksSys,
		engine:   engine,
		syllabi:  syllabiSys,
		interval: cfg.IntervalDuration(),
		logger:   logger.With("system", "checks", "worker", "ai-check"),
	}
}

// Start launches the polling loop on the lifecycle context and registers
// a shutdown hook that waits for the loop to drain.
func (w *Worker) Start(lc *lifecycle.Coordinator) {
	done := make(chan struct{})

	go func() {
		defer close(done)
		w.run(lc.Context())
	}()

	lc.OnShutdown(func() {
		<-done
	})
}

func (w *Worker) run(ctx context.Context) {
	w.logger.Info("worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	s, err := w.syllabi.NextQueued(ctx)
	if err != nil {
		if !errors.Is(err, syllabi.ErrNotFound) {
			w.logger.Error("queue poll failed", "error", err)
		}
		return
	}

	if _, err := w.Process(ctx, s.ID); err != nil {
		w.logger.Error("check run failed", "syllabus_id", s.ID, "error", err)
	}
}

// Process runs the check pipeline for one syllabus and applies its verdict:
// approval advances to dean review, rejection returns the syllabus to the
// author with the feedback as the transition comment. Transition failures
// are logged; the stored result is returned either way.
func (w *Worker) Process(ctx context.Context, id uuid.UUID) (*Result, error) {
	result, err := w.checks.Run(ctx, id)
	if err != nil {
		return nil, err
	}

	target := syllabi.StatusCorrection
	comment := result.Raw.Feedback
	if result.Raw.Approved {
		target = syllabi.StatusReviewDean
		comment = ""
	}

	if _, err := w.engine.Request(ctx, id, target, review.SystemActor(), comment); err != nil {
		w.logger.Error("verdict transition failed",
			"syllabus_id", id,
			"target", target,
			"error", err,
		)
		return result, nil
	}

	w.logger.Info("verdict applied",
		"syllabus_id", id,
		"approved", result.Raw.Approved,
		"target", target,
	)
	return result, nil
}
