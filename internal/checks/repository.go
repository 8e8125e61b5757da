package checks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/config"
	"github.com/lectio-edu/lectio/internal/llm"
	"github.com/lectio-edu/lectio/internal/syllabi"
	"github.com/lectio-edu/lectio/pkg/query"
	"github.com/lectio-edu/lectio/pkg/repository"
	"github.com/lectio-edu/lectio/pkg/storage"
)

const summaryLimit = 160

type repo struct {
	db      *sql.DB
	syllabi syllabi.System
	storage storage.System
	gateway llm.System
	llm     *config.LLMConfig
	worker  *config.WorkerConfig
	logger  *slog.Logger
}

// New creates a check repository implementing the System interface.
func New(
	db *sql.DB,
	syllabiSys syllabi.System,
	storageSys storage.System,
	gateway llm.System,
	llmCfg *config.LLMConfig,
	workerCfg *config.WorkerConfig,
	logger *slog.Logger,
) System {
	return &repo{
		db:      db,
		syllabi: syllabiSys,
		storage: storageSys,
		gateway: gateway,
		llm:     llmCfg,
		worker:  workerCfg,
		logger:  logger.With("system", "checks"),
	}
}

func (r *repo) Handler(worker *Worker) *Handler {
	return NewHandler(r, worker, r.logger)
}

func (r *repo) Run(ctx context.Context, syllabusID uuid.UUID) (*Result, error) {
	detail, err := r.syllabi.FindDetail(ctx, syllabusID)
	if err != nil {
		return nil, err
	}

	content, source := r.acquire(ctx, detail)
	verdict, response := r.evaluate(ctx, detail, content, source)

	if !verdict.Approved && strings.TrimSpace(verdict.Feedback) == "" {
		verdict.Feedback = "the automated check rejected the syllabus without details"
	}

	result, err := r.persist(ctx, syllabusID, verdict, response, source)
	if err != nil {
		return nil, err
	}

	if verdict.Feedback != "" {
		if err := r.syllabi.SetFeedback(ctx, syllabusID, verdict.Feedback, syllabi.FeedbackOriginAI); err != nil {
			r.logger.Warn("feedback copy failed", "syllabus_id", syllabusID, "error", err)
		}
	}

	r.logger.Info("check completed",
		"syllabus_id", syllabusID,
		"approved", verdict.Approved,
		"source", source,
	)
	return result, nil
}

// evaluate produces the verdict for the acquired content. It returns the
// raw model response when the gateway was consulted, empty otherwise.
func (r *repo) evaluate(
	ctx context.Context,
	detail *syllabi.Detail,
	content, source string,
) (Verdict, string) {
	if strings.TrimSpace(content) == "" {
		return rejected("the syllabus has no reviewable content; attach a document or add topic assignments"), ""
	}

	if source == SourceDatabase {
		if issues := syllabi.Validate(detail); len(issues) > 0 {
			return rejected("the topic plan has structural issues: " + strings.Join(issues, "; ")), ""
		}
	}

	prompt := buildPrompt(detail, content, r.worker.MaxInputChars)

	response, err := r.gateway.Generate(ctx, prompt, llm.Options{
		MaxTokens:   r.llm.MaxTokens,
		Temperature: r.llm.Temperature,
		TopP:        r.llm.TopP,
	})
	if err != nil {
		r.logger.Error("generation failed", "syllabus_id", detail.ID, "error", err)
		return rejected("the automated check could not be completed; resubmit to retry"), ""
	}

	verdict, ok := parseVerdict(response)
	if !ok {
		r.logger.Warn("unparseable model response", "syllabus_id", detail.ID)
		return rejected("the automated check returned an unreadable answer: " + truncate(response, summaryLimit)), response
	}

	return verdict, response
}

func (r *repo) persist(
	ctx context.Context,
	syllabusID uuid.UUID,
	verdict Verdict,
	response, source string,
) (*Result, error) {
	raw := Raw{
		Approved:      verdict.Approved,
		Feedback:      verdict.Feedback,
		FullResponse:  response,
		ContentSource: source,
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal raw result: %w", err)
	}

	insertQ := `
		INSERT INTO ai_check_results (syllabus_id, model_name, summary, raw_result)
		VALUES ($1, $2, $3, $4)
		RETURNING id, syllabus_id, model_name, summary, raw_result, created_at`

	args := []any{syllabusID, r.gateway.ModelName(), summarize(verdict), rawJSON}

	result, err := repository.QueryOne(ctx, r.db, insertQ, args, scanResult)
	if err != nil {
		return nil, repository.MapError(err, syllabi.ErrNotFound, ErrDuplicate)
	}
	return &result, nil
}

func (r *repo) History(ctx context.Context, syllabusID uuid.UUID) ([]Result, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SyllabusID", syllabusID).
		Build()

	results, err := repository.QueryMany(ctx, r.db, q, args, scanResult)
	if err != nil {
		return nil, fmt.Errorf("query check results: %w", err)
	}
	return results, nil
}

func rejected(feedback string) Verdict {
	return Verdict{Approved: false, Feedback: feedback}
}

func summarize(v Verdict) string {
	if v.Approved {
		return "approved"
	}
	return "rejected: " + truncate(v.Feedback, summaryLimit)
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}

	// Cut on a rune boundary so multi-byte characters survive intact.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
