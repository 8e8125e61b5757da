package syllabi

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/actors"
	"github.com/lectio-edu/lectio/pkg/pagination"
	"github.com/lectio-edu/lectio/pkg/query"
	"github.com/lectio-edu/lectio/pkg/repository"
	"github.com/lectio-edu/lectio/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a syllabus repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "syllabi"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64, actorSys actors.System) *Handler {
	return NewHandler(r, actorSys, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Syllabus], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "CourseCode", "CourseTitle", "AuthorName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count syllabi: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSyllabus)
	if err != nil {
		return nil, fmt.Errorf("query syllabi: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Syllabus, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSyllabus)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) FindDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	topics, err := r.queryTopics(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Syllabus: *s, Topics: topics}, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Syllabus, error) {
	if cmd.TotalWeeks < 1 {
		return nil, fmt.Errorf("%w: total_weeks must be positive", ErrInvalidInput)
	}

	id := uuid.New()

	q := `
		INSERT INTO syllabi(
			id, course_id, author_id, semester, academic_year, main_language,
			status, version, total_weeks, is_shared,
			course_description, course_goal, main_literature, additional_literature
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10, $11, $12, $13)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(
			ctx, q,
			id, cmd.CourseID, cmd.AuthorID, cmd.Semester, cmd.AcademicYear, cmd.MainLanguage,
			StatusDraft, cmd.TotalWeeks, cmd.IsShared,
			cmd.CourseDescription, cmd.CourseGoal, cmd.MainLiterature, cmd.AdditionalLiterature,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, insertAudit(ctx, tx, id, &cmd.AuthorID, "created", nil)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("syllabus created", "id", id, "course_id", cmd.CourseID)
	return r.Find(ctx, id)
}

func (r *repo) ReplaceTopics(ctx context.Context, id, actorID uuid.UUID, topics []TopicInput) (*Detail, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.Editable() {
		return nil, ErrNotEditable
	}

	for _, t := range topics {
		if t.WeekNumber < 1 {
			return nil, fmt.Errorf("%w: week_number must be positive", ErrInvalidInput)
		}
		if t.Hours < 0 {
			return nil, fmt.Errorf("%w: hours cannot be negative", ErrInvalidInput)
		}
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM syllabus_topics WHERE syllabus_id = $1", id); err != nil {
			return struct{}{}, err
		}

		for _, t := range topics {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO syllabus_topics(
					syllabus_id, topic_id, custom_title, week_number, hours,
					tasks, outcomes, literature_notes, assessment
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				id, t.TopicID, t.CustomTitle, t.WeekNumber, t.Hours,
				t.Tasks, t.Outcomes, t.LiteratureNotes, t.Assessment,
			); err != nil {
				return struct{}{}, err
			}
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE syllabi SET updated_at = now() WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}

		detail := fmt.Sprintf("%d topic assignments", len(topics))
		return struct{}{}, insertAudit(ctx, tx, id, &actorID, "topics_updated", &detail)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("syllabus topics replaced", "id", id, "count", len(topics))
	return r.FindDetail(ctx, id)
}

func (r *repo) AttachFile(ctx context.Context, id uuid.UUID, cmd AttachCommand, allowApproved bool) (*Syllabus, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.Editable() && !(allowApproved && s.Status == StatusApproved) {
		return nil, ErrNotEditable
	}

	version := s.Version + 1
	key := buildStorageKey(id, version, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload syllabus file: %w", err)
	}

	q := `
		UPDATE syllabi
		SET file_key = $2, file_name = $3, file_pages = $4, version = $5, updated_at = now()
		WHERE id = $1`

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(ctx, tx, q, id, key, cmd.Filename, cmd.PageCount, version); err != nil {
			return struct{}{}, err
		}

		detail := fmt.Sprintf("%s (v%d)", cmd.Filename, version)
		return struct{}{}, insertAudit(ctx, tx, id, &cmd.ActorID, "file_uploaded", &detail)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("syllabus file attached", "id", id, "version", version, "filename", cmd.Filename)
	return r.Find(ctx, id)
}

func (r *repo) DownloadFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if s.FileKey == nil {
		return nil, "", ErrNoFile
	}

	reader, err := r.storage.Download(ctx, *s.FileKey)
	if err != nil {
		return nil, "", fmt.Errorf("download syllabus file: %w", err)
	}

	filename := "syllabus"
	if s.FileName != nil {
		filename = *s.FileName
	}

	return reader, filename, nil
}

func (r *repo) SetFeedback(ctx context.Context, id uuid.UUID, feedback, origin string) error {
	if origin != FeedbackOriginAI && origin != FeedbackOriginReviewer {
		return fmt.Errorf("%w: unknown feedback origin %q", ErrInvalidInput, origin)
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE syllabi SET feedback = $2, feedback_origin = $3, updated_at = now() WHERE id = $1",
		id, feedback, origin,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return nil
}

func (r *repo) NextQueued(ctx context.Context) (*Syllabus, error) {
	status := StatusAiCheck
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "CreatedAt"}).
		WhereEquals("Status", &status).
		BuildSingleOrNull()

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSyllabus)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &s, nil
}

func (r *repo) queryTopics(ctx context.Context, id uuid.UUID) ([]TopicAssignment, error) {
	q := `
		SELECT st.topic_id, COALESCE(NULLIF(st.custom_title, ''), t.title), st.custom_title,
		       st.week_number, st.hours, st.tasks, st.outcomes, st.literature_notes, st.assessment
		FROM syllabus_topics st
		INNER JOIN topics t ON t.id = st.topic_id
		WHERE st.syllabus_id = $1
		ORDER BY st.week_number, t.title`

	topics, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanTopicAssignment)
	if err != nil {
		return nil, fmt.Errorf("query syllabus topics: %w", err)
	}

	return topics, nil
}

func insertAudit(ctx context.Context, tx *sql.Tx, syllabusID uuid.UUID, actorID *uuid.UUID, action string, detail *string) error {
	_, err := tx.ExecContext(
		ctx,
		"INSERT INTO syllabus_audit(id, syllabus_id, actor_id, action, detail) VALUES ($1, $2, $3, $4, $5)",
		uuid.New(), syllabusID, actorID, action, detail,
	)
	return err
}

func buildStorageKey(id uuid.UUID, version int, filename string) string {
	return fmt.Sprintf("syllabi/%s/v%d/%s", id, version, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "syllabus"
	}
	return url.PathEscape(name)
}
