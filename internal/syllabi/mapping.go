package syllabi

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/pkg/query"
	"github.com/lectio-edu/lectio/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "syllabi", "s").
	Project("id", "ID").
	Project("course_id", "CourseID").
	Project("author_id", "AuthorID").
	Project("semester", "Semester").
	Project("academic_year", "AcademicYear").
	Project("main_language", "MainLanguage").
	Project("status", "Status").
	Project("version", "Version").
	Project("total_weeks", "TotalWeeks").
	Project("is_shared", "IsShared").
	Project("course_description", "CourseDescription").
	Project("course_goal", "CourseGoal").
	Project("main_literature", "MainLiterature").
	Project("additional_literature", "AdditionalLiterature").
	Project("feedback", "Feedback").
	Project("feedback_origin", "FeedbackOrigin").
	Project("file_key", "FileKey").
	Project("file_name", "FileName").
	Project("file_pages", "FilePages").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "courses", "c", "INNER JOIN", "c.id = s.course_id").
	Project("code", "CourseCode").
	Project("title", "CourseTitle").
	Join("public", "users", "u", "INNER JOIN", "u.id = s.author_id").
	Project("display_name", "AuthorName")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for syllabus queries.
// Nil fields are ignored. Status, CourseID, AuthorID, and IsShared use
// exact matching. CourseCode uses case-insensitive contains matching.
type Filters struct {
	Status     *string    `json:"status,omitempty"`
	CourseID   *uuid.UUID `json:"course_id,omitempty"`
	CourseCode *string    `json:"course_code,omitempty"`
	AuthorID   *uuid.UUID `json:"author_id,omitempty"`
	IsShared   *bool      `json:"is_shared,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("CourseID", f.CourseID).
		WhereContains("CourseCode", f.CourseCode).
		WhereEquals("AuthorID", f.AuthorID).
		WhereEquals("IsShared", f.IsShared)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if cid := values.Get("course_id"); cid != "" {
		if v, err := uuid.Parse(cid); err == nil {
			f.CourseID = &v
		}
	}

	if cc := values.Get("course_code"); cc != "" {
		f.CourseCode = &cc
	}

	if aid := values.Get("author_id"); aid != "" {
		if v, err := uuid.Parse(aid); err == nil {
			f.AuthorID = &v
		}
	}

	if sh := values.Get("is_shared"); sh != "" {
		if v, err := strconv.ParseBool(sh); err == nil {
			f.IsShared = &v
		}
	}

	return f
}

func scanSyllabus(s repository.Scanner) (Syllabus, error) {
	var sy Syllabus
	err := s.Scan(
		&sy.ID,
		&sy.CourseID,
		&sy.AuthorID,
		&sy.Semester,
		&sy.AcademicYear,
		&sy.MainLanguage,
		&sy.Status,
		&sy.Version,
		&sy.TotalWeeks,
		&sy.IsShared,
		&sy.CourseDescription,
		&sy.CourseGoal,
		&sy.MainLiterature,
		&sy.AdditionalLiterature,
		&sy.Feedback,
		&sy.FeedbackOrigin,
		&sy.FileKey,
		&sy.FileName,
		&sy.FilePages,
		&sy.CreatedAt,
		&sy.UpdatedAt,
		&sy.CourseCode,
		&sy.CourseTitle,
		&sy.AuthorName,
	)
	return sy, err
}

func scanTopicAssignment(s repository.Scanner) (TopicAssignment, error) {
	var t TopicAssignment
	err := s.Scan(
		&t.TopicID,
		&t.TopicTitle,
		&t.CustomTitle,
		&t.WeekNumber,
		&t.Hours,
		&t.Tasks,
		&t.Outcomes,
		&t.LiteratureNotes,
		&t.Assessment,
	)
	return t, err
}
