package syllabi_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/syllabi"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"forbidden", syllabi.ErrForbidden, http.StatusForbidden},
		{"not found", syllabi.ErrNotFound, http.StatusNotFound},
		{"no file", syllabi.ErrNoFile, http.StatusNotFound},
		{"duplicate", syllabi.ErrDuplicate, http.StatusConflict},
		{"not editable", syllabi.ErrNotEditable, http.StatusConflict},
		{"file too large", syllabi.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", syllabi.ErrInvalidFile, http.StatusBadRequest},
		{"invalid input", syllabi.ErrInvalidInput, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", syllabi.ErrNotFound), http.StatusNotFound},
		{"wrapped duplicate", fmt.Errorf("insert failed: %w", syllabi.ErrDuplicate), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := syllabi.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		courseID := uuid.New()
		authorID := uuid.New()

		values := url.Values{
			"status":      {"review_dean"},
			"course_id":   {courseID.String()},
			"course_code": {"CS1"},
			"author_id":   {authorID.String()},
			"is_shared":   {"true"},
		}

		f := syllabi.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "review_dean" {
			t.Errorf("Status = %v, want review_dean", f.Status)
		}
		if f.CourseID == nil || *f.CourseID != courseID {
			t.Errorf("CourseID = %v, want %s", f.CourseID, courseID)
		}
		if f.CourseCode == nil || *f.CourseCode != "CS1" {
			t.Errorf("CourseCode = %v, want CS1", f.CourseCode)
		}
		if f.AuthorID == nil || *f.AuthorID != authorID {
			t.Errorf("AuthorID = %v, want %s", f.AuthorID, authorID)
		}
		if f.IsShared == nil || !*f.IsShared {
			t.Errorf("IsShared = %v, want true", f.IsShared)
		}
	})

	t.Run("empty values ignored", func(t *testing.T) {
		f := syllabi.FiltersFromQuery(url.Values{})

		if f.Status != nil || f.CourseID != nil || f.CourseCode != nil || f.AuthorID != nil || f.IsShared != nil {
			t.Errorf("filters should be empty, got %+v", f)
		}
	})

	t.Run("malformed values ignored", func(t *testing.T) {
		values := url.Values{
			"course_id": {"not-a-uuid"},
			"author_id": {"also-bad"},
			"is_shared": {"maybe"},
		}

		f := syllabi.FiltersFromQuery(values)

		if f.CourseID != nil {
			t.Errorf("CourseID = %v, want nil for malformed uuid", f.CourseID)
		}
		if f.AuthorID != nil {
			t.Errorf("AuthorID = %v, want nil for malformed uuid", f.AuthorID)
		}
		if f.IsShared != nil {
			t.Errorf("IsShared = %v, want nil for malformed bool", f.IsShared)
		}
	})
}

func TestEditable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{syllabi.StatusDraft, true},
		{syllabi.StatusCorrection, true},
		{syllabi.StatusAiCheck, false},
		{syllabi.StatusReviewDean, false},
		{syllabi.StatusReviewUmu, false},
		{syllabi.StatusApproved, false},
		{syllabi.StatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			s := syllabi.Syllabus{Status: tt.status}
			if got := s.Editable(); got != tt.want {
				t.Errorf("Editable() = %v, want %v", got, tt.want)
			}
		})
	}
}
