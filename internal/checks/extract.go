package checks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/lectio-edu/lectio/internal/syllabi"
)

const (
	// minFileChars is the minimum extracted text length for an attached
	// document to be considered reviewable on its own.
	minFileChars = 200

	// maxFileBytes bounds how much of a stored document is read for
	// text extraction.
	maxFileBytes = 32 << 20
)

// acquire returns the text to check and its source. The attached document
// wins when enough text can be extracted from it; otherwise the content is
// synthesized from the stored topic plan. Extraction failures are logged
// and fall through to the database path.
func (r *repo) acquire(ctx context.Context, detail *syllabi.Detail) (string, string) {
	if detail.FileKey != nil {
		text, err := r.extractFileText(ctx, *detail.FileKey)
		switch {
		case err != nil:
			r.logger.Warn("file text extraction failed",
				"syllabus_id", detail.ID,
				"key", *detail.FileKey,
				"error", err,
			)
		case len(strings.TrimSpace(text)) >= minFileChars:
			return text, SourceFile
		default:
			r.logger.Info("extracted text below viable length, using stored plan",
				"syllabus_id", detail.ID,
				"chars", len(text),
			)
		}
	}

	return synthesize(detail), SourceDatabase
}

func (r *repo) extractFileText(ctx context.Context, key string) (string, error) {
	rc, err := r.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxFileBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}

	return extractPDFText(data)
}

// extractPDFText pulls text out of a PDF by extracting page content
// streams with pdfcpu and collecting their string literals. Best effort:
// encoded or image-only documents yield little or no text.
func extractPDFText(data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "lectio-check-*")
	if err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := api.ExtractContent(bytes.NewReader(data), dir, "syllabus", nil, nil); err != nil {
		return "", fmt.Errorf("extract content: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read temp directory: %w", err)
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		stream, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("read content stream: %w", err)
		}

		collectTextLiterals(stream, &b)
	}

	return b.String(), nil
}

// collectTextLiterals appends every string literal found in a PDF content
// stream, separated by spaces.
func collectTextLiterals(stream []byte, b *strings.Builder) {
	depth := 0
	escaped := false
	var literal []byte

	for _, c := range stream {
		if depth == 0 {
			if c == '(' {
				depth = 1
				literal = literal[:0]
			}
			continue
		}

		if escaped {
			switch c {
			case 'n', 'r', 't':
				literal = append(literal, ' ')
			default:
				literal = append(literal, c)
			}
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			literal = append(literal, c)
		case ')':
			depth--
			if depth == 0 {
				if len(literal) > 0 {
					if b.Len() > 0 {
						b.WriteByte(' ')
					}
					b.Write(literal)
				}
			} else {
				literal = append(literal, c)
			}
		default:
			literal = append(literal, c)
		}
	}
}

// synthesize builds reviewable text from the stored syllabus detail:
// course identity, description and goal, the weekly topic plan in week
// order with per-topic outcomes and literature, and the literature lists.
func synthesize(detail *syllabi.Detail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Course %s: %s\n", detail.CourseCode, detail.CourseTitle)
	fmt.Fprintf(&b, "Duration: %d weeks\n", detail.TotalWeeks)
	if detail.CourseDescription != "" {
		fmt.Fprintf(&b, "Description: %s\n", detail.CourseDescription)
	}
	if detail.CourseGoal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", detail.CourseGoal)
	}

	if len(detail.Topics) > 0 {
		topics := slices.Clone(detail.Topics)
		slices.SortFunc(topics, func(a, b syllabi.TopicAssignment) int {
			return a.WeekNumber - b.WeekNumber
		})

		b.WriteString("Weekly plan:\n")
		for _, t := range topics {
			fmt.Fprintf(&b, "Week %d: %s (%d hours)\n", t.WeekNumber, t.TopicTitle, t.Hours)
			if t.Outcomes != "" {
				fmt.Fprintf(&b, "  Outcomes: %s\n", t.Outcomes)
			}
			if t.LiteratureNotes != "" {
				fmt.Fprintf(&b, "  Literature: %s\n", t.LiteratureNotes)
			}
		}
	}

	if detail.MainLiterature != "" {
		fmt.Fprintf(&b, "Main literature: %s\n", detail.MainLiterature)
	}
	if detail.AdditionalLiterature != "" {
		fmt.Fprintf(&b, "Additional literature: %s\n", detail.AdditionalLiterature)
	}

	return b.String()
}
