package checks

import (
	"fmt"
	"strings"

	"github.com/lectio-edu/lectio/internal/llm"
	"github.com/lectio-edu/lectio/internal/syllabi"
	"github.com/lectio-edu/lectio/pkg/formatting"
)

const reviewInstruction = `You are an academic quality reviewer for university course syllabi.
Judge whether the syllabus below is ready for staged review against these criteria:
- the course states its goals
- every teaching week of the stated duration is planned exactly once
- topics are relevant to the course and ordered sensibly
- the weekly workload is plausible for the stated duration
- literature is listed and reasonably recent
Respond with a single JSON object containing exactly two keys:
"approved" (boolean) and "feedback" (a string addressed to the author
explaining your judgement). Respond with JSON only, no other text.`

// buildPrompt composes the chat prompt for a check run, truncating the
// content to the configured character budget.
func buildPrompt(detail *syllabi.Detail, content string, maxChars int) string {
	if maxChars > 0 && len(content) > maxChars {
		content = content[:maxChars]
	}

	user := fmt.Sprintf(
		"Course: %s %s\nPlanned duration: %d weeks\n\nSyllabus content:\n%s",
		detail.CourseCode,
		detail.CourseTitle,
		detail.TotalWeeks,
		content,
	)

	return llm.ComposePrompt(reviewInstruction, user)
}

// parseVerdict decodes a model response into a Verdict. It tries the
// response as-is (including fenced JSON), then falls back to the outermost
// brace-delimited span. Malformed responses report ok=false rather than
// an error.
func parseVerdict(response string) (Verdict, bool) {
	if v, err := formatting.Parse[Verdict](response); err == nil {
		return v, true
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		if v, err := formatting.Parse[Verdict](response[start : end+1]); err == nil {
			return v, true
		}
	}

	return Verdict{}, false
}
