package syllabi

import (
	"fmt"
	"sort"
)

// Validate inspects a syllabus's weekly topic plan and returns a list of
// structural issues. An empty result means the plan is structurally sound.
//
// Checks performed:
//   - the plan must contain at least one topic assignment
//   - no week number may appear more than once
//   - no week number may exceed the syllabus's total weeks
//   - when all week numbers are in range, every week must be covered
func Validate(d *Detail) []string {
	if len(d.Topics) == 0 {
		return []string{"syllabus has no topic assignments"}
	}

	var issues []string

	seen := make(map[int]int)
	maxWeek := 0
	for _, t := range d.Topics {
		seen[t.WeekNumber]++
		if t.WeekNumber > maxWeek {
			maxWeek = t.WeekNumber
		}
	}

	duplicates := make([]int, 0)
	for week, count := range seen {
		if count > 1 {
			duplicates = append(duplicates, week)
		}
	}
	sort.Ints(duplicates)
	for _, week := range duplicates {
		issues = append(issues, fmt.Sprintf("week %d has multiple topic assignments", week))
	}

	if maxWeek > d.TotalWeeks {
		issues = append(issues, fmt.Sprintf("week %d exceeds the syllabus span of %d weeks", maxWeek, d.TotalWeeks))
		return issues
	}

	for week := 1; week <= d.TotalWeeks; week++ {
		if seen[week] == 0 {
			issues = append(issues, fmt.Sprintf("week %d has no topic assignment", week))
		}
	}

	return issues
}
