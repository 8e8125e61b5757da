package checks

import (
	"encoding/json"
	"fmt"

	"github.com/lectio-edu/lectio/pkg/query"
	"github.com/lectio-edu/lectio/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "ai_check_results", "r").
	Project("id", "ID").
	Project("syllabus_id", "SyllabusID").
	Project("model_name", "ModelName").
	Project("summary", "Summary").
	Project("raw_result", "Raw").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanResult(s repository.Scanner) (Result, error) {
	var r Result
	var rawJSON []byte

	err := s.Scan(
		&r.ID,
		&r.SyllabusID,
		&r.ModelName,
		&r.Summary,
		&rawJSON,
		&r.CreatedAt,
	)

	if err != nil {
		return r, err
	}

	if len(rawJSON) > 0 {
		if err := json.Unmarshal(rawJSON, &r.Raw); err != nil {
			return r, fmt.Errorf("unmarshal raw_result: %w", err)
		}
	}

	return r, nil
}
