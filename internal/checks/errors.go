package checks

import "errors"

// Domain errors for check results.
var (
	ErrNotFound  = errors.New("check result not found")
	ErrDuplicate = errors.New("check result already exists")
)
