package actors

import "errors"

// Domain errors for actor resolution.
var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)
