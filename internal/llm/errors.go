package llm

import "errors"

// Gateway errors.
var (
	// ErrModelUnavailable indicates the local model could not be loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrConfiguration indicates the gateway cannot be constructed from
	// the given configuration.
	ErrConfiguration = errors.New("gateway misconfigured")
	// ErrGateway indicates a remote inference request failed.
	ErrGateway = errors.New("gateway request failed")
)
