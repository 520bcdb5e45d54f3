package config

import (
	"context"
)

// Loader provides guardrails configuration loading. It abstracts the source
// so the scan pipeline does not care whether rules come from a file, an
// environment, or something remote.
type Loader interface {
	// Load retrieves, parses, and validates the configuration. It returns
	// the parsed configuration or an error preserving the cause.
	Load(ctx context.Context) (*Config, error)
}
