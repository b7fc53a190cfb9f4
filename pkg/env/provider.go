package env

import "context"

type Provider interface {
	// GetEnv retrieves the value of an environment variable by name.
	GetEnv(ctx context.Context, name string) (string, error)
}

type Setter interface {
	// SetEnv sets an environment variable for the rest of the process.
	SetEnv(ctx context.Context, name, value string) error
}

// Environment is a readable and writable environment.
type Environment interface {
	Provider
	Setter
}
