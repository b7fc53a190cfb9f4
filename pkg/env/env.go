package env

import (
	"context"
	"os"
	"sync"
)

// OSEnvironment reads and writes the process environment.
type OSEnvironment struct{}

func NewOSEnvironment() *OSEnvironment {
	return &OSEnvironment{}
}

func (p *OSEnvironment) GetEnv(ctx context.Context, name string) (string, error) {
	return os.Getenv(name), nil
}

func (p *OSEnvironment) SetEnv(ctx context.Context, name, value string) error {
	return os.Setenv(name, value)
}

// MapEnvironment is an in-memory Environment, mostly useful in tests.
type MapEnvironment struct {
	mu   sync.Mutex
	vars map[string]string
}

func NewMapEnvironment(vars map[string]string) *MapEnvironment {
	m := &MapEnvironment{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

func (m *MapEnvironment) GetEnv(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vars[name], nil
}

func (m *MapEnvironment) SetEnv(ctx context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[name] = value
	return nil
}
