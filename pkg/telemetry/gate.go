package telemetry

import (
	"context"
	"sync"

	"github.com/keystone-go/keystone/pkg/env"
)

// gate decides whether telemetry may run in this process.
type gate struct {
	env     env.Environment
	cascade []string
	logger  *telemetryLogger

	mu sync.Mutex
	// forced is set when the override was raised because of the persisted
	// opt-out rather than by the user. previous holds the value it replaced.
	forced   bool
	previous string
}

// newGate raises the override when the opt-out is persisted and, if
// telemetry ends up disabled, switches off the dependent tools right away.
func newGate(ctx context.Context, environment env.Environment, cascade []string, persistedDisabled bool, logger *telemetryLogger) *gate {
	g := &gate{
		env:     environment,
		cascade: cascade,
		logger:  logger,
	}
	if persistedDisabled {
		g.force(ctx)
	}
	g.IsDisabled(ctx)
	return g
}

// force raises the override unless it already disables telemetry.
func (g *gate) force(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.forced {
		return
	}
	current := g.override(ctx)
	if isDisablingValue(current) {
		return
	}
	if err := g.env.SetEnv(ctx, EnvDisabled, "1"); err != nil {
		g.logger.Debug("Failed to set override", "name", EnvDisabled, "error", err)
		return
	}
	g.forced = true
	g.previous = current
}

// release undoes force by restoring the value it replaced. A value set by the
// user is left alone.
func (g *gate) release(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.forced {
		return
	}
	if err := g.env.SetEnv(ctx, EnvDisabled, g.previous); err != nil {
		g.logger.Debug("Failed to clear override", "name", EnvDisabled, "error", err)
		return
	}
	g.forced = false
	g.previous = ""
}

func (g *gate) override(ctx context.Context) string {
	value, err := g.env.GetEnv(ctx, EnvDisabled)
	if err != nil {
		g.logger.Debug("Failed to read override", "name", EnvDisabled, "error", err)
		return ""
	}
	return value
}

// IsDisabled reads the override and, when it disables telemetry, switches
// off the dependent tools as well.
func (g *gate) IsDisabled(ctx context.Context) bool {
	if !isDisablingValue(g.override(ctx)) {
		return false
	}

	for _, name := range g.cascade {
		if err := g.env.SetEnv(ctx, name, "1"); err != nil {
			g.logger.Debug("Failed to disable dependent telemetry", "name", name, "error", err)
		}
	}
	return true
}

// isDisablingValue implements the override policy: anything but "", "0" and
// "false" disables. "FALSE" or "no" disable too.
func isDisablingValue(v string) bool {
	return v != "" && v != "0" && v != "false"
}
