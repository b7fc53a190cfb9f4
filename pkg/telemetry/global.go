package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/keystone-go/keystone/pkg/telemetry/projectinfo"
)

// Global variables for the process-wide client
var (
	globalClient  *Client
	globalOnce    sync.Once
	globalVersion = "dev"
)

// SetGlobalVersion sets the version reported by the process-wide client.
// It must be called before the first report to take effect.
func SetGlobalVersion(version string) {
	globalVersion = version
}

// Default returns the process-wide client, creating it on first use from the
// user's config file and the process environment.
func Default() *Client {
	globalOnce.Do(func() {
		globalClient = New(
			WithLogger(slog.Default()),
			WithVersion(globalVersion),
		)
	})
	return globalClient
}

// ReportEvent reports an event through the client stored in ctx, or the
// process-wide client if there is none. It never fails.
func ReportEvent(ctx context.Context, eventType, cwd, dbProvider string, schema projectinfo.Schema) {
	defer func() {
		_ = recover()
	}()

	client := FromContext(ctx)
	if client == nil {
		client = Default()
	}
	client.ReportEvent(ctx, eventType, cwd, dbProvider, schema)
}
