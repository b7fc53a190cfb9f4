package telemetry

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/keystone-go/keystone/pkg/env"
	"github.com/keystone-go/keystone/pkg/httpclient"
	"github.com/keystone-go/keystone/pkg/paths"
	"github.com/keystone-go/keystone/pkg/telemetry/deviceinfo"
	"github.com/keystone-go/keystone/pkg/telemetry/projectinfo"
	"github.com/keystone-go/keystone/pkg/userconfig"
)

// telemetryLogger wraps slog.Logger to automatically prepend "[Telemetry]" to all messages
type telemetryLogger struct {
	logger *slog.Logger
}

func newTelemetryLogger(logger *slog.Logger) *telemetryLogger {
	return &telemetryLogger{logger: logger}
}

// Debug logs a debug message with "[Telemetry]" prefix
func (tl *telemetryLogger) Debug(msg string, args ...any) {
	tl.logger.Debug("[Telemetry] "+msg, args...)
}

// Info logs an info message with "[Telemetry]" prefix
func (tl *telemetryLogger) Info(msg string, args ...any) {
	tl.logger.Info("[Telemetry] "+msg, args...)
}

// Enabled returns whether the logger is enabled for the given level
func (tl *telemetryLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return tl.logger.Enabled(ctx, level)
}

// DeviceInfoFunc returns facts about the host machine.
type DeviceInfoFunc func() map[string]any

// ProjectInfoFunc returns facts about the project in cwd. Identifying values
// must be hashed with salt.
type ProjectInfoFunc func(cwd string, schema projectinfo.Schema, salt string) (map[string]any, error)

// Client reports usage events. A Client is safe for concurrent use, though
// the CLI calls it from a single goroutine.
type Client struct {
	logger     *telemetryLogger
	state      *state
	gate       *gate
	env        env.Environment
	httpClient *http.Client
	out        io.Writer
	random     io.Reader
	now        func() time.Time

	deviceInfo  DeviceInfoFunc
	projectInfo ProjectInfoFunc

	// deliveries lets the host grant detached sends a grace period at exit.
	deliveries inflight
}

type Opt func(*options)

type options struct {
	logger      *slog.Logger
	store       userconfig.Store
	environment env.Environment
	cascade     []string
	httpClient  *http.Client
	out         io.Writer
	random      io.Reader
	now         func() time.Time
	version     string
	deviceInfo  DeviceInfoFunc
	projectInfo ProjectInfoFunc
}

// WithStore sets the persisted state. Defaults to ~/.config/keystone/config.yaml.
func WithStore(store userconfig.Store) Opt {
	return func(o *options) { o.store = store }
}

// WithEnvironment sets where overrides are read from and where the cascade is
// written. Defaults to the process environment.
func WithEnvironment(environment env.Environment) Opt {
	return func(o *options) { o.environment = environment }
}

// WithCascade replaces the variables set on dependent tools when telemetry is
// disabled.
func WithCascade(names ...string) Opt {
	return func(o *options) { o.cascade = slices.Clone(names) }
}

func WithHTTPClient(client *http.Client) Opt {
	return func(o *options) { o.httpClient = client }
}

// WithOutput sets where the disclosure notice and debug events are written.
// Defaults to stderr.
func WithOutput(w io.Writer) Opt {
	return func(o *options) { o.out = w }
}

func WithLogger(logger *slog.Logger) Opt {
	return func(o *options) { o.logger = logger }
}

func WithVersion(version string) Opt {
	return func(o *options) { o.version = version }
}

func WithDeviceInfo(fn DeviceInfoFunc) Opt {
	return func(o *options) { o.deviceInfo = fn }
}

func WithProjectInfo(fn ProjectInfoFunc) Opt {
	return func(o *options) { o.projectInfo = fn }
}

// WithRandom sets the source used for the device id and salt.
func WithRandom(r io.Reader) Opt {
	return func(o *options) { o.random = r }
}

func WithClock(now func() time.Time) Opt {
	return func(o *options) { o.now = now }
}

// New loads the persisted telemetry state and returns a client. When the
// state records an opt-out, the override variable is raised immediately so
// dependent tools started by this process see it.
func New(opts ...Opt) *Client {
	o := options{
		cascade: DefaultCascade,
		version: "dev",
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.store == nil {
		o.store = userconfig.Open(paths.DefaultNamespace)
	}
	if o.environment == nil {
		o.environment = env.NewOSEnvironment()
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.NewHTTPClient(o.version)
	}
	if o.out == nil {
		o.out = os.Stderr
	}
	if o.random == nil {
		o.random = rand.Reader
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.deviceInfo == nil {
		o.deviceInfo = deviceinfo.Collect
	}
	if o.projectInfo == nil {
		o.projectInfo = projectinfo.Collect
	}

	logger := newTelemetryLogger(o.logger)
	st := loadState(o.store)

	return &Client{
		logger:      logger,
		state:       st,
		gate:        newGate(context.Background(), o.environment, o.cascade, st.isDisabled(), logger),
		env:         o.environment,
		httpClient:  o.httpClient,
		out:         o.out,
		random:      o.random,
		now:         o.now,
		deviceInfo:  o.deviceInfo,
		projectInfo: o.projectInfo,
	}
}
