package root

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keystone-go/keystone/pkg/logging"
	"github.com/keystone-go/keystone/pkg/telemetry"
	"github.com/keystone-go/keystone/pkg/version"
)

// deliveryGracePeriod bounds how long the CLI lingers at exit for telemetry
// requests that are still in flight.
const deliveryGracePeriod = 2 * time.Second

type rootFlags struct {
	enableOtel  bool
	debugMode   bool
	logFilePath string
	logFile     io.Closer
}

func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "keystone",
		Short: "keystone - headless CMS toolkit",
		Long:  "keystone is a command-line tool for developing and running keystone projects",
		Example: `  keystone report dev --db-provider sqlite
  keystone telemetry status
  keystone telemetry disable`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logging before anything else
			logFile, err := logging.Setup(flags.debugMode, flags.logFilePath)
			if err != nil {
				// If logging setup fails, fall back to stderr so we still get logs
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
				slog.Warn("Failed to open debug log file", "error", err)
			}
			flags.logFile = logFile

			if flags.enableOtel {
				if err := initOTelSDK(cmd.Context()); err != nil {
					slog.Warn("Failed to initialize OpenTelemetry SDK", "error", err)
				} else {
					slog.Debug("OpenTelemetry SDK initialized successfully")
				}
			}

			if telemetry.FromContext(cmd.Context()) == nil {
				client := telemetry.New(
					telemetry.WithLogger(slog.Default()),
					telemetry.WithVersion(version.Version),
					telemetry.WithOutput(cmd.ErrOrStderr()),
				)
				cmd.SetContext(telemetry.WithClient(cmd.Context(), client))
			}

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if client := telemetry.FromContext(cmd.Context()); client != nil {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), deliveryGracePeriod)
				if err := client.Wait(ctx); err != nil {
					slog.Debug("Telemetry still in flight at exit", "error", err)
				}
				cancel()
			}

			if flags.logFile != nil {
				if err := flags.logFile.Close(); err != nil {
					slog.Error("Failed to close log file", "error", err)
				}
			}
			return nil
		},
		// If no subcommand is specified, show help
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.debugMode, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.enableOtel, "otel", "o", false, "Enable OpenTelemetry tracing")
	cmd.PersistentFlags().StringVar(&flags.logFilePath, "log-file", "", "Path to debug log file (default: ~/.keystone/keystone.debug.log; only used with --debug)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newTelemetryCmd())

	return cmd
}

func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	telemetry.SetGlobalVersion(version.Version)

	rootCmd := NewRootCmd()
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return processErr(ctx, err, stderr, rootCmd)
	}
	return nil
}

func processErr(ctx context.Context, err error, stderr io.Writer, rootCmd *cobra.Command) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	fmt.Fprintln(stderr, err)
	fmt.Fprintln(stderr)
	if strings.HasPrefix(err.Error(), "unknown command ") || strings.HasPrefix(err.Error(), "accepts ") {
		_ = rootCmd.Usage()
	}
	return err
}
