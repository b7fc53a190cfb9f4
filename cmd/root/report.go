package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keystone-go/keystone/pkg/telemetry"
	"github.com/keystone-go/keystone/pkg/telemetry/projectinfo"
)

type reportFlags struct {
	dbProvider string
	schemaPath string
	dir        string
}

func newReportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report <event-type>",
		Short: "Report an anonymous usage event for the current project",
		Long: `Report an anonymous usage event for the project in the current directory.

Nothing is sent when telemetry is disabled. Reporting never fails the command.`,
		Example: `  keystone report dev --db-provider sqlite --schema schema.yaml
  KEYSTONE_TELEMETRY_DEBUG=1 keystone report build`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{telemetry.EventTypeDev, telemetry.EventTypeBuild, telemetry.EventTypeStart, telemetry.EventTypePrisma},
		RunE:      flags.runReportCommand,
	}

	cmd.Flags().StringVar(&flags.dbProvider, "db-provider", "sqlite", "Database provider of the project")
	cmd.Flags().StringVar(&flags.schemaPath, "schema", "", "Path to a YAML description of the project's lists")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "Project directory (default: current directory)")

	return cmd
}

func (f *reportFlags) runReportCommand(cmd *cobra.Command, args []string) error {
	var schema projectinfo.Schema
	if f.schemaPath != "" {
		var err error
		if schema, err = projectinfo.LoadSchema(f.schemaPath); err != nil {
			return err
		}
	}

	cwd := f.dir
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	telemetry.ReportEvent(cmd.Context(), args[0], cwd, f.dbProvider, schema)
	return nil
}
