package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keystone-go/keystone/pkg/paths"
	"github.com/keystone-go/keystone/pkg/telemetry"
	"github.com/keystone-go/keystone/pkg/userconfig"
)

var errNoTelemetryClient = errors.New("telemetry is not initialized")

func newTelemetryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telemetry",
		Short: "Manage anonymous usage telemetry",
		Args:  cobra.NoArgs,
		RunE:  runTelemetryStatusCommand,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether telemetry is enabled",
		Args:  cobra.NoArgs,
		RunE:  runTelemetryStatusCommand,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Enable anonymous usage telemetry",
		Args:  cobra.NoArgs,
		RunE:  runTelemetryEnableCommand,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Disable anonymous usage telemetry",
		Args:  cobra.NoArgs,
		RunE:  runTelemetryDisableCommand,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the anonymous device id and salt",
		Long:  "Forget the anonymous device id and salt. New ones are generated on the next report.",
		Args:  cobra.NoArgs,
		RunE:  runTelemetryResetCommand,
	})

	return cmd
}

func telemetryClient(cmd *cobra.Command) (*telemetry.Client, error) {
	client := telemetry.FromContext(cmd.Context())
	if client == nil {
		return nil, errNoTelemetryClient
	}
	return client, nil
}

func runTelemetryStatusCommand(cmd *cobra.Command, _ []string) error {
	client, err := telemetryClient(cmd)
	if err != nil {
		return err
	}

	status := client.Status(cmd.Context())
	out := cmd.OutOrStdout()

	switch {
	case !status.Disabled:
		fmt.Fprintln(out, "Telemetry is enabled.")
	case status.DisabledInConfig:
		fmt.Fprintln(out, "Telemetry is disabled (keystone telemetry disable).")
	default:
		fmt.Fprintf(out, "Telemetry is disabled (%s is set).\n", telemetry.EnvDisabled)
	}

	deviceID := status.DeviceID
	if deviceID == "" {
		deviceID = "not generated yet"
	}
	notified := status.Notified
	if notified == "" {
		notified = "never"
	}

	fmt.Fprintf(out, "  Device ID:    %s\n", deviceID)
	fmt.Fprintf(out, "  Notice shown: %s\n", notified)
	fmt.Fprintf(out, "  Config file:  %s\n", userconfig.Path(paths.DefaultNamespace))
	return nil
}

func runTelemetryEnableCommand(cmd *cobra.Command, _ []string) error {
	client, err := telemetryClient(cmd)
	if err != nil {
		return err
	}
	if err := client.Enable(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Telemetry enabled. Thank you for helping improve Keystone!")
	if client.Status(cmd.Context()).Disabled {
		fmt.Fprintf(cmd.OutOrStdout(), "Note: %s is still set in your environment.\n", telemetry.EnvDisabled)
	}
	return nil
}

func runTelemetryDisableCommand(cmd *cobra.Command, _ []string) error {
	client, err := telemetryClient(cmd)
	if err != nil {
		return err
	}
	if err := client.Disable(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Telemetry disabled. No usage data will be sent from this machine.")
	return nil
}

func runTelemetryResetCommand(cmd *cobra.Command, _ []string) error {
	client, err := telemetryClient(cmd)
	if err != nil {
		return err
	}
	if err := client.Reset(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Telemetry identity reset.")
	return nil
}
