package telemetry

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/keystone-go/keystone/pkg/telemetry/projectinfo"
)

// tokenSize is the size in bytes of the device id and the salt.
const tokenSize = 32

// ReportEvent reports one usage event. It never fails and never waits for the
// network: errors and panics from any stage are discarded.
func (tc *Client) ReportEvent(ctx context.Context, eventType, cwd, dbProvider string, schema projectinfo.Schema) {
	defer func() {
		if r := recover(); r != nil {
			tc.logger.Debug("Recovered while reporting event", "event_type", eventType, "panic", r)
		}
	}()

	if err := tc.report(ctx, eventType, cwd, dbProvider, schema); err != nil {
		tc.logger.Debug("Failed to report event", "event_type", eventType, "error", err)
	}
}

func (tc *Client) report(ctx context.Context, eventType, cwd, dbProvider string, schema projectinfo.Schema) error {
	if tc.gate.IsDisabled(ctx) {
		return nil
	}

	tc.notifyIfNeeded()

	identity, err := tc.ensureIdentity()
	if err != nil {
		return err
	}

	event, err := tc.compose(eventType, cwd, dbProvider, schema, identity)
	if err != nil {
		return err
	}

	tc.deliver(ctx, event)
	return nil
}

// ensureIdentity returns the device id and salt, generating each one the
// first time it is needed. The two are provisioned independently.
func (tc *Client) ensureIdentity() (Identity, error) {
	deviceID, err := tc.ensureToken(keyDeviceID, &tc.state.deviceID)
	if err != nil {
		return Identity{}, err
	}
	salt, err := tc.ensureToken(keySalt, &tc.state.salt)
	if err != nil {
		return Identity{}, err
	}
	return Identity{DeviceID: deviceID, Salt: salt}, nil
}

func (tc *Client) ensureToken(key string, field *string) (string, error) {
	value, persistErr, err := tc.state.ensure(key, field, tc.newToken)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", key, err)
	}
	if persistErr != nil {
		tc.logger.Debug("Failed to persist identity, using it for this process only", "key", key, "error", persistErr)
	}
	return value, nil
}

func (tc *Client) newToken() (string, error) {
	buf := make([]byte, tokenSize)
	if _, err := io.ReadFull(tc.random, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// compose merges the collaborator facts into one event. Project facts arrive
// already salted; nothing is hashed here.
func (tc *Client) compose(eventType, cwd, dbProvider string, schema projectinfo.Schema, identity Identity) (*Event, error) {
	projectFacts, err := tc.projectInfo(cwd, schema, identity.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to collect project info: %w", err)
	}

	return &Event{
		DeviceID:     identity.DeviceID,
		DeviceFacts:  tc.deviceInfo(),
		ProjectFacts: projectFacts,
		DBProvider:   dbProvider,
		EventType:    eventType,
	}, nil
}

// Status returns the persisted settings and the decision for this process.
func (tc *Client) Status(ctx context.Context) Status {
	notified, deviceID, salt, disabled := tc.state.snapshot()
	return Status{
		Disabled:         tc.gate.IsDisabled(ctx),
		DisabledInConfig: disabled,
		Notified:         notified,
		DeviceID:         deviceID,
		HasSalt:          salt != "",
	}
}

// Disable persists the opt-out and applies it to this process.
func (tc *Client) Disable(ctx context.Context) error {
	if err := tc.state.setDisabled(true); err != nil {
		return fmt.Errorf("failed to save telemetry setting: %w", err)
	}
	tc.gate.force(ctx)
	return nil
}

// Enable removes the persisted opt-out. An override set in the environment
// still wins.
func (tc *Client) Enable(ctx context.Context) error {
	if err := tc.state.setDisabled(false); err != nil {
		return fmt.Errorf("failed to save telemetry setting: %w", err)
	}
	tc.gate.release(ctx)
	return nil
}

// Reset forgets the device id, the salt and the notice.
func (tc *Client) Reset() error {
	if err := tc.state.reset(); err != nil {
		return fmt.Errorf("failed to reset telemetry state: %w", err)
	}
	return nil
}

// Wait blocks until detached deliveries finish or ctx is done. ReportEvent
// never calls it; hosts call it before exiting.
func (tc *Client) Wait(ctx context.Context) error {
	return tc.deliveries.Wait(ctx)
}
