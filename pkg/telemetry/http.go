package telemetry

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/keystone-go/keystone/pkg/telemetry"

func (tc *Client) getenv(ctx context.Context, name string) string {
	value, err := tc.env.GetEnv(ctx, name)
	if err != nil {
		tc.logger.Debug("Failed to read environment", "name", name, "error", err)
		return ""
	}
	return value
}

func (tc *Client) isDebugMode(ctx context.Context) bool {
	return tc.getenv(ctx, EnvDebug) == debugModeOn
}

// eventURL returns {endpoint}/v1/event.
func (tc *Client) eventURL(ctx context.Context) string {
	endpoint := cmp.Or(tc.getenv(ctx, EnvEndpoint), DefaultEndpoint)
	return strings.TrimSuffix(endpoint, "/") + eventPath
}

// deliver prints the event in debug mode, otherwise posts it from a detached
// goroutine. It returns without waiting for the network.
func (tc *Client) deliver(ctx context.Context, event *Event) {
	url := tc.eventURL(ctx)

	if tc.isDebugMode(ctx) {
		tc.printEvent(url, event)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		tc.logger.Debug("Failed to marshal telemetry event", "event_type", event.EventType, "error", err)
		return
	}

	// The send outlives the caller's context.
	sendCtx := context.WithoutCancel(ctx)
	tc.deliveries.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				tc.logger.Debug("Recovered while sending event", "panic", r)
			}
		}()

		if err := tc.sendEvent(sendCtx, url, event.EventType, body); err != nil {
			tc.logger.Debug("Failed to send telemetry event", "event_type", event.EventType, "error", err)
		}
		return nil
	})
}

// printEvent writes the target and the payload instead of sending it.
func (tc *Client) printEvent(url string, event *Event) {
	output, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		tc.logger.Debug("Failed to marshal telemetry event", "error", err)
		return
	}
	fmt.Fprintf(tc.out, "[Telemetry]: %s\n%s\n", url, output)
	tc.logger.Info("Debug mode, event not sent", "url", url, "event_type", event.EventType)
}

// sendEvent performs a single POST. The response body is drained and the
// status ignored beyond logging.
func (tc *Client) sendEvent(ctx context.Context, url, eventType string, body []byte) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "telemetry.deliver",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("telemetry.event_type", eventType),
			attribute.String("url.full", url),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	tc.logger.Debug("Sending telemetry event", "url", url, "event_type", eventType, "payload_size", len(body))

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	tc.logger.Debug("Telemetry event sent", "event_type", eventType, "status_code", resp.StatusCode)
	return nil
}
