// Package telemetry provides anonymous usage reporting for keystone.
//
// Every call to ReportEvent decides whether telemetry is allowed, shows a
// one-time disclosure notice, provisions a random device id and salt on first
// use, and sends a single event to the collector. Reporting never blocks the
// caller on the network and never fails: every error is discarded.
//
// Telemetry can be disabled at any time:
// - keystone telemetry disable (persisted in ~/.config/keystone/config.yaml)
// - KEYSTONE_TELEMETRY_DISABLED=1 (any value other than "0" or "false")
//
// The system collects:
// - The device id and basic facts about the host (OS, architecture, CI)
// - Salted hashes of the project path and module name
// - Counts of lists and field types in the project schema
// - The database provider and the event type
//
// The system does NOT collect:
// - Raw paths, list names or any project content
// - Credentials or personally identifying information
//
// Files in this package:
// - client.go: Client construction and options
// - events.go: ReportEvent and opt-out management
// - gate.go: Disable policy and the cascade to dependent tools
// - state.go: Cached view of the persisted telemetry state
// - notify.go: One-time disclosure notice
// - http.go: Event composition and delivery
// - global.go: Process-wide client
package telemetry
