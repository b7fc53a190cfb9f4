package telemetry

import (
	"encoding/json"
	"maps"
)

const (
	// EnvDisabled disables telemetry unless empty, "0" or "false".
	EnvDisabled = "KEYSTONE_TELEMETRY_DISABLED"
	// EnvDebug prints events instead of sending them when set to "1".
	EnvDebug = "KEYSTONE_TELEMETRY_DEBUG"
	// EnvEndpoint overrides the collector base URL.
	EnvEndpoint = "KEYSTONE_TELEMETRY_ENDPOINT"

	DefaultEndpoint = "https://telemetry.keystonejs.com"

	debugModeOn = "1"
	eventPath   = "/v1/event"
)

// DefaultCascade lists the variables of dependent tools that are switched off
// together with keystone telemetry.
var DefaultCascade = []string{
	"NEXT_TELEMETRY_DISABLED",
	"CHECKPOINT_DISABLE",
}

// Event types reported by the keystone CLI.
const (
	EventTypeDev    = "dev"
	EventTypeBuild  = "build"
	EventTypeStart  = "start"
	EventTypePrisma = "prisma"
)

// Identity is the anonymous identity of one installation.
type Identity struct {
	DeviceID string `json:"deviceId"`
	Salt     string `json:"salt"`
}

// Event is the payload of one report. It is encoded as a single flat JSON
// object.
type Event struct {
	DeviceID     string
	DeviceFacts  map[string]any
	ProjectFacts map[string]any
	DBProvider   string
	EventType    string
}

// ToMap flattens the event. Later sources win on key collisions: device facts,
// then project facts, then dbProvider and eventType.
func (e *Event) ToMap() map[string]any {
	out := make(map[string]any, len(e.DeviceFacts)+len(e.ProjectFacts)+3)
	out["deviceId"] = e.DeviceID
	maps.Copy(out, e.DeviceFacts)
	maps.Copy(out, e.ProjectFacts)
	out["dbProvider"] = e.DBProvider
	out["eventType"] = e.EventType
	return out
}

func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMap())
}

// Status describes the persisted and effective telemetry settings.
type Status struct {
	// Disabled is the effective decision for this process.
	Disabled bool
	// DisabledInConfig reports the persisted opt-out.
	DisabledInConfig bool
	// Notified is when the disclosure was shown, empty if never.
	Notified string
	// DeviceID is empty until the first report.
	DeviceID string
	HasSalt  bool
}
