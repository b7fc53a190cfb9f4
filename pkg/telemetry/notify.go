package telemetry

import (
	"fmt"

	"github.com/fatih/color"
)

const disclosureURL = "https://keystonejs.com/telemetry"

var bold = color.New(color.Bold).SprintFunc()

// notifyIfNeeded prints the disclosure once per installation. The timestamp is
// recorded before returning so later calls and later processes stay quiet.
func (tc *Client) notifyIfNeeded() {
	if tc.state.notifiedAt() != "" {
		return
	}

	first, err := tc.state.markNotified(tc.now())
	if err != nil {
		tc.logger.Debug("Failed to persist notice timestamp", "error", err)
	}
	if !first {
		return
	}

	fmt.Fprintf(tc.out, `
%s
The data is anonymised and aggregated, and helps us better support Keystone.
To opt out, run "keystone telemetry disable" or set %s=1.
For more details, visit: %s

`, bold("Keystone collects completely anonymous usage data."), EnvDisabled, disclosureURL)
}
