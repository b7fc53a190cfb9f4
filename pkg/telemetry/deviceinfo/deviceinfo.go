// Package deviceinfo collects anonymous facts about the host machine.
package deviceinfo

import (
	"maps"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// ciVariables are set by common CI providers.
var ciVariables = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"BUILD_NUMBER",
	"RUN_ID",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"BUILDKITE",
	"CIRCLECI",
	"TF_BUILD",
}

var collectOnce = sync.OnceValue(collect)

// Collect returns the device facts. They are computed once per process; the
// returned map is a copy the caller may modify.
func Collect() map[string]any {
	return maps.Clone(collectOnce())
}

func collect() map[string]any {
	return map[string]any{
		"os":        runtime.GOOS,
		"osVersion": osVersion(),
		"arch":      runtime.GOARCH,
		"goVersion": runtime.Version(),
		"numCPU":    runtime.NumCPU(),
		"isCI":      isCI(os.Getenv),
		"isDocker":  isDocker(os.ReadFile),
		"isTTY":     isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

func isCI(getenv func(string) string) bool {
	for _, name := range ciVariables {
		if v := getenv(name); v != "" && v != "false" && v != "0" {
			return true
		}
	}
	return false
}

func isDocker(readFile func(string) ([]byte, error)) bool {
	if _, err := readFile("/.dockerenv"); err == nil {
		return true
	}
	cgroup, err := readFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	return strings.Contains(string(cgroup), "docker")
}
