// Package logging configures the process-wide slog logger of the CLI.
package logging

import (
	"cmp"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/keystone-go/keystone/pkg/paths"
)

// DefaultLogFile is the debug log under the user's data directory.
func DefaultLogFile() string {
	return filepath.Join(paths.GetDataDir(paths.DefaultNamespace), "keystone.debug.log")
}

// Setup installs the default slog logger. Without debug, logs are discarded.
// With debug, they go to a rotating file at path, or DefaultLogFile when path
// is blank. The returned closer is nil when no file was opened.
func Setup(debug bool, path string) (io.Closer, error) {
	if !debug {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil, nil
	}

	logFile, err := NewRotatingFile(cmp.Or(strings.TrimSpace(path), DefaultLogFile()))
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return logFile, nil
}
