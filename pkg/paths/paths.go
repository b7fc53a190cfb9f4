package paths

import (
	"os"
	"path/filepath"
)

// DefaultNamespace is the application namespace used for per-user state.
const DefaultNamespace = "keystone"

// GetConfigDir returns the user's config directory for the given application
// namespace, e.g. ~/.config/keystone.
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory. This is a best-effort fallback and
// not intended to be a security boundary.
func GetConfigDir(namespace string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), "."+namespace+"-config"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".config", namespace))
}

// GetDataDir returns the user's data directory for the namespace (logs, caches).
func GetDataDir(namespace string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), "."+namespace))
	}
	return filepath.Clean(filepath.Join(homeDir, "."+namespace))
}
