// Package projectinfo inventories a keystone project for telemetry. Values
// that could identify the project are hashed with the installation salt.
package projectinfo

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// ModulePrefix selects the dependencies whose versions are reported.
const ModulePrefix = "github.com/keystone-go/"

// Hash returns the hex SHA-256 of salt followed by value.
func Hash(salt, value string) string {
	sum := sha256.Sum256([]byte(salt + value))
	return hex.EncodeToString(sum[:])
}

// Collect returns the project facts for the project rooted at cwd.
//
// A missing go.mod is not an error; a malformed one is.
func Collect(cwd string, schema Schema, salt string) (map[string]any, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	facts := map[string]any{
		"projectPath": Hash(salt, abs),
		"lists":       len(schema.Lists),
		"fields":      schema.FieldCounts(),
	}

	mod, err := readModule(abs)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return facts, nil
	}

	if mod.Module != nil {
		facts["projectName"] = Hash(salt, mod.Module.Mod.Path)
	}
	facts["keystonePackages"] = packageVersions(mod)

	return facts, nil
}

func readModule(dir string) (*modfile.File, error) {
	path := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}

	mod, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	return mod, nil
}

// packageVersions maps each required keystone module to its version.
func packageVersions(mod *modfile.File) map[string]string {
	versions := map[string]string{}
	for _, req := range mod.Require {
		if strings.HasPrefix(req.Mod.Path, ModulePrefix) {
			versions[req.Mod.Path] = req.Mod.Version
		}
	}
	return versions
}
