package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".config", "keystone"), GetConfigDir(DefaultNamespace))
	assert.Equal(t, filepath.Join(home, ".config", "other"), GetConfigDir("other"))
}

func TestGetDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".keystone"), GetDataDir(DefaultNamespace))
}
