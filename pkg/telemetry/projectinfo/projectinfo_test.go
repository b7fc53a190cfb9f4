package projectinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Lists: map[string]List{
		"Post": {Fields: map[string]string{"title": "text", "content": "text", "author": "relationship"}},
		"User": {Fields: map[string]string{"name": "text", "posts": "relationship", "isAdmin": "checkbox"}},
	},
}

func TestHash(t *testing.T) {
	t.Parallel()

	assert.Len(t, Hash("salt", "value"), 64)
	assert.Equal(t, Hash("salt", "value"), Hash("salt", "value"))
	assert.NotEqual(t, Hash("salt", "value"), Hash("other", "value"))
	assert.NotEqual(t, Hash("salt", "value"), Hash("salt", "other"))
}

func TestCollect_WithoutGoMod(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	facts, err := Collect(dir, testSchema, "salt")
	require.NoError(t, err)

	assert.Equal(t, Hash("salt", dir), facts["projectPath"])
	assert.Equal(t, 2, facts["lists"])
	assert.Equal(t, map[string]int{"text": 3, "relationship": 2, "checkbox": 1}, facts["fields"])
	assert.NotContains(t, facts, "projectName")
	assert.NotContains(t, facts, "keystonePackages")
}

func TestCollect_WithGoMod(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	goMod := `module example.com/acme/blog

go 1.25

require (
	github.com/keystone-go/keystone v1.4.0
	github.com/keystone-go/fields-document v0.2.1
	github.com/stretchr/testify v1.11.1
)
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0o644))

	facts, err := Collect(dir, Schema{}, "salt")
	require.NoError(t, err)

	assert.Equal(t, Hash("salt", "example.com/acme/blog"), facts["projectName"])
	assert.Equal(t, map[string]string{
		"github.com/keystone-go/keystone":        "v1.4.0",
		"github.com/keystone-go/fields-document": "v0.2.1",
	}, facts["keystonePackages"])
	assert.Equal(t, 0, facts["lists"])
}

func TestCollect_NoRawPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	facts, err := Collect(dir, testSchema, "salt")
	require.NoError(t, err)

	for key, value := range facts {
		if s, ok := value.(string); ok {
			assert.NotContains(t, s, dir, "fact %s leaks the raw path", key)
		}
	}
}

func TestCollect_MalformedGoMod(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module (\n"), 0o644))

	_, err := Collect(dir, testSchema, "salt")
	require.Error(t, err)
}

func TestLoadSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := `lists:
  Post:
    fields:
      title: text
      author: relationship
  Tag:
    fields:
      name: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	schema, err := LoadSchema(path)
	require.NoError(t, err)

	assert.Len(t, schema.Lists, 2)
	assert.Equal(t, map[string]int{"text": 2, "relationship": 1}, schema.FieldCounts())
}

func TestLoadSchema_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read schema")

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lists: [1, 2"), 0o644))
	_, err = LoadSchema(path)
	require.ErrorContains(t, err, "failed to parse schema")
}
