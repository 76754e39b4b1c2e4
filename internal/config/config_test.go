package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFillsDefaultsWhenFileIsEmpty(t *testing.T) {
	r := File{}.Resolve()
	assert.Equal(t, "ansi", r.Dialect)
	assert.True(t, r.UseParameters)
	assert.Equal(t, 500, r.Limits.MaxPageSize)
}

func TestResolveOverridesOnlySetFields(t *testing.T) {
	f := File{Dialect: "postgresql"}
	maxDepth := 3
	f.Limits.MaxExpandDepth = &maxDepth
	r := f.Resolve()
	assert.Equal(t, "postgresql", r.Dialect)
	assert.Equal(t, 3, r.Limits.MaxExpandDepth)
	assert.True(t, r.UseParameters, "fields the file omits keep the package default")
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odatasql.yml")
	contents := "dialect: mysql\nuseParameters: false\nlimits:\n  maxPageSize: 50\n"
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	r, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "mysql", r.Dialect)
	assert.False(t, r.UseParameters)
	assert.Equal(t, 50, r.Limits.MaxPageSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/odatasql.yml")
	assert.Error(t, err)
}
