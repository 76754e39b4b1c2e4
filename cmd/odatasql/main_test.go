package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgsDefaultsToAnsiDialect(t *testing.T) {
	opts, arg, compileOpts := parseArgs([]string{"Orders?$top=5"})
	assert.Equal(t, "Orders?$top=5", arg)
	assert.Equal(t, "ansi", compileOpts.Dialect)
	assert.True(t, compileOpts.UseParameters)
	assert.False(t, opts.Debug)
}

func TestParseArgsDialectFlagOverridesDefault(t *testing.T) {
	_, _, compileOpts := parseArgs([]string{"-d", "postgresql", "Orders"})
	assert.Equal(t, "postgresql", compileOpts.Dialect)
}

func TestParseArgsNoParametersFlag(t *testing.T) {
	_, _, compileOpts := parseArgs([]string{"--no-parameters", "Orders"})
	assert.False(t, compileOpts.UseParameters)
}

func TestParseArgsConfigFileIsMergedThenOverriddenByFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odatasql.yml")
	assert.NoError(t, os.WriteFile(path, []byte("dialect: mysql\n"), 0o644))

	_, _, compileOpts := parseArgs([]string{"-c", path, "-d", "oracle", "Orders"})
	assert.Equal(t, "oracle", compileOpts.Dialect, "an explicit -d flag wins over the config file")
}
