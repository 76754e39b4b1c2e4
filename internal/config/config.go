// Package config loads compiler-wide options from YAML, mirroring the
// teacher's convention of keeping runtime knobs in a small declarative file
// rather than scattering flags through the call graph.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/odatasql/odatasql/internal/limits"
)

// File is the on-disk shape of an odatasql config file.
type File struct {
	Dialect       string `yaml:"dialect"`
	UseParameters *bool  `yaml:"useParameters"`
	Limits        struct {
		MaxExpandDepth *int  `yaml:"maxExpandDepth"`
		MaxExpandCount *int  `yaml:"maxExpandCount"`
		MaxPageSize    *int  `yaml:"maxPageSize"`
		MaxSkip        *int  `yaml:"maxSkip"`
		MaxParameters  *int  `yaml:"maxParameters"`
		EnableSearch   *bool `yaml:"enableSearch"`
	} `yaml:"limits"`
}

// Resolved is a File merged over the package defaults.
type Resolved struct {
	Dialect       string
	UseParameters bool
	Limits        limits.Options
}

// Load reads and parses a YAML config file, filling any field the file
// omits from DefaultOptions().
func Load(path string) (Resolved, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Resolved{}, fmt.Errorf("odatasql: reading config %q: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Resolved{}, fmt.Errorf("odatasql: parsing config %q: %w", path, err)
	}
	return f.Resolve(), nil
}

// Resolve merges a File over the package defaults.
func (f File) Resolve() Resolved {
	r := Resolved{
		Dialect:       "ansi",
		UseParameters: true,
		Limits:        limits.DefaultOptions(),
	}
	if f.Dialect != "" {
		r.Dialect = f.Dialect
	}
	if f.UseParameters != nil {
		r.UseParameters = *f.UseParameters
	}
	if f.Limits.MaxExpandDepth != nil {
		r.Limits.MaxExpandDepth = *f.Limits.MaxExpandDepth
	}
	if f.Limits.MaxExpandCount != nil {
		r.Limits.MaxExpandCount = *f.Limits.MaxExpandCount
	}
	if f.Limits.MaxPageSize != nil {
		r.Limits.MaxPageSize = *f.Limits.MaxPageSize
	}
	if f.Limits.MaxSkip != nil {
		r.Limits.MaxSkip = *f.Limits.MaxSkip
	}
	if f.Limits.MaxParameters != nil {
		r.Limits.MaxParameters = *f.Limits.MaxParameters
	}
	if f.Limits.EnableSearch != nil {
		r.Limits.EnableSearch = *f.Limits.EnableSearch
	}
	return r
}
