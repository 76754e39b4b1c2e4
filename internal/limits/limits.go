// Package limits centralizes the enforcement of spec §4.5's bounds:
// parameter budget, expansion depth/count, pagination caps, search gating,
// and the method-call whitelist (spec §4.3).
package limits

import (
	"strings"

	"github.com/odatasql/odatasql/internal/oerr"
)

// Options is the subset of compiler options that bound resource usage.
type Options struct {
	MaxExpandDepth int
	MaxExpandCount int
	MaxPageSize    int
	MaxSkip        int
	MaxParameters  int
	EnableSearch   bool
}

// DefaultOptions returns the spec §6 defaults.
func DefaultOptions() Options {
	return Options{
		MaxExpandDepth: 5,
		MaxExpandCount: 10,
		MaxPageSize:    500,
		MaxSkip:        1000000,
		MaxParameters:  1000,
		EnableSearch:   false,
	}
}

// ExpandTracker is the shared-by-pointer counter for the include tree (spec
// §3's "shared expandDepth and expandCounter", §9's "owned counter object
// passed by reference"). A single ExpandTracker is created by the root
// visitor and handed to every descendant by pointer; it is never
// process-wide state.
type ExpandTracker struct {
	count int
}

// NewExpandTracker builds a fresh, zeroed tracker for one compile.
func NewExpandTracker() *ExpandTracker { return &ExpandTracker{} }

// Enter registers one more include under the limit opts.MaxExpandCount and
// checks depth against opts.MaxExpandDepth. depth is the depth of the child
// being created (parent depth + 1).
func (t *ExpandTracker) Enter(opts Options, depth int) error {
	t.count++
	if t.count > opts.MaxExpandCount {
		return oerr.Newf(oerr.KindExpandBound, "too many expanded navigation properties: max is %d", opts.MaxExpandCount)
	}
	if depth > opts.MaxExpandDepth {
		return oerr.Newf(oerr.KindExpandBound, "expand nesting too deep: max is %d", opts.MaxExpandDepth)
	}
	return nil
}

// CheckParameterBudget enforces I3: parameters.size <= maxParameters.
func CheckParameterBudget(opts Options, currentSize int) error {
	if currentSize > opts.MaxParameters {
		return oerr.Newf(oerr.KindParameterBudget, "parameter budget exhausted: max is %d", opts.MaxParameters)
	}
	return nil
}

// CheckTop enforces I5's $top bound.
func CheckTop(opts Options, top int) error {
	if top > opts.MaxPageSize {
		return oerr.Newf(oerr.KindPaginationBound, "$top exceeds the maximum page size of %d", opts.MaxPageSize)
	}
	return nil
}

// CheckSkip enforces I5's $skip bound.
func CheckSkip(opts Options, skip int) error {
	if skip < 0 {
		return oerr.New(oerr.KindPaginationBound, "$skip must not be negative")
	}
	if skip > opts.MaxSkip {
		return oerr.Newf(oerr.KindPaginationBound, "$skip exceeds the maximum of %d", opts.MaxSkip)
	}
	return nil
}

// CheckSearch enforces I6: $search is rejected unless enabled.
func CheckSearch(opts Options) error {
	if !opts.EnableSearch {
		return oerr.New(oerr.KindSearchDisabled, "$search is disabled")
	}
	return nil
}

// AllowedFunctions is the closed method whitelist from spec §4.3, keyed by
// lower-case name.
var AllowedFunctions = map[string]bool{
	"contains": true, "startswith": true, "endswith": true, "length": true,
	"indexof": true, "substring": true, "tolower": true, "toupper": true,
	"trim": true, "concat": true,
	"round": true, "floor": true, "ceiling": true,
	"year": true, "month": true, "day": true, "hour": true, "minute": true,
	"second": true, "fractionalseconds": true, "date": true, "time": true, "now": true,
	"cast": true, "isof": true,
	"any": true, "all": true,
	"geo.distance": true, "geo.intersects": true, "geo.length": true,
}

// CheckFunction enforces I7/P4: only whitelisted method names may appear at
// method-call position.
func CheckFunction(name string) error {
	if !AllowedFunctions[strings.ToLower(name)] {
		return oerr.Newf(oerr.KindForbiddenFunction, "function %q is not in the allowed function whitelist", name)
	}
	return nil
}
