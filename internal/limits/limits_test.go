package limits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFunctionWhitelist(t *testing.T) {
	assert.NoError(t, CheckFunction("contains"))
	assert.NoError(t, CheckFunction("CONTAINS"))
	assert.Error(t, CheckFunction("exec"))
}

func TestCheckTopAndSkipBounds(t *testing.T) {
	opts := DefaultOptions()
	assert.NoError(t, CheckTop(opts, 500))
	assert.Error(t, CheckTop(opts, 501))
	assert.NoError(t, CheckSkip(opts, 1000000))
	assert.Error(t, CheckSkip(opts, 1000001))
	assert.Error(t, CheckSkip(opts, -1))
}

func TestCheckSearchDisabledByDefault(t *testing.T) {
	assert.Error(t, CheckSearch(DefaultOptions()))
	enabled := DefaultOptions()
	enabled.EnableSearch = true
	assert.NoError(t, CheckSearch(enabled))
}

func TestCheckParameterBudget(t *testing.T) {
	opts := DefaultOptions()
	assert.NoError(t, CheckParameterBudget(opts, opts.MaxParameters))
	assert.Error(t, CheckParameterBudget(opts, opts.MaxParameters+1))
}

func TestExpandTrackerEnforcesCountAndDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxExpandCount = 2
	opts.MaxExpandDepth = 1
	tr := NewExpandTracker()
	assert.NoError(t, tr.Enter(opts, 1))
	assert.NoError(t, tr.Enter(opts, 1))
	assert.Error(t, tr.Enter(opts, 1)) // exceeds MaxExpandCount
}

func TestExpandTrackerEnforcesDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxExpandDepth = 1
	tr := NewExpandTracker()
	assert.Error(t, tr.Enter(opts, 2))
}
