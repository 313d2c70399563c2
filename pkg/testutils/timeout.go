package testutils

import (
	"testing"
	"time"
)

var (
	ConditionTimeout = 10 * time.Second
	PollInterval     = 10 * time.Millisecond
)

// WithTimeout polls f until it returns an empty string. f reports what is still missing,
// the last report is the failure message once ConditionTimeout passes.
func WithTimeout(t *testing.T, f func() string) {
	t.Helper()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(ConditionTimeout)
	defer deadline.Stop()

	pending := f()
	for pending != "" {
		select {
		case <-deadline.C:
			t.Fatalf("condition not met within %v: %s", ConditionTimeout, pending)
		case <-ticker.C:
			pending = f()
		}
	}
}
