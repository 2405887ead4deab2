// Package testutil provides common test setup shared across the module's
// package tests.
package testutil

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/VerdantMesh/foliage/internal/logging"
)

// SetupTest silences the global logger for the duration of a test (or routes
// it to t.Log when verbose is true) and returns the cleanup function.
//
// Usage:
//
//	cleanup := testutil.SetupTest(t, false)
//	defer cleanup()
func SetupTest(t *testing.T, verbose bool) func() {
	t.Helper()

	original := logging.Logger
	if verbose {
		testLogger := log.New(testWriter{t: t})
		testLogger.SetLevel(log.DebugLevel)
		logging.Logger = testLogger
	} else {
		logging.Logger = log.New(io.Discard)
	}

	return func() {
		logging.Logger = original
	}
}

// testWriter adapts testing.T to io.Writer for log output.
type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (n int, err error) {
	tw.t.Helper()
	tw.t.Log(string(p))
	return len(p), nil
}
