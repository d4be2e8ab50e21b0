package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/af-corp/bfhl-service/internal/config"
)

const allowAll = `
package bfhl.policy

import rego.v1

allow := true
reason := ""
`

const denyAll = `
package bfhl.policy

import rego.v1

allow := false
reason := "maintenance"
`

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bfhl.rego")
	if err := os.WriteFile(path, []byte(allowAll), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewEvaluator(func() config.PolicyFilterConfig {
		return config.PolicyFilterConfig{Enabled: true, BundlePath: dir}
	}, testLogger())
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}

	reloaded := make(chan error, 8)
	w := NewWatcher(dir, e, testLogger(), func(err error) { reloaded <- err })
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(denyAll), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for ok := false; !ok; {
		select {
		case err := <-reloaded:
			// a reload can observe the file mid-write; wait for a clean one
			ok = err == nil
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}

	allowed, reason, err := e.Evaluate(context.Background(), PolicyInput{Operation: "lcm", Size: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed || reason != "maintenance" {
		t.Errorf("expected reloaded deny policy, got allowed=%v reason=%q", allowed, reason)
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	e := NewEvaluator(func() config.PolicyFilterConfig { return config.PolicyFilterConfig{} }, testLogger())
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), e, testLogger(), nil)
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}
