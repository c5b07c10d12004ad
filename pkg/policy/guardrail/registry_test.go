package guardrail

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(DefaultRuleset()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := registry.Register(Ruleset{Name: "prod"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	rs, ok := registry.Get("default")
	if !ok {
		t.Fatal("Get(default) not found")
	}
	if rs.Name != "default" {
		t.Errorf("Name = %q, want default", rs.Name)
	}
	if _, ok := registry.Get("absent"); ok {
		t.Error("Get(absent) found, want miss")
	}
	if got := registry.Names(); len(got) != 2 || got[0] != "default" || got[1] != "prod" {
		t.Errorf("Names() = %v, want [default prod]", got)
	}

	// Re-registering a name overwrites in place.
	if err := registry.Register(Ruleset{Name: "prod", DisallowedServices: []string{"iam"}}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	rs, _ = registry.Get("prod")
	if len(rs.DisallowedServices) != 1 {
		t.Errorf("overwrite not applied: %+v", rs)
	}
	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}
}

func TestRegistry_Replace(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Ruleset{Name: "old"}); err != nil {
		t.Fatal(err)
	}

	if err := registry.Replace([]Ruleset{{Name: "a"}, {Name: "b"}}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if _, ok := registry.Get("old"); ok {
		t.Error("Replace kept a ruleset from the previous generation")
	}
	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}

	// Duplicate names reject the whole swap, leaving the registry as-is.
	if err := registry.Replace([]Ruleset{{Name: "x"}, {Name: "x"}}); err == nil {
		t.Fatal("Replace with duplicate names succeeded, want error")
	}
	if registry.Count() != 2 {
		t.Errorf("failed Replace changed the registry, Count() = %d", registry.Count())
	}
}

func TestWatcher_ReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("name: base\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry()
	config := WatcherConfig{Dir: dir, DebounceInterval: 20 * time.Millisecond}
	watcher := NewWatcher(config, registry, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	if _, ok := registry.Get("base"); !ok {
		t.Fatal("initial load did not register base ruleset")
	}

	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte("name: extra\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		if _, ok := registry.Get("extra"); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("watcher never picked up the new ruleset")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatcher_KeepsLastGoodOnBrokenReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.yaml")
	if err := os.WriteFile(path, []byte("name: base\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry()
	watcher := NewWatcher(WatcherConfig{Dir: dir, DebounceInterval: 20 * time.Millisecond}, registry, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(path, []byte("blocked_actions: {broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Give the debounced reload time to run, then confirm the previous
	// generation still serves.
	time.Sleep(500 * time.Millisecond)
	if _, ok := registry.Get("base"); !ok {
		t.Error("broken reload evicted the last good ruleset")
	}
}
