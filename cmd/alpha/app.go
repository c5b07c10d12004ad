package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"alpha-hq/alpha/pkg/approval"
	"alpha-hq/alpha/pkg/audit"
	"alpha-hq/alpha/pkg/config"
	"alpha-hq/alpha/pkg/identity"
	"alpha-hq/alpha/pkg/policy"
	"alpha-hq/alpha/pkg/policy/guardrail"
	"alpha-hq/alpha/pkg/telemetry/logging"
)

// loadConfig loads the root configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// buildLogger creates the process logger. --verbose forces debug level.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg)
}

// buildRegistry loads the guardrail rulesets: the built-in default plus
// everything in the configured ruleset directory.
func buildRegistry(cfg *config.Config) (*guardrail.Registry, error) {
	registry := guardrail.NewRegistry()
	if err := registry.Register(guardrail.DefaultRuleset()); err != nil {
		return nil, err
	}
	if cfg.Guardrail.RulesetDir != "" {
		rulesets, err := guardrail.LoadDir(cfg.Guardrail.RulesetDir)
		if err != nil {
			return nil, err
		}
		for _, rs := range rulesets {
			if err := registry.Register(rs); err != nil {
				return nil, err
			}
		}
	}
	return registry, nil
}

// resolveRuleset picks the ruleset for a command: the --ruleset flag if
// set, the configured default otherwise.
func resolveRuleset(cfg *config.Config, registry *guardrail.Registry, flagName string) (guardrail.Ruleset, error) {
	name := flagName
	if name == "" {
		name = cfg.Guardrail.DefaultRuleset
	}
	rs, ok := registry.Get(name)
	if !ok {
		return guardrail.Ruleset{}, fmt.Errorf("unknown ruleset %q (available: %v)", name, registry.Names())
	}
	return rs, nil
}

// openApprovals opens the configured approval store.
func openApprovals(cfg *config.Config) (approval.Store, error) {
	if cfg.Approval.Backend == "memory" {
		return approval.NewMemoryStore(), nil
	}
	return approval.NewSQLiteStore(approval.SQLiteStoreConfig{Path: cfg.Approval.SQLitePath})
}

// openAudit opens the configured audit storage and wraps it in a recorder.
func openAudit(cfg *config.Config, logger *slog.Logger) (audit.Storage, *audit.Recorder, error) {
	var storage audit.Storage
	if cfg.Audit.Backend == "memory" {
		storage = audit.NewMemoryStorage()
	} else {
		s, err := audit.NewSQLiteStorage(audit.DefaultSQLiteStorageConfig(cfg.Audit.SQLitePath))
		if err != nil {
			return nil, nil, err
		}
		storage = s
	}
	return storage, audit.NewRecorder(storage, logger), nil
}

// identitySeed is one entry of an identity seed file: a local model of a
// principal's current policies, used by commands that need an identity
// store without talking to a cloud account.
type identitySeed struct {
	Name     string            `json:"name"`
	Inline   []policy.Document `json:"inline"`
	Attached []policy.Document `json:"attached"`
}

// seedIdentityStore builds an in-memory identity store from a seed file.
// An empty path returns an empty store.
func seedIdentityStore(path string) (*identity.MemoryStore, error) {
	store := identity.NewMemoryStore()
	if path == "" {
		return store, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file %q: %w", path, err)
	}
	var seeds []identitySeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("invalid identity file %q: %w", path, err)
	}
	for _, seed := range seeds {
		if seed.Name == "" {
			return nil, fmt.Errorf("identity file %q: entry without a name", path)
		}
		store.Seed(seed.Name, seed.Inline, seed.Attached)
	}
	return store, nil
}

// readDocument reads and decodes an IAM policy document from a file.
func readDocument(path string) (policy.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return policy.Document{}, fmt.Errorf("failed to read policy file %q: %w", path, err)
	}
	doc, err := policy.Decode(data)
	if err != nil {
		return policy.Document{}, fmt.Errorf("invalid policy file %q: %w", path, err)
	}
	return doc, nil
}
