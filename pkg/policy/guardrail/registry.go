package guardrail

import (
	"sort"
	"sync"
	"time"
)

// Registry is a thread-safe in-memory store for named rulesets. Replace
// swaps the whole set atomically so hot reloads never expose a partially
// loaded configuration.
type Registry struct {
	mu       sync.RWMutex
	rulesets map[string]Ruleset
	loadTime time.Time
}

// NewRegistry creates an empty ruleset registry.
func NewRegistry() *Registry {
	return &Registry{
		rulesets: make(map[string]Ruleset),
		loadTime: time.Now(),
	}
}

// Register adds or replaces a single ruleset.
func (r *Registry) Register(rs Ruleset) error {
	if err := rs.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rulesets[rs.Name] = rs
	return nil
}

// Replace atomically swaps the entire ruleset collection.
func (r *Registry) Replace(rulesets []Ruleset) error {
	next := make(map[string]Ruleset, len(rulesets))
	for _, rs := range rulesets {
		if err := rs.Validate(); err != nil {
			return err
		}
		if _, dup := next[rs.Name]; dup {
			return &RegistryError{
				Ruleset:   rs.Name,
				Operation: "replace",
				Message:   "duplicate ruleset name",
			}
		}
		next[rs.Name] = rs
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rulesets = next
	r.loadTime = time.Now()
	return nil
}

// Get retrieves a ruleset by name.
func (r *Registry) Get(name string) (Ruleset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.rulesets[name]
	return rs, ok
}

// Names returns the registered ruleset names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rulesets))
	for name := range r.rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered rulesets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rulesets)
}

// LoadTime returns when the registry contents were last replaced.
func (r *Registry) LoadTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadTime
}
