package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"alpha-hq/alpha/pkg/policy"
)

// MemoryStore is an in-process identity store. It keeps full attach/detach
// bookkeeping so tests can assert the guaranteed-release invariant, and it
// backs dry runs and local demos.
type MemoryStore struct {
	mu         sync.Mutex
	identities map[string]*memoryIdentity

	// AttachErr and DetachErr, when set, are returned by the corresponding
	// operation. Used to exercise fault paths in tests.
	AttachErr error
	DetachErr error
}

type memoryIdentity struct {
	inline    []policy.Document
	attached  []policy.Document
	trials    map[string]policy.Document
	committed *policy.Document

	attachCalls int
	detachCalls int
}

// NewMemoryStore creates an empty in-memory identity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{identities: make(map[string]*memoryIdentity)}
}

// Seed registers an identity with its inline and attached policy documents.
func (s *MemoryStore) Seed(identity string, inline, attached []policy.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity] = &memoryIdentity{
		inline:   append([]policy.Document(nil), inline...),
		attached: append([]policy.Document(nil), attached...),
		trials:   make(map[string]policy.Document),
	}
}

// AttachTrialPolicy implements Store.
func (s *MemoryStore) AttachTrialPolicy(ctx context.Context, identity string, doc policy.Document, description string) (RevisionHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AttachErr != nil {
		return RevisionHandle{}, s.AttachErr
	}
	id, err := s.get(identity)
	if err != nil {
		return RevisionHandle{}, err
	}

	name := fmt.Sprintf("AlphaTrial-%s", uuid.NewString())
	id.trials[name] = doc.Clone()
	id.attachCalls++
	return RevisionHandle{Identity: identity, Name: name}, nil
}

// DetachTrialPolicy implements Store.
func (s *MemoryStore) DetachTrialPolicy(ctx context.Context, identity string, handle RevisionHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DetachErr != nil {
		return s.DetachErr
	}
	id, err := s.get(identity)
	if err != nil {
		return err
	}
	if _, attached := id.trials[handle.Name]; !attached {
		return &RevisionError{Identity: identity, Revision: handle.Name, Message: "revision is not attached"}
	}
	delete(id.trials, handle.Name)
	id.detachCalls++
	return nil
}

// CommitPolicy implements Store.
func (s *MemoryStore) CommitPolicy(ctx context.Context, identity string, doc policy.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.get(identity)
	if err != nil {
		return err
	}
	committed := doc.Clone()
	id.committed = &committed
	return nil
}

// GetInlinePolicies implements Store.
func (s *MemoryStore) GetInlinePolicies(ctx context.Context, identity string) ([]policy.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.get(identity)
	if err != nil {
		return nil, err
	}
	return append([]policy.Document(nil), id.inline...), nil
}

// ListAttachedPolicies implements Store.
func (s *MemoryStore) ListAttachedPolicies(ctx context.Context, identity string) ([]policy.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.get(identity)
	if err != nil {
		return nil, err
	}
	return append([]policy.Document(nil), id.attached...), nil
}

// AttachCount returns how many attach calls the identity has seen.
func (s *MemoryStore) AttachCount(identity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.identities[identity]; ok {
		return id.attachCalls
	}
	return 0
}

// DetachCount returns how many detach calls the identity has seen.
func (s *MemoryStore) DetachCount(identity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.identities[identity]; ok {
		return id.detachCalls
	}
	return 0
}

// TrialCount returns how many trial revisions are currently attached.
func (s *MemoryStore) TrialCount(identity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.identities[identity]; ok {
		return len(id.trials)
	}
	return 0
}

// Committed returns the identity's committed policy, if any.
func (s *MemoryStore) Committed(identity string) *policy.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.identities[identity]; ok && id.committed != nil {
		doc := id.committed.Clone()
		return &doc
	}
	return nil
}

// get returns the identity record; the caller holds the lock.
func (s *MemoryStore) get(identity string) (*memoryIdentity, error) {
	id, ok := s.identities[identity]
	if !ok {
		return nil, &NotFoundError{Identity: identity}
	}
	return id, nil
}
