package prereg

import (
	"context"
	"sync"
	"time"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.PreRegistration
	codes   map[string]string // numeric code -> token
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]domain.PreRegistration),
		codes:   make(map[string]string),
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Save(_ context.Context, entry *domain.PreRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, ok := s.codes[entry.NumericCode]; ok && token != entry.Token {
		if other, live := s.entries[token]; live && !other.Expired(s.now()) {
			return ErrCodeInUse
		}
		s.deleteLocked(token)
	}

	if old, ok := s.entries[entry.Token]; ok && old.NumericCode != entry.NumericCode {
		delete(s.codes, old.NumericCode)
	}
	s.entries[entry.Token] = *entry
	s.codes[entry.NumericCode] = entry.Token
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*domain.PreRegistration, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return nil, my_errors.ErrEntryNotFound
	}
	if entry.Expired(s.now()) {
		s.mu.Lock()
		s.deleteLocked(token)
		s.mu.Unlock()
		return nil, my_errors.ErrVerificationExpired
	}
	return &entry, nil
}

func (s *MemoryStore) FindByCode(ctx context.Context, code string) (*domain.PreRegistration, error) {
	s.mu.RLock()
	token, ok := s.codes[code]
	s.mu.RUnlock()
	if !ok {
		return nil, my_errors.ErrEntryNotFound
	}
	return s.Get(ctx, token)
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(token)
	return nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Sweep removes every expired entry and reports how many were dropped.
func (s *MemoryStore) Sweep(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, entry := range s.entries {
		if entry.Expired(now) {
			s.deleteLocked(token)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) deleteLocked(token string) {
	entry, ok := s.entries[token]
	if !ok {
		return
	}
	delete(s.entries, token)
	if s.codes[entry.NumericCode] == token {
		delete(s.codes, entry.NumericCode)
	}
}
