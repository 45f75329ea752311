package token

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory implements Store in process memory. It backs tests and
// single-process deployments.
type Memory struct {
	mu     sync.Mutex
	tokens map[string]Token
	// Now is the clock, overridable in tests.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		tokens: make(map[string]Token),
		Now:    time.Now,
	}
}

func (s *Memory) Create(ctx context.Context, t Token) (Token, error) {
	t.ID = uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.ID] = t
	return t, nil
}

func (s *Memory) Find(ctx context.Context, id string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok || t.Expired(s.Now()) {
		return nil, nil
	}
	found := t
	return &found, nil
}

func (s *Memory) PurgeExpired(ctx context.Context) error {
	now := s.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tokens {
		if t.Expired(now) {
			delete(s.tokens, id)
		}
	}
	return nil
}

// Len reports the number of stored tokens, expired ones included.
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
