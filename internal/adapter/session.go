package adapter

import (
	"strings"
	"sync"
	"time"
)

// session is the credential owned by one transport instance.
type session struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func (s *session) set(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	s.expiresAt = expiresAt
}

func (s *session) clear() {
	s.set("", time.Time{})
}

func (s *session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}
