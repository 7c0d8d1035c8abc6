package db

import (
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = 30 * time.Minute

// MemorySessionStore keeps sessions in process memory, optionally expiring them.
type MemorySessionStore struct {
	cache *gocache.Cache
}

// NewMemorySessionStore creates a store; ttl <= 0 keeps sessions until logout.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	expiration := gocache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = defaultCleanupInterval
		if ttl < cleanup {
			cleanup = ttl
		}
	}
	return &MemorySessionStore{cache: gocache.New(expiration, cleanup)}
}

// Activate marks a student as logged in until logout or expiry.
func (s *MemorySessionStore) Activate(studentID string) error {
	if studentID == "" {
		return errors.New("student ID cannot be empty")
	}
	s.cache.Set(studentID, struct{}{}, gocache.DefaultExpiration)
	return nil
}

// Deactivate removes a student's session
func (s *MemorySessionStore) Deactivate(studentID string) error {
	s.cache.Delete(studentID)
	return nil
}

// IsActive reports whether an unexpired session exists for the student
func (s *MemorySessionStore) IsActive(studentID string) (bool, error) {
	_, found := s.cache.Get(studentID)
	return found, nil
}
