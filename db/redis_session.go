package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"course-registration-go/config"
)

const defaultSessionPrefix = "session:" // String prefix: session:{studentId} -> "1" while logged in

// RedisSessionStore keeps logged-in students in Redis so several harness
// processes can share one view of who is active.
type RedisSessionStore struct {
	Client *redis.Client
	Ctx    context.Context // Base context
	Prefix string
	TTL    time.Duration   // 0 keeps sessions until logout
}

// NewRedisSessionStore creates a new RedisSessionStore instance
func NewRedisSessionStore(client *redis.Client, prefix string, ttl time.Duration) *RedisSessionStore {
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	return &RedisSessionStore{
		Client: client,
		Ctx:    context.Background(),
		Prefix: prefix,
		TTL:    ttl,
	}
}

// Helper to generate session key
func (s *RedisSessionStore) sessionKey(studentID string) string {
	return s.Prefix + studentID
}

// Activate marks a student as logged in
func (s *RedisSessionStore) Activate(studentID string) error {
	if studentID == "" {
		return errors.New("student ID cannot be empty")
	}
	if err := s.Client.Set(s.Ctx, s.sessionKey(studentID), "1", s.TTL).Err(); err != nil {
		log.Printf("Error activating session for %s: %v", studentID, err)
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

// Deactivate removes a student's session
func (s *RedisSessionStore) Deactivate(studentID string) error {
	if err := s.Client.Del(s.Ctx, s.sessionKey(studentID)).Err(); err != nil {
		log.Printf("Error removing session for %s: %v", studentID, err)
		return fmt.Errorf("failed to remove session from Redis: %w", err)
	}
	return nil
}

// IsActive reports whether a session exists for the student
func (s *RedisSessionStore) IsActive(studentID string) (bool, error) {
	n, err := s.Client.Exists(s.Ctx, s.sessionKey(studentID)).Result()
	if err != nil {
		log.Printf("Error checking session for %s: %v", studentID, err)
		return false, fmt.Errorf("failed to check session in Redis: %w", err)
	}
	return n > 0, nil
}

// --- Utility ---

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Ping Redis to check connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Printf("Successfully connected to Redis DB %d", cfg.DB)
	return rdb, nil
}
