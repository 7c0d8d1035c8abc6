package db

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"course-registration-go/config"
	"course-registration-go/ledger"
)

// compile-time checks
var (
	_ ledger.SessionStore = (*MemorySessionStore)(nil)
	_ ledger.SessionStore = (*RedisSessionStore)(nil)
	_ Roster              = (*ledger.RegistrationLedger)(nil)
)

func TestMemorySessionStore(t *testing.T) {
	s := NewMemorySessionStore(0)

	active, err := s.IsActive("A1")
	require.NoError(t, err)
	require.False(t, active)

	require.NoError(t, s.Activate("A1"))
	active, err = s.IsActive("A1")
	require.NoError(t, err)
	require.True(t, active)
	active, _ = s.IsActive("B2")
	require.False(t, active)

	require.NoError(t, s.Deactivate("A1"))
	active, _ = s.IsActive("A1")
	require.False(t, active)

	require.Error(t, s.Activate(""))
}

func TestMemorySessionStore_Expires(t *testing.T) {
	s := NewMemorySessionStore(20 * time.Millisecond)
	require.NoError(t, s.Activate("A1"))

	require.Eventually(t, func() bool {
		active, _ := s.IsActive("A1")
		return !active
	}, time.Second, 10*time.Millisecond)
}

func TestMemorySessionStore_BacksLedger(t *testing.T) {
	l := ledger.New(ledger.WithSessionStore(NewMemorySessionStore(0)), ledger.WithAutoLogin(false))
	require.NoError(t, l.AddStudent("A1", "Ali"))
	require.NoError(t, l.AddCourse("C1", "SE", "Mon 9AM", 1))

	require.ErrorIs(t, l.RegisterCourse("A1", "C1"), ledger.ErrNotLoggedIn)
	require.NoError(t, l.Login("A1"))
	require.NoError(t, l.RegisterCourse("A1", "C1"))
}

// TestRedisSessionStore talks to a real server; set REDIS_ADDR to run it.
func TestRedisSessionStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, err := InitializeRedisClient(config.RedisConfig{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisSessionStore(client, "test-session:", time.Minute)
	t.Cleanup(func() { _ = s.Deactivate("A1") })

	require.NoError(t, s.Activate("A1"))
	active, err := s.IsActive("A1")
	require.NoError(t, err)
	require.True(t, active)

	require.NoError(t, s.Deactivate("A1"))
	active, err = s.IsActive("A1")
	require.NoError(t, err)
	require.False(t, active)
}
