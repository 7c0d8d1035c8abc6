package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-registration-go/config"
)

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	c := config.Defaults()
	c.Ledger.AutoLogin = false

	l, cleanup, err := newLedger(c, io.Discard, &out)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, runDemo(l, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "[SUCCESS] A22EC4000 registered to SECJ2203", lines[0])
	assert.Equal(t, `Course Details: name=Software Engineering details="Details for Software Engineering" status=1/2`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "[time_conflict] register SECP3223:"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "[not_logged_in] register GHOST"), lines[3])
	assert.Equal(t, "[SUCCESS] A22EC4000 dropped SECJ2203", lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "[not_enrolled] drop SECJ2203 again"), lines[5])
}

func TestDemoCommand(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"demo"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "[SUCCESS] A22EC4000 dropped SECJ2203")
}

func TestNewSessionStore_RejectsUnknownBackend(t *testing.T) {
	c := config.Defaults()
	c.Session.Backend = "etcd"
	_, _, err := newSessionStore(c)
	require.Error(t, err)
}
