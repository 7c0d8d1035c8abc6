package cmd

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"course-registration-go/config"
	"course-registration-go/db"
	"course-registration-go/ledger"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:               "registration",
	Short:             "Course registration ledger",
	Long:              `Keeps students, courses and enrollments in memory and enforces capacity and time-conflict rules.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./registration.yaml)")
	rootCmd.PersistentFlags().Bool("no-auto-login", false,
		"require an explicit login after a student is added")

	rootCmd.AddCommand(serveCmd, demoCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	if noAutoLogin, _ := cmd.Flags().GetBool("no-auto-login"); noAutoLogin {
		loaded.Ledger.AutoLogin = false
	}
	cfg = loaded
	return nil
}

// newSessionStore builds the configured backend. The returned cleanup closes
// any connection the store opened.
func newSessionStore(c config.Config) (ledger.SessionStore, func(), error) {
	switch c.Session.Backend {
	case config.BackendRedis:
		client, err := db.InitializeRedisClient(c.Redis)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Printf("Error closing Redis client: %v", err)
			}
		}
		return db.NewRedisSessionStore(client, c.Redis.Prefix, c.Session.TTL), cleanup, nil
	case config.BackendMemory:
		return db.NewMemorySessionStore(c.Session.TTL), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
}

// newLedger wires a ledger to the configured session store, logging
// notifications to logOut and printing success lines to console.
func newLedger(c config.Config, logOut, console io.Writer) (*ledger.RegistrationLedger, func(), error) {
	sessions, cleanup, err := newSessionStore(c)
	if err != nil {
		return nil, nil, err
	}
	notifier := &ledger.LogNotifier{
		Logger:  slog.New(slog.NewTextHandler(logOut, nil)),
		Console: console,
	}
	l := ledger.New(
		ledger.WithSessionStore(sessions),
		ledger.WithNotifier(notifier),
		ledger.WithAutoLogin(c.Ledger.AutoLogin),
	)
	return l, cleanup, nil
}
