package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"course-registration-go/db"
	"course-registration-go/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("roster", "", "Excel workbook with Students/Courses sheets to load at startup")
	serveCmd.Flags().String("courses-csv", "", "';' separated course_id,title,time,capacity file to load at startup")
	serveCmd.Flags().String("students-csv", "", "';' separated student_id,name file to load at startup")
}

// startupRosters lists the roster flags in load order; courses go in before students.
var startupRosters = []struct{ flag, kind string }{
	{"roster", ""},
	{"courses-csv", db.KindCourses},
	{"students-csv", db.KindStudents},
}

func runServe(cmd *cobra.Command, _ []string) error {
	l, cleanup, err := newLedger(cfg, os.Stderr, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, r := range startupRosters {
		path, _ := cmd.Flags().GetString(r.flag)
		if path == "" {
			continue
		}
		if err := loadRoster(l, path, r.kind); err != nil {
			return err
		}
	}

	router := gin.Default()
	handlers.NewAPIHandler(l).RegisterRoutes(router)

	log.Printf("Starting server on %s (sessions: %s)", cfg.Server.Addr, cfg.Session.Backend)
	if err := router.Run(cfg.Server.Addr); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func loadRoster(roster db.Roster, path, kind string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	name := path
	if kind != "" && !strings.EqualFold(filepath.Ext(path), ".csv") {
		// --courses-csv/--students-csv accept any file name
		name += ".csv"
	}
	result, err := db.ImportRosterFile(name, kind, f, roster)
	if err != nil {
		return fmt.Errorf("loading roster %s: %w", path, err)
	}
	log.Printf("Loaded roster %s: %d courses, %d students (%d rows skipped)", path, result.Courses, result.Students, result.Skipped)
	return nil
}
