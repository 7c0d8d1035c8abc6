package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"course-registration-go/ledger"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the registration desk walkthrough",
	RunE: func(cmd *cobra.Command, _ []string) error {
		l, cleanup, err := newLedger(cfg, io.Discard, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer cleanup()
		return runDemo(l, cmd.OutOrStdout())
	},
}

// runDemo walks one student through adding, registering, viewing and dropping.
// Expected rule failures are printed, not returned.
func runDemo(l *ledger.RegistrationLedger, out io.Writer) error {
	const student = "A22EC4000"

	if err := l.AddStudent(student, "Ali"); err != nil {
		return err
	}
	// no-op when auto login already ran
	if err := l.Login(student); err != nil {
		return err
	}
	courses := []struct {
		id, title, time string
		capacity        int
	}{
		{"SECJ2203", "Software Engineering", "Mon 9AM", 2},
		{"SECR2043", "Operating Systems", "Mon 10AM", 2},
		{"SECD2523", "Database Systems", "Tue 10AM", 2},
		{"SECP3223", "Programming Technique", "Mon 9AM", 2},
	}
	for _, c := range courses {
		if err := l.AddCourse(c.id, c.title, c.time, c.capacity); err != nil {
			return err
		}
	}

	report(out, "register SECJ2203", l.RegisterCourse(student, "SECJ2203"))

	details, err := l.ViewCourseDetails(student, "SECJ2203")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Course Details: name=%s details=%q status=%s\n", details.Name, details.Details, details.Status)

	report(out, "register SECP3223", l.RegisterCourse(student, "SECP3223"))
	report(out, "register GHOST into SECD2523", l.RegisterCourse("GHOST", "SECD2523"))
	report(out, "drop SECJ2203", l.DropCourse(student, "SECJ2203"))
	report(out, "drop SECJ2203 again", l.DropCourse(student, "SECJ2203"))
	return nil
}

func report(out io.Writer, step string, err error) {
	if err != nil {
		fmt.Fprintf(out, "[%s] %s: %v\n", ledger.Kind(err), step, err)
	}
}
