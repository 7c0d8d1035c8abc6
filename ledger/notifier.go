package ledger

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"course-registration-go/models"
)

// Notifier receives an event after every successful register or drop.
type Notifier interface {
	Notify(event models.Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(event models.Event)

func (f NotifierFunc) Notify(event models.Event) { f(event) }

// LogNotifier writes a structured record and the console success line.
type LogNotifier struct {
	Logger  *slog.Logger
	Console io.Writer // optional; receives "[SUCCESS] ..." lines
}

// Notify logs the event and prints its success line to Console when set.
func (n *LogNotifier) Notify(event models.Event) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(successMessage(event.Kind),
		"event_id", event.ID,
		"student", event.StudentID,
		"course", event.CourseID,
	)
	if n.Console != nil {
		fmt.Fprintln(n.Console, ConsoleLine(event))
	}
}

// ConsoleLine renders an event the way the registration desk prints it.
func ConsoleLine(event models.Event) string {
	verb := "registered to"
	if event.Kind == models.EventDropped {
		verb = "dropped"
	}
	return fmt.Sprintf("[SUCCESS] %s %s %s", event.StudentID, verb, event.CourseID)
}

func successMessage(kind models.EventKind) string {
	if kind == models.EventDropped {
		return "drop succeeded"
	}
	return "registration succeeded"
}

func newEvent(kind models.EventKind, studentID, courseID string) models.Event {
	return models.Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		StudentID: studentID,
		CourseID:  courseID,
		At:        time.Now(),
	}
}
