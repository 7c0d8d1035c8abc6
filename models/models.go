package models

import "time"

// Student represents a registered student
type Student struct {
	ID        string   `json:"id" csv:"student_id"` // Unique student ID (e.g., matric number)
	Name      string   `json:"name" csv:"name"`     // Display name
	CourseIDs []string `json:"courseIds" csv:"-"`   // Enrolled course IDs, in enrollment order
}

// Course represents a course offering
type Course struct {
	ID       string `json:"id" csv:"course_id"`      // Unique course code
	Title    string `json:"title" csv:"title"`       // Course title
	Details  string `json:"details" csv:"-"`         // Derived description
	Time     string `json:"time" csv:"time"`         // Meeting-time label, compared by equality
	Capacity int    `json:"capacity" csv:"capacity"` // Maximum simultaneous enrollment
	Enrolled int    `json:"enrolled" csv:"-"`        // Current enrollment count
}

// CourseDetails is the read model returned by a course lookup.
// Keys mirror the name/details/status mapping shown to students.
type CourseDetails struct {
	Name    string `json:"name"`
	Details string `json:"details"`
	Status  string `json:"status"` // "<enrolled>/<capacity>"
}

// Map returns the details as a plain key/value mapping.
func (d CourseDetails) Map() map[string]string {
	return map[string]string{
		"name":    d.Name,
		"details": d.Details,
		"status":  d.Status,
	}
}

// EventKind identifies a ledger notification
type EventKind string

const (
	EventRegistered EventKind = "registered"
	EventDropped    EventKind = "dropped"
)

// Event is emitted after a successful enrollment change
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	StudentID string    `json:"studentId"`
	CourseID  string    `json:"courseId"`
	At        time.Time `json:"at"`
}
