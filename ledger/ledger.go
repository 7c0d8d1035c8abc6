// Package ledger holds the course-registration rule engine: students enroll in
// courses subject to capacity and meeting-time conflict rules.
package ledger

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"

	"course-registration-go/models"
)

// RegistrationLedger owns every student and course record plus the session store
// that decides who may enroll. One mutex serializes all operations so the course
// count and the student's list always change together.
type RegistrationLedger struct {
	mu        sync.Mutex
	students  map[string]*models.Student
	courses   map[string]*models.Course
	sessions  SessionStore
	notifier  Notifier
	autoLogin bool
}

// Option configures a RegistrationLedger.
type Option func(*RegistrationLedger)

// WithSessionStore replaces the in-process session set.
func WithSessionStore(store SessionStore) Option {
	return func(l *RegistrationLedger) { l.sessions = store }
}

// WithNotifier replaces the default log notifier.
func WithNotifier(n Notifier) Option {
	return func(l *RegistrationLedger) { l.notifier = n }
}

// WithAutoLogin controls whether AddStudent logs the new student in.
func WithAutoLogin(enabled bool) Option {
	return func(l *RegistrationLedger) { l.autoLogin = enabled }
}

// New creates an empty ledger. By default new students are logged in on creation.
func New(opts ...Option) *RegistrationLedger {
	l := &RegistrationLedger{
		students:  make(map[string]*models.Student),
		courses:   make(map[string]*models.Course),
		sessions:  setSessions{},
		notifier:  &LogNotifier{},
		autoLogin: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// --- Setup Operations ---

// AddStudent creates a student with an empty enrollment list.
func (l *RegistrationLedger) AddStudent(id, name string) error {
	if id == "" {
		return fmt.Errorf("%w: student id cannot be empty", ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.checkInvariant()

	if _, exists := l.students[id]; exists {
		return fmt.Errorf("%w: student %s already exists", ErrDuplicateEntity, id)
	}
	l.students[id] = &models.Student{ID: id, Name: name, CourseIDs: []string{}}

	if l.autoLogin {
		if err := l.sessions.Activate(id); err != nil {
			delete(l.students, id)
			return fmt.Errorf("failed to log in student %s: %w", id, err)
		}
	}
	return nil
}

// AddCourse creates a course with no enrollments.
func (l *RegistrationLedger) AddCourse(id, title, time string, capacity int) error {
	if id == "" {
		return fmt.Errorf("%w: course id cannot be empty", ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.checkInvariant()

	if _, exists := l.courses[id]; exists {
		return fmt.Errorf("%w: course %s already exists", ErrDuplicateEntity, id)
	}
	if capacity <= 0 {
		return fmt.Errorf("%w: course %s capacity must be positive, got %d", ErrInvalidArgument, id, capacity)
	}
	l.courses[id] = &models.Course{
		ID:       id,
		Title:    title,
		Details:  "Details for " + title,
		Time:     time,
		Capacity: capacity,
	}
	return nil
}

// --- Sessions ---

// Login marks an existing student as active.
func (l *RegistrationLedger) Login(studentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.students[studentID]; !ok {
		return fmt.Errorf("%w: student %s", ErrNotFound, studentID)
	}
	if err := l.sessions.Activate(studentID); err != nil {
		return fmt.Errorf("failed to log in student %s: %w", studentID, err)
	}
	return nil
}

// Logout ends a student's session. Enrollments are kept.
func (l *RegistrationLedger) Logout(studentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.students[studentID]; !ok {
		return fmt.Errorf("%w: student %s", ErrNotFound, studentID)
	}
	active, err := l.sessions.IsActive(studentID)
	if err != nil {
		return fmt.Errorf("failed to check session for %s: %w", studentID, err)
	}
	if !active {
		return fmt.Errorf("%w: %s", ErrNotLoggedIn, studentID)
	}
	if err := l.sessions.Deactivate(studentID); err != nil {
		return fmt.Errorf("failed to log out student %s: %w", studentID, err)
	}
	return nil
}

// --- Enrollment Operations ---

// RegisterCourse enrolls a logged-in student in a course.
func (l *RegistrationLedger) RegisterCourse(studentID, courseID string) error {
	event, err := l.register(studentID, courseID)
	if err != nil {
		return err
	}
	l.notifier.Notify(event)
	return nil
}

func (l *RegistrationLedger) register(studentID, courseID string) (models.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.checkInvariant()

	student, course, err := l.lookup(studentID, courseID)
	if err != nil {
		return models.Event{}, err
	}
	if slices.Contains(student.CourseIDs, courseID) {
		return models.Event{}, fmt.Errorf("%w: %s in %s", ErrAlreadyRegistered, studentID, courseID)
	}
	if course.Enrolled >= course.Capacity {
		return models.Event{}, fmt.Errorf("%w: %s has %d/%d seats taken", ErrCourseFull, courseID, course.Enrolled, course.Capacity)
	}
	for _, cid := range student.CourseIDs {
		if l.courses[cid].Time == course.Time {
			return models.Event{}, &TimeConflictError{CourseID: courseID, ConflictsWith: cid, Time: course.Time}
		}
	}

	course.Enrolled++
	student.CourseIDs = append(student.CourseIDs, courseID)
	return newEvent(models.EventRegistered, studentID, courseID), nil
}

// DropCourse removes a course from a logged-in student's enrollment list.
func (l *RegistrationLedger) DropCourse(studentID, courseID string) error {
	event, err := l.drop(studentID, courseID)
	if err != nil {
		return err
	}
	l.notifier.Notify(event)
	return nil
}

func (l *RegistrationLedger) drop(studentID, courseID string) (models.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.checkInvariant()

	student, course, err := l.lookup(studentID, courseID)
	if err != nil {
		return models.Event{}, err
	}
	idx := slices.Index(student.CourseIDs, courseID)
	if idx < 0 {
		return models.Event{}, fmt.Errorf("%w: %s in %s", ErrNotEnrolled, studentID, courseID)
	}

	course.Enrolled--
	student.CourseIDs = slices.Delete(student.CourseIDs, idx, idx+1)
	return newEvent(models.EventDropped, studentID, courseID), nil
}

// ViewCourseDetails returns the name, description and "<enrolled>/<capacity>" status of a course.
func (l *RegistrationLedger) ViewCourseDetails(studentID, courseID string) (models.CourseDetails, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.checkInvariant()

	_, course, err := l.lookup(studentID, courseID)
	if err != nil {
		return models.CourseDetails{}, err
	}
	return models.CourseDetails{
		Name:    course.Title,
		Details: course.Details,
		Status:  strconv.Itoa(course.Enrolled) + "/" + strconv.Itoa(course.Capacity),
	}, nil
}

// lookup applies the shared precondition order: session, student row, course.
func (l *RegistrationLedger) lookup(studentID, courseID string) (*models.Student, *models.Course, error) {
	active, err := l.sessions.IsActive(studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check session for %s: %w", studentID, err)
	}
	if !active {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotLoggedIn, studentID)
	}
	// A shared session store may hold ids this ledger never created.
	student, ok := l.students[studentID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: student %s", ErrNotFound, studentID)
	}
	course, ok := l.courses[courseID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
	}
	return student, course, nil
}

// --- Listings ---

// Student returns a copy of a student record.
func (l *RegistrationLedger) Student(id string) (models.Student, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.students[id]
	if !ok {
		return models.Student{}, false
	}
	cp := *s
	cp.CourseIDs = slices.Clone(s.CourseIDs)
	return cp, true
}

// Course returns a copy of a course record.
func (l *RegistrationLedger) Course(id string) (models.Course, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.courses[id]
	if !ok {
		return models.Course{}, false
	}
	return *c, true
}

// Courses returns every course sorted by id.
func (l *RegistrationLedger) Courses() []models.Course {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Course, 0, len(l.courses))
	for _, c := range l.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Enrollments returns the student's course ids in enrollment order.
func (l *RegistrationLedger) Enrollments(studentID string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.students[studentID]
	if !ok {
		return nil, fmt.Errorf("%w: student %s", ErrNotFound, studentID)
	}
	return slices.Clone(s.CourseIDs), nil
}
