package ledger

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-registration-go/models"
)

const racers = 32

// race runs fn from n goroutines released together and collects their errors.
func race(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func countingLedger(notified *atomic.Int64) *RegistrationLedger {
	return New(WithNotifier(NotifierFunc(func(models.Event) { notified.Add(1) })))
}

func TestRegisterCourse_ConcurrentLastSeat(t *testing.T) {
	var notified atomic.Int64
	l := countingLedger(&notified)
	require.NoError(t, l.AddCourse("C1", "SE", "Mon 9AM", 1))
	for i := 0; i < racers; i++ {
		require.NoError(t, l.AddStudent(fmt.Sprintf("S%02d", i), "Student"))
	}
	notified.Store(0)

	errs := race(racers, func(i int) error {
		return l.RegisterCourse(fmt.Sprintf("S%02d", i), "C1")
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrCourseFull)
	}
	assert.Equal(t, 1, succeeded)

	c, ok := l.Course("C1")
	require.True(t, ok)
	assert.Equal(t, 1, c.Enrolled)
	assert.EqualValues(t, 1, notified.Load())
}

func TestRegisterCourse_ConcurrentSameTimeSlot(t *testing.T) {
	var notified atomic.Int64
	l := countingLedger(&notified)
	require.NoError(t, l.AddStudent("A1", "Ali"))
	for i := 0; i < racers; i++ {
		require.NoError(t, l.AddCourse(fmt.Sprintf("C%02d", i), "Course", "Mon 9AM", 5))
	}

	errs := race(racers, func(i int) error {
		return l.RegisterCourse("A1", fmt.Sprintf("C%02d", i))
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrTimeConflict)
		var tc *TimeConflictError
		assert.True(t, errors.As(err, &tc))
	}
	assert.Equal(t, 1, succeeded)

	s, ok := l.Student("A1")
	require.True(t, ok)
	assert.Len(t, s.CourseIDs, 1)

	enrolled := 0
	for _, c := range l.Courses() {
		enrolled += c.Enrolled
	}
	assert.Equal(t, 1, enrolled)
	assert.EqualValues(t, 1, notified.Load())
}

func TestRegisterAndDrop_ConcurrentMixed(t *testing.T) {
	var notified atomic.Int64
	l := countingLedger(&notified)
	require.NoError(t, l.AddCourse("C1", "SE", "Mon 9AM", 3))
	for i := 0; i < racers; i++ {
		require.NoError(t, l.AddStudent(fmt.Sprintf("S%02d", i), "Student"))
	}

	// every goroutine tries to take a seat and give it back; the invariant
	// check panics on any inconsistent count
	race(racers, func(i int) error {
		id := fmt.Sprintf("S%02d", i)
		if err := l.RegisterCourse(id, "C1"); err != nil {
			return err
		}
		_, _ = l.ViewCourseDetails(id, "C1")
		return l.DropCourse(id, "C1")
	})

	c, ok := l.Course("C1")
	require.True(t, ok)
	assert.Equal(t, 0, c.Enrolled)
	for i := 0; i < racers; i++ {
		ids, err := l.Enrollments(fmt.Sprintf("S%02d", i))
		require.NoError(t, err)
		assert.Empty(t, ids)
	}
}
