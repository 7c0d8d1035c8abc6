package ledger

import "fmt"

// checkInvariant panics if the bookkeeping is inconsistent. None of these
// conditions can be reached through the public API; a panic here is a bug.
// Callers must hold l.mu.
func (l *RegistrationLedger) checkInvariant() {
	seats := make(map[string]int, len(l.courses))
	for _, s := range l.students {
		seen := make(map[string]bool, len(s.CourseIDs))
		for _, cid := range s.CourseIDs {
			if _, ok := l.courses[cid]; !ok {
				violate("student %s lists unknown course %s", s.ID, cid)
			}
			if seen[cid] {
				violate("student %s lists course %s twice", s.ID, cid)
			}
			seen[cid] = true
			seats[cid]++
		}
	}

	for id, c := range l.courses {
		if c.Enrolled < 0 || c.Enrolled > c.Capacity {
			violate("course %s enrolled %d outside 0..%d", id, c.Enrolled, c.Capacity)
		}
		if c.Enrolled != seats[id] {
			violate("course %s counts %d enrolled but %d students list it", id, c.Enrolled, seats[id])
		}
	}
}

func violate(format string, args ...any) {
	panic(&InvariantViolationError{Reason: fmt.Sprintf(format, args...)})
}
