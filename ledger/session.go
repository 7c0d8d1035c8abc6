package ledger

// SessionStore tracks which students are logged in.
// Implementations live in the db package; the ledger only asks questions of it.
type SessionStore interface {
	Activate(studentID string) error
	Deactivate(studentID string) error
	IsActive(studentID string) (bool, error)
}

// setSessions is the plain in-process set used when no store is supplied.
type setSessions map[string]struct{}

func (s setSessions) Activate(studentID string) error {
	s[studentID] = struct{}{}
	return nil
}

func (s setSessions) Deactivate(studentID string) error {
	delete(s, studentID)
	return nil
}

func (s setSessions) IsActive(studentID string) (bool, error) {
	_, ok := s[studentID]
	return ok, nil
}
