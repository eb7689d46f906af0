package domain

import "time"

// ExamSession is one user's attempt at a test.
type ExamSession struct {
	ID         string
	TestID     string
	UserID     string
	Score      int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Finished reports whether the attempt has been submitted.
func (s *ExamSession) Finished() bool {
	return s.FinishedAt != nil
}

// Answer records the option a user picked for a question within a session.
// At most one answer per (session, question); re-answering overwrites.
type Answer struct {
	ID         string
	SessionID  string
	QuestionID string
	OptionID   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
