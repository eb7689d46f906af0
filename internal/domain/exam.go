package domain

import "time"

// Test is an exam definition owned by a creator.
type Test struct {
	ID              string
	Title           string
	Description     string
	DurationMinutes int
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Question belongs to a test and carries a score weight.
type Question struct {
	ID        string
	TestID    string
	Body      string
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Option is one answer choice for a question.
type Option struct {
	ID         string
	QuestionID string
	Body       string
	Correct    bool
	CreatedAt  time.Time
}
