package dto

// TestRequest payload for creating or updating an exam definition.
type TestRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

// QuestionRequest payload for creating or updating a question.
type QuestionRequest struct {
	Body  string `json:"body"`
	Score int    `json:"score"`
}

// OptionRequest payload for creating or updating an answer choice.
type OptionRequest struct {
	Body    string `json:"body"`
	Correct bool   `json:"correct"`
}

// StartSessionRequest payload for opening an exam attempt.
type StartSessionRequest struct {
	TestID string `json:"test_id"`
}

// AnswerRequest payload for submitting an answer.
type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}
