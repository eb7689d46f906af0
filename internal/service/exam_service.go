package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/exam-service/internal/domain"
	"github.com/spec-kit/exam-service/internal/repository"
)

// ExamService orchestrates exam definitions and attempts.
type ExamService struct {
	users     repository.UserRepository
	tests     repository.TestRepository
	questions repository.QuestionRepository
	options   repository.OptionRepository
	sessions  repository.ExamSessionRepository
	answers   repository.AnswerRepository
}

// ExamDependencies encapsulates repo requirements for exam service.
type ExamDependencies struct {
	UserRepo        repository.UserRepository
	TestRepo        repository.TestRepository
	QuestionRepo    repository.QuestionRepository
	OptionRepo      repository.OptionRepository
	ExamSessionRepo repository.ExamSessionRepository
	AnswerRepo      repository.AnswerRepository
}

// NewExamService builds the service.
func NewExamService(deps ExamDependencies) *ExamService {
	return &ExamService{
		users:     deps.UserRepo,
		tests:     deps.TestRepo,
		questions: deps.QuestionRepo,
		options:   deps.OptionRepo,
		sessions:  deps.ExamSessionRepo,
		answers:   deps.AnswerRepo,
	}
}

func (s *ExamService) resolveUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateTest stores a new exam definition owned by the caller.
func (s *ExamService) CreateTest(ctx context.Context, creatorEmail, title, description string, durationMinutes int) (*domain.Test, error) {
	creator, err := s.resolveUser(ctx, creatorEmail)
	if err != nil {
		return nil, err
	}

	test := &domain.Test{
		Title:           title,
		Description:     description,
		DurationMinutes: durationMinutes,
		CreatedBy:       creator.ID,
	}
	if err := s.tests.Create(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

// UpdateTest updates an existing exam definition.
func (s *ExamService) UpdateTest(ctx context.Context, id, title, description string, durationMinutes int) (*domain.Test, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	test.Title = title
	test.Description = description
	test.DurationMinutes = durationMinutes
	if err := s.tests.Update(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

// DeleteTest removes the exam and, via cascade, its questions and options.
func (s *ExamService) DeleteTest(ctx context.Context, id string) error {
	return s.tests.Delete(ctx, id)
}

// GetTest fetches one exam definition.
func (s *ExamService) GetTest(ctx context.Context, id string) (*domain.Test, error) {
	return s.tests.GetByID(ctx, id)
}

// ListTests returns exam definitions.
func (s *ExamService) ListTests(ctx context.Context, limit, offset int) ([]domain.Test, error) {
	return s.tests.List(ctx, limit, offset)
}

// AddQuestion appends a question to a test.
func (s *ExamService) AddQuestion(ctx context.Context, testID, body string, score int) (*domain.Question, error) {
	if _, err := s.tests.GetByID(ctx, testID); err != nil {
		return nil, err
	}
	question := &domain.Question{TestID: testID, Body: body, Score: score}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion edits a question's body and score.
func (s *ExamService) UpdateQuestion(ctx context.Context, id, body string, score int) (*domain.Question, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	question.Body = body
	question.Score = score
	if err := s.questions.Update(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a question.
func (s *ExamService) DeleteQuestion(ctx context.Context, id string) error {
	return s.questions.Delete(ctx, id)
}

// ListQuestions returns a test's questions.
func (s *ExamService) ListQuestions(ctx context.Context, testID string) ([]domain.Question, error) {
	return s.questions.ListByTest(ctx, testID)
}

// AddOption appends an answer choice to a question.
func (s *ExamService) AddOption(ctx context.Context, questionID, body string, correct bool) (*domain.Option, error) {
	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		return nil, err
	}
	option := &domain.Option{QuestionID: questionID, Body: body, Correct: correct}
	if err := s.options.Create(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}

// UpdateOption edits an answer choice.
func (s *ExamService) UpdateOption(ctx context.Context, id, body string, correct bool) (*domain.Option, error) {
	option, err := s.options.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	option.Body = body
	option.Correct = correct
	if err := s.options.Update(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}

// DeleteOption removes an answer choice.
func (s *ExamService) DeleteOption(ctx context.Context, id string) error {
	return s.options.Delete(ctx, id)
}

// ListOptions returns a question's answer choices.
func (s *ExamService) ListOptions(ctx context.Context, questionID string) ([]domain.Option, error) {
	return s.options.ListByQuestion(ctx, questionID)
}

// StartSession opens a new attempt at the given test for the caller.
func (s *ExamService) StartSession(ctx context.Context, userEmail, testID string) (*domain.ExamSession, error) {
	user, err := s.resolveUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if _, err := s.tests.GetByID(ctx, testID); err != nil {
		return nil, err
	}

	session := &domain.ExamSession{TestID: testID, UserID: user.ID}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession fetches an attempt owned by the caller.
func (s *ExamService) GetSession(ctx context.Context, userEmail, sessionID string) (*domain.ExamSession, error) {
	user, err := s.resolveUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != user.ID {
		return nil, domain.ErrForbidden
	}
	return session, nil
}

// ListSessions returns the caller's attempts.
func (s *ExamService) ListSessions(ctx context.Context, userEmail string, limit, offset int) ([]domain.ExamSession, error) {
	user, err := s.resolveUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return s.sessions.ListByUser(ctx, user.ID, limit, offset)
}

// SubmitAnswer records the chosen option for a question within an open
// session. Re-answering the same question overwrites the previous choice.
func (s *ExamService) SubmitAnswer(ctx context.Context, userEmail, sessionID, questionID, optionID string) (*domain.Answer, error) {
	session, err := s.GetSession(ctx, userEmail, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, domain.ErrSessionFinished
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.TestID != session.TestID {
		return nil, domain.ErrRecordNotFound
	}

	option, err := s.options.GetByID(ctx, optionID)
	if err != nil {
		return nil, err
	}
	if option.QuestionID != question.ID {
		return nil, domain.ErrRecordNotFound
	}

	answer := &domain.Answer{
		SessionID:  session.ID,
		QuestionID: question.ID,
		OptionID:   option.ID,
	}
	if err := s.answers.Upsert(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// FinishSession closes the attempt and computes its score: each answer whose
// chosen option is correct contributes the question's score.
func (s *ExamService) FinishSession(ctx context.Context, userEmail, sessionID string) (*domain.ExamSession, error) {
	session, err := s.GetSession(ctx, userEmail, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, domain.ErrSessionFinished
	}

	answers, err := s.answers.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	score := 0
	for _, answer := range answers {
		option, err := s.options.GetByID(ctx, answer.OptionID)
		if err != nil {
			return nil, err
		}
		if !option.Correct {
			continue
		}
		question, err := s.questions.GetByID(ctx, answer.QuestionID)
		if err != nil {
			return nil, err
		}
		score += question.Score
	}

	finishedAt := time.Now()
	if err := s.sessions.Finish(ctx, session.ID, score, finishedAt); err != nil {
		return nil, err
	}
	session.Score = score
	session.FinishedAt = &finishedAt
	return session, nil
}
