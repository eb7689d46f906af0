package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/exam-service/internal/domain"
)

type memTestRepo struct {
	tests map[string]*domain.Test
}

func newMemTestRepo() *memTestRepo {
	return &memTestRepo{tests: make(map[string]*domain.Test)}
}

func (r *memTestRepo) Create(_ context.Context, test *domain.Test) error {
	test.ID = uuid.NewString()
	clone := *test
	r.tests[test.ID] = &clone
	return nil
}

func (r *memTestRepo) Update(_ context.Context, test *domain.Test) error {
	if _, ok := r.tests[test.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *test
	r.tests[test.ID] = &clone
	return nil
}

func (r *memTestRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tests[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tests, id)
	return nil
}

func (r *memTestRepo) GetByID(_ context.Context, id string) (*domain.Test, error) {
	test, ok := r.tests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *test
	return &clone, nil
}

func (r *memTestRepo) List(_ context.Context, _, _ int) ([]domain.Test, error) {
	out := make([]domain.Test, 0, len(r.tests))
	for _, test := range r.tests {
		out = append(out, *test)
	}
	return out, nil
}

type memQuestionRepo struct {
	questions map[string]*domain.Question
}

func newMemQuestionRepo() *memQuestionRepo {
	return &memQuestionRepo{questions: make(map[string]*domain.Question)}
}

func (r *memQuestionRepo) Create(_ context.Context, question *domain.Question) error {
	question.ID = uuid.NewString()
	clone := *question
	r.questions[question.ID] = &clone
	return nil
}

func (r *memQuestionRepo) Update(_ context.Context, question *domain.Question) error {
	if _, ok := r.questions[question.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *question
	r.questions[question.ID] = &clone
	return nil
}

func (r *memQuestionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.questions[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.questions, id)
	return nil
}

func (r *memQuestionRepo) GetByID(_ context.Context, id string) (*domain.Question, error) {
	question, ok := r.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *question
	return &clone, nil
}

func (r *memQuestionRepo) ListByTest(_ context.Context, testID string) ([]domain.Question, error) {
	var out []domain.Question
	for _, question := range r.questions {
		if question.TestID == testID {
			out = append(out, *question)
		}
	}
	return out, nil
}

type memOptionRepo struct {
	options map[string]*domain.Option
}

func newMemOptionRepo() *memOptionRepo {
	return &memOptionRepo{options: make(map[string]*domain.Option)}
}

func (r *memOptionRepo) Create(_ context.Context, option *domain.Option) error {
	option.ID = uuid.NewString()
	clone := *option
	r.options[option.ID] = &clone
	return nil
}

func (r *memOptionRepo) Update(_ context.Context, option *domain.Option) error {
	if _, ok := r.options[option.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *option
	r.options[option.ID] = &clone
	return nil
}

func (r *memOptionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.options[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.options, id)
	return nil
}

func (r *memOptionRepo) GetByID(_ context.Context, id string) (*domain.Option, error) {
	option, ok := r.options[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *option
	return &clone, nil
}

func (r *memOptionRepo) ListByQuestion(_ context.Context, questionID string) ([]domain.Option, error) {
	var out []domain.Option
	for _, option := range r.options {
		if option.QuestionID == questionID {
			out = append(out, *option)
		}
	}
	return out, nil
}

type memExamSessionRepo struct {
	sessions map[string]*domain.ExamSession
}

func newMemExamSessionRepo() *memExamSessionRepo {
	return &memExamSessionRepo{sessions: make(map[string]*domain.ExamSession)}
}

func (r *memExamSessionRepo) Create(_ context.Context, session *domain.ExamSession) error {
	session.ID = uuid.NewString()
	session.StartedAt = time.Now()
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *memExamSessionRepo) GetByID(_ context.Context, id string) (*domain.ExamSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *session
	return &clone, nil
}

func (r *memExamSessionRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.ExamSession, error) {
	var out []domain.ExamSession
	for _, session := range r.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (r *memExamSessionRepo) Finish(_ context.Context, id string, score int, finishedAt time.Time) error {
	session, ok := r.sessions[id]
	if !ok || session.Finished() {
		return pgx.ErrNoRows
	}
	session.Score = score
	session.FinishedAt = &finishedAt
	return nil
}

type memAnswerRepo struct {
	answers map[string]*domain.Answer // keyed by session+question
}

func newMemAnswerRepo() *memAnswerRepo {
	return &memAnswerRepo{answers: make(map[string]*domain.Answer)}
}

func (r *memAnswerRepo) Upsert(_ context.Context, answer *domain.Answer) error {
	key := answer.SessionID + "/" + answer.QuestionID
	if existing, ok := r.answers[key]; ok {
		existing.OptionID = answer.OptionID
		answer.ID = existing.ID
		return nil
	}
	answer.ID = uuid.NewString()
	clone := *answer
	r.answers[key] = &clone
	return nil
}

func (r *memAnswerRepo) ListBySession(_ context.Context, sessionID string) ([]domain.Answer, error) {
	var out []domain.Answer
	for _, answer := range r.answers {
		if answer.SessionID == sessionID {
			out = append(out, *answer)
		}
	}
	return out, nil
}

type examFixture struct {
	service *ExamService
	users   *memUserRepo
	answers *memAnswerRepo

	student string
	other   string
}

func newExamFixture(t *testing.T) *examFixture {
	t.Helper()

	users := newMemUserRepo()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &domain.User{FullName: "Student", Email: "student@example.com", Active: true}))
	require.NoError(t, users.Create(ctx, &domain.User{FullName: "Other", Email: "other@example.com", Active: true}))

	svc := NewExamService(ExamDependencies{
		UserRepo:        users,
		TestRepo:        newMemTestRepo(),
		QuestionRepo:    newMemQuestionRepo(),
		OptionRepo:      newMemOptionRepo(),
		ExamSessionRepo: newMemExamSessionRepo(),
		AnswerRepo:      newMemAnswerRepo(),
	})
	answers := svc.answers.(*memAnswerRepo)

	return &examFixture{
		service: svc,
		users:   users,
		answers: answers,
		student: "student@example.com",
		other:   "other@example.com",
	}
}

// seedExam builds a two-question exam: q1 worth 5, q2 worth 3, each with one
// correct and one wrong option.
type seededExam struct {
	test    *domain.Test
	q1, q2  *domain.Question
	q1Right *domain.Option
	q1Wrong *domain.Option
	q2Right *domain.Option
	q2Wrong *domain.Option
}

func (f *examFixture) seedExam(t *testing.T) *seededExam {
	t.Helper()
	ctx := context.Background()

	test, err := f.service.CreateTest(ctx, f.student, "Basics", "intro exam", 30)
	require.NoError(t, err)

	q1, err := f.service.AddQuestion(ctx, test.ID, "2+2?", 5)
	require.NoError(t, err)
	q2, err := f.service.AddQuestion(ctx, test.ID, "3+3?", 3)
	require.NoError(t, err)

	q1Right, err := f.service.AddOption(ctx, q1.ID, "4", true)
	require.NoError(t, err)
	q1Wrong, err := f.service.AddOption(ctx, q1.ID, "5", false)
	require.NoError(t, err)
	q2Right, err := f.service.AddOption(ctx, q2.ID, "6", true)
	require.NoError(t, err)
	q2Wrong, err := f.service.AddOption(ctx, q2.ID, "7", false)
	require.NoError(t, err)

	return &seededExam{test: test, q1: q1, q2: q2, q1Right: q1Right, q1Wrong: q1Wrong, q2Right: q2Right, q2Wrong: q2Wrong}
}

func TestCreateTestUnknownCreator(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)

	_, err := fix.service.CreateTest(context.Background(), "nobody@example.com", "Basics", "", 30)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAddQuestionMissingTest(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)

	_, err := fix.service.AddQuestion(context.Background(), uuid.NewString(), "2+2?", 5)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestSessionOwnership(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)
	exam := fix.seedExam(t)
	ctx := context.Background()

	session, err := fix.service.StartSession(ctx, fix.student, exam.test.ID)
	require.NoError(t, err)

	_, err = fix.service.GetSession(ctx, fix.other, session.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	got, err := fix.service.GetSession(ctx, fix.student, session.ID)
	require.NoError(t, err)
	require.Equal(t, session.ID, got.ID)
}

func TestSubmitAnswerCrossTestQuestion(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)
	exam := fix.seedExam(t)
	ctx := context.Background()

	otherTest, err := fix.service.CreateTest(ctx, fix.student, "Other", "", 30)
	require.NoError(t, err)
	strayQuestion, err := fix.service.AddQuestion(ctx, otherTest.ID, "1+1?", 2)
	require.NoError(t, err)
	strayOption, err := fix.service.AddOption(ctx, strayQuestion.ID, "2", true)
	require.NoError(t, err)

	session, err := fix.service.StartSession(ctx, fix.student, exam.test.ID)
	require.NoError(t, err)

	// Question belongs to a different test.
	_, err = fix.service.SubmitAnswer(ctx, fix.student, session.ID, strayQuestion.ID, strayOption.ID)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	// Option belongs to a different question.
	_, err = fix.service.SubmitAnswer(ctx, fix.student, session.ID, exam.q1.ID, exam.q2Right.ID)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestSubmitAnswerOverwrites(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)
	exam := fix.seedExam(t)
	ctx := context.Background()

	session, err := fix.service.StartSession(ctx, fix.student, exam.test.ID)
	require.NoError(t, err)

	_, err = fix.service.SubmitAnswer(ctx, fix.student, session.ID, exam.q1.ID, exam.q1Wrong.ID)
	require.NoError(t, err)
	_, err = fix.service.SubmitAnswer(ctx, fix.student, session.ID, exam.q1.ID, exam.q1Right.ID)
	require.NoError(t, err)

	answers, err := fix.answers.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.Equal(t, exam.q1Right.ID, answers[0].OptionID)
}

func TestFinishSessionScoring(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)
	exam := fix.seedExam(t)
	ctx := context.Background()

	session, err := fix.service.StartSession(ctx, fix.student, exam.test.ID)
	require.NoError(t, err)

	_, err = fix.service.SubmitAnswer(ctx, fix.student, session.ID, exam.q1.ID, exam.q1Right.ID)
	require.NoError(t, err)
	_, err = fix.service.SubmitAnswer(ctx, fix.student, session.ID, exam.q2.ID, exam.q2Wrong.ID)
	require.NoError(t, err)

	finished, err := fix.service.FinishSession(ctx, fix.student, session.ID)
	require.NoError(t, err)
	require.Equal(t, 5, finished.Score)
	require.NotNil(t, finished.FinishedAt)
}

func TestFinishSessionEmptyScoresZero(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)
	exam := fix.seedExam(t)
	ctx := context.Background()

	session, err := fix.service.StartSession(ctx, fix.student, exam.test.ID)
	require.NoError(t, err)

	finished, err := fix.service.FinishSession(ctx, fix.student, session.ID)
	require.NoError(t, err)
	require.Equal(t, 0, finished.Score)
}

func TestFinishedSessionIsClosed(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)
	exam := fix.seedExam(t)
	ctx := context.Background()

	session, err := fix.service.StartSession(ctx, fix.student, exam.test.ID)
	require.NoError(t, err)

	_, err = fix.service.FinishSession(ctx, fix.student, session.ID)
	require.NoError(t, err)

	_, err = fix.service.FinishSession(ctx, fix.student, session.ID)
	require.ErrorIs(t, err, domain.ErrSessionFinished)

	_, err = fix.service.SubmitAnswer(ctx, fix.student, session.ID, exam.q1.ID, exam.q1Right.ID)
	require.ErrorIs(t, err, domain.ErrSessionFinished)
}

func TestListSessionsScopedToCaller(t *testing.T) {
	t.Parallel()

	fix := newExamFixture(t)
	exam := fix.seedExam(t)
	ctx := context.Background()

	_, err := fix.service.StartSession(ctx, fix.student, exam.test.ID)
	require.NoError(t, err)
	_, err = fix.service.StartSession(ctx, fix.student, exam.test.ID)
	require.NoError(t, err)
	_, err = fix.service.StartSession(ctx, fix.other, exam.test.ID)
	require.NoError(t, err)

	mine, err := fix.service.ListSessions(ctx, fix.student, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	theirs, err := fix.service.ListSessions(ctx, fix.other, 10, 0)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}
