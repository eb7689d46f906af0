package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-service/internal/api/dto"
	"github.com/spec-kit/exam-service/internal/auth"
	"github.com/spec-kit/exam-service/internal/domain"
	"github.com/spec-kit/exam-service/internal/service"
)

// SessionsHandler exposes exam attempt endpoints.
type SessionsHandler struct {
	exams *service.ExamService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(examService *service.ExamService) *SessionsHandler {
	return &SessionsHandler{exams: examService}
}

// List handles GET /api/sessions.
func (h *SessionsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	limit, offset := listParams(c)
	sessions, err := h.exams.ListSessions(c.UserContext(), principal.Email, limit, offset)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(sessions))
	for i := range sessions {
		items = append(items, sessionView(&sessions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/sessions/:id.
func (h *SessionsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	session, err := h.exams.GetSession(c.UserContext(), principal.Email, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionView(session)})
}

// Start handles POST /api/sessions.
func (h *SessionsHandler) Start(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TestID == "" {
		return fiber.NewError(http.StatusBadRequest, "test_id required")
	}

	session, err := h.exams.StartSession(c.UserContext(), principal.Email, req.TestID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sessionView(session)})
}

// SubmitAnswer handles POST /api/sessions/:id/answers.
func (h *SessionsHandler) SubmitAnswer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.QuestionID == "" || req.OptionID == "" {
		return fiber.NewError(http.StatusBadRequest, "question_id and option_id required")
	}

	answer, err := h.exams.SubmitAnswer(c.UserContext(), principal.Email, c.Params("id"), req.QuestionID, req.OptionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":          answer.ID,
			"session_id":  answer.SessionID,
			"question_id": answer.QuestionID,
			"option_id":   answer.OptionID,
		},
	})
}

// Finish handles POST /api/sessions/:id/finish.
func (h *SessionsHandler) Finish(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	session, err := h.exams.FinishSession(c.UserContext(), principal.Email, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionView(session)})
}

func sessionView(session *domain.ExamSession) fiber.Map {
	return fiber.Map{
		"id":          session.ID,
		"test_id":     session.TestID,
		"user_id":     session.UserID,
		"score":       session.Score,
		"started_at":  session.StartedAt,
		"finished_at": session.FinishedAt,
	}
}
