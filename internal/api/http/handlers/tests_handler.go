package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-service/internal/api/dto"
	"github.com/spec-kit/exam-service/internal/auth"
	"github.com/spec-kit/exam-service/internal/domain"
	"github.com/spec-kit/exam-service/internal/service"
)

// TestsHandler exposes exam definition endpoints.
type TestsHandler struct {
	exams *service.ExamService
}

// NewTestsHandler constructs handler.
func NewTestsHandler(examService *service.ExamService) *TestsHandler {
	return &TestsHandler{exams: examService}
}

// List handles GET /api/tests.
func (h *TestsHandler) List(c *fiber.Ctx) error {
	limit, offset := listParams(c)
	tests, err := h.exams.ListTests(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(tests))
	for i := range tests {
		items = append(items, testView(&tests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/tests/:id.
func (h *TestsHandler) Get(c *fiber.Ctx) error {
	test, err := h.exams.GetTest(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": testView(test)})
}

// Create handles POST /api/tests.
func (h *TestsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req dto.TestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" {
		return fiber.NewError(http.StatusBadRequest, "title required")
	}

	test, err := h.exams.CreateTest(c.UserContext(), principal.Email, req.Title, req.Description, req.DurationMinutes)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": testView(test)})
}

// Update handles PUT /api/tests/:id.
func (h *TestsHandler) Update(c *fiber.Ctx) error {
	var req dto.TestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" {
		return fiber.NewError(http.StatusBadRequest, "title required")
	}

	test, err := h.exams.UpdateTest(c.UserContext(), c.Params("id"), req.Title, req.Description, req.DurationMinutes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": testView(test)})
}

// Delete handles DELETE /api/tests/:id.
func (h *TestsHandler) Delete(c *fiber.Ctx) error {
	if err := h.exams.DeleteTest(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListQuestions handles GET /api/tests/:id/questions.
func (h *TestsHandler) ListQuestions(c *fiber.Ctx) error {
	questions, err := h.exams.ListQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(questions))
	for i := range questions {
		items = append(items, questionView(&questions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddQuestion handles POST /api/tests/:id/questions.
func (h *TestsHandler) AddQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Body == "" {
		return fiber.NewError(http.StatusBadRequest, "body required")
	}

	question, err := h.exams.AddQuestion(c.UserContext(), c.Params("id"), req.Body, req.Score)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": questionView(question)})
}

// UpdateQuestion handles PUT /api/questions/:id.
func (h *TestsHandler) UpdateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Body == "" {
		return fiber.NewError(http.StatusBadRequest, "body required")
	}

	question, err := h.exams.UpdateQuestion(c.UserContext(), c.Params("id"), req.Body, req.Score)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": questionView(question)})
}

// DeleteQuestion handles DELETE /api/questions/:id.
func (h *TestsHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.exams.DeleteQuestion(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListOptions handles GET /api/questions/:id/options.
func (h *TestsHandler) ListOptions(c *fiber.Ctx) error {
	options, err := h.exams.ListOptions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(options))
	for i := range options {
		items = append(items, optionView(&options[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddOption handles POST /api/questions/:id/options.
func (h *TestsHandler) AddOption(c *fiber.Ctx) error {
	var req dto.OptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Body == "" {
		return fiber.NewError(http.StatusBadRequest, "body required")
	}

	option, err := h.exams.AddOption(c.UserContext(), c.Params("id"), req.Body, req.Correct)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": optionView(option)})
}

// UpdateOption handles PUT /api/options/:id.
func (h *TestsHandler) UpdateOption(c *fiber.Ctx) error {
	var req dto.OptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Body == "" {
		return fiber.NewError(http.StatusBadRequest, "body required")
	}

	option, err := h.exams.UpdateOption(c.UserContext(), c.Params("id"), req.Body, req.Correct)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": optionView(option)})
}

// DeleteOption handles DELETE /api/options/:id.
func (h *TestsHandler) DeleteOption(c *fiber.Ctx) error {
	if err := h.exams.DeleteOption(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func testView(test *domain.Test) fiber.Map {
	return fiber.Map{
		"id":               test.ID,
		"title":            test.Title,
		"description":      test.Description,
		"duration_minutes": test.DurationMinutes,
		"created_by":       test.CreatedBy,
		"created_at":       test.CreatedAt,
	}
}

func questionView(question *domain.Question) fiber.Map {
	return fiber.Map{
		"id":      question.ID,
		"test_id": question.TestID,
		"body":    question.Body,
		"score":   question.Score,
	}
}

func optionView(option *domain.Option) fiber.Map {
	return fiber.Map{
		"id":          option.ID,
		"question_id": option.QuestionID,
		"body":        option.Body,
		"correct":     option.Correct,
	}
}
