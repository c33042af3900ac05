package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-assessment-api/internal/dto"
	"github.com/noah-isme/gema-assessment-api/internal/grading"
	"github.com/noah-isme/gema-assessment-api/internal/service"
	"github.com/noah-isme/gema-assessment-api/internal/utils"
)

const (
	msgAlreadySubmitted = "You have already submitted this exam."
	msgSubmitFailed     = "An error occurred during submission."
)

// SubmissionHandler manages exam submission and the student's submission history.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the history routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterSubmit mounts the submit route under an exam group. Extra handlers
// such as a rate limiter run before submission.
func (h *SubmissionHandler) RegisterSubmit(exams fiber.Router, guards ...fiber.Handler) {
	handlers := append(append([]fiber.Handler{}, guards...), h.submit)
	exams.Post("/:id/submit", handlers...)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), err.Error())
	}

	studentID := studentIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload dto.SubmitExamRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid request body", "invalid request body")
	}

	submission, err := h.service.Submit(c.UserContext(), studentID, examID, payload)
	if err != nil {
		return h.handleSubmitError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam submitted", submission)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	studentID := studentIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	submissions, err := h.service.List(c.UserContext(), studentID)
	if err != nil {
		return h.handleReadError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID := studentIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	submission, err := h.service.Get(c.UserContext(), id, studentID)
	if err != nil {
		return h.handleReadError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) handleSubmitError(c *fiber.Ctx, err error) error {
	if detail, ok := validationDetail(err); ok {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid request body", detail)
	}

	var notInExam *service.QuestionNotInExamError
	switch {
	case errors.Is(err, service.ErrDuplicateSubmission):
		return utils.Fail(c, fiber.StatusBadRequest, msgAlreadySubmitted, msgAlreadySubmitted)
	case errors.As(err, &notInExam):
		message := fmt.Sprintf("Question ID %d does not belong to this exam.", notInExam.QuestionID)
		return utils.Fail(c, fiber.StatusBadRequest, message, message)
	case errors.Is(err, service.ErrDuplicateAnswer):
		message := "Each question may be answered only once per submission."
		return utils.Fail(c, fiber.StatusBadRequest, message, message)
	case errors.Is(err, service.ErrExamNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "Exam not found.", "Exam not found.")
	case errors.Is(err, grading.ErrUnknownQuestionType):
		requestLogger(h.logger, c).Error().Err(err).Msg("grading configuration error, submission rolled back")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("submission failed")
	}

	return utils.Fail(c, fiber.StatusInternalServerError, msgSubmitFailed, msgSubmitFailed)
}

func (h *SubmissionHandler) handleReadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrSubmissionNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	}

	requestLogger(h.logger, c).Error().Err(err).Msg("failed to load submissions")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
