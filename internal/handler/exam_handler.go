package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-assessment-api/internal/dto"
	"github.com/noah-isme/gema-assessment-api/internal/service"
	"github.com/noah-isme/gema-assessment-api/internal/utils"
)

// ExamHandler serves read-only exam endpoints.
type ExamHandler struct {
	service service.ExamService
	logger  zerolog.Logger
}

// NewExamHandler builds an exam handler instance.
func NewExamHandler(service service.ExamService, logger zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		service: service,
		logger:  logger.With().Str("component", "exam_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ExamHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *ExamHandler) list(c *fiber.Ctx) error {
	var request dto.ExamListRequest
	if err := c.QueryParser(&request); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid query parameters", err.Error())
	}

	exams, err := h.service.List(c.UserContext(), request)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, fiber.StatusOK, exams.Items, "exams retrieved", exams.Pagination)
}

func (h *ExamHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	exam, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam retrieved", exam)
}

func (h *ExamHandler) handleError(c *fiber.Ctx, err error) error {
	if detail, ok := validationDetail(err); ok {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid query parameters", detail)
	}

	switch {
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load exams")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
