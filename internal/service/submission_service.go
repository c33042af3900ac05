package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-assessment-api/internal/dto"
	"github.com/noah-isme/gema-assessment-api/internal/models"
	"github.com/noah-isme/gema-assessment-api/internal/observability"
	"github.com/noah-isme/gema-assessment-api/internal/repository"
)

// SubmissionService handles exam submission intake and the student's view of
// their own submissions.
type SubmissionService interface {
	Submit(ctx context.Context, studentID, examID uint, payload dto.SubmitExamRequest) (dto.SubmissionDetailResponse, error)
	List(ctx context.Context, studentID uint) ([]dto.SubmissionSummary, error)
	Get(ctx context.Context, id, studentID uint) (dto.SubmissionDetailResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	exams       repository.ExamRepository
	grader      GradingService
	events      GradedEventPublisher
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance. events may be nil.
func NewSubmissionService(subRepo repository.SubmissionRepository, examRepo repository.ExamRepository, grader GradingService, events GradedEventPublisher, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		exams:       examRepo,
		grader:      grader,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, studentID, examID uint, payload dto.SubmitExamRequest) (dto.SubmissionDetailResponse, error) {
	response, err := s.submit(ctx, studentID, examID, payload)
	observability.Submissions().WithLabelValues(submitOutcome(err)).Inc()
	return response, err
}

func (s *submissionService) submit(ctx context.Context, studentID, examID uint, payload dto.SubmitExamRequest) (dto.SubmissionDetailResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionDetailResponse{}, err
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionDetailResponse{}, ErrExamNotFound
		}
		return dto.SubmissionDetailResponse{}, err
	}

	exists, err := s.submissions.ExistsForStudent(ctx, studentID, examID)
	if err != nil {
		return dto.SubmissionDetailResponse{}, err
	}
	if exists {
		return dto.SubmissionDetailResponse{}, ErrDuplicateSubmission
	}

	answers, err := buildAnswers(exam, payload.Answers)
	if err != nil {
		return dto.SubmissionDetailResponse{}, err
	}

	var graded models.Submission
	err = s.submissions.Transaction(ctx, func(tx repository.SubmissionRepository) error {
		submission := models.Submission{
			StudentID:   studentID,
			ExamID:      examID,
			SubmittedAt: s.now().UTC(),
			Answers:     answers,
		}

		if err := tx.Create(ctx, &submission); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrDuplicateSubmission
			}
			return fmt.Errorf("create submission: %w", err)
		}

		if _, err := s.grader.WithRepository(tx).Grade(ctx, submission.ID); err != nil {
			return fmt.Errorf("grade submission %d: %w", submission.ID, err)
		}

		// reloaded before commit so every committed submission has a response
		detail, err := tx.GetDetail(ctx, submission.ID)
		if err != nil {
			return fmt.Errorf("reload submission %d: %w", submission.ID, err)
		}

		graded = detail
		return nil
	})
	if err != nil {
		return dto.SubmissionDetailResponse{}, err
	}

	s.recordGraded(ctx, graded)

	return dto.NewSubmissionDetailResponse(graded), nil
}

func (s *submissionService) List(ctx context.Context, studentID uint) ([]dto.SubmissionSummary, error) {
	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionSummarySlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, id, studentID uint) (dto.SubmissionDetailResponse, error) {
	submission, err := s.submissions.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionDetailResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionDetailResponse{}, err
	}

	// other students' submissions are indistinguishable from missing ones
	if submission.StudentID != studentID {
		return dto.SubmissionDetailResponse{}, ErrSubmissionNotFound
	}

	return dto.NewSubmissionDetailResponse(submission), nil
}

func (s *submissionService) recordGraded(ctx context.Context, submission models.Submission) {
	var score float64
	if submission.Score != nil {
		score = *submission.Score
	}

	observability.SubmissionScores().Observe(score)
	for _, answer := range submission.Answers {
		correct := answer.IsCorrect != nil && *answer.IsCorrect
		observability.GradedAnswers().WithLabelValues(string(answer.Question.QuestionType), strconv.FormatBool(correct)).Inc()
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("student_id", submission.StudentID).
		Uint("exam_id", submission.ExamID).
		Float64("score", score).
		Msg("submission graded")

	if s.events == nil {
		return
	}

	event := SubmissionGradedEvent{
		SubmissionID: submission.ID,
		StudentID:    submission.StudentID,
		ExamID:       submission.ExamID,
		Score:        score,
		GradedAt:     s.now().UTC(),
	}
	if err := s.events.PublishGraded(ctx, event); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to publish graded event")
	}
}

func buildAnswers(exam models.Exam, inputs []dto.AnswerInput) ([]models.Answer, error) {
	questions := make(map[uint]struct{}, len(exam.Questions))
	for _, question := range exam.Questions {
		questions[question.ID] = struct{}{}
	}

	seen := make(map[uint]struct{}, len(inputs))
	answers := make([]models.Answer, 0, len(inputs))
	for _, input := range inputs {
		if _, ok := questions[input.QuestionID]; !ok {
			return nil, &QuestionNotInExamError{QuestionID: input.QuestionID, ExamID: exam.ID}
		}
		if _, dup := seen[input.QuestionID]; dup {
			return nil, fmt.Errorf("%w: question %d", ErrDuplicateAnswer, input.QuestionID)
		}
		seen[input.QuestionID] = struct{}{}

		answers = append(answers, models.Answer{
			QuestionID:      input.QuestionID,
			StudentResponse: input.StudentResponse,
		})
	}

	return answers, nil
}

func submitOutcome(err error) string {
	var validationErrors validator.ValidationErrors
	switch {
	case err == nil:
		return "graded"
	case errors.Is(err, ErrDuplicateSubmission):
		return "duplicate"
	case errors.Is(err, ErrQuestionNotInExam), errors.Is(err, ErrDuplicateAnswer), errors.As(err, &validationErrors):
		return "rejected"
	case errors.Is(err, ErrExamNotFound):
		return "not_found"
	default:
		return "failed"
	}
}
