package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-assessment-api/internal/grading"
	"github.com/noah-isme/gema-assessment-api/internal/repository"
)

// GradingService scores every answer of a submission and stores the weighted result.
type GradingService interface {
	// Grade recomputes answer flags and the final score. Re-grading unchanged
	// answers yields identical results.
	Grade(ctx context.Context, submissionID uint) (float64, error)
	// WithRepository returns a copy that reads and writes through repo, typically
	// a transaction-scoped repository.
	WithRepository(repo repository.SubmissionRepository) GradingService
}

type gradingService struct {
	submissions repository.SubmissionRepository
	strategies  *grading.Registry
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewGradingService constructs the grading service. A nil registry falls back to the built-in strategies.
func NewGradingService(repo repository.SubmissionRepository, strategies *grading.Registry, logger zerolog.Logger) GradingService {
	if strategies == nil {
		strategies = grading.DefaultRegistry()
	}

	return &gradingService{
		submissions: repo,
		strategies:  strategies,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/gema-assessment-api/internal/service/grading"),
	}
}

func (s *gradingService) WithRepository(repo repository.SubmissionRepository) GradingService {
	clone := *s
	clone.submissions = repo
	return &clone
}

func (s *gradingService) Grade(ctx context.Context, submissionID uint) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "grading.grade")
	span.SetAttributes(attribute.Int64("grading.submission_id", int64(submissionID)))
	defer span.End()

	submission, err := s.submissions.GetForGrading(ctx, submissionID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return 0, ErrSubmissionNotFound
		}
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return 0, err
	}

	weighted := make([]grading.Weighted, 0, len(submission.Answers))
	graded := make([]repository.GradedAnswer, 0, len(submission.Answers))

	for _, answer := range submission.Answers {
		question := answer.Question

		questionType, err := grading.ParseQuestionType(string(question.QuestionType))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "unknown_question_type")
			s.logger.Error().Err(err).
				Uint("submission_id", submissionID).
				Uint("question_id", question.ID).
				Msg("question type has no grading strategy")
			return 0, fmt.Errorf("answer %d: %w", answer.ID, err)
		}

		result, err := s.strategies.Score(ctx, grading.Input{
			QuestionID:     question.ID,
			QuestionType:   questionType,
			Response:       answer.StudentResponse,
			ExpectedAnswer: question.ExpectedAnswer,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scoring_failed")
			return 0, fmt.Errorf("answer %d: %w", answer.ID, err)
		}

		weighted = append(weighted, grading.Weighted{Score: result.Score, Weight: question.Weight})
		graded = append(graded, repository.GradedAnswer{
			AnswerID:  answer.ID,
			IsCorrect: grading.IsCorrect(result.Score),
			Feedback:  result.Feedback,
		})
	}

	score := grading.Aggregate(weighted)

	if err := s.submissions.SaveGrades(ctx, submission.ID, score, graded); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_persist_failed")
		return 0, fmt.Errorf("save grades: %w", err)
	}

	span.SetAttributes(
		attribute.Int("grading.answers", len(graded)),
		attribute.Float64("grading.score", score),
	)
	s.logger.Debug().Uint("submission_id", submission.ID).Float64("score", score).Msg("submission graded")

	return score, nil
}
