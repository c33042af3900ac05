package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-assessment-api/internal/models"
)

const answerBatchSize = 100

// GradedAnswer carries the grading outcome written back to one answer row.
type GradedAnswer struct {
	AnswerID  uint
	IsCorrect bool
	Feedback  string
}

// SubmissionRepository defines data operations for submissions and their answers.
type SubmissionRepository interface {
	ExistsForStudent(ctx context.Context, studentID, examID uint) (bool, error)
	Create(ctx context.Context, submission *models.Submission) error
	GetForGrading(ctx context.Context, id uint) (models.Submission, error)
	SaveGrades(ctx context.Context, submissionID uint, score float64, answers []GradedAnswer) error
	GetDetail(ctx context.Context, id uint) (models.Submission, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error)
	// Transaction runs fn inside one database transaction. Returning an error
	// from fn rolls back every write made through the repository it receives.
	Transaction(ctx context.Context, fn func(repo SubmissionRepository) error) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) ExistsForStudent(ctx context.Context, studentID, examID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// Create provisions the student row for the submitting subject, inserts the
// submission and bulk-inserts its answers.
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	answers := submission.Answers

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student := models.Student{ID: submission.StudentID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&student).Error; err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(submission).Error; err != nil {
			return err
		}

		if len(answers) == 0 {
			return nil
		}

		for i := range answers {
			answers[i].SubmissionID = submission.ID
		}

		if err := tx.Omit(clause.Associations).CreateInBatches(&answers, answerBatchSize).Error; err != nil {
			return err
		}

		submission.Answers = answers
		return nil
	})
}

func (r *submissionRepository) GetForGrading(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		Preload("Answers.Question").
		First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) SaveGrades(ctx context.Context, submissionID uint, score float64, answers []GradedAnswer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, answer := range answers {
			result := tx.Model(&models.Answer{}).
				Where("id = ? AND submission_id = ?", answer.AnswerID, submissionID).
				Updates(map[string]interface{}{
					"is_correct": answer.IsCorrect,
					"feedback":   answer.Feedback,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		result := tx.Model(&models.Submission{}).Where("id = ?", submissionID).Update("score", score)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *submissionRepository) GetDetail(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Exam").
		Preload("Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		Preload("Answers.Question").
		First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Exam").
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Order("id DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) Transaction(ctx context.Context, fn func(repo SubmissionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&submissionRepository{db: tx})
	})
}

// IsDuplicateKey reports whether err is a unique constraint violation. Drivers
// opened without error translation are matched by message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint") || strings.Contains(message, "duplicate key")
}
