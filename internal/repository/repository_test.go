package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-assessment-api/internal/database"
	"github.com/noah-isme/gema-assessment-api/internal/grading"
	"github.com/noah-isme/gema-assessment-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedExam(t *testing.T, db *gorm.DB, title, course string, created time.Time) models.Exam {
	t.Helper()
	exam := models.Exam{
		Title:           title,
		Course:          course,
		DurationMinutes: 30,
		CreatedAt:       created,
		Questions: []models.Question{
			{QuestionType: grading.QuestionTypeShortAnswer, Text: "Define AI", ExpectedAnswer: "machines that think", Weight: 2, Order: 2},
			{QuestionType: grading.QuestionTypeMCQ, Text: "What does AI stand for?", ExpectedAnswer: "Artificial Intelligence", Weight: 1, Order: 1},
		},
	}
	require.NoError(t, db.Create(&exam).Error)
	return exam
}

func TestExamRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExamRepository(db)

	now := time.Now()
	older := seedExam(t, db, "Intro", "CS101", now.Add(-2*time.Hour))
	newer := seedExam(t, db, "Advanced", "CS101", now.Add(-time.Hour))
	seedExam(t, db, "Calculus", "MATH201", now)

	exams, total, err := repo.List(context.Background(), ExamFilter{Course: "CS101"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, exams, 2)
	require.Equal(t, newer.ID, exams[0].ID, "expected newest exam first")
	require.Equal(t, older.ID, exams[1].ID)

	paged, total, err := repo.List(context.Background(), ExamFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	require.Equal(t, older.ID, paged[0].ID)
}

func TestExamRepositoryGetByIDOrdersQuestions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExamRepository(db)
	exam := seedExam(t, db, "Intro", "CS101", time.Now())

	loaded, err := repo.GetByID(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 2)
	require.Equal(t, uint(1), loaded.Questions[0].Order)
	require.Equal(t, grading.QuestionTypeMCQ, loaded.Questions[0].QuestionType)

	_, err = repo.GetByID(context.Background(), exam.ID+100)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubmissionRepositoryCreateAndGrade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db, "Intro", "CS101", time.Now())
	ctx := context.Background()

	exists, err := repo.ExistsForStudent(ctx, 7, exam.ID)
	require.NoError(t, err)
	require.False(t, exists)

	submission := models.Submission{
		StudentID:   7,
		ExamID:      exam.ID,
		SubmittedAt: time.Now(),
		Answers: []models.Answer{
			{QuestionID: exam.Questions[0].ID, StudentResponse: "machines think"},
			{QuestionID: exam.Questions[1].ID, StudentResponse: "Artificial Intelligence"},
		},
	}
	require.NoError(t, repo.Create(ctx, &submission))
	require.NotZero(t, submission.ID)
	require.NotZero(t, submission.Answers[0].ID)
	require.Equal(t, submission.ID, submission.Answers[1].SubmissionID)

	exists, err = repo.ExistsForStudent(ctx, 7, exam.ID)
	require.NoError(t, err)
	require.True(t, exists)

	loaded, err := repo.GetForGrading(ctx, submission.ID)
	require.NoError(t, err)
	require.Nil(t, loaded.Score)
	require.Len(t, loaded.Answers, 2)
	require.Equal(t, "Define AI", loaded.Answers[0].Question.Text)

	err = repo.SaveGrades(ctx, submission.ID, 55.5, []GradedAnswer{
		{AnswerID: loaded.Answers[0].ID, IsCorrect: false, Feedback: "similarity 0.50"},
		{AnswerID: loaded.Answers[1].ID, IsCorrect: true, Feedback: "exact match"},
	})
	require.NoError(t, err)

	detail, err := repo.GetDetail(ctx, submission.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Score)
	require.Equal(t, 55.5, *detail.Score)
	require.Equal(t, "Intro", detail.Exam.Title)
	require.NotNil(t, detail.Answers[0].IsCorrect)
	require.False(t, *detail.Answers[0].IsCorrect)
	require.True(t, *detail.Answers[1].IsCorrect)
	require.Equal(t, "exact match", detail.Answers[1].Feedback)
}

func TestSubmissionRepositoryCreateProvisionsStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()
	first := seedExam(t, db, "Intro", "CS101", time.Now())
	second := seedExam(t, db, "Advanced", "CS101", time.Now())

	require.NoError(t, repo.Create(ctx, &models.Submission{StudentID: 77, ExamID: first.ID, SubmittedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &models.Submission{StudentID: 77, ExamID: second.ID, SubmittedAt: time.Now()}))

	var student models.Student
	require.NoError(t, db.First(&student, 77).Error)
	require.False(t, student.FirstSeenAt.IsZero())

	var students int64
	require.NoError(t, db.Model(&models.Student{}).Count(&students).Error)
	require.Equal(t, int64(1), students)
}

func TestSubmissionRepositoryCreateEnforcesExamForeignKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	err := repo.Create(context.Background(), &models.Submission{StudentID: 5, ExamID: 404, SubmittedAt: time.Now()})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSubmissionRepositorySaveGradesRejectsForeignAnswer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db, "Intro", "CS101", time.Now())
	ctx := context.Background()

	submission := models.Submission{StudentID: 1, ExamID: exam.ID, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &submission))

	err := repo.SaveGrades(ctx, submission.ID, 10, []GradedAnswer{{AnswerID: 999, IsCorrect: true}})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	detail, err := repo.GetDetail(ctx, submission.ID)
	require.NoError(t, err)
	require.Nil(t, detail.Score)
}

func TestSubmissionRepositoryUniqueStudentExam(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db, "Intro", "CS101", time.Now())
	ctx := context.Background()

	first := models.Submission{StudentID: 3, ExamID: exam.ID, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &first))

	second := models.Submission{StudentID: 3, ExamID: exam.ID, SubmittedAt: time.Now()}
	err := repo.Create(ctx, &second)
	require.Error(t, err)
	require.True(t, IsDuplicateKey(err))

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Where("student_id = ? AND exam_id = ?", 3, exam.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSubmissionRepositoryTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db, "Intro", "CS101", time.Now())
	ctx := context.Background()

	boom := fmt.Errorf("grading failed")
	err := repo.Transaction(ctx, func(tx SubmissionRepository) error {
		submission := models.Submission{
			StudentID:   4,
			ExamID:      exam.ID,
			SubmittedAt: time.Now(),
			Answers:     []models.Answer{{QuestionID: exam.Questions[0].ID, StudentResponse: "x"}},
		}
		require.NoError(t, tx.Create(ctx, &submission))
		return boom
	})
	require.ErrorIs(t, err, boom)

	var submissions, answers int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&submissions).Error)
	require.NoError(t, db.Model(&models.Answer{}).Count(&answers).Error)
	require.Zero(t, submissions)
	require.Zero(t, answers)
}

func TestSubmissionRepositoryListByStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()
	first := seedExam(t, db, "Intro", "CS101", time.Now())
	second := seedExam(t, db, "Advanced", "CS101", time.Now())

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &models.Submission{StudentID: 1, ExamID: first.ID, SubmittedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Submission{StudentID: 1, ExamID: second.ID, SubmittedAt: now}))
	require.NoError(t, repo.Create(ctx, &models.Submission{StudentID: 2, ExamID: first.ID, SubmittedAt: now}))

	submissions, err := repo.ListByStudent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	require.Equal(t, "Advanced", submissions[0].Exam.Title)
	require.Equal(t, "Intro", submissions[1].Exam.Title)
}

func TestIsDuplicateKey(t *testing.T) {
	require.False(t, IsDuplicateKey(nil))
	require.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	require.True(t, IsDuplicateKey(fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey)))
	require.True(t, IsDuplicateKey(fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx_submission_student_exam"`)))
	require.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
}
