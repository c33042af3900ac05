package dto

import (
	"time"

	"github.com/noah-isme/gema-assessment-api/internal/models"
)

// AnswerInput is one answer in a submit payload.
type AnswerInput struct {
	QuestionID      uint   `json:"question_id" validate:"required,gt=0"`
	StudentResponse string `json:"student_response" validate:"required"`
}

// SubmitExamRequest is the body of POST /exams/:id/submit. The answers key is
// required but may be an empty list, which grades to a score of 0.
type SubmitExamRequest struct {
	Answers []AnswerInput `json:"answers" validate:"required,dive"`
}

// AnswerResponse serializes a graded answer.
type AnswerResponse struct {
	ID              uint   `json:"id"`
	QuestionID      uint   `json:"question"`
	QuestionText    string `json:"question_text"`
	StudentResponse string `json:"student_response"`
	IsCorrect       *bool  `json:"is_correct"`
	Feedback        string `json:"feedback"`
	ExpectedAnswer  string `json:"expected_answer"`
}

// SubmissionDetailResponse is a graded submission with its answers.
type SubmissionDetailResponse struct {
	ID          uint             `json:"id"`
	ExamID      uint             `json:"exam"`
	ExamTitle   string           `json:"exam_title"`
	Score       *float64         `json:"score"`
	SubmittedAt time.Time        `json:"submitted_at"`
	Answers     []AnswerResponse `json:"answers"`
}

// SubmissionSummary is the list projection of a submission.
type SubmissionSummary struct {
	ID          uint      `json:"id"`
	ExamID      uint      `json:"exam"`
	ExamTitle   string    `json:"exam_title"`
	Score       *float64  `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewSubmissionDetailResponse converts a submission with preloaded exam and
// answer questions into a DTO.
func NewSubmissionDetailResponse(model models.Submission) SubmissionDetailResponse {
	answers := make([]AnswerResponse, 0, len(model.Answers))
	for _, answer := range model.Answers {
		answers = append(answers, AnswerResponse{
			ID:              answer.ID,
			QuestionID:      answer.QuestionID,
			QuestionText:    answer.Question.Text,
			StudentResponse: answer.StudentResponse,
			IsCorrect:       answer.IsCorrect,
			Feedback:        answer.Feedback,
			ExpectedAnswer:  answer.Question.ExpectedAnswer,
		})
	}

	return SubmissionDetailResponse{
		ID:          model.ID,
		ExamID:      model.ExamID,
		ExamTitle:   model.Exam.Title,
		Score:       model.Score,
		SubmittedAt: model.SubmittedAt,
		Answers:     answers,
	}
}

// NewSubmissionSummarySlice converts submission models into list DTOs.
func NewSubmissionSummarySlice(models []models.Submission) []SubmissionSummary {
	responses := make([]SubmissionSummary, 0, len(models))
	for _, submission := range models {
		responses = append(responses, SubmissionSummary{
			ID:          submission.ID,
			ExamID:      submission.ExamID,
			ExamTitle:   submission.Exam.Title,
			Score:       submission.Score,
			SubmittedAt: submission.SubmittedAt,
		})
	}

	return responses
}
