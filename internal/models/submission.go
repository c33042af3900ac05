package models

import "time"

// Submission is a student's single attempt at an exam. Score stays nil until
// grading completes.
type Submission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_submission_student_exam,priority:1;index:idx_submission_student_submitted,priority:1" json:"student_id"`
	ExamID      uint      `gorm:"not null;uniqueIndex:idx_submission_student_exam,priority:2" json:"exam_id"`
	Score       *float64  `json:"score"`
	SubmittedAt time.Time `gorm:"not null;index:idx_submission_student_submitted,priority:2" json:"submitted_at"`
	Exam        Exam      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"exam"`
	Student     Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Answers     []Answer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers,omitempty"`
}

// IsGraded reports whether the submission has a final score.
func (s Submission) IsGraded() bool {
	return s.Score != nil
}

// Answer is one response to one question within a submission.
type Answer struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	SubmissionID    uint     `gorm:"not null;index" json:"submission_id"`
	QuestionID      uint     `gorm:"not null;index" json:"question_id"`
	StudentResponse string   `gorm:"type:text;not null" json:"student_response"`
	IsCorrect       *bool    `json:"is_correct"`
	Feedback        string   `gorm:"type:text" json:"feedback"`
	Question        Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"question"`
}
