package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultCategory is applied to questions inserted without a category.
	DefaultCategory = "General"
	// AnonymousUsername is recorded for scores submitted without a username.
	AnonymousUsername = "Anonymous"
)

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID            int64     `json:"id"`
	Text          string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsCorrect reports whether answer matches the correct option exactly.
func (q Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// QuestionInput is the payload for inserting a new question.
type QuestionInput struct {
	Text          string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Category      string   `json:"category" yaml:"category"`
}

// Normalize fills defaults for optional fields.
func (in QuestionInput) Normalize() QuestionInput {
	if strings.TrimSpace(in.Category) == "" {
		in.Category = DefaultCategory
	}
	return in
}

// Validate checks that the question has a prompt and that the correct answer is one of its options.
func (in QuestionInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" {
		return fmt.Errorf("%w: empty question text", ErrInvalidQuestion)
	}
	for _, opt := range in.Options {
		if opt == in.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer %q is not one of the options", ErrInvalidQuestion, in.CorrectAnswer)
}

// Score is the stored result of one completed quiz attempt.
type Score struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// ScoreInput is the payload for recording a finished quiz.
type ScoreInput struct {
	Username       string
	Score          int
	TotalQuestions int
}

// Normalize applies the anonymous username default.
func (in ScoreInput) Normalize() ScoreInput {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		in.Username = AnonymousUsername
	}
	return in
}

// Validate enforces 0 <= score <= total.
func (in ScoreInput) Validate() error {
	if in.Score < 0 || in.TotalQuestions < 0 {
		return fmt.Errorf("%w: score and total must not be negative", ErrInvalidScore)
	}
	if in.Score > in.TotalQuestions {
		return fmt.Errorf("%w: score %d exceeds total %d", ErrInvalidScore, in.Score, in.TotalQuestions)
	}
	return nil
}

// AnswerResult summarizes the outcome of checking a single answer.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}
