package domain

import "errors"

var (
	// ErrNoQuestionsAvailable is returned when a random question is requested from an empty store.
	ErrNoQuestionsAvailable = errors.New("no questions available")
	// ErrQuestionNotFound indicates a question ID does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidScore rejects negative scores or a score above the question total.
	ErrInvalidScore = errors.New("invalid score")
	// ErrInvalidQuestion rejects questions whose correct answer is missing from the options.
	ErrInvalidQuestion = errors.New("invalid question")
)
