package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"quiz-service/internal/domain"
)

// LeaderboardSize is the number of entries returned by Leaderboard.
const LeaderboardSize = 10

// Store abstracts where questions and scores are persisted (memory, SQLite, Postgres, cached).
type Store interface {
	// SeedIfEmpty inserts questions only when no question exists yet and reports how many were inserted.
	SeedIfEmpty(ctx context.Context, questions []domain.QuestionInput) (int, error)
	CountQuestions(ctx context.Context) (int, error)
	// GetQuestion returns domain.ErrQuestionNotFound when id does not exist.
	GetQuestion(ctx context.Context, id int64) (domain.Question, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	ListQuestionIDs(ctx context.Context) ([]int64, error)
	ListCategories(ctx context.Context) ([]string, error)
	InsertScore(ctx context.Context, in domain.ScoreInput) (domain.Score, error)
	// TopScores orders by score descending, ties by insertion order.
	TopScores(ctx context.Context, n int) ([]domain.Score, error)
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	store Store
	feed  *LeaderboardFeed
	intn  func(n int) int
}

// NewQuizService wires a store and an optional leaderboard feed (nil disables publishing).
func NewQuizService(store Store, feed *LeaderboardFeed) *QuizService {
	return &QuizService{store: store, feed: feed, intn: rand.IntN}
}

// NewQuizServiceWithPicker is test-only for deterministic random selection.
func NewQuizServiceWithPicker(store Store, feed *LeaderboardFeed, intn func(n int) int) *QuizService {
	return &QuizService{store: store, feed: feed, intn: intn}
}

// Seed validates the supplied questions and loads them into an empty store.
// It must run before the service starts accepting traffic.
func (s *QuizService) Seed(ctx context.Context, questions []domain.QuestionInput) (int, error) {
	normalized := make([]domain.QuestionInput, 0, len(questions))
	for _, q := range questions {
		q = q.Normalize()
		if err := q.Validate(); err != nil {
			return 0, err
		}
		normalized = append(normalized, q)
	}
	return s.store.SeedIfEmpty(ctx, normalized)
}

// ListQuestions returns every stored question in insertion order.
func (s *QuizService) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.store.ListQuestions(ctx)
}

// RandomQuestion picks a question uniformly from the ids that currently exist.
func (s *QuizService) RandomQuestion(ctx context.Context) (domain.Question, error) {
	ids, err := s.store.ListQuestionIDs(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	if len(ids) == 0 {
		return domain.Question{}, domain.ErrNoQuestionsAvailable
	}
	return s.store.GetQuestion(ctx, ids[s.intn(len(ids))])
}

// CheckAnswer compares answer with the stored correct answer using exact string equality.
func (s *QuizService) CheckAnswer(ctx context.Context, questionID int64, answer string) (domain.AnswerResult, error) {
	question, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	return domain.AnswerResult{
		Correct:       question.IsCorrect(answer),
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   fmt.Sprintf("The correct answer is %s", question.CorrectAnswer),
	}, nil
}

// SaveScore records a finished quiz and pushes the refreshed leaderboard to subscribers.
func (s *QuizService) SaveScore(ctx context.Context, in domain.ScoreInput) (domain.Score, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Score{}, err
	}
	score, err := s.store.InsertScore(ctx, in)
	if err != nil {
		return domain.Score{}, err
	}

	if s.feed != nil && s.feed.Len() > 0 {
		// The score is already stored; a failed refresh only delays the next push.
		if top, err := s.store.TopScores(ctx, LeaderboardSize); err == nil {
			s.feed.Publish(top)
		}
	}
	return score, nil
}

// Leaderboard returns the top scores, highest first.
func (s *QuizService) Leaderboard(ctx context.Context) ([]domain.Score, error) {
	return s.store.TopScores(ctx, LeaderboardSize)
}

// Categories returns the distinct question categories.
func (s *QuizService) Categories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

// Subscribe returns a channel that receives the leaderboard after every saved score,
// starting with the current snapshot. The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context) (<-chan []domain.Score, func(), error) {
	if s.feed == nil {
		return nil, nil, fmt.Errorf("leaderboard feed disabled")
	}
	return s.feed.Subscribe(func() ([]domain.Score, error) {
		return s.store.TopScores(ctx, LeaderboardSize)
	})
}
