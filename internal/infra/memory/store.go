package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-service/internal/domain"
)

// Store is an in-memory implementation of app.Store.
type Store struct {
	clock func() time.Time

	mu        sync.RWMutex
	questions []domain.Question
	scores    []domain.Score
	nextQID   int64
	nextSID   int64
}

func NewStore() *Store {
	return NewStoreWithClock(func() time.Time { return time.Now().UTC() })
}

// NewStoreWithClock allows deterministic timestamps in tests.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{clock: now, nextQID: 1, nextSID: 1}
}

func (s *Store) SeedIfEmpty(_ context.Context, questions []domain.QuestionInput) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) > 0 {
		return 0, nil
	}
	now := s.clock()
	for _, in := range questions {
		in = in.Normalize()
		s.questions = append(s.questions, domain.Question{
			ID:            s.nextQID,
			Text:          in.Text,
			Options:       append([]string(nil), in.Options...),
			CorrectAnswer: in.CorrectAnswer,
			Category:      in.Category,
			CreatedAt:     now,
		})
		s.nextQID++
	}
	return len(questions), nil
}

func (s *Store) CountQuestions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

func (s *Store) GetQuestion(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.questions {
		if q.ID == id {
			return copyQuestion(q), nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *Store) ListQuestions(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, copyQuestion(q))
	}
	return out, nil
}

func (s *Store) ListQuestionIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.questions))
	for _, q := range s.questions {
		ids = append(ids, q.ID)
	}
	return ids, nil
}

// ListCategories returns categories in order of first appearance.
func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, q := range s.questions {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}
	return categories, nil
}

func (s *Store) InsertScore(_ context.Context, in domain.ScoreInput) (domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score := domain.Score{
		ID:             s.nextSID,
		Username:       in.Username,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		CompletedAt:    s.clock(),
	}
	s.nextSID++
	s.scores = append(s.scores, score)
	return score, nil
}

func (s *Store) TopScores(_ context.Context, n int) ([]domain.Score, error) {
	s.mu.RLock()
	ranked := append([]domain.Score(nil), s.scores...)
	s.mu.RUnlock()

	// scores are appended in id order, so a stable sort keeps earlier submissions first on ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func copyQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
