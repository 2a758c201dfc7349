package app_test

import (
	"context"
	"errors"
	"testing"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"
	"quiz-service/internal/infra/memory"
)

func TestSeedTwiceKeepsOriginalCount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewQuizService(store, nil)

	for i := 0; i < 2; i++ {
		if _, err := service.Seed(ctx, domain.DefaultQuestions()); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	count, err := store.CountQuestions(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 questions, got %d", count)
	}
}

func TestSeedRejectsInvalidQuestion(t *testing.T) {
	service := app.NewQuizService(memory.NewStore(), nil)
	_, err := service.Seed(context.Background(), []domain.QuestionInput{
		{Text: "2 + 2?", Options: []string{"3", "5"}, CorrectAnswer: "4"},
	})
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestCheckAnswerForEverySeededQuestion(t *testing.T) {
	ctx := context.Background()
	service := newSeededService(t)

	questions, err := service.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, q := range questions {
		res, err := service.CheckAnswer(ctx, q.ID, q.CorrectAnswer)
		if err != nil {
			t.Fatalf("check answer: %v", err)
		}
		if !res.Correct || res.CorrectAnswer != q.CorrectAnswer {
			t.Fatalf("expected correct result for %q, got %+v", q.Text, res)
		}
		if res.Explanation != "The correct answer is "+q.CorrectAnswer {
			t.Fatalf("unexpected explanation %q", res.Explanation)
		}
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				continue
			}
			res, err := service.CheckAnswer(ctx, q.ID, opt)
			if err != nil {
				t.Fatalf("check answer: %v", err)
			}
			if res.Correct {
				t.Fatalf("expected %q to be wrong for %q", opt, q.Text)
			}
		}
	}
}

func TestCheckAnswerUnknownQuestion(t *testing.T) {
	service := newSeededService(t)
	_, err := service.CheckAnswer(context.Background(), 404, "anything")
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestRandomQuestionEmptyStore(t *testing.T) {
	service := app.NewQuizService(memory.NewStore(), nil)
	_, err := service.RandomQuestion(context.Background())
	if !errors.Is(err, domain.ErrNoQuestionsAvailable) {
		t.Fatalf("expected ErrNoQuestionsAvailable, got %v", err)
	}
}

func TestRandomQuestionSamplesLiveIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	if _, err := store.SeedIfEmpty(ctx, domain.DefaultQuestions()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var asked int
	service := app.NewQuizServiceWithPicker(store, nil, func(n int) int {
		asked = n
		return n - 1
	})
	q, err := service.RandomQuestion(ctx)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if asked != 5 {
		t.Fatalf("expected picker over 5 ids, got %d", asked)
	}
	if q.ID != 5 || q.CorrectAnswer != "1945" {
		t.Fatalf("expected last question, got %+v", q)
	}
}

func TestSaveScoreThenLeaderboard(t *testing.T) {
	ctx := context.Background()
	service := newSeededService(t)

	saved, err := service.SaveScore(ctx, domain.ScoreInput{Username: "Alice", Score: 4, TotalQuestions: 5})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}

	lb, err := service.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb) != 1 || lb[0].Username != "Alice" || lb[0].Score != 4 || lb[0].TotalQuestions != 5 {
		t.Fatalf("unexpected leaderboard %+v", lb)
	}
}

func TestSaveScoreDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	service := newSeededService(t)

	saved, err := service.SaveScore(ctx, domain.ScoreInput{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Username != domain.AnonymousUsername || saved.Score != 0 || saved.TotalQuestions != 0 {
		t.Fatalf("unexpected defaults %+v", saved)
	}

	if _, err := service.SaveScore(ctx, domain.ScoreInput{Username: "Bob", Score: 7, TotalQuestions: 5}); !errors.Is(err, domain.ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
}

func TestLeaderboardCapsAtTenAndOrders(t *testing.T) {
	ctx := context.Background()
	service := newSeededService(t)

	for i := 0; i < 15; i++ {
		if _, err := service.SaveScore(ctx, domain.ScoreInput{Username: "p", Score: i % 7, TotalQuestions: 10}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	lb, err := service.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb) != app.LeaderboardSize {
		t.Fatalf("expected %d entries, got %d", app.LeaderboardSize, len(lb))
	}
	for i := 1; i < len(lb); i++ {
		if lb[i].Score > lb[i-1].Score {
			t.Fatalf("leaderboard not ordered at %d: %+v", i, lb)
		}
	}
}

func TestCategoriesFromDefaultSeed(t *testing.T) {
	service := newSeededService(t)
	got, err := service.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := map[string]bool{"Geography": true, "Science": true, "Art": true, "History": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %v", len(want), got)
	}
	for _, c := range got {
		if !want[c] {
			t.Fatalf("unexpected category %q", c)
		}
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewQuizService(store, app.NewLeaderboardFeed())

	ch, cancel, err := service.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if initial := <-ch; len(initial) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial)
	}

	if _, err := service.SaveScore(ctx, domain.ScoreInput{Username: "Alice", Score: 2, TotalQuestions: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	update := <-ch
	if len(update) != 1 || update[0].Username != "Alice" {
		t.Fatalf("expected Alice in update, got %+v", update)
	}
}

func TestSubscribeSeesScoreSavedDuringInitialRead(t *testing.T) {
	ctx := context.Background()
	store := &saveDuringTopScores{Store: memory.NewStore()}
	service := app.NewQuizService(store, app.NewLeaderboardFeed())
	store.onFirst = func() {
		if _, err := service.SaveScore(ctx, domain.ScoreInput{Username: "Alice", Score: 3, TotalQuestions: 5}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	ch, cancel, err := service.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if got := <-ch; len(got) != 1 || got[0].Username != "Alice" {
		t.Fatalf("expected Alice on the board, got %+v", got)
	}
}

// saveDuringTopScores reads the board, then runs onFirst before returning that now stale read.
type saveDuringTopScores struct {
	app.Store
	onFirst func()
	called  bool
}

func (s *saveDuringTopScores) TopScores(ctx context.Context, n int) ([]domain.Score, error) {
	top, err := s.Store.TopScores(ctx, n)
	if !s.called {
		s.called = true
		s.onFirst()
	}
	return top, err
}

func TestSubscribeWithoutFeed(t *testing.T) {
	service := app.NewQuizService(memory.NewStore(), nil)
	if _, _, err := service.Subscribe(context.Background()); err == nil {
		t.Fatalf("expected error when feed is disabled")
	}
}

func newSeededService(t *testing.T) *app.QuizService {
	t.Helper()
	service := app.NewQuizService(memory.NewStore(), nil)
	if _, err := service.Seed(context.Background(), domain.DefaultQuestions()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return service
}
