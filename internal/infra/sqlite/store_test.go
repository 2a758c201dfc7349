package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"quiz-service/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteSeedAndLookup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	inserted, err := store.SeedIfEmpty(ctx, domain.DefaultQuestions())
	if err != nil || inserted != 5 {
		t.Fatalf("seed = (%d, %v), want (5, nil)", inserted, err)
	}
	inserted, err = store.SeedIfEmpty(ctx, domain.DefaultQuestions())
	if err != nil || inserted != 0 {
		t.Fatalf("second seed = (%d, %v), want (0, nil)", inserted, err)
	}

	count, err := store.CountQuestions(ctx)
	if err != nil || count != 5 {
		t.Fatalf("count = (%d, %v), want (5, nil)", count, err)
	}

	q, err := store.GetQuestion(ctx, 3)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if q.Text != "Who painted the Mona Lisa?" || q.CorrectAnswer != "Da Vinci" || len(q.Options) != 4 {
		t.Fatalf("unexpected question: %+v", q)
	}
	if _, err := store.GetQuestion(ctx, 42); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	ids, err := store.ListQuestionIDs(ctx)
	if err != nil || len(ids) != 5 || ids[0] != 1 || ids[4] != 5 {
		t.Fatalf("ids = (%v, %v)", ids, err)
	}
}

func TestSQLiteCategories(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, _ = store.SeedIfEmpty(ctx, domain.DefaultQuestions())

	got, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := []string{"Geography", "Science", "Art", "History"}
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
}

func TestSQLiteTopScores(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	inputs := []domain.ScoreInput{
		{Username: "a", Score: 1, TotalQuestions: 5},
		{Username: "b", Score: 4, TotalQuestions: 5},
		{Username: "c", Score: 4, TotalQuestions: 5},
		{Username: "d", Score: 2, TotalQuestions: 5},
	}
	for _, in := range inputs {
		saved, err := store.InsertScore(ctx, in)
		if err != nil {
			t.Fatalf("insert score: %v", err)
		}
		if saved.ID == 0 || saved.CompletedAt.IsZero() {
			t.Fatalf("expected id and timestamp, got %+v", saved)
		}
	}

	top, err := store.TopScores(ctx, 3)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Username != "b" || top[1].Username != "c" || top[2].Username != "d" {
		t.Fatalf("unexpected order: %+v", top)
	}

	all, err := store.TopScores(ctx, -1)
	if err != nil {
		t.Fatalf("top scores with negative n: %v", err)
	}
	if len(all) != len(inputs) {
		t.Fatalf("expected all %d entries for negative n, got %d", len(inputs), len(all))
	}
}
