package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// seedLockKey serializes concurrent SeedIfEmpty calls across processes.
const seedLockKey = 7421001

// Store reads and writes quiz data through a pgx pool. The schema comes from Migrate.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) SeedIfEmpty(ctx context.Context, questions []domain.QuestionInput) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return 0, fmt.Errorf("seed lock: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, in := range questions {
		in = in.Normalize()
		optionsJSON, err := json.Marshal(in.Options)
		if err != nil {
			return 0, fmt.Errorf("marshal options: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO questions (question, options, correct_answer, category) VALUES ($1, $2::jsonb, $3, $4)`,
			in.Text, string(optionsJSON), in.CorrectAnswer, in.Category,
		)
		if err != nil {
			return 0, fmt.Errorf("insert question: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(questions), nil
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, question, options, correct_answer, category, created_at FROM questions WHERE id = $1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, question, options, correct_answer, category, created_at FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

func (s *Store) ListQuestionIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list question ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question ids: %w", err)
	}
	return ids, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT category FROM questions GROUP BY category ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (s *Store) InsertScore(ctx context.Context, in domain.ScoreInput) (domain.Score, error) {
	score := domain.Score{
		Username:       in.Username,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO scores (username, score, total_questions) VALUES ($1, $2, $3) RETURNING id, completed_at`,
		in.Username, in.Score, in.TotalQuestions,
	).Scan(&score.ID, &score.CompletedAt)
	if err != nil {
		return domain.Score{}, fmt.Errorf("insert score: %w", err)
	}
	score.CompletedAt = score.CompletedAt.UTC()
	return score, nil
}

// TopScores returns every score when n is negative.
func (s *Store) TopScores(ctx context.Context, n int) ([]domain.Score, error) {
	var limit *int
	if n >= 0 {
		limit = &n
	}
	// LIMIT NULL means no limit.
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, score, total_questions, completed_at FROM scores ORDER BY score DESC, id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	scores := make([]domain.Score, 0, max(n, 0))
	for rows.Next() {
		var score domain.Score
		if err := rows.Scan(&score.ID, &score.Username, &score.Score, &score.TotalQuestions, &score.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		score.CompletedAt = score.CompletedAt.UTC()
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return scores, nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var (
		q         domain.Question
		raw       []byte
		createdAt time.Time
	)
	if err := row.Scan(&q.ID, &q.Text, &raw, &q.CorrectAnswer, &q.Category, &createdAt); err != nil {
		return domain.Question{}, err
	}
	if err := json.Unmarshal(raw, &q.Options); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
	}
	q.CreatedAt = createdAt.UTC()
	return q, nil
}
