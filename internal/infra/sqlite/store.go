package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-service/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists questions and scores in a SQLite file.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

// NewStore opens (or creates) the database at path and ensures the schema exists.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "quiz.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// a single connection serializes writers, which also covers concurrent seeding.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	store := &Store{db: db, clock: func() time.Time { return time.Now().UTC() }}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			options_json TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'General',
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			total_questions INTEGER NOT NULL DEFAULT 0,
			completed_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, id ASC);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SeedIfEmpty(ctx context.Context, questions []domain.QuestionInput) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	now := s.clock().UnixNano()
	for _, in := range questions {
		in = in.Normalize()
		optionsJSON, err := json.Marshal(in.Options)
		if err != nil {
			return 0, fmt.Errorf("marshal options: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (question, options_json, correct_answer, category, created_at_unix) VALUES (?, ?, ?, ?, ?)`,
			in.Text, string(optionsJSON), in.CorrectAnswer, in.Category, now,
		)
		if err != nil {
			return 0, fmt.Errorf("insert question: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(questions), nil
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, options_json, correct_answer, category, created_at_unix FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, options_json, correct_answer, category, created_at_unix FROM questions ORDER BY id`)
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
	return questions, rows.Err()
}

func (s *Store) ListQuestionIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM questions ORDER BY id`)
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
	return ids, rows.Err()
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
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
	return categories, rows.Err()
}

func (s *Store) InsertScore(ctx context.Context, in domain.ScoreInput) (domain.Score, error) {
	completedAt := s.clock()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (username, score, total_questions, completed_at_unix) VALUES (?, ?, ?, ?)`,
		in.Username, in.Score, in.TotalQuestions, completedAt.UnixNano(),
	)
	if err != nil {
		return domain.Score{}, fmt.Errorf("insert score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Score{}, fmt.Errorf("score id: %w", err)
	}
	return domain.Score{
		ID:             id,
		Username:       in.Username,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		CompletedAt:    time.Unix(0, completedAt.UnixNano()).UTC(),
	}, nil
}

// TopScores returns every score when n is negative.
func (s *Store) TopScores(ctx context.Context, n int) ([]domain.Score, error) {
	limit := n
	if n < 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, score, total_questions, completed_at_unix FROM scores ORDER BY score DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	scores := make([]domain.Score, 0, max(n, 0))
	for rows.Next() {
		var (
			score       domain.Score
			completedAt int64
		)
		if err := rows.Scan(&score.ID, &score.Username, &score.Score, &score.TotalQuestions, &completedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		score.CompletedAt = time.Unix(0, completedAt).UTC()
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (domain.Question, error) {
	var (
		q           domain.Question
		optionsJSON string
		createdAt   int64
	)
	if err := row.Scan(&q.ID, &q.Text, &optionsJSON, &q.CorrectAnswer, &q.Category, &createdAt); err != nil {
		return domain.Question{}, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
	}
	q.CreatedAt = time.Unix(0, createdAt).UTC()
	return q, nil
}
