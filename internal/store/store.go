package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("missing database dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an already-open connection, used by tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	CurrentWeight *float64
	CurrentHeight *float64
	GoalWeight    *float64
	CreatedAt     time.Time
}

type Feedback struct {
	ID         string
	UserID     string
	Text       string
	Rating     int
	AIResponse map[string]any
	CreatedAt  time.Time
}

type PromptLogEntry struct {
	ID        string
	Prompt    json.RawMessage
	Response  json.RawMessage
	CreatedAt time.Time
}

func (s *Store) CreateUser(ctx context.Context, u User) (string, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, email, password_hash, name, current_weight, current_height, goal_weight)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.CurrentWeight, u.CurrentHeight, u.GoalWeight)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT id, email, password_hash, name, current_weight, current_height, goal_weight, created_at
		FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT id, email, password_hash, name, current_weight, current_height, goal_weight, created_at
		FROM users WHERE email = $1`, email))
}

func (s *Store) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CurrentWeight, &u.CurrentHeight, &u.GoalWeight, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *Store) UpdateUserProfile(ctx context.Context, id string, name string, currentWeight, currentHeight, goalWeight *float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET name = $2, current_weight = $3, current_height = $4, goal_weight = $5 WHERE id = $1`,
		id, name, currentWeight, currentHeight, goalWeight)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) InsertFeedback(ctx context.Context, f Feedback) (string, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	responseJSON, _ := json.Marshal(f.AIResponse)
	_, err := s.db.ExecContext(ctx, `INSERT INTO feedback (id, user_id, text, rating, ai_response) VALUES ($1,$2,$3,$4,$5)`,
		f.ID, f.UserID, f.Text, f.Rating, responseJSON)
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

func (s *Store) ListFeedback(ctx context.Context, userID string, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, text, rating, ai_response, created_at
		FROM feedback WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var f Feedback
		var responseJSON []byte
		if err := rows.Scan(&f.ID, &f.UserID, &f.Text, &f.Rating, &responseJSON, &f.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(responseJSON, &f.AIResponse)
		out = append(out, f)
	}
	return out, rows.Err()
}

// AppendPromptLog records one (prompt, response) pair. Append-only; there
// is no update or delete path.
func (s *Store) AppendPromptLog(ctx context.Context, prompt, response json.RawMessage) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO prompt_log (id, prompt, response) VALUES ($1,$2,$3)`, id, []byte(prompt), []byte(response))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListPromptLog(ctx context.Context, limit int) ([]PromptLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, prompt, response, created_at FROM prompt_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PromptLogEntry
	for rows.Next() {
		var e PromptLogEntry
		var prompt, response []byte
		if err := rows.Scan(&e.ID, &prompt, &response, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Prompt = json.RawMessage(prompt)
		e.Response = json.RawMessage(response)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) HealthSummary(ctx context.Context) (map[string]string, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return nil, err
	}
	return map[string]string{"database": "ok"}, nil
}
