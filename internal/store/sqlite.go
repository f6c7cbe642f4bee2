// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/domain/quizsession"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL,
    options TEXT NOT NULL,
    correct INTEGER NOT NULL,
    explanation TEXT,
    theme TEXT NOT NULL,
    updated_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_questions_theme ON questions(theme);

CREATE TABLE IF NOT EXISTS quiz_sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    score REAL NOT NULL DEFAULT 0,
    theme_results TEXT,
    duration INTEGER,
    param_quiz TEXT,
    created_at INTEGER NOT NULL,
    completed_at INTEGER
);

CREATE TABLE IF NOT EXISTS session_answers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    question_id INTEGER NOT NULL,
    user_answer INTEGER NOT NULL,
    is_correct BOOLEAN NOT NULL,
    FOREIGN KEY (session_id) REFERENCES quiz_sessions(id),
    FOREIGN KEY (question_id) REFERENCES questions(id)
);

CREATE INDEX IF NOT EXISTS idx_session_answers_session ON session_answers(session_id);
CREATE INDEX IF NOT EXISTS idx_session_answers_question ON session_answers(question_id);
`

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// Single connection: transactions and plain queries share it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Questions
// ============================================================================

const questionColumns = "id, text, options, correct, COALESCE(explanation, ''), theme, COALESCE(updated_at, 0)"

func scanQuestion(row interface{ Scan(...any) error }) (*question.Question, error) {
	var q question.Question
	var optionsJSON string
	var updatedAt int64
	if err := row.Scan(&q.ID, &q.Text, &optionsJSON, &q.Correct, &q.Explanation, &q.Theme, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return nil, err
	}
	if updatedAt > 0 {
		q.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	}
	return &q, nil
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&n)
	return n, err
}

// ListThemes returns the distinct themes, sorted.
func (s *SQLiteStore) ListThemes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT theme FROM questions ORDER BY theme")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var themes []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

func (s *SQLiteStore) ListQuestionsByThemes(ctx context.Context, themes []string) ([]question.Question, error) {
	if len(themes) == 0 {
		return nil, nil
	}
	args := make([]any, len(themes))
	for i, t := range themes {
		args[i] = t
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE theme IN ("+placeholders(len(themes))+") ORDER BY id",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id int64) (*question.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, "SELECT "+questionColumns+" FROM questions WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuestions loads the given questions keyed by id. Unknown ids are absent from the result.
func (s *SQLiteStore) GetQuestions(ctx context.Context, ids []int64) (map[int64]*question.Question, error) {
	result := make(map[int64]*question.Question, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE id IN ("+placeholders(len(ids))+")",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		result[q.ID] = q
	}
	return result, rows.Err()
}

// SaveQuestion inserts q and sets its ID.
func (s *SQLiteStore) SaveQuestion(ctx context.Context, q *question.Question) error {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO questions (text, options, correct, explanation, theme, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		q.Text, string(optionsJSON), q.Correct, q.Explanation, q.Theme, q.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = id
	return nil
}

// ResetQuestions empties the question store together with the answer history
// that references it.
func (s *SQLiteStore) ResetQuestions(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM session_answers",
		"DELETE FROM quiz_sessions",
		"DELETE FROM questions",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ============================================================================
// Sessions
// ============================================================================

const sessionColumns = "id, score, theme_results, duration, param_quiz, created_at, completed_at"

func scanSession(row interface{ Scan(...any) error }) (*quizsession.Session, error) {
	var sess quizsession.Session
	var themeResults, params sql.NullString
	var duration, completedAt sql.NullInt64
	var createdAt int64

	if err := row.Scan(&sess.ID, &sess.Score, &themeResults, &duration, &params, &createdAt, &completedAt); err != nil {
		return nil, err
	}

	if themeResults.Valid && themeResults.String != "" {
		if err := json.Unmarshal([]byte(themeResults.String), &sess.ThemeResults); err != nil {
			return nil, err
		}
	}
	if params.Valid && params.String != "" {
		if err := json.Unmarshal([]byte(params.String), &sess.Params); err != nil {
			return nil, err
		}
	}
	if duration.Valid {
		d := int(duration.Int64)
		sess.Duration = &d
	}
	sess.CreatedAt = time.UnixMilli(createdAt).UTC()
	if completedAt.Valid {
		t := time.UnixMilli(completedAt.Int64).UTC()
		sess.CompletedAt = &t
	}
	return &sess, nil
}

// CreateSession inserts sess and sets its ID.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *quizsession.Session) error {
	paramsJSON, err := json.Marshal(sess.Params)
	if err != nil {
		return err
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO quiz_sessions (score, param_quiz, created_at) VALUES (?, ?, ?)",
		sess.Score, string(paramsJSON), sess.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sess.ID = id
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id int64) (*quizsession.Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM quiz_sessions WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// ListRecentSessions returns up to limit sessions, highest id first.
func (s *SQLiteStore) ListRecentSessions(ctx context.Context, limit int) ([]*quizsession.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM quiz_sessions ORDER BY id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*quizsession.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) CountSessions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quiz_sessions").Scan(&n)
	return n, err
}

// CompleteSession writes the answer log rows and the final score of a session
// in one transaction. A session can only be completed once.
func (s *SQLiteStore) CompleteSession(ctx context.Context, id int64, answers []quizsession.Answer, c quizsession.Completion) error {
	themeJSON, err := json.Marshal(c.ThemeResults)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var completedAt sql.NullInt64
	err = tx.QueryRowContext(ctx, "SELECT completed_at FROM quiz_sessions WHERE id = ?", id).Scan(&completedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if completedAt.Valid {
		return ErrAlreadyCompleted
	}

	for _, a := range answers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO session_answers (session_id, question_id, user_answer, is_correct) VALUES (?, ?, ?, ?)",
			id, a.QuestionID, a.UserAnswer, a.IsCorrect,
		)
		if err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE quiz_sessions SET score = ?, theme_results = ?, duration = ?, completed_at = ? WHERE id = ? AND completed_at IS NULL",
		c.Score, string(themeJSON), c.Duration, c.CompletedAt.UnixMilli(), id,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAlreadyCompleted
	}

	return tx.Commit()
}

// ============================================================================
// Answers
// ============================================================================

func (s *SQLiteStore) queryAnswers(ctx context.Context, query string, args ...any) ([]quizsession.Answer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []quizsession.Answer
	for rows.Next() {
		var a quizsession.Answer
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.UserAnswer, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *SQLiteStore) ListSessionAnswers(ctx context.Context, sessionID int64) ([]quizsession.Answer, error) {
	return s.queryAnswers(ctx,
		"SELECT id, session_id, question_id, user_answer, is_correct FROM session_answers WHERE session_id = ? ORDER BY id",
		sessionID,
	)
}

func (s *SQLiteStore) ListAnswers(ctx context.Context) ([]quizsession.Answer, error) {
	return s.queryAnswers(ctx,
		"SELECT id, session_id, question_id, user_answer, is_correct FROM session_answers ORDER BY id",
	)
}

// AnswerHistory folds the whole answer log into one History per answered question.
func (s *SQLiteStore) AnswerHistory(ctx context.Context) (map[int64]question.History, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, MAX(is_correct), MIN(is_correct)
		FROM session_answers
		GROUP BY question_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make(map[int64]question.History)
	for rows.Next() {
		var qid int64
		var anyCorrect, allCorrect bool
		if err := rows.Scan(&qid, &anyCorrect, &allCorrect); err != nil {
			return nil, err
		}
		history[qid] = question.History{Correct: anyCorrect, Incorrect: !allCorrect}
	}
	return history, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
