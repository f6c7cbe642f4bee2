package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/domain/quizsession"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("session already completed")
)

// Store is the durable storage used by the quiz service and the importer.
// SQLiteStore and PostgresStore both implement it.
type Store interface {
	// Questions
	CountQuestions(ctx context.Context) (int, error)
	ListThemes(ctx context.Context) ([]string, error)
	ListQuestionsByThemes(ctx context.Context, themes []string) ([]question.Question, error)
	GetQuestion(ctx context.Context, id int64) (*question.Question, error)
	GetQuestions(ctx context.Context, ids []int64) (map[int64]*question.Question, error)
	SaveQuestion(ctx context.Context, q *question.Question) error
	ResetQuestions(ctx context.Context) error

	// Sessions
	CreateSession(ctx context.Context, s *quizsession.Session) error
	GetSession(ctx context.Context, id int64) (*quizsession.Session, error)
	ListRecentSessions(ctx context.Context, limit int) ([]*quizsession.Session, error)
	CountSessions(ctx context.Context) (int, error)
	CompleteSession(ctx context.Context, id int64, answers []quizsession.Answer, c quizsession.Completion) error

	// Answers
	ListSessionAnswers(ctx context.Context, sessionID int64) ([]quizsession.Answer, error)
	ListAnswers(ctx context.Context) ([]quizsession.Answer, error)
	AnswerHistory(ctx context.Context) (map[int64]question.History, error)

	Close() error
}

// Open returns the store for driver: "sqlite" opens sqlitePath, "postgres"
// connects to postgresDSN.
func Open(driver, sqlitePath, postgresDSN string) (Store, error) {
	switch driver {
	case "sqlite":
		s, err := NewSQLite(sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return s, nil
	case "postgres":
		s, err := NewPostgres(postgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
