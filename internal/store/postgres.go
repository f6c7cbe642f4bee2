package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/domain/quizsession"
)

type questionModel struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	Text        string         `gorm:"type:text;not null"`
	Options     datatypes.JSON `gorm:"type:jsonb;not null"`
	Correct     int            `gorm:"not null"`
	Explanation string         `gorm:"type:text"`
	Theme       string         `gorm:"size:100;not null;index"`
	UpdatedAt   time.Time
}

func (questionModel) TableName() string { return "questions" }

type sessionModel struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	Score        float64        `gorm:"not null;default:0"`
	ThemeResults datatypes.JSON `gorm:"type:jsonb"`
	Duration     *int
	ParamQuiz    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"not null"`
	CompletedAt  *time.Time
}

func (sessionModel) TableName() string { return "quiz_sessions" }

type answerModel struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	SessionID  int64 `gorm:"not null;index"`
	QuestionID int64 `gorm:"not null;index"`
	UserAnswer int   `gorm:"not null"`
	IsCorrect  bool  `gorm:"not null"`
}

func (answerModel) TableName() string { return "session_answers" }

// PostgresStore is the gorm-backed Store used when DB_DRIVER=postgres.
type PostgresStore struct {
	db *gorm.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&questionModel{}, &sessionModel{}, &answerModel{}); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ── conversions ─────────────────────────────────────────────────────────────

func (m *questionModel) toDomain() (*question.Question, error) {
	q := &question.Question{
		ID:          m.ID,
		Text:        m.Text,
		Correct:     m.Correct,
		Explanation: m.Explanation,
		Theme:       m.Theme,
		UpdatedAt:   m.UpdatedAt,
	}
	if err := json.Unmarshal(m.Options, &q.Options); err != nil {
		return nil, err
	}
	return q, nil
}

func (m *sessionModel) toDomain() (*quizsession.Session, error) {
	s := &quizsession.Session{
		ID:          m.ID,
		Score:       m.Score,
		Duration:    m.Duration,
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
	if len(m.ThemeResults) > 0 {
		if err := json.Unmarshal(m.ThemeResults, &s.ThemeResults); err != nil {
			return nil, err
		}
	}
	if len(m.ParamQuiz) > 0 {
		if err := json.Unmarshal(m.ParamQuiz, &s.Params); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (m answerModel) toDomain() quizsession.Answer {
	return quizsession.Answer{
		ID:         m.ID,
		SessionID:  m.SessionID,
		QuestionID: m.QuestionID,
		UserAnswer: m.UserAnswer,
		IsCorrect:  m.IsCorrect,
	}
}

// ── Questions ───────────────────────────────────────────────────────────────

func (p *PostgresStore) CountQuestions(ctx context.Context) (int, error) {
	var n int64
	err := p.db.WithContext(ctx).Model(&questionModel{}).Count(&n).Error
	return int(n), err
}

func (p *PostgresStore) ListThemes(ctx context.Context) ([]string, error) {
	var themes []string
	err := p.db.WithContext(ctx).Model(&questionModel{}).
		Distinct("theme").Order("theme").Pluck("theme", &themes).Error
	return themes, err
}

func (p *PostgresStore) ListQuestionsByThemes(ctx context.Context, themes []string) ([]question.Question, error) {
	if len(themes) == 0 {
		return nil, nil
	}
	var models []questionModel
	if err := p.db.WithContext(ctx).Where("theme IN ?", themes).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	questions := make([]question.Question, 0, len(models))
	for i := range models {
		q, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

func (p *PostgresStore) GetQuestion(ctx context.Context, id int64) (*question.Question, error) {
	var m questionModel
	if err := p.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m.toDomain()
}

func (p *PostgresStore) GetQuestions(ctx context.Context, ids []int64) (map[int64]*question.Question, error) {
	result := make(map[int64]*question.Question, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var models []questionModel
	if err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	for i := range models {
		q, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		result[q.ID] = q
	}
	return result, nil
}

func (p *PostgresStore) SaveQuestion(ctx context.Context, q *question.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	m := questionModel{
		Text:        q.Text,
		Options:     datatypes.JSON(options),
		Correct:     q.Correct,
		Explanation: q.Explanation,
		Theme:       q.Theme,
		UpdatedAt:   q.UpdatedAt,
	}
	if err := p.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	q.ID = m.ID
	q.UpdatedAt = m.UpdatedAt
	return nil
}

func (p *PostgresStore) ResetQuestions(ctx context.Context) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&answerModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&sessionModel{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&questionModel{}).Error
	})
}

// ── Sessions ────────────────────────────────────────────────────────────────

func (p *PostgresStore) CreateSession(ctx context.Context, s *quizsession.Session) error {
	params, err := json.Marshal(s.Params)
	if err != nil {
		return err
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m := sessionModel{
		Score:     s.Score,
		ParamQuiz: datatypes.JSON(params),
		CreatedAt: s.CreatedAt,
	}
	if err := p.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	return nil
}

func (p *PostgresStore) GetSession(ctx context.Context, id int64) (*quizsession.Session, error) {
	var m sessionModel
	if err := p.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m.toDomain()
}

func (p *PostgresStore) ListRecentSessions(ctx context.Context, limit int) ([]*quizsession.Session, error) {
	var models []sessionModel
	if err := p.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*quizsession.Session, 0, len(models))
	for i := range models {
		s, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (p *PostgresStore) CountSessions(ctx context.Context) (int, error) {
	var n int64
	err := p.db.WithContext(ctx).Model(&sessionModel{}).Count(&n).Error
	return int(n), err
}

// CompleteSession locks the session row, so two concurrent completions
// cannot both insert answers.
func (p *PostgresStore) CompleteSession(ctx context.Context, id int64, answers []quizsession.Answer, c quizsession.Completion) error {
	themeResults, err := json.Marshal(c.ThemeResults)
	if err != nil {
		return err
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m sessionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if m.CompletedAt != nil {
			return ErrAlreadyCompleted
		}

		if len(answers) > 0 {
			rows := make([]answerModel, len(answers))
			for i, a := range answers {
				rows[i] = answerModel{
					SessionID:  id,
					QuestionID: a.QuestionID,
					UserAnswer: a.UserAnswer,
					IsCorrect:  a.IsCorrect,
				}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		return tx.Model(&sessionModel{}).Where("id = ?", id).Updates(map[string]any{
			"score":         c.Score,
			"theme_results": datatypes.JSON(themeResults),
			"duration":      c.Duration,
			"completed_at":  c.CompletedAt,
		}).Error
	})
}

// ── Answers ─────────────────────────────────────────────────────────────────

func (p *PostgresStore) ListSessionAnswers(ctx context.Context, sessionID int64) ([]quizsession.Answer, error) {
	var models []answerModel
	if err := p.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return answersToDomain(models), nil
}

func (p *PostgresStore) ListAnswers(ctx context.Context) ([]quizsession.Answer, error) {
	var models []answerModel
	if err := p.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return answersToDomain(models), nil
}

func (p *PostgresStore) AnswerHistory(ctx context.Context) (map[int64]question.History, error) {
	var rows []struct {
		QuestionID   int64
		AnyCorrect   bool
		AnyIncorrect bool
	}
	err := p.db.WithContext(ctx).Model(&answerModel{}).
		Select("question_id, bool_or(is_correct) AS any_correct, bool_or(NOT is_correct) AS any_incorrect").
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	history := make(map[int64]question.History, len(rows))
	for _, r := range rows {
		history[r.QuestionID] = question.History{Correct: r.AnyCorrect, Incorrect: r.AnyIncorrect}
	}
	return history, nil
}

func answersToDomain(models []answerModel) []quizsession.Answer {
	answers := make([]quizsession.Answer, len(models))
	for i, m := range models {
		answers[i] = m.toDomain()
	}
	return answers
}
