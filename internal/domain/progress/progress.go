// Package progress holds the transient state of a quiz being taken by one
// visitor. Nothing here is durable: the answers are buffered until the quiz
// is finalized and then flushed to the answer log in a single batch.
package progress

import (
	"errors"
	"time"

	"github.com/quizdeck/backend/internal/domain/quizsession"
)

var (
	ErrQuestionNotInQuiz  = errors.New("question is not part of this quiz")
	ErrNotCurrentQuestion = errors.New("question is not the current one")
)

type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// BufferedAnswer is an answer held in visitor state until completion.
type BufferedAnswer struct {
	UserAnswer int  `json:"user_answer"`
	IsCorrect  bool `json:"is_correct"`
}

// Progress is one visitor's quiz in progress. It is serialized as JSON by the
// redis-backed visitor store, hence the tags.
type Progress struct {
	Token       string                   `json:"token"`
	SessionID   int64                    `json:"session_id"`
	QuestionIDs []int64                  `json:"question_ids"`
	ShowAnswers quizsession.RevealMode   `json:"show_answers"`
	Answers     map[int64]BufferedAnswer `json:"answers"`
	StartedAt   time.Time                `json:"started_at"`
	ExpiresAt   time.Time                `json:"expires_at"`
}

// New starts progress for a freshly created session.
func New(token string, sessionID int64, questionIDs []int64, reveal quizsession.RevealMode, ttl time.Duration) *Progress {
	now := time.Now().UTC()
	return &Progress{
		Token:       token,
		SessionID:   sessionID,
		QuestionIDs: questionIDs,
		ShowAnswers: reveal,
		Answers:     make(map[int64]BufferedAnswer),
		StartedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func (p *Progress) Total() int {
	return len(p.QuestionIDs)
}

// AnsweredSoFar is the number of distinct questions answered.
func (p *Progress) AnsweredSoFar() int {
	return len(p.Answers)
}

func (p *Progress) State() State {
	if p.AnsweredSoFar() >= p.Total() {
		return StateCompleted
	}
	return StateInProgress
}

// CurrentQuestionID returns the question to show next, or false once completed.
func (p *Progress) CurrentQuestionID() (int64, bool) {
	if p.State() == StateCompleted {
		return 0, false
	}
	return p.QuestionIDs[p.AnsweredSoFar()], true
}

func (p *Progress) Contains(questionID int64) bool {
	for _, id := range p.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// Record buffers an answer. Only the current question or an already answered
// one may be answered; a second answer to a question replaces the first.
func (p *Progress) Record(questionID int64, userAnswer int, isCorrect bool) error {
	if !p.Contains(questionID) {
		return ErrQuestionNotInQuiz
	}
	if p.Answers == nil {
		p.Answers = make(map[int64]BufferedAnswer)
	}
	if _, answered := p.Answers[questionID]; !answered {
		if cur, ok := p.CurrentQuestionID(); !ok || cur != questionID {
			return ErrNotCurrentQuestion
		}
	}
	p.Answers[questionID] = BufferedAnswer{UserAnswer: userAnswer, IsCorrect: isCorrect}
	return nil
}

// Buffered returns the buffered answers as answer-log rows, in quiz order.
func (p *Progress) Buffered() []quizsession.Answer {
	answers := make([]quizsession.Answer, 0, len(p.Answers))
	for _, qid := range p.QuestionIDs {
		a, ok := p.Answers[qid]
		if !ok {
			continue
		}
		answers = append(answers, quizsession.Answer{
			SessionID:  p.SessionID,
			QuestionID: qid,
			UserAnswer: a.UserAnswer,
			IsCorrect:  a.IsCorrect,
		})
	}
	return answers
}

func (p *Progress) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// Touch pushes the expiry back by ttl.
func (p *Progress) Touch(ttl time.Duration) {
	p.ExpiresAt = time.Now().UTC().Add(ttl)
}
