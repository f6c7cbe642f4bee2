// internal/service/quiz.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizdeck/backend/internal/domain/progress"
	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/domain/quizsession"
	"github.com/quizdeck/backend/internal/domain/selection"
	"github.com/quizdeck/backend/internal/domain/stats"
	"github.com/quizdeck/backend/internal/store"
	"github.com/quizdeck/backend/internal/visitor"
)

var (
	ErrNoActiveQuiz  = errors.New("no quiz in progress for this session")
	ErrInvalidAnswer = errors.New("answer is not one of the question's options")
)

// Config is a quiz configuration as submitted by the visitor.
// A nil QuestionFilters means "not specified" and selects every filter.
type Config struct {
	Themes          []string
	NumQuestions    int
	ShowAnswers     string
	QuestionFilters []string
}

// CurrentQuestion is what the quiz page shows.
type CurrentQuestion struct {
	SessionID   int64
	Question    *question.Question
	Number      int // 1-based
	Total       int
	ShowAnswers quizsession.RevealMode
}

// Feedback is returned for every submitted answer.
type Feedback struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer int    `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	Completed     bool   `json:"completed"`
}

// ResultLine is one answered question on the results page.
type ResultLine struct {
	QuestionID    int64  `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
	Theme         string `json:"theme"`
}

// Results of a completed session, always rebuilt from the answer log.
type Results struct {
	SessionID    int64                     `json:"session_id"`
	Score        float64                   `json:"score"`
	CorrectCount int                       `json:"correct_count"`
	TotalCount   int                       `json:"total_count"`
	Results      []ResultLine              `json:"results"`
	ThemeResults []quizsession.ThemeResult `json:"theme_results"`
	Duration     *int                      `json:"duration,omitempty"`
	Params       quizsession.Params        `json:"params"`
}

// QuizService runs quizzes: selection, progression and finalization.
// Durable state goes through store; per-visitor scratch state through visitors.
type QuizService struct {
	store    store.Store
	visitors visitor.Store
	logger   *slog.Logger
	ttl      time.Duration
}

// NewQuizService creates a QuizService. ttl bounds how long an untouched quiz
// stays resumable.
func NewQuizService(s store.Store, v visitor.Store, logger *slog.Logger, ttl time.Duration) *QuizService {
	return &QuizService{
		store:    s,
		visitors: v,
		logger:   logger,
		ttl:      ttl,
	}
}

// Themes lists the themes available for a quiz.
func (qs *QuizService) Themes(ctx context.Context) ([]string, error) {
	return qs.store.ListThemes(ctx)
}

// CountQuestions returns the size of the question bank.
func (qs *QuizService) CountQuestions(ctx context.Context) (int, error) {
	return qs.store.CountQuestions(ctx)
}

// CountEligible returns how many questions a quiz with these themes and
// filters could draw from. No themes means no questions.
func (qs *QuizService) CountEligible(ctx context.Context, themes []string, filters []string) (int, error) {
	if len(themes) == 0 {
		return 0, nil
	}
	fs, err := selection.ParseFilters(filters)
	if err != nil {
		return 0, err
	}

	candidates, history, err := qs.loadCandidates(ctx, themes)
	if err != nil {
		return 0, err
	}
	return len(selection.Eligible(candidates, history, themes, fs)), nil
}

// StartQuiz selects the questions, creates the session record and stores the
// visitor's progress. Any quiz the visitor had in progress is replaced.
func (qs *QuizService) StartQuiz(ctx context.Context, token string, cfg Config) (*quizsession.Session, error) {
	filters, err := selection.ParseFilters(cfg.QuestionFilters)
	if err != nil {
		return nil, err
	}
	selCfg := selection.Config{
		Themes:  cfg.Themes,
		Count:   cfg.NumQuestions,
		Filters: filters,
	}
	if err := selCfg.Validate(); err != nil {
		return nil, err
	}

	candidates, history, err := qs.loadCandidates(ctx, cfg.Themes)
	if err != nil {
		return nil, err
	}
	picked, err := selection.Select(candidates, history, selCfg)
	if err != nil {
		return nil, err
	}

	reveal := quizsession.ParseRevealMode(cfg.ShowAnswers)
	sess := quizsession.New(quizsession.Params{
		Themes:          cfg.Themes,
		NumQuestions:    cfg.NumQuestions,
		ShowAnswers:     reveal,
		QuestionFilters: selection.FilterStrings(filters),
		TotalQuestions:  len(picked),
	})
	if err := qs.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	p := progress.New(token, sess.ID, selection.IDs(picked), reveal, qs.ttl)
	if err := qs.visitors.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	qs.logger.Info("quiz started",
		"session_id", sess.ID,
		"themes", cfg.Themes,
		"questions", len(picked),
	)
	return sess, nil
}

// Current returns the question the visitor has to answer next. done is true
// once every question is answered or the session is already completed.
func (qs *QuizService) Current(ctx context.Context, token string, sessionID int64) (cur *CurrentQuestion, done bool, err error) {
	sess, err := qs.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if sess.Completed() {
		return nil, true, nil
	}

	p, err := qs.activeProgress(ctx, token, sessionID)
	if err != nil {
		return nil, false, err
	}

	qid, ok := p.CurrentQuestionID()
	if !ok {
		return nil, true, nil
	}
	q, err := qs.store.GetQuestion(ctx, qid)
	if err != nil {
		return nil, false, err
	}

	return &CurrentQuestion{
		SessionID:   sessionID,
		Question:    q,
		Number:      p.AnsweredSoFar() + 1,
		Total:       p.Total(),
		ShowAnswers: p.ShowAnswers,
	}, false, nil
}

// SubmitAnswer checks and buffers one answer. Nothing is written to the
// answer log until the quiz is finalized.
func (qs *QuizService) SubmitAnswer(ctx context.Context, token string, sessionID, questionID int64, answer int) (*Feedback, error) {
	if _, err := qs.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	p, err := qs.activeProgress(ctx, token, sessionID)
	if err != nil {
		return nil, err
	}
	if !p.Contains(questionID) {
		return nil, progress.ErrQuestionNotInQuiz
	}

	q, err := qs.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !q.HasOption(answer) {
		return nil, ErrInvalidAnswer
	}

	isCorrect := q.IsCorrect(answer)
	if err := p.Record(questionID, answer, isCorrect); err != nil {
		return nil, err
	}
	p.Touch(qs.ttl)
	if err := qs.visitors.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	return &Feedback{
		IsCorrect:     isCorrect,
		CorrectAnswer: q.Correct,
		Explanation:   q.Explanation,
		Completed:     p.State() == progress.StateCompleted,
	}, nil
}

// Results finalizes the session on first visit, flushing the visitor's
// buffered answers, then reads the results back from the answer log.
// Later visits find the session completed and only read.
func (qs *QuizService) Results(ctx context.Context, token string, sessionID int64) (*Results, error) {
	sess, err := qs.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.Completed() {
		p, err := qs.activeProgress(ctx, token, sessionID)
		switch {
		case err == nil:
			if err := qs.finalize(ctx, sess, p); err != nil {
				return nil, err
			}
			if sess, err = qs.store.GetSession(ctx, sessionID); err != nil {
				return nil, err
			}
		case errors.Is(err, ErrNoActiveQuiz):
			// Another visitor's quiz, or an expired one: show what is persisted.
		default:
			return nil, err
		}
	}

	answers, err := qs.store.ListSessionAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	questions, err := qs.store.GetQuestions(ctx, answerQuestionIDs(answers))
	if err != nil {
		return nil, err
	}

	res := &Results{
		SessionID:    sessionID,
		Score:        quizsession.RoundScore(quizsession.Score(answers)),
		CorrectCount: quizsession.CountCorrect(answers),
		TotalCount:   len(answers),
		Results:      make([]ResultLine, 0, len(answers)),
		ThemeResults: sess.ThemeResults,
		Duration:     sess.Duration,
		Params:       sess.Params,
	}
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		res.Results = append(res.Results, ResultLine{
			QuestionID:    q.ID,
			Question:      q.Text,
			UserAnswer:    q.OptionText(a.UserAnswer),
			CorrectAnswer: q.OptionText(q.Correct),
			IsCorrect:     a.IsCorrect,
			Explanation:   q.Explanation,
			Theme:         q.Theme,
		})
	}
	return res, nil
}

// Dashboard computes the global statistics over the whole answer log.
func (qs *QuizService) Dashboard(ctx context.Context) (*stats.Dashboard, error) {
	answers, err := qs.store.ListAnswers(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := qs.store.GetQuestions(ctx, answerQuestionIDs(answers))
	if err != nil {
		return nil, err
	}
	totalQuestions, err := qs.store.CountQuestions(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := qs.store.ListRecentSessions(ctx, stats.HistoryLimit)
	if err != nil {
		return nil, err
	}
	totalSessions, err := qs.store.CountSessions(ctx)
	if err != nil {
		return nil, err
	}

	return stats.Build(stats.Input{
		Answers:        answers,
		Questions:      questions,
		TotalQuestions: totalQuestions,
		RecentSessions: recent,
		TotalSessions:  totalSessions,
	}), nil
}

// finalize persists the buffered answers and the score, then drops the
// visitor's progress. A concurrent finalization of the same session is a no-op.
func (qs *QuizService) finalize(ctx context.Context, sess *quizsession.Session, p *progress.Progress) error {
	answers := p.Buffered()
	questions, err := qs.store.GetQuestions(ctx, answerQuestionIDs(answers))
	if err != nil {
		return err
	}
	themeOf := func(id int64) (string, bool) {
		q, ok := questions[id]
		if !ok {
			return "", false
		}
		return q.Theme, true
	}

	completion := quizsession.Complete(sess, answers, themeOf, time.Now().UTC())
	err = qs.store.CompleteSession(ctx, sess.ID, answers, completion)
	switch {
	case errors.Is(err, store.ErrAlreadyCompleted):
		qs.logger.Warn("session already completed, skipping answer flush", "session_id", sess.ID)
	case err != nil:
		return fmt.Errorf("complete session: %w", err)
	default:
		qs.logger.Info("quiz completed",
			"session_id", sess.ID,
			"answers", len(answers),
			"score", quizsession.RoundScore(completion.Score),
		)
	}

	if err := qs.visitors.Delete(ctx, p.Token); err != nil {
		qs.logger.Error("failed to clear quiz progress", "session_id", sess.ID, "error", err)
	}
	return nil
}

// activeProgress returns the visitor's progress if it belongs to sessionID.
func (qs *QuizService) activeProgress(ctx context.Context, token string, sessionID int64) (*progress.Progress, error) {
	if token == "" {
		return nil, ErrNoActiveQuiz
	}
	p, err := qs.visitors.Get(ctx, token)
	if errors.Is(err, visitor.ErrNotFound) {
		return nil, ErrNoActiveQuiz
	}
	if err != nil {
		return nil, err
	}
	if p.SessionID != sessionID {
		return nil, ErrNoActiveQuiz
	}
	return p, nil
}

func (qs *QuizService) loadCandidates(ctx context.Context, themes []string) ([]question.Question, map[int64]question.History, error) {
	candidates, err := qs.store.ListQuestionsByThemes(ctx, themes)
	if err != nil {
		return nil, nil, err
	}
	history, err := qs.store.AnswerHistory(ctx)
	if err != nil {
		return nil, nil, err
	}
	return candidates, history, nil
}

func answerQuestionIDs(answers []quizsession.Answer) []int64 {
	seen := make(map[int64]struct{}, len(answers))
	ids := make([]int64, 0, len(answers))
	for _, a := range answers {
		if _, ok := seen[a.QuestionID]; ok {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		ids = append(ids, a.QuestionID)
	}
	return ids
}
