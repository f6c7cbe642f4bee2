package stats

import (
	"sort"
	"time"

	"github.com/quizdeck/backend/internal/domain/question"
	"github.com/quizdeck/backend/internal/domain/quizsession"
)

// HistoryLimit is the number of sessions shown in the dashboard history.
const HistoryLimit = 10

// ThemeStats aggregates the latest answer of every question of one theme.
type ThemeStats struct {
	Name       string  `json:"name"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SessionSummary is one line of the session history. Its counts are the
// session's own answers, not deduplicated across sessions.
type SessionSummary struct {
	SessionID int64     `json:"session_id"`
	Score     float64   `json:"score"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Date formats the creation time the way the dashboard shows it.
func (s SessionSummary) Date() string {
	if s.CreatedAt.IsZero() {
		return "N/A"
	}
	return s.CreatedAt.Format("02/01/2006 15:04")
}

// Dashboard is the full set of aggregates shown on the dashboard.
type Dashboard struct {
	OverallScore          float64          `json:"overall_score"`
	TotalAnswers          int              `json:"total_answers"`
	CorrectAnswers        int              `json:"correct_answers"`
	IncorrectAnswers      int              `json:"incorrect_answers"`
	ProgressionPercentage float64          `json:"progression_percentage"`
	TotalQuestionsInDB    int              `json:"total_questions_in_db"`
	ThemeStats            []ThemeStats     `json:"theme_stats"`
	SessionHistory        []SessionSummary `json:"session_history"`
	TotalSessions         int              `json:"total_sessions"`
}

// Input is everything Build needs, loaded by the caller from the store.
type Input struct {
	Answers        []quizsession.Answer         // the whole answer log
	Questions      map[int64]*question.Question // at least every answered question
	TotalQuestions int                          // size of the question store
	RecentSessions []*quizsession.Session       // most recent first
	TotalSessions  int
}

// LatestByQuestion keeps, for every question, the answer with the highest id.
func LatestByQuestion(answers []quizsession.Answer) map[int64]quizsession.Answer {
	latest := make(map[int64]quizsession.Answer)
	for _, a := range answers {
		if cur, ok := latest[a.QuestionID]; !ok || a.ID > cur.ID {
			latest[a.QuestionID] = a
		}
	}
	return latest
}

// Build computes the dashboard aggregates.
func Build(in Input) *Dashboard {
	latest := LatestByQuestion(in.Answers)

	d := &Dashboard{
		TotalAnswers:       len(latest),
		TotalQuestionsInDB: in.TotalQuestions,
		TotalSessions:      in.TotalSessions,
	}

	themes := make(map[string]*ThemeStats)
	for qid, a := range latest {
		if a.IsCorrect {
			d.CorrectAnswers++
		}
		q, ok := in.Questions[qid]
		if !ok {
			continue
		}
		ts, exists := themes[q.Theme]
		if !exists {
			ts = &ThemeStats{Name: q.Theme}
			themes[q.Theme] = ts
		}
		ts.Total++
		if a.IsCorrect {
			ts.Correct++
		}
	}
	d.IncorrectAnswers = d.TotalAnswers - d.CorrectAnswers
	d.OverallScore = percentage(d.CorrectAnswers, d.TotalAnswers)
	d.ProgressionPercentage = percentage(d.TotalAnswers, in.TotalQuestions)

	d.ThemeStats = make([]ThemeStats, 0, len(themes))
	for _, ts := range themes {
		ts.Percentage = percentage(ts.Correct, ts.Total)
		d.ThemeStats = append(d.ThemeStats, *ts)
	}
	sort.Slice(d.ThemeStats, func(i, j int) bool {
		return d.ThemeStats[i].Name < d.ThemeStats[j].Name
	})

	d.SessionHistory = sessionHistory(in.RecentSessions, in.Answers)
	return d
}

func sessionHistory(sessions []*quizsession.Session, answers []quizsession.Answer) []SessionSummary {
	type counts struct{ correct, total int }
	bySession := make(map[int64]*counts)
	for _, a := range answers {
		c, ok := bySession[a.SessionID]
		if !ok {
			c = &counts{}
			bySession[a.SessionID] = c
		}
		c.total++
		if a.IsCorrect {
			c.correct++
		}
	}

	recent := make([]*quizsession.Session, len(sessions))
	copy(recent, sessions)
	sort.Slice(recent, func(i, j int) bool { return recent[i].ID > recent[j].ID })
	if len(recent) > HistoryLimit {
		recent = recent[:HistoryLimit]
	}

	history := make([]SessionSummary, 0, len(recent))
	for _, s := range recent {
		summary := SessionSummary{
			SessionID: s.ID,
			Score:     quizsession.RoundScore(s.Score),
			CreatedAt: s.CreatedAt,
		}
		if c, ok := bySession[s.ID]; ok {
			summary.Correct = c.correct
			summary.Total = c.total
		}
		history = append(history, summary)
	}
	return history
}

func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return quizsession.RoundScore(float64(part) / float64(whole) * 100)
}
