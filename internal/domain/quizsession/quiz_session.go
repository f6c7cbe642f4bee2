package quizsession

import (
	"math"
	"sort"
	"time"
)

// RevealMode controls when correctness feedback is shown.
type RevealMode string

const (
	RevealImmediately RevealMode = "go"  // after every answer
	RevealAtEnd       RevealMode = "end" // on the results page only
)

// ParseRevealMode falls back to RevealAtEnd for anything unknown.
func ParseRevealMode(s string) RevealMode {
	if RevealMode(s) == RevealImmediately {
		return RevealImmediately
	}
	return RevealAtEnd
}

// Params is the configuration snapshot persisted with a session (param_quiz).
type Params struct {
	Themes          []string   `json:"themes"`
	NumQuestions    int        `json:"num_questions"`
	ShowAnswers     RevealMode `json:"show_answers"`
	QuestionFilters []string   `json:"question_filters"`
	TotalQuestions  int        `json:"total_questions"`
}

// ThemeResult is one line of the per-theme breakdown stored on completion.
type ThemeResult struct {
	Theme   string `json:"theme"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// Session is one quiz attempt.
type Session struct {
	ID           int64
	Score        float64
	ThemeResults []ThemeResult
	Duration     *int // seconds between creation and completion
	Params       Params
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// New returns an unsaved session with a zero score.
func New(params Params) *Session {
	return &Session{
		Score:     0,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Session) Completed() bool {
	return s.CompletedAt != nil
}

// Answer is one row of the answer log.
type Answer struct {
	ID         int64
	SessionID  int64
	QuestionID int64
	UserAnswer int
	IsCorrect  bool
}

// Completion carries everything written when a session is finalized.
type Completion struct {
	Score        float64
	ThemeResults []ThemeResult
	Duration     int
	CompletedAt  time.Time
}

// Complete computes the completion record for a session from its answers.
// themeOf maps a question id to its theme; unknown ids are skipped in the
// breakdown but still count toward the score.
func Complete(s *Session, answers []Answer, themeOf func(int64) (string, bool), now time.Time) Completion {
	duration := int(now.Sub(s.CreatedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	return Completion{
		Score:        Score(answers),
		ThemeResults: ThemeBreakdown(answers, themeOf),
		Duration:     duration,
		CompletedAt:  now,
	}
}

// Score is the percentage of correct answers, 0 when there are none.
func Score(answers []Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	return 100 * float64(CountCorrect(answers)) / float64(len(answers))
}

func CountCorrect(answers []Answer) int {
	n := 0
	for _, a := range answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// RoundScore rounds a percentage to one decimal place.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// ThemeBreakdown groups answers by the theme of their question, sorted by theme.
func ThemeBreakdown(answers []Answer, themeOf func(int64) (string, bool)) []ThemeResult {
	byTheme := make(map[string]*ThemeResult)
	for _, a := range answers {
		theme, ok := themeOf(a.QuestionID)
		if !ok {
			continue
		}
		r, exists := byTheme[theme]
		if !exists {
			r = &ThemeResult{Theme: theme}
			byTheme[theme] = r
		}
		r.Total++
		if a.IsCorrect {
			r.Correct++
		}
	}

	results := make([]ThemeResult, 0, len(byTheme))
	for _, r := range byTheme {
		results = append(results, *r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Theme < results[j].Theme
	})
	return results
}
