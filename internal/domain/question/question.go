package question

import (
	"errors"
	"strings"
	"time"
)

// DefaultTheme is used when an imported question carries no theme.
const DefaultTheme = "General"

var (
	ErrEmptyText      = errors.New("question text cannot be empty")
	ErrNoOptions      = errors.New("question must have at least one option")
	ErrCorrectOutside = errors.New("correct index is outside the options range")
	ErrEmptyTheme     = errors.New("question theme cannot be empty")
)

// Question is a multiple-choice question. Options are index-addressed and
// Correct is the zero-based index of the right option.
type Question struct {
	ID          int64
	Text        string
	Options     []string
	Correct     int
	Explanation string
	Theme       string
	UpdatedAt   time.Time
}

// New builds a validated question. The ID is assigned by the store on insert.
func New(text string, options []string, correct int, explanation, theme string) (*Question, error) {
	q := &Question{
		Text:        strings.TrimSpace(text),
		Options:     options,
		Correct:     correct,
		Explanation: explanation,
		Theme:       strings.TrimSpace(theme),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Question) Validate() error {
	if q.Text == "" {
		return ErrEmptyText
	}
	if len(q.Options) == 0 {
		return ErrNoOptions
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ErrCorrectOutside
	}
	if q.Theme == "" {
		return ErrEmptyTheme
	}
	return nil
}

// IsCorrect reports whether answer is the index of the right option.
func (q *Question) IsCorrect(answer int) bool {
	return answer == q.Correct
}

// HasOption reports whether i addresses one of the options.
func (q *Question) HasOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// OptionText returns the option at i, or "" when i is out of range.
func (q *Question) OptionText(i int) string {
	if !q.HasOption(i) {
		return ""
	}
	return q.Options[i]
}

// History summarises every answer ever recorded for one question.
// A question with no recorded answer has no History entry at all.
type History struct {
	Correct   bool // answered correctly at least once
	Incorrect bool // answered incorrectly at least once
}
