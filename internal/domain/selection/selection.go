package selection

import (
	"math/rand"

	"github.com/quizdeck/backend/internal/domain/question"
)

// Matches reports whether a question satisfies filter given its history.
// known is false when the question has never been answered.
func Matches(h question.History, known bool, filter Filter) bool {
	switch filter {
	case FilterNew:
		return !known
	case FilterAnswered:
		return known && h.Correct
	case FilterIncorrect:
		return known && h.Incorrect
	}
	return false
}

// Eligible returns the candidates whose theme is in themes and which match at
// least one of filters. Each question appears once, whatever number of filters it matches.
func Eligible(candidates []question.Question, history map[int64]question.History, themes []string, filters []Filter) []question.Question {
	themeSet := make(map[string]struct{}, len(themes))
	for _, t := range themes {
		themeSet[t] = struct{}{}
	}

	pool := make([]question.Question, 0, len(candidates))
	for _, q := range candidates {
		if _, ok := themeSet[q.Theme]; ok {
			pool = append(pool, q)
		}
	}

	seen := make(map[int64]struct{}, len(pool))
	var eligible []question.Question
	for _, f := range filters {
		for _, q := range pool {
			if _, dup := seen[q.ID]; dup {
				continue
			}
			h, known := history[q.ID]
			if Matches(h, known, f) {
				seen[q.ID] = struct{}{}
				eligible = append(eligible, q)
			}
		}
	}
	return eligible
}

// Pick shuffles the questions and keeps at most count of them.
func Pick(questions []question.Question, count int) []question.Question {
	picked := shuffleQuestions(questions)
	if count >= 0 && count < len(picked) {
		picked = picked[:count]
	}
	return picked
}

// Select runs the whole selection: validation, eligibility, shuffle and limit.
func Select(candidates []question.Question, history map[int64]question.History, cfg Config) ([]question.Question, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eligible := Eligible(candidates, history, cfg.Themes, cfg.Filters)
	if len(eligible) == 0 {
		return nil, ErrNoEligibleQuestions
	}
	return Pick(eligible, cfg.Count), nil
}

// IDs extracts the question ids, preserving order.
func IDs(questions []question.Question) []int64 {
	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

// shuffleQuestions returns a new slice with questions in random order.
func shuffleQuestions(questions []question.Question) []question.Question {
	shuffled := make([]question.Question, len(questions))
	copy(shuffled, questions)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
