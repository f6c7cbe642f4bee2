package selection

import (
	"errors"
	"fmt"
)

// Filter is a predicate over a question's global answer history.
type Filter string

const (
	FilterNew       Filter = "new"       // never answered
	FilterAnswered  Filter = "answered"  // answered correctly at least once
	FilterIncorrect Filter = "incorrect" // answered incorrectly at least once
)

var (
	ErrInvalidConfig       = errors.New("invalid quiz configuration")
	ErrNoEligibleQuestions = errors.New("no questions available for these themes and filters")
)

// DefaultFilters returns every filter tag.
func DefaultFilters() []Filter {
	return []Filter{FilterNew, FilterAnswered, FilterIncorrect}
}

// ParseFilters converts raw tags. A nil slice means "not specified" and yields
// the defaults; an empty non-nil slice stays empty and fails validation later.
func ParseFilters(raw []string) ([]Filter, error) {
	if raw == nil {
		return DefaultFilters(), nil
	}
	filters := make([]Filter, 0, len(raw))
	for _, r := range raw {
		f := Filter(r)
		switch f {
		case FilterNew, FilterAnswered, FilterIncorrect:
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("%w: unknown question filter %q", ErrInvalidConfig, r)
		}
	}
	return filters, nil
}

// Config holds the constraints for one selection.
type Config struct {
	Themes  []string
	Count   int
	Filters []Filter
}

func (c Config) Validate() error {
	if len(c.Themes) == 0 {
		return fmt.Errorf("%w: at least one theme is required", ErrInvalidConfig)
	}
	if c.Count <= 0 {
		return fmt.Errorf("%w: num_questions must be positive", ErrInvalidConfig)
	}
	if len(c.Filters) == 0 {
		return fmt.Errorf("%w: at least one question filter is required", ErrInvalidConfig)
	}
	return nil
}

// FilterStrings returns the filters as plain strings, in order.
func FilterStrings(filters []Filter) []string {
	out := make([]string, len(filters))
	for i, f := range filters {
		out[i] = string(f)
	}
	return out
}
