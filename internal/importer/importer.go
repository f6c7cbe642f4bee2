// Package importer loads question records into the store.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quizdeck/backend/internal/store"
)

const progressEvery = 100

// ErrCancelled is returned when the user declines to replace existing questions.
var ErrCancelled = errors.New("import cancelled")

// ConfirmFunc is asked whether the existing questions may be replaced.
type ConfirmFunc func(existing int) bool

// Summary describes a finished import.
type Summary struct {
	Imported int
	Skipped  int
	Total    int      // questions in the store afterwards
	Themes   []string // distinct themes in the store afterwards
}

type Importer struct {
	store  store.Store
	logger *slog.Logger
}

func New(s store.Store, logger *slog.Logger) *Importer {
	return &Importer{store: s, logger: logger}
}

// Run imports the raw records read by ReadRecords. When the store already
// holds questions, confirm decides whether they are wiped first; a refusal
// returns ErrCancelled and leaves the store untouched. Records that do not
// decode or validate are logged and skipped.
func (im *Importer) Run(ctx context.Context, records []json.RawMessage, confirm ConfirmFunc) (*Summary, error) {
	existing, err := im.store.CountQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if existing > 0 {
		if confirm == nil || !confirm(existing) {
			return nil, ErrCancelled
		}
		if err := im.store.ResetQuestions(ctx); err != nil {
			return nil, fmt.Errorf("reset questions: %w", err)
		}
		im.logger.Info("existing questions removed", "count", existing)
	}

	sum := &Summary{}
	for i, raw := range records {
		line := i + 1
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := ParseRecord(raw)
		if err != nil {
			im.logger.Warn("skipping record", "record", line, "error", err)
			sum.Skipped++
			continue
		}
		q, err := rec.Question()
		if err != nil {
			im.logger.Warn("skipping record", "record", line, "error", err)
			sum.Skipped++
			continue
		}
		if err := im.store.SaveQuestion(ctx, q); err != nil {
			im.logger.Warn("skipping record", "record", line, "error", err)
			sum.Skipped++
			continue
		}
		sum.Imported++

		if line%progressEvery == 0 {
			im.logger.Info("import progress", "done", line, "total", len(records))
		}
	}

	if sum.Total, err = im.store.CountQuestions(ctx); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if sum.Themes, err = im.store.ListThemes(ctx); err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	return sum, nil
}
