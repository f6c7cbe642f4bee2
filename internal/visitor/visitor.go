// Package visitor stores the scratch state of a visitor's quiz between requests,
// keyed by the opaque token kept in the visitor's cookie.
package visitor

import (
	"context"
	"errors"

	"github.com/quizdeck/backend/internal/domain/progress"
)

var ErrNotFound = errors.New("no quiz in progress")

// Store keeps one Progress per visitor token.
type Store interface {
	Get(ctx context.Context, token string) (*progress.Progress, error)
	Save(ctx context.Context, p *progress.Progress) error
	Delete(ctx context.Context, token string) error
}
