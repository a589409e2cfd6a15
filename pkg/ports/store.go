package ports

import (
	"context"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

// StateStore persists navigation state keyed by session ID.
//
// Implementations must treat the stored state as a value: Load returns a copy
// the caller may mutate freely, and Save stores a copy of what it was given.
// Load and Delete return domain.ErrSessionNotFound (possibly wrapped) when
// the session has no stored state.
type StateStore interface {
	Save(ctx context.Context, sessionID string, state domain.State) error
	Load(ctx context.Context, sessionID string) (domain.State, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}
