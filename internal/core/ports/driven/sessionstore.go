package driven

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// SessionStore persists review sessions so a document can be resumed.
type SessionStore interface {
	// SaveSnapshot stores or replaces the snapshot for snap.DocumentID.
	SaveSnapshot(ctx context.Context, snap *domain.SessionSnapshot) error

	// LoadSnapshot retrieves a snapshot.
	// Returns domain.ErrNotFound if none exists.
	LoadSnapshot(ctx context.Context, documentID string) (*domain.SessionSnapshot, error)

	// DeleteSnapshot removes a snapshot. Deleting a missing snapshot is not an error.
	DeleteSnapshot(ctx context.Context, documentID string) error
}
