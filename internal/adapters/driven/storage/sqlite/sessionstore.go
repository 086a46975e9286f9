package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/wire"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// SaveSnapshot replaces the stored session for snap.DocumentID.
// Pages and corrections are rewritten in one transaction.
func (s *sessionStore) SaveSnapshot(ctx context.Context, snap *domain.SessionSnapshot) error {
	if snap == nil || snap.DocumentID == "" {
		return domain.ErrInvalidInput
	}

	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (document_id, page_count, current_page, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			page_count = excluded.page_count,
			current_page = excluded.current_page,
			updated_at = excluded.updated_at
	`, snap.DocumentID, snap.PageCount, snap.CurrentPage, updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM session_pages WHERE document_id = ?", snap.DocumentID); err != nil {
		return fmt.Errorf("clearing pages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM session_corrections WHERE document_id = ?", snap.DocumentID); err != nil {
		return fmt.Errorf("clearing corrections: %w", err)
	}

	for page, blocks := range snap.Edited {
		data, err := wire.EncodeCompact(blocks)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO session_pages (document_id, page_index, blocks) VALUES (?, ?, ?)",
			snap.DocumentID, page, string(data)); err != nil {
			return fmt.Errorf("saving page %d: %w", page, err)
		}
	}

	for page, ids := range snap.Corrections {
		if ids == nil {
			ids = []string{}
		}
		data, err := json.Marshal(ids)
		if err != nil {
			return fmt.Errorf("marshalling correction %d: %w", page, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO session_corrections (document_id, page_index, block_ids) VALUES (?, ?, ?)",
			snap.DocumentID, page, string(data)); err != nil {
			return fmt.Errorf("saving correction %d: %w", page, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves a stored session.
func (s *sessionStore) LoadSnapshot(ctx context.Context, documentID string) (*domain.SessionSnapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT document_id, page_count, current_page, updated_at
		FROM sessions WHERE document_id = ?
	`, documentID)

	snap := &domain.SessionSnapshot{
		Edited:      make(domain.EditedPages),
		Corrections: make(domain.CorrectionRecord),
	}
	var updatedAt sql.NullTime
	if err := row.Scan(&snap.DocumentID, &snap.PageCount, &snap.CurrentPage, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	if updatedAt.Valid {
		snap.UpdatedAt = updatedAt.Time
	}

	if err := s.loadPages(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadCorrections(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *sessionStore) loadPages(ctx context.Context, snap *domain.SessionSnapshot) error {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT page_index, blocks FROM session_pages WHERE document_id = ?", snap.DocumentID)
	if err != nil {
		return fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var page int
		var data string
		if err := rows.Scan(&page, &data); err != nil {
			return fmt.Errorf("scanning page: %w", err)
		}
		blocks, err := wire.Decode(page, []byte(data))
		if err != nil {
			return err
		}
		snap.Edited[page] = blocks
	}
	return rows.Err()
}

func (s *sessionStore) loadCorrections(ctx context.Context, snap *domain.SessionSnapshot) error {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT page_index, block_ids FROM session_corrections WHERE document_id = ?", snap.DocumentID)
	if err != nil {
		return fmt.Errorf("querying corrections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var page int
		var data string
		if err := rows.Scan(&page, &data); err != nil {
			return fmt.Errorf("scanning correction: %w", err)
		}
		var ids []string
		if err := json.Unmarshal([]byte(data), &ids); err != nil {
			return fmt.Errorf("unmarshaling correction %d: %w", page, err)
		}
		snap.Corrections[page] = ids
	}
	return rows.Err()
}

// DeleteSnapshot removes a stored session. Pages and corrections cascade.
func (s *sessionStore) DeleteSnapshot(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
