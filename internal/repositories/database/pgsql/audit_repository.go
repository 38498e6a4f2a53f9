package pgsql

import (
	"context"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	"github.com/Fridah34/bank-management-api/internal/models"
	"github.com/Fridah34/bank-management-api/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new read-side repository for the audit log.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// ListAuditEntries returns audit rows newest first, optionally filtered by
// the acting user.
func (r *PgxAuditRepository) ListAuditEntries(ctx context.Context, actorUserID *string, limit, offset int) ([]domain.AuditLogEntry, error) {
	query := `
		SELECT entry_id, actor_user_id, action, description, created_at
		FROM audit_logs
		WHERE $1::text IS NULL OR actor_user_id = $1
		ORDER BY created_at DESC, entry_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, actorUserID, limit, offset)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list audit entries", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditLogEntry, 0)
	for rows.Next() {
		var modelEntry models.AuditLogEntry
		if err := rows.Scan(
			&modelEntry.EntryID,
			&modelEntry.ActorUserID,
			&modelEntry.Action,
			&modelEntry.Description,
			&modelEntry.CreatedAt,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan audit row", err)
		}
		entries = append(entries, mapping.ToAuditLogEntryDomain(modelEntry))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed reading audit rows", err)
	}
	return entries, nil
}
