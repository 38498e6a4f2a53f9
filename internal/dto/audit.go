package dto

import (
	"time"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
)

// AuditEntryResponse defines the data returned for one audit log entry.
type AuditEntryResponse struct {
	EntryID     string             `json:"entryID"`
	ActorUserID *string            `json:"actorUserID,omitempty"`
	Action      domain.AuditAction `json:"action"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ListAuditParams defines query parameters for listing audit entries.
type ListAuditParams struct {
	ActorUserID *string `form:"actor"`
	Limit       int     `form:"limit,default=50"`
	Offset      int     `form:"offset,default=0"`
}

// ListAuditResponse wraps audit log entries, newest first.
type ListAuditResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}

// ToListAuditResponse converts domain audit entries to the listing DTO.
func ToListAuditResponse(entries []domain.AuditLogEntry) ListAuditResponse {
	res := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = AuditEntryResponse{
			EntryID:     e.EntryID,
			ActorUserID: e.ActorUserID,
			Action:      e.Action,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
	}
	return ListAuditResponse{Entries: res}
}
