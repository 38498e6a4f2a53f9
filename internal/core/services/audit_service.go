package services

import (
	"context"
	"fmt"

	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	portssvc "github.com/Fridah34/bank-management-api/internal/core/ports/services"
	"github.com/Fridah34/bank-management-api/internal/dto"
)

// auditService exposes read access to the append-only audit log. Writes
// happen only inside ledger and loan units of work.
type auditService struct {
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// ListAuditEntries returns entries newest first, optionally filtered by actor.
func (s *auditService) ListAuditEntries(ctx context.Context, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	entries, err := s.auditRepo.ListAuditEntries(ctx, params.ActorUserID, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	resp := dto.ToListAuditResponse(entries)
	return &resp, nil
}
