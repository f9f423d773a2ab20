package services

import (
	"context"
	"log"
	"time"

	"cofoundr_server/models"

	"github.com/google/uuid"
)

// AuditService appends to the audit log. Failures are logged but never
// fail the operation being audited.
type AuditService struct {
	Dynamo *DynamoService
}

// Record appends an audit entry for a state-changing action.
func (s *AuditService) Record(ctx context.Context, actorID, action, entity, entityID, detail string) {
	entry := models.AuditEntry{
		EntryID:   uuid.NewString(),
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.Dynamo.PutItem(ctx, models.AuditLogTable, entry); err != nil {
		log.Printf("❌ Failed to write audit entry %s %s/%s: %v", action, entity, entityID, err)
		return
	}
	log.Printf("📝 Audit: %s %s/%s by %s", action, entity, entityID, actorID)
}
