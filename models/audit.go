package models

// AuditEntry is an append-only record of a state-changing action. Every
// payment effect and admin decision writes one.
type AuditEntry struct {
	EntryID   string `dynamodbav:"entryId" json:"entryId"`
	ActorID   string `dynamodbav:"actorId" json:"actorId"`
	Action    string `dynamodbav:"action" json:"action"`
	Entity    string `dynamodbav:"entity" json:"entity"`
	EntityID  string `dynamodbav:"entityId" json:"entityId"`
	Detail    string `dynamodbav:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// AuditLogTable is the DynamoDB table name for the audit log
const AuditLogTable = "AuditLog"
