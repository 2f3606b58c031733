package domain

import "time"

// AuditAction names the state change an audit entry records.
type AuditAction string

const (
	ActionCreate    AuditAction = "CREATE"
	ActionUpdate    AuditAction = "UPDATE"
	ActionDelete    AuditAction = "DELETE"
	ActionConfirm   AuditAction = "CONFIRM"
	ActionReject    AuditAction = "REJECT"
	ActionApprove   AuditAction = "APPROVE"
	ActionReimburse AuditAction = "REIMBURSE"
	ActionCancel    AuditAction = "CANCEL"
)

// AuditEntityType identifies the entity an audit entry is about.
type AuditEntityType string

const (
	EntityHolder   AuditEntityType = "HOLDER"
	EntityTransfer AuditEntityType = "TRANSFER"
	EntityIncome   AuditEntityType = "INCOME"
	EntityExpense  AuditEntityType = "EXPENSE"
	EntityLedger   AuditEntityType = "LEDGER_ENTRY"
)

// AuditEntry is one immutable record of a state-changing action. Before and
// After are opaque JSON snapshots of the entity; they are never read back by
// this subsystem, only by external reporting screens.
type AuditEntry struct {
	AuditID    string          `json:"auditID"` // Primary Key (UUID)
	ActorID    string          `json:"actorID"`
	Action     AuditAction     `json:"action"`
	EntityType AuditEntityType `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Before     []byte          `json:"before,omitempty"` // JSON snapshot, nil on create
	After      []byte          `json:"after,omitempty"`  // JSON snapshot, nil on delete
	OccurredAt time.Time       `json:"occurredAt"`
}
