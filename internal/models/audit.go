package models

import "time"

// AuditAction labels audit log entries.
type AuditAction string

const (
	AuditActionLogin            AuditAction = "auth.login"
	AuditActionLogout           AuditAction = "auth.logout"
	AuditActionRegister         AuditAction = "registration.submit"
	AuditActionApprove          AuditAction = "identity.approve"
	AuditActionIdentityUpdate   AuditAction = "identity.update"
	AuditActionStatusChange     AuditAction = "application.status"
	AuditActionSpecialtyChange  AuditAction = "specialty.change"
	AuditActionJobPostingChange AuditAction = "job_posting.change"
	AuditActionExport           AuditAction = "application.export"
)

// AuditLog records who did what to which resource. Writes are
// best-effort; a failed audit insert never fails the request.
type AuditLog struct {
	ID         string      `db:"id" json:"id"`
	UserID     *string     `db:"user_id" json:"user_id,omitempty"`
	Action     AuditAction `db:"action" json:"action"`
	Resource   string      `db:"resource" json:"resource"`
	ResourceID *string     `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte      `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte      `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string      `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string      `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
