package domain

import "time"

// AuditAction names a recorded change.
type AuditAction string

const (
	AuditJournalCreate  AuditAction = "JOURNAL_CREATE"
	AuditJournalUpdate  AuditAction = "JOURNAL_UPDATE"
	AuditJournalDelete  AuditAction = "JOURNAL_DELETE"
	AuditJournalApprove AuditAction = "JOURNAL_APPROVE"
	AuditJournalReverse AuditAction = "JOURNAL_REVERSE"
	AuditAccountCreate  AuditAction = "ACCOUNT_CREATE"
	AuditAccountUpdate  AuditAction = "ACCOUNT_UPDATE"
	AuditPeriodClose    AuditAction = "PERIOD_CLOSE"
	AuditPeriodOpen     AuditAction = "PERIOD_OPEN"
	AuditInvoiceCreate  AuditAction = "INVOICE_CREATE"
	AuditInvoiceUpdate  AuditAction = "INVOICE_UPDATE"
	AuditCompanyUpdate  AuditAction = "COMPANY_UPDATE"
	AuditMemberUpdate   AuditAction = "MEMBER_UPDATE"
	AuditMemberRemove   AuditAction = "MEMBER_REMOVE"
)

// AuditLog is an append-only record of who changed what.
type AuditLog struct {
	AuditLogID string      `json:"auditLogID"`
	CompanyID  string      `json:"companyID"`
	UserID     string      `json:"userID"`
	Action     AuditAction `json:"action"`
	EntityType string      `json:"entityType"`
	EntityID   string      `json:"entityID"`
	Details    string      `json:"details"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// AuditLogFilter narrows the audit trail. From and To bound CreatedAt inclusively.
type AuditLogFilter struct {
	UserID *string
	Action *AuditAction
	From   *time.Time
	To     *time.Time
	Limit  int
}

// Matches reports whether l passes the user, action and date filters.
func (f AuditLogFilter) Matches(l AuditLog) bool {
	if f.UserID != nil && l.UserID != *f.UserID {
		return false
	}
	if f.Action != nil && l.Action != *f.Action {
		return false
	}
	if f.From != nil && l.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && l.CreatedAt.After(*f.To) {
		return false
	}
	return true
}
