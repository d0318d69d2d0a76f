package domain

// CostCenter tags journal lines for departmental analysis.
type CostCenter struct {
	CostCenterID string `json:"costCenterID"`
	CompanyID    string `json:"companyID"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
