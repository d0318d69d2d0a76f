package dto

import (
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// --- Company DTOs ---

// CreateCompanyRequest defines data for creating a new company.
type CreateCompanyRequest struct {
	RIF              string  `json:"rif" binding:"required,rif"`
	BusinessName     string  `json:"businessName" binding:"required,max=200"`
	CommercialName   *string `json:"commercialName" binding:"omitempty,max=200"`
	Address          *string `json:"address"`
	Phone            *string `json:"phone" binding:"omitempty,vephone"`
	Email            *string `json:"email" binding:"omitempty,email"`
	WithDefaultChart bool    `json:"withDefaultChart"`
}

// CompanyResponse defines data returned for a company.
type CompanyResponse struct {
	CompanyID      string    `json:"companyID"`
	RIF            string    `json:"rif"`
	BusinessName   string    `json:"businessName"`
	CommercialName *string   `json:"commercialName,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
}

// ToCompanyResponse converts domain.Company to DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:      c.CompanyID,
		RIF:            c.RIF,
		BusinessName:   c.BusinessName,
		CommercialName: c.CommercialName,
		Address:        c.Address,
		Phone:          c.Phone,
		Email:          c.Email,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		CreatedBy:      c.CreatedBy,
	}
}

// ListCompaniesResponse wraps a list of companies.
type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

// ToListCompaniesResponse converts a slice of domain.Company to DTO.
func ToListCompaniesResponse(cs []domain.Company) ListCompaniesResponse {
	list := make([]CompanyResponse, len(cs))
	for i := range cs {
		list[i] = ToCompanyResponse(&cs[i])
	}
	return ListCompaniesResponse{Companies: list}
}

// --- Company Membership DTOs ---

// AddCompanyUserRequest defines data for adding a user to a company.
// Capabilities default to the role's full set when omitted.
type AddCompanyUserRequest struct {
	UserID       string             `json:"userID" binding:"required"`
	Role         domain.CompanyRole `json:"role" binding:"required,oneof=ADMIN ACCOUNTANT AUDITOR USER"`
	Capabilities []string           `json:"capabilities"`
}

// CompanyUserResponse defines data returned about a user's membership.
type CompanyUserResponse struct {
	UserID       string             `json:"userID"`
	UserName     string             `json:"userName,omitempty"`
	CompanyID    string             `json:"companyID"`
	Role         domain.CompanyRole `json:"role"`
	Capabilities []string           `json:"capabilities"`
	JoinedAt     time.Time          `json:"joinedAt"`
}

// ToCompanyUserResponse converts domain.CompanyUser to DTO.
func ToCompanyUserResponse(cu *domain.CompanyUser) CompanyUserResponse {
	return CompanyUserResponse{
		UserID:       cu.UserID,
		UserName:     cu.UserName,
		CompanyID:    cu.CompanyID,
		Role:         cu.Role,
		Capabilities: cu.Capabilities.Names(),
		JoinedAt:     cu.JoinedAt,
	}
}

// ToCompanyUserResponses converts a slice of memberships to DTOs.
func ToCompanyUserResponses(cus []domain.CompanyUser) []CompanyUserResponse {
	list := make([]CompanyUserResponse, len(cus))
	for i := range cus {
		list[i] = ToCompanyUserResponse(&cus[i])
	}
	return list
}

// UpdateCompanyRequest carries the company fields to change. Omitted fields are kept.
type UpdateCompanyRequest struct {
	BusinessName   *string `json:"businessName" binding:"omitempty,max=200"`
	CommercialName *string `json:"commercialName" binding:"omitempty,max=200"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone" binding:"omitempty,vephone"`
	Email          *string `json:"email" binding:"omitempty,email"`
	IsActive       *bool   `json:"isActive"`
}

// UpdateCompanyUserRequest changes the role of a member. Capabilities default to the
// role's full set when omitted.
type UpdateCompanyUserRequest struct {
	Role         domain.CompanyRole `json:"role" binding:"required,oneof=ADMIN ACCOUNTANT AUDITOR USER"`
	Capabilities []string           `json:"capabilities"`
}

// DashboardStatsResponse summarizes a company.
type DashboardStatsResponse struct {
	TotalJournalEntries int             `json:"totalJournalEntries"`
	TotalInvoices       int             `json:"totalInvoices"`
	PendingInvoices     int             `json:"pendingInvoices"`
	CurrentPeriod       *PeriodResponse `json:"currentPeriod,omitempty"`
}

// ToDashboardStatsResponse converts domain.DashboardStats to DTO.
func ToDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	resp := DashboardStatsResponse{
		TotalJournalEntries: s.TotalJournalEntries,
		TotalInvoices:       s.TotalInvoices,
		PendingInvoices:     s.PendingInvoices,
	}
	if s.CurrentPeriod != nil {
		p := ToPeriodResponse(s.CurrentPeriod)
		resp.CurrentPeriod = &p
	}
	return resp
}
