package mapping

import (
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/models"
)

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:      d.CompanyID,
		RIF:            d.RIF,
		BusinessName:   d.BusinessName,
		CommercialName: NullString(d.CommercialName),
		Address:        NullString(d.Address),
		Phone:          NullString(d.Phone),
		Email:          NullString(d.Email),
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:      m.CompanyID,
		RIF:            m.RIF,
		BusinessName:   m.BusinessName,
		CommercialName: StringPtr(m.CommercialName),
		Address:        StringPtr(m.Address),
		Phone:          StringPtr(m.Phone),
		Email:          StringPtr(m.Email),
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCompanyUser converts a membership row to a domain CompanyUser
func ToDomainCompanyUser(m models.CompanyUser) domain.CompanyUser {
	return domain.CompanyUser{
		UserID:       m.UserID,
		UserName:     m.UserName,
		CompanyID:    m.CompanyID,
		Role:         domain.CompanyRole(m.Role),
		Capabilities: domain.CapabilitySet(m.Capabilities),
		JoinedAt:     m.JoinedAt,
	}
}
