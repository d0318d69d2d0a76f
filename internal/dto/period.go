package dto

import "github.com/SscSPs/contabilidad_ve/internal/core/domain"

// CreatePeriodRequest defines a new monthly accounting period.
type CreatePeriodRequest struct {
	Year  int `json:"year" binding:"required,min=1900,max=9999"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// PeriodResponse defines data returned for a period.
type PeriodResponse struct {
	PeriodID  string              `json:"periodID"`
	Year      int                 `json:"year"`
	Month     int                 `json:"month"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Status    domain.PeriodStatus `json:"status"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		Year:      p.Year,
		Month:     p.Month,
		StartDate: p.StartDate.Format("2006-01-02"),
		EndDate:   p.EndDate.Format("2006-01-02"),
		Status:    p.Status,
	}
}

// ToPeriodResponses converts a slice of periods.
func ToPeriodResponses(ps []domain.AccountingPeriod) []PeriodResponse {
	list := make([]PeriodResponse, len(ps))
	for i := range ps {
		list[i] = ToPeriodResponse(&ps[i])
	}
	return list
}
