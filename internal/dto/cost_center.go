package dto

// CreateCostCenterRequest defines data for creating a cost center.
type CreateCostCenterRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=200"`
}
