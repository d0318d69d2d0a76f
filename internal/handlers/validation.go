package handlers

import (
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the Venezuelan field validators on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	validators := map[string]validator.Func{
		"rif": func(fl validator.FieldLevel) bool {
			_, valid := domain.NormalizeRIF(fl.Field().String())
			return valid
		},
		"vephone": func(fl validator.FieldLevel) bool {
			return domain.IsValidPhone(fl.Field().String())
		},
		"accountcode": func(fl validator.FieldLevel) bool {
			return domain.IsValidAccountCode(fl.Field().String())
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// companyID reads the company path parameter.
func companyID(c *gin.Context) string {
	return c.Param("company_id")
}

const dateLayout = "2006-01-02"

// dateRangeQuery is the common fromDate/toDate query of the reporting endpoints.
type dateRangeQuery struct {
	FromDate string `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
}

// bounds parses the range. Missing ends are returned as nil.
func (q dateRangeQuery) bounds() (from, to *time.Time) {
	if t, err := time.Parse(dateLayout, q.FromDate); err == nil {
		from = &t
	}
	if t, err := time.Parse(dateLayout, q.ToDate); err == nil {
		to = &t
	}
	return from, to
}
