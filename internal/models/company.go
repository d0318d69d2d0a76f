package models

import (
	"database/sql"
	"time"
)

// Company is a row of the companies table.
type Company struct {
	CompanyID      string         `db:"company_id"`
	RIF            string         `db:"rif"`
	BusinessName   string         `db:"business_name"`
	CommercialName sql.NullString `db:"commercial_name"`
	Address        sql.NullString `db:"address"`
	Phone          sql.NullString `db:"phone"`
	Email          sql.NullString `db:"email"`
	IsActive       bool           `db:"is_active"`
	AuditFields
}

// CompanyUser is a row of the company_users table joined with the username.
type CompanyUser struct {
	UserID       string    `db:"user_id"`
	UserName     string    `db:"username"`
	CompanyID    string    `db:"company_id"`
	Role         string    `db:"role"`
	Capabilities int64     `db:"capabilities"`
	JoinedAt     time.Time `db:"joined_at"`
}
