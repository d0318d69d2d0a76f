package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	rifPattern   = regexp.MustCompile(`^[JGVPE]-\d{8}-\d$`)
	phonePattern = regexp.MustCompile(`^(0212|0414|0424|0416|0426|0412)\d{7}$`)
)

// NormalizeRIF upper-cases a fiscal id and reports whether it is well formed (e.g. J-12345678-9).
func NormalizeRIF(rif string) (string, bool) {
	r := strings.ToUpper(strings.TrimSpace(rif))
	return r, rifPattern.MatchString(r)
}

// IsValidPhone reports whether phone is a Venezuelan landline or mobile number.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Company is a tenant: every account, entry and report belongs to exactly one.
type Company struct {
	CompanyID      string  `json:"companyID"`
	RIF            string  `json:"rif"`
	BusinessName   string  `json:"businessName"`
	CommercialName *string `json:"commercialName,omitempty"`
	Address        *string `json:"address,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	IsActive       bool    `json:"isActive"`
	AuditFields
}

// CompanyRole defines the possible roles a user can have within a company.
type CompanyRole string

const (
	RoleAdmin      CompanyRole = "ADMIN"
	RoleAccountant CompanyRole = "ACCOUNTANT"
	RoleAuditor    CompanyRole = "AUDITOR"
	RoleUser       CompanyRole = "USER"
)

// IsValid reports whether r is a known role.
func (r CompanyRole) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Capability is a single permission bit.
type Capability uint32

const (
	CapAccountsRead Capability = 1 << iota
	CapAccountsWrite
	CapAccountsDelete
	CapJournalRead
	CapJournalWrite
	CapJournalApprove
	CapJournalReverse
	CapReportsRead
	CapReportsExport
	CapUsersManage
	CapCompanyManage
	CapPeriodsManage
	CapInvoicesRead
	CapInvoicesWrite
)

var capabilityNames = map[Capability]string{
	CapAccountsRead:   "accounts:read",
	CapAccountsWrite:  "accounts:write",
	CapAccountsDelete: "accounts:delete",
	CapJournalRead:    "journal:read",
	CapJournalWrite:   "journal:write",
	CapJournalApprove: "journal:approve",
	CapJournalReverse: "journal:reverse",
	CapReportsRead:    "reports:read",
	CapReportsExport:  "reports:export",
	CapUsersManage:    "users:manage",
	CapCompanyManage:  "company:manage",
	CapPeriodsManage:  "periods:manage",
	CapInvoicesRead:   "invoices:read",
	CapInvoicesWrite:  "invoices:write",
}

func (c Capability) String() string {
	if n, ok := capabilityNames[c]; ok {
		return n
	}
	return fmt.Sprintf("capability(%d)", uint32(c))
}

// ParseCapability resolves a capability name such as "journal:approve".
func ParseCapability(name string) (Capability, bool) {
	for c, n := range capabilityNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// CapabilitySet is a bit set of capabilities.
type CapabilitySet uint32

// NewCapabilitySet builds a set from individual capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// Has reports whether c is in the set.
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// SubsetOf reports whether every capability of s is also in other.
func (s CapabilitySet) SubsetOf(other CapabilitySet) bool {
	return s&^other == 0
}

// Names lists the capability names in bit order.
func (s CapabilitySet) Names() []string {
	names := make([]string, 0)
	for c := Capability(1); c <= lastCapability; c <<= 1 {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}

const lastCapability = CapInvoicesWrite

var allCapabilities = NewCapabilitySet(
	CapAccountsRead, CapAccountsWrite, CapAccountsDelete,
	CapJournalRead, CapJournalWrite, CapJournalApprove, CapJournalReverse,
	CapReportsRead, CapReportsExport,
	CapUsersManage, CapCompanyManage, CapPeriodsManage,
	CapInvoicesRead, CapInvoicesWrite,
)

var roleCapabilities = map[CompanyRole]CapabilitySet{
	RoleAdmin: allCapabilities,
	RoleAccountant: NewCapabilitySet(
		CapAccountsRead, CapAccountsWrite,
		CapJournalRead, CapJournalWrite, CapJournalApprove, CapJournalReverse,
		CapReportsRead, CapReportsExport,
		CapPeriodsManage,
		CapInvoicesRead, CapInvoicesWrite,
	),
	RoleAuditor: NewCapabilitySet(CapAccountsRead, CapJournalRead, CapReportsRead, CapReportsExport, CapInvoicesRead),
	RoleUser:    NewCapabilitySet(CapAccountsRead, CapJournalRead, CapJournalWrite, CapReportsRead, CapInvoicesRead, CapInvoicesWrite),
}

// DefaultCapabilities returns the capability set granted to a role.
func (r CompanyRole) DefaultCapabilities() CapabilitySet {
	return roleCapabilities[r]
}

// ResolveCapabilities validates requested capability names against a role.
// An empty request yields the role's defaults.
func ResolveCapabilities(role CompanyRole, requested []string) (CapabilitySet, error) {
	allowed, ok := roleCapabilities[role]
	if !ok {
		return 0, fmt.Errorf("unknown role %q", role)
	}
	if len(requested) == 0 {
		return allowed, nil
	}
	var set CapabilitySet
	for _, name := range requested {
		c, ok := ParseCapability(name)
		if !ok {
			return 0, fmt.Errorf("unknown capability %q", name)
		}
		set |= CapabilitySet(c)
	}
	if !set.SubsetOf(allowed) {
		return 0, fmt.Errorf("capabilities %v exceed role %s", (set &^ allowed).Names(), role)
	}
	return set, nil
}

// CompanyUser represents the membership of a User in a Company.
type CompanyUser struct {
	UserID       string        `json:"userID"`
	UserName     string        `json:"userName"`
	CompanyID    string        `json:"companyID"`
	Role         CompanyRole   `json:"role"`
	Capabilities CapabilitySet `json:"capabilities"`
	JoinedAt     time.Time     `json:"joinedAt"`
}

// Can reports whether the member holds capability c.
func (m CompanyUser) Can(c Capability) bool {
	return m.Capabilities.Has(c)
}

// CompanyUpdate carries the company fields that may change after creation.
// Nil fields are left untouched.
type CompanyUpdate struct {
	BusinessName   *string
	CommercialName *string
	Address        *string
	Phone          *string
	Email          *string
	IsActive       *bool
}

// Apply copies the set fields of u onto c.
func (u CompanyUpdate) Apply(c *Company) {
	if u.BusinessName != nil {
		c.BusinessName = *u.BusinessName
	}
	if u.CommercialName != nil {
		c.CommercialName = u.CommercialName
	}
	if u.Address != nil {
		c.Address = u.Address
	}
	if u.Phone != nil {
		c.Phone = u.Phone
	}
	if u.Email != nil {
		c.Email = u.Email
	}
	if u.IsActive != nil {
		c.IsActive = *u.IsActive
	}
}

// DashboardStats summarizes a company for its landing page.
type DashboardStats struct {
	TotalJournalEntries int               `json:"totalJournalEntries"`
	TotalInvoices       int               `json:"totalInvoices"`
	PendingInvoices     int               `json:"pendingInvoices"`
	CurrentPeriod       *AccountingPeriod `json:"currentPeriod,omitempty"`
}
