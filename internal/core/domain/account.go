package domain

import (
	"regexp"
	"strings"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Nature is the side of the ledger that increases an account's balance.
type Nature string

const (
	NatureDebit  Nature = "DEBIT"
	NatureCredit Nature = "CREDIT"
)

// accountTypeSegments maps the first code segment of the chart to its account type.
var accountTypeSegments = map[string]AccountType{
	"1": Asset,
	"2": Liability,
	"3": Equity,
	"4": Revenue,
	"5": Expense,
}

var accountCodePattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Nature returns the normal balance side of the account type.
func (t AccountType) Nature() Nature {
	switch t {
	case Asset, Expense:
		return NatureDebit
	default:
		return NatureCredit
	}
}

// CodeSegment returns the leading chart segment reserved for the type.
func (t AccountType) CodeSegment() string {
	for seg, at := range accountTypeSegments {
		if at == t {
			return seg
		}
	}
	return ""
}

// AccountTypeForCode derives the account type from the first segment of a dotted code.
func AccountTypeForCode(code string) (AccountType, bool) {
	first, _, _ := strings.Cut(code, ".")
	t, ok := accountTypeSegments[first]
	return t, ok
}

// IsValidAccountCode reports whether code is a dotted sequence of digit groups.
func IsValidAccountCode(code string) bool {
	return accountCodePattern.MatchString(code)
}

// AccountLevel is the depth of a code in the hierarchy, i.e. its segment count.
func AccountLevel(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, ".") + 1
}

// HasCodePrefix reports whether code equals prefix or lies beneath it in the hierarchy.
func HasCodePrefix(code, prefix string) bool {
	return code == prefix || strings.HasPrefix(code, prefix+".")
}

// Account represents a node of a company's chart of accounts.
// Parent links are stored as keys; the tree is computed on demand.
type Account struct {
	AccountID       string      `json:"accountID"`
	CompanyID       string      `json:"companyID"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	Nature          Nature      `json:"nature"`
	Level           int         `json:"level"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"`
	AcceptsEntries  bool        `json:"acceptsEntries"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// IsPostable reports whether journal lines may target the account.
func (a Account) IsPostable() bool {
	return a.AcceptsEntries && a.IsActive
}

// AccountNode is an account together with its computed children.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children"`
}
