package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Approved JournalStatus = "APPROVED"
	Reversed JournalStatus = "REVERSED"
)

// IsValid reports whether s is a known status.
func (s JournalStatus) IsValid() bool {
	return s == Draft || s == Approved || s == Reversed
}

// EntryPrefix selects an independent numbering series.
type EntryPrefix string

const (
	PrefixEntry    EntryPrefix = "AS"
	PrefixReversal EntryPrefix = "RV"
)

const entryNumberDigits = 6

// FormatEntryNumber renders a series value as e.g. AS-000042.
func FormatEntryNumber(prefix EntryPrefix, n int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, entryNumberDigits, n)
}

// ParseEntryNumber splits an entry number into its prefix and sequence value.
func ParseEntryNumber(number string) (EntryPrefix, int64, error) {
	prefix, digits, ok := strings.Cut(number, "-")
	if !ok || prefix == "" || digits == "" {
		return "", 0, fmt.Errorf("malformed entry number %q", number)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed entry number %q: %w", number, err)
	}
	return EntryPrefix(prefix), n, nil
}

// JournalEntry is a dated, numbered set of balanced detail lines.
type JournalEntry struct {
	EntryID      string               `json:"entryID"`
	CompanyID    string               `json:"companyID"`
	EntryNumber  string               `json:"entryNumber"`
	EntryDate    time.Time            `json:"entryDate"`
	Description  string               `json:"description"`
	Reference    *string              `json:"reference,omitempty"`
	Status       JournalStatus        `json:"status"`
	ApprovedBy   *string              `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time           `json:"approvedAt,omitempty"`
	TotalDebit   decimal.Decimal      `json:"totalDebit"`
	TotalCredit  decimal.Decimal      `json:"totalCredit"`
	ReversalOfID *string              `json:"reversalOfID,omitempty"`
	ReversedByID *string              `json:"reversedByID,omitempty"`
	Details      []JournalEntryDetail `json:"details"`
	AuditFields
}

// IsReversal reports whether the entry was generated by reversing another one.
func (e JournalEntry) IsReversal() bool {
	return e.ReversalOfID != nil
}

// JournalEntryDetail is one debit/credit line of an entry.
type JournalEntryDetail struct {
	DetailID     string          `json:"detailID"`
	EntryID      string          `json:"entryID"`
	LineNo       int             `json:"lineNo"`
	AccountID    string          `json:"accountID"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// JournalEntryFilter narrows a journal listing.
type JournalEntryFilter struct {
	Status   *JournalStatus
	FromDate *time.Time
	ToDate   *time.Time
}
