package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerLine is an approved journal detail joined with its entry header.
// It is the unit the ledger aggregator works on.
type LedgerLine struct {
	EntryID         string          `json:"entryID"`
	EntryNumber     string          `json:"entryNumber"`
	EntryDate       time.Time       `json:"entryDate"`
	EntryReference  *string         `json:"entryReference,omitempty"`
	Description     string          `json:"description"`
	LineNo          int             `json:"lineNo"`
	LineDescription *string         `json:"lineDescription,omitempty"`
	AccountID       string          `json:"accountID"`
	CostCenterID    *string         `json:"costCenterID,omitempty"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
}

// LedgerLineFilter narrows the approved lines loaded for a report.
type LedgerLineFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	AccountID  *string
	CodePrefix *string
}

// TrialBalanceRow is one account line of a trial balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Nature      Nature          `json:"nature"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalance lists every leaf account with movement as of a date.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountAmount represents an account with its amount for financial statements.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// BalanceSheetReport groups asset, liability and equity balances as of a date.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	IsBalanced       bool            `json:"isBalanced"`
}

// IncomeStatementReport reports revenues and expenses over a date range.
type IncomeStatementReport struct {
	FromDate      time.Time       `json:"fromDate"`
	ToDate        time.Time       `json:"toDate"`
	Revenues      []AccountAmount `json:"revenues"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenues decimal.Decimal `json:"totalRevenues"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// GeneralLedgerLine is one chronological posting in the general ledger.
type GeneralLedgerLine struct {
	LedgerLine
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`
}

// GeneralLedgerReport is the ordered sub-ledger view of approved lines.
type GeneralLedgerReport struct {
	FromDate  time.Time           `json:"fromDate"`
	ToDate    time.Time           `json:"toDate"`
	AccountID *string             `json:"accountID,omitempty"`
	Lines     []GeneralLedgerLine `json:"lines"`
}

// CashMovement is one posting on a cash or cash-equivalent account.
type CashMovement struct {
	GeneralLedgerLine
	NetFlow decimal.Decimal `json:"netFlow"`
}

// CashFlowReport is a direct-method statement of cash movements.
type CashFlowReport struct {
	FromDate     time.Time       `json:"fromDate"`
	ToDate       time.Time       `json:"toDate"`
	AccountCodes []string        `json:"accountCodes"`
	Movements    []CashMovement  `json:"movements"`
	TotalInflow  decimal.Decimal `json:"totalInflow"`
	TotalOutflow decimal.Decimal `json:"totalOutflow"`
	NetFlow      decimal.Decimal `json:"netFlow"`
}

// AccountBalance is the movement summary of one account over an optional window.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Nature      Nature          `json:"nature"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}
