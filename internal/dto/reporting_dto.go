package dto

import (
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Nature      string          `json:"nature"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Revenues []AccountAmountResponse `json:"revenues"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalRevenues decimal.Decimal `json:"totalRevenues"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetIncome     decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		IsBalanced       bool            `json:"isBalanced"`
	} `json:"summary"`
}

// LedgerLineResponse is one posting in the general ledger or cash flow responses.
type LedgerLineResponse struct {
	EntryID         string           `json:"entryID"`
	EntryNumber     string           `json:"entryNumber"`
	EntryDate       string           `json:"entryDate"`
	Reference       *string          `json:"reference,omitempty"`
	Description     string           `json:"description"`
	LineDescription *string          `json:"lineDescription,omitempty"`
	AccountID       string           `json:"accountID"`
	AccountCode     string           `json:"accountCode"`
	AccountName     string           `json:"accountName"`
	CostCenterID    *string          `json:"costCenterID,omitempty"`
	Debit           decimal.Decimal  `json:"debit"`
	Credit          decimal.Decimal  `json:"credit"`
	NetFlow         *decimal.Decimal `json:"netFlow,omitempty"`
}

// GeneralLedgerResponse represents the general ledger report response
type GeneralLedgerResponse struct {
	FromDate  string               `json:"fromDate"`
	ToDate    string               `json:"toDate"`
	AccountID *string              `json:"accountID,omitempty"`
	Lines     []LedgerLineResponse `json:"lines"`
}

// CashFlowResponse represents the cash flow report response
type CashFlowResponse struct {
	FromDate     string               `json:"fromDate"`
	ToDate       string               `json:"toDate"`
	AccountCodes []string             `json:"accountCodes"`
	Movements    []LedgerLineResponse `json:"movements"`
	Summary      struct {
		TotalInflow  decimal.Decimal `json:"totalInflow"`
		TotalOutflow decimal.Decimal `json:"totalOutflow"`
		NetFlow      decimal.Decimal `json:"netFlow"`
	} `json:"summary"`
}

// AuditLogResponse is one audit trail record.
type AuditLogResponse struct {
	AuditLogID string    `json:"auditLogID"`
	UserID     string    `json:"userID"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: tb.AsOf.Format(dateLayout),
		Rows: make([]TrialBalanceRowResponse, len(tb.Rows)),
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.Name,
			AccountType: string(row.AccountType),
			Nature:      string(row.Nature),
			Debit:       row.Debit,
			Credit:      row.Credit,
			Balance:     row.Balance,
		}
	}
	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	return response
}

func toAccountAmounts(items []domain.AccountAmount) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(items))
	for i, it := range items {
		res[i] = AccountAmountResponse{AccountID: it.AccountID, Code: it.Code, Name: it.Name, Amount: it.Amount}
	}
	return res
}

// ToIncomeStatementResponse converts a domain income statement to a DTO response
func ToIncomeStatementResponse(report *domain.IncomeStatementReport) IncomeStatementResponse {
	response := IncomeStatementResponse{
		FromDate: report.FromDate.Format(dateLayout),
		ToDate:   report.ToDate.Format(dateLayout),
		Revenues: toAccountAmounts(report.Revenues),
		Expenses: toAccountAmounts(report.Expenses),
	}
	response.Summary.TotalRevenues = report.TotalRevenues
	response.Summary.TotalExpenses = report.TotalExpenses
	response.Summary.NetIncome = report.NetIncome
	return response
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        report.AsOf.Format(dateLayout),
		Assets:      toAccountAmounts(report.Assets),
		Liabilities: toAccountAmounts(report.Liabilities),
		Equity:      toAccountAmounts(report.Equity),
	}
	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.IsBalanced = report.IsBalanced
	return response
}

func toLedgerLineResponse(l domain.GeneralLedgerLine) LedgerLineResponse {
	return LedgerLineResponse{
		EntryID:         l.EntryID,
		EntryNumber:     l.EntryNumber,
		EntryDate:       l.EntryDate.Format(dateLayout),
		Reference:       l.EntryReference,
		Description:     l.Description,
		LineDescription: l.LineDescription,
		AccountID:       l.AccountID,
		AccountCode:     l.AccountCode,
		AccountName:     l.AccountName,
		CostCenterID:    l.CostCenterID,
		Debit:           l.Debit,
		Credit:          l.Credit,
	}
}

// ToGeneralLedgerResponse converts a domain general ledger to a DTO response
func ToGeneralLedgerResponse(report *domain.GeneralLedgerReport) GeneralLedgerResponse {
	response := GeneralLedgerResponse{
		FromDate:  report.FromDate.Format(dateLayout),
		ToDate:    report.ToDate.Format(dateLayout),
		AccountID: report.AccountID,
		Lines:     make([]LedgerLineResponse, len(report.Lines)),
	}
	for i, l := range report.Lines {
		response.Lines[i] = toLedgerLineResponse(l)
	}
	return response
}

// ToCashFlowResponse converts a domain cash flow report to a DTO response
func ToCashFlowResponse(report *domain.CashFlowReport) CashFlowResponse {
	response := CashFlowResponse{
		FromDate:     report.FromDate.Format(dateLayout),
		ToDate:       report.ToDate.Format(dateLayout),
		AccountCodes: report.AccountCodes,
		Movements:    make([]LedgerLineResponse, len(report.Movements)),
	}
	for i, m := range report.Movements {
		line := toLedgerLineResponse(m.GeneralLedgerLine)
		net := m.NetFlow
		line.NetFlow = &net
		response.Movements[i] = line
	}
	response.Summary.TotalInflow = report.TotalInflow
	response.Summary.TotalOutflow = report.TotalOutflow
	response.Summary.NetFlow = report.NetFlow
	return response
}

// ToAuditLogResponses converts audit records to DTOs.
func ToAuditLogResponses(logs []domain.AuditLog) []AuditLogResponse {
	res := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		res[i] = AuditLogResponse{
			AuditLogID: l.AuditLogID,
			UserID:     l.UserID,
			Action:     string(l.Action),
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt,
		}
	}
	return res
}
