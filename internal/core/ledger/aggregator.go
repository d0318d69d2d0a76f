// Package ledger computes derived views over approved journal lines.
// Every function here is pure: callers load accounts and lines, these
// functions only reduce them. Amounts are rounded only when results are built.
package ledger

import (
	"sort"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// DefaultCashPrefix is the chart branch holding cash and cash equivalents.
const DefaultCashPrefix = "1.1.01"

type movement struct {
	debit  decimal.Decimal
	credit decimal.Decimal
}

func (m movement) isZero() bool {
	return m.debit.IsZero() && m.credit.IsZero()
}

func inRange(date time.Time, from, to *time.Time) bool {
	d := domain.DateOnly(date)
	if from != nil && d.Before(domain.DateOnly(*from)) {
		return false
	}
	if to != nil && d.After(domain.DateOnly(*to)) {
		return false
	}
	return true
}

// sumByAccount accumulates debit and credit per account for lines dated in [from, to].
func sumByAccount(lines []domain.LedgerLine, from, to *time.Time) map[string]movement {
	sums := make(map[string]movement)
	for _, l := range lines {
		if !inRange(l.EntryDate, from, to) {
			continue
		}
		m := sums[l.AccountID]
		m.debit = m.debit.Add(l.Debit)
		m.credit = m.credit.Add(l.Credit)
		sums[l.AccountID] = m
	}
	return sums
}

func sortedByCode(accounts []domain.Account) []domain.Account {
	out := make([]domain.Account, len(accounts))
	copy(out, accounts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// TrialBalance lists every leaf account with movement up to and including asOf.
func TrialBalance(accounts []domain.Account, lines []domain.LedgerLine, asOf time.Time) domain.TrialBalance {
	sums := sumByAccount(lines, nil, &asOf)
	report := domain.TrialBalance{
		AsOf:        domain.DateOnly(asOf),
		Rows:        []domain.TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, acc := range sortedByCode(accounts) {
		if !acc.AcceptsEntries {
			continue
		}
		m := sums[acc.AccountID]
		balance := accounting.SignedBalance(acc.Nature, m.debit, m.credit)
		if m.isZero() && balance.IsZero() {
			continue
		}
		totalDebit = totalDebit.Add(m.debit)
		totalCredit = totalCredit.Add(m.credit)
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			Name:        acc.Name,
			AccountType: acc.AccountType,
			Nature:      acc.Nature,
			Debit:       accounting.Round(m.debit),
			Credit:      accounting.Round(m.credit),
			Balance:     accounting.Round(balance),
		})
	}
	report.TotalDebit = accounting.Round(totalDebit)
	report.TotalCredit = accounting.Round(totalCredit)
	return report
}

// BalanceSheet groups asset, liability and equity balances as of asOf.
// IsBalanced is reported, never enforced: a mismatch points at upstream data.
func BalanceSheet(accounts []domain.Account, lines []domain.LedgerLine, asOf time.Time) domain.BalanceSheetReport {
	sums := sumByAccount(lines, nil, &asOf)
	report := domain.BalanceSheetReport{
		AsOf:        domain.DateOnly(asOf),
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
	}
	totals := map[domain.AccountType]decimal.Decimal{}
	for _, acc := range sortedByCode(accounts) {
		if !acc.AcceptsEntries {
			continue
		}
		if acc.AccountType != domain.Asset && acc.AccountType != domain.Liability && acc.AccountType != domain.Equity {
			continue
		}
		m := sums[acc.AccountID]
		balance := accounting.SignedBalance(acc.Nature, m.debit, m.credit).Abs()
		if balance.IsZero() {
			continue
		}
		totals[acc.AccountType] = totals[acc.AccountType].Add(balance)
		row := domain.AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, Amount: accounting.Round(balance)}
		switch acc.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, row)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, row)
		case domain.Equity:
			report.Equity = append(report.Equity, row)
		}
	}
	report.TotalAssets = accounting.Round(totals[domain.Asset])
	report.TotalLiabilities = accounting.Round(totals[domain.Liability])
	report.TotalEquity = accounting.Round(totals[domain.Equity])
	report.IsBalanced = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))
	return report
}

// IncomeStatement reports revenue and expense balances for lines dated in [from, to].
func IncomeStatement(accounts []domain.Account, lines []domain.LedgerLine, from, to time.Time) domain.IncomeStatementReport {
	sums := sumByAccount(lines, &from, &to)
	report := domain.IncomeStatementReport{
		FromDate: domain.DateOnly(from),
		ToDate:   domain.DateOnly(to),
		Revenues: []domain.AccountAmount{},
		Expenses: []domain.AccountAmount{},
	}
	totalRevenues, totalExpenses := decimal.Zero, decimal.Zero
	for _, acc := range sortedByCode(accounts) {
		if !acc.AcceptsEntries {
			continue
		}
		if acc.AccountType != domain.Revenue && acc.AccountType != domain.Expense {
			continue
		}
		m := sums[acc.AccountID]
		balance := accounting.SignedBalance(acc.Nature, m.debit, m.credit).Abs()
		if balance.IsZero() {
			continue
		}
		row := domain.AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, Amount: accounting.Round(balance)}
		if acc.AccountType == domain.Revenue {
			totalRevenues = totalRevenues.Add(balance)
			report.Revenues = append(report.Revenues, row)
		} else {
			totalExpenses = totalExpenses.Add(balance)
			report.Expenses = append(report.Expenses, row)
		}
	}
	report.TotalRevenues = accounting.Round(totalRevenues)
	report.TotalExpenses = accounting.Round(totalExpenses)
	report.NetIncome = accounting.Round(totalRevenues.Sub(totalExpenses))
	return report
}

// generalLedgerLines filters lines to [from, to] and the accepted accounts, then orders them
// by account code, entry date, entry number and line number.
func generalLedgerLines(accounts []domain.Account, lines []domain.LedgerLine, accept func(domain.Account) bool, from, to time.Time) []domain.GeneralLedgerLine {
	byID := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.AccountID] = acc
	}
	out := make([]domain.GeneralLedgerLine, 0)
	for _, l := range lines {
		acc, ok := byID[l.AccountID]
		if !ok || !accept(acc) || !inRange(l.EntryDate, &from, &to) {
			continue
		}
		l.Debit = accounting.Round(l.Debit)
		l.Credit = accounting.Round(l.Credit)
		out = append(out, domain.GeneralLedgerLine{LedgerLine: l, AccountCode: acc.Code, AccountName: acc.Name})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AccountCode != b.AccountCode {
			return a.AccountCode < b.AccountCode
		}
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.EntryNumber != b.EntryNumber {
			return a.EntryNumber < b.EntryNumber
		}
		return a.LineNo < b.LineNo
	})
	return out
}

// GeneralLedger returns approved lines in [from, to], optionally for a single account.
func GeneralLedger(accounts []domain.Account, lines []domain.LedgerLine, accountID *string, from, to time.Time) domain.GeneralLedgerReport {
	accept := func(domain.Account) bool { return true }
	if accountID != nil {
		id := *accountID
		accept = func(a domain.Account) bool { return a.AccountID == id }
	}
	return domain.GeneralLedgerReport{
		FromDate:  domain.DateOnly(from),
		ToDate:    domain.DateOnly(to),
		AccountID: accountID,
		Lines:     generalLedgerLines(accounts, lines, accept, from, to),
	}
}

// CashFlow lists movements on accounts under the cash prefix with their signed net flow.
func CashFlow(accounts []domain.Account, lines []domain.LedgerLine, prefix string, from, to time.Time) domain.CashFlowReport {
	if prefix == "" {
		prefix = DefaultCashPrefix
	}
	isCash := func(a domain.Account) bool { return domain.HasCodePrefix(a.Code, prefix) }

	report := domain.CashFlowReport{
		FromDate:     domain.DateOnly(from),
		ToDate:       domain.DateOnly(to),
		AccountCodes: []string{},
		Movements:    []domain.CashMovement{},
	}
	for _, acc := range sortedByCode(accounts) {
		if isCash(acc) && acc.AcceptsEntries {
			report.AccountCodes = append(report.AccountCodes, acc.Code)
		}
	}

	inflow, outflow := decimal.Zero, decimal.Zero
	for _, l := range generalLedgerLines(accounts, lines, isCash, from, to) {
		inflow = inflow.Add(l.Debit)
		outflow = outflow.Add(l.Credit)
		report.Movements = append(report.Movements, domain.CashMovement{
			GeneralLedgerLine: l,
			NetFlow:           l.Debit.Sub(l.Credit),
		})
	}
	report.TotalInflow = accounting.Round(inflow)
	report.TotalOutflow = accounting.Round(outflow)
	report.NetFlow = accounting.Round(inflow.Sub(outflow))
	return report
}

// AccountBalance summarises the lines of one account in an optional window.
func AccountBalance(account domain.Account, lines []domain.LedgerLine, from, to *time.Time) domain.AccountBalance {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if l.AccountID != account.AccountID || !inRange(l.EntryDate, from, to) {
			continue
		}
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return domain.AccountBalance{
		AccountID:   account.AccountID,
		Code:        account.Code,
		Name:        account.Name,
		Nature:      account.Nature,
		TotalDebit:  accounting.Round(debit),
		TotalCredit: accounting.Round(credit),
		Balance:     accounting.Round(accounting.SignedBalance(account.Nature, debit, credit)),
	}
}
