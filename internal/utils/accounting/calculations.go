package accounting

import (
	"fmt"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for amounts.
const MoneyScale int32 = 2

// MinDetailLines is the smallest number of lines a journal entry may carry.
const MinDetailLines = 2

// BalanceTolerance absorbs rounding left over from tax-rate multiplication.
var BalanceTolerance = decimal.New(1, -MoneyScale)

// SignedBalance applies the account nature to debit and credit totals.
// Debit-natured accounts grow with debits, credit-natured ones with credits.
func SignedBalance(nature domain.Nature, debit, credit decimal.Decimal) decimal.Decimal {
	if nature == domain.NatureDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// DetailTotals sums the debit and credit columns of a set of lines.
func DetailTotals(details []domain.JournalEntryDetail) (decimal.Decimal, decimal.Decimal) {
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, d := range details {
		totalDebit = totalDebit.Add(d.Debit)
		totalCredit = totalCredit.Add(d.Credit)
	}
	return totalDebit, totalCredit
}

// IsBalanced reports whether debit and credit differ by less than BalanceTolerance.
func IsBalanced(totalDebit, totalCredit decimal.Decimal) bool {
	return totalDebit.Sub(totalCredit).Abs().LessThan(BalanceTolerance)
}

// ValidateAmount checks that an amount is non-negative and has no more than MoneyScale decimals.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount %s must not be negative", apperrors.ErrValidation, amount.String())
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrValidation, amount.String(), MoneyScale)
	}
	return nil
}

// ValidateEntryDetails checks the line count, the per-line amounts and the entry balance.
// On success it returns the debit and credit totals to be stored on the entry.
func ValidateEntryDetails(details []domain.JournalEntryDetail) (decimal.Decimal, decimal.Decimal, error) {
	if len(details) < MinDetailLines {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: got %d", apperrors.ErrInsufficientDetailLines, len(details))
	}
	for i, d := range details {
		if err := ValidateAmount(d.Debit); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("line %d debit: %w", i+1, err)
		}
		if err := ValidateAmount(d.Credit); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("line %d credit: %w", i+1, err)
		}
	}
	totalDebit, totalCredit := DetailTotals(details)
	if !IsBalanced(totalDebit, totalCredit) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: debits %s, credits %s",
			apperrors.ErrUnbalancedEntry, totalDebit.StringFixed(MoneyScale), totalCredit.StringFixed(MoneyScale))
	}
	return totalDebit, totalCredit, nil
}

// Round rounds an amount to MoneyScale for presentation.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}
