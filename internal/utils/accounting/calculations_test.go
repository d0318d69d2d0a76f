package accounting_test

import (
	"testing"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(debit, credit string) domain.JournalEntryDetail {
	return domain.JournalEntryDetail{
		AccountID: "acc",
		Debit:     decimal.RequireFromString(debit),
		Credit:    decimal.RequireFromString(credit),
	}
}

func TestValidateEntryDetails_Balanced(t *testing.T) {
	debit, credit, err := accounting.ValidateEntryDetails([]domain.JournalEntryDetail{
		line("10000", "0"),
		line("0", "10000"),
	})
	require.NoError(t, err)
	assert.True(t, debit.Equal(decimal.NewFromInt(10000)))
	assert.True(t, credit.Equal(decimal.NewFromInt(10000)))
}

func TestValidateEntryDetails_Unbalanced(t *testing.T) {
	_, _, err := accounting.ValidateEntryDetails([]domain.JournalEntryDetail{
		line("5000.00", "0"),
		line("0", "4999.98"),
	})
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateEntryDetails_TooFewLines(t *testing.T) {
	_, _, err := accounting.ValidateEntryDetails([]domain.JournalEntryDetail{line("1", "1")})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientDetailLines)
}

func TestValidateEntryDetails_NegativeAmount(t *testing.T) {
	_, _, err := accounting.ValidateEntryDetails([]domain.JournalEntryDetail{
		line("-5", "0"),
		line("0", "-5"),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NotErrorIs(t, err, apperrors.ErrUnbalancedEntry)
}

func TestValidateEntryDetails_TooManyDecimals(t *testing.T) {
	_, _, err := accounting.ValidateEntryDetails([]domain.JournalEntryDetail{
		line("1.005", "0"),
		line("0", "1.005"),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateEntryDetails_LineWithBothSides(t *testing.T) {
	_, _, err := accounting.ValidateEntryDetails([]domain.JournalEntryDetail{
		line("100", "40"),
		line("0", "60"),
	})
	assert.NoError(t, err)
}

func TestSignedBalance(t *testing.T) {
	d := decimal.NewFromInt(300)
	c := decimal.NewFromInt(100)
	assert.True(t, accounting.SignedBalance(domain.NatureDebit, d, c).Equal(decimal.NewFromInt(200)))
	assert.True(t, accounting.SignedBalance(domain.NatureCredit, d, c).Equal(decimal.NewFromInt(-200)))
}

func TestIsBalanced_Tolerance(t *testing.T) {
	assert.True(t, accounting.IsBalanced(decimal.RequireFromString("100.004"), decimal.RequireFromString("100")))
	assert.False(t, accounting.IsBalanced(decimal.RequireFromString("100.01"), decimal.RequireFromString("100")))
}
