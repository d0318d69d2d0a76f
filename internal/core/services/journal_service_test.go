package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/core/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/platform/config"
	"github.com/SscSPs/contabilidad_ve/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// JournalServiceTestSuite drives the journal engine against the in-memory store.
type JournalServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	services  *portssvc.ServiceContainer
	journal   portssvc.JournalSvcFacade
	ownerID   string
	companyID string
	cashID    string
	bankID    string
	salesID   string
	today     time.Time
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "contab-test",
		CashAccountPrefix: "1.1.01",
	}
}

// seedUser stores a user directly and returns its ID.
func seedUser(t *testing.T, store *memory.Store, username string) string {
	id := uuid.NewString()
	require.NoError(t, store.SaveUser(context.Background(), domain.User{
		UserID:   id,
		Username: username,
		Email:    username + "@example.com",
	}))
	return id
}

func accountID(t *testing.T, store *memory.Store, companyID, code string) string {
	acc, err := store.FindAccountByCode(context.Background(), companyID, code)
	require.NoError(t, err)
	return acc.AccountID
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.services = services.NewServiceContainer(newTestConfig(), s.store.Repositories())
	s.today = time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)

	// The engine under test gets a fixed clock; everything else comes from the container.
	repos := s.store.Repositories()
	s.journal = services.NewJournalService(
		repos.JournalRepo,
		repos.CostCenterRepo,
		s.services.Company.(portssvc.CompanyAuthorizerSvc),
		services.WithPeriodGuard(s.services.Period),
		services.WithJournalClock(func() time.Time { return s.today }),
	)

	s.ownerID = seedUser(s.T(), s.store, "owner")
	company, err := s.services.Company.CreateCompany(s.ctx, dto.CreateCompanyRequest{
		RIF:              "j-12345678-9",
		BusinessName:     "Inversiones Ávila C.A.",
		WithDefaultChart: true,
	}, s.ownerID)
	s.Require().NoError(err)
	s.companyID = company.CompanyID
	s.cashID = accountID(s.T(), s.store, s.companyID, "1.1.01.001")
	s.bankID = accountID(s.T(), s.store, s.companyID, "1.1.01.002")
	s.salesID = accountID(s.T(), s.store, s.companyID, "4.1.01.001")
}

func amount(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func (s *JournalServiceTestSuite) saleRequest(date, value string) dto.JournalEntryRequest {
	desc := "Cobro en efectivo"
	return dto.JournalEntryRequest{
		EntryDate:   date,
		Description: "Venta de contado",
		Details: []dto.JournalDetailRequest{
			{AccountID: s.cashID, Debit: amount(value), Description: &desc},
			{AccountID: s.salesID, Credit: amount(value)},
		},
	}
}

func (s *JournalServiceTestSuite) createApproved(date, value string) *domain.JournalEntry {
	entry, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest(date, value), s.ownerID)
	s.Require().NoError(err)
	approved, err := s.journal.ApproveEntry(s.ctx, s.companyID, entry.EntryID, s.ownerID)
	s.Require().NoError(err)
	return approved
}

func (s *JournalServiceTestSuite) TestCreateEntry_NumbersDraft() {
	entry, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "150.00"), s.ownerID)

	s.Require().NoError(err)
	s.Equal("AS-000001", entry.EntryNumber)
	s.Equal(domain.Draft, entry.Status)
	s.True(entry.TotalDebit.Equal(decimal.RequireFromString("150")))
	s.True(entry.TotalCredit.Equal(entry.TotalDebit))
	s.Len(entry.Details, 2)
	s.Equal(1, entry.Details[0].LineNo)

	stored, err := s.journal.GetEntry(s.ctx, s.companyID, entry.EntryID, s.ownerID)
	s.Require().NoError(err)
	s.Equal(entry.EntryNumber, stored.EntryNumber)
	s.Len(stored.Details, 2)
}

func (s *JournalServiceTestSuite) TestCreateEntry_Rejections() {
	cases := []struct {
		name   string
		mutate func(*dto.JournalEntryRequest)
		want   error
	}{
		{"unbalanced", func(r *dto.JournalEntryRequest) { r.Details[1].Credit = amount("99.99") }, apperrors.ErrUnbalancedEntry},
		{"single line", func(r *dto.JournalEntryRequest) { r.Details = r.Details[:1] }, apperrors.ErrInsufficientDetailLines},
		{"negative amount", func(r *dto.JournalEntryRequest) {
			r.Details[0].Debit = amount("-10")
			r.Details[1].Credit = amount("-10")
		}, apperrors.ErrValidation},
		{"three decimals", func(r *dto.JournalEntryRequest) {
			r.Details[0].Debit = amount("10.001")
			r.Details[1].Credit = amount("10.001")
		}, apperrors.ErrValidation},
		{"group account", func(r *dto.JournalEntryRequest) {
			r.Details[0].AccountID = accountID(s.T(), s.store, s.companyID, "1.1.01")
		}, apperrors.ErrNonPostableAccount},
		{"unknown account", func(r *dto.JournalEntryRequest) { r.Details[0].AccountID = uuid.NewString() }, apperrors.ErrNonPostableAccount},
		{"bad date", func(r *dto.JournalEntryRequest) { r.EntryDate = "2024-02-30" }, apperrors.ErrValidation},
		{"blank description", func(r *dto.JournalEntryRequest) { r.Description = "   " }, apperrors.ErrValidation},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			req := s.saleRequest("2024-03-01", "100.00")
			tc.mutate(&req)
			_, err := s.journal.CreateEntry(s.ctx, s.companyID, req, s.ownerID)
			s.ErrorIs(err, tc.want)
		})
	}

	page, err := s.journal.ListEntries(s.ctx, s.companyID, s.ownerID, dto.ListJournalEntriesParams{Limit: 10})
	s.Require().NoError(err)
	s.Empty(page.Entries, "rejected entries must not be stored")
}

func (s *JournalServiceTestSuite) TestCreateEntry_OneCentIsUnbalanced() {
	req := s.saleRequest("2024-03-01", "100.00")
	req.Details[1].Credit = amount("100.01")

	_, err := s.journal.CreateEntry(s.ctx, s.companyID, req, s.ownerID)

	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)
}

func (s *JournalServiceTestSuite) TestCreateEntry_LineWithBothSides() {
	req := s.saleRequest("2024-03-01", "100.00")
	req.Details = append(req.Details, dto.JournalDetailRequest{AccountID: s.bankID, Debit: amount("5.00"), Credit: amount("5.00")})

	entry, err := s.journal.CreateEntry(s.ctx, s.companyID, req, s.ownerID)

	s.Require().NoError(err)
	s.True(entry.TotalDebit.Equal(decimal.RequireFromString("105")))
}

func (s *JournalServiceTestSuite) TestCreateEntry_InactiveCostCenter() {
	unknown := uuid.NewString()
	req := s.saleRequest("2024-03-01", "10.00")
	req.Details[0].CostCenterID = &unknown

	_, err := s.journal.CreateEntry(s.ctx, s.companyID, req, s.ownerID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestApproveEntry_OnlyOnce() {
	approved := s.createApproved("2024-03-01", "50.00")
	s.Equal(domain.Approved, approved.Status)
	s.Require().NotNil(approved.ApprovedBy)
	s.Equal(s.ownerID, *approved.ApprovedBy)
	s.Require().NotNil(approved.ApprovedAt)
	s.True(approved.ApprovedAt.Equal(s.today))

	_, err := s.journal.ApproveEntry(s.ctx, s.companyID, approved.EntryID, s.ownerID)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (s *JournalServiceTestSuite) TestReverseEntry_MirrorsOriginal() {
	original := s.createApproved("2024-03-01", "80.00")

	reversal, err := s.journal.ReverseEntry(s.ctx, s.companyID, original.EntryID, "Monto errado", s.ownerID)
	s.Require().NoError(err)

	s.Equal("RV-000001", reversal.EntryNumber)
	s.Equal(domain.Approved, reversal.Status)
	s.Equal("REVERSO: Venta de contado. Motivo: Monto errado", reversal.Description)
	s.Require().NotNil(reversal.Reference)
	s.Equal("Reverso de AS-000001", *reversal.Reference)
	s.True(reversal.EntryDate.Equal(domain.DateOnly(s.today)))
	s.Require().NotNil(reversal.ReversalOfID)
	s.Equal(original.EntryID, *reversal.ReversalOfID)
	s.Require().Len(reversal.Details, 2)
	s.True(reversal.Details[0].Credit.Equal(decimal.RequireFromString("80")))
	s.True(reversal.Details[0].Debit.IsZero())
	s.Require().NotNil(reversal.Details[0].Description)
	s.Equal("Reverso: Cobro en efectivo", *reversal.Details[0].Description)
	s.Nil(reversal.Details[1].Description)

	stored, err := s.journal.GetEntry(s.ctx, s.companyID, original.EntryID, s.ownerID)
	s.Require().NoError(err)
	s.Equal(domain.Reversed, stored.Status)
	s.Require().NotNil(stored.ReversedByID)
	s.Equal(reversal.EntryID, *stored.ReversedByID)

	// The original is REVERSED and the mirror is a reversal: neither can be reversed again.
	_, err = s.journal.ReverseEntry(s.ctx, s.companyID, original.EntryID, "otra vez", s.ownerID)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	_, err = s.journal.ReverseEntry(s.ctx, s.companyID, reversal.EntryID, "otra vez", s.ownerID)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (s *JournalServiceTestSuite) TestReverseEntry_RequiresApprovedAndReason() {
	draft, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "10.00"), s.ownerID)
	s.Require().NoError(err)

	_, err = s.journal.ReverseEntry(s.ctx, s.companyID, draft.EntryID, "motivo", s.ownerID)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)

	approved := s.createApproved("2024-03-02", "10.00")
	_, err = s.journal.ReverseEntry(s.ctx, s.companyID, approved.EntryID, "  ", s.ownerID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestReversalNetsBalancesToZero() {
	original := s.createApproved("2024-03-01", "80.00")
	_, err := s.journal.ReverseEntry(s.ctx, s.companyID, original.EntryID, "Duplicado", s.ownerID)
	s.Require().NoError(err)

	tb, err := s.services.Reporting.TrialBalance(s.ctx, s.companyID, s.today, s.ownerID)
	s.Require().NoError(err)
	s.True(tb.TotalDebit.Equal(tb.TotalCredit))
	for _, row := range tb.Rows {
		s.True(row.Balance.IsZero(), "account %s should net to zero", row.Code)
	}
}

func (s *JournalServiceTestSuite) TestUpdateAndDeleteDraft() {
	draft, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "10.00"), s.ownerID)
	s.Require().NoError(err)

	req := s.saleRequest("2024-03-05", "25.00")
	req.Details[0].AccountID = s.bankID
	updated, err := s.journal.UpdateDraftEntry(s.ctx, s.companyID, draft.EntryID, req, s.ownerID)
	s.Require().NoError(err)
	s.Equal(draft.EntryNumber, updated.EntryNumber)
	s.True(updated.TotalDebit.Equal(decimal.RequireFromString("25")))
	s.Equal(s.bankID, updated.Details[0].AccountID)

	s.Require().NoError(s.journal.DeleteDraftEntry(s.ctx, s.companyID, draft.EntryID, s.ownerID))
	_, err = s.journal.GetEntry(s.ctx, s.companyID, draft.EntryID, s.ownerID)
	s.ErrorIs(err, apperrors.ErrEntryNotFound)

	next, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-06", "5.00"), s.ownerID)
	s.Require().NoError(err)
	s.Equal("AS-000002", next.EntryNumber, "deleted numbers are not reused")
}

func (s *JournalServiceTestSuite) TestApprovedEntriesAreImmutable() {
	approved := s.createApproved("2024-03-01", "10.00")

	_, err := s.journal.UpdateDraftEntry(s.ctx, s.companyID, approved.EntryID, s.saleRequest("2024-03-01", "20.00"), s.ownerID)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)

	err = s.journal.DeleteDraftEntry(s.ctx, s.companyID, approved.EntryID, s.ownerID)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (s *JournalServiceTestSuite) TestClosedPeriodBlocksPostings() {
	draft, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-01-15", "10.00"), s.ownerID)
	s.Require().NoError(err)

	period, err := s.services.Period.CreatePeriod(s.ctx, s.companyID, dto.CreatePeriodRequest{Year: 2024, Month: 1}, s.ownerID)
	s.Require().NoError(err)
	_, err = s.services.Period.ClosePeriod(s.ctx, s.companyID, period.PeriodID, s.ownerID)
	s.Require().NoError(err)

	_, err = s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-01-31", "10.00"), s.ownerID)
	s.ErrorIs(err, apperrors.ErrPeriodClosed)
	_, err = s.journal.ApproveEntry(s.ctx, s.companyID, draft.EntryID, s.ownerID)
	s.ErrorIs(err, apperrors.ErrPeriodClosed)

	// Dates without a period record stay open.
	_, err = s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-02-01", "10.00"), s.ownerID)
	s.NoError(err)

	_, err = s.services.Period.ReopenPeriod(s.ctx, s.companyID, period.PeriodID, s.ownerID)
	s.Require().NoError(err)
	_, err = s.journal.ApproveEntry(s.ctx, s.companyID, draft.EntryID, s.ownerID)
	s.NoError(err)
}

func (s *JournalServiceTestSuite) TestClosedPeriodBlocksReversalDatedToday() {
	original := s.createApproved("2024-02-10", "10.00")
	period, err := s.services.Period.CreatePeriod(s.ctx, s.companyID, dto.CreatePeriodRequest{Year: 2024, Month: 3}, s.ownerID)
	s.Require().NoError(err)
	_, err = s.services.Period.ClosePeriod(s.ctx, s.companyID, period.PeriodID, s.ownerID)
	s.Require().NoError(err)

	_, err = s.journal.ReverseEntry(s.ctx, s.companyID, original.EntryID, "motivo", s.ownerID)

	s.ErrorIs(err, apperrors.ErrPeriodClosed)
	stored, err := s.journal.GetEntry(s.ctx, s.companyID, original.EntryID, s.ownerID)
	s.Require().NoError(err)
	s.Equal(domain.Approved, stored.Status, "failed reversal must leave the original untouched")
}

func (s *JournalServiceTestSuite) TestConcurrentCreatesGetDistinctNumbers() {
	const workers = 20
	var wg sync.WaitGroup
	numbers := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "1.00"), s.ownerID)
			errs[i] = err
			if err == nil {
				numbers[i] = entry.EntryNumber
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.Require().NoError(err)
	}
	sort.Strings(numbers)
	for i, n := range numbers {
		s.Equal(domain.FormatEntryNumber(domain.PrefixEntry, int64(i+1)), n)
	}
}

func (s *JournalServiceTestSuite) TestConcurrentApprovalsSucceedOnce() {
	draft, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "1.00"), s.ownerID)
	s.Require().NoError(err)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.journal.ApproveEntry(s.ctx, s.companyID, draft.EntryID, s.ownerID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	}
	s.Equal(1, succeeded)
}

func (s *JournalServiceTestSuite) TestTenantIsolation() {
	entry, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "1.00"), s.ownerID)
	s.Require().NoError(err)

	other, err := s.services.Company.CreateCompany(s.ctx, dto.CreateCompanyRequest{
		RIF:          "G-20000001-0",
		BusinessName: "Otra Empresa",
	}, s.ownerID)
	s.Require().NoError(err)

	_, err = s.journal.GetEntry(s.ctx, other.CompanyID, entry.EntryID, s.ownerID)
	s.ErrorIs(err, apperrors.ErrEntryNotFound)
	_, err = s.journal.ApproveEntry(s.ctx, other.CompanyID, entry.EntryID, s.ownerID)
	s.ErrorIs(err, apperrors.ErrEntryNotFound)

	// Accounts of one company cannot be posted from another.
	_, err = s.journal.CreateEntry(s.ctx, other.CompanyID, s.saleRequest("2024-03-01", "1.00"), s.ownerID)
	s.ErrorIs(err, apperrors.ErrNonPostableAccount)

	// Each company has its own series.
	page, err := s.journal.ListEntries(s.ctx, other.CompanyID, s.ownerID, dto.ListJournalEntriesParams{Limit: 10})
	s.Require().NoError(err)
	s.Empty(page.Entries)
}

func (s *JournalServiceTestSuite) TestCapabilities() {
	auditorID := seedUser(s.T(), s.store, "auditor")
	_, err := s.services.Company.AddUserToCompany(s.ctx, s.ownerID, s.companyID, dto.AddCompanyUserRequest{
		UserID: auditorID,
		Role:   domain.RoleAuditor,
	})
	s.Require().NoError(err)
	outsiderID := seedUser(s.T(), s.store, "outsider")

	_, err = s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "1.00"), auditorID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "1.00"), outsiderID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	entry := s.createApproved("2024-03-01", "1.00")
	got, err := s.journal.GetEntry(s.ctx, s.companyID, entry.EntryID, auditorID)
	s.Require().NoError(err)
	s.Equal(entry.EntryID, got.EntryID)
	_, err = s.journal.ReverseEntry(s.ctx, s.companyID, entry.EntryID, "motivo", auditorID)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *JournalServiceTestSuite) TestListEntriesPaginates() {
	for day := 1; day <= 5; day++ {
		_, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest(fmt.Sprintf("2024-03-%02d", day), "1.00"), s.ownerID)
		s.Require().NoError(err)
	}

	first, err := s.journal.ListEntries(s.ctx, s.companyID, s.ownerID, dto.ListJournalEntriesParams{Limit: 3})
	s.Require().NoError(err)
	s.Require().Len(first.Entries, 3)
	s.Equal("2024-03-05", first.Entries[0].EntryDate)
	s.Require().NotNil(first.NextToken)

	second, err := s.journal.ListEntries(s.ctx, s.companyID, s.ownerID, dto.ListJournalEntriesParams{Limit: 3, NextToken: first.NextToken})
	s.Require().NoError(err)
	s.Require().Len(second.Entries, 2)
	s.Equal("2024-03-01", second.Entries[1].EntryDate)
	s.Nil(second.NextToken)

	from := "2024-03-04"
	filtered, err := s.journal.ListEntries(s.ctx, s.companyID, s.ownerID, dto.ListJournalEntriesParams{Limit: 10, FromDate: &from})
	s.Require().NoError(err)
	s.Len(filtered.Entries, 2)
}

func (s *JournalServiceTestSuite) TestAuditTrailRecordsTransitions() {
	original := s.createApproved("2024-03-01", "10.00")
	_, err := s.journal.ReverseEntry(s.ctx, s.companyID, original.EntryID, "motivo", s.ownerID)
	s.Require().NoError(err)

	logs, err := s.services.Reporting.AuditTrail(s.ctx, s.companyID, domain.AuditLogFilter{}, s.ownerID)
	s.Require().NoError(err)
	actions := make([]domain.AuditAction, 0, len(logs))
	for _, l := range logs {
		if l.EntityType == "JOURNAL_ENTRY" {
			actions = append(actions, l.Action)
		}
	}
	s.Equal([]domain.AuditAction{domain.AuditJournalReverse, domain.AuditJournalApprove, domain.AuditJournalCreate}, actions)
}

func (s *JournalServiceTestSuite) TestCreateEntry_Totals() {
	cases := []struct {
		name   string
		debit  string
		credit string
		total  string
		want   error
	}{
		{"cash sale", "10000", "10000", "10000.00", nil},
		{"two cents short", "5000.00", "4999.98", "", apperrors.ErrUnbalancedEntry},
		{"trailing zeros", "250.5", "250.50", "250.50", nil},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			req := s.saleRequest("2024-03-01", tc.debit)
			req.Details[1].Credit = amount(tc.credit)

			entry, err := s.journal.CreateEntry(s.ctx, s.companyID, req, s.ownerID)

			if tc.want != nil {
				s.ErrorIs(err, tc.want)
				return
			}
			s.Require().NoError(err)
			s.Equal(tc.total, entry.TotalDebit.StringFixed(2))
			s.Equal(tc.total, entry.TotalCredit.StringFixed(2))
		})
	}
}

func (s *JournalServiceTestSuite) TestTransitionsOnMissingEntry() {
	missing := uuid.NewString()

	_, err := s.journal.ApproveEntry(s.ctx, s.companyID, missing, s.ownerID)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	s.ErrorIs(err, apperrors.ErrEntryNotFound)

	_, err = s.journal.ReverseEntry(s.ctx, s.companyID, missing, "motivo", s.ownerID)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	s.ErrorIs(err, apperrors.ErrEntryNotFound)

	_, err = s.journal.GetEntry(s.ctx, s.companyID, missing, s.ownerID)
	s.ErrorIs(err, apperrors.ErrEntryNotFound)
}

func (s *JournalServiceTestSuite) TestClosingAccountWithDraftLines() {
	draft, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "75.00"), s.ownerID)
	s.Require().NoError(err)

	off := false
	_, err = s.services.Account.UpdateAccount(s.ctx, s.companyID, s.cashID, dto.UpdateAccountRequest{AcceptsEntries: &off}, s.ownerID)
	s.ErrorIs(err, apperrors.ErrConflict, "lines already point at the account")

	_, err = s.services.Account.UpdateAccount(s.ctx, s.companyID, s.cashID, dto.UpdateAccountRequest{IsActive: &off}, s.ownerID)
	s.Require().NoError(err)

	_, err = s.journal.ApproveEntry(s.ctx, s.companyID, draft.EntryID, s.ownerID)
	s.ErrorIs(err, apperrors.ErrNonPostableAccount)

	stored, err := s.journal.GetEntry(s.ctx, s.companyID, draft.EntryID, s.ownerID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, stored.Status)

	tb, err := s.services.Reporting.TrialBalance(s.ctx, s.companyID, s.today, s.ownerID)
	s.Require().NoError(err)
	s.True(tb.TotalDebit.Equal(tb.TotalCredit))
	s.True(tb.TotalDebit.IsZero())
}

func (s *JournalServiceTestSuite) TestListEntriesPaginatesSameInstant() {
	// The fixed clock gives every entry the same entry_date and created_at.
	created := make(map[string]bool)
	for i := 0; i < 5; i++ {
		entry, err := s.journal.CreateEntry(s.ctx, s.companyID, s.saleRequest("2024-03-01", "1.00"), s.ownerID)
		s.Require().NoError(err)
		created[entry.EntryID] = true
	}

	seen := make(map[string]bool)
	var token *string
	for pages := 0; pages < 10; pages++ {
		page, err := s.journal.ListEntries(s.ctx, s.companyID, s.ownerID, dto.ListJournalEntriesParams{Limit: 2, NextToken: token})
		s.Require().NoError(err)
		for _, e := range page.Entries {
			s.False(seen[e.EntryID], "entry %s listed twice", e.EntryID)
			seen[e.EntryID] = true
		}
		if page.NextToken == nil {
			break
		}
		token = page.NextToken
	}
	s.Equal(created, seen)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func TestJournalService_WithoutAuthorizerRefusesEverything(t *testing.T) {
	store := memory.New()
	repos := store.Repositories()
	svc := services.NewJournalService(repos.JournalRepo, repos.CostCenterRepo, nil)

	_, err := svc.GetEntry(context.Background(), "company", "entry", "user")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
