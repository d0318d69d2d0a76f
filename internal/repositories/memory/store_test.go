package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func seedAccounts(t *testing.T, s *Store) {
	t.Helper()
	ptr := func(v string) *string { return &v }
	require.NoError(t, s.SaveAccounts(context.Background(), []domain.Account{
		{AccountID: "a1", CompanyID: "c1", Code: "1", Name: "ACTIVO", AccountType: domain.Asset, IsActive: true},
		{AccountID: "a2", CompanyID: "c1", Code: "1.1", Name: "Caja", AccountType: domain.Asset, ParentAccountID: ptr("a1"), IsActive: true, AcceptsEntries: true},
		{AccountID: "r1", CompanyID: "c1", Code: "4.1", Name: "Ventas", AccountType: domain.Revenue, IsActive: true, AcceptsEntries: true},
	}))
}

func entry(id string, date time.Time, created time.Time, status domain.JournalStatus) domain.JournalEntry {
	amount := decimal.NewFromInt(100)
	e := domain.JournalEntry{
		EntryID:     id,
		CompanyID:   "c1",
		EntryNumber: "AS-" + id,
		EntryDate:   date,
		Description: "venta " + id,
		Status:      status,
		TotalDebit:  amount,
		TotalCredit: amount,
		Details: []domain.JournalEntryDetail{
			{DetailID: id + "-1", LineNo: 1, AccountID: "a2", Debit: amount, Credit: decimal.Zero},
			{DetailID: id + "-2", LineNo: 2, AccountID: "r1", Debit: decimal.Zero, Credit: amount},
		},
	}
	e.CreatedAt = created
	return e
}

func saveEntries(t *testing.T, s *Store, entries ...domain.JournalEntry) {
	t.Helper()
	require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		for _, e := range entries {
			if err := tx.SaveEntry(context.Background(), e); err != nil {
				return err
			}
		}
		return nil
	}))
}

func TestWithTxDiscardsWritesOnError(t *testing.T) {
	s := New()
	seedAccounts(t, s)
	boom := errors.New("boom")

	err := s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		n, err := tx.NextEntryNumber(context.Background(), "c1", domain.PrefixEntry)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, tx.SaveEntry(context.Background(), entry("e1", day("2024-03-01"), time.Now(), domain.Draft)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.FindEntryByID(context.Background(), "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		n, err := tx.NextEntryNumber(context.Background(), "c1", domain.PrefixEntry)
		assert.Equal(t, int64(1), n)
		return err
	}))
}

func TestNextEntryNumberSeriesAreIndependent(t *testing.T) {
	s := New()
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
			n, err := tx.NextEntryNumber(context.Background(), "c1", domain.PrefixEntry)
			assert.Equal(t, int64(i), n)
			return err
		}))
	}
	require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		n, err := tx.NextEntryNumber(context.Background(), "c1", domain.PrefixReversal)
		assert.Equal(t, int64(1), n)
		other, err2 := tx.NextEntryNumber(context.Background(), "c2", domain.PrefixEntry)
		assert.Equal(t, int64(1), other)
		return errors.Join(err, err2)
	}))
}

func TestSaveAccountUnderPostedParent(t *testing.T) {
	s := New()
	seedAccounts(t, s)
	saveEntries(t, s, entry("e1", day("2024-03-01"), time.Now(), domain.Draft))

	parent := "a2"
	err := s.SaveAccount(context.Background(), domain.Account{AccountID: "a3", CompanyID: "c1", Code: "1.1.01", ParentAccountID: &parent})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	revenue := "r1"
	require.NoError(t, s.SaveAccounts(context.Background(), []domain.Account{{AccountID: "x", CompanyID: "c1", Code: "4.2", AcceptsEntries: true}}))
	x := "x"
	require.NoError(t, s.SaveAccount(context.Background(), domain.Account{AccountID: "x1", CompanyID: "c1", Code: "4.2.01", ParentAccountID: &x, AcceptsEntries: true}))
	got, err := s.FindAccountByID(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, got.AcceptsEntries)

	err = s.SaveAccount(context.Background(), domain.Account{AccountID: "dup", CompanyID: "c1", Code: "4.1", ParentAccountID: &revenue})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestListEntriesPaginatesNewestFirst(t *testing.T) {
	s := New()
	seedAccounts(t, s)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	saveEntries(t, s,
		entry("e1", day("2024-03-01"), base, domain.Approved),
		entry("e2", day("2024-03-02"), base.Add(time.Minute), domain.Approved),
		entry("e3", day("2024-03-02"), base.Add(2*time.Minute), domain.Draft),
	)

	page, next, err := s.ListEntries(context.Background(), "c1", domain.JournalEntryFilter{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e3", page[0].EntryID)
	assert.Equal(t, "e2", page[1].EntryID)
	assert.Nil(t, page[0].Details)
	require.NotNil(t, next)

	page, next, err = s.ListEntries(context.Background(), "c1", domain.JournalEntryFilter{}, 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "e1", page[0].EntryID)
	assert.Nil(t, next)

	approved := domain.Approved
	page, _, err = s.ListEntries(context.Background(), "c1", domain.JournalEntryFilter{Status: &approved}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	bad := "%%%"
	_, _, err = s.ListEntries(context.Background(), "c1", domain.JournalEntryFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListEntriesBreaksTiesByID(t *testing.T) {
	s := New()
	seedAccounts(t, s)
	same := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	saveEntries(t, s,
		entry("e2", day("2024-03-01"), same, domain.Draft),
		entry("e4", day("2024-03-01"), same, domain.Draft),
		entry("e1", day("2024-03-01"), same, domain.Draft),
		entry("e3", day("2024-03-01"), same, domain.Draft),
	)

	var ids []string
	var next *string
	for {
		page, token, err := s.ListEntries(context.Background(), "c1", domain.JournalEntryFilter{}, 1, next)
		require.NoError(t, err)
		for _, e := range page {
			ids = append(ids, e.EntryID)
		}
		if token == nil {
			break
		}
		next = token
	}
	assert.Equal(t, []string{"e4", "e3", "e2", "e1"}, ids)
}

func TestUpdateAccountKeepsReferencedAccountsOpen(t *testing.T) {
	s := New()
	seedAccounts(t, s)
	saveEntries(t, s, entry("e1", day("2024-03-01"), time.Now(), domain.Draft))

	caja, err := s.FindAccountByID(context.Background(), "a2")
	require.NoError(t, err)
	closed := *caja
	closed.AcceptsEntries = false
	assert.ErrorIs(t, s.UpdateAccount(context.Background(), closed), apperrors.ErrConflict)

	inactive := *caja
	inactive.IsActive = false
	require.NoError(t, s.UpdateAccount(context.Background(), inactive))

	require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		locked, err := tx.LockAccounts(context.Background(), "c1", []string{"a2", "r1", "missing"})
		require.NoError(t, err)
		assert.Len(t, locked, 2)
		assert.False(t, locked["a2"].IsPostable())
		assert.True(t, locked["r1"].IsPostable())
		return nil
	}))
}

func TestListPostedLinesSkipsDrafts(t *testing.T) {
	s := New()
	seedAccounts(t, s)
	now := time.Now()
	saveEntries(t, s,
		entry("e1", day("2024-03-01"), now, domain.Approved),
		entry("e2", day("2024-03-05"), now, domain.Reversed),
		entry("e3", day("2024-03-06"), now, domain.Draft),
	)

	lines, err := s.ListPostedLines(context.Background(), "c1", domain.LedgerLineFilter{})
	require.NoError(t, err)
	assert.Len(t, lines, 4)
	assert.Equal(t, "e1", lines[0].EntryID)

	prefix := "4"
	to := day("2024-03-02")
	lines, err = s.ListPostedLines(context.Background(), "c1", domain.LedgerLineFilter{CodePrefix: &prefix, ToDate: &to})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "r1", lines[0].AccountID)
}

func TestUpdateEntryStatusKeepsUnsetFields(t *testing.T) {
	s := New()
	seedAccounts(t, s)
	saveEntries(t, s, entry("e1", day("2024-03-01"), time.Now(), domain.Draft))

	approver := "u1"
	at := time.Now().UTC()
	require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		return tx.UpdateEntryStatus(context.Background(), portsrepo.EntryStatusChange{
			EntryID: "e1", Status: domain.Approved, ApprovedBy: &approver, ApprovedAt: &at, UpdatedBy: approver, UpdatedAt: at,
		})
	}))
	reversal := "e9"
	require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		return tx.UpdateEntryStatus(context.Background(), portsrepo.EntryStatusChange{
			EntryID: "e1", Status: domain.Reversed, ReversedByID: &reversal, UpdatedBy: approver, UpdatedAt: at,
		})
	}))

	got, err := s.FindEntryByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.Reversed, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "u1", *got.ApprovedBy)
	require.NotNil(t, got.ReversedByID)
	assert.Equal(t, "e9", *got.ReversedByID)
}

func TestAuditLogsNewestFirst(t *testing.T) {
	s := New()
	require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		for _, id := range []string{"l1", "l2", "l3"} {
			if err := tx.SaveAuditLog(context.Background(), domain.AuditLog{AuditLogID: id, CompanyID: "c1", UserID: "u1", Action: domain.AuditJournalCreate}); err != nil {
				return err
			}
		}
		return nil
	}))

	logs, err := s.ListAuditLogs(context.Background(), "c1", domain.AuditLogFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "l3", logs[0].AuditLogID)
	assert.Equal(t, "l2", logs[1].AuditLogID)
}

func TestAuditLogsDateRange(t *testing.T) {
	s := New()
	stamps := map[string]time.Time{
		"l1": time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC),
		"l2": time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		"l3": time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.WithTx(context.Background(), func(tx portsrepo.JournalTxRepository) error {
		for _, id := range []string{"l1", "l2", "l3"} {
			log := domain.AuditLog{AuditLogID: id, CompanyID: "c1", UserID: "u1", Action: domain.AuditJournalCreate, CreatedAt: stamps[id]}
			if err := tx.SaveAuditLog(context.Background(), log); err != nil {
				return err
			}
		}
		return nil
	}))

	from := day("2024-03-02")
	to := day("2024-03-02").Add(24*time.Hour - time.Nanosecond)
	logs, err := s.ListAuditLogs(context.Background(), "c1", domain.AuditLogFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "l2", logs[0].AuditLogID)

	logs, err = s.ListAuditLogs(context.Background(), "c1", domain.AuditLogFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestMembershipKeepsAnAdmin(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner := domain.CompanyUser{UserID: "u1", CompanyID: "c1", Role: domain.RoleAdmin, Capabilities: domain.RoleAdmin.DefaultCapabilities()}
	require.NoError(t, s.SaveCompany(ctx, domain.Company{CompanyID: "c1", RIF: "J-12345678-9", BusinessName: "X"}, owner))
	require.NoError(t, s.AddUserToCompany(ctx, domain.CompanyUser{UserID: "u2", CompanyID: "c1", Role: domain.RoleUser}))

	demoted := owner
	demoted.Role = domain.RoleUser
	assert.ErrorIs(t, s.UpdateMembership(ctx, demoted), apperrors.ErrConflict)
	assert.ErrorIs(t, s.RemoveMember(ctx, "c1", "u1"), apperrors.ErrConflict)
	assert.ErrorIs(t, s.RemoveMember(ctx, "c1", "nobody"), apperrors.ErrNotFound)

	promoted := domain.CompanyUser{UserID: "u2", CompanyID: "c1", Role: domain.RoleAdmin}
	require.NoError(t, s.UpdateMembership(ctx, promoted))
	require.NoError(t, s.RemoveMember(ctx, "c1", "u1"))

	members, err := s.ListMembers(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "u2", members[0].UserID)
}

func TestInvoiceTxDiscardsWritesOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	repo := s.Repositories().InvoiceRepo
	inv := domain.Invoice{InvoiceID: "i1", CompanyID: "c1", InvoiceType: domain.InvoiceSale, InvoiceNumber: "FV-00000001", Status: domain.InvoicePending}

	err := repo.WithTx(ctx, func(tx portsrepo.InvoiceTxRepository) error {
		if _, err := tx.NextInvoiceNumber(ctx, "c1", domain.PrefixSaleInvoice); err != nil {
			return err
		}
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)
	_, err = repo.FindInvoiceByID(ctx, "i1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.WithTx(ctx, func(tx portsrepo.InvoiceTxRepository) error {
		n, err := tx.NextInvoiceNumber(ctx, "c1", domain.PrefixSaleInvoice)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), n)
		return tx.SaveInvoice(ctx, inv)
	}))
	stats, err := repo.CountInvoices(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStats{Total: 1, Pending: 1}, stats)

	dup := inv
	dup.InvoiceID = "i2"
	err = repo.WithTx(ctx, func(tx portsrepo.InvoiceTxRepository) error {
		return tx.SaveInvoice(ctx, dup)
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestDuplicateUsersAndPeriods(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SaveUser(ctx, domain.User{UserID: "u1", Username: "ana", Email: "ana@x.ve"}))
	assert.ErrorIs(t, s.SaveUser(ctx, domain.User{UserID: "u2", Username: "ana"}), apperrors.ErrDuplicate)

	start, end := domain.MonthBounds(2024, 3)
	p := domain.AccountingPeriod{PeriodID: "p1", CompanyID: "c1", Year: 2024, Month: 3, StartDate: start, EndDate: end, Status: domain.PeriodOpen}
	require.NoError(t, s.SavePeriod(ctx, p))
	p.PeriodID = "p2"
	assert.ErrorIs(t, s.SavePeriod(ctx, p), apperrors.ErrDuplicate)

	found, err := s.FindPeriodForDate(ctx, "c1", day("2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, "p1", found.PeriodID)
	_, err = s.FindPeriodForDate(ctx, "c1", day("2024-04-01"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
