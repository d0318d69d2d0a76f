package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/SscSPs/contabilidad_ve/internal/models"
	"github.com/SscSPs/contabilidad_ve/internal/utils/mapping"
	"github.com/SscSPs/contabilidad_ve/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their details.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const fullEntrySelectQuery = `
SELECT entry_id, company_id, entry_number, entry_date, description, reference, status,
	approved_by, approved_at, total_debit, total_credit, reversal_of_id, reversed_by_id,
	created_at, created_by, last_updated_at, last_updated_by
FROM journal_entries
`

const insertDetailQuery = `
INSERT INTO journal_entry_details (detail_id, entry_id, line_no, account_id, cost_center_id, description, debit, credit)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

// WithTx runs fn against a repository bound to a single database transaction.
func (r *PgxJournalRepository) WithTx(ctx context.Context, fn func(txRepo portsrepo.JournalTxRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(&pgxJournalTx{tx: tx})
	})
}

func findEntry(ctx context.Context, q querier, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := fullEntrySelectQuery + `WHERE entry_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entry "+entryID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan journal entry "+entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)

	detailRows, err := q.Query(ctx, `
		SELECT detail_id, entry_id, line_no, account_id, cost_center_id, description, debit, credit
		FROM journal_entry_details WHERE entry_id = $1 ORDER BY line_no;`, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query details of entry "+entryID, err)
	}
	details, err := pgx.CollectRows(detailRows, pgx.RowToStructByName[models.JournalEntryDetail])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan details of entry "+entryID, err)
	}
	entry.Details = make([]domain.JournalEntryDetail, len(details))
	for i, d := range details {
		entry.Details[i] = mapping.ToDomainJournalEntryDetail(d)
	}
	return &entry, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, r.Pool, entryID, false)
}

// ListEntries returns entry headers newest first by (entry_date, created_at, entry_id).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, companyID string, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells whether another page exists.
	fetchLimit := limit + 1

	conds := []string{"company_id = $1"}
	args := []any{companyID}
	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.Status != nil {
		addCond("status = ?", string(*filter.Status))
	}
	if filter.FromDate != nil {
		addCond("entry_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		addCond("entry_date <= ?", *filter.ToDate)
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
		conds = append(conds, fmt.Sprintf("(entry_date, created_at, entry_id) < ($%d, $%d, $%d)", len(args)-2, len(args)-1, len(args)))
	}
	args = append(args, fetchLimit)
	query := fullEntrySelectQuery + "WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for company "+companyID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan journal entries", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		next = &token
	}
	entries := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, next, nil
}

func (r *PgxJournalRepository) CountEntries(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries WHERE company_id = $1;`, companyID).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count journal entries for company "+companyID, err)
	}
	return n, nil
}

// pgxJournalTx implements the transactional journal operations on a pgx.Tx.
type pgxJournalTx struct {
	tx pgx.Tx
}

var _ portsrepo.JournalTxRepository = (*pgxJournalTx)(nil)

// NextEntryNumber upserts the counter row; the row lock serializes concurrent callers.
func (t *pgxJournalTx) NextEntryNumber(ctx context.Context, companyID string, prefix domain.EntryPrefix) (int64, error) {
	var next int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO journal_sequences (company_id, prefix, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, prefix) DO UPDATE SET last_value = journal_sequences.last_value + 1
		RETURNING last_value;`, companyID, string(prefix)).Scan(&next)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance entry number", err)
	}
	return next, nil
}

// LockAccounts takes share locks: postings may proceed side by side, while
// SaveAccount and UpdateAccount wait for the transaction to end.
func (t *pgxJournalTx) LockAccounts(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	accounts, err := queryAccounts(ctx, t.tx, `WHERE company_id = $1 AND account_id = ANY($2) ORDER BY account_id FOR SHARE`, companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

func (t *pgxJournalTx) FindEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, t.tx, entryID, true)
}

func (t *pgxJournalTx) insertDetails(ctx context.Context, entryID string, details []domain.JournalEntryDetail) error {
	batch := &pgx.Batch{}
	for _, d := range details {
		d.EntryID = entryID
		m := mapping.ToModelJournalEntryDetail(d)
		batch.Queue(insertDetailQuery, m.DetailID, m.EntryID, m.LineNo, m.AccountID, m.CostCenterID, m.Description, m.Debit, m.Credit)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "details of entry "+entryID)
	}
	return nil
}

func (t *pgxJournalTx) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO journal_entries (entry_id, company_id, entry_number, entry_date, description, reference, status,
			approved_by, approved_at, total_debit, total_credit, reversal_of_id, reversed_by_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		m.EntryID, m.CompanyID, m.EntryNumber, m.EntryDate, m.Description, m.Reference, m.Status,
		m.ApprovedBy, m.ApprovedAt, m.TotalDebit, m.TotalCredit, m.ReversalOfID, m.ReversedByID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "journal entry "+m.EntryNumber)
	}
	return t.insertDetails(ctx, entry.EntryID, entry.Details)
}

func (t *pgxJournalTx) ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	tag, err := t.tx.Exec(ctx, `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, reference = $4, total_debit = $5, total_credit = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE entry_id = $1 AND status = 'DRAFT';`,
		m.EntryID, m.EntryDate, m.Description, m.Reference, m.TotalDebit, m.TotalCredit, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update draft "+m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidStateTransition
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM journal_entry_details WHERE entry_id = $1;`, m.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to clear details of draft "+m.EntryID, err)
	}
	return t.insertDetails(ctx, entry.EntryID, entry.Details)
}

func (t *pgxJournalTx) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEntryNotFound
	}
	return nil
}

// UpdateEntryStatus leaves approval and reversal links untouched when they are nil.
func (t *pgxJournalTx) UpdateEntryStatus(ctx context.Context, change portsrepo.EntryStatusChange) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2,
			approved_by = COALESCE($3, approved_by),
			approved_at = COALESCE($4, approved_at),
			reversed_by_id = COALESCE($5, reversed_by_id),
			last_updated_by = $6,
			last_updated_at = $7
		WHERE entry_id = $1;`,
		change.EntryID, string(change.Status), change.ApprovedBy, change.ApprovedAt, change.ReversedByID,
		change.UpdatedBy, change.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of entry "+change.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEntryNotFound
	}
	return nil
}

func (t *pgxJournalTx) SaveAuditLog(ctx context.Context, log domain.AuditLog) error {
	return insertAuditLog(ctx, t.tx, log)
}

func insertAuditLog(ctx context.Context, q querier, log domain.AuditLog) error {
	_, err := q.Exec(ctx, `
		INSERT INTO audit_logs (audit_log_id, company_id, user_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		log.AuditLogID, log.CompanyID, log.UserID, string(log.Action), log.EntityType, log.EntityID, log.Details, log.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "audit log")
	}
	return nil
}
