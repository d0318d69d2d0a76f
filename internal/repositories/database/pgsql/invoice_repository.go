package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/SscSPs/contabilidad_ve/internal/models"
	"github.com/SscSPs/contabilidad_ve/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoices and their items.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const fullInvoiceSelectQuery = `
SELECT invoice_id, company_id, invoice_type, invoice_number, control_number, counterpart_rif, counterpart_name,
	issue_date, due_date, subtotal, tax_amount, total, retention_iva, retention_islr, status,
	created_at, created_by, last_updated_at, last_updated_by
FROM invoices
`

const insertInvoiceItemQuery = `
INSERT INTO invoice_items (item_id, invoice_id, line_no, description, quantity, unit_price, tax_rate, subtotal, tax_amount)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// WithTx runs fn against a repository bound to a single database transaction.
func (r *PgxInvoiceRepository) WithTx(ctx context.Context, fn func(txRepo portsrepo.InvoiceTxRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(&pgxInvoiceTx{tx: tx})
	})
}

func findInvoice(ctx context.Context, q querier, invoiceID string, forUpdate bool) (*domain.Invoice, error) {
	query := fullInvoiceSelectQuery + `WHERE invoice_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoice "+invoiceID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Invoice])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
		}
		return nil, apperrors.NewAppError(500, "failed to scan invoice "+invoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(m)

	itemRows, err := q.Query(ctx, `
		SELECT item_id, invoice_id, line_no, description, quantity, unit_price, tax_rate, subtotal, tax_amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY line_no;`, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items of invoice "+invoiceID, err)
	}
	items, err := pgx.CollectRows(itemRows, pgx.RowToStructByName[models.InvoiceItem])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan items of invoice "+invoiceID, err)
	}
	invoice.Items = make([]domain.InvoiceItem, len(items))
	for i, it := range items {
		invoice.Items[i] = mapping.ToDomainInvoiceItem(it)
	}
	return &invoice, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return findInvoice(ctx, r.Pool, invoiceID, false)
}

// ListInvoices orders by created_at DESC, invoice_number DESC and counts with a window
// function so a page and its total come from one query.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, companyID string, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}
	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.Type != nil {
		addCond("invoice_type = ?", string(*filter.Type))
	}
	if filter.Status != nil {
		addCond("status = ?", string(*filter.Status))
	}
	if filter.FromDate != nil {
		addCond("issue_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		addCond("issue_date <= ?", *filter.ToDate)
	}

	query := `SELECT q.*, COUNT(*) OVER () AS total_count FROM (` + fullInvoiceSelectQuery +
		"WHERE " + strings.Join(conds, " AND ") + `) q ORDER BY q.created_at DESC, q.invoice_number DESC`
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query invoices for company "+companyID, err)
	}
	type countedInvoice struct {
		models.Invoice
		TotalCount int `db:"total_count"`
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[countedInvoice])
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to scan invoices", err)
	}

	total := 0
	invoices := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		invoices[i] = mapping.ToDomainInvoice(m.Invoice)
		total = m.TotalCount
	}
	if len(ms) == 0 && offset > 0 {
		// An offset past the end returns no rows and so no window count.
		if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM (`+fullInvoiceSelectQuery+"WHERE "+strings.Join(conds, " AND ")+`) q`,
			args[:len(conds)]...).Scan(&total); err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to count invoices", err)
		}
	}
	return invoices, total, nil
}

func (r *PgxInvoiceRepository) CountInvoices(ctx context.Context, companyID string) (domain.InvoiceStats, error) {
	var stats domain.InvoiceStats
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'PENDING')
		FROM invoices WHERE company_id = $1;`, companyID).Scan(&stats.Total, &stats.Pending)
	if err != nil {
		return stats, apperrors.NewAppError(500, "failed to count invoices for company "+companyID, err)
	}
	return stats, nil
}

// pgxInvoiceTx implements the transactional invoice operations on a pgx.Tx.
type pgxInvoiceTx struct {
	tx pgx.Tx
}

// NextInvoiceNumber shares the journal_sequences table; FV and FC never clash with entry prefixes.
func (t *pgxInvoiceTx) NextInvoiceNumber(ctx context.Context, companyID string, prefix domain.EntryPrefix) (int64, error) {
	var next int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO journal_sequences (company_id, prefix, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, prefix) DO UPDATE SET last_value = journal_sequences.last_value + 1
		RETURNING last_value;`, companyID, string(prefix)).Scan(&next)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance invoice number", err)
	}
	return next, nil
}

func (t *pgxInvoiceTx) FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return findInvoice(ctx, t.tx, invoiceID, true)
}

func (t *pgxInvoiceTx) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO invoices (invoice_id, company_id, invoice_type, invoice_number, control_number, counterpart_rif,
			counterpart_name, issue_date, due_date, subtotal, tax_amount, total, retention_iva, retention_islr, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);`,
		m.InvoiceID, m.CompanyID, m.InvoiceType, m.InvoiceNumber, m.ControlNumber, m.CounterpartRIF,
		m.CounterpartName, m.IssueDate, m.DueDate, m.Subtotal, m.TaxAmount, m.Total, m.RetentionIVA, m.RetentionISLR, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "invoice "+m.InvoiceNumber)
	}

	batch := &pgx.Batch{}
	for _, it := range invoice.Items {
		it.InvoiceID = invoice.InvoiceID
		im := mapping.ToModelInvoiceItem(it)
		batch.Queue(insertInvoiceItemQuery, im.ItemID, im.InvoiceID, im.LineNo, im.Description,
			im.Quantity, im.UnitPrice, im.TaxRate, im.Subtotal, im.TaxAmount)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "items of invoice "+m.InvoiceNumber)
	}
	return nil
}

func (t *pgxInvoiceTx) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE invoices
		SET status = $2, retention_iva = $3, retention_islr = $4, last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1;`,
		invoice.InvoiceID, string(invoice.Status), invoice.RetentionIVA, invoice.RetentionISLR,
		invoice.LastUpdatedAt, invoice.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoice.InvoiceID)
	}
	return nil
}

func (t *pgxInvoiceTx) SaveAuditLog(ctx context.Context, log domain.AuditLog) error {
	return insertAuditLog(ctx, t.tx, log)
}
