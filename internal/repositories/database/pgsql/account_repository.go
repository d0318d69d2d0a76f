package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/SscSPs/contabilidad_ve/internal/models"
	"github.com/SscSPs/contabilidad_ve/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const fullAccountSelectQuery = `
SELECT account_id, company_id, code, name, account_type, nature, level, parent_account_id,
	accepts_entries, is_active, created_at, created_by, last_updated_at, last_updated_by
FROM accounts
`

const insertAccountQuery = `
INSERT INTO accounts (account_id, company_id, code, name, account_type, nature, level, parent_account_id,
	accepts_entries, is_active, created_at, created_by, last_updated_at, last_updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

func accountInsertArgs(a domain.Account) []any {
	m := mapping.ToModelAccount(a)
	return []any{
		m.AccountID, m.CompanyID, m.Code, m.Name, m.AccountType, m.Nature, m.Level, m.ParentAccountID,
		m.AcceptsEntries, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func (r *PgxAccountRepository) getAccounts(ctx context.Context, filterQuery string, args ...any) ([]domain.Account, error) {
	return queryAccounts(ctx, r.Pool, filterQuery, args...)
}

func queryAccounts(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.Account, error) {
	rows, err := q.Query(ctx, fullAccountSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect account rows", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// SaveAccount inserts a new account, closing its parent to postings in the same transaction.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if account.ParentAccountID != nil {
			var acceptsEntries bool
			err := tx.QueryRow(ctx, `SELECT accepts_entries FROM accounts WHERE account_id = $1 FOR UPDATE;`, *account.ParentAccountID).Scan(&acceptsEntries)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NewNotFoundError("parent account " + *account.ParentAccountID)
				}
				return apperrors.NewAppError(500, "failed to lock parent account", err)
			}
			if acceptsEntries {
				posted, err := hasPostings(ctx, tx, *account.ParentAccountID)
				if err != nil {
					return err
				}
				if posted {
					return fmt.Errorf("%w: parent account already has journal lines", apperrors.ErrConflict)
				}
				_, err = tx.Exec(ctx, `
					UPDATE accounts SET accepts_entries = FALSE, last_updated_at = $2, last_updated_by = $3
					WHERE account_id = $1;`,
					*account.ParentAccountID, account.CreatedAt, account.CreatedBy)
				if err != nil {
					return apperrors.NewAppError(500, "failed to update parent account", err)
				}
			}
		}
		if _, err := tx.Exec(ctx, insertAccountQuery, accountInsertArgs(account)...); err != nil {
			return mapWriteError(err, "account "+account.Code)
		}
		return nil
	})
}

// SaveAccounts inserts a prepared chart; parents must precede their children.
func (r *PgxAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, a := range accounts {
			batch.Queue(insertAccountQuery, accountInsertArgs(a)...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapWriteError(err, "chart of accounts")
		}
		return nil
	})
}

// UpdateAccount locks the row so a concurrent posting either lands first and blocks
// closing the account, or waits until the change is committed.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var acceptsEntries bool
		var code string
		err := tx.QueryRow(ctx, `SELECT accepts_entries, code FROM accounts WHERE account_id = $1 FOR UPDATE;`, account.AccountID).Scan(&acceptsEntries, &code)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("account " + account.AccountID)
			}
			return apperrors.NewAppError(500, "failed to lock account "+account.AccountID, err)
		}
		if acceptsEntries && !account.AcceptsEntries {
			posted, err := hasPostings(ctx, tx, account.AccountID)
			if err != nil {
				return err
			}
			if posted {
				return fmt.Errorf("%w: account %s already has journal lines", apperrors.ErrConflict, code)
			}
		}
		_, err = tx.Exec(ctx, `
			UPDATE accounts
			SET name = $2, is_active = $3, accepts_entries = $4, last_updated_at = $5, last_updated_by = $6
			WHERE account_id = $1;`,
			account.AccountID, account.Name, account.IsActive, account.AcceptsEntries, account.LastUpdatedAt, account.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update account "+account.AccountID, err)
		}
		return nil
	})
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	accounts, err := r.getAccounts(ctx, `WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &accounts[0], nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	accounts, err := r.getAccounts(ctx, `WHERE company_id = $1 AND code = $2`, companyID, code)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, apperrors.NewNotFoundError("account " + code)
	}
	return &accounts[0], nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	accounts, err := r.getAccounts(ctx, `WHERE company_id = $1 AND account_id = ANY($2)`, companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	return r.getAccounts(ctx, `WHERE company_id = $1 ORDER BY code`, companyID)
}

func hasPostings(ctx context.Context, q querier, accountID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entry_details WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check postings of account "+accountID, err)
	}
	return exists, nil
}

func (r *PgxAccountRepository) HasPostings(ctx context.Context, accountID string) (bool, error) {
	return hasPostings(ctx, r.Pool, accountID)
}

func (r *PgxAccountRepository) HasChildren(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE parent_account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check children of account "+accountID, err)
	}
	return exists, nil
}
