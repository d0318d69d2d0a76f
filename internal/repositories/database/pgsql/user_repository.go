package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/SscSPs/contabilidad_ve/internal/models"
	"github.com/SscSPs/contabilidad_ve/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const fullUserSelectQuery = `
SELECT user_id, username, email, first_name, last_name, password_hash,
	created_at, created_by, last_updated_at, last_updated_by
FROM users
`

func (r *PgxUserRepository) findOne(ctx context.Context, filter string, arg any) (*domain.User, error) {
	rows, err := r.Pool.Query(ctx, fullUserSelectQuery+filter, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, apperrors.NewAppError(500, "failed to scan user", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, username, email, first_name, last_name, password_hash,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID, m.Username, m.Email, m.FirstName, m.LastName, m.PasswordHash,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "user "+m.Username)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, password_hash = $5, last_updated_at = $6, last_updated_by = $7
		WHERE user_id = $1;`,
		m.UserID, m.Email, m.FirstName, m.LastName, m.PasswordHash, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "user "+m.UserID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + m.UserID)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "WHERE user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "WHERE username = $1", username)
}
