package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sentraid/riskauth/internal/entity"
)

const uniqueViolationCode = "23505"

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Save(ctx context.Context, account entity.Account) error {
	q := `
	INSERT INTO accounts (id, email, name, phone, blocked, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		ctx,
		q,
		account.ID,
		account.Email,
		account.Name,
		account.Phone,
		account.Blocked,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return entity.ErrAlreadyExists
		}

		return err
	}

	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (entity.Account, error) {
	var account entity.Account

	q := `
		SELECT id, email, name, phone, blocked, created_at
		FROM accounts
		WHERE email = $1
	`

	err := r.db.QueryRow(ctx, q, email).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.Phone,
		&account.Blocked,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account, entity.ErrNotFound
		}

		return account, err
	}

	return account, nil
}

func (r *AccountRepository) CountAll(ctx context.Context) (int, error) {
	var count int

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *AccountRepository) CountBlocked(ctx context.Context) (int, error) {
	var count int

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE blocked = TRUE`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CreateWithAttempt inserts the account and claims the registration attempt
// in one transaction: the attempt gets the new account id and its success
// flag set. Either both rows land or neither does.
func (r *AccountRepository) CreateWithAttempt(ctx context.Context, account entity.Account, attemptID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(
		ctx,
		`INSERT INTO accounts (id, email, name, phone, blocked, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID,
		account.Email,
		account.Name,
		account.Phone,
		account.Blocked,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return entity.ErrAlreadyExists
		}

		return err
	}

	result, err := tx.Exec(
		ctx,
		`UPDATE attempts SET account_id = $1, success = TRUE WHERE id = $2`,
		account.ID,
		attemptID,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return tx.Commit(ctx)
}
