package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sentraid/riskauth/internal/entity"
)

type OTPRepository struct {
	db *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Save(ctx context.Context, challenge entity.OTPChallenge) error {
	q := `
	INSERT INTO otp_challenges (id, email, code_hash, verified, expires_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		ctx,
		q,
		challenge.ID,
		challenge.Email,
		challenge.CodeHash,
		challenge.Verified,
		challenge.ExpiresAt,
		challenge.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// Unverified returns all unverified challenges for the email, newest
// first. Expired rows are included: expiry is the manager's call, so a
// matching-but-expired code can be distinguished from no match at all.
func (r *OTPRepository) Unverified(ctx context.Context, email string) ([]entity.OTPChallenge, error) {
	q := `
	SELECT id, email, code_hash, verified, expires_at, created_at
	FROM otp_challenges
	WHERE email = $1 AND verified = FALSE
	ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, q, email)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var challenges []entity.OTPChallenge

	for rows.Next() {
		var c entity.OTPChallenge

		err := rows.Scan(&c.ID, &c.Email, &c.CodeHash, &c.Verified, &c.ExpiresAt, &c.CreatedAt)
		if err != nil {
			return nil, err
		}

		challenges = append(challenges, c)
	}

	return challenges, rows.Err()
}

// Consume atomically marks the challenge verified and the attempt
// successful. The verified=FALSE guard makes the flip single-use: a
// raced second consume finds no row and reports ErrCodeInvalid.
func (r *OTPRepository) Consume(ctx context.Context, challengeID, attemptID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(
		ctx,
		`UPDATE otp_challenges SET verified = TRUE WHERE id = $1 AND verified = FALSE`,
		challengeID,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrCodeInvalid
	}

	_, err = tx.Exec(
		ctx,
		`UPDATE attempts SET success = TRUE WHERE id = $1 AND success = FALSE`,
		attemptID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *OTPRepository) FindByID(ctx context.Context, challengeID uuid.UUID) (entity.OTPChallenge, error) {
	var c entity.OTPChallenge

	q := `
	SELECT id, email, code_hash, verified, expires_at, created_at
	FROM otp_challenges
	WHERE id = $1
	`

	err := r.db.QueryRow(ctx, q, challengeID).Scan(
		&c.ID, &c.Email, &c.CodeHash, &c.Verified, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, entity.ErrNotFound
		}

		return c, err
	}

	return c, nil
}
