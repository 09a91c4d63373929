package repository

import (
	"context"
	"errors"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sentraid/riskauth/internal/entity"
)

const attemptColumns = `
	id, account_id, email, ip_address, device_fingerprint,
	location_country, location_city, location_region,
	risk_score, risk_level, success, created_at
`

// AttemptRepository is the append-only attempt ledger. Rows are never
// deleted; the only update ever issued is the success=false->true flip.
type AttemptRepository struct {
	db *pgxpool.Pool
}

func NewAttemptRepository(db *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Save(ctx context.Context, attempt entity.Attempt) error {
	q := `
	INSERT INTO attempts (` + attemptColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		ctx,
		q,
		attempt.ID,
		attempt.AccountID,
		attempt.Email,
		attempt.IPAddress,
		attempt.DeviceFingerprint,
		attempt.Location.Country,
		attempt.Location.City,
		attempt.Location.Region,
		attempt.RiskScore,
		attempt.RiskLevel,
		attempt.Success,
		attempt.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// MarkSuccess flips the success flag of an unresolved attempt. A second
// call for the same attempt returns ErrAttemptClosed: the flag, once set,
// is never written again.
func (r *AttemptRepository) MarkSuccess(ctx context.Context, attemptID uuid.UUID) error {
	q := `UPDATE attempts SET success = TRUE WHERE id = $1 AND success = FALSE`

	result, err := r.db.Exec(ctx, q, attemptID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return r.markSuccessMissReason(ctx, attemptID)
	}

	return nil
}

func (r *AttemptRepository) markSuccessMissReason(ctx context.Context, attemptID uuid.UUID) error {
	var success bool

	err := r.db.QueryRow(ctx, `SELECT success FROM attempts WHERE id = $1`, attemptID).Scan(&success)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.ErrNotFound
		}

		return err
	}

	return entity.ErrAttemptClosed
}

func (r *AttemptRepository) CountByEmail(ctx context.Context, email string, since time.Time) (int, error) {
	var count int

	q := `
		SELECT COUNT(*)
		FROM attempts
		WHERE email = $1 AND created_at > $2
	`

	err := r.db.QueryRow(ctx, q, email, since).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *AttemptRepository) CountFailedByEmail(ctx context.Context, email string, since time.Time) (int, error) {
	var count int

	q := `
		SELECT COUNT(*)
		FROM attempts
		WHERE email = $1 AND success = FALSE AND created_at > $2
	`

	err := r.db.QueryRow(ctx, q, email, since).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *AttemptRepository) SuccessfulDevices(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	q := `
		SELECT DISTINCT device_fingerprint
		FROM attempts
		WHERE account_id = $1 AND success = TRUE
	`

	rows, err := r.db.Query(ctx, q, accountID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var devices []string

	for rows.Next() {
		var device string

		err := rows.Scan(&device)
		if err != nil {
			return nil, err
		}

		devices = append(devices, device)
	}

	return devices, rows.Err()
}

func (r *AttemptRepository) LastSuccessful(ctx context.Context, accountID uuid.UUID) (entity.Attempt, error) {
	q := `
		SELECT ` + attemptColumns + `
		FROM attempts
		WHERE account_id = $1 AND success = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.queryOne(ctx, q, accountID)
}

func (r *AttemptRepository) Recent(ctx context.Context, limit int) ([]entity.Attempt, error) {
	q := `
		SELECT ` + attemptColumns + `
		FROM attempts
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var attempts []entity.Attempt

	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}

		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

func (r *AttemptRepository) CountAll(ctx context.Context) (int, error) {
	var count int

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM attempts`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *AttemptRepository) CountByLevel(ctx context.Context) (map[entity.RiskLevel]int, error) {
	q := `
		SELECT risk_level, COUNT(*)
		FROM attempts
		GROUP BY risk_level
	`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	distribution := make(map[entity.RiskLevel]int)

	for rows.Next() {
		var (
			level entity.RiskLevel
			count int
		)

		err := rows.Scan(&level, &count)
		if err != nil {
			return nil, err
		}

		distribution[level] = count
	}

	return distribution, rows.Err()
}

func (r *AttemptRepository) queryOne(ctx context.Context, q string, args ...any) (entity.Attempt, error) {
	attempt, err := scanAttempt(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attempt, entity.ErrNotFound
		}

		return attempt, err
	}

	return attempt, nil
}

func scanAttempt(row pgx.Row) (entity.Attempt, error) {
	var attempt entity.Attempt

	err := row.Scan(
		&attempt.ID,
		&attempt.AccountID,
		&attempt.Email,
		&attempt.IPAddress,
		&attempt.DeviceFingerprint,
		&attempt.Location.Country,
		&attempt.Location.City,
		&attempt.Location.Region,
		&attempt.RiskScore,
		&attempt.RiskLevel,
		&attempt.Success,
		&attempt.CreatedAt,
	)

	return attempt, err
}
