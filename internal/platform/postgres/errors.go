package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phrazzld/codele-api/internal/store"
)

// SQLSTATE codes the stores translate.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// rankedAttemptConstraint is the partial unique index allowing one ranked
// attempt per user and puzzle.
const rankedAttemptConstraint = "attempts_ranked_user_puzzle_key"

var codeErrors = map[string]error{
	uniqueViolationCode:     store.ErrDuplicate,
	foreignKeyViolationCode: store.ErrInvalidEntity,
	checkViolationCode:      store.ErrInvalidEntity,
	notNullViolationCode:    store.ErrInvalidEntity,
}

// MapError translates driver errors into store sentinels. The driver error
// stays in the message for logging. Unknown errors pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	sentinel, ok := codeErrors[pgErr.Code]
	if !ok {
		return err
	}
	if pgErr.ConstraintName != "" {
		return fmt.Errorf("%w (%s): %v", sentinel, pgErr.ConstraintName, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// isRankedAttemptConflict reports whether err is a second ranked attempt for
// the same user and puzzle. An unnamed unique violation on the attempts
// insert is treated the same way.
func isRankedAttemptConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}
	return pgErr.ConstraintName == "" || pgErr.ConstraintName == rankedAttemptConstraint
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func wrapErr(entity, operation string, err error) error {
	return store.NewStoreError(entity, operation, MapError(err))
}
