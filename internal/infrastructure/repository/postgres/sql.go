package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

const (
	pgUniqueViolation      pq.ErrorCode = "23505"
	pgSerializationFailure pq.ErrorCode = "40001"
	pgDeadlockDetected     pq.ErrorCode = "40P01"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isConflict reports errors a concurrent writer on the same natural key can
// cause.
func isConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	return false
}

// withConflictRetry runs fn, retries it once on a conflict and reports a
// second conflict as usecase.ErrPersistenceConflict.
func withConflictRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || !isConflict(err) {
		return err
	}

	err = fn(ctx)
	if err == nil {
		return nil
	}
	if isConflict(err) {
		return fmt.Errorf("%w: %s: %v", usecase.ErrPersistenceConflict, op, err)
	}
	return err
}

// containsPattern builds an ILIKE pattern matching term anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}

func nullTime(value time.Time) sql.NullTime {
	return sql.NullTime{Time: value, Valid: !value.IsZero()}
}

func nullInt32(value *int) sql.NullInt32 {
	if value == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*value), Valid: true}
}

func intPtr(value sql.NullInt32) *int {
	if !value.Valid {
		return nil
	}
	n := int(value.Int32)
	return &n
}
