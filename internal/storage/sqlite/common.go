package sqlite

import (
	"context"
	"database/sql"
	"time"

	"todo-store/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return errors.NewDatabaseError(operation, err)
}

// FormatTimeForDB formats a time.Time value as RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ExecuteWithTimeout runs a statement bounded by timeout when it is positive.
func ExecuteWithTimeout(ctx context.Context, db *sql.DB, timeout time.Duration, operation string, query string, args ...interface{}) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return HandleDatabaseError(operation, err)
	}
	return nil
}

// QueryValue reads a single string column. found is false on sql.ErrNoRows.
func QueryValue(ctx context.Context, db *sql.DB, timeout time.Duration, query string, args ...interface{}) (string, bool, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var value string
	err := db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, HandleDatabaseError("read slot", err)
	}
	return value, true, nil
}
