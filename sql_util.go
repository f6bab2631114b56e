package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Executor runs relational statements. *sqlx.DB (a pool), *sqlx.Tx and
// *sqlx.Conn all satisfy it; with a *sqlx.Tx the commit boundary stays with
// the caller.
type Executor interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var (
	_ Executor = (*sqlx.DB)(nil)
	_ Executor = (*sqlx.Tx)(nil)
	_ Executor = (*sqlx.Conn)(nil)
)

// RunInTx runs fn inside a transaction on db, committing when fn returns nil
// and rolling back otherwise.
func RunInTx(ctx context.Context, db *sqlx.DB, fn func(tx Executor) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapPostgresError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, wrapPostgresError(rbErr))
		}
		return err
	}

	return wrapPostgresError(tx.Commit())
}

func selectAllStatement(table string) string {
	return fmt.Sprintf("SELECT * FROM %s", table)
}

func selectOneStatement(table, idColumn string) string {
	return fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", table, idColumn)
}

func insertStatement(table string, columns []string, returning string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), returning)
}

func updateStatement(table string, columns []string, idColumn string) string {
	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(sets, ", "), idColumn, len(columns)+1)
}

func deleteStatement(table, idColumn string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, idColumn)
}

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !ValidIdentifier(name) {
			return newUnknownError("invalid identifier %q", name)
		}
	}
	return nil
}

func checkColumns(columns []string, values []any) error {
	if len(columns) == 0 {
		return newUnknownError("no columns to write")
	}
	if len(columns) != len(values) {
		return newUnknownError("%d columns but %d values", len(columns), len(values))
	}
	return checkIdentifiers(columns...)
}

// Result mapping failures carry no error type, only these message prefixes.
var scanErrorPrefixes = []string{
	"sql: Scan error",          // database/sql Rows.Scan conversion
	"sql: expected",            // database/sql Rows.Scan argument count
	"missing destination name", // sqlx, column without a matching db field
	"scannable dest type",      // sqlx, scalar dest with several columns
	"non-struct dest type",     // sqlx, non-struct dest with several columns
}

func isScanError(err error) bool {
	msg := err.Error()
	for _, prefix := range scanErrorPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// wrapPostgresError classifies a native error: integrity constraint failures
// (SQLSTATE class 23) become ConstraintViolation, result mapping failures
// become Unknown, everything else is a ConnectionError.
func wrapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var re *RepositoryError
	if errors.As(err, &re) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return newConstraintViolation(pgErr.Message, err)
		}
		return newConnectionError(err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return newConstraintViolation(pqErr.Message, err)
		}
		return newConnectionError(err)
	}

	if isScanError(err) {
		return wrapUnknown(err, "failed to map result")
	}

	return newConnectionError(err)
}
