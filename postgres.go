package store

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresDriver runs the CRUD statements for entity T with identifier K
// through a caller-supplied Executor. Rows are mapped onto T with sqlx, using
// `db` tags.
type PostgresDriver[K comparable, T any] struct {
	exec Executor
	opt  *driverOption
}

func NewPostgresDriver[K comparable, T any](exec Executor, options ...DriverOption) PostgresDriver[K, T] {
	return PostgresDriver[K, T]{
		exec: exec,
		opt:  newDriverOption(options),
	}
}

func (p PostgresDriver[K, T]) FindAll(ctx context.Context, table string) ([]T, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}

	qry := selectAllStatement(table)
	p.logStatement(ctx, "find_all", qry, 0)

	rows := make([]T, 0)
	if err := p.exec.SelectContext(ctx, &rows, qry); err != nil {
		return nil, wrapPostgresError(err)
	}

	return rows, nil
}

// FindOne returns nil, nil when no row matches.
func (p PostgresDriver[K, T]) FindOne(ctx context.Context, table, idColumn string, id K) (*T, error) {
	if err := checkIdentifiers(table, idColumn); err != nil {
		return nil, err
	}

	qry := selectOneStatement(table, idColumn)
	p.logStatement(ctx, "find_one", qry, 1)

	var entity T
	if err := p.exec.GetContext(ctx, &entity, qry, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapPostgresError(err)
	}

	return &entity, nil
}

// InsertOne binds values positionally in the order of columns and returns the
// identifier read back through RETURNING.
func (p PostgresDriver[K, T]) InsertOne(ctx context.Context, table string, columns []string, values []any) (K, error) {
	var id K
	if err := checkIdentifiers(table, p.opt.returning); err != nil {
		return id, err
	}
	if err := checkColumns(columns, values); err != nil {
		return id, err
	}

	qry := insertStatement(table, columns, p.opt.returning)
	p.logStatement(ctx, "insert_one", qry, len(values))

	if err := p.exec.GetContext(ctx, &id, qry, values...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id, wrapUnknown(err, "insert into %s returned no %s", table, p.opt.returning)
		}
		return id, wrapPostgresError(err)
	}

	return id, nil
}

// UpdateOne binds the identifier after the values, as parameter n+1, and
// returns the number of rows affected. Zero means no row matched.
func (p PostgresDriver[K, T]) UpdateOne(ctx context.Context, table, idColumn string, id K, columns []string, values []any) (int64, error) {
	if err := checkIdentifiers(table, idColumn); err != nil {
		return 0, err
	}
	if err := checkColumns(columns, values); err != nil {
		return 0, err
	}

	qry := updateStatement(table, columns, idColumn)
	args := make([]any, 0, len(values)+1)
	args = append(args, values...)
	args = append(args, id)
	p.logStatement(ctx, "update_one", qry, len(args))

	return p.execAffected(ctx, qry, args)
}

func (p PostgresDriver[K, T]) DeleteOne(ctx context.Context, table, idColumn string, id K) (int64, error) {
	if err := checkIdentifiers(table, idColumn); err != nil {
		return 0, err
	}

	qry := deleteStatement(table, idColumn)
	p.logStatement(ctx, "delete_one", qry, 1)

	return p.execAffected(ctx, qry, []any{id})
}

func (p PostgresDriver[K, T]) execAffected(ctx context.Context, qry string, args []any) (int64, error) {
	res, err := p.exec.ExecContext(ctx, qry, args...)
	if err != nil {
		return 0, wrapPostgresError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapUnknown(err, "rows affected unavailable")
	}

	return n, nil
}

func (p PostgresDriver[K, T]) logStatement(ctx context.Context, op, qry string, nargs int) {
	p.opt.logger.DebugContext(ctx, "executing statement", "op", op, "statement", qry, "args", nargs)
}
