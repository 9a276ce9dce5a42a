package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/restviews/restviews/types"
)

type Session interface {
	// Select scans all the rows into dest
	Select(ctx context.Context, dest interface{}, query string, values ...interface{}) error

	// Get scans a single row into dest
	Get(ctx context.Context, dest interface{}, query string, values ...interface{}) error

	// ExecuteIter executes a statement and returns the result set
	ExecuteIter(ctx context.Context, query string, values ...interface{}) (ResultSet, error)

	Close() error
}

type ResultSet interface {
	Columns() []string
	Values() []map[string]interface{}
}

type sqlxResultSet struct {
	columns []string
	values  []map[string]interface{}
}

func (r *sqlxResultSet) Columns() []string {
	return r.columns
}

func (r *sqlxResultSet) Values() []map[string]interface{} {
	return r.values
}

func newResultSet(rows *sqlx.Rows) (*sqlxResultSet, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0)
	for rows.Next() {
		row := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &sqlxResultSet{
		columns: columns,
		values:  types.ToJsonValues(items),
	}, nil
}

type SqlxSession struct {
	ref *sqlx.DB
}

func NewSqlxSession(ref *sqlx.DB) *SqlxSession {
	return &SqlxSession{ref: ref}
}

func (session *SqlxSession) Select(ctx context.Context, dest interface{}, query string, values ...interface{}) error {
	return session.ref.SelectContext(ctx, dest, query, values...)
}

func (session *SqlxSession) Get(ctx context.Context, dest interface{}, query string, values ...interface{}) error {
	return session.ref.GetContext(ctx, dest, query, values...)
}

func (session *SqlxSession) ExecuteIter(ctx context.Context, query string, values ...interface{}) (ResultSet, error) {
	rows, err := session.ref.QueryxContext(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	return newResultSet(rows)
}

func (session *SqlxSession) Close() error {
	return session.ref.Close()
}
