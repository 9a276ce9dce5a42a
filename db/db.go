package db

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Db represents a connection to a db
type Db struct {
	session     Session
	placeholder sq.PlaceholderFormat
}

// NewDb connects to the database, queries are built with "$n" placeholders
// when driver is postgres
func NewDb(driver string, dsn string) (*Db, error) {
	session, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}

	if session == nil {
		return nil, errors.New("failed to create session")
	}

	placeholder := sq.PlaceholderFormat(sq.Question)
	if driver == "postgres" {
		placeholder = sq.Dollar
	}
	return NewDbWithSession(&SqlxSession{ref: session}, placeholder), nil
}

func NewDbWithSession(session Session, placeholder sq.PlaceholderFormat) *Db {
	return &Db{
		session:     session,
		placeholder: placeholder,
	}
}

// Select scans the rows of the query into dest, a pointer to a slice
func (db *Db) Select(ctx context.Context, dest interface{}, builder sq.SelectBuilder) error {
	query, args, err := builder.PlaceholderFormat(db.placeholder).ToSql()
	if err != nil {
		return err
	}
	return db.session.Select(ctx, dest, query, args...)
}

// Rows returns the rows of the query as column name to value maps
func (db *Db) Rows(ctx context.Context, builder sq.SelectBuilder) (ResultSet, error) {
	query, args, err := builder.PlaceholderFormat(db.placeholder).ToSql()
	if err != nil {
		return nil, err
	}
	return db.session.ExecuteIter(ctx, query, args...)
}

// Count returns the number of rows of the query. It does not remove ORDER BY,
// LIMIT or OFFSET clauses, build the query without them.
func (db *Db) Count(ctx context.Context, builder sq.SelectBuilder) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		FromSelect(builder, "q").
		PlaceholderFormat(db.placeholder).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := db.session.Get(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (db *Db) Close() error {
	return db.session.Close()
}
