// Package database connects the wrapper to SQL databases through
// database/sql drivers.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/satishbabariya/hdbwrap/query/model"
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
	"github.com/satishbabariya/hdbwrap/runtime"
)

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// ErrUnknownProvider is returned for a provider no dialect is registered for.
var ErrUnknownProvider = errors.New("unknown database provider")

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

func (c Config) withDefaults() Config {
	if c.MaxConnections <= 0 {
		c.MaxConnections = 10
	}
	if c.MaxIdleTime <= 0 {
		c.MaxIdleTime = 300
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10
	}
	return c
}

// dialect describes how one database is opened and queried.
type dialect struct {
	name        SQLDialect
	driver      string
	placeholder sqlgen.Placeholder
	dsn         func(url string) (string, error)
	pool        func(db *sql.DB, cfg Config)
	setup       func(ctx context.Context, db *sql.DB) error
	primaryKey  func(table string) string
}

var dialects = map[SQLDialect]dialect{}

func register(d dialect) {
	dialects[d.name] = d
}

// Dialect resolves a provider name, falling back to the URL scheme when
// the provider is empty.
func Dialect(provider, url string) (SQLDialect, error) {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		switch {
		case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
			p = "postgres"
		case strings.HasPrefix(url, "mysql://"):
			p = "mysql"
		default:
			p = "sqlite"
		}
	}
	switch p {
	case "postgres", "postgresql":
		return PostgreSQL, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
}

// Conn is a runtime.Connection over a *sql.DB. A transaction is begun by
// the first statement and ended by Commit or Rollback.
type Conn struct {
	db      *sql.DB
	dialect dialect
	tx      *sql.Tx
}

// Open opens and pings the database described by cfg.
func Open(ctx context.Context, cfg Config) (*Conn, error) {
	name, err := Dialect(cfg.Provider, cfg.URL)
	if err != nil {
		return nil, err
	}
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	cfg = cfg.withDefaults()

	dsn := cfg.URL
	if d.dsn != nil {
		if dsn, err = d.dsn(cfg.URL); err != nil {
			return nil, fmt.Errorf("invalid database url: %w", err)
		}
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.pool != nil {
		d.pool(db, cfg)
	} else {
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(cfg.MaxConnections / 2)
	}
	db.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if d.setup != nil {
		if err := d.setup(pingCtx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Conn{db: db, dialect: d}, nil
}

// Dialect returns the SQL dialect of the connection.
func (c *Conn) Dialect() SQLDialect {
	return c.dialect.name
}

// PrimaryKeyFinder returns the catalog lookup of the connection's dialect.
func (c *Conn) PrimaryKeyFinder() runtime.PrimaryKeyFinder {
	return runtime.PrimaryKeyQuery(c.dialect.primaryKey)
}

func (c *Conn) begin(ctx context.Context) (*sql.Tx, error) {
	if c.tx != nil {
		return c.tx, nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	c.tx = tx
	return tx, nil
}

// Exec runs raw SQL text inside the current transaction.
func (c *Conn) Exec(ctx context.Context, query string) (model.Result, error) {
	tx, err := c.begin(ctx)
	if err != nil {
		return model.Result{}, err
	}
	query = sqlgen.Rebind(query, c.dialect.placeholder)
	if returnsRows(query) {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return model.Result{}, err
		}
		return scan(rows)
	}
	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		return model.Result{}, err
	}
	return affected(res)
}

// Prepare prepares query inside the current transaction.
func (c *Conn) Prepare(ctx context.Context, query string) (runtime.Statement, error) {
	tx, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	query = sqlgen.Rebind(query, c.dialect.placeholder)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &statement{stmt: stmt, rows: returnsRows(query)}, nil
}

// Commit commits the current transaction, if any.
func (c *Conn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return tx.Commit()
}

// Rollback rolls back the current transaction, if any.
func (c *Conn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return tx.Rollback()
}

// Close rolls back an open transaction and closes the database.
func (c *Conn) Close() error {
	var rerr error
	if c.tx != nil {
		rerr = c.tx.Rollback()
		c.tx = nil
	}
	return errors.Join(rerr, c.db.Close())
}

// WithDB opens a connection from cfg, hands a wrapper around it to fn and
// closes the connection once fn returns. fn's result is passed through.
func WithDB[T any](ctx context.Context, cfg Config, fn func(*runtime.Wrapper) (T, error), opts ...runtime.Option) (T, error) {
	var zero T
	conn, err := Open(ctx, cfg)
	if err != nil {
		return zero, err
	}
	defer conn.Close()

	opts = append([]runtime.Option{runtime.WithPrimaryKeyFinder(conn.PrimaryKeyFinder())}, opts...)
	return fn(runtime.New(conn, opts...))
}

type statement struct {
	stmt *sql.Stmt
	rows bool
}

func (s *statement) Exec(ctx context.Context, args ...any) (model.Result, error) {
	if s.rows {
		rows, err := s.stmt.QueryContext(ctx, args...)
		if err != nil {
			return model.Result{}, err
		}
		return scan(rows)
	}
	res, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		return model.Result{}, err
	}
	return affected(res)
}

func (s *statement) Close() error {
	return s.stmt.Close()
}

var rowKeywords = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"VALUES":  true,
	"PRAGMA":  true,
	"SHOW":    true,
	"CALL":    true,
	"EXPLAIN": true,
}

// returnsRows reports whether query produces a result set, judged by its
// leading keyword or a RETURNING clause.
func returnsRows(query string) bool {
	q := strings.TrimLeft(query, " \t\r\n(")
	end := strings.IndexAny(q, " \t\r\n(")
	if end < 0 {
		end = len(q)
	}
	if rowKeywords[strings.ToUpper(q[:end])] {
		return true
	}
	return strings.Contains(strings.ToUpper(q), " RETURNING ")
}

func scan(rows *sql.Rows) (model.Result, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return model.Result{}, err
	}

	out := []*model.Row{}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return model.Result{}, err
		}
		row := &model.Row{}
		for i, col := range cols {
			row.Set(col, model.Of(vals[i]))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return model.Result{}, err
	}
	return model.Result{Rows: out}, nil
}

func affected(res sql.Result) (model.Result, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return model.Result{}, err
	}
	return model.Result{RowsAffected: n}, nil
}

// Ensure Conn implements runtime.Connection.
var _ runtime.Connection = (*Conn)(nil)
