// Copyright © 2024 The Arrow authors

// Package store persists the definitions registered with an interpreter so
// that a registry can be rebuilt after a restart.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/orion-engine/arrow/lisp"
	"github.com/sirupsen/logrus"
)

// DefaultTable is the name of the journal table.
const DefaultTable = "arrow_journal"

var validTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Option configures a Journal.
type Option func(*Journal) error

// WithTable stores definitions in table instead of DefaultTable.
func WithTable(table string) Option {
	return func(j *Journal) error {
		if !validTable.MatchString(table) {
			return fmt.Errorf("invalid journal table name: %q", table)
		}
		j.table = table
		return nil
	}
}

// WithLogger sets the journal logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(j *Journal) error {
		j.logger = logger
		return nil
	}
}

// Journal is a lisp.Journal backed by a SQL table.  Sources are replayed in
// the order they were appended.
type Journal struct {
	db      *sql.DB
	dialect Dialect
	table   string
	logger  logrus.FieldLogger
	owned   bool

	insert string
	query  string
}

var _ lisp.Journal = (*Journal)(nil)

// Open connects to the database named by dsn with the given journal driver
// and creates the journal table if necessary.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Journal, error) {
	d, ok := LookupDialect(driver)
	if !ok {
		return nil, fmt.Errorf("unknown journal driver %q (supported: %s)", driver, strings.Join(Drivers(), ", "))
	}
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, err
	}
	if d.Name == "sqlite" {
		// SQLite permits one writer; sharing a connection avoids
		// SQLITE_BUSY between the journal's own statements.
		db.SetMaxOpenConns(1)
	}
	j, err := New(ctx, db, d.Name, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	j.owned = true
	return j, nil
}

// New returns a Journal that uses an existing database handle.  Closing the
// Journal does not close db.
func New(ctx context.Context, db *sql.DB, driver string, opts ...Option) (*Journal, error) {
	d, ok := LookupDialect(driver)
	if !ok {
		return nil, fmt.Errorf("unknown journal driver %q", driver)
	}
	j := &Journal{
		db:      db,
		dialect: d,
		table:   DefaultTable,
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		if err := opt(j); err != nil {
			return nil, err
		}
	}
	j.insert = fmt.Sprintf("INSERT INTO %s (source, created_at) VALUES (%s, %s)",
		j.table, d.Placeholder(1), d.Placeholder(2))
	j.query = fmt.Sprintf("SELECT source FROM %s ORDER BY seq", j.table)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("journal database unavailable: %w", err)
	}
	if _, err := db.ExecContext(ctx, d.CreateTable(j.table)); err != nil {
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	j.logger.WithFields(logrus.Fields{
		"driver": d.Name,
		"table":  j.table,
	}).Debug("journal opened")
	return j, nil
}

// Dialect returns the SQL dialect of the journal database.
func (j *Journal) Dialect() Dialect {
	return j.dialect
}

// Append implements lisp.Journal.
func (j *Journal) Append(ctx context.Context, source string) error {
	_, err := j.db.ExecContext(ctx, j.insert, source, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("journal append: %w", err)
	}
	j.logger.WithField("bytes", len(source)).Trace("journal append")
	return nil
}

// Sources implements lisp.Journal.
func (j *Journal) Sources(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, j.query)
	if err != nil {
		return nil, fmt.Errorf("journal read: %w", err)
	}
	defer rows.Close()
	var sources []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, fmt.Errorf("journal read: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal read: %w", err)
	}
	return sources, nil
}

// Close closes the database if the Journal opened it.
func (j *Journal) Close() error {
	if !j.owned {
		return nil
	}
	return j.db.Close()
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
