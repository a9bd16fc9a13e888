// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/stockroom/lib/authorization"
	"github.com/bureau-foundation/stockroom/lib/sqlitepool"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stock (
	product  TEXT PRIMARY KEY NOT NULL,
	quantity INTEGER NOT NULL CHECK (quantity >= 0)
);

CREATE TABLE IF NOT EXISTS operators (
	operator_id INTEGER PRIMARY KEY NOT NULL,
	position    INTEGER NOT NULL
);
`

// SQLite is the database backend.
type SQLite struct {
	pool *sqlitepool.Pool
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	pool, err := sqlitepool.Open(ctx, sqlitepool.Config{
		Path:   path,
		Schema: sqliteSchema,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &SQLite{pool: pool}, nil
}

// LoadLedger reads every stock row.
func (s *SQLite) LoadLedger(ctx context.Context) (map[string]int64, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	defer s.pool.Put(conn)

	ledger := make(map[string]int64)
	err = sqlitex.Execute(conn, "SELECT product, quantity FROM stock", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ledger[stmt.ColumnText(0)] = stmt.ColumnInt64(1)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("storage: reading stock: %w", err)
	}
	return ledger, nil
}

// SaveLedger replaces the stock table with snapshot.
func (s *SQLite) SaveLedger(ctx context.Context, snapshot map[string]int64) error {
	err := s.pool.Transaction(ctx, func(conn *sqlite.Conn) error {
		if err := sqlitex.Execute(conn, "DELETE FROM stock", nil); err != nil {
			return err
		}
		for product, quantity := range snapshot {
			err := sqlitex.Execute(conn, "INSERT INTO stock (product, quantity) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []any{product, quantity},
			})
			if err != nil {
				return fmt.Errorf("inserting %q: %w", product, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: writing stock: %w", err)
	}
	return nil
}

// LoadOperators reads the operators in grant order.
func (s *SQLite) LoadOperators(ctx context.Context) ([]authorization.OperatorID, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	defer s.pool.Put(conn)

	var operators []authorization.OperatorID
	err = sqlitex.Execute(conn, "SELECT operator_id FROM operators ORDER BY position", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			operators = append(operators, authorization.OperatorID(stmt.ColumnInt64(0)))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("storage: reading operators: %w", err)
	}
	return operators, nil
}

// SaveOperators replaces the operators table with operators.
func (s *SQLite) SaveOperators(ctx context.Context, operators []authorization.OperatorID) error {
	err := s.pool.Transaction(ctx, func(conn *sqlite.Conn) error {
		if err := sqlitex.Execute(conn, "DELETE FROM operators", nil); err != nil {
			return err
		}
		for position, operator := range operators {
			err := sqlitex.Execute(conn, "INSERT INTO operators (operator_id, position) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []any{int64(operator), position},
			})
			if err != nil {
				return fmt.Errorf("inserting %d: %w", operator, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: writing operators: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.pool.Close()
}
