// Package queries stores named JMESPath expressions so long output filters
// can be reused as --query @name.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/hotkeyhub/internal/filter"
	"github.com/studiowebux/hotkeyhub/internal/migrations"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// RefPrefix marks a --query value as the name of a saved query
const RefPrefix = "@"

// Query is a saved JMESPath expression
type Query struct {
	ID         int       `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Expression string    `json:"expression" yaml:"expression"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// Manager handles saved query persistence
type Manager struct {
	db *sql.DB
}

// NewManager opens the database at dbPath, creating it when missing
func NewManager(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save stores expression under name, replacing an older expression with
// the same name. It reports whether a query was replaced.
func (m *Manager) Save(ctx context.Context, name, expression string) (bool, error) {
	name = strings.TrimSpace(strings.TrimPrefix(name, RefPrefix))
	expression = strings.TrimSpace(expression)
	if name == "" {
		return false, fmt.Errorf("query name cannot be empty")
	}
	if expression == "" {
		return false, fmt.Errorf("expression cannot be empty")
	}
	if !filter.IsValidJMESPath(expression) {
		return false, fmt.Errorf("invalid JMESPath expression '%s'", expression)
	}

	var exists bool
	err := m.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM saved_queries WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check query: %w", err)
	}

	if exists {
		_, err = m.db.ExecContext(ctx, "UPDATE saved_queries SET expression = ? WHERE name = ?", expression, name)
	} else {
		_, err = m.db.ExecContext(ctx, `
			INSERT INTO saved_queries (name, expression, created_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
		`, name, expression)
	}
	if err != nil {
		return false, fmt.Errorf("failed to save query: %w", err)
	}

	return exists, nil
}

// Get returns the query called name
func (m *Manager) Get(ctx context.Context, name string) (Query, error) {
	name = strings.TrimPrefix(name, RefPrefix)

	var q Query
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, expression, created_at
		FROM saved_queries
		WHERE name = ?
	`, name).Scan(&q.ID, &q.Name, &q.Expression, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Query{}, fmt.Errorf("query %q: %w", name, types.ErrNotFound)
	}
	if err != nil {
		return Query{}, fmt.Errorf("failed to load query: %w", err)
	}
	return q, nil
}

// Delete removes a query by name
func (m *Manager) Delete(ctx context.Context, name string) error {
	name = strings.TrimPrefix(name, RefPrefix)

	result, err := m.db.ExecContext(ctx, "DELETE FROM saved_queries WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete query: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("query %q: %w", name, types.ErrNotFound)
	}

	return nil
}

// List returns every saved query ordered by name
func (m *Manager) List(ctx context.Context) ([]Query, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, expression, created_at
		FROM saved_queries
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved queries: %w", err)
	}
	defer rows.Close()

	queries := []Query{}
	for rows.Next() {
		var q Query
		if err := rows.Scan(&q.ID, &q.Name, &q.Expression, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		queries = append(queries, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queries: %w", err)
	}

	return queries, nil
}

// Resolve returns the expression for a --query value. Values starting
// with @ name a saved query; anything else is returned unchanged.
func (m *Manager) Resolve(ctx context.Context, value string) (string, error) {
	if !strings.HasPrefix(value, RefPrefix) {
		return value, nil
	}
	q, err := m.Get(ctx, value)
	if err != nil {
		return "", err
	}
	return q.Expression, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
