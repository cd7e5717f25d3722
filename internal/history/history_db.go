package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/hotkeyhub/internal/hotkeys"
	"github.com/studiowebux/hotkeyhub/internal/migrations"
)

const timestampLayout = "2006-01-02 15:04:05"

// Manager stores applied binding changes in sqlite. Every Manager gets its
// own session id so one process's edits can be told apart from another's.
type Manager struct {
	db        *sql.DB
	sessionID string
	vault     string
}

// NewManager opens (or creates) the change log at dbPath. Rows are scoped
// to vault, typically the vault directory.
func NewManager(dbPath, vault string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, sessionID: uuid.NewString(), vault: vault}, nil
}

// SessionID identifies the rows written by this Manager
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Record stores one change. It satisfies hotkeys.Recorder.
func (m *Manager) Record(ctx context.Context, c hotkeys.Change) error {
	previous, err := json.Marshal(c.Previous)
	if err != nil {
		return fmt.Errorf("failed to marshal previous bindings: %w", err)
	}
	current, err := json.Marshal(c.Current)
	if err != nil {
		return fmt.Errorf("failed to marshal current bindings: %w", err)
	}

	at := c.At
	if at.IsZero() {
		at = time.Now()
	}

	query := `
		INSERT INTO changes (
			session_id, timestamp, vault, command_id, action, chord, previous, current, summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = m.db.ExecContext(ctx, query,
		m.sessionID,
		at.Local().Format(timestampLayout),
		m.vault,
		c.CommandID,
		string(c.Action),
		c.Chord,
		string(previous),
		string(current),
		c.Summary,
	)
	if err != nil {
		return fmt.Errorf("failed to save change: %w", err)
	}
	return nil
}

// Query narrows Load
type Query struct {
	CommandID string
	SessionID string
	Limit     int
}

// Load returns changes for this vault, newest first
func (m *Manager) Load(ctx context.Context, q Query) ([]Entry, error) {
	where := []string{"vault = ?"}
	args := []any{m.vault}
	if q.CommandID != "" {
		where = append(where, "command_id = ?")
		args = append(args, q.CommandID)
	}
	if q.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, q.SessionID)
	}

	query := `
		SELECT id, session_id, timestamp, vault, command_id, action, chord, previous, current, summary
		FROM changes
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id DESC
	`
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry

	for rows.Next() {
		var e Entry
		var timestamp string
		var action string
		var chord sql.NullString
		var previousJSON, currentJSON string

		err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&timestamp,
			&e.Vault,
			&e.CommandID,
			&action,
			&chord,
			&previousJSON,
			&currentJSON,
			&e.Summary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		e.Action = hotkeys.Action(action)
		e.Chord = chord.String
		if err := json.Unmarshal([]byte(previousJSON), &e.Previous); err != nil {
			return nil, fmt.Errorf("failed to decode change %d: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(currentJSON), &e.Current); err != nil {
			return nil, fmt.Errorf("failed to decode change %d: %w", e.ID, err)
		}

		parsed, err := time.ParseInLocation(timestampLayout, timestamp, time.Local)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsed = time.Time{}
			}
		}
		e.Timestamp = parsed

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear deletes every change of this vault
func (m *Manager) Clear(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM changes WHERE vault = ?", m.vault)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Delete removes one change
func (m *Manager) Delete(ctx context.Context, id int64) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM changes WHERE id = ? AND vault = ?", id, m.vault)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// GetCount returns the number of changes stored for this vault
func (m *Manager) GetCount(ctx context.Context) (int, error) {
	var count int
	err := m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM changes WHERE vault = ?", m.vault).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
