package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/session"
)

// CreateTestModel creates a Model over a fresh example vault
func CreateTestModel(t *testing.T) *Model {
	t.Helper()

	tempDir := t.TempDir()
	sess, err := session.Open(context.Background(), session.Options{
		VaultDir:      filepath.Join(tempDir, "vault"),
		EmulatedOS:    keys.PlatformLinux,
		HistoryPath:   filepath.Join(tempDir, "test.db"),
		CreateExample: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test session: %v", err)
	}
	t.Cleanup(func() {
		sess.Close()
	})

	m := New(sess, nil)
	return &m
}

// SendKey feeds one key press to the model and returns the resulting command
func SendKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// Runes builds the key message for typed characters
func Runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// RunAction executes a command produced by an edit key and feeds its
// result back into the model. Timers and other messages are dropped.
func RunAction(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command, got nil")
	}
	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	if !ok {
		t.Fatalf("Expected actionDoneMsg, got %T", msg)
	}
	m.Update(done)
}

// SelectCommand moves the cursor onto id
func SelectCommand(t *testing.T, m *Model, id string) {
	t.Helper()
	for i, rec := range m.records {
		if rec.ID == id {
			m.cursor = i
			return
		}
	}
	t.Fatalf("Command %s is not listed", id)
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
