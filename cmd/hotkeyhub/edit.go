package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/studiowebux/hotkeyhub/internal/cli"
	"github.com/studiowebux/hotkeyhub/internal/history"
	"github.com/studiowebux/hotkeyhub/internal/log"
	"github.com/studiowebux/hotkeyhub/internal/session"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

func addEditCommands(root *cobra.Command) {
	assignCmd := &cobra.Command{
		Use:   "assign <command-id> <chord>",
		Short: "Add a chord to a command's hotkeys",
		Long: `Add a chord to a command's hotkeys. The defaults are kept.

Chords are written as modifiers and a key joined by '+'. Mod is Ctrl on
Windows and Linux and Cmd on macOS.

Examples:
  hotkeyhub assign editor:toggle-code Mod+E
  hotkeyhub assign app:reload Mod+Shift+R`,
		Args: cobra.ExactArgs(2),
		RunE: withSession(runAssign),
	}

	removeCmd := &cobra.Command{
		Use:   "remove <command-id> <chord>",
		Short: "Remove a chord from a command's hotkeys",
		Args:  cobra.ExactArgs(2),
		RunE:  withSession(runRemove),
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <command-id>",
		Short: "Drop a command's custom hotkeys",
		Args:  cobra.ExactArgs(1),
		RunE:  withSession(runRestore),
	}

	undoCmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the last hotkey change",
		Args:  cobra.NoArgs,
		RunE:  withSession(runUndo),
	}

	revertCmd := &cobra.Command{
		Use:   "revert <command-id>",
		Short: "Put a command's hotkeys back to what they were before its edits",
		Args:  cobra.ExactArgs(1),
		RunE:  withSession(runRevert),
	}

	root.AddCommand(assignCmd, removeCmd, restoreCmd, undoCmd, revertCmd)
}

// editResult is printed by the edit commands
type editResult struct {
	ID      string                `json:"id" yaml:"id"`
	Changed bool                  `json:"changed" yaml:"changed"`
	Hotkeys []types.HotkeyBinding `json:"hotkeys" yaml:"hotkeys"`
}

// printEdit prints a command's bindings after an edit
func printEdit(sess *session.Session, p *cli.Printer, id string, changed bool, done string) error {
	rec, _ := sess.Commands.Command(id)
	result := editResult{ID: id, Changed: changed, Hotkeys: rec.HotkeysAll}
	opts := listOptions(sess, types.AllGroupID)
	return p.Print(result, func(w io.Writer) error {
		if !changed {
			_, err := fmt.Fprintf(w, "No change for %s\n", id)
			return err
		}
		_, err := fmt.Fprintf(w, "%s %s: %s\n", done, id, cli.FormatBindings(rec.HotkeysAll, opts, id))
		return err
	})
}

// editable resolves a command id and rejects system shortcuts
func editable(sess *session.Session, id string) (types.CommandRecord, error) {
	rec, err := sess.ResolveCommand(id)
	if err != nil {
		return rec, err
	}
	if rec.IsSystem {
		return rec, fmt.Errorf("%s is a system shortcut: %w", rec.ID, types.ErrNotEditable)
	}
	return rec, nil
}

func runAssign(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	rec, err := editable(sess, args[0])
	if err != nil {
		return err
	}
	b, err := types.ParseBinding(args[1])
	if err != nil {
		return err
	}

	changed, err := sess.Editor.AssignAdditive(ctx, rec.ID, b)
	if err != nil {
		return fmt.Errorf("failed to assign %s: %w", args[1], err)
	}
	sess.Commands.AddRecentCommand(rec.ID)
	return printEdit(sess, p, rec.ID, changed, "Assigned")
}

func runRemove(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	rec, err := editable(sess, args[0])
	if err != nil {
		return err
	}
	b, err := types.ParseBinding(args[1])
	if err != nil {
		return err
	}

	changed, err := sess.Editor.RemoveSingle(ctx, rec.ID, b)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", args[1], err)
	}
	return printEdit(sess, p, rec.ID, changed, "Removed")
}

func runRestore(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	rec, err := editable(sess, args[0])
	if err != nil {
		return err
	}

	changed, err := sess.Editor.RestoreDefaults(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to restore %s: %w", rec.ID, err)
	}
	return printEdit(sess, p, rec.ID, changed, "Restored")
}

// runUndo undoes the newest stored change. Each invocation is a new
// process, so the undo slot is seeded from the change log first.
func runUndo(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if sess.History == nil {
		return fmt.Errorf("undo needs the change history, enable [history] in the config")
	}
	seeded, err := sess.History.SeedUndo(ctx, sess.Editor)
	if err != nil {
		return err
	}
	if !seeded {
		return p.Print(editResult{}, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, "Nothing to undo")
			return err
		})
	}

	latest, err := sess.History.Load(ctx, history.Query{Limit: 1})
	if err != nil {
		return err
	}
	id := latest[0].CommandID

	changed, err := sess.Editor.UndoLastChange(ctx)
	if err != nil {
		return fmt.Errorf("failed to undo: %w", err)
	}
	log.InfoLog.Printf("undid last change of %s", id)
	return printEdit(sess, p, id, changed, "Undone")
}

// runRevert puts a command back to its state before the edits recorded
// since its last revert
func runRevert(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	rec, err := editable(sess, args[0])
	if err != nil {
		return err
	}
	if sess.History != nil {
		if _, err := sess.History.SeedRevert(ctx, sess.Editor, rec.ID); err != nil {
			return err
		}
	}

	changed, err := sess.Editor.RevertChangeForID(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to revert %s: %w", rec.ID, err)
	}
	return printEdit(sess, p, rec.ID, changed, "Reverted")
}
