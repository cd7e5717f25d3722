package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/studiowebux/hotkeyhub/internal/cli"
	"github.com/studiowebux/hotkeyhub/internal/history"
	"github.com/studiowebux/hotkeyhub/internal/session"
)

// Flags for history
var (
	historyCommand string
	historyLimit   int
)

func addHistoryCommands(root *cobra.Command) {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored hotkey changes, newest first",
		Args:  cobra.NoArgs,
		RunE:  withSession(runHistory),
	}
	historyCmd.Flags().StringVar(&historyCommand, "command", "", "Only changes of this command id")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of changes (0 for all)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored change",
		Args:  cobra.NoArgs,
		RunE:  withSession(runHistoryClear),
	}

	historyCmd.AddCommand(clearCmd)
	root.AddCommand(historyCmd)
}

func requireHistory(sess *session.Session) error {
	if sess.History == nil {
		return fmt.Errorf("change history is disabled in the config")
	}
	return nil
}

func runHistory(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if err := requireHistory(sess); err != nil {
		return err
	}
	entries, err := sess.History.Load(ctx, history.Query{CommandID: historyCommand, Limit: historyLimit})
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return p.Print(entries, func(w io.Writer) error {
		return cli.RenderHistory(w, entries)
	})
}

func runHistoryClear(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if err := requireHistory(sess); err != nil {
		return err
	}
	count, err := sess.History.GetCount(ctx)
	if err != nil {
		return err
	}
	if err := sess.History.Clear(ctx); err != nil {
		return err
	}
	return p.Print(map[string]int{"deleted": count}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Deleted %d changes\n", count)
		return err
	})
}
