package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/studiowebux/hotkeyhub/internal/cli"
	"github.com/studiowebux/hotkeyhub/internal/groups"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/session"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Flags for list
var (
	listGroup  string
	listSearch string
	listChord  string
)

func addCommandCommands(root *cobra.Command) {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List commands with their hotkeys",
		Long: `List the commands of a group, filtered by a search text or a chord.

The group's filter settings apply. A search ignores the chord and the toggles.`,
		Args: cobra.NoArgs,
		RunE: withSession(runList),
	}
	listCmd.Flags().StringVarP(&listGroup, "group", "g", types.AllGroupID, "Group id")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search text")
	listCmd.Flags().StringVarP(&listChord, "chord", "c", "", "Chord to match, e.g. Mod+Shift+B")

	showCmd := &cobra.Command{
		Use:   "show <command-id>",
		Short: "Show one command",
		Args:  cobra.ExactArgs(1),
		RunE:  withSession(runShow),
	}

	conflictsCmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List chords bound to more than one command",
		Args:  cobra.NoArgs,
		RunE:  withSession(runConflicts),
	}

	featuredCmd := &cobra.Command{
		Use:   "featured [command-id]",
		Short: "List featured commands, or toggle one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  withSession(runFeatured),
	}

	root.AddCommand(listCmd, showCmd, conflictsCmd, featuredCmd)
}

// listOptions builds the text options for a group
func listOptions(sess *session.Session, groupID string) cli.ListOptions {
	opts := cli.ListOptionsFromSettings(sess.Groups.GetGroupSettings(groupID), sess.Platform())
	opts.IsDuplicate = sess.Commands.IsHotkeyDuplicate
	opts.Featured = sess.Commands.IsFeatured
	return opts
}

// checkGroup fails for ids that are neither "all" nor an existing group
func checkGroup(sess *session.Session, id string) error {
	if groups.IsAll(id) {
		return nil
	}
	if _, ok := sess.Groups.Group(id); ok {
		return nil
	}
	if s, ok := sess.Groups.SuggestGroupID(id); ok {
		return fmt.Errorf("group %q: %w (did you mean %q?)", id, types.ErrNotFound, s)
	}
	return fmt.Errorf("group %q: %w", id, types.ErrNotFound)
}

func runList(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if err := checkGroup(sess, listGroup); err != nil {
		return err
	}

	var mods []string
	var key string
	if listChord != "" {
		mods, key = keys.ParseChord(listChord)
		if len(mods) == 0 && key == "" {
			return fmt.Errorf("invalid chord %q", listChord)
		}
	}

	records := sess.Commands.FilterCommands(listSearch, mods, key, listGroup)
	opts := listOptions(sess, listGroup)
	return p.Print(records, func(w io.Writer) error {
		return cli.RenderCommands(w, records, opts)
	})
}

func runShow(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	rec, err := sess.ResolveCommand(args[0])
	if err != nil {
		return err
	}
	opts := listOptions(sess, types.AllGroupID)
	return p.Print(rec, func(w io.Writer) error {
		return cli.RenderCommand(w, rec, opts)
	})
}

func runConflicts(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	conflicts := sess.Commands.Duplicates()
	return p.Print(conflicts, func(w io.Writer) error {
		return cli.RenderConflicts(w, conflicts, sess.Platform())
	})
}

func runFeatured(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if len(args) == 0 {
		records := sess.Commands.FeaturedCommands()
		opts := listOptions(sess, types.AllGroupID)
		opts.Featured = nil
		return p.Print(records, func(w io.Writer) error {
			return cli.RenderCommands(w, records, opts)
		})
	}

	rec, err := sess.ResolveCommand(args[0])
	if err != nil {
		return err
	}
	featured, err := sess.Commands.ToggleFeaturedCommand(ctx, rec.ID)
	if err != nil {
		return err
	}
	result := map[string]any{"id": rec.ID, "featured": featured}
	return p.Print(result, func(w io.Writer) error {
		state := "Unfeatured"
		if featured {
			state = "Featured"
		}
		_, err := fmt.Fprintf(w, "%s %s\n", state, rec.ID)
		return err
	})
}
