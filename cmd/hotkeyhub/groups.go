package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiowebux/hotkeyhub/internal/cli"
	"github.com/studiowebux/hotkeyhub/internal/groups"
	"github.com/studiowebux/hotkeyhub/internal/session"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Flags for groups add
var groupsAddAt int

func addGroupCommands(root *cobra.Command) {
	addCmd := &cobra.Command{
		Use:   "add <group-id> <command-id>",
		Short: "Add a command to a group",
		Args:  cobra.ExactArgs(2),
		RunE:  withSession(runGroupsAdd),
	}
	addCmd.Flags().IntVar(&groupsAddAt, "at", -1, "Insert at this position instead of appending")

	groupsCmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "Manage command groups",
		Args:    cobra.NoArgs,
		RunE:    withSession(runGroupsList),
	}

	groupsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List groups",
			Args:  cobra.NoArgs,
			RunE:  withSession(runGroupsList),
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an empty group",
			Args:  cobra.ExactArgs(1),
			RunE:  withSession(runGroupsCreate),
		},
		&cobra.Command{
			Use:   "delete [group-id]",
			Short: "Delete a group",
			Args:  cobra.MaximumNArgs(1),
			RunE:  withSession(runGroupsDelete),
		},
		&cobra.Command{
			Use:   "rename <group-id> <name>",
			Short: "Rename a group. The id is kept.",
			Args:  cobra.ExactArgs(2),
			RunE:  withSession(runGroupsRename),
		},
		addCmd,
		&cobra.Command{
			Use:   "remove <group-id> <command-id>",
			Short: "Remove a command from a group",
			Args:  cobra.ExactArgs(2),
			RunE:  withSession(runGroupsRemove),
		},
		&cobra.Command{
			Use:   "move <group-id> <position>",
			Short: "Move a group to a position, starting at 0",
			Args:  cobra.ExactArgs(2),
			RunE:  withSession(runGroupsMove),
		},
		&cobra.Command{
			Use:   "set <group-id> <setting> <true|false>",
			Short: "Change one filter setting of a group, or of the defaults with 'all'",
			Long: `Change one filter setting of a group. The id 'all' changes the global
defaults that every group without its own value inherits.

Settings: ` + fmt.Sprint(types.FilterKeys),
			Args: cobra.ExactArgs(3),
			RunE: withSession(runGroupsSet),
		},
		&cobra.Command{
			Use:   "settings [group-id]",
			Short: "Show the effective filter settings of a group",
			Args:  cobra.MaximumNArgs(1),
			RunE:  withSession(runGroupsSettings),
		},
		&cobra.Command{
			Use:   "open [group-id]",
			Short: "Open a group, applying its saved filters",
			Args:  cobra.MaximumNArgs(1),
			RunE:  withSession(runGroupsOpen),
		},
		&cobra.Command{
			Use:   "order <group-id> <command-id>...",
			Short: "Replace the member list of a group, in the given order",
			Args:  cobra.MinimumNArgs(1),
			RunE:  withSession(runGroupsOrder),
		},
		&cobra.Command{
			Use:   "move-command <group-id> <command-id> <position>",
			Short: "Move a member of a group to a position, starting at 0",
			Args:  cobra.ExactArgs(3),
			RunE:  withSession(runGroupsMoveCommand),
		},
		&cobra.Command{
			Use:   "duplicate <group-id>",
			Short: "Copy a group, its members and its settings",
			Args:  cobra.ExactArgs(1),
			RunE:  withSession(runGroupsDuplicate),
		},
		&cobra.Command{
			Use:   "behavior <group-id> <default|dynamic>",
			Short: "Choose what opening a group restores",
			Long: `Choose what opening a group restores.

  default  the filters saved with 'groups save-defaults'
  dynamic  the filters the group was last left with`,
			Args: cobra.ExactArgs(2),
			RunE: withSession(runGroupsBehavior),
		},
		&cobra.Command{
			Use:   "save-defaults <group-id>",
			Short: "Save the current filters of a group as the ones opening restores",
			Args:  cobra.ExactArgs(1),
			RunE:  withSession(runGroupsSaveDefaults),
		},
		&cobra.Command{
			Use:   "pin <group-id> [true|false]",
			Short: "Pin or unpin a group",
			Args:  cobra.RangeArgs(1, 2),
			RunE:  withSession(runGroupsPin),
		},
		&cobra.Command{
			Use:   "appearance <group-id> <icon> [color]",
			Short: "Set the icon and color of a group. Empty strings clear them.",
			Args:  cobra.RangeArgs(2, 3),
			RunE:  withSession(runGroupsAppearance),
		},
		&cobra.Command{
			Use:   "register <group-id> <true|false>",
			Short: "Expose the group as a command of its own",
			Args:  cobra.ExactArgs(2),
			RunE:  withSession(runGroupsRegister),
		},
		&cobra.Command{
			Use:   "exclude <group-id> [plugin-id]...",
			Short: "Hide the commands of plugins from a group. No plugin clears the list.",
			Args:  cobra.MinimumNArgs(1),
			RunE:  withSession(runGroupsExclude),
		},
		&cobra.Command{
			Use:   "normalize",
			Short: "Fill missing filter settings of every group",
			Args:  cobra.NoArgs,
			RunE:  withSession(runGroupsNormalize),
		},
	)

	root.AddCommand(groupsCmd)
}

// groupArg returns args[0], or prompts for a group when it is missing
func groupArg(sess *session.Session, args []string, withAll bool) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	current := sess.LastGroupID()
	var choices []cli.Choice
	if withAll {
		choices = append(choices, cli.Choice{Value: types.AllGroupID, Label: "All", Active: current == types.AllGroupID})
	}
	for _, g := range sess.Groups.Groups() {
		choices = append(choices, cli.Choice{
			Value:  g.ID,
			Label:  g.Name,
			Detail: fmt.Sprintf("%d commands", len(g.CommandIDs)),
			Active: g.ID == current,
		})
	}
	return cli.PromptSelect("Select a group", choices)
}

// printDone prints a one line confirmation, or the value for structured output
func printDone(p *cli.Printer, v any, format string, a ...any) error {
	return p.Print(v, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, format+"\n", a...)
		return err
	})
}

func runGroupsList(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	groups := sess.Groups.Groups()
	if groups == nil {
		groups = []types.CommandGroup{}
	}
	return p.Print(groups, func(w io.Writer) error {
		return cli.RenderGroups(w, groups, sess.LastGroupID())
	})
}

func runGroupsCreate(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id, err := sess.Groups.CreateGroup(ctx, args[0])
	if err != nil {
		return err
	}
	return printDone(p, map[string]string{"id": id}, "Created group %s", id)
}

func runGroupsDelete(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id, err := groupArg(sess, args, false)
	if err != nil {
		return err
	}
	if err := sess.Groups.DeleteGroup(ctx, id); err != nil {
		return err
	}
	return printDone(p, map[string]string{"deleted": id}, "Deleted group %s", id)
}

func runGroupsRename(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if err := sess.Groups.RenameGroup(ctx, args[0], args[1]); err != nil {
		return err
	}
	return printDone(p, map[string]string{"id": args[0], "name": args[1]}, "Renamed group %s to %q", args[0], args[1])
}

func runGroupsAdd(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if err := checkGroup(sess, args[0]); err != nil {
		return err
	}
	rec, err := sess.ResolveCommand(args[1])
	if err != nil {
		return err
	}
	var changed bool
	if groupsAddAt >= 0 {
		changed, err = sess.Groups.InsertCommandInGroup(ctx, args[0], rec.ID, groupsAddAt)
	} else {
		changed, err = sess.Groups.AddCommandToGroup(ctx, args[0], rec.ID)
	}
	if err != nil {
		return err
	}
	if !changed {
		return printDone(p, map[string]bool{"changed": false}, "%s is already in %s", rec.ID, args[0])
	}
	return printDone(p, map[string]bool{"changed": true}, "Added %s to %s", rec.ID, args[0])
}

func runGroupsRemove(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if err := checkGroup(sess, args[0]); err != nil {
		return err
	}
	changed, err := sess.Groups.RemoveCommandFromGroup(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if !changed {
		return printDone(p, map[string]bool{"changed": false}, "%s is not in %s", args[1], args[0])
	}
	return printDone(p, map[string]bool{"changed": true}, "Removed %s from %s", args[1], args[0])
}

func runGroupsMove(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", args[1], err)
	}
	if err := sess.Groups.MoveGroup(ctx, args[0], to); err != nil {
		return err
	}
	return printDone(p, map[string]any{"id": args[0], "position": to}, "Moved group %s to position %d", args[0], to)
}

func runGroupsSet(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id, key := args[0], args[1]
	if err := checkGroup(sess, id); err != nil {
		return err
	}
	if !types.IsFilterKey(key) {
		return fmt.Errorf("unknown setting %q, expected one of %v", key, types.FilterKeys)
	}
	value, err := strconv.ParseBool(args[2])
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[2], err)
	}

	if _, err := sess.Groups.UpdateGroupFilterSettings(ctx, id, types.FilterSettings{key: value}); err != nil {
		return err
	}
	return printDone(p, map[string]any{"id": id, key: value}, "%s: %s = %t", id, key, value)
}

func runGroupsSettings(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id := types.AllGroupID
	if len(args) > 0 {
		id = args[0]
	}
	if err := checkGroup(sess, id); err != nil {
		return err
	}
	s := sess.Groups.GetGroupSettings(id)
	return p.Print(s, func(w io.Writer) error {
		return cli.RenderSettings(w, s)
	})
}

func runGroupsOpen(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id, err := groupArg(sess, args, true)
	if err != nil {
		return err
	}
	s, err := sess.Groups.OpenGroup(ctx, id)
	if err != nil {
		return err
	}
	return p.Print(s, func(w io.Writer) error {
		fmt.Fprintf(w, "Opened %s\n", id)
		return cli.RenderSettings(w, s)
	})
}

func runGroupsOrder(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id := args[0]
	if err := checkGroup(sess, id); err != nil || groups.IsAll(id) {
		return groupOnly(id, err)
	}
	ids := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		rec, err := sess.ResolveCommand(arg)
		if err != nil {
			return err
		}
		ids = append(ids, rec.ID)
	}
	if _, err := sess.Groups.SetGroupCommandOrder(ctx, id, ids); err != nil {
		return err
	}
	g, _ := sess.Groups.Group(id)
	return printDone(p, g, "%s: %s", id, strings.Join(g.CommandIDs, ", "))
}

func runGroupsMoveCommand(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id, commandID := args[0], args[1]
	if err := checkGroup(sess, id); err != nil || groups.IsAll(id) {
		return groupOnly(id, err)
	}
	to, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", args[2], err)
	}
	changed, err := sess.Groups.MoveCommandInGroup(ctx, id, commandID, to)
	if err != nil {
		return err
	}
	if !changed {
		return printDone(p, map[string]bool{"changed": false}, "%s unchanged", id)
	}
	g, _ := sess.Groups.Group(id)
	return printDone(p, g, "%s: %s", id, strings.Join(g.CommandIDs, ", "))
}

func runGroupsDuplicate(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id, err := sess.Groups.DuplicateGroup(ctx, args[0])
	if err != nil {
		return err
	}
	return printDone(p, map[string]string{"id": id}, "Created group %s", id)
}

func runGroupsBehavior(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if err := sess.Groups.SetGroupBehavior(ctx, args[0], args[1]); err != nil {
		return err
	}
	return printDone(p, map[string]string{"id": args[0], "onOpen": args[1]}, "%s: opens with %s filters", args[0], args[1])
}

func runGroupsSaveDefaults(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if err := sess.Groups.SaveGroupDefaults(ctx, args[0]); err != nil {
		return err
	}
	s := sess.Groups.GetGroupSettings(args[0])
	return p.Print(s, func(w io.Writer) error {
		fmt.Fprintf(w, "Saved defaults for %s\n", args[0])
		return cli.RenderSettings(w, s)
	})
}

func runGroupsPin(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	pinned := true
	if len(args) > 1 {
		v, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[1], err)
		}
		pinned = v
	}
	if err := sess.Groups.SetGroupPinned(ctx, args[0], pinned); err != nil {
		return err
	}
	return printDone(p, map[string]any{"id": args[0], "pinned": pinned}, "%s: pinned = %t", args[0], pinned)
}

func runGroupsAppearance(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	icon, color := args[1], ""
	if len(args) > 2 {
		color = args[2]
	}
	if err := sess.Groups.SetGroupAppearance(ctx, args[0], icon, color); err != nil {
		return err
	}
	return printDone(p, map[string]string{"id": args[0], "icon": icon, "color": color}, "%s: icon %q, color %q", args[0], icon, color)
}

func runGroupsRegister(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	register, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	if err := sess.Groups.SetRegisterCommand(ctx, args[0], register); err != nil {
		return err
	}
	return printDone(p, map[string]any{"id": args[0], "registerCommand": register}, "%s: registerCommand = %t", args[0], register)
}

func runGroupsExclude(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	id, plugins := args[0], args[1:]
	if err := sess.Groups.SetExcludedPlugins(ctx, id, plugins); err != nil {
		return err
	}
	if len(plugins) == 0 {
		return printDone(p, map[string]any{"id": id, "excludedPluginIds": []string{}}, "%s: no plugins excluded", id)
	}
	return printDone(p, map[string]any{"id": id, "excludedPluginIds": plugins}, "%s: excluding %s", id, strings.Join(plugins, ", "))
}

// groupOnly turns a lookup result into the error of a command that needs a
// real group
func groupOnly(id string, err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("group %q: %w", id, types.ErrNotFound)
}

func runGroupsNormalize(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	changed, err := sess.Groups.NormalizeAllGroups(ctx)
	if err != nil {
		return err
	}
	if !changed {
		return printDone(p, map[string]bool{"changed": false}, "Groups already normalized")
	}
	return printDone(p, map[string]bool{"changed": true}, "Normalized groups")
}
