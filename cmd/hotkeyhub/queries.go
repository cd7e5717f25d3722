package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiowebux/hotkeyhub/internal/cli"
	"github.com/studiowebux/hotkeyhub/internal/config"
	"github.com/studiowebux/hotkeyhub/internal/queries"
)

func addQueryCommands(root *cobra.Command) {
	queriesCmd := &cobra.Command{
		Use:   "queries",
		Short: "Manage saved JMESPath queries",
		Long: `Manage saved JMESPath queries. A saved query is used with --query @name.

Examples:
  hotkeyhub queries save custom '[?hotkeysCustom].id'
  hotkeyhub list -o json --query @custom`,
		Args: cobra.NoArgs,
		RunE: runQueriesList,
	}

	queriesCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved queries",
			Args:  cobra.NoArgs,
			RunE:  runQueriesList,
		},
		&cobra.Command{
			Use:   "save <name> <expression>",
			Short: "Save a query, replacing one with the same name",
			Args:  cobra.ExactArgs(2),
			RunE:  runQueriesSave,
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a saved query",
			Args:  cobra.ExactArgs(1),
			RunE:  runQueriesDelete,
		},
	)

	root.AddCommand(queriesCmd)
}

// openQueries sets up the config and opens the saved query store
func openQueries() (*queries.Manager, error) {
	if _, err := setup(); err != nil {
		return nil, err
	}
	return queries.NewManager(config.DatabasePath)
}

// resolveQuery expands a @name reference into its saved expression
func resolveQuery(ctx context.Context, value string) (string, error) {
	if !strings.HasPrefix(value, queries.RefPrefix) {
		return value, nil
	}
	mgr, err := queries.NewManager(config.DatabasePath)
	if err != nil {
		return "", err
	}
	defer mgr.Close()
	return mgr.Resolve(ctx, value)
}

func runQueriesList(cmd *cobra.Command, args []string) error {
	mgr, err := openQueries()
	if err != nil {
		return err
	}
	defer mgr.Close()

	list, err := mgr.List(cmd.Context())
	if err != nil {
		return err
	}
	p, err := cli.NewPrinter(cmd.OutOrStdout(), flagOutput, "")
	if err != nil {
		return err
	}
	return p.Print(list, func(w io.Writer) error {
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No saved queries.")
			return err
		}
		for _, q := range list {
			if _, err := fmt.Fprintf(w, "%s%-16s %s\n", queries.RefPrefix, q.Name, q.Expression); err != nil {
				return err
			}
		}
		return nil
	})
}

func runQueriesSave(cmd *cobra.Command, args []string) error {
	mgr, err := openQueries()
	if err != nil {
		return err
	}
	defer mgr.Close()

	replaced, err := mgr.Save(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	verb := "Saved"
	if replaced {
		verb = "Replaced"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s query %s%s\n", verb, queries.RefPrefix, strings.TrimPrefix(args[0], queries.RefPrefix))
	return nil
}

func runQueriesDelete(cmd *cobra.Command, args []string) error {
	mgr, err := openQueries()
	if err != nil {
		return err
	}
	defer mgr.Close()

	if err := mgr.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted query %s\n", args[0])
	return nil
}
