package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiowebux/hotkeyhub/internal/cli"
	"github.com/studiowebux/hotkeyhub/internal/config"
	"github.com/studiowebux/hotkeyhub/internal/session"
)

// Flags for export
var exportFile string

func addExportCommands(root *cobra.Command) {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write groups, featured commands and custom hotkeys as YAML",
		Args:  cobra.NoArgs,
		RunE:  withSession(runExport),
	}
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Output file (default stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Apply a YAML export to the vault",
		Long: `Apply a YAML export to the vault. Groups and featured commands are
replaced when the file lists them. Custom hotkeys are replaced for every
command in the file; commands the vault does not have are skipped.

Use '-' to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(runImport),
	}

	root.AddCommand(exportCmd, importCmd)
}

func runExport(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	if exportFile == "" {
		return sess.WriteExport(p.Out)
	}

	f, err := os.OpenFile(config.ExpandPath(exportFile), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := sess.WriteExport(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return printDone(p, map[string]string{"file": exportFile}, "Exported to %s", exportFile)
}

func runImport(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(config.ExpandPath(args[0]))
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	e, err := session.ReadExport(r)
	if err != nil {
		return err
	}
	result, err := sess.Import(ctx, e)
	if err != nil {
		return err
	}

	return p.Print(result, func(w io.Writer) error {
		fmt.Fprintf(w, "Imported %d groups, %d featured commands, hotkeys for %d commands\n",
			result.Groups, result.Featured, result.Hotkeys)
		if len(result.Skipped) > 0 {
			fmt.Fprintf(w, "Skipped unknown commands: %s\n", strings.Join(result.Skipped, ", "))
		}
		return nil
	})
}
