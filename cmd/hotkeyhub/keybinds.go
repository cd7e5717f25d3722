package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/hotkeyhub/internal/config"
	"github.com/studiowebux/hotkeyhub/internal/keybinds"
)

// Flags for keybinds init
var keybindsForce bool

func addKeybindsCommands(root *cobra.Command) {
	keybindsCmd := &cobra.Command{
		Use:   "keybinds",
		Short: "Manage the browser's key bindings",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default key bindings to keybinds.json",
		Args:  cobra.NoArgs,
		RunE:  runKeybindsInit,
	}
	initCmd.Flags().BoolVar(&keybindsForce, "force", false, "Overwrite an existing file")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check keybinds.json for errors and shadowed keys",
		Args:  cobra.NoArgs,
		RunE:  runKeybindsValidate,
	}

	keybindsCmd.AddCommand(initCmd, validateCmd)
	root.AddCommand(keybindsCmd)
}

func runKeybindsInit(cmd *cobra.Command, args []string) error {
	if _, err := setup(); err != nil {
		return err
	}
	if _, err := os.Stat(config.KeybindsFile); err == nil && !keybindsForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", config.KeybindsFile)
	}
	if err := keybinds.CreateExampleConfig(config.KeybindsFile); err != nil {
		return fmt.Errorf("failed to write keybinds: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.KeybindsFile)
	return nil
}

func runKeybindsValidate(cmd *cobra.Command, args []string) error {
	if _, err := setup(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(config.KeybindsFile); err != nil {
		fmt.Fprintf(out, "No %s, using the defaults\n", config.KeybindsFile)
		return nil
	}

	cfg, err := keybinds.LoadConfig(config.KeybindsFile)
	if err != nil {
		return err
	}
	result := keybinds.NewValidator().ValidateConfig(cfg)
	fmt.Fprintln(out, result.String())
	if result.HasErrors() {
		return fmt.Errorf("%s has %d errors", config.KeybindsFile, len(result.Errors))
	}
	return nil
}
