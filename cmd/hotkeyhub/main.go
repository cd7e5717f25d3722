package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/hotkeyhub/internal/cli"
	"github.com/studiowebux/hotkeyhub/internal/config"
	"github.com/studiowebux/hotkeyhub/internal/keybinds"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/log"
	"github.com/studiowebux/hotkeyhub/internal/session"
	"github.com/studiowebux/hotkeyhub/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	defer log.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hotkeyhub",
	Short: "Browse, filter and edit the hotkeys of a vault",
	Long: `hotkeyhub indexes every command of a vault with its default and custom
hotkeys, finds conflicting chords and edits bindings.

Run without arguments to start the interactive browser.

Examples:
  hotkeyhub                                # Start interactive browser
  hotkeyhub list --chord Mod+Shift+F       # Commands bound to a chord
  hotkeyhub conflicts                      # Chords bound more than once
  hotkeyhub assign editor:toggle-code Mod+E
  hotkeyhub undo                           # Undo the last change
  hotkeyhub list -o json --query '[].id'   # JMESPath over the records
  hotkeyhub --os macos list                # Preview macOS modifier names`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          withSession(runBrowse),
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Start the interactive command browser",
	Args:  cobra.NoArgs,
	RunE:  withSession(runBrowse),
}

// Global flags
var (
	flagVault   string
	flagConfig  string
	flagOS      string
	flagOutput  string
	flagQuery   string
	flagVerbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagVault, "vault", "", "Vault directory (default from config or ~/.hotkeyhub/vault)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.hotkeyhub/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagOS, "os", "", "Emulated OS for modifier names (windows/macos/linux)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")
	rootCmd.PersistentFlags().StringVar(&flagQuery, "query", "", "JMESPath expression applied to the output, or @name of a saved query")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Write debug logs")

	rootCmd.AddCommand(browseCmd)
	addCommandCommands(rootCmd)
	addEditCommands(rootCmd)
	addHistoryCommands(rootCmd)
	addGroupCommands(rootCmd)
	addExportCommands(rootCmd)
	addKeybindsCommands(rootCmd)
	addQueryCommands(rootCmd)
}

// runFunc is a command body that receives an open session
type runFunc func(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error

// setup initializes the config directories and logging and returns the
// loaded configuration
func setup() (*config.Config, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	path := flagConfig
	if path == "" {
		path = config.ConfigFile
	}
	cfg, err := config.Load(config.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		cfg.Verbose = true
	}

	if err := log.Initialize(cfg.GetLogConfig()); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

// withSession opens a session for the duration of one command
func withSession(fn runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		emulated := cfg.Platform()
		if flagOS != "" {
			emulated = keys.ParsePlatform(flagOS)
			if emulated == keys.PlatformNone {
				return fmt.Errorf("invalid --os %q: use windows, macos or linux", flagOS)
			}
		}

		vaultDir := cfg.Vault()
		if flagVault != "" {
			vaultDir = config.ExpandPath(flagVault)
		}

		opts := session.Options{
			VaultDir:   vaultDir,
			EmulatedOS: emulated,
			// The built-in vault is created on first use
			CreateExample: vaultDir == config.VaultDir,
		}
		if cfg.HistoryEnabled() {
			opts.HistoryPath = config.DatabasePath
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		sess, err := session.Open(ctx, opts)
		if err != nil {
			return err
		}
		defer sess.Close()

		query, err := resolveQuery(ctx, flagQuery)
		if err != nil {
			return err
		}
		printer, err := cli.NewPrinter(cmd.OutOrStdout(), flagOutput, query)
		if err != nil {
			return err
		}

		log.DebugLog.Printf("running %s against %s", cmd.CommandPath(), vaultDir)
		return fn(ctx, sess, printer, args)
	}
}

// runBrowse starts the interactive browser
func runBrowse(ctx context.Context, sess *session.Session, p *cli.Printer, args []string) error {
	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	if result := keybinds.NewValidator().ValidateRegistry(registry); result.HasErrors() {
		return fmt.Errorf("invalid keybindings:\n%s", result.String())
	}
	return tui.Run(sess, registry)
}
