// spconf - Arbor Peakflow SP configuration tool
//
// Reads the appliance's flat CLI configuration, shows managed objects and
// interface auto-configuration rules as typed entities, and replays
// desired-state YAML files as CLI commands.
//
// Source flags select where the configuration dump comes from:
//
//	-H, --host     Appliance address (or set default via: spconf settings set default_host <host>)
//	-f, --file     Read a saved dump instead of connecting
//	    --cached   Read the dump cached by 'spconf snapshot fetch'
//
// Write commands preview by default; -x executes and -s writes the
// configuration afterwards.
//
// Examples:
//
//	spconf -H sp-leader mo list                     # Managed objects
//	spconf -f dump.txt rules list                   # Interface rules by precedence
//	spconf -H sp-leader export mo Cust1             # Commands that recreate Cust1
//	spconf -H sp-leader apply desired.yaml -xs      # Replay a desired-state file
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/peakflow-tools/spconf/pkg/audit"
	"github.com/peakflow-tools/spconf/pkg/cli"
	"github.com/peakflow-tools/spconf/pkg/config"
	"github.com/peakflow-tools/spconf/pkg/device"
	"github.com/peakflow-tools/spconf/pkg/settings"
	"github.com/peakflow-tools/spconf/pkg/snapshot"
	"github.com/peakflow-tools/spconf/pkg/util"
	"github.com/peakflow-tools/spconf/pkg/version"
)

var (
	// Source flags
	hostName  string // -H, --host
	username  string // -U, --username
	password  string // -P, --password
	dumpFile  string // -f, --file
	useCached bool   // --cached

	// Global option flags
	executeMode bool
	saveMode    bool
	verbose     bool
	jsonOutput  bool

	// Global state
	userSettings *settings.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "spconf",
	Short:             "Peakflow SP configuration tool",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `spconf maps the Peakflow SP CLI configuration to managed objects and
interface rules, and back.

Write commands preview changes by default; use -x to execute.

  spconf -H <host> <command> [args] [-x]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		if isSettingsOrHelp(cmd) {
			return nil
		}

		if saveMode && !executeMode {
			return fmt.Errorf("--save (-s) requires --execute (-x): use -xs to execute and save")
		}
		if dumpFile != "" && useCached {
			return fmt.Errorf("--file and --cached are mutually exclusive")
		}

		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		if hostName == "" {
			hostName = userSettings.DefaultHost
		}
		if username == "" {
			username = userSettings.Username
		}

		auditLogger, err := audit.NewFileLogger(userSettings.GetAuditLog(), audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&hostName, "host", "H", "", "Appliance address")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "U", "", "Appliance login")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "P", "", "Appliance password (prompted when empty)")
	rootCmd.PersistentFlags().StringVarP(&dumpFile, "file", "f", "", "Read the configuration dump from a file")
	rootCmd.PersistentFlags().BoolVar(&useCached, "cached", false, "Read the configuration dump from the snapshot cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	addWriteFlags(applyCmd)

	for _, cmd := range []*cobra.Command{moCmd, rulesCmd, snapshotCmd, auditCmd} {
		addOutputFlags(cmd)
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "query", Title: "Configuration Queries:"},
		&cobra.Group{ID: "device", Title: "Device Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{moCmd, rulesCmd, exportCmd} {
		cmd.GroupID = "query"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{applyCmd, snapshotCmd} {
		cmd.GroupID = "device"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if version.Version == "dev" {
			fmt.Println("spconf dev build (no version info linked)")
		} else {
			fmt.Printf("spconf %s\n", version.Info())
		}
	},
}

// ============================================================================
// Source Helpers
// ============================================================================

// requireHost ensures an appliance is selected via -H or settings.
func requireHost() (string, error) {
	if hostName == "" {
		return "", fmt.Errorf("host required: use -H <host> flag or 'spconf settings set default_host <host>'")
	}
	return hostName, nil
}

// connect dials the selected appliance, prompting for a password when
// none was given and stdin is a terminal.
func connect(ctx context.Context) (*device.Session, error) {
	host, err := requireHost()
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, fmt.Errorf("username required: use -U <user> flag or 'spconf settings set username <user>'")
	}
	if password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Password for %s@%s: ", username, host)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		password = string(pw)
	}
	return device.Dial(ctx, device.Options{Host: host, Username: username, Password: password})
}

func openStore(ctx context.Context) (*snapshot.RedisStore, error) {
	store := snapshot.NewRedisStore(userSettings.GetRedisAddr(), 0)
	if err := store.Connect(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// readDump returns the raw configuration from --file, --cached or the
// appliance, in that order of preference.
func readDump(ctx context.Context) (string, error) {
	switch {
	case dumpFile != "":
		data, err := os.ReadFile(dumpFile)
		if err != nil {
			return "", fmt.Errorf("reading dump: %w", err)
		}
		return string(data), nil

	case useCached:
		host, err := requireHost()
		if err != nil {
			return "", err
		}
		store, err := openStore(ctx)
		if err != nil {
			return "", err
		}
		defer store.Close()
		snap, err := store.Get(ctx, host)
		if err != nil {
			return "", fmt.Errorf("%w (run 'spconf snapshot fetch' first)", err)
		}
		util.WithDevice(host).Debugf("using snapshot from %s", snap.FetchedAt.Format("2006-01-02 15:04:05"))
		return snap.Dump, nil

	default:
		s, err := connect(ctx)
		if err != nil {
			return "", err
		}
		defer s.Close()
		return s.FetchConfig(ctx)
	}
}

// loadDump reads and parses the configuration. Per-line problems are
// logged as warnings; they never fail the command.
func loadDump(ctx context.Context) (*config.Dump, error) {
	raw, err := readDump(ctx)
	if err != nil {
		return nil, err
	}
	d := config.Parse(raw)
	for _, err := range d.Errors {
		util.Warnf("%v", err)
	}
	return d, nil
}

// ============================================================================
// Output Helpers
// ============================================================================

func printDryRunNotice() {
	if !executeMode {
		fmt.Println("\n" + yellow("DRY-RUN: No changes applied. Use -x to execute."))
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCommands(cmds []string) {
	fmt.Println(strings.Join(cmds, "\n"))
}

// isSettingsOrHelp checks whether cmd (or any ancestor) is a settings, help, or version command.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}

// addWriteFlags registers -x/--execute and -s/--save as local flags.
func addWriteFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVarP(&executeMode, "execute", "x", false, "Execute changes (default is dry-run)")
	flags.BoolVarP(&saveMode, "save", "s", false, "Save config after changes (requires -x)")
}

// addOutputFlags registers --json as a local flag.
// For noun-group parent commands, this is a PersistentFlag so subcommands inherit.
func addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVar(&jsonOutput, "json", false, "JSON output")
}

// Color helpers delegate to pkg/cli
func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
func bold(s string) string   { return cli.Bold(s) }
