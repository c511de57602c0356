package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/justpilot/billomat-go/internal/config"
	"github.com/justpilot/billomat-go/internal/debug"
	"github.com/justpilot/billomat-go/internal/dryrun"
	"github.com/justpilot/billomat-go/internal/iocontext"
	"github.com/justpilot/billomat-go/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output      string
	Debug       bool
	DryRun      bool
	Quiet       bool
	Yes         bool
	Query       string
	JQ          string
	Fields      string
	Template    string
	Compact     bool
	Timeout     time.Duration
	Profile     string
	ConfigFile  string
	MetricsFile string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = rootFlags{Output: defaultOutput()}

// defaults is the parsed config.yaml of the current Execute() call.
var defaults config.Defaults

const envOutput = "BILLOMAT_OUTPUT"

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv(envOutput)); value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func normalizeOutputFormat(value string) string {
	value = strings.TrimSpace(value)
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// loadDotEnv loads .env from the working directory. Variables already set in
// the environment are not overwritten, so explicit exports always win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	_ = godotenv.Load(".env")
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Runs before the flag reset so BILLOMAT_OUTPUT from .env is honored.
	loadDotEnv()

	flags = rootFlags{Output: defaultOutput()}
	defaults = config.Defaults{}
	resetMetrics()

	root := &cobra.Command{
		Use:                "billomat",
		Short:              "Command line client for the Billomat invoicing API",
		Long:               "Manage Billomat clients, invoices, payments, taxes, templates and settings from the terminal.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // We provide our own did-you-mean via enhanceUnknownError
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			loaded, err := config.LoadDefaults(flags.ConfigFile)
			if err != nil {
				return err
			}
			defaults = loaded
			if !flagOrAliasChanged(cmd, "output") && os.Getenv(envOutput) == "" && defaults.Output != "" {
				flags.Output = defaults.Output
			}
			flags.Output = normalizeOutputFormat(flags.Output)

			needsJSON := getJQQuery() != "" || flags.Fields != "" || flags.Template != ""
			if needsJSON && flags.Output != "json" && flags.Output != "jsonl" {
				if flagOrAliasChanged(cmd, "output") {
					return fmt.Errorf("--jq/--query/--fields/--template require --output json or jsonl")
				}
				flags.Output = "json"
			}
			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)

			ioStreams := iocontext.GetIO(ctx)
			if flags.Quiet {
				ioStreams = &iocontext.IO{Out: ioStreams.Out, ErrOut: io.Discard, In: ioStreams.In}
				if mode == outfmt.Text {
					ioStreams.Out = io.Discard
				}
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			debug.SetupLogger(flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			if q := getJQQuery(); q != "" {
				ctx = outfmt.WithQuery(ctx, q)
			}
			if flags.Fields != "" {
				fields, err := ParseStringListFlag(flags.Fields)
				if err != nil {
					return fmt.Errorf("invalid --fields value: %w", err)
				}
				ctx = outfmt.WithFields(ctx, fields)
			}
			if flags.Template != "" {
				tmpl, err := loadTemplate(flags.Template)
				if err != nil {
					return err
				}
				ctx = outfmt.WithTemplate(ctx, tmpl)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	streams := iocontext.GetIO(ctx)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)
	root.SetIn(streams.In)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|ndjson (env BILLOMAT_OUTPUT)")
	pf.StringVar(&flags.Query, "query", "", "jq expression to filter JSON output")
	pf.StringVar(&flags.JQ, "jq", "", "Alias for --query")
	pf.StringVar(&flags.Fields, "fields", "", "Comma separated fields to keep in JSON output")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Log HTTP requests to stderr")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without executing")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "HTTP request timeout (e.g. 30s); defaults to the config file or 10s")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile to use (env BILLOMAT_PROFILE)")
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to config.yaml (env BILLOMAT_CONFIG)")
	pf.StringVar(&flags.MetricsFile, "metrics-file", "", "Write request metrics in Prometheus text format to this file")
	pf.Bool("help-json", false, "Print command help as JSON")

	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "template", "tpl")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newClientsCmd())
	root.AddCommand(newInvoicesCmd())
	root.AddCommand(newInvoiceItemsCmd())
	root.AddCommand(newPaymentsCmd())
	root.AddCommand(newTaxesCmd())
	root.AddCommand(newTemplatesCmd())
	root.AddCommand(newSettingsCmd())
	root.AddCommand(newCompletionsCmd())
	root.AddCommand(newVersionCmd())

	// Cobra validates positional args before any hook runs, so --help-json is
	// answered here.
	if target, ok := findHelpJSONTarget(root, args); ok {
		return printHelpJSON(streams.Out, target)
	}

	targetCmd, err := root.ExecuteC()
	if metricsErr := writeMetricsFile(flags.MetricsFile); metricsErr != nil && err == nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), HandleError(metricsErr))
		err = &handledError{err: metricsErr, exitCode: exitGeneric}
	}
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			enhanced := enhanceUnknownError(err, root, targetCmd)
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanced)
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		parent := root
		if targetCmd != nil {
			parent = targetCmd
		}
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			seen := make(map[string]bool)
			var flagNames []string
			addFlags := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Hidden {
						return
					}
					if name := "--" + f.Name; !seen[name] {
						seen[name] = true
						flagNames = append(flagNames, name)
					}
				})
			}
			helpCmd := "billomat --help"
			if targetCmd != nil {
				addFlags(targetCmd.Flags())
				addFlags(targetCmd.InheritedFlags())
				helpCmd = targetCmd.CommandPath() + " --help"
			} else {
				addFlags(root.PersistentFlags())
			}
			if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}

func loadTemplate(value string) (string, error) {
	if strings.HasPrefix(value, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
