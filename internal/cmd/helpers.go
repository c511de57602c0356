package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/dryrun"
	"github.com/justpilot/billomat-go/internal/iocontext"
	"github.com/justpilot/billomat-go/internal/outfmt"
)

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query for consistency with gh CLI.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printJSON outputs data as JSON with optional fields/query/template filtering
func printJSON(cmd *cobra.Command, v any) error {
	return newFormatter(cmd).Output(v)
}

// printList wraps items the way list commands emit them in JSON mode.
func printList[T any](cmd *cobra.Command, items []T) error {
	return printJSON(cmd, outfmt.ListEnvelope(items))
}

// isJSON checks if the command context wants machine readable output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context()) || outfmt.GetTemplate(cmd.Context()) != ""
}

func printAction(cmd *cobra.Command, action, resource string, id any, name string) {
	if flags.Quiet || isJSON(cmd) {
		return
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	message := fmt.Sprintf("%s %s", action, resource)
	if id != nil {
		if value, ok := id.(string); !ok || value != "" {
			message = fmt.Sprintf("%s %v", message, id)
		}
	}
	if name != "" {
		message = fmt.Sprintf("%s: %s", message, name)
	}
	_, _ = fmt.Fprintln(ioStreams.Out, message)
}

func maybeDryRun(cmd *cobra.Command, preview *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	if preview == nil {
		preview = &dryrun.Preview{}
	}
	if isJSON(cmd) {
		return true, printJSON(cmd, preview.Payload())
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	preview.Write(ioStreams.Out)
	return true, nil
}

// normalizeEnum normalizes and validates a flag value against a list of valid enum values.
// It trims the input, then tries a case-insensitive exact match followed by
// a unique prefix match.
func normalizeEnum(flagName, input string, valid []string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", invalidEnumError(flagName, input, valid)
	}

	for _, v := range valid {
		if input == strings.ToLower(v) {
			return v, nil
		}
	}

	var matches []string
	for _, v := range valid {
		if strings.HasPrefix(strings.ToLower(v), input) {
			matches = append(matches, v)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", invalidEnumError(flagName, input, valid)
	default:
		return "", fmt.Errorf("ambiguous %s %q: matches %s", flagName, input, strings.Join(matches, ", "))
	}
}

func invalidEnumError(flagName, input string, valid []string) error {
	if s := suggestValue(input, valid); s != "" {
		return fmt.Errorf("invalid value %q for --%s: must be one of %s (did you mean %s?)", input, flagName, strings.Join(valid, ", "), s)
	}
	return fmt.Errorf("invalid value %q for --%s: must be one of %s", input, flagName, strings.Join(valid, ", "))
}

// parseEnumFlag resolves a flag value into one of the known enum values.
// An empty input yields the zero value, which the library treats as unset.
func parseEnumFlag[E ~string](flagName, input string, known []E) (E, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	v, err := normalizeEnum(flagName, input, billomat.EnumStrings(known))
	if err != nil {
		return "", err
	}
	return E(v), nil
}

// parseEnumListFlag is parseEnumFlag for comma separated values.
func parseEnumListFlag[E ~string](flagName, input string, known []E) ([]E, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	parts, err := ParseStringListFlag(input)
	if err != nil {
		return nil, err
	}
	out := make([]E, 0, len(parts))
	for _, p := range parts {
		v, err := parseEnumFlag(flagName, p, known)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func registerStaticCompletions(cmd *cobra.Command, flagName string, values []string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed.  This lets aliases satisfy Cobra's
// MarkFlagRequired check transparently.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagAliasAnnotation marks hidden alias flags with the flag they stand for.
const flagAliasAnnotation = "alias-of"

// flagAlias registers a hidden alias for an existing flag.
// Both flags share the same underlying Value, so setting either one sets both.
// The alias is annotated so flagOrAliasChanged() can detect it.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasBridgeValue{Value: f.Value, canonical: f}
	newAnn := map[string][]string{flagAliasAnnotation: {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		newAnn[k] = v
	}
	a.Annotations = newAnn
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	if cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations[flagAliasAnnotation]; ok && len(ann) > 0 && ann[0] == name {
				if fs.Changed(f.Name) {
					found = true
				}
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

func anyFlagChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if flagOrAliasChanged(cmd, name) {
			return true
		}
	}
	return false
}

// The *IfChanged helpers turn a flag into an optional field: nil unless the
// user passed the flag, so unset fields stay out of the request body.

func stringPtrIfChanged(cmd *cobra.Command, flag, value string) *string {
	if flagOrAliasChanged(cmd, flag) {
		return &value
	}
	return nil
}

// textPtrIfChanged is stringPtrIfChanged for long texts that may come from
// @path or @- (stdin).
func textPtrIfChanged(cmd *cobra.Command, flag, value string) (*string, error) {
	if !flagOrAliasChanged(cmd, flag) {
		return nil, nil
	}
	text, err := loadAtValue(value)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

func intPtrIfChanged(cmd *cobra.Command, flag string, value int) *int {
	if flagOrAliasChanged(cmd, flag) {
		return &value
	}
	return nil
}

func boolPtrIfChanged(cmd *cobra.Command, flag string, value bool) *bool {
	if flagOrAliasChanged(cmd, flag) {
		return &value
	}
	return nil
}

func decimalPtrIfChanged(cmd *cobra.Command, flag, value string) (*decimal.Decimal, error) {
	if !flagOrAliasChanged(cmd, flag) {
		return nil, nil
	}
	d, err := parseDecimal(flag, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func datePtrIfChanged(cmd *cobra.Command, flag, value string) (*time.Time, error) {
	if !flagOrAliasChanged(cmd, flag) {
		return nil, nil
	}
	t, err := parseDate(flag, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDecimal accepts both "12.50" and the German "12,50".
func parseDecimal(flag, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if strings.Count(value, ",") == 1 && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid value %q for --%s: must be a number", value, flag)
	}
	return d, nil
}

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD plus the relative keywords today, yesterday
// and tomorrow.
func parseDate(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	switch strings.ToLower(value) {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid value %q for --%s: must be a date (YYYY-MM-DD)", value, flag)
	}
	return t, nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func formatMoney(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

type confirmOptions struct {
	Prompt        string
	CancelMessage string
}

// confirmAction asks before destructive operations. --yes skips the prompt.
// JSON output never prompts, so it requires --yes.
func confirmAction(cmd *cobra.Command, opts confirmOptions) (bool, error) {
	if flags.Yes {
		return true, nil
	}
	if isJSON(cmd) {
		return false, fmt.Errorf("--yes is required when using --output json")
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	if !ioStreams.Confirm(opts.Prompt) {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(ioStreams.ErrOut, opts.CancelMessage)
		}
		return false, nil
	}
	return true, nil
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// notFoundError reports a missing resource for lookups where the library
// returns nil instead of an error.
type notFoundError struct {
	resource string
	id       int
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.resource, e.id)
}

func parsePositiveIntArg(value, name string) (int, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, value)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, value)
	}
	return id, nil
}

func loadAtValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	target := strings.TrimPrefix(value, "@")
	if target == "" {
		return "", fmt.Errorf("invalid @ value: missing path (use @- for stdin)")
	}
	if target == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", target, err)
	}
	return string(data), nil
}

// ParseIDListFlag parses an --ids style flag value. It supports @- (stdin) and @path (file),
// and accepts comma-separated, whitespace/newline-separated, or JSON array inputs.
func ParseIDListFlag(value string) ([]int, error) {
	raw, err := loadAtValue(value)
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("no IDs provided")
	}

	if strings.HasPrefix(raw, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			out := make([]int, 0, len(arr))
			for _, v := range arr {
				switch vv := v.(type) {
				case float64:
					id := int(vv)
					if float64(id) != vv || id <= 0 {
						return nil, fmt.Errorf("invalid ID %v: must be a positive integer", vv)
					}
					out = append(out, id)
				case string:
					id, err := parsePositiveIntArg(vv, "ID")
					if err != nil {
						return nil, err
					}
					out = append(out, id)
				default:
					return nil, fmt.Errorf("invalid ID %v: expected number or string", v)
				}
			}
			if len(out) == 0 {
				return nil, fmt.Errorf("no valid IDs provided")
			}
			return out, nil
		}
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := parsePositiveIntArg(part, "ID")
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid IDs provided")
	}
	return out, nil
}

// ParseStringListFlag parses a comma/newline separated flag value into a list of strings.
// It supports @- (stdin) and @path (file), and also accepts JSON array inputs.
func ParseStringListFlag(value string) ([]string, error) {
	raw, err := loadAtValue(value)
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("no values provided")
	}

	if strings.HasPrefix(raw, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			out := make([]string, 0, len(arr))
			for _, s := range arr {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
			if len(out) == 0 {
				return nil, fmt.Errorf("no values provided")
			}
			return out, nil
		}
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values provided")
	}
	return out, nil
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v)
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			if isJSON(cmd) {
				_ = printJSONErr(cmd, structuredError(err))
			} else {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
			}
			// Return a handled error so tests can still inspect the original message.
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}

// writeDownload writes data to target, or to stdout when target is "-".
// It reports whether a file was written so callers can print a summary.
func writeDownload(cmd *cobra.Command, target string, data []byte) (bool, error) {
	if target == "-" {
		_, err := iocontext.GetIO(cmd.Context()).Out.Write(data)
		return false, err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", target, err)
	}
	return true, nil
}
