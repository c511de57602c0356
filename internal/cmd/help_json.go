package cmd

import (
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/justpilot/billomat-go/internal/outfmt"
)

// CommandHelp is the machine-readable description of one command and its
// subcommands.
type CommandHelp struct {
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	Aliases     []string      `json:"aliases,omitempty"`
	Short       string        `json:"short"`
	Long        string        `json:"long,omitempty"`
	Usage       string        `json:"usage"`
	Example     string        `json:"example,omitempty"`
	Flags       []FlagHelp    `json:"flags,omitempty"`
	Subcommands []CommandHelp `json:"subcommands,omitempty"`
}

// FlagHelp describes a flag. Aliases registered through flagAlias are
// folded into the flag they point to.
type FlagHelp struct {
	Name      string   `json:"name"`
	Shorthand string   `json:"shorthand,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
	Type      string   `json:"type"`
	Default   string   `json:"default,omitempty"`
	Usage     string   `json:"usage"`
	Inherited bool     `json:"inherited,omitempty"`
}

func describeCommand(cmd *cobra.Command, depth int) CommandHelp {
	help := CommandHelp{
		Name:    cmd.Name(),
		Path:    cmd.CommandPath(),
		Aliases: cmd.Aliases,
		Short:   cmd.Short,
		Long:    cmd.Long,
		Usage:   cmd.UseLine(),
		Example: cmd.Example,
	}

	aliases := map[string][]string{}
	collect := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Hidden {
				if target, ok := f.Annotations[flagAliasAnnotation]; ok && len(target) == 1 {
					aliases[target[0]] = append(aliases[target[0]], f.Name)
				}
			}
		})
	}
	collect(cmd.LocalFlags())
	collect(cmd.InheritedFlags())

	add := func(inherited bool) func(*pflag.Flag) {
		return func(f *pflag.Flag) {
			if f.Hidden || f.Name == "help" || f.Name == "help-json" {
				return
			}
			names := aliases[f.Name]
			sort.Strings(names)
			help.Flags = append(help.Flags, FlagHelp{
				Name:      f.Name,
				Shorthand: f.Shorthand,
				Aliases:   names,
				Type:      f.Value.Type(),
				Default:   f.DefValue,
				Usage:     f.Usage,
				Inherited: inherited,
			})
		}
	}
	cmd.LocalFlags().VisitAll(add(false))
	cmd.InheritedFlags().VisitAll(add(true))

	if depth != 0 {
		for _, sub := range cmd.Commands() {
			if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
				continue
			}
			help.Subcommands = append(help.Subcommands, describeCommand(sub, depth-1))
		}
	}
	return help
}

// printHelpJSON writes the description of cmd and its direct subcommands to
// w. The root command is described with its whole tree.
func printHelpJSON(w io.Writer, cmd *cobra.Command) error {
	depth := 1
	if !cmd.HasParent() {
		depth = -1
	}
	return outfmt.WriteJSON(w, describeCommand(cmd, depth))
}

// findHelpJSONTarget reports whether args ask for --help-json and which
// command they name. Unresolvable arguments describe the root.
func findHelpJSONTarget(root *cobra.Command, args []string) (*cobra.Command, bool) {
	var rest []string
	wanted := false
	for _, a := range args {
		switch {
		case a == "--help-json":
			wanted = true
		case strings.HasPrefix(a, "--help-json="):
			v := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(a, "--help-json=")))
			wanted = v == "true" || v == "1" || v == "yes"
		default:
			rest = append(rest, a)
		}
	}
	if !wanted {
		return nil, false
	}
	if len(rest) == 0 {
		return root, true
	}
	target, _, err := root.Find(rest)
	if err != nil || target == nil {
		return root, true
	}
	return target, true
}
