package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justpilot/billomat-go"
)

const (
	defaultPerPage  = 100
	maxPerPage      = 1000
	defaultMaxPages = 50
)

// ListConfig defines how a list command behaves
type ListConfig[T any] struct {
	Use          string
	Aliases      []string
	Short        string
	Long         string
	Example      string
	Args         cobra.PositionalArgs
	Fetch        func(ctx context.Context, client *billomat.Client, args []string, paging billomat.Paging) ([]T, error)
	Headers      []string
	RowFunc      func(T) []string
	EmptyMessage string
	// Flags registers command specific filter flags.
	Flags func(cmd *cobra.Command)
	// Prepare validates filter flags before any request is sent.
	Prepare func(cmd *cobra.Command, args []string) error
}

// NewListCommand builds a paginated list command. --all walks pages until a
// short page comes back or --max-pages is reached.
func NewListCommand[T any](cfg ListConfig[T]) *cobra.Command {
	var (
		page     int
		perPage  int
		all      bool
		maxPages int
	)

	args := cfg.Args
	if args == nil {
		args = cobra.NoArgs
	}

	cmd := &cobra.Command{
		Use:     cfg.Use,
		Aliases: cfg.Aliases,
		Short:   cfg.Short,
		Long:    cfg.Long,
		Example: cfg.Example,
		Args:    args,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			if perPage < 1 || perPage > maxPerPage {
				return fmt.Errorf("--per-page must be between 1 and %d", maxPerPage)
			}
			if maxPages < 1 {
				return fmt.Errorf("--max-pages must be at least 1")
			}
			if cfg.Prepare != nil {
				if err := cfg.Prepare(cmd, args); err != nil {
					return err
				}
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}

			var items []T
			for fetched := 0; ; fetched++ {
				batch, err := cfg.Fetch(cmd.Context(), client, args, billomat.Paging{PerPage: perPage, Page: page + fetched})
				if err != nil {
					return err
				}
				items = append(items, batch...)
				if !all || len(batch) < perPage || fetched+1 >= maxPages {
					break
				}
			}

			if isJSON(cmd) {
				return printList(cmd, items)
			}

			f := newFormatter(cmd)
			if len(items) == 0 {
				msg := cfg.EmptyMessage
				if msg == "" {
					msg = "No results found"
				}
				f.Empty(msg)
				return nil
			}
			f.StartTable(cfg.Headers)
			for _, item := range items {
				f.Row(cfg.RowFunc(item)...)
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to fetch")
	cmd.Flags().IntVar(&perPage, "per-page", defaultPerPage, fmt.Sprintf("Results per page (max %d)", maxPerPage))
	cmd.Flags().BoolVar(&all, "all", false, "Fetch all pages")
	cmd.Flags().IntVar(&maxPages, "max-pages", defaultMaxPages, "Maximum pages to fetch with --all")
	flagAlias(cmd.Flags(), "per-page", "limit")
	if cfg.Flags != nil {
		cfg.Flags(cmd)
	}
	return cmd
}
