package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/dryrun"
	"github.com/justpilot/billomat-go/internal/resolve"
)

func newTaxesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "taxes",
		Aliases: []string{"tax", "tax-rates"},
		Short:   "Manage tax rates",
	}

	cmd.AddCommand(newTaxesListCmd())
	cmd.AddCommand(newTaxesGetCmd())
	cmd.AddCommand(newTaxesCreateCmd())
	cmd.AddCommand(newTaxesUpdateCmd())
	cmd.AddCommand(newTaxesDeleteCmd())

	return cmd
}

var taxHeaders = []string{"ID", "NAME", "RATE", "DEFAULT"}

func taxRow(t billomat.TaxRate) []string {
	def := ""
	if t.IsDefault {
		def = "yes"
	}
	return []string{strconv.Itoa(t.ID), t.Name, t.Rate.String() + "%", def}
}

func newTaxesListCmd() *cobra.Command {
	return NewListCommand(ListConfig[billomat.TaxRate]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tax rates",
		Fetch: func(ctx context.Context, client *billomat.Client, _ []string, paging billomat.Paging) ([]billomat.TaxRate, error) {
			q := billomat.Query{}
			q.Set("per_page", paging.PerPage).Set("page", paging.Page)
			return client.Taxes().List(ctx, q)
		},
		Headers:      taxHeaders,
		RowFunc:      taxRow,
		EmptyMessage: "No tax rates found",
	})
}

// resolveTaxID accepts a numeric ID or a tax rate name.
func resolveTaxID(ctx context.Context, client *billomat.Client, ref string) (int, error) {
	if id, err := parsePositiveIntArg(ref, "tax rate ID"); err == nil {
		return id, nil
	}
	taxes, err := client.Taxes().List(ctx, nil)
	if err != nil {
		return 0, err
	}
	id, err := resolve.FuzzyMatch(ref, resolve.TaxRates(taxes))
	if err != nil {
		return 0, fmt.Errorf("tax rate %q: %w", ref, err)
	}
	return id, nil
}

func newTaxesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show a tax rate",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveTaxID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			tax, err := client.Taxes().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if tax == nil {
				return &notFoundError{resource: "tax rate", id: id}
			}
			if isJSON(cmd) {
				return printJSON(cmd, tax)
			}
			f := newFormatter(cmd)
			f.StartTable(taxHeaders)
			f.Row(taxRow(*tax)...)
			return f.EndTable()
		}),
		ValidArgsFunction: completeArg(taxCompletions),
	}
}

func newTaxesCreateCmd() *cobra.Command {
	var (
		name      string
		rate      string
		isDefault bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tax rate",
		Example: strings.TrimSpace(`
  billomat taxes create --name "MwSt 19%" --rate 19 --default
  billomat taxes create --name "MwSt 7%" --rate 7
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			value, err := parseDecimal("rate", strings.TrimSuffix(rate, "%"))
			if err != nil {
				return err
			}
			create := &billomat.TaxRateCreate{Name: name, Rate: value, IsDefault: isDefault}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "tax rate",
				Method:    "POST",
				Path:      "taxes",
				Details:   map[string]any{"name": name, "rate": value.String(), "is_default": isDefault},
			}); ok || err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			tax, err := client.Taxes().Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, tax)
			}
			printAction(cmd, "Created", "tax rate", tax.ID, fmt.Sprintf("%s (%s%%)", tax.Name, tax.Rate.String()))
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Name (required)")
	cmd.Flags().StringVar(&rate, "rate", "", "Rate in percent (required)")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Use as the account default")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func newTaxesUpdateCmd() *cobra.Command {
	var (
		name      string
		rate      string
		isDefault bool
	)

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Update a tax rate",
		Long:  "Update a tax rate. The API replaces the whole record, so unchanged fields are taken from the current rate.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if !anyFlagChanged(cmd, "name", "rate", "default") {
				return fmt.Errorf("nothing to update: pass --name, --rate or --default")
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveTaxID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			current, err := client.Taxes().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if current == nil {
				return &notFoundError{resource: "tax rate", id: id}
			}

			update := current.CreateOptions()
			if cmd.Flags().Changed("name") {
				update.Name = name
			}
			if cmd.Flags().Changed("rate") {
				if update.Rate, err = parseDecimal("rate", strings.TrimSuffix(rate, "%")); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("default") {
				update.IsDefault = isDefault
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  "tax rate",
				Method:    "PUT",
				Path:      fmt.Sprintf("taxes/%d", id),
				Details:   map[string]any{"name": update.Name, "rate": update.Rate.String(), "is_default": update.IsDefault},
			}); ok || err != nil {
				return err
			}

			tax, err := client.Taxes().Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, tax)
			}
			printAction(cmd, "Updated", "tax rate", tax.ID, tax.Name)
			return nil
		}),
		ValidArgsFunction: completeArg(taxCompletions),
	}

	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVar(&rate, "rate", "", "Rate in percent")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Use as the account default")
	return cmd
}

func newTaxesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a tax rate",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveTaxID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "tax rate",
				Method:    "DELETE",
				Path:      fmt.Sprintf("taxes/%d", id),
			}); ok || err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete tax rate %d? [y/N] ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			if err := client.Taxes().Delete(cmd.Context(), id); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": true, "id": id})
			}
			printAction(cmd, "Deleted", "tax rate", id, "")
			return nil
		}),
		ValidArgsFunction: completeArg(taxCompletions),
	}
}
