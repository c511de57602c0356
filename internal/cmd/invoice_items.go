package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/dryrun"
)

func newInvoiceItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice-items",
		Aliases: []string{"items"},
		Short:   "Manage the line items of draft invoices",
	}

	cmd.AddCommand(newInvoiceItemsListCmd())
	cmd.AddCommand(newInvoiceItemsGetCmd())
	cmd.AddCommand(newInvoiceItemsCreateCmd())
	cmd.AddCommand(newInvoiceItemsUpdateCmd())
	cmd.AddCommand(newInvoiceItemsDeleteCmd())

	return cmd
}

var invoiceItemHeaders = []string{"ID", "POS", "TITLE", "QTY", "UNIT", "UNIT PRICE", "TAX", "NET", "GROSS"}

func invoiceItemRow(it billomat.InvoiceItem) []string {
	pos := "-"
	if it.Position != nil {
		pos = strconv.Itoa(*it.Position)
	}
	tax := "-"
	if it.TaxRate != nil {
		tax = it.TaxRate.String() + "%"
	}
	return []string{
		strconv.Itoa(it.ID),
		pos,
		deref(it.Title),
		it.Quantity.String(),
		deref(it.Unit),
		it.UnitPrice.StringFixed(2),
		tax,
		formatMoney(it.TotalNet),
		formatMoney(it.TotalGross),
	}
}

func newInvoiceItemsListCmd() *cobra.Command {
	return NewListCommand(ListConfig[billomat.InvoiceItem]{
		Use:     "list <invoice-id>",
		Aliases: []string{"ls"},
		Short:   "List the items of an invoice",
		Args:    cobra.ExactArgs(1),
		Prepare: func(_ *cobra.Command, args []string) error {
			_, err := parseInvoiceIDArg(args[0])
			return err
		},
		Fetch: func(ctx context.Context, client *billomat.Client, args []string, paging billomat.Paging) ([]billomat.InvoiceItem, error) {
			invoiceID, err := parseInvoiceIDArg(args[0])
			if err != nil {
				return nil, err
			}
			q := billomat.Query{}
			q.Set("per_page", paging.PerPage).Set("page", paging.Page)
			return client.InvoiceItems().List(ctx, invoiceID, q)
		},
		Headers:      invoiceItemHeaders,
		RowFunc:      invoiceItemRow,
		EmptyMessage: "No items found",
	})
}

func newInvoiceItemsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <item-id>",
		Short: "Show an invoice item",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parsePositiveIntArg(args[0], "item ID")
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			item, err := client.InvoiceItems().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if item == nil {
				return &notFoundError{resource: "invoice item", id: id}
			}
			if isJSON(cmd) {
				return printJSON(cmd, item)
			}
			f := newFormatter(cmd)
			f.StartTable(invoiceItemHeaders)
			f.Row(invoiceItemRow(*item)...)
			return f.EndTable()
		}),
	}
}

// itemFlags binds the writable invoice item fields.
type itemFlags struct {
	quantity, unitPrice, unit, title string
	description, taxName, taxRate    string
	reduction, itemType              string
	articleID, position              int
}

func (f *itemFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.quantity, "quantity", "", "Quantity")
	fs.StringVar(&f.unitPrice, "unit-price", "", "Unit price")
	fs.StringVar(&f.unit, "unit", "", "Unit, e.g. h or pcs")
	fs.StringVar(&f.title, "title", "", "Title")
	fs.StringVar(&f.description, "description", "", "Description (@path reads a file)")
	fs.StringVar(&f.taxName, "tax-name", "", "Tax name")
	fs.StringVar(&f.taxRate, "tax-rate", "", "Tax rate in percent")
	fs.StringVar(&f.reduction, "reduction", "", "Reduction, absolute or with % suffix")
	fs.StringVar(&f.itemType, "type", "", "Item type: "+strings.Join(billomat.EnumStrings(billomat.InvoiceItemTypes), ", "))
	fs.IntVar(&f.articleID, "article-id", 0, "Article to take defaults from")
	fs.IntVar(&f.position, "position", 0, "Position within the invoice")
	flagAlias(fs, "quantity", "qty")
	flagAlias(fs, "unit-price", "price")
	registerStaticCompletions(cmd, "type", billomat.EnumStrings(billomat.InvoiceItemTypes))
}

// apply copies every changed flag onto item.
func (f *itemFlags) apply(cmd *cobra.Command, item *billomat.InvoiceItemCreate) error {
	var err error
	if flagOrAliasChanged(cmd, "quantity") {
		if item.Quantity, err = parseDecimal("quantity", f.quantity); err != nil {
			return err
		}
	}
	if flagOrAliasChanged(cmd, "unit-price") {
		if item.UnitPrice, err = parseDecimal("unit-price", f.unitPrice); err != nil {
			return err
		}
	}
	if flagOrAliasChanged(cmd, "unit") {
		item.Unit = &f.unit
	}
	if flagOrAliasChanged(cmd, "title") {
		item.Title = &f.title
	}
	if flagOrAliasChanged(cmd, "description") {
		if item.Description, err = textPtrIfChanged(cmd, "description", f.description); err != nil {
			return err
		}
	}
	if flagOrAliasChanged(cmd, "tax-name") {
		item.TaxName = &f.taxName
	}
	if flagOrAliasChanged(cmd, "tax-rate") {
		if item.TaxRate, err = decimalPtrIfChanged(cmd, "tax-rate", strings.TrimSuffix(f.taxRate, "%")); err != nil {
			return err
		}
	}
	if flagOrAliasChanged(cmd, "reduction") {
		item.Reduction = &f.reduction
	}
	if flagOrAliasChanged(cmd, "type") {
		if item.Type, err = parseEnumFlag("type", f.itemType, billomat.InvoiceItemTypes); err != nil {
			return err
		}
	}
	if flagOrAliasChanged(cmd, "article-id") {
		item.ArticleID = &f.articleID
	}
	if flagOrAliasChanged(cmd, "position") {
		item.Position = &f.position
	}
	return nil
}

func newInvoiceItemsCreateCmd() *cobra.Command {
	var fields itemFlags

	cmd := &cobra.Command{
		Use:     "create <invoice-id>",
		Aliases: []string{"add"},
		Short:   "Add an item to a draft invoice",
		Example: strings.TrimSpace(`
  billomat invoice-items create 1001 --quantity 3 --unit-price 80 --title Support --unit h
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			invoiceID, err := parseInvoiceIDArg(args[0])
			if err != nil {
				return err
			}
			if !flagOrAliasChanged(cmd, "quantity") || !flagOrAliasChanged(cmd, "unit-price") {
				return fmt.Errorf("--quantity and --unit-price are required")
			}
			item := &billomat.InvoiceItemCreate{}
			if err := fields.apply(cmd, item); err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "invoice item",
				Method:    "POST",
				Path:      "invoice-items",
				Details: map[string]any{
					"invoice_id": invoiceID,
					"quantity":   item.Quantity.String(),
					"unit_price": item.UnitPrice.String(),
				},
			}); ok || err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			created, err := client.InvoiceItems().Create(cmd.Context(), invoiceID, item)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, created)
			}
			printAction(cmd, "Created", "invoice item", created.ID, deref(created.Title))
			return nil
		}),
	}

	fields.register(cmd)
	return cmd
}

func newInvoiceItemsUpdateCmd() *cobra.Command {
	var fields itemFlags

	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Update an item of a draft invoice",
		Long:  "Update an invoice item. Unchanged fields are taken from the current item.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parsePositiveIntArg(args[0], "item ID")
			if err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			current, err := client.InvoiceItems().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if current == nil {
				return &notFoundError{resource: "invoice item", id: id}
			}
			item := current.CreateOptions()
			if err := fields.apply(cmd, item); err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  "invoice item",
				Method:    "PUT",
				Path:      fmt.Sprintf("invoice-items/%d", id),
				Details:   map[string]any{"id": id, "invoice_id": current.InvoiceID},
			}); ok || err != nil {
				return err
			}

			updated, err := client.InvoiceItems().Update(cmd.Context(), id, item)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, updated)
			}
			printAction(cmd, "Updated", "invoice item", updated.ID, deref(updated.Title))
			return nil
		}),
	}

	fields.register(cmd)
	return cmd
}

func newInvoiceItemsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item from a draft invoice",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parsePositiveIntArg(args[0], "item ID")
			if err != nil {
				return err
			}
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "invoice item",
				Method:    "DELETE",
				Path:      fmt.Sprintf("invoice-items/%d", id),
			}); ok || err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete invoice item %d? [y/N] ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			if err := client.InvoiceItems().Delete(cmd.Context(), id); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": true, "id": id})
			}
			printAction(cmd, "Deleted", "invoice item", id, "")
			return nil
		}),
	}
}
