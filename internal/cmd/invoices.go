package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/dryrun"
)

func newInvoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"invoice", "inv"},
		Short:   "Manage invoices",
		Long: strings.TrimSpace(`
Manage invoices. New invoices start as drafts; "complete" assigns the
invoice number and renders the PDF, after which most fields are frozen.
`),
	}

	cmd.AddCommand(newInvoicesListCmd())
	cmd.AddCommand(newInvoicesGetCmd())
	cmd.AddCommand(newInvoicesCreateCmd())
	cmd.AddCommand(newInvoicesUpdateCmd())
	cmd.AddCommand(newInvoicesCompleteCmd())
	cmd.AddCommand(newInvoicesDeleteCmd())
	cmd.AddCommand(newInvoicesPDFCmd())

	return cmd
}

var invoiceHeaders = []string{"ID", "NUMBER", "CLIENT", "DATE", "DUE", "STATUS", "GROSS", "OPEN", "CURRENCY"}

func invoiceRow(inv billomat.Invoice) []string {
	status := inv.Status.Label()
	if status == "" {
		status = "-"
	}
	return []string{
		strconv.Itoa(inv.ID),
		deref(inv.InvoiceNumber),
		strconv.Itoa(inv.ClientID),
		formatDate(inv.Date),
		formatDate(inv.DueDate),
		status,
		formatMoney(inv.TotalGross),
		formatMoney(inv.OpenAmount),
		deref(inv.CurrencyCode),
	}
}

func newInvoicesListCmd() *cobra.Command {
	var (
		clientRef, number, status, paymentType string
		from, to, label, tags, orderBy         string
		articleID                              int
		clientID                               *int
	)

	return NewListCommand(ListConfig[billomat.Invoice]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List invoices",
		Example: strings.TrimSpace(`
  billomat invoices list --status open,overdue
  billomat invoices list --client "Acme GmbH" --from 2024-01-01 --to 2024-12-31
  billomat invoices list --all -o json --jq '[.items[] | .total_gross | tonumber] | add'
`),
		Prepare: func(cmd *cobra.Command, _ []string) error {
			clientID = nil
			if clientRef == "" {
				return nil
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveClientID(cmd.Context(), client, clientRef)
			if err != nil {
				return err
			}
			clientID = &id
			return nil
		},
		Fetch: func(ctx context.Context, client *billomat.Client, _ []string, paging billomat.Paging) ([]billomat.Invoice, error) {
			opts := &billomat.InvoiceListOptions{Paging: paging, ClientID: clientID}
			var err error
			if opts.Status, err = parseEnumListFlag("status", status, billomat.InvoiceStatuses); err != nil {
				return nil, err
			}
			if opts.PaymentType, err = parseEnumListFlag("payment-type", paymentType, billomat.InvoicePaymentTypes); err != nil {
				return nil, err
			}
			if from != "" {
				t, err := parseDate("from", from)
				if err != nil {
					return nil, err
				}
				opts.From = &t
			}
			if to != "" {
				t, err := parseDate("to", to)
				if err != nil {
					return nil, err
				}
				opts.To = &t
			}
			opts.InvoiceNumber = optString(number)
			opts.Label = optString(label)
			opts.Tags = optString(tags)
			opts.OrderBy = optString(orderBy)
			if articleID > 0 {
				opts.ArticleID = &articleID
			}
			return client.Invoices().List(ctx, opts)
		},
		Headers:      invoiceHeaders,
		RowFunc:      invoiceRow,
		EmptyMessage: "No invoices found",
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&clientRef, "client", "", "Client ID, name or client number")
			cmd.Flags().StringVar(&number, "number", "", "Filter by invoice number")
			cmd.Flags().StringVar(&status, "status", "", "Comma separated statuses: "+strings.Join(billomat.EnumStrings(billomat.InvoiceStatuses), ", "))
			cmd.Flags().StringVar(&paymentType, "payment-type", "", "Comma separated payment types")
			cmd.Flags().StringVar(&from, "from", "", "Invoice date from (YYYY-MM-DD)")
			cmd.Flags().StringVar(&to, "to", "", "Invoice date to (YYYY-MM-DD)")
			cmd.Flags().StringVar(&label, "label", "", "Filter by label")
			cmd.Flags().StringVar(&tags, "tags", "", "Filter by comma separated tags")
			cmd.Flags().IntVar(&articleID, "article-id", 0, "Only invoices containing this article")
			cmd.Flags().StringVar(&orderBy, "order-by", "", "Sort, e.g. \"date DESC\"")
			registerStaticCompletions(cmd, "status", billomat.EnumStrings(billomat.InvoiceStatuses))
		},
	})
}

func parseInvoiceIDArg(arg string) (int, error) {
	return parsePositiveIntArg(arg, "invoice ID")
}

func newInvoicesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"show"},
		Short:   "Show an invoice with its items and taxes",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseInvoiceIDArg(args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			inv, err := client.Invoices().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if inv == nil {
				return &notFoundError{resource: "invoice", id: id}
			}
			if isJSON(cmd) {
				return printJSON(cmd, inv)
			}
			return printInvoice(cmd, inv)
		}),
	}
}

func printInvoice(cmd *cobra.Command, inv *billomat.Invoice) error {
	out := cmd.OutOrStdout()
	number := deref(inv.InvoiceNumber)
	_, _ = fmt.Fprintf(out, "Invoice %d (%s) - %s\n", inv.ID, number, inv.Status.Label())
	_, _ = fmt.Fprintf(out, "  Client: %d\n", inv.ClientID)
	_, _ = fmt.Fprintf(out, "  Date: %s  Due: %s\n", formatDate(inv.Date), formatDate(inv.DueDate))
	if inv.Title != nil {
		_, _ = fmt.Fprintf(out, "  Title: %s\n", *inv.Title)
	}

	if len(inv.Items) > 0 {
		_, _ = fmt.Fprintln(out)
		f := newFormatter(cmd)
		f.StartTable([]string{"POS", "TITLE", "QTY", "UNIT PRICE", "TAX", "NET"})
		for _, it := range inv.Items {
			pos := "-"
			if it.Position != nil {
				pos = strconv.Itoa(*it.Position)
			}
			tax := "-"
			if it.TaxRate != nil {
				tax = it.TaxRate.String() + "%"
			}
			f.Row(pos, deref(it.Title), it.Quantity.String(), it.UnitPrice.StringFixed(2), tax, formatMoney(it.TotalNet))
		}
		if err := f.EndTable(); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "  Net:   %s %s\n", formatMoney(inv.TotalNet), deref(inv.CurrencyCode))
	for _, tax := range inv.Taxes {
		_, _ = fmt.Fprintf(out, "  %s (%s%%): %s\n", tax.Name, tax.Rate.String(), tax.Amount.StringFixed(2))
	}
	_, _ = fmt.Fprintf(out, "  Gross: %s %s\n", formatMoney(inv.TotalGross), deref(inv.CurrencyCode))
	if inv.PaidAmount != nil && !inv.PaidAmount.IsZero() {
		_, _ = fmt.Fprintf(out, "  Paid:  %s\n", formatMoney(inv.PaidAmount))
	}
	if inv.OpenAmount != nil {
		_, _ = fmt.Fprintf(out, "  Open:  %s\n", formatMoney(inv.OpenAmount))
	}
	return nil
}

// invoiceFieldFlags binds the writable invoice fields shared by create and update.
type invoiceFieldFlags struct {
	contactID, dueDays, discountDays      int
	address, date, supplyDate, supplyType string
	dueDate, discountRate, title, label   string
	intro, note, reduction, currency      string
	netGross, quote, paymentTypes         string
}

func (f *invoiceFieldFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.contactID, "contact-id", 0, "Contact person of the client")
	fs.StringVar(&f.address, "address", "", "Address block (@path reads a file)")
	fs.StringVar(&f.date, "date", "", "Invoice date (YYYY-MM-DD, today)")
	fs.StringVar(&f.supplyDate, "supply-date", "", "Supply date or period")
	fs.StringVar(&f.supplyType, "supply-date-type", "", "Supply date type: "+strings.Join(billomat.EnumStrings(billomat.SupplyDateTypes), ", "))
	fs.IntVar(&f.dueDays, "due-days", 0, "Payment term in days")
	fs.StringVar(&f.dueDate, "due-date", "", "Due date (YYYY-MM-DD)")
	fs.StringVar(&f.discountRate, "discount-rate", "", "Cash discount rate in percent")
	fs.IntVar(&f.discountDays, "discount-days", 0, "Cash discount period in days")
	fs.StringVar(&f.title, "title", "", "Document title")
	fs.StringVar(&f.label, "label", "", "Label")
	fs.StringVar(&f.intro, "intro", "", "Intro text (@path reads a file)")
	fs.StringVar(&f.note, "note", "", "Note text (@path reads a file)")
	fs.StringVar(&f.reduction, "reduction", "", "Reduction, absolute or with % suffix")
	fs.StringVar(&f.currency, "currency", "", "Currency code")
	fs.StringVar(&f.netGross, "net-gross", "", "Price basis: "+strings.Join(billomat.EnumStrings(billomat.NetGrossValues), ", "))
	fs.StringVar(&f.quote, "quote", "", "Currency exchange rate")
	fs.StringVar(&f.paymentTypes, "payment-types", "", "Accepted payment types (comma separated)")
	registerStaticCompletions(cmd, "net-gross", billomat.EnumStrings(billomat.NetGrossValues))
	registerStaticCompletions(cmd, "supply-date-type", billomat.EnumStrings(billomat.SupplyDateTypes))
}

func (f *invoiceFieldFlags) fields(cmd *cobra.Command) (billomat.InvoiceFields, error) {
	var out billomat.InvoiceFields
	var err error

	out.ContactID = intPtrIfChanged(cmd, "contact-id", f.contactID)
	if out.Address, err = textPtrIfChanged(cmd, "address", f.address); err != nil {
		return out, err
	}
	if out.Intro, err = textPtrIfChanged(cmd, "intro", f.intro); err != nil {
		return out, err
	}
	if out.Note, err = textPtrIfChanged(cmd, "note", f.note); err != nil {
		return out, err
	}
	if out.Date, err = datePtrIfChanged(cmd, "date", f.date); err != nil {
		return out, err
	}
	out.SupplyDate = stringPtrIfChanged(cmd, "supply-date", f.supplyDate)
	if out.SupplyDateType, err = parseEnumFlag("supply-date-type", f.supplyType, billomat.SupplyDateTypes); err != nil {
		return out, err
	}
	out.DueDays = intPtrIfChanged(cmd, "due-days", f.dueDays)
	if out.DueDate, err = datePtrIfChanged(cmd, "due-date", f.dueDate); err != nil {
		return out, err
	}
	if out.DiscountRate, err = decimalPtrIfChanged(cmd, "discount-rate", f.discountRate); err != nil {
		return out, err
	}
	out.DiscountDays = intPtrIfChanged(cmd, "discount-days", f.discountDays)
	out.Title = stringPtrIfChanged(cmd, "title", f.title)
	out.Label = stringPtrIfChanged(cmd, "label", f.label)
	out.Reduction = stringPtrIfChanged(cmd, "reduction", f.reduction)
	if flagOrAliasChanged(cmd, "currency") {
		out.CurrencyCode = billomat.Ptr(strings.ToUpper(strings.TrimSpace(f.currency)))
	}
	if out.NetGross, err = parseEnumFlag("net-gross", f.netGross, billomat.NetGrossValues); err != nil {
		return out, err
	}
	if out.Quote, err = decimalPtrIfChanged(cmd, "quote", f.quote); err != nil {
		return out, err
	}
	if flagOrAliasChanged(cmd, "payment-types") {
		types, err := parseEnumListFlag("payment-types", f.paymentTypes, billomat.InvoicePaymentTypes)
		if err != nil {
			return out, err
		}
		out.PaymentTypes = billomat.Ptr(strings.Join(billomat.EnumStrings(types), ","))
	}
	return out, nil
}

// parseItemFlag reads "QTY;UNIT_PRICE;TITLE[;TAX_RATE[;UNIT]]".
func parseItemFlag(value string) (*billomat.InvoiceItemCreate, error) {
	item, err := parseItemFields(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --item %q: %w (format QTY;UNIT_PRICE;TITLE[;TAX_RATE[;UNIT]])", value, err)
	}
	return item, nil
}

func parseItemFields(value string) (*billomat.InvoiceItemCreate, error) {
	parts := strings.Split(value, ";")
	if len(parts) < 3 || len(parts) > 5 {
		return nil, fmt.Errorf("expected 3 to 5 fields, got %d", len(parts))
	}
	qty, err := parseDecimal("item", parts[0])
	if err != nil {
		return nil, fmt.Errorf("quantity: %w", err)
	}
	price, err := parseDecimal("item", parts[1])
	if err != nil {
		return nil, fmt.Errorf("unit price: %w", err)
	}
	item := billomat.NewInvoiceItemCreate(qty, price)
	if title := strings.TrimSpace(parts[2]); title != "" {
		item.Title = &title
	}
	if len(parts) > 3 && strings.TrimSpace(parts[3]) != "" {
		rate, err := parseDecimal("item", strings.TrimSuffix(strings.TrimSpace(parts[3]), "%"))
		if err != nil {
			return nil, fmt.Errorf("tax rate: %w", err)
		}
		item.TaxRate = &rate
	}
	if len(parts) > 4 {
		if unit := strings.TrimSpace(parts[4]); unit != "" {
			item.Unit = &unit
		}
	}
	return item, nil
}

func newInvoicesCreateCmd() *cobra.Command {
	var (
		fields     invoiceFieldFlags
		clientRef  string
		items      []string
		templateID int
		numberPre  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft invoice",
		Example: strings.TrimSpace(`
  billomat invoices create --client 42 --item "2;49.50;Consulting hours;19"
  billomat invoices create --client "Acme GmbH" --title "Project X" \
    --item "1;1200;Implementation" --item "3;80;Support;19;h"
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			f, err := fields.fields(cmd)
			if err != nil {
				return err
			}
			specs := make([]*billomat.InvoiceItemCreate, 0, len(items))
			for _, raw := range items {
				item, err := parseItemFlag(raw)
				if err != nil {
					return err
				}
				specs = append(specs, item)
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			clientID, err := resolveClientID(cmd.Context(), client, clientRef)
			if err != nil {
				return err
			}

			create := billomat.NewInvoiceCreate(clientID)
			create.InvoiceFields = f
			create.Items = specs
			create.TemplateID = intPtrIfChanged(cmd, "template-id", templateID)
			create.NumberPre = stringPtrIfChanged(cmd, "number-pre", numberPre)

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "invoice",
				Method:    "POST",
				Path:      "invoices",
				Details:   map[string]any{"client_id": clientID, "items": len(specs)},
			}); ok || err != nil {
				return err
			}

			inv, err := client.Invoices().Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, inv)
			}
			printAction(cmd, "Created", "draft invoice", inv.ID, formatMoney(inv.TotalGross))
			return nil
		}),
	}

	fields.register(cmd)
	cmd.Flags().StringVar(&clientRef, "client", "", "Client ID, name or client number (required)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Line item QTY;UNIT_PRICE;TITLE[;TAX_RATE[;UNIT]] (repeatable)")
	cmd.Flags().IntVar(&templateID, "template-id", 0, "Template for the rendered document")
	cmd.Flags().StringVar(&numberPre, "number-pre", "", "Invoice number prefix")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func newInvoicesUpdateCmd() *cobra.Command {
	var fields invoiceFieldFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a draft invoice",
		Long:  "Update an invoice. Only the flags you pass are sent; most fields can only change while the invoice is a draft.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseInvoiceIDArg(args[0])
			if err != nil {
				return err
			}
			f, err := fields.fields(cmd)
			if err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  "invoice",
				Method:    "PUT",
				Path:      fmt.Sprintf("invoices/%d", id),
				Details:   map[string]any{"id": id},
			}); ok || err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			inv, err := client.Invoices().Update(cmd.Context(), id, &billomat.InvoiceUpdate{InvoiceFields: f})
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, inv)
			}
			printAction(cmd, "Updated", "invoice", inv.ID, "")
			return nil
		}),
	}

	fields.register(cmd)
	return cmd
}

func newInvoicesCompleteCmd() *cobra.Command {
	var (
		templateID int
		ids        string
	)

	cmd := &cobra.Command{
		Use:   "complete [id]",
		Short: "Complete draft invoices",
		Long:  "Complete drafts: Billomat assigns the invoice number and renders the PDF.",
		Example: strings.TrimSpace(`
  billomat invoices complete 1001
  billomat invoices complete --ids 1001,1002 --template-id 7
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			targets, err := invoiceTargets(args, ids)
			if err != nil {
				return err
			}
			tmpl := intPtrIfChanged(cmd, "template-id", templateID)

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "complete",
				Resource:  "invoice",
				Method:    "PUT",
				Path:      "invoices/{id}/complete",
				Details:   map[string]any{"ids": targets},
			}); ok || err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			if len(targets) == 1 {
				if err := client.Invoices().Complete(cmd.Context(), targets[0], tmpl); err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"completed": true, "id": targets[0]})
				}
				printAction(cmd, "Completed", "invoice", targets[0], "")
				return nil
			}
			return runBulkCommand(cmd, "Completed", "invoice", targets, func(ctx context.Context, id int) error {
				return client.Invoices().Complete(ctx, id, tmpl)
			})
		}),
	}

	cmd.Flags().IntVar(&templateID, "template-id", 0, "Template for the rendered document (default: account default)")
	cmd.Flags().StringVar(&ids, "ids", "", "Invoice IDs (comma separated, @file or @- for stdin)")
	return cmd
}

func invoiceTargets(args []string, ids string) ([]int, error) {
	if (len(args) == 0) == (ids == "") {
		return nil, fmt.Errorf("pass exactly one invoice ID or --ids")
	}
	if ids != "" {
		return ParseIDListFlag(ids)
	}
	id, err := parseInvoiceIDArg(args[0])
	if err != nil {
		return nil, err
	}
	return []int{id}, nil
}

func newInvoicesDeleteCmd() *cobra.Command {
	var ids string

	cmd := &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete draft invoices",
		Args:    cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			targets, err := invoiceTargets(args, ids)
			if err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "invoice",
				Method:    "DELETE",
				Path:      "invoices/{id}",
				Details:   map[string]any{"ids": targets},
				Warnings:  []string{"only drafts can be deleted"},
			}); ok || err != nil {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete %d invoice(s)? [y/N] ", len(targets)),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			if len(targets) == 1 {
				if err := client.Invoices().Delete(cmd.Context(), targets[0]); err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"deleted": true, "id": targets[0]})
				}
				printAction(cmd, "Deleted", "invoice", targets[0], "")
				return nil
			}
			return runBulkCommand(cmd, "Deleted", "invoice", targets, func(ctx context.Context, id int) error {
				return client.Invoices().Delete(ctx, id)
			})
		}),
	}

	cmd.Flags().StringVar(&ids, "ids", "", "Invoice IDs (comma separated, @file or @- for stdin)")
	return cmd
}

func newInvoicesPDFCmd() *cobra.Command {
	var (
		pdfType string
		file    string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Download the PDF of a completed invoice",
		Example: strings.TrimSpace(`
  billomat invoices pdf 1001
  billomat invoices pdf 1001 --type print -f invoice.pdf
  billomat invoices pdf 1001 -f - > invoice.pdf
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseInvoiceIDArg(args[0])
			if err != nil {
				return err
			}
			typ, err := parseEnumFlag("type", pdfType, billomat.InvoicePDFTypes)
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}

			var (
				data []byte
				meta *billomat.InvoicePDF
			)
			if raw {
				if data, err = client.Invoices().DownloadPDF(cmd.Context(), id, typ); err != nil {
					return err
				}
			} else {
				if meta, err = client.Invoices().PDF(cmd.Context(), id, typ); err != nil {
					return err
				}
				if meta == nil {
					return &notFoundError{resource: "invoice", id: id}
				}
				data = meta.Binary()
				if len(data) == 0 && meta.Base64File != "" {
					return fmt.Errorf("invoice %d: PDF payload is not valid base64", id)
				}
			}

			target := file
			if target == "" {
				target = fmt.Sprintf("invoice-%d.pdf", id)
				if meta != nil && meta.Filename != "" {
					target = filepath.Base(meta.Filename)
				}
			}
			if written, err := writeDownload(cmd, target, data); err != nil || !written {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "file": target, "bytes": len(data)})
			}
			printAction(cmd, "Saved", "invoice PDF", id, fmt.Sprintf("%s (%d bytes)", target, len(data)))
			return nil
		}),
	}

	cmd.Flags().StringVar(&pdfType, "type", "", "Rendition: "+strings.Join(billomat.EnumStrings(billomat.InvoicePDFTypes), ", "))
	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file, - for stdout (default: the Billomat file name)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Request the binary PDF instead of the base64 envelope")
	registerStaticCompletions(cmd, "type", billomat.EnumStrings(billomat.InvoicePDFTypes))
	return cmd
}
