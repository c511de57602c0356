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

func newPaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment", "invoice-payments"},
		Short:   "Manage payments booked against invoices",
	}

	cmd.AddCommand(newPaymentsListCmd())
	cmd.AddCommand(newPaymentsGetCmd())
	cmd.AddCommand(newPaymentsCreateCmd())
	cmd.AddCommand(newPaymentsDeleteCmd())

	return cmd
}

var paymentHeaders = []string{"ID", "INVOICE", "DATE", "AMOUNT", "TYPE", "COMMENT"}

func paymentRow(p billomat.InvoicePayment) []string {
	typ := string(p.Type)
	if typ == "" {
		typ = "-"
	}
	return []string{
		strconv.Itoa(p.ID),
		strconv.Itoa(p.InvoiceID),
		formatDate(p.Date),
		p.Amount.StringFixed(2),
		typ,
		deref(p.Comment),
	}
}

func newPaymentsListCmd() *cobra.Command {
	var (
		invoiceID, userID int
		from, to, types   string
		orderBy           string
	)

	return NewListCommand(ListConfig[billomat.InvoicePayment]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List payments",
		Example: strings.TrimSpace(`
  billomat payments list --invoice 1001
  billomat payments list --from 2024-01-01 --type BANK_TRANSFER,PAYPAL
`),
		Fetch: func(ctx context.Context, client *billomat.Client, _ []string, paging billomat.Paging) ([]billomat.InvoicePayment, error) {
			opts := &billomat.InvoicePaymentListOptions{Paging: paging, OrderBy: optString(orderBy)}
			if invoiceID > 0 {
				opts.InvoiceID = &invoiceID
			}
			if userID > 0 {
				opts.UserID = &userID
			}
			var err error
			if opts.Type, err = parseEnumListFlag("type", types, billomat.InvoicePaymentTypes); err != nil {
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
			return client.InvoicePayments().List(ctx, opts)
		},
		Headers:      paymentHeaders,
		RowFunc:      paymentRow,
		EmptyMessage: "No payments found",
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().IntVar(&invoiceID, "invoice", 0, "Only payments of this invoice")
			cmd.Flags().IntVar(&userID, "user-id", 0, "Only payments booked by this user")
			cmd.Flags().StringVar(&from, "from", "", "Payment date from (YYYY-MM-DD)")
			cmd.Flags().StringVar(&to, "to", "", "Payment date to (YYYY-MM-DD)")
			cmd.Flags().StringVar(&types, "type", "", "Comma separated payment types")
			cmd.Flags().StringVar(&orderBy, "order-by", "", "Sort, e.g. \"date DESC\"")
			registerStaticCompletions(cmd, "type", billomat.EnumStrings(billomat.InvoicePaymentTypes))
		},
	})
}

func newPaymentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a payment",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parsePositiveIntArg(args[0], "payment ID")
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			p, err := client.InvoicePayments().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if p == nil {
				return &notFoundError{resource: "payment", id: id}
			}
			if isJSON(cmd) {
				return printJSON(cmd, p)
			}
			f := newFormatter(cmd)
			f.StartTable(paymentHeaders)
			f.Row(paymentRow(*p)...)
			return f.EndTable()
		}),
	}
}

func newPaymentsCreateCmd() *cobra.Command {
	var (
		invoiceID   int
		amount      string
		date        string
		comment     string
		purpose     string
		paymentType string
		markPaid    bool
	)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"book"},
		Short:   "Book a payment on an invoice",
		Example: strings.TrimSpace(`
  billomat payments create --invoice 1001 --amount 119.00 --type BANK_TRANSFER
  billomat payments create --invoice 1001 --amount 50 --date 2024-03-01 --mark-paid
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if invoiceID <= 0 {
				return fmt.Errorf("--invoice must be a positive integer")
			}
			value, err := parseDecimal("amount", amount)
			if err != nil {
				return err
			}
			create := billomat.NewInvoicePaymentCreate(invoiceID, value)
			create.MarkInvoiceAsPaid = markPaid
			if create.Date, err = datePtrIfChanged(cmd, "date", date); err != nil {
				return err
			}
			create.Comment = stringPtrIfChanged(cmd, "comment", comment)
			create.TransactionPurpose = stringPtrIfChanged(cmd, "transaction-purpose", purpose)
			if create.Type, err = parseEnumFlag("type", paymentType, billomat.InvoicePaymentTypes); err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "payment",
				Method:    "POST",
				Path:      "invoice-payments",
				Details: map[string]any{
					"invoice_id":           invoiceID,
					"amount":               value.StringFixed(2),
					"mark_invoice_as_paid": markPaid,
				},
			}); ok || err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			payment, err := client.InvoicePayments().Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, payment)
			}
			printAction(cmd, "Booked", "payment", payment.ID, fmt.Sprintf("%s on invoice %d", payment.Amount.StringFixed(2), payment.InvoiceID))
			return nil
		}),
	}

	cmd.Flags().IntVar(&invoiceID, "invoice", 0, "Invoice ID (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount (required)")
	cmd.Flags().StringVar(&date, "date", "", "Payment date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment")
	cmd.Flags().StringVar(&purpose, "transaction-purpose", "", "Transaction purpose from the bank statement")
	cmd.Flags().StringVar(&paymentType, "type", "", "Payment type: "+strings.Join(billomat.EnumStrings(billomat.InvoicePaymentTypes), ", "))
	cmd.Flags().BoolVar(&markPaid, "mark-paid", false, "Mark the invoice as paid even if the amount does not cover it")
	_ = cmd.MarkFlagRequired("invoice")
	_ = cmd.MarkFlagRequired("amount")
	registerStaticCompletions(cmd, "type", billomat.EnumStrings(billomat.InvoicePaymentTypes))
	return cmd
}

func newPaymentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a payment",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parsePositiveIntArg(args[0], "payment ID")
			if err != nil {
				return err
			}
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "payment",
				Method:    "DELETE",
				Path:      fmt.Sprintf("invoice-payments/%d", id),
			}); ok || err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete payment %d? [y/N] ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			if err := client.InvoicePayments().Delete(cmd.Context(), id); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": true, "id": id})
			}
			printAction(cmd, "Deleted", "payment", id, "")
			return nil
		}),
	}
}
