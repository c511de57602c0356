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

func newClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client", "customers"},
		Short:   "Manage clients (customers)",
	}

	cmd.AddCommand(newClientsListCmd())
	cmd.AddCommand(newClientsGetCmd())
	cmd.AddCommand(newClientsMyselfCmd())
	cmd.AddCommand(newClientsCreateCmd())
	cmd.AddCommand(newClientsUpdateCmd())
	cmd.AddCommand(newClientsDeleteCmd())
	cmd.AddCommand(newClientsFindCmd())

	return cmd
}

func clientRow(c billomat.ClientRecord) []string {
	return []string{
		strconv.Itoa(c.ID),
		deref(c.ClientNumber),
		c.DisplayName(),
		deref(c.Email),
		deref(c.City),
		deref(c.CountryCode),
	}
}

var clientHeaders = []string{"ID", "NUMBER", "NAME", "EMAIL", "CITY", "COUNTRY"}

func newClientsListCmd() *cobra.Command {
	var (
		name, number, email, firstName, lastName string
		country, note, tags, orderBy             string
		invoiceID                                int
	)

	return NewListCommand(ListConfig[billomat.ClientRecord]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clients",
		Example: strings.TrimSpace(`
  billomat clients list --name acme
  billomat clients list --country DE --all -o jsonl
`),
		Fetch: func(ctx context.Context, client *billomat.Client, _ []string, paging billomat.Paging) ([]billomat.ClientRecord, error) {
			opts := &billomat.ClientListOptions{Paging: paging}
			opts.Name = optString(name)
			opts.ClientNumber = optString(number)
			opts.Email = optString(email)
			opts.FirstName = optString(firstName)
			opts.LastName = optString(lastName)
			opts.CountryCode = optString(country)
			opts.Note = optString(note)
			opts.Tags = optString(tags)
			opts.OrderBy = optString(orderBy)
			if invoiceID > 0 {
				opts.InvoiceID = &invoiceID
			}
			return client.Clients().List(ctx, opts)
		},
		Headers:      clientHeaders,
		RowFunc:      clientRow,
		EmptyMessage: "No clients found",
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&name, "name", "", "Filter by company name (partial match)")
			cmd.Flags().StringVar(&number, "number", "", "Filter by client number")
			cmd.Flags().StringVar(&email, "email", "", "Filter by email address")
			cmd.Flags().StringVar(&firstName, "first-name", "", "Filter by first name of the contact person")
			cmd.Flags().StringVar(&lastName, "last-name", "", "Filter by last name of the contact person")
			cmd.Flags().StringVar(&country, "country", "", "Filter by ISO country code")
			cmd.Flags().StringVar(&note, "note", "", "Filter by note")
			cmd.Flags().StringVar(&tags, "tags", "", "Filter by comma separated tags")
			cmd.Flags().IntVar(&invoiceID, "invoice-id", 0, "Only the client of this invoice")
			cmd.Flags().StringVar(&orderBy, "order-by", "", "Sort, e.g. \"name ASC\"")
		},
	})
}

// optString turns an empty filter into nil so it stays out of the query.
func optString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// resolveClientID accepts a numeric ID or a fuzzy name/client number.
func resolveClientID(ctx context.Context, client *billomat.Client, ref string) (int, error) {
	if id, err := parsePositiveIntArg(ref, "client ID"); err == nil {
		return id, nil
	}
	var all []billomat.ClientRecord
	for page := 1; page <= defaultMaxPages; page++ {
		batch, err := client.Clients().List(ctx, &billomat.ClientListOptions{Paging: billomat.Paging{PerPage: maxPerPage, Page: page}})
		if err != nil {
			return 0, err
		}
		all = append(all, batch...)
		if len(batch) < maxPerPage {
			break
		}
	}
	id, err := resolve.FuzzyMatch(ref, resolve.Clients(all))
	if err != nil {
		return 0, fmt.Errorf("client %q: %w", ref, err)
	}
	return id, nil
}

func printClient(cmd *cobra.Command, c *billomat.ClientRecord) error {
	if isJSON(cmd) {
		return printJSON(cmd, c)
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Client %d: %s\n", c.ID, c.DisplayName())
	rows := [][2]string{
		{"Number", deref(c.ClientNumber)},
		{"Contact", strings.TrimSpace(strings.Join([]string{deref(c.FirstName), deref(c.LastName)}, " "))},
		{"Email", deref(c.Email)},
		{"Phone", deref(c.Phone)},
		{"Street", deref(c.Street)},
		{"City", strings.TrimSpace(deref(c.Zip) + " " + deref(c.City))},
		{"Country", deref(c.CountryCode)},
		{"VAT number", deref(c.VatNumber)},
		{"Currency", deref(c.CurrencyCode)},
		{"Net/gross", string(c.NetGross)},
	}
	if c.Archived != nil && *c.Archived {
		rows = append(rows, [2]string{"Archived", "yes"})
	}
	f := newFormatter(cmd)
	for _, r := range rows {
		if r[1] == "" || r[1] == "-" || r[1] == "- -" {
			continue
		}
		f.Row("  "+r[0]+":", r[1])
	}
	return f.EndTable()
}

func newClientsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id|name>",
		Aliases: []string{"show"},
		Short:   "Show a client by ID, name or client number",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveClientID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			c, err := client.Clients().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if c == nil {
				return &notFoundError{resource: "client", id: id}
			}
			return printClient(cmd, c)
		}),
		ValidArgsFunction: completeArg(clientCompletions),
	}
}

func newClientsMyselfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "myself",
		Short: "Show your own company as a client record",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			c, err := client.Clients().Myself(cmd.Context())
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("no client record for the account owner")
			}
			return printClient(cmd, c)
		}),
	}
}

// clientFieldFlags binds the writable client fields shared by create and update.
type clientFieldFlags struct {
	name, number, street, zip, city, state, country    string
	firstName, lastName, salutation, email, phone, fax string
	mobile, www, note, locale, taxNumber, vatNumber    string
	taxRule, netGross, currency                        string
	debitor, priceGroup, dueDays, reminderDueDays      int
	offerValidityDays                                  int
	reduction, discountRate, discountDays              string
}

func (c *clientFieldFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&c.name, "name", "", "Company name")
	fs.StringVar(&c.number, "number", "", "Client number")
	fs.StringVar(&c.street, "street", "", "Street")
	fs.StringVar(&c.zip, "zip", "", "Postal code")
	fs.StringVar(&c.city, "city", "", "City")
	fs.StringVar(&c.state, "state", "", "State")
	fs.StringVar(&c.country, "country", "", "ISO country code, e.g. DE")
	fs.StringVar(&c.firstName, "first-name", "", "First name of the contact person")
	fs.StringVar(&c.lastName, "last-name", "", "Last name of the contact person")
	fs.StringVar(&c.salutation, "salutation", "", "Salutation")
	fs.StringVar(&c.email, "email", "", "Email address")
	fs.StringVar(&c.phone, "phone", "", "Phone number")
	fs.StringVar(&c.fax, "fax", "", "Fax number")
	fs.StringVar(&c.mobile, "mobile", "", "Mobile number")
	fs.StringVar(&c.www, "www", "", "Website")
	fs.StringVar(&c.note, "note", "", "Internal note (@path reads a file)")
	fs.StringVar(&c.locale, "locale", "", "Locale, e.g. de_DE")
	fs.StringVar(&c.taxNumber, "tax-number", "", "Tax number")
	fs.StringVar(&c.vatNumber, "vat-number", "", "VAT ID")
	fs.StringVar(&c.taxRule, "tax-rule", "", "Tax rule: TAX, NO_TAX or COUNTRY")
	fs.StringVar(&c.netGross, "net-gross", "", "Price basis: "+strings.Join(billomat.EnumStrings(billomat.NetGrossValues), ", "))
	fs.StringVar(&c.currency, "currency", "", "Currency code, e.g. EUR")
	fs.IntVar(&c.debitor, "debitor-account-number", 0, "Debitor account number")
	fs.IntVar(&c.priceGroup, "price-group", 0, "Price group")
	fs.IntVar(&c.dueDays, "due-days", 0, "Payment term in days")
	fs.IntVar(&c.reminderDueDays, "reminder-due-days", 0, "Reminder term in days")
	fs.IntVar(&c.offerValidityDays, "offer-validity-days", 0, "Offer validity in days")
	fs.StringVar(&c.reduction, "reduction", "", "Default reduction")
	fs.StringVar(&c.discountRate, "discount-rate", "", "Cash discount rate in percent")
	fs.StringVar(&c.discountDays, "discount-days", "", "Cash discount period in days")
	registerStaticCompletions(cmd, "net-gross", billomat.EnumStrings(billomat.NetGrossValues))
}

func (c *clientFieldFlags) fields(cmd *cobra.Command) (billomat.ClientFields, error) {
	var f billomat.ClientFields
	f.Name = stringPtrIfChanged(cmd, "name", c.name)
	f.ClientNumber = stringPtrIfChanged(cmd, "number", c.number)
	f.Street = stringPtrIfChanged(cmd, "street", c.street)
	f.Zip = stringPtrIfChanged(cmd, "zip", c.zip)
	f.City = stringPtrIfChanged(cmd, "city", c.city)
	f.State = stringPtrIfChanged(cmd, "state", c.state)
	if flagOrAliasChanged(cmd, "country") {
		f.CountryCode = billomat.Ptr(strings.ToUpper(strings.TrimSpace(c.country)))
	}
	f.FirstName = stringPtrIfChanged(cmd, "first-name", c.firstName)
	f.LastName = stringPtrIfChanged(cmd, "last-name", c.lastName)
	f.Salutation = stringPtrIfChanged(cmd, "salutation", c.salutation)
	f.Email = stringPtrIfChanged(cmd, "email", c.email)
	f.Phone = stringPtrIfChanged(cmd, "phone", c.phone)
	f.Fax = stringPtrIfChanged(cmd, "fax", c.fax)
	f.Mobile = stringPtrIfChanged(cmd, "mobile", c.mobile)
	f.WWW = stringPtrIfChanged(cmd, "www", c.www)
	note, err := textPtrIfChanged(cmd, "note", c.note)
	if err != nil {
		return f, err
	}
	f.Note = note
	f.Locale = stringPtrIfChanged(cmd, "locale", c.locale)
	f.TaxNumber = stringPtrIfChanged(cmd, "tax-number", c.taxNumber)
	f.VatNumber = stringPtrIfChanged(cmd, "vat-number", c.vatNumber)
	if flagOrAliasChanged(cmd, "tax-rule") {
		rule, err := normalizeEnum("tax-rule", c.taxRule, []string{"TAX", "NO_TAX", "COUNTRY"})
		if err != nil {
			return f, err
		}
		f.TaxRule = &rule
	}
	netGross, err := parseEnumFlag("net-gross", c.netGross, billomat.NetGrossValues)
	if err != nil {
		return f, err
	}
	f.NetGross = netGross
	if flagOrAliasChanged(cmd, "currency") {
		f.CurrencyCode = billomat.Ptr(strings.ToUpper(strings.TrimSpace(c.currency)))
	}
	f.DebitorAccountNumber = intPtrIfChanged(cmd, "debitor-account-number", c.debitor)
	f.PriceGroup = intPtrIfChanged(cmd, "price-group", c.priceGroup)
	f.DueDays = intPtrIfChanged(cmd, "due-days", c.dueDays)
	f.ReminderDueDays = intPtrIfChanged(cmd, "reminder-due-days", c.reminderDueDays)
	f.OfferValidityDays = intPtrIfChanged(cmd, "offer-validity-days", c.offerValidityDays)
	if f.Reduction, err = decimalPtrIfChanged(cmd, "reduction", c.reduction); err != nil {
		return f, err
	}
	if f.DiscountRate, err = decimalPtrIfChanged(cmd, "discount-rate", c.discountRate); err != nil {
		return f, err
	}
	if f.DiscountDays, err = decimalPtrIfChanged(cmd, "discount-days", c.discountDays); err != nil {
		return f, err
	}
	return f, nil
}

func newClientsCreateCmd() *cobra.Command {
	var (
		fields     clientFieldFlags
		iban, bic  string
		bankName   string
		bankOwner  string
		numberPre  string
		dunningRun bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		Example: strings.TrimSpace(`
  billomat clients create --name "Acme GmbH" --email billing@acme.example --country DE
  billomat clients create --first-name Erika --last-name Mustermann --dunning-run
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			f, err := fields.fields(cmd)
			if err != nil {
				return err
			}
			if f.Name == nil && f.FirstName == nil && f.LastName == nil {
				return fmt.Errorf("--name or --first-name/--last-name is required")
			}

			create := &billomat.ClientCreate{ClientFields: f, DunningRun: dunningRun}
			create.NumberPre = stringPtrIfChanged(cmd, "number-pre", numberPre)
			create.BankIBAN = stringPtrIfChanged(cmd, "iban", iban)
			create.BankSwift = stringPtrIfChanged(cmd, "bic", bic)
			create.BankName = stringPtrIfChanged(cmd, "bank-name", bankName)
			create.BankAccountOwner = stringPtrIfChanged(cmd, "bank-account-owner", bankOwner)

			label := ""
			if f.Name != nil {
				label = *f.Name
			}
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "client",
				Method:    "POST",
				Path:      "clients",
				Details:   map[string]any{"name": label, "dunning_run": dunningRun},
			}); ok || err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			created, err := client.Clients().Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, created)
			}
			printAction(cmd, "Created", "client", created.ID, created.DisplayName())
			return nil
		}),
	}

	fields.register(cmd)
	cmd.Flags().StringVar(&numberPre, "number-pre", "", "Client number prefix")
	cmd.Flags().StringVar(&iban, "iban", "", "Bank IBAN")
	cmd.Flags().StringVar(&bic, "bic", "", "Bank BIC/SWIFT")
	cmd.Flags().StringVar(&bankName, "bank-name", "", "Bank name")
	cmd.Flags().StringVar(&bankOwner, "bank-account-owner", "", "Bank account owner")
	cmd.Flags().BoolVar(&dunningRun, "dunning-run", false, "Include the client in dunning runs")
	return cmd
}

func newClientsUpdateCmd() *cobra.Command {
	var (
		fields     clientFieldFlags
		archived   bool
		dunningRun bool
	)

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Update a client",
		Long:  "Update a client. Only the flags you pass are sent.",
		Example: strings.TrimSpace(`
  billomat clients update 42 --email new@acme.example
  billomat clients update "Acme GmbH" --archived
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			f, err := fields.fields(cmd)
			if err != nil {
				return err
			}
			update := &billomat.ClientUpdate{
				ClientFields: f,
				Archived:     boolPtrIfChanged(cmd, "archived", archived),
				DunningRun:   boolPtrIfChanged(cmd, "dunning-run", dunningRun),
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveClientID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  "client",
				Method:    "PUT",
				Path:      fmt.Sprintf("clients/%d", id),
				Details:   map[string]any{"id": id},
			}); ok || err != nil {
				return err
			}

			updated, err := client.Clients().Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, updated)
			}
			printAction(cmd, "Updated", "client", updated.ID, updated.DisplayName())
			return nil
		}),
		ValidArgsFunction: completeArg(clientCompletions),
	}

	fields.register(cmd)
	cmd.Flags().BoolVar(&archived, "archived", false, "Archive (or --archived=false to restore) the client")
	cmd.Flags().BoolVar(&dunningRun, "dunning-run", false, "Include the client in dunning runs")
	return cmd
}

func newClientsDeleteCmd() *cobra.Command {
	var ids string

	cmd := &cobra.Command{
		Use:     "delete [id|name]",
		Aliases: []string{"rm"},
		Short:   "Delete clients",
		Long:    "Delete a client, or several at once with --ids. Clients with documents cannot be deleted; archive them instead.",
		Example: strings.TrimSpace(`
  billomat clients delete 42
  billomat clients delete --ids 42,43,44 --yes
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (ids == "") {
				return fmt.Errorf("pass exactly one client or --ids")
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}

			var targets []int
			if ids != "" {
				if targets, err = ParseIDListFlag(ids); err != nil {
					return err
				}
			} else {
				id, err := resolveClientID(cmd.Context(), client, args[0])
				if err != nil {
					return err
				}
				targets = []int{id}
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "client",
				Method:    "DELETE",
				Path:      "clients/{id}",
				Details:   map[string]any{"ids": targets},
			}); ok || err != nil {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete %d client(s)? [y/N] ", len(targets)),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}

			if len(targets) == 1 {
				if err := client.Clients().Delete(cmd.Context(), targets[0]); err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"deleted": true, "id": targets[0]})
				}
				printAction(cmd, "Deleted", "client", targets[0], "")
				return nil
			}
			return runBulkCommand(cmd, "Deleted", "client", targets, func(ctx context.Context, id int) error {
				return client.Clients().Delete(ctx, id)
			})
		}),
		ValidArgsFunction: completeArg(clientCompletions),
	}

	cmd.Flags().StringVar(&ids, "ids", "", "IDs to delete (comma separated, @file or @- for stdin)")
	return cmd
}

func newClientsFindCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search clients by name or client number",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			list, err := client.Clients().List(cmd.Context(), &billomat.ClientListOptions{Paging: billomat.Paging{PerPage: maxPerPage}})
			if err != nil {
				return err
			}
			byID := make(map[int]billomat.ClientRecord, len(list))
			for _, c := range list {
				byID[c.ID] = c
			}

			seen := make(map[int]bool)
			var found []billomat.ClientRecord
			for _, m := range resolve.FuzzyMatchAll(args[0], resolve.Clients(list), limit*2) {
				if seen[m.ID] {
					continue
				}
				seen[m.ID] = true
				found = append(found, byID[m.ID])
				if len(found) == limit {
					break
				}
			}

			if isJSON(cmd) {
				return printList(cmd, found)
			}
			f := newFormatter(cmd)
			if len(found) == 0 {
				f.Empty(fmt.Sprintf("No client matches %q", args[0]))
				return nil
			}
			f.StartTable(clientHeaders)
			for _, c := range found {
				f.Row(clientRow(c)...)
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum matches to show")
	return cmd
}
