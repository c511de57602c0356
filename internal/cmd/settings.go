package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/dryrun"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"config"},
		Short:   "Show or change account settings",
	}

	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsUpdateCmd())

	return cmd
}

func intString(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show account settings",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			s, err := client.Settings().Get(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, s)
			}
			return printSettings(cmd, s)
		}),
	}
}

func printSettings(cmd *cobra.Command, s *billomat.Settings) error {
	f := newFormatter(cmd)
	f.StartTable([]string{"SETTING", "VALUE"})
	f.Row("Currency", deref(s.CurrencyCode))
	f.Row("Locale", deref(s.Locale))
	f.Row("Net/gross", string(s.NetGross))
	f.Row("Number range mode", string(s.NumberRangeMode))
	f.Row("Due days", intString(s.DueDays))
	f.Row("Discount", fmt.Sprintf("%s%% within %s days", formatMoney(s.DiscountRate), intString(s.DiscountDays)))
	f.Row("Reminder due days", intString(s.ReminderDueDays))
	f.Row("Offer validity days", intString(s.OfferValidityDays))
	f.Row("Default sender", deref(s.DefaultEmailSender))
	if len(s.BccAddresses) > 0 {
		f.Row("BCC", strings.Join(s.BccAddresses, ", "))
	}
	for _, doc := range []struct {
		label string
		ds    billomat.DocumentSettings
	}{
		{"Client", s.Clients},
		{"Article", s.ArticleNumbers},
		{"Invoice", s.Invoices},
		{"Offer", s.Offers},
	} {
		f.Row(doc.label+" numbers", fmt.Sprintf("%s / length %s / next %s",
			deref(doc.ds.NumberPre), intString(doc.ds.NumberLength), intString(doc.ds.NumberNext)))
	}
	f.Row("Invoice label", deref(s.Invoices.Label))
	for _, n := range s.PriceGroupNumbers() {
		f.Row(fmt.Sprintf("Price group %d", n), s.PriceGroups[n])
	}
	return f.EndTable()
}

func newSettingsUpdateCmd() *cobra.Command {
	var (
		strs         = map[string]*string{}
		ints         = map[string]*int{}
		netGross     string
		rangeMode    string
		discountRate string
		printVersion bool
	)

	// Plain string settings keyed by flag name.
	stringFlags := []struct{ name, usage string }{
		{"bgcolor", "Background color"},
		{"color1", "Primary color"},
		{"color2", "Secondary color"},
		{"color3", "Tertiary color"},
		{"currency", "Default currency code, e.g. EUR"},
		{"locale", "Default locale, e.g. de_DE"},
		{"sepa-creditor-id", "SEPA creditor ID"},
		{"article-number-pre", "Article number prefix"},
		{"client-number-pre", "Client number prefix"},
		{"invoice-number-pre", "Invoice number prefix"},
		{"invoice-label", "Invoice label"},
		{"invoice-intro", "Invoice intro text (@path reads a file)"},
		{"invoice-note", "Invoice note text (@path reads a file)"},
		{"invoice-filename", "Invoice PDF file name pattern"},
		{"offer-number-pre", "Offer number prefix"},
		{"default-email-sender", "Default sender address"},
	}
	intFlags := []struct{ name, usage string }{
		{"article-number-length", "Minimum article number length"},
		{"client-number-length", "Minimum client number length"},
		{"invoice-number-length", "Minimum invoice number length"},
		{"offer-number-length", "Minimum offer number length"},
		{"offer-validity-days", "Days an offer stays valid"},
		{"due-days", "Days until an invoice is due"},
		{"discount-days", "Days a cash discount applies"},
		{"reminder-due-days", "Days until a reminder is due"},
	}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change account settings",
		Example: strings.TrimSpace(`
  billomat settings update --due-days 14
  billomat settings update --invoice-number-pre RE- --invoice-number-length 5
  billomat settings update --discount-rate 2 --discount-days 10
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var changed []string
			cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
				if f.Changed {
					changed = append(changed, f.Name)
				}
			})
			if len(changed) == 0 {
				return fmt.Errorf("nothing to update: pass at least one setting flag")
			}
			sort.Strings(changed)

			str := func(name string) *string { return stringPtrIfChanged(cmd, name, *strs[name]) }
			num := func(name string) *int { return intPtrIfChanged(cmd, name, *ints[name]) }

			u := &billomat.SettingsUpdate{
				BgColor:             str("bgcolor"),
				Color1:              str("color1"),
				Color2:              str("color2"),
				Color3:              str("color3"),
				CurrencyCode:        str("currency"),
				Locale:              str("locale"),
				SepaCreditorID:      str("sepa-creditor-id"),
				ArticleNumberPre:    str("article-number-pre"),
				ArticleNumberLength: num("article-number-length"),
				ClientNumberPre:     str("client-number-pre"),
				ClientNumberLength:  num("client-number-length"),
				InvoiceNumberPre:    str("invoice-number-pre"),
				InvoiceNumberLength: num("invoice-number-length"),
				InvoiceLabel:        str("invoice-label"),
				InvoiceFilename:     str("invoice-filename"),
				OfferNumberPre:      str("offer-number-pre"),
				OfferNumberLength:   num("offer-number-length"),
				OfferValidityDays:   num("offer-validity-days"),
				DueDays:             num("due-days"),
				DiscountDays:        num("discount-days"),
				ReminderDueDays:     num("reminder-due-days"),
				PrintVersion:        boolPtrIfChanged(cmd, "print-version", printVersion),
				DefaultEmailSender:  str("default-email-sender"),
			}
			var err error
			if u.InvoiceIntro, err = textPtrIfChanged(cmd, "invoice-intro", *strs["invoice-intro"]); err != nil {
				return err
			}
			if u.InvoiceNote, err = textPtrIfChanged(cmd, "invoice-note", *strs["invoice-note"]); err != nil {
				return err
			}
			if u.NetGross, err = parseEnumFlag("net-gross", netGross, billomat.NetGrossValues); err != nil {
				return err
			}
			if u.NumberRangeMode, err = parseEnumFlag("number-range-mode", rangeMode, billomat.NumberRangeModes); err != nil {
				return err
			}
			if u.DiscountRate, err = decimalPtrIfChanged(cmd, "discount-rate", strings.TrimSuffix(discountRate, "%")); err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  "settings",
				Method:    "PUT",
				Path:      "settings",
				Details:   map[string]any{"fields": changed},
			}); ok || err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			s, err := client.Settings().Update(cmd.Context(), u)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, s)
			}
			printAction(cmd, "Updated", "settings", strings.Join(changed, ", "), "")
			return nil
		}),
	}

	for _, sf := range stringFlags {
		strs[sf.name] = cmd.Flags().String(sf.name, "", sf.usage)
	}
	for _, nf := range intFlags {
		ints[nf.name] = cmd.Flags().Int(nf.name, 0, nf.usage)
	}
	cmd.Flags().StringVar(&netGross, "net-gross", "", "Price entry: "+strings.Join(billomat.EnumStrings(billomat.NetGrossValues), ", "))
	cmd.Flags().StringVar(&rangeMode, "number-range-mode", "", "Number ranges: "+strings.Join(billomat.EnumStrings(billomat.NumberRangeModes), ", "))
	cmd.Flags().StringVar(&discountRate, "discount-rate", "", "Cash discount in percent")
	cmd.Flags().BoolVar(&printVersion, "print-version", false, "Attach a print version to sent documents")
	registerStaticCompletions(cmd, "net-gross", billomat.EnumStrings(billomat.NetGrossValues))
	registerStaticCompletions(cmd, "number-range-mode", billomat.EnumStrings(billomat.NumberRangeModes))
	return cmd
}
