package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/justpilot/billomat-go"
)

// CompletionItem represents an autocomplete suggestion
type CompletionItem struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type completionSource func(ctx context.Context, client *billomat.Client) ([]CompletionItem, error)

func outputCompletionItems(cmd *cobra.Command, items []CompletionItem) error {
	if isJSON(cmd) {
		return printList(cmd, items)
	}
	f := newFormatter(cmd)
	if len(items) == 0 {
		f.Empty("No values found")
		return nil
	}
	f.StartTable([]string{"VALUE", "LABEL", "DESCRIPTION"})
	for _, item := range items {
		f.Row(item.Value, item.Label, item.Description)
	}
	return f.EndTable()
}

func clientCompletions(ctx context.Context, client *billomat.Client) ([]CompletionItem, error) {
	clients, err := client.Clients().List(ctx, &billomat.ClientListOptions{Paging: billomat.Paging{PerPage: maxPerPage}})
	if err != nil {
		return nil, err
	}
	items := make([]CompletionItem, len(clients))
	for i, c := range clients {
		items[i] = CompletionItem{Value: strconv.Itoa(c.ID), Label: c.DisplayName(), Description: deref(c.ClientNumber)}
	}
	return items, nil
}

func taxCompletions(ctx context.Context, client *billomat.Client) ([]CompletionItem, error) {
	taxes, err := client.Taxes().List(ctx, nil)
	if err != nil {
		return nil, err
	}
	items := make([]CompletionItem, len(taxes))
	for i, t := range taxes {
		items[i] = CompletionItem{Value: strconv.Itoa(t.ID), Label: t.Name, Description: t.Rate.String() + "%"}
	}
	return items, nil
}

func templateCompletions(ctx context.Context, client *billomat.Client) ([]CompletionItem, error) {
	templates, err := client.Templates().List(ctx, &billomat.TemplateListOptions{Paging: billomat.Paging{PerPage: maxPerPage}})
	if err != nil {
		return nil, err
	}
	items := make([]CompletionItem, len(templates))
	for i, t := range templates {
		items[i] = CompletionItem{Value: strconv.Itoa(t.ID), Label: deref(t.Name), Description: string(t.Type)}
	}
	return items, nil
}

func staticCompletions[E ~string](values []E, label func(E) string) completionSource {
	return func(context.Context, *billomat.Client) ([]CompletionItem, error) {
		items := make([]CompletionItem, len(values))
		for i, v := range values {
			items[i] = CompletionItem{Value: string(v), Label: label(v)}
		}
		return items, nil
	}
}

// completeArg offers the IDs of source for the first positional argument,
// with the label as shell description. API failures yield no suggestions.
func completeArg(source completionSource) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		client, err := getClient(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		items, err := source(cmd.Context(), client)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, cobra.CompletionWithDesc(item.Value, item.Label))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func newCompletionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completions",
		Short: "Get autocomplete values for IDs",
		Long:  "Retrieve valid IDs and enum values (clients, taxes, templates, invoice statuses, payment types) for scripts and shell completion.",
	}

	sub := func(use, short string, source completionSource) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: RunE(func(cmd *cobra.Command, _ []string) error {
				var client *billomat.Client
				if use != "statuses" && use != "payment-types" {
					var err error
					if client, err = getClient(cmd); err != nil {
						return err
					}
				}
				items, err := source(cmd.Context(), client)
				if err != nil {
					return err
				}
				return outputCompletionItems(cmd, items)
			}),
		}
	}

	cmd.AddCommand(sub("clients", "List client IDs with names", clientCompletions))
	cmd.AddCommand(sub("taxes", "List tax rate IDs with names", taxCompletions))
	cmd.AddCommand(sub("templates", "List template IDs with names", templateCompletions))
	cmd.AddCommand(sub("statuses", "List invoice statuses (no API call)",
		staticCompletions(billomat.InvoiceStatuses, billomat.InvoiceStatus.Label)))
	cmd.AddCommand(sub("payment-types", "List payment types (no API call)",
		staticCompletions(billomat.InvoicePaymentTypes, func(t billomat.InvoicePaymentType) string { return string(t) })))

	return cmd
}
