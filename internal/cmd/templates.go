package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/dryrun"
	"github.com/justpilot/billomat-go/internal/resolve"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Manage document templates",
	}

	cmd.AddCommand(newTemplatesListCmd())
	cmd.AddCommand(newTemplatesGetCmd())
	cmd.AddCommand(newTemplatesCreateCmd())
	cmd.AddCommand(newTemplatesUpdateCmd())
	cmd.AddCommand(newTemplatesDeleteCmd())
	cmd.AddCommand(newTemplatesThumbCmd())

	return cmd
}

var templateHeaders = []string{"ID", "NAME", "DOCUMENT", "KIND", "FORMAT", "DEFAULT"}

func templateRow(t billomat.Template) []string {
	def := ""
	if t.IsDefault != nil && *t.IsDefault {
		def = "yes"
	}
	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	return []string{
		strconv.Itoa(t.ID),
		deref(t.Name),
		orDash(string(t.Type)),
		orDash(string(t.TemplateType)),
		orDash(string(t.Format)),
		def,
	}
}

func newTemplatesListCmd() *cobra.Command {
	var docType string

	return NewListCommand(ListConfig[billomat.Template]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List templates",
		Example: "  billomat templates list --type INVOICE",
		Prepare: func(_ *cobra.Command, _ []string) error {
			_, err := parseEnumFlag("type", docType, billomat.TemplateDocumentTypes)
			return err
		},
		Fetch: func(ctx context.Context, client *billomat.Client, _ []string, paging billomat.Paging) ([]billomat.Template, error) {
			typ, err := parseEnumFlag("type", docType, billomat.TemplateDocumentTypes)
			if err != nil {
				return nil, err
			}
			return client.Templates().List(ctx, &billomat.TemplateListOptions{Paging: paging, Type: typ})
		},
		Headers:      templateHeaders,
		RowFunc:      templateRow,
		EmptyMessage: "No templates found",
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&docType, "type", "", "Document type: "+strings.Join(billomat.EnumStrings(billomat.TemplateDocumentTypes), ", "))
			registerStaticCompletions(cmd, "type", billomat.EnumStrings(billomat.TemplateDocumentTypes))
		},
	})
}

// resolveTemplateID accepts a numeric ID or a template name.
func resolveTemplateID(ctx context.Context, client *billomat.Client, ref string) (int, error) {
	if id, err := parsePositiveIntArg(ref, "template ID"); err == nil {
		return id, nil
	}
	templates, err := client.Templates().List(ctx, &billomat.TemplateListOptions{Paging: billomat.Paging{PerPage: maxPerPage}})
	if err != nil {
		return 0, err
	}
	id, err := resolve.FuzzyMatch(ref, resolve.Templates(templates))
	if err != nil {
		return 0, fmt.Errorf("template %q: %w", ref, err)
	}
	return id, nil
}

func newTemplatesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show a template",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveTemplateID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			tpl, err := client.Templates().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if tpl == nil {
				return &notFoundError{resource: "template", id: id}
			}
			if isJSON(cmd) {
				return printJSON(cmd, tpl)
			}
			f := newFormatter(cmd)
			f.StartTable(templateHeaders)
			f.Row(templateRow(*tpl)...)
			return f.EndTable()
		}),
		ValidArgsFunction: completeArg(templateCompletions),
	}
}

// templateFormatFromPath derives the upload format from a file extension.
func templateFormatFromPath(path string) billomat.TemplateFormat {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return billomat.ParseTemplateFormat(ext)
}

func newTemplatesCreateCmd() *cobra.Command {
	var (
		docType   string
		name      string
		file      string
		format    string
		isDefault bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Upload a template",
		Example: strings.TrimSpace(`
  billomat templates create --type INVOICE --name "Invoice 2024" --file invoice.docx
  billomat templates create --type OFFER --file offer.rtf --default
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			typ, err := parseEnumFlag("type", docType, billomat.TemplateDocumentTypes)
			if err != nil {
				return err
			}
			if typ == "" {
				return fmt.Errorf("--type is required")
			}
			create := &billomat.TemplateCreate{
				Type:      typ,
				Name:      stringPtrIfChanged(cmd, "name", name),
				IsDefault: boolPtrIfChanged(cmd, "default", isDefault),
			}
			if create.Format, err = parseEnumFlag("format", format, billomat.TemplateFormats); err != nil {
				return err
			}

			size := 0
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read template: %w", err)
				}
				size = len(data)
				encoded := base64.StdEncoding.EncodeToString(data)
				create.Base64File = &encoded
				if create.Format == "" {
					create.Format = templateFormatFromPath(file)
				}
				if create.Format == "" {
					return fmt.Errorf("cannot tell the format of %s: pass --format", file)
				}
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "template",
				Method:    "POST",
				Path:      "templates",
				Details: map[string]any{
					"type":   string(create.Type),
					"name":   deref(create.Name),
					"format": string(create.Format),
					"bytes":  size,
				},
			}); ok || err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			tpl, err := client.Templates().Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, tpl)
			}
			printAction(cmd, "Created", "template", tpl.ID, deref(tpl.Name))
			return nil
		}),
	}

	cmd.Flags().StringVar(&docType, "type", "", "Document type (required): "+strings.Join(billomat.EnumStrings(billomat.TemplateDocumentTypes), ", "))
	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Template file to upload (doc, docx or rtf)")
	cmd.Flags().StringVar(&format, "format", "", "File format, derived from --file when omitted")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Make this the default template for its document type")
	_ = cmd.MarkFlagRequired("type")
	registerStaticCompletions(cmd, "type", billomat.EnumStrings(billomat.TemplateDocumentTypes))
	registerStaticCompletions(cmd, "format", billomat.EnumStrings(billomat.TemplateFormats))
	return cmd
}

func newTemplatesUpdateCmd() *cobra.Command {
	var (
		name      string
		isDefault bool
	)

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Rename a template or change its default flag",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if !anyFlagChanged(cmd, "name", "default") {
				return fmt.Errorf("nothing to update: pass --name or --default")
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveTemplateID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			update := &billomat.TemplateUpdate{
				Name:      stringPtrIfChanged(cmd, "name", name),
				IsDefault: boolPtrIfChanged(cmd, "default", isDefault),
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "update",
				Resource:  "template",
				Method:    "PUT",
				Path:      fmt.Sprintf("templates/%d", id),
				Details:   map[string]any{"id": id},
			}); ok || err != nil {
				return err
			}

			tpl, err := client.Templates().Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, tpl)
			}
			printAction(cmd, "Updated", "template", tpl.ID, deref(tpl.Name))
			return nil
		}),
		ValidArgsFunction: completeArg(templateCompletions),
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Default template for its document type")
	return cmd
}

func newTemplatesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a template",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveTemplateID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "template",
				Method:    "DELETE",
				Path:      fmt.Sprintf("templates/%d", id),
			}); ok || err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete template %d? [y/N] ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			if err := client.Templates().Delete(cmd.Context(), id); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": true, "id": id})
			}
			printAction(cmd, "Deleted", "template", id, "")
			return nil
		}),
		ValidArgsFunction: completeArg(templateCompletions),
	}
}

func newTemplatesThumbCmd() *cobra.Command {
	var (
		format string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "thumb <id|name>",
		Short: "Download a preview image of a template",
		Example: strings.TrimSpace(`
  billomat templates thumb 12
  billomat templates thumb 12 --format jpg -f preview.jpg
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			thumbFormat, err := parseEnumFlag("format", format, billomat.TemplateThumbFormats)
			if err != nil {
				return err
			}
			if thumbFormat == "" {
				thumbFormat = billomat.ThumbPNG
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveTemplateID(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			data, err := client.Templates().Thumb(cmd.Context(), id, thumbFormat)
			if err != nil {
				return err
			}

			target := file
			if target == "" {
				target = fmt.Sprintf("template-%d.%s", id, thumbFormat)
			}
			if written, err := writeDownload(cmd, target, data); err != nil || !written {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "file": target, "bytes": len(data)})
			}
			printAction(cmd, "Saved", "template preview", id, fmt.Sprintf("%s (%d bytes)", target, len(data)))
			return nil
		}),
		ValidArgsFunction: completeArg(templateCompletions),
	}

	cmd.Flags().StringVar(&format, "format", "", "Image format: "+strings.Join(billomat.EnumStrings(billomat.TemplateThumbFormats), ", "))
	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file, - for stdout (default: template-ID.FORMAT)")
	registerStaticCompletions(cmd, "format", billomat.EnumStrings(billomat.TemplateThumbFormats))
	return cmd
}
