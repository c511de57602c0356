package outfmt

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
)

// Formatter handles output formatting for commands.
type Formatter struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	tabWriter *tabwriter.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:       ctx,
		out:       out,
		errOut:    errOut,
		tabWriter: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data as JSON, JSON lines or a template based on the context.
// It writes nothing in text mode unless a template is set.
func (f *Formatter) Output(data any) error {
	tmpl := GetTemplate(f.ctx)
	if !IsJSON(f.ctx) && tmpl == "" {
		return nil
	}

	result, err := applyPipeline(data, GetFields(f.ctx), GetQuery(f.ctx))
	if err != nil {
		return err
	}

	switch {
	case tmpl != "":
		return WriteTemplate(f.out, result, tmpl)
	case IsJSONL(f.ctx):
		if items, ok := listItems(result); ok {
			return WriteJSONLines(f.out, items)
		}
		return WriteJSONLines(f.out, result)
	default:
		return WriteJSONMaybeCompact(f.out, result, IsCompact(f.ctx))
	}
}

// StartTable writes table headers. Returns true if in text mode.
func (f *Formatter) StartTable(headers []string) bool {
	if IsJSON(f.ctx) || GetTemplate(f.ctx) != "" {
		return false
	}

	f.Row(headers...)
	return true
}

// Row writes a single row to the table.
func (f *Formatter) Row(columns ...string) {
	for i, col := range columns {
		if i > 0 {
			_, _ = fmt.Fprint(f.tabWriter, "\t")
		}
		_, _ = fmt.Fprint(f.tabWriter, col)
	}
	_, _ = fmt.Fprintln(f.tabWriter)
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.tabWriter.Flush()
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
