// Package dryrun previews Billomat mutations without sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes the request a mutating command would have sent.
type Preview struct {
	Operation string
	Resource  string
	Method    string
	Path      string
	Details   map[string]any
	Warnings  []string
}

// Payload is the JSON form of a preview.
func (p *Preview) Payload() map[string]any {
	out := map[string]any{
		"dry_run":   true,
		"operation": p.Operation,
		"resource":  p.Resource,
	}
	if p.Method != "" {
		out["request"] = map[string]string{"method": p.Method, "path": p.Path}
	}
	if len(p.Details) > 0 {
		out["details"] = p.Details
	}
	if len(p.Warnings) > 0 {
		out["warnings"] = p.Warnings
	}
	return out
}

// Write prints the preview for humans. Details are listed in key order.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would %s %s\n", p.Operation, p.Resource)
	if p.Method != "" {
		_, _ = fmt.Fprintf(w, "  %s /api/%s\n", p.Method, p.Path)
	}

	keys := make([]string, 0, len(p.Details))
	for k := range p.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %v\n", k, p.Details[k])
	}

	for _, warning := range p.Warnings {
		_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
	}
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}
