package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/config"
	"github.com/justpilot/billomat-go/internal/debug"
)

// registry collects request metrics of the current Execute() call.
var registry = prometheus.NewRegistry()

func resetMetrics() {
	registry = prometheus.NewRegistry()
}

type clientFactory struct {
	defaults  config.Defaults
	opts      config.ClientOptions
	userAgent string
}

func newClientFactory() *clientFactory {
	ua := defaults.UserAgent
	if ua == "" {
		ua = fmt.Sprintf("billomat-cli/%s", version)
	}
	return &clientFactory{
		defaults:  defaults,
		opts:      config.ClientOptions{Profile: flags.Profile, Timeout: flags.Timeout},
		userAgent: ua,
	}
}

func (f *clientFactory) client(cmd *cobra.Command) (*billomat.Client, error) {
	cfg, err := config.ResolveClientConfig(f.defaults, f.opts)
	if err != nil {
		return nil, err
	}
	opts := []billomat.Option{
		billomat.WithUserAgent(f.userAgent),
		billomat.WithMetrics(registry),
	}
	if logger := debug.ClientLogger(cmd.Context()); logger != nil {
		opts = append(opts, billomat.WithLogger(logger))
	}
	return billomat.NewFromConfig(cfg, opts...)
}

// getClient creates an API client from the resolved credentials
func getClient(cmd *cobra.Command) (*billomat.Client, error) {
	return newClientFactory().client(cmd)
}

// writeMetricsFile dumps the registry in the Prometheus text format. It is a
// no-op without --metrics-file.
func writeMetricsFile(path string) error {
	if path == "" {
		return nil
	}
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	slog.Debug("metrics written", "path", path, "requests", requestCount(families))
	return nil
}

// requestCount sums billomat_client_requests_total over all label sets.
func requestCount(families []*dto.MetricFamily) int {
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != "billomat_client_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return int(total)
}
