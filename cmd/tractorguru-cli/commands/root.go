package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/tractorguru/config"
	"github.com/use-agent/tractorguru/tractorguru"
)

type rootOptions struct {
	json    bool
	baseURL string
	engine  string
	timeout time.Duration
}

// NewRootCmd builds the tractorguru-cli command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "tractorguru-cli",
		Short:         "tractorguru-cli scrapes tractor brands, models and specs from TractorGuru.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&opts.json, "json", false, "Print JSON instead of a table.")
	flags.StringVar(&opts.baseURL, "base-url", "", "Override the site origin (TRACTORGURU_UPSTREAM_BASE_URL).")
	flags.StringVar(&opts.engine, "engine", "", "Fetch engine: resty or utls (TRACTORGURU_UPSTREAM_ENGINE).")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout, e.g. 10s (TRACTORGURU_UPSTREAM_TIMEOUT).")

	rootCmd.AddCommand(
		newBrandsCmd(opts),
		newModelsCmd(opts),
		newDetailsCmd(opts),
	)
	return rootCmd
}

// ExecuteContext runs the CLI and exits non-zero on failure.
func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// client builds a scraping client from the environment plus flag overrides.
func (o *rootOptions) client() (*tractorguru.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.baseURL != "" {
		cfg.Upstream.BaseURL = o.baseURL
	}
	if o.engine != "" {
		cfg.Upstream.Engine = o.engine
	}
	if o.timeout > 0 {
		cfg.Upstream.Timeout = o.timeout
	}
	return tractorguru.NewFromConfig(cfg.Upstream, cfg.Cache)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
