package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symtower/internal/server"
	"github.com/matzehuels/symtower/pkg/cache"
	"github.com/matzehuels/symtower/pkg/config"
	"github.com/matzehuels/symtower/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags     symmetryFlags
		addr      string
		noMetrics bool
		cacheDir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the symmetry API over HTTP",
		Long: `Serve the symmetry API over HTTP.

Models are posted to /v1/detect or /v1/break; options are passed as query
parameters and default to the config file and the flags given here.
Prometheus metrics are served at /metrics. With --cache-dir (or
server.cache_dir in the config file) responses are cached on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("cache-dir") {
				cfg.Server.CacheDir = cacheDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, !noMetrics)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "address to listen on")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache responses in this directory")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, withMetrics bool) error {
	var metrics *server.Metrics
	if withMetrics {
		metrics = server.NewMetrics()
		observability.SetSymmetryHooks(metrics)
		observability.SetHTTPHooks(metrics)
		defer observability.Reset()
	}

	srv := server.New(cfg, c.Logger, metrics)
	if cfg.Server.CacheDir != "" {
		rc, err := cache.NewFileCache(cfg.Server.CacheDir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer rc.Close()
		srv.SetCache(rc)
		c.Logger.Debug("response cache enabled", "dir", cfg.Server.CacheDir, "ttl", time.Duration(cfg.Server.CacheTTL))
	}

	printInfo("Listening on %s", cfg.Server.Addr)
	return srv.ListenAndServe(ctx)
}
