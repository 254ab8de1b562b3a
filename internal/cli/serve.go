package cli

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ZabraveniGeroi/blogc/internal/metrics"
	"github.com/ZabraveniGeroi/blogc/internal/server"
	"github.com/ZabraveniGeroi/blogc/pkg/config"
)

type serveFlags struct {
	noWatch bool
}

func newServeCommand() *cobra.Command {
	var cfg config.Config
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build, watch and serve the site",
		Long: `Build the site, serve the output directory over HTTP and rebuild pages as
their sources change. Build metrics are exposed in Prometheus format at
/metrics. Stop with Ctrl-C.

Examples:
  blogc serve
  blogc serve --addr 127.0.0.1:9000 --no-watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&cfg.Serve.Addr, "addr", "", "listen address (default "+config.DefaultServeAddr+")")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "serve without rebuilding on change")

	return cmd
}

func runServe(cmd *cobra.Command, cliCfg *config.Config, flags *serveFlags) error {
	loadResult, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	site, err := startSite(cmd, loadResult, recorder)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	srv := server.New(loadResult.Config.Serve.Addr, site.opts.OutputDir,
		server.WithMetrics(metrics.HTTPHandler(reg)),
		server.WithLogger(site.logger),
	)

	watchErr := make(chan error, 1)
	if flags.noWatch {
		watchErr <- nil
	} else {
		go func() {
			err := site.watcher.Run(ctx)
			if err != nil {
				cancel()
			}
			watchErr <- err
		}()
	}

	serveErr := srv.ListenAndServe(ctx)
	cancel()

	return errors.Join(serveErr, <-watchErr)
}
