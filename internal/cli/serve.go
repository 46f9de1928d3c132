package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/internal/server"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// serveCommand creates the serve command for running the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags engineFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Endpoints:
  POST /v1/layout    lay out {"nodes": [...], "edges": [...]}
  POST /v1/validate  check a snapshot without laying it out
  GET  /healthz      liveness probe
  GET  /version      build information

A failed layout answers 200 with the nodes unchanged and "applied": false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			l, closeCache, err := c.newLayouter(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			srv := server.New(l, server.Config{
				Addr:         cfg.Server.Addr,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				Timeout:      cfg.Engine.Timeout.Duration,
				Logger:       loggerFromContext(ctx),
			})
			printInfo("Serving layouts on %s", StyleLink.Render("http://"+cfg.Server.Addr))
			printKeyValue("engine", l.Engine().Name())
			printKeyValue("direction", layout.DirectionName(cfg.Layout.Horizontal))
			printKeyValue("cache", cfg.Cache.Backend)
			return srv.ListenAndServe(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}
