package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/colcontools/wsman/internal/server"
	"github.com/colcontools/wsman/pkg/cache"
	"github.com/colcontools/wsman/pkg/history"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	noCache   bool
	redisAddr string
	mongoURI  string
}

// serveCommand creates the HTTP viewer command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace graph over HTTP",
		Long: `Serve the scanned workspace over HTTP.

Endpoints:
  /api/packages   package listing with sizes
  /api/graph      dependency graph (?select=a,b restricts to the closure)
  /api/scene      composed scene JSON (?focus=pkg&theme=light)
  /api/history    recent builds (requires --mongo)
  /graph.svg      rendered SVG

With --redis, package sizes are cached in Redis instead of the local
file cache, so multiple instances share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.workspaceRoot(cmd)
			if err != nil {
				return err
			}

			sizeCache, err := c.serveCache(cmd, opts)
			if err != nil {
				return err
			}
			defer sizeCache.Close()

			var store history.Store
			if opts.mongoURI != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), serveConnectTimeout)
				store, err = history.NewMongoStore(ctx, history.MongoConfig{URI: opts.mongoURI})
				cancel()
				if err != nil {
					return err
				}
				defer store.Close(cmd.Context())
			}

			cfg, _ := c.loadConfig()
			srv := server.New(server.Options{
				Addr:          opts.addr,
				WorkspaceRoot: root,
				Theme:         cfg.Theme,
				Cache:         sizeCache,
				History:       store,
			}, c.Logger)

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the size cache")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for a shared size cache (host:port)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "mongodb URI for the shared build history")

	return cmd
}

func (c *CLI) serveCache(cmd *cobra.Command, opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), serveConnectTimeout)
		defer cancel()
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	}
	return newCache(false)
}

// serveConnectTimeout bounds backend connection attempts at startup.
const serveConnectTimeout = 10 * time.Second
