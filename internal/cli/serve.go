package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlflow/internal/server"
	"github.com/matzehuels/umlflow/pkg/cache"
	"github.com/matzehuels/umlflow/pkg/observability"
	"github.com/matzehuels/umlflow/pkg/pipeline"
	"github.com/matzehuels/umlflow/pkg/store"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	redis     string // redis address; empty uses the local file cache
	redisDB   int
	mongo     string // MongoDB URI; empty uses storeDir
	mongoDB   string
	storeDir  string // file store directory; "memory" keeps records in process
	ttl       time.Duration
	noCache   bool
	logHooks  bool
	cacheKeys string // key namespace, for several deployments sharing one redis
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Layouts are cached in redis (--redis) or the local cache directory, and
stored records live in MongoDB (--mongo) or on disk (--store-dir).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for the layout cache (host:port)")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&opts.mongo, "mongo", "", "MongoDB URI for stored layouts")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", "", "MongoDB database (default: umlflow)")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", `directory for stored layouts, or "memory" (default: ~/.config/umlflow/layouts)`)
	cmd.Flags().DurationVar(&opts.ttl, "ttl", store.DefaultTTL, "lifetime of stored layouts")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.logHooks, "log-hooks", false, "log pipeline, cache and request events at debug level")
	cmd.Flags().StringVar(&opts.cacheKeys, "cache-namespace", "", "prefix for cache keys")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	if opts.logHooks {
		hooks := observability.NewLogHooks(logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}

	layoutCache, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if opts.cacheKeys != "" {
		keyer = cache.NewScopedKeyer(nil, opts.cacheKeys)
	}
	runner := pipeline.NewRunner(layoutCache, keyer, logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(server.Config{Addr: opts.addr, RecordTTL: opts.ttl}, runner, st, logger)

	c.out.success("Serving on %s", StyleLink.Render("http://"+opts.addr))
	c.out.detail("POST /v1/layout · POST /v1/render · GET /v1/layouts/{id}")
	c.out.newline()

	err = srv.Run(ctx)
	if errors.Is(err, context.Canceled) {
		c.out.info("Server stopped")
		return nil
	}
	return err
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.redis == "" || opts.noCache {
		return newCache(opts.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redis, DB: opts.redisDB})
	if err != nil {
		return nil, err
	}
	c.out.keyValue("cache", "redis "+opts.redis)
	return rc, nil
}

func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	switch {
	case opts.mongo != "":
		st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongo, Database: opts.mongoDB})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		c.out.keyValue("store", "mongo")
		return st, nil
	case opts.storeDir == "memory":
		c.out.keyValue("store", "memory")
		return store.NewMemoryStore(), nil
	default:
		st, err := store.NewFileStore(opts.storeDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		c.out.keyValue("store", st.Path())
		return st, nil
	}
}
