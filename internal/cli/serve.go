package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shotgrid/internal/server"
	"github.com/matzehuels/shotgrid/pkg/observability"
	"github.com/matzehuels/shotgrid/pkg/session"
	"github.com/matzehuels/shotgrid/pkg/store"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		thumbDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored edits over HTTP",
		Long: `Serve stored edits over HTTP.

The API lists and updates edits in the configured store, computes layouts
for a client's geometry, answers hit tests and renders artifacts. Clients
that poll a layout should open a view, which only solves again when the
geometry or the edit changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			if thumbDir != "" {
				c.Config.Server.ThumbDir = thumbDir
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&thumbDir, "thumb-dir", "", "folder that thumbnail paths are relative to")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	st, err := store.Open(ctx, c.Config.Store, c.Logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	cfg := c.Config.Server
	recorder := observability.NewRecorder(c.Logger)
	recorder.Register()
	defer observability.Reset()

	srv := server.New(server.Config{
		Addr:            cfg.Addr,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Store:           st,
		Runner:          runner,
		Sessions:        session.NewMemoryStore(),
		Logger:          c.Logger,
		Defaults:        c.defaultOptions(),
		Recorder:        recorder,
		StartTime:       time.Now(),
	})

	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(cfg.Addr)))
	printDetail("store: %s %s", storeBackend(c.Config.Store), c.Config.Store.DSN)
	return srv.Run(ctx)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
