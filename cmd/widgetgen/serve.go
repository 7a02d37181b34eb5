package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-widgetgen/internal/api"
	"github.com/goliatone/go-widgetgen/pkg/render"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-widgetgen/pkg/session"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API and interactive sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			renderers := render.NewRegistry()
			html, err := vanilla.New()
			if err != nil {
				return err
			}
			renderers.MustRegister(html)

			sessions := session.NewManager(a.service,
				session.WithMergePolicy(cfg.Session.Policy()),
				session.WithLogger(log),
				session.WithMetrics(a.metrics),
			)

			router, err := api.New(api.Deps{
				Service:     a.service,
				Sessions:    sessions,
				Renderers:   renderers,
				Store:       a.store,
				Themes:      a.themes,
				Metrics:     a.metrics,
				Gatherer:    a.registry,
				Logger:      log,
				CORSOrigins: cfg.Server.CORSOrigins,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", map[string]any{"addr": cfg.Server.Addr, "backend": cfg.Service.Backend})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down", nil)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
