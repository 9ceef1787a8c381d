package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olegrjumin/linkrisk/internal/config"
	"github.com/olegrjumin/linkrisk/internal/httpapi"
)

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			a, err := newApp(cfg, os.Stdout)
			if err != nil {
				return err
			}
			defer a.logger.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides PORT and the config file)")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully
func (a *app) serve(ctx context.Context) error {
	server := httpapi.NewServer(a.cfg.Addr(), a.logger, a.svc, httpapi.Info{
		Version:      version,
		ThreatFeed:   a.cfg.ThreatFeed.Enabled,
		ThreatSource: a.feedSource,
		DomainAge:    a.cfg.Whois.Enabled,
	})

	source := a.cfg.Source
	if source == "" {
		source = "defaults"
	}
	a.logger.Info("Configuration loaded",
		"source", source,
		"threat_feed", a.cfg.ThreatFeed.Enabled,
		"threat_feed_endpoint", a.cfg.ThreatFeed.Endpoint,
		"domain_age", a.cfg.Whois.Enabled,
	)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", "port", a.cfg.Server.Port, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("Server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info("Server stopped gracefully")
	return nil
}
