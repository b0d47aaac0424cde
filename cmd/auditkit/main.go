package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/auditkit/auditkit/internal/api"
	"github.com/auditkit/auditkit/internal/config"
	"github.com/auditkit/auditkit/internal/logger"
	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/audit"
	"github.com/auditkit/auditkit/pkg/fetcher"
	"github.com/auditkit/auditkit/pkg/ratelimit"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "auditkit",
	Short: "AuditKit - On-page SEO audit engine",
	Long: `AuditKit runs heuristic on-page SEO audits: it fetches a page,
evaluates it against a catalog of checks, and produces a scored report
with critical issues, quick wins, and content analysis.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the audit HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

		f := fetcher.New(
			fetcher.WithTimeout(cfg.Fetcher.Timeout),
			fetcher.WithUserAgent(cfg.Fetcher.UserAgent),
			fetcher.WithMaxAttempts(cfg.Fetcher.MaxAttempts),
			fetcher.WithRequestsPerSecond(cfg.Fetcher.RequestsPerSecond),
		)
		engine := audit.New(audit.Config{ExtractArticle: cfg.Audit.ExtractArticle})
		service := api.NewService(f, engine, log)

		var gate ratelimit.Gate = ratelimit.Unlimited{}
		if cfg.RateLimit.Enabled {
			gate = ratelimit.NewFixedWindow(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)
		}

		reg := prometheus.NewRegistry()
		transport := api.NewTransport(service, gate, log, reg, cfg.Server.TrustProxyHeaders)

		mux := http.NewServeMux()
		transport.RegisterRoutes(mux, reg)

		handler := api.RequestID(api.Logging(log)(mux))
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		server := &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("server listening", "addr", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			log.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit [URL]",
	Short: "Audit a single page and print the JSON report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		keyword, _ := cmd.Flags().GetString("keyword")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

		f := fetcher.New(
			fetcher.WithTimeout(cfg.Fetcher.Timeout),
			fetcher.WithUserAgent(cfg.Fetcher.UserAgent),
			fetcher.WithMaxAttempts(cfg.Fetcher.MaxAttempts),
			fetcher.WithRequestsPerSecond(cfg.Fetcher.RequestsPerSecond),
		)
		engine := audit.New(audit.Config{ExtractArticle: cfg.Audit.ExtractArticle})
		service := api.NewService(f, engine, log)

		report, err := service.Audit(cmd.Context(), args[0], models.Options{TargetKeyword: keyword})
		if err != nil {
			return fmt.Errorf("audit failed: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	auditCmd.Flags().String("keyword", "", "Target keyword to check against the title")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(auditCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
