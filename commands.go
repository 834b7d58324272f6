package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mdp/qrterminal"
	"github.com/spf13/cobra"

	"github.com/CSCSoftware/evolution-mcp/config"
	"github.com/CSCSoftware/evolution-mcp/evolution"
	mcpServer "github.com/CSCSoftware/evolution-mcp/mcp"
	"github.com/CSCSoftware/evolution-mcp/metrics"
	"github.com/CSCSoftware/evolution-mcp/store"
	"github.com/CSCSoftware/evolution-mcp/webhook"
)

const shutdownTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	var withWebhook bool

	serve := func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), withWebhook)
	}

	root := &cobra.Command{
		Use:          "evolution-mcp",
		Short:        "MCP server for the Evolution API WhatsApp gateway",
		Long:         "evolution-mcp exposes the Evolution API as MCP tools over stdio and can receive gateway webhooks on a local listener.",
		SilenceUsage: true,
		RunE:         serve,
	}
	root.Flags().BoolVar(&withWebhook, "webhook", false, "start the webhook listener at boot")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio (default)",
		RunE:  serve,
	}
	serveCmd.Flags().BoolVar(&withWebhook, "webhook", false, "start the webhook listener at boot")

	root.AddCommand(serveCmd, pairCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", config.ServerName, config.ServerVersion)
		},
	}
}

func pairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pair",
		Short: "Show the pairing code and QR code for the configured instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger(cfg.LogLevel)
			client := evolution.NewClient(cfg.Evolution, evolution.Options{Logger: logger})

			info, err := client.ConnectInstance(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect instance %s: %w", cfg.Evolution.Instance, err)
			}
			if info.Code == "" && info.PairingCode == "" {
				fmt.Fprintf(os.Stderr, "Instance %s returned no pairing data; it is probably connected already.\n", cfg.Evolution.Instance)
				return nil
			}
			if info.Code != "" {
				fmt.Fprintln(os.Stderr, "\nScan this QR code with your WhatsApp app:")
				qrterminal.GenerateHalfBlock(info.Code, qrterminal.L, os.Stderr)
			}
			if info.PairingCode != "" {
				fmt.Fprintf(os.Stderr, "\nPairing code: %s\n", info.PairingCode)
			}
			return nil
		},
	}
}

func newLogger(level slog.Level) *slog.Logger {
	// stdout carries the MCP stream, so logs go to stderr
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runServe(ctx context.Context, withWebhook bool) error {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	metrics.Init()

	st := store.New(store.Options{
		AllowedNumber: cfg.Webhook.AllowedNumber,
		Logger:        logger.With("component", "store"),
	})
	wh := webhook.New(st, webhook.Options{
		Path:   cfg.Webhook.Path,
		Logger: logger.With("component", "webhook"),
	})
	client := evolution.NewClient(cfg.Evolution, evolution.Options{
		Logger: logger.With("component", "evolution"),
	})

	if cfg.MetricsAddr != "" {
		ms := startMetrics(cfg.MetricsAddr, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = ms.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Webhook.AutoStart || withWebhook {
		if _, err := wh.Start(cfg.Webhook.Port); err != nil {
			return fmt.Errorf("start webhook listener: %w", err)
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := wh.Stop(shutdownCtx); err != nil {
			logger.Warn("webhook listener shutdown", "error", err)
		}
	}()

	logger.Info("starting MCP server",
		"name", config.ServerName,
		"version", config.ServerVersion,
		"gateway", cfg.Evolution.BaseURL,
		"instance", cfg.Evolution.Instance,
	)

	// Blocks on stdin/stdout until the client disconnects or a signal arrives
	server := mcpServer.NewServer(cfg, client, st, wh, logger.With("component", "mcp"))
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func startMetrics(addr string, logger *slog.Logger) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("metrics listener started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", "error", err)
		}
	}()
	return srv
}
