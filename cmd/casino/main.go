// Package main is the entry point for the casino dapp client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/casino-dapp/business/casino"
	casinoApp "github.com/fd1az/casino-dapp/business/casino/app"
	casinoDI "github.com/fd1az/casino-dapp/business/casino/di"
	"github.com/fd1az/casino-dapp/business/casino/domain"
	"github.com/fd1az/casino-dapp/business/contract"
	"github.com/fd1az/casino-dapp/business/wallet"
	"github.com/fd1az/casino-dapp/internal/apm"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/config"
	"github.com/fd1az/casino-dapp/internal/health"
	"github.com/fd1az/casino-dapp/internal/logger"
	"github.com/fd1az/casino-dapp/internal/metrics"
	"github.com/fd1az/casino-dapp/internal/monolith"
	"github.com/fd1az/casino-dapp/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("casino %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules know
	cfg.App.TUIMode = tuiMode

	// Only log to stderr in CLI mode
	var out io.Writer = os.Stderr
	if tuiMode {
		out = io.Discard
	}
	log := logger.New(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	defer log.Sync()

	log.Info(ctx, "starting casino client",
		"version", version,
		"environment", cfg.App.Environment,
	)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	if cfg.Telemetry.Enabled {
		shutdown, err := setupTelemetry(ctx, cfg, log)
		if err != nil {
			return err
		}
		mono.OnClose(shutdown)
	}

	// Modules in dependency order
	modules := []monolith.Module{
		&wallet.Module{},
		&contract.Module{},
		&casino.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	client := casinoDI.GetGameClient(mono.Services())
	mono.OnClose(func() error {
		client.Close()
		return nil
	})

	if cfg.Health.Enabled {
		healthServer := health.NewServer(cfg.Health.Port, version, log)
		healthServer.RegisterCheck("game_client", client.HealthCheck)
		if err := healthServer.Start(); err != nil {
			log.Warn(ctx, "failed to start health server", "error", err)
		} else {
			log.Info(ctx, "health server started", "port", cfg.Health.Port)
			mono.OnClose(func() error { return healthServer.Stop(context.Background()) })
		}
	}

	if tuiMode {
		return runTUI(ctx, client)
	}
	return runCLI(ctx, client, log)
}

// setupTelemetry installs tracing and metrics, returning a shutdown func.
func setupTelemetry(ctx context.Context, cfg *config.Config, log *logger.Logger) (func() error, error) {
	traceProvider, err := apm.NewTraceProvider(ctx, log, apm.Config{
		Provider:    apm.Provider(cfg.Telemetry.TraceProvider),
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	log.Info(ctx, "tracing initialized",
		"provider", cfg.Telemetry.TraceProvider,
		"endpoint", cfg.Telemetry.OTLPEndpoint)

	if _, err := metrics.NewMetricProvider(
		metrics.WithServiceName(cfg.Telemetry.ServiceName),
		metrics.WithProviderConfig(metrics.ProviderCfg{
			Provider: metrics.PrometheusProvider,
		}),
	); err != nil {
		traceProvider.Stop()
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	port := cfg.Telemetry.PrometheusPort
	if port == 0 {
		port = 9090
	}
	promServer := metrics.NewPrometheusServer(port, nil, log)
	if err := promServer.Start(); err != nil {
		log.Warn(ctx, "failed to start prometheus server", "error", err)
	} else {
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}

	return func() error {
		return errors.Join(
			promServer.Stop(context.Background()),
			traceProvider.Stop(),
		)
	}, nil
}

func runCLI(ctx context.Context, client *casinoApp.GameClient, log *logger.Logger) error {
	log.Info(ctx, "starting game session")

	err := client.Start(ctx)
	var failure *domain.Failure
	switch {
	case err == nil:
		log.Info(ctx, "session ready, waiting for shutdown")
	case errors.As(err, &failure):
		// The console reporter already printed the failure
		log.Warn(ctx, "session failed", "kind", failure.Kind, "reason", failure.Reason)
		return nil
	case apperror.HasCode(err, apperror.CodeSessionAbandoned):
		return nil
	default:
		return fmt.Errorf("failed to start session: %w", err)
	}

	<-ctx.Done()
	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, client *casinoApp.GameClient) error {
	start := func() {
		// Failures are published as states
		_ = client.Start(ctx)
	}
	ui.OnStartModules = start
	ui.OnRetry = start

	p := tea.NewProgram(ui.New(), tea.WithAltScreen(), tea.WithContext(ctx))
	ui.Program = p

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
