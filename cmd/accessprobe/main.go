package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/probelab/accessprobe"
	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/config"
	"github.com/probelab/accessprobe/observability"
	"github.com/probelab/accessprobe/resilience"
)

const serviceName = "accessprobe"

func main() {
	resourceDir := flag.String("resources", "resources", "Base directory for file fixtures")
	planPath := flag.String("plan", "", "Path to a YAML run plan; empty runs every catalogue")
	catalog := flag.String("catalog", "", "Run a single catalogue by name")
	methodID := flag.Int("id", 0, "Run a single method id; requires -catalog")
	timeout := flag.Duration("timeout", 30*time.Second, "Per-invocation timeout")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger := initLogger(*logLevel)
	logger.Info("Starting",
		slog.String("service", serviceName),
		slog.String("version", accessprobe.Version),
		slog.String("resources", *resourceDir),
	)

	cfg := config.DevelopmentConfig()
	cfg.Runner.ResourceDir = *resourceDir
	cfg.Runner.DefaultTimeout = *timeout
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := accessprobe.EnsureResources(cfg.Runner.ResourceDir); err != nil {
		logger.Error("Seeding resources failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	runner, metrics, err := buildRunner(cfg, logger)
	if err != nil {
		logger.Error("Building runner failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Shutting down", slog.String("signal", sig.String()))
		cancel()
	}()

	reports, err := run(ctx, runner, *planPath, *catalog, *methodID, logger)
	if err != nil {
		logger.Error("Run failed", slog.String("error", err.Error()))
	}

	for _, report := range reports {
		fmt.Printf("[%s] %s id=%d: %s\n", report.Status, report.Catalog, report.MethodID, report.Message)
	}

	snap := metrics.Snapshot()
	logger.Info("Done",
		slog.Int64("total", snap.Total),
		slog.Int64("succeeded", snap.Succeeded),
		slog.Int64("failed", snap.Failed),
		slog.Duration("avg_duration", snap.AvgDuration),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := runner.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}

// buildRunner assembles the runner with rate limiting, telemetry,
// metrics, and audit logging per the configuration.
func buildRunner(cfg config.Config, logger *slog.Logger) (*accessprobe.Runner, *observability.Metrics, error) {
	catalogs, err := accessprobe.DefaultCatalogs(cfg.Runner.ResourceDir)
	if err != nil {
		return nil, nil, err
	}

	metrics := observability.NewMetrics()
	hooks := []access.Hook{observability.NewMetricsHook(metrics)}

	if cfg.Runner.EnableAudit {
		auditLogger, err := observability.NewFileAuditLogger(cfg.Audit)
		if err != nil {
			logger.Warn("Audit logging disabled", slog.String("error", err.Error()))
		} else {
			hooks = append(hooks, observability.NewAuditHook(auditLogger))
		}
	}

	builder := accessprobe.NewBuilder().
		WithCatalogs(catalogs...).
		WithRateLimiter(resilience.NewRateLimiter(cfg.RateLimiter)).
		WithHooks(hooks...).
		WithDefaultTimeout(cfg.Runner.DefaultTimeout).
		WithMaxParallel(cfg.Runner.MaxParallel)

	if cfg.Runner.EnableTracing || cfg.Runner.EnableMetrics {
		telemetry, err := observability.NewTelemetry(cfg.Telemetry)
		if err != nil {
			return nil, nil, err
		}
		builder = builder.WithTelemetry(telemetry)
	}

	runner, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}
	return runner, metrics, nil
}

// run dispatches based on the selection flags.
func run(ctx context.Context, runner *accessprobe.Runner, planPath, catalog string, id int, logger *slog.Logger) ([]*accessprobe.Report, error) {
	switch {
	case planPath != "":
		loader, err := accessprobe.LoadPlanFromPath(planPath)
		if err != nil {
			return nil, err
		}
		p, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("Running plan",
			slog.String("name", p.Name()),
			slog.Any("catalogs", p.Catalogs()),
		)
		return accessprobe.RunPlan(ctx, runner, p)

	case catalog != "" && id > 0:
		report, err := runner.Access(ctx, catalog, id)
		if report == nil {
			return nil, err
		}
		return []*accessprobe.Report{report}, err

	case catalog != "":
		return runner.RunCatalog(ctx, catalog)

	default:
		return runner.RunAll(ctx)
	}
}

func initLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
