package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"approvalcli/internal/config"
	apperrors "approvalcli/internal/errors"
	"approvalcli/internal/exporter"
	"approvalcli/internal/infrastructure"
	"approvalcli/internal/services"
	"approvalcli/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one analysis and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	flags.SetOutput(stderr)
	in := flags.String("in", "", "deposit attempts workbook (defaults to data/Recruiting Task Dataset.xlsx relative to executable)")
	out := flags.String("out", "", "directory for the xlsx and CSV export (no export when empty)")
	configFile := flags.String("config", "", "YAML configuration file")
	showVersion := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apperrors.ExitOK
		}
		return apperrors.ExitConfig
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return apperrors.ExitOK
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return apperrors.ExitCode(err)
	}
	if *in != "" {
		cfg.Input.Path = *in
	}
	if *out != "" {
		cfg.Output.Dir = *out
	}

	paths, err := config.GetPaths()
	if err != nil {
		fmt.Fprintf(stderr, "failed to resolve paths: %v\n", err)
		return apperrors.ExitUnknown
	}

	cfg.Logging.FilePath = cfg.LogFilePath(paths)
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return apperrors.ExitConfig
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		logger.Error("failed to initialize telemetry", slog.String("error", err.Error()))
		return apperrors.ExitConfig
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		logger.Error("failed to create metrics", slog.String("error", err.Error()))
		return apperrors.ExitUnknown
	}

	code := analyze(infrastructure.EnsureTraceID(context.Background()), cfg, paths, providers, metrics, logger, stdout, stderr)

	if err := providers.WriteMetricsFile(); err != nil {
		logger.Warn("failed to write metrics file", slog.String("error", err.Error()))
	}
	return code
}

func analyze(ctx context.Context, cfg *config.Config, paths *config.Paths, providers *infrastructure.OTelProviders,
	metrics *infrastructure.PipelineMetrics, logger *slog.Logger, stdout, stderr io.Writer) int {
	input := cfg.InputPath(paths)
	logger.InfoContext(ctx, "starting deposit approval analysis",
		slog.String("version", contracts.Version),
		slog.String("input", input),
		slog.String("export_dir", cfg.Output.Dir))

	svc, err := services.NewAnalysisService(cfg, providers, metrics, logger)
	if err != nil {
		return fail(ctx, logger, stderr, err)
	}

	report, err := svc.Run(ctx, input)
	if err != nil {
		return fail(ctx, logger, stderr, err)
	}

	if err := exporter.NewConsolePrinter(stdout, cfg.Output.NoColor).Print(report); err != nil {
		return fail(ctx, logger, stderr, apperrors.NewOutputError("failed to print report", err))
	}

	if cfg.Output.Dir != "" {
		exportPaths := *paths
		exportPaths.ReportsDir = cfg.Output.Dir
		files, err := exporter.NewReportExporter(&exportPaths, logger).Export(ctx, report)
		if err != nil {
			return fail(ctx, logger, stderr, err)
		}
		for _, f := range files {
			fmt.Fprintf(stdout, "wrote %s\n", f)
		}
	}
	return apperrors.ExitOK
}

// fail logs err, prints it for the user and returns its exit code
func fail(ctx context.Context, logger *slog.Logger, stderr io.Writer, err error) int {
	infrastructure.WithError(logger, err).ErrorContext(ctx, "analysis failed",
		slog.String("error_type", string(apperrors.TypeOf(err))))
	fmt.Fprintf(stderr, "analysis failed: %v\n", err)
	return apperrors.ExitCode(err)
}
