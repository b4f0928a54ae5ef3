// Package main provides the prospect CLI entrypoint.
//
// Usage:
//
//	prospect inspect <report-file> [--json]
//	prospect push <report-file> <bucket[/prefix]> [options]
//	prospect check <config-file>
//	prospect version
//
// Exit codes:
//   - 0: success
//   - 1: usage or input error
//   - 2: unexpected failure
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/prospect/config"
	"github.com/justapithecus/prospect/report"
	"github.com/justapithecus/prospect/types"
)

const (
	exitSuccess = 0
	exitUsage   = 1
	exitFailure = 2
)

func main() {
	app := &cli.App{
		Name:    "prospect",
		Usage:   "Model search experiment tooling - inspect, export, and validate",
		Version: types.Version,
		Commands: []*cli.Command{
			inspectCommand(),
			pushCommand(),
			checkCommand(),
			versionCommand(),
		},
		ExitErrHandler: exitErrHandler,
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit
		// This branch is only reached if ExitErrHandler didn't exit
		os.Exit(exitFailure)
	}
}

// exitErrHandler handles errors from the CLI, respecting cli.ExitCoder.
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}

	// Check for ExitCoder (from cli.Exit), handles wrapped errors
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N", so skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitFailure)
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the contents of an experiment report",
		ArgsUsage: "<report-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit the full report as JSON instead of a summary",
			},
		},
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: prospect inspect <report-file>", exitUsage)
	}

	rep, err := report.Read(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read report: %v", err), exitUsage)
	}

	if c.Bool("json") {
		if err := report.WriteJSON(rep, "-"); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		return nil
	}

	printSummary(rep)
	return nil
}

func pushCommand() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Upload an experiment report to S3",
		ArgsUsage: "<report-file> <bucket[/prefix]>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region override",
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Custom S3 endpoint (e.g. MinIO)",
			},
			&cli.BoolFlag{
				Name:  "path-style",
				Usage: "Use path-style S3 addressing",
			},
		},
		Action: pushAction,
	}
}

func pushAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: prospect push <report-file> <bucket[/prefix]>", exitUsage)
	}

	rep, err := report.Read(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read report: %v", err), exitUsage)
	}

	bucket, prefix := report.ParseS3Path(c.Args().Get(1))
	cfg := report.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       c.String("region"),
		Endpoint:     c.String("endpoint"),
		UsePathStyle: c.Bool("path-style"),
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("invalid destination: %v", err), exitUsage)
	}

	ctx, cancel := signalContext()
	defer cancel()

	uploader, err := report.NewUploader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("cannot create uploader: %w", err)
	}

	key, err := uploader.Upload(ctx, rep)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("pushed s3://%s/%s\n", bucket, key)
	return nil
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate an experiment config file and print resolved settings",
		ArgsUsage: "<config-file>",
		Action:    checkAction,
	}
}

func checkAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: prospect check <config-file>", exitUsage)
	}

	path := c.Args().First()
	cfg, err := config.Load(path)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("%s: %v", path, err), exitUsage)
	}

	settings := cfg.Settings()
	fmt.Printf("%s: ok\n", path)
	fmt.Printf("task=%s, optimize=%s, max_models=%d\n",
		cfg.TaskKind(), cfg.Optimize, settings.MaxModels)
	if settings.MaxExperimentTime > 0 {
		fmt.Printf("max_experiment_time=%s\n", settings.MaxExperimentTime)
	} else {
		fmt.Printf("max_experiment_time=unlimited (single iteration)\n")
	}
	if settings.Seed != nil {
		fmt.Printf("seed=%d\n", *settings.Seed)
	}
	if cfg.Storage.Backend != "" {
		fmt.Printf("storage=%s path=%s\n", cfg.Storage.Backend, cfg.Storage.Path)
	}
	return nil
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the prospect version",
		Action: func(c *cli.Context) error {
			fmt.Println(types.Version)
			return nil
		},
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

// printSummary prints a human-readable report summary.
func printSummary(rep *report.ExperimentReport) {
	fmt.Printf("=== Experiment Report ===\n")
	fmt.Printf("Experiment:   %s\n", rep.ExperimentID)
	fmt.Printf("Version:      %s\n", rep.Version)
	fmt.Printf("Task:         %s\n", rep.Task)
	fmt.Printf("State:        %s\n", rep.State)
	fmt.Printf("Duration:     %s\n", time.Duration(rep.DurationMs)*time.Millisecond)
	fmt.Printf("Iterations:   %d\n", len(rep.Results))

	if rep.Best != nil {
		direction := "maximize"
		if !rep.Maximize {
			direction = "minimize"
		}
		fmt.Printf("\n=== Best Model (%s) ===\n", direction)
		fmt.Printf("Iteration:    %d\n", rep.Best.Iteration)
		fmt.Printf("Pipeline:     %s\n", rep.Best.Pipeline.String())
		fmt.Printf("Score:        %g\n", rep.Best.Score)
		fmt.Printf("Training:     %s\n", rep.Best.Duration)
	} else {
		fmt.Printf("\nNo successful iterations.\n")
	}

	if rep.Metrics != nil {
		fmt.Printf("\n=== Metrics ===\n")
		fmt.Printf("Started:      %d\n", rep.Metrics.IterationsStarted)
		fmt.Printf("Succeeded:    %d\n", rep.Metrics.IterationsSucceeded)
		fmt.Printf("Failed:       %d\n", rep.Metrics.IterationsFailed)
		fmt.Printf("Cancelled:    %d\n", rep.Metrics.TrialsCancelled)
	}

	failed := 0
	for _, r := range rep.Results {
		if !r.Succeeded {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("\n=== Failures ===\n")
		for _, r := range rep.Results {
			if r.Succeeded || r.Failure == nil {
				continue
			}
			fmt.Printf("  iteration %d: %s\n", r.Iteration, r.Failure.Message)
		}
	}
}
