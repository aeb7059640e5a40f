// screenctl - утилиты сервиса проверки сделок
//
// Usage:
//
//	screenctl serve
//	screenctl bulk --archive ../Archive --results ../results
//	screenctl split --input OFAC.csv --parts 4
//	screenctl variants --name "ТОО Рахат" --kind entity
//	screenctl prompt --file fb_flat.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"compliance/bulk"
	"compliance/internal/config"
	"compliance/internal/container"
	"compliance/normalization"
	"compliance/payload"
	"compliance/prompt"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "screenctl",
		Usage:   "Sanctions screening of trade transactions",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			bulkCommand(),
			splitCommand(),
			variantsCommand(),
			promptCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	cfg := &config.Config{LogLevel: c.String("log-level"), LogFormat: "text"}
	return cfg.NewLogger(os.Stderr)
}

// =============================================================================
// SERVE
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(os.Stdout)
			slog.SetDefault(logger)
			gin.SetMode(gin.ReleaseMode)

			deps, err := container.NewContainer(cfg, logger)
			if err != nil {
				return err
			}
			defer deps.Close()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := deps.NewServer()
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// =============================================================================
// BULK
// =============================================================================

func bulkCommand() *cli.Command {
	def := bulk.DefaultConfig()
	return &cli.Command{
		Name:  "bulk",
		Usage: "Send every " + bulk.InputFileName + " in the archive to the running service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Value: def.BaseURL, Usage: "Service base URL", EnvVars: []string{"BASE_URL"}},
			&cli.StringFlag{Name: "archive", Value: def.ArchivePath, Usage: "Archive directory", EnvVars: []string{"ARCHIVE_PATH"}},
			&cli.StringFlag{Name: "results", Value: def.ResultsPath, Usage: "Results directory", EnvVars: []string{"RESULTS_PATH"}},
			&cli.IntFlag{Name: "concurrency", Value: def.Concurrency, Usage: "Parallel requests", EnvVars: []string{"CONCURRENCY"}},
			&cli.IntFlag{Name: "retries", Value: def.Retries, Usage: "Attempts on network errors", EnvVars: []string{"RETRIES"}},
			&cli.DurationFlag{Name: "timeout", Value: def.RequestTimeout, Usage: "Per-request timeout", EnvVars: []string{"REQUEST_TIMEOUT"}},
			&cli.Float64Flag{Name: "backoff", Value: def.BackoffBase.Seconds(), Usage: "Backoff base in seconds", EnvVars: []string{"BACKOFF_BASE_SECONDS"}},
			&cli.BoolFlag{Name: "xlsx", Value: def.XLSX, Usage: "Write an Excel report next to the summary"},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger(c)
			runner := bulk.NewRunner(bulk.Config{
				BaseURL:        c.String("base-url"),
				ArchivePath:    c.String("archive"),
				ResultsPath:    c.String("results"),
				Concurrency:    c.Int("concurrency"),
				Retries:        c.Int("retries"),
				RequestTimeout: c.Duration("timeout"),
				BackoffBase:    time.Duration(c.Float64("backoff") * float64(time.Second)),
				XLSX:           c.Bool("xlsx"),
			}, logger)

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := runner.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Total: %d, succeeded: %d, failed: %d\n",
				summary.TotalFiles, summary.ProcessedSuccessfully, summary.Failed)
			if summary.SummaryPath != "" {
				fmt.Printf("Summary: %s\n", summary.SummaryPath)
			}
			return nil
		},
	}
}

// =============================================================================
// SPLIT
// =============================================================================

func splitCommand() *cli.Command {
	return &cli.Command{
		Name:  "split",
		Usage: "Split a sanctions CSV into parts with the header repeated",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Value: "OFAC.csv", Usage: "Source CSV"},
			&cli.IntFlag{Name: "parts", Aliases: []string{"n"}, Value: 4, Usage: "Number of parts"},
			&cli.StringFlag{Name: "pattern", Value: "OFAC_part_%d.csv", Usage: "Output name pattern with %d"},
		},
		Action: func(c *cli.Context) error {
			res, err := bulk.SplitCSV(c.String("input"), c.Int("parts"), c.String("pattern"))
			if err != nil {
				return err
			}
			for i, name := range res.Files {
				fmt.Printf("%s: %d rows\n", name, res.Rows[i])
			}
			fmt.Printf("Total rows: %d\n", res.TotalRows)
			return nil
		},
	}
}

// =============================================================================
// VARIANTS
// =============================================================================

func variantsCommand() *cli.Command {
	return &cli.Command{
		Name:  "variants",
		Usage: "Print spelling variants of an organization name",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true, Usage: "Organization name"},
			&cli.StringFlag{Name: "kind", Value: string(normalization.KindEntity), Usage: "entity or bank"},
		},
		Action: func(c *cli.Context) error {
			kind := normalization.EntityKind(strings.ToLower(c.String("kind")))
			if kind != normalization.KindEntity && kind != normalization.KindBank {
				return fmt.Errorf("unknown kind %q", kind)
			}
			for _, v := range normalization.NewGenerator(newLogger(c)).Generate(c.String("name"), kind) {
				fmt.Println(v)
			}
			return nil
		},
	}
}

// =============================================================================
// PROMPT
// =============================================================================

func promptCommand() *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Print the knowledge base prompt for a transaction file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "Transaction JSON"},
			&cli.StringFlag{Name: "home", Value: prompt.DefaultHomeJurisdiction, Usage: "Home jurisdiction", EnvVars: []string{"HOME_JURISDICTION"}},
			&cli.StringFlag{Name: "language", Value: prompt.DefaultLanguage, Usage: "Explanation language", EnvVars: []string{"PROMPT_LANGUAGE"}},
			&cli.BoolFlag{Name: "analysis", Usage: "Print the route analysis as JSON before the prompt"},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger(c)
			data, err := bulk.ReadInput(c.String("file"))
			if err != nil {
				return err
			}

			opts := payload.DefaultOptions()
			opts.Logger = logger
			p := payload.Normalize(data, opts)

			builder := prompt.NewBuilder(strings.ToUpper(c.String("home")))
			builder.Language = c.String("language")
			builder.Variants = normalization.NewGenerator(logger).Generate

			if c.Bool("analysis") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(builder.Analyze(p)); err != nil {
					return err
				}
			}
			fmt.Println(builder.Build(p))
			return nil
		},
	}
}
