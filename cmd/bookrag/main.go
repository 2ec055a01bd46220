// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/poiesic/bookrag"
	"github.com/poiesic/bookrag/config"
	"github.com/poiesic/bookrag/ingestion"
	"github.com/poiesic/bookrag/search"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "bookrag",
		Usage: "Ingest a Markdown book into a vector index and query it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Environment file loaded before configuration",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Chunk, embed and store every document under the docs directory",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "docs",
						Aliases: []string{"d"},
						Usage:   "Documents directory (overrides configuration)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Print the chunks closest to a question as JSON",
				ArgsUsage: "QUESTION...",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   search.DefaultTopK,
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the ingest and query HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides configuration)",
					},
				},
			},
		},
	}
}

// setup loads the environment file and configures logging.
func setup(c *cli.Context) error {
	if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", c.String("env-file"), err)
	}
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openEngine(c *cli.Context) (*bookrag.Engine, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	engine, err := bookrag.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	docs := c.String("docs")
	if docs == "" {
		docs = engine.Config().Ingest.DocsDir
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	monitor := ingestion.NewProgressMonitor(c.App.ErrWriter, c.Int("report-interval"))
	pipeline, err := engine.NewIngestionPipeline(ingestion.WithMonitor(monitor))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Documents: %s\n", docs)
	fmt.Fprintf(c.App.ErrWriter, "Collection: %s\n", pipeline.Collection())

	summary, err := pipeline.Ingest(c.Context, docs)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return printJSON(c, summary)
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}
	results, err := searcher.Query(c.Context, question, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return printJSON(c, results)
}

func serveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	addr := c.String("addr")
	if addr == "" {
		addr = engine.Config().Server.Addr
	}

	srv, err := engine.NewServer()
	if err != nil {
		return err
	}
	return srv.ListenAndServe(c.Context, addr)
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
