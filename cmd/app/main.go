package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	ucli "github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/archive"
	"github.com/starford/ansuz/internal/cli"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/recordservice"
	"github.com/starford/ansuz/internal/render"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/validate"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func loadConfig(cmd *ucli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *ucli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// mcp runs the MCP server over stdio. Logs go to stderr so they do not
// corrupt the protocol stream.
func mcp(ctx context.Context, cmd *ucli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))

	store, err := storage.NewFS(cfg.Archive.Path)
	if err != nil {
		return err
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	p := parser.New(logger)
	if err := index.Sync(db, store, p, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	loader := archive.NewLoader(store, p)
	engine := validate.NewEngine(validate.DefaultRules()...)
	svc := recordservice.NewService(db, loader, engine, logger, "", cfg.Archive.Pattern)
	if err := svc.Reload(ctx); err != nil {
		logger.Warn("initial load failed", slog.String("error", err.Error()))
	}

	return mcpserver.New(svc, store).ServeStdio()
}

func batchLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func inputFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Directory containing record files",
			Value:   "docs/decisions",
		},
		&ucli.StringFlag{
			Name:  "pattern",
			Usage: "Glob pattern for matching record files",
			Value: "**/*.md",
		},
		&ucli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Verbose output",
		},
	}
}

func main() {
	configFlag := &ucli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file",
		Value:   "config/config.yaml",
		Sources: ucli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &ucli.Command{
		Name:  "ansuz",
		Usage: "Frontmatter record archive: HTML viewer, wiki, validation, statistics, and serving",
		Commands: []*ucli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server with live file watching",
				Flags:  []ucli.Flag{configFlag},
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Flags:  []ucli.Flag{configFlag},
				Action: mcp,
			},
			{
				Name:  "generate",
				Usage: "Generate a self-contained HTML viewer",
				Flags: append(inputFlags(),
					&ucli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output HTML file",
						Value:   "records.html",
					},
					&ucli.StringFlag{
						Name:  "title",
						Usage: "Page title",
						Value: "Records",
					},
					&ucli.StringFlag{
						Name:  "theme",
						Usage: "Color theme (light, dark, auto)",
						Value: "auto",
					},
				),
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					theme, err := render.ParseTheme(cmd.String("theme"))
					if err != nil {
						return err
					}
					return cli.RunGenerate(ctx, batchLogger(cmd.Bool("verbose")), cli.GenerateOptions{
						Input:   cmd.String("input"),
						Output:  cmd.String("output"),
						Title:   cmd.String("title"),
						Theme:   theme,
						Pattern: cmd.String("pattern"),
					})
				},
			},
			{
				Name:  "wiki",
				Usage: "Generate wiki markdown pages",
				Flags: append(inputFlags(),
					&ucli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory for wiki files",
						Value:   "wiki",
					},
					&ucli.StringFlag{
						Name:  "pages-url",
						Usage: "URL of the hosted HTML viewer to cross-link",
					},
				),
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					return cli.RunWiki(ctx, batchLogger(cmd.Bool("verbose")), cli.WikiOptions{
						Input:    cmd.String("input"),
						Output:   cmd.String("output"),
						PagesURL: cmd.String("pages-url"),
						Pattern:  cmd.String("pattern"),
					})
				},
			},
			{
				Name:  "validate",
				Usage: "Validate records against the rule set",
				Flags: append(inputFlags(),
					&ucli.BoolFlag{
						Name:  "strict",
						Usage: "Fail on warnings as well as errors",
					},
				),
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					code, err := cli.RunValidate(ctx, batchLogger(cmd.Bool("verbose")), cli.ValidateOptions{
						Input:   cmd.String("input"),
						Pattern: cmd.String("pattern"),
						Strict:  cmd.Bool("strict"),
					})
					if err != nil {
						return err
					}
					if code != 0 {
						return ucli.Exit("", code)
					}
					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "Print archive statistics",
				Flags: append(inputFlags(),
					&ucli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, json, markdown)",
						Value:   "text",
					},
				),
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					format, err := cli.ParseStatsFormat(cmd.String("format"))
					if err != nil {
						return err
					}
					return cli.RunStats(ctx, batchLogger(cmd.Bool("verbose")), cli.StatsOptions{
						Input:   cmd.String("input"),
						Pattern: cmd.String("pattern"),
						Format:  format,
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
