package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/zyaga/clipnote/internal"
	pkgconfig "github.com/zyaga/clipnote/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// captureInput resolves the capture text from --text, --file or stdin,
// in that order.
func captureInput(cmd *cli.Command) (string, error) {
	if text := cmd.String("text"); text != "" {
		return text, nil
	}
	if file := cmd.String("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func runCapture(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := captureInput(cmd)
	if err != nil {
		return err
	}

	res, err := internal.CaptureOnce(ctx, text, internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("capture error: %w", err)
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir := cmd.String("drop-dir"); dir != "" {
		cfg.Watch.DropDir = dir
	}
	if err := internal.RunWatch(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp error: %w", err)
	}
	return nil
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("usage: clipnote search <query>")
	}

	results, err := internal.SearchIndex(ctx, query, int(cmd.Int("limit")), internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("search error: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s\t%s\n", r.Filename, r.Title)
		if r.Snippet != "" {
			fmt.Printf("\t%s\n", r.Snippet)
		}
	}
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "clipnote",
		Usage: "Clipboard-to-inbox capture pipeline with classification, wikilink extraction, and dedupe history",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "capture",
				Usage:  "Capture a single text (from --text, --file, or stdin) into the inbox",
				Action: runCapture,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "text",
						Usage: "Text to capture",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Read the text from a file",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP capture API with SSE events and the optional drop-directory watcher",
				Action: runServe,
			},
			{
				Name:   "watch",
				Usage:  "Watch a drop directory and capture files placed in it",
				Action: runWatch,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "drop-dir",
						Usage: "Directory to watch (overrides watch.drop_dir)",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve capture tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
			{
				Name:   "search",
				Usage:  "Search saved captures",
				Action: runSearch,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 20,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
