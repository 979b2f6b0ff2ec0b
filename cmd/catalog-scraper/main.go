package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stylemate/catalog-scraper/internal/catalog"
	"github.com/stylemate/catalog-scraper/internal/classifier"
	"github.com/stylemate/catalog-scraper/internal/config"
	"github.com/stylemate/catalog-scraper/internal/crawler"
	"github.com/stylemate/catalog-scraper/internal/extractor"
	"github.com/stylemate/catalog-scraper/internal/fetcher"
	"github.com/stylemate/catalog-scraper/internal/types"
)

var (
	cfgFile  string
	verbose  bool
	dryRun   bool
	sections []string
	pageCap  int
	delay    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalog-scraper",
		Short: "Retailer catalog scraper for the StyleMate product catalog",
		Long: `catalog-scraper walks a retailer's paginated category pages, extracts
product listings (name, price, image, canonical URL, category) and
merge-upserts them into the product catalog keyed by product URL identity.
Re-running the scraper is idempotent: the same product URL always maps to
the same catalog document.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl all configured category sections and persist products",
		RunE:  runScrape,
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "write records to a local JSONL file instead of the catalog store")
	cmd.Flags().StringSliceVar(&sections, "sections", nil, "restrict the crawl to these section URLs")
	cmd.Flags().IntVar(&pageCap, "page-cap", 0, "override the per-section page cap")
	cmd.Flags().StringVar(&delay, "delay", "", "override the pause between page fetches (e.g. 500ms)")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	// The crawl must not begin without a working store; a failure here is the
	// one fatal error class.
	store, err := newStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("create catalog store: %w", err)
	}

	httpFetcher := fetcher.NewHTTPFetcher(cfg, logger)
	defer httpFetcher.Close()

	ex, err := extractor.New(cfg.Retailer.BaseURL, logger)
	if err != nil {
		return fmt.Errorf("create extractor: %w", err)
	}

	cl := classifier.New(cfg.Categories, types.CategoryDefault)

	ctx := context.Background()
	summary := crawler.New(cfg, httpFetcher, ex, cl, store, logger).Run(ctx)

	if err := store.Close(ctx); err != nil {
		logger.Error("catalog store close failed", "error", err)
	}

	fmt.Printf("\nCrawl complete in %s\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Printf("   Sections:  %d crawled, %d pages fetched (%d fetch failures)\n",
		summary.Sections, summary.Pages, summary.FetchFailures)
	fmt.Printf("   Products:  %d saved or updated, %d skipped, %d write failures\n",
		summary.Persisted, summary.Skipped, summary.PersistFailures)

	return nil
}

// newStore selects the catalog backend.
func newStore(cfg *config.Config, logger *slog.Logger) (catalog.Store, error) {
	backend := cfg.Storage.Backend
	if dryRun {
		backend = "jsonl"
	}
	switch backend {
	case "mongo":
		return catalog.NewMongoStore(cfg.Storage.URI, cfg.Storage.Database, cfg.Storage.Collection, logger)
	case "jsonl":
		return catalog.NewJSONLStore(cfg.Storage.OutputPath, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("catalog-scraper %s\n", config.Version)
		},
	}
}

// setupLogger creates a structured logger from the logging config. The
// --verbose flag forces debug level regardless of config.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if len(sections) > 0 {
		var urls []string
		for _, s := range sections {
			if s = strings.TrimSpace(s); s != "" {
				urls = append(urls, s)
			}
		}
		cfg.Crawl.Sections = urls
	}
	if pageCap > 0 {
		cfg.Crawl.PageCap = pageCap
	}
	if delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			cfg.Crawl.PageDelay = d
		}
	}
}
