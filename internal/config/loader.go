package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment on top of the built-in
// defaults. Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("CATALOG_SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("catalog-scraper")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper so that partial config files
// and env overrides merge against the full static surface.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("retailer.id", cfg.Retailer.ID)
	v.SetDefault("retailer.name", cfg.Retailer.Name)
	v.SetDefault("retailer.base_url", cfg.Retailer.BaseURL)

	v.SetDefault("crawl.sections", cfg.Crawl.Sections)
	v.SetDefault("crawl.page_cap", cfg.Crawl.PageCap)
	v.SetDefault("crawl.page_param", cfg.Crawl.PageParam)
	v.SetDefault("crawl.page_delay", cfg.Crawl.PageDelay)
	v.SetDefault("crawl.request_timeout", cfg.Crawl.RequestTimeout)

	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)

	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.uri", cfg.Storage.URI)
	v.SetDefault("storage.database", cfg.Storage.Database)
	v.SetDefault("storage.collection", cfg.Storage.Collection)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
