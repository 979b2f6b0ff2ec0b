package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Retailer.ID == "" {
		return fmt.Errorf("retailer.id must not be empty")
	}
	if cfg.Retailer.Name == "" {
		return fmt.Errorf("retailer.name must not be empty")
	}
	if err := ValidateURL(cfg.Retailer.BaseURL); err != nil {
		return fmt.Errorf("retailer.base_url: %w", err)
	}

	if len(cfg.Crawl.Sections) == 0 {
		return fmt.Errorf("crawl.sections must list at least one section URL")
	}
	for _, section := range cfg.Crawl.Sections {
		if err := ValidateURL(section); err != nil {
			return fmt.Errorf("crawl.sections entry %q: %w", section, err)
		}
	}
	if cfg.Crawl.PageCap < 1 {
		return fmt.Errorf("crawl.page_cap must be >= 1, got %d", cfg.Crawl.PageCap)
	}
	if cfg.Crawl.PageParam == "" {
		return fmt.Errorf("crawl.page_param must not be empty")
	}
	if cfg.Crawl.PageDelay < 0 {
		return fmt.Errorf("crawl.page_delay must be >= 0")
	}
	if cfg.Crawl.RequestTimeout <= 0 {
		return fmt.Errorf("crawl.request_timeout must be > 0")
	}

	if cfg.Fetcher.UserAgent == "" {
		return fmt.Errorf("fetcher.user_agent must not be empty")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if len(cfg.Categories) == 0 {
		return fmt.Errorf("categories must list at least one rule")
	}
	for _, rule := range cfg.Categories {
		if !rule.Category.IsValid() {
			return fmt.Errorf("categories: unknown category %q", rule.Category)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("categories: rule for %q has no keywords", rule.Category)
		}
	}

	switch cfg.Storage.Backend {
	case "mongo":
		if cfg.Storage.URI == "" {
			return fmt.Errorf("storage.uri must not be empty for the mongo backend")
		}
		if cfg.Storage.Database == "" || cfg.Storage.Collection == "" {
			return fmt.Errorf("storage.database and storage.collection must not be empty for the mongo backend")
		}
	case "jsonl":
		if cfg.Storage.OutputPath == "" {
			return fmt.Errorf("storage.output_path must not be empty for the jsonl backend")
		}
	default:
		return fmt.Errorf("storage.backend must be 'mongo' or 'jsonl', got %q", cfg.Storage.Backend)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a crawl target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
