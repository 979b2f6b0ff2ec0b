package config

import (
	"time"

	"github.com/stylemate/catalog-scraper/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the catalog scraper.
type Config struct {
	Retailer   RetailerConfig `mapstructure:"retailer"   yaml:"retailer"`
	Crawl      CrawlConfig    `mapstructure:"crawl"      yaml:"crawl"`
	Fetcher    FetcherConfig  `mapstructure:"fetcher"    yaml:"fetcher"`
	Categories []CategoryRule `mapstructure:"categories" yaml:"categories"`
	Storage    StorageConfig  `mapstructure:"storage"    yaml:"storage"`
	Logging    LoggingConfig  `mapstructure:"logging"    yaml:"logging"`
}

// RetailerConfig is the fixed identity block of the source site.
type RetailerConfig struct {
	ID      string `mapstructure:"id"       yaml:"id"`
	Name    string `mapstructure:"name"     yaml:"name"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// Identity returns the retailer block embedded in every record.
func (r RetailerConfig) Identity() types.Retailer {
	return types.Retailer{ID: r.ID, Name: r.Name}
}

// CrawlConfig controls the pagination loop.
type CrawlConfig struct {
	// Sections are category listing URLs, crawled sequentially in order.
	Sections []string `mapstructure:"sections" yaml:"sections"`

	// PageCap bounds the number of pages fetched per section.
	PageCap int `mapstructure:"page_cap" yaml:"page_cap"`

	// PageParam is the query parameter appended for pages after the first.
	PageParam string `mapstructure:"page_param" yaml:"page_param"`

	// PageDelay is the politeness pause between page fetches in a section.
	PageDelay time.Duration `mapstructure:"page_delay" yaml:"page_delay"`

	// RequestTimeout bounds a single page fetch.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// FetcherConfig controls the HTTP transport.
type FetcherConfig struct {
	UserAgent       string `mapstructure:"user_agent"       yaml:"user_agent"`
	MaxBodySize     int64  `mapstructure:"max_body_size"    yaml:"max_body_size"`
	FollowRedirects bool   `mapstructure:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects    int    `mapstructure:"max_redirects"    yaml:"max_redirects"`
}

// CategoryRule maps a category label to its keyword list. Rule order is the
// classifier tie-break: the earliest matching rule wins.
type CategoryRule struct {
	Category types.Category `mapstructure:"category" yaml:"category"`
	Keywords []string       `mapstructure:"keywords" yaml:"keywords"`
}

// StorageConfig selects and configures the catalog backend.
type StorageConfig struct {
	Backend    string `mapstructure:"backend"    yaml:"backend"` // mongo or jsonl
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"` // jsonl only
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the complete static configuration surface for the
// Country Road NZ menswear catalog. The defaults alone are runnable; file and
// environment values are operator overrides.
func DefaultConfig() *Config {
	return &Config{
		Retailer: RetailerConfig{
			ID:      "countryroad",
			Name:    "Country Road",
			BaseURL: "https://www.countryroad.co.nz",
		},
		Crawl: CrawlConfig{
			Sections: []string{
				"https://www.countryroad.co.nz/man-clothing-chinos/",
				"https://www.countryroad.co.nz/man-clothing-pants/",
				"https://www.countryroad.co.nz/man-clothing-denim-jeans/",
				"https://www.countryroad.co.nz/man-clothing-shorts/",
				"https://www.countryroad.co.nz/man-clothing-suits-tailoring/",
				"https://www.countryroad.co.nz/man-clothing-knitwear/",
				"https://www.countryroad.co.nz/man-clothing-t-shirts/",
				"https://www.countryroad.co.nz/man-clothing-polos/",
				"https://www.countryroad.co.nz/man-clothing-casual-shirts/",
				"https://www.countryroad.co.nz/man-clothing-business-shirts/",
				"https://www.countryroad.co.nz/man-clothing-jackets-coats/",
				"https://www.countryroad.co.nz/man-clothing-blazers/",
				"https://www.countryroad.co.nz/man-clothing-sweats/",
				"https://www.countryroad.co.nz/man-clothing-swimwear/",
			},
			PageCap:        7,
			PageParam:      "src=i&page=%d",
			PageDelay:      2 * time.Second,
			RequestTimeout: 15 * time.Second,
		},
		Fetcher: FetcherConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			FollowRedirects: true,
			MaxRedirects:    10,
		},
		Categories: []CategoryRule{
			{Category: types.CategoryTops, Keywords: []string{
				"shirt", "t-shirt", "tee", "polo", "knit", "sweat", "jumper",
				"crew", "henley", "singlet", "tank", "top",
			}},
			{Category: types.CategoryBottoms, Keywords: []string{
				"pant", "pants", "jean", "short", "trouser", "chino", "track",
				"jogger", "suit",
			}},
			{Category: types.CategoryShoes, Keywords: []string{
				"shoe", "sneaker", "boot", "loafer", "slide", "thong",
			}},
			{Category: types.CategoryOuterwear, Keywords: []string{
				"jacket", "coat", "blazer", "overshirt", "duffle",
			}},
			{Category: types.CategoryAccessories, Keywords: []string{
				"belt", "bag", "duffle", "wallet", "tie", "sock", "scarf", "hat",
			}},
		},
		Storage: StorageConfig{
			Backend:    "mongo",
			URI:        "mongodb://localhost:27017",
			Database:   "stylemate",
			Collection: "retailer_products",
			OutputPath: "./output/products.jsonl",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
