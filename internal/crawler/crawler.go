// Package crawler drives the pagination loop over the configured category
// sections: fetch, extract, classify, persist, decide whether the section is
// exhausted. Sections and pages are processed strictly sequentially; pacing
// between fetches is a politeness contract with the source site, so
// overlapping requests are disallowed.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stylemate/catalog-scraper/internal/catalog"
	"github.com/stylemate/catalog-scraper/internal/classifier"
	"github.com/stylemate/catalog-scraper/internal/config"
	"github.com/stylemate/catalog-scraper/internal/extractor"
	"github.com/stylemate/catalog-scraper/internal/fetcher"
	"github.com/stylemate/catalog-scraper/internal/types"
)

// Summary aggregates the results of a full crawl run.
type Summary struct {
	Sections        int
	Pages           int64
	Persisted       int64
	Skipped         int64
	FetchFailures   int64
	PersistFailures int64
	Elapsed         time.Duration
}

// Crawler walks every configured section page by page. All collaborators are
// injected at construction; the crawler owns none of their lifecycles.
type Crawler struct {
	cfg        *config.Config
	fetcher    fetcher.Fetcher
	extractor  *extractor.Extractor
	classifier *classifier.Classifier
	store      catalog.Store
	logger     *slog.Logger
	stats      *Stats
}

// New creates a Crawler.
func New(
	cfg *config.Config,
	f fetcher.Fetcher,
	ex *extractor.Extractor,
	cl *classifier.Classifier,
	store catalog.Store,
	logger *slog.Logger,
) *Crawler {
	return &Crawler{
		cfg:        cfg,
		fetcher:    f,
		extractor:  ex,
		classifier: cl,
		store:      store,
		logger:     logger.With("component", "crawler"),
		stats:      &Stats{},
	}
}

// Stats returns the crawl statistics.
func (c *Crawler) Stats() *Stats {
	return c.stats
}

// Run crawls every configured section in declaration order and returns the
// aggregate summary. Per-page and per-record failures are logged and
// swallowed; the run proceeds to natural completion.
func (c *Crawler) Run(ctx context.Context) *Summary {
	c.stats.StartTime = time.Now()

	c.logger.Info("crawl starting",
		"retailer", c.cfg.Retailer.ID,
		"sections", len(c.cfg.Crawl.Sections),
		"page_cap", c.cfg.Crawl.PageCap,
		"page_delay", c.cfg.Crawl.PageDelay,
	)

	for _, section := range c.cfg.Crawl.Sections {
		c.crawlSection(ctx, section)
	}

	summary := &Summary{
		Sections:        len(c.cfg.Crawl.Sections),
		Pages:           c.stats.PagesFetched.Load(),
		Persisted:       c.stats.RecordsPersisted.Load(),
		Skipped:         c.stats.CandidatesSkipped.Load(),
		FetchFailures:   c.stats.FetchFailures.Load(),
		PersistFailures: c.stats.PersistFailures.Load(),
		Elapsed:         time.Since(c.stats.StartTime),
	}

	c.logger.Info("crawl finished", "stats", c.stats.Snapshot())
	return summary
}

// crawlSection pages through one section until a page yields nothing or the
// page cap is reached. A failed fetch is equivalent to an empty page: the
// section is treated as exhausted either way, with no retry.
func (c *Crawler) crawlSection(ctx context.Context, section string) {
	logger := c.logger.With("section", section)
	logger.Info("section starting")

	total := 0
	for page := 1; page <= c.cfg.Crawl.PageCap; page++ {
		yield := c.crawlPage(ctx, logger, section, page)
		if yield == 0 {
			logger.Info("section exhausted", "pages", page, "persisted", total)
			return
		}
		total += yield

		// Politeness pause before the next fetch in this section.
		if page < c.cfg.Crawl.PageCap {
			time.Sleep(c.cfg.Crawl.PageDelay)
		}
	}

	logger.Info("section page cap reached", "pages", c.cfg.Crawl.PageCap, "persisted", total)
}

// crawlPage fetches and processes a single page, returning its yield: the
// number of candidates that were fully formed and successfully persisted.
func (c *Crawler) crawlPage(ctx context.Context, logger *slog.Logger, section string, page int) int {
	pageURL := c.pageURL(section, page)
	logger = logger.With("url", pageURL, "page", page)

	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.Crawl.RequestTimeout)
	defer cancel()

	c.stats.PagesFetched.Add(1)
	resp, err := c.fetcher.Fetch(fetchCtx, pageURL)
	if err != nil {
		c.stats.FetchFailures.Add(1)
		logger.Warn("page fetch failed", "error", err)
		return 0
	}

	candidates, skips, err := c.extractor.Extract(resp.Body)
	if err != nil {
		logger.Warn("page parse failed", "error", err)
		return 0
	}

	c.stats.CandidatesSeen.Add(int64(len(candidates) + len(skips)))
	if len(skips) > 0 {
		c.stats.CandidatesSkipped.Add(int64(len(skips)))
		logger.Info("cards skipped", "count", len(skips), "reasons", skipReasons(skips))
	}

	persisted := 0
	for _, cand := range candidates {
		rec := c.buildRecord(cand)
		if !rec.Valid() {
			c.stats.CandidatesSkipped.Add(1)
			continue
		}
		if err := c.store.Upsert(ctx, rec); err != nil {
			c.stats.PersistFailures.Add(1)
			logger.Warn("record upsert failed", "product_url", rec.ProductURL, "error", err)
			continue
		}
		c.stats.RecordsPersisted.Add(1)
		persisted++
	}

	logger.Info("page done", "candidates", len(candidates), "persisted", persisted)
	return persisted
}

// buildRecord turns a fully-formed candidate into the record to persist.
// Color is unknown at extraction time and left empty so a previously stored
// color is preserved by the merge-upsert.
func (c *Crawler) buildRecord(cand types.Candidate) *types.ProductRecord {
	return &types.ProductRecord{
		Name:       cand.Name,
		Brand:      c.cfg.Retailer.Name,
		Price:      cand.Price,
		ImageURL:   cand.ImageURL,
		ProductURL: cand.ProductURL,
		Category:   c.classifier.Classify(cand.Name),
		Retailer:   c.cfg.Retailer.Identity(),
	}
}

// pageURL addresses a page within a section: page 1 is the bare section URL,
// later pages append the pagination query parameter.
func (c *Crawler) pageURL(section string, page int) string {
	if page == 1 {
		return section
	}
	return section + "?" + fmt.Sprintf(c.cfg.Crawl.PageParam, page)
}

// skipReasons aggregates skip reasons into a compact "reason=count" list.
func skipReasons(skips []extractor.Skip) string {
	counts := make(map[extractor.SkipReason]int)
	order := make([]extractor.SkipReason, 0, len(skips))
	for _, s := range skips {
		if _, ok := counts[s.Reason]; !ok {
			order = append(order, s.Reason)
		}
		counts[s.Reason]++
	}
	parts := make([]string, 0, len(order))
	for _, r := range order {
		parts = append(parts, fmt.Sprintf("%s=%d", r, counts[r]))
	}
	return strings.Join(parts, " ")
}
