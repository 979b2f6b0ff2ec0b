package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stylemate/catalog-scraper/internal/classifier"
	"github.com/stylemate/catalog-scraper/internal/config"
	"github.com/stylemate/catalog-scraper/internal/extractor"
	"github.com/stylemate/catalog-scraper/internal/fetcher"
	"github.com/stylemate/catalog-scraper/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeFetcher serves scripted responses and records every fetched URL.
type fakeFetcher struct {
	pages   map[string][]byte
	errs    map[string]error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*fetcher.Response, error) {
	f.fetched = append(f.fetched, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.pages[url]
	if !ok {
		body = listingPage(0, 0)
	}
	return &fetcher.Response{StatusCode: 200, Body: body, FinalURL: url}, nil
}

func (f *fakeFetcher) Close() error { return nil }

// fakeStore collects upserted records and can be made to fail every write.
type fakeStore struct {
	records []*types.ProductRecord
	failAll bool
}

func (s *fakeStore) Upsert(_ context.Context, rec *types.ProductRecord) error {
	if s.failAll {
		return &types.StorageError{Backend: s.Name(), Err: errors.New("write rejected")}
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *fakeStore) Close(context.Context) error { return nil }

func (s *fakeStore) Name() string { return "fake" }

// listingPage renders a category page with n product cards numbered from
// start. A card index in broken is rendered without a price.
func listingPage(n, start int, broken ...int) []byte {
	isBroken := make(map[int]bool)
	for _, b := range broken {
		isBroken[b] = true
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body>`)
	for i := 0; i < n; i++ {
		num := start + i
		b.WriteString(`<section data-type="ProductCard">`)
		fmt.Fprintf(&b, `<a href="/p/product-%d"><img src="/img/product-%d.jpg"></a>`, num, num)
		fmt.Fprintf(&b, `<h2>Product %d</h2>`, num)
		if !isBroken[i] {
			fmt.Fprintf(&b, `<span class="value">$%d.00</span>`, 10+num)
		}
		b.WriteString(`</section>`)
	}
	b.WriteString(`</body></html>`)
	return []byte(b.String())
}

func testConfig(sections ...string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Crawl.Sections = sections
	cfg.Crawl.PageDelay = 0
	cfg.Crawl.RequestTimeout = time.Second
	return cfg
}

func newTestCrawler(t *testing.T, cfg *config.Config, f fetcher.Fetcher, store *fakeStore) *Crawler {
	t.Helper()
	ex, err := extractor.New(cfg.Retailer.BaseURL, testLogger)
	if err != nil {
		t.Fatalf("create extractor: %v", err)
	}
	cl := classifier.New(cfg.Categories, types.CategoryDefault)
	return New(cfg, f, ex, cl, store, testLogger)
}

func TestRunSectionExhaustedByEmptyPage(t *testing.T) {
	sectionA := "https://www.countryroad.co.nz/man-clothing-chinos/"
	sectionB := "https://www.countryroad.co.nz/man-clothing-pants/"
	cfg := testConfig(sectionA, sectionB)

	f := &fakeFetcher{pages: map[string][]byte{
		sectionA:                   listingPage(10, 0),
		sectionA + "?src=i&page=2": listingPage(10, 10),
		sectionA + "?src=i&page=3": listingPage(10, 20),
		// page 4 unscripted: empty page ends the section
	}}
	store := &fakeStore{}

	summary := newTestCrawler(t, cfg, f, store).Run(context.Background())

	wantFetches := []string{
		sectionA,
		sectionA + "?src=i&page=2",
		sectionA + "?src=i&page=3",
		sectionA + "?src=i&page=4",
		sectionB,
	}
	if len(f.fetched) != len(wantFetches) {
		t.Fatalf("fetched %d pages %v, want %d", len(f.fetched), f.fetched, len(wantFetches))
	}
	for i, want := range wantFetches {
		if f.fetched[i] != want {
			t.Errorf("fetch %d = %q, want %q", i, f.fetched[i], want)
		}
	}

	if len(store.records) != 30 {
		t.Fatalf("persisted %d records, want 30", len(store.records))
	}
	if summary.Persisted != 30 {
		t.Errorf("summary.Persisted = %d, want 30", summary.Persisted)
	}

	rec := store.records[0]
	if rec.Brand != "Country Road" || rec.Retailer.ID != "countryroad" {
		t.Errorf("record missing retailer identity: %+v", rec)
	}
	if rec.Category != types.CategoryDefault {
		t.Errorf("unmatched name should fall back to %q, got %q", types.CategoryDefault, rec.Category)
	}
	if !strings.HasPrefix(rec.ProductURL, "https://www.countryroad.co.nz/") {
		t.Errorf("product URL not absolute: %q", rec.ProductURL)
	}
}

func TestRunFetchFailureEndsSection(t *testing.T) {
	section := "https://www.countryroad.co.nz/man-clothing-knitwear/"
	cfg := testConfig(section)

	f := &fakeFetcher{
		pages: map[string][]byte{
			section: listingPage(10, 0),
		},
		errs: map[string]error{
			section + "?src=i&page=2": &types.FetchError{
				URL: section + "?src=i&page=2",
				Err: context.DeadlineExceeded,
			},
		},
	}
	store := &fakeStore{}

	summary := newTestCrawler(t, cfg, f, store).Run(context.Background())

	if len(f.fetched) != 2 {
		t.Fatalf("fetched %d pages %v, want 2 (no page 3 after a failed page 2)", len(f.fetched), f.fetched)
	}
	if len(store.records) != 10 {
		t.Errorf("persisted %d records, want page 1's 10", len(store.records))
	}
	if summary.FetchFailures != 1 {
		t.Errorf("summary.FetchFailures = %d, want 1", summary.FetchFailures)
	}
}

func TestRunPageCapBoundsSection(t *testing.T) {
	section := "https://www.countryroad.co.nz/man-clothing-t-shirts/"
	cfg := testConfig(section)
	cfg.Crawl.PageCap = 3

	// Every page, scripted or not, yields products: the cap must stop us.
	f := &fakeFetcher{pages: map[string][]byte{
		section:                   listingPage(5, 0),
		section + "?src=i&page=2": listingPage(5, 5),
		section + "?src=i&page=3": listingPage(5, 10),
		section + "?src=i&page=4": listingPage(5, 15),
	}}
	store := &fakeStore{}

	newTestCrawler(t, cfg, f, store).Run(context.Background())

	if len(f.fetched) != 3 {
		t.Fatalf("fetched %d pages %v, want page cap 3", len(f.fetched), f.fetched)
	}
	if len(store.records) != 15 {
		t.Errorf("persisted %d records, want 15", len(store.records))
	}
}

func TestRunBrokenCardDoesNotSuppressSiblings(t *testing.T) {
	section := "https://www.countryroad.co.nz/man-clothing-shorts/"
	cfg := testConfig(section)

	f := &fakeFetcher{pages: map[string][]byte{
		section: listingPage(5, 0, 2), // card 2 has no price
	}}
	store := &fakeStore{}

	summary := newTestCrawler(t, cfg, f, store).Run(context.Background())

	if len(store.records) != 4 {
		t.Fatalf("persisted %d records, want 4 of 5", len(store.records))
	}
	if summary.Skipped != 1 {
		t.Errorf("summary.Skipped = %d, want 1", summary.Skipped)
	}
}

func TestRunPersistFailuresAreNonFatal(t *testing.T) {
	sectionA := "https://www.countryroad.co.nz/man-clothing-blazers/"
	sectionB := "https://www.countryroad.co.nz/man-clothing-sweats/"
	cfg := testConfig(sectionA, sectionB)

	f := &fakeFetcher{pages: map[string][]byte{
		sectionA: listingPage(10, 0),
		sectionB: listingPage(3, 0),
	}}
	store := &fakeStore{failAll: true}

	summary := newTestCrawler(t, cfg, f, store).Run(context.Background())

	// Every write fails, so every page yields zero and each section ends
	// after one page — but the run itself completes over all sections.
	if summary.Persisted != 0 {
		t.Errorf("summary.Persisted = %d, want 0", summary.Persisted)
	}
	if summary.PersistFailures != 13 {
		t.Errorf("summary.PersistFailures = %d, want 13", summary.PersistFailures)
	}
	wantFetches := []string{sectionA, sectionB}
	if len(f.fetched) != len(wantFetches) || f.fetched[0] != sectionA || f.fetched[1] != sectionB {
		t.Errorf("fetched %v, want %v", f.fetched, wantFetches)
	}
}

func TestPageURL(t *testing.T) {
	cfg := testConfig("https://www.countryroad.co.nz/man-clothing-chinos/")
	c := newTestCrawler(t, cfg, &fakeFetcher{}, &fakeStore{})

	section := "https://www.countryroad.co.nz/man-clothing-chinos/"
	if got := c.pageURL(section, 1); got != section {
		t.Errorf("page 1 = %q, want bare section URL", got)
	}
	want := section + "?src=i&page=5"
	if got := c.pageURL(section, 5); got != want {
		t.Errorf("page 5 = %q, want %q", got, want)
	}
}
