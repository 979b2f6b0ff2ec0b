// Package extractor pulls candidate product records out of category page
// markup. Retailer markup is uncontrolled third-party content, so every field
// is extracted defensively and a broken card never suppresses its siblings.
package extractor

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/stylemate/catalog-scraper/internal/types"
)

// cardSelector locates the structural product card elements.
const cardSelector = `section[data-type="ProductCard"]`

// SkipReason explains why a card was dropped instead of yielding a candidate.
type SkipReason string

const (
	SkipMissingName  SkipReason = "missing_name"
	SkipMissingLink  SkipReason = "missing_link"
	SkipMissingImage SkipReason = "missing_image"
	SkipMissingPrice SkipReason = "missing_price"
	SkipBadPrice     SkipReason = "bad_price"
	SkipBadLink      SkipReason = "bad_link"
)

// Skip records a single dropped card for aggregate logging.
type Skip struct {
	Card   int
	Reason SkipReason
}

// Extractor extracts product candidates from page markup.
type Extractor struct {
	base   *url.URL
	logger *slog.Logger
}

// New creates an Extractor that resolves relative URLs against baseURL.
func New(baseURL string, logger *slog.Logger) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	return &Extractor{
		base:   base,
		logger: logger.With("component", "extractor"),
	}, nil
}

// Extract locates all product cards in the markup and returns one candidate
// per fully-formed card. Cards missing a required field are returned as
// skips; an error is returned only when the document itself cannot be parsed.
func (e *Extractor) Extract(body []byte) ([]types.Candidate, []Skip, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	var candidates []types.Candidate
	var skips []Skip

	doc.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		cand, reason := e.extractCard(card)
		if reason != "" {
			skips = append(skips, Skip{Card: i, Reason: reason})
			e.logger.Debug("card skipped", "card", i, "reason", reason)
			return
		}
		candidates = append(candidates, cand)
	})

	return candidates, skips, nil
}

// extractCard pulls the four required fields from a single card. The empty
// reason means the candidate is fully formed.
func (e *Extractor) extractCard(card *goquery.Selection) (types.Candidate, SkipReason) {
	name := firstText(card, "h2, a")
	if name == "" {
		return types.Candidate{}, SkipMissingName
	}

	href, ok := card.Find("a[href]").First().Attr("href")
	if !ok || href == "" {
		return types.Candidate{}, SkipMissingLink
	}
	productURL, err := e.resolveURL(href)
	if err != nil {
		return types.Candidate{}, SkipBadLink
	}

	src, ok := card.Find("img").First().Attr("src")
	if !ok || src == "" {
		return types.Candidate{}, SkipMissingImage
	}
	imageURL, err := e.resolveURL(src)
	if err != nil {
		return types.Candidate{}, SkipBadLink
	}

	priceText := strings.TrimSpace(card.Find("span.value").First().Text())
	if priceText == "" {
		return types.Candidate{}, SkipMissingPrice
	}
	price, err := ParsePrice(priceText)
	if err != nil {
		return types.Candidate{}, SkipBadPrice
	}

	return types.Candidate{
		Name:       name,
		ProductURL: productURL,
		ImageURL:   imageURL,
		Price:      price,
	}, ""
}

// firstText returns the trimmed text of the first element matching the
// selector that has any text content.
func firstText(root *goquery.Selection, selector string) string {
	var text string
	root.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			text = t
			return false
		}
		return true
	})
	return text
}

// resolveURL rewrites relative URLs to absolute ones against the base origin.
func (e *Extractor) resolveURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", types.ErrInvalidURL
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	return e.base.ResolveReference(u).String(), nil
}

// ParsePrice normalizes a source-local price string and parses it as a
// non-negative decimal amount. The currency code, symbol and thousands
// separators are stripped before the numeric parse.
func ParsePrice(text string) (float64, error) {
	cleaned := strings.NewReplacer("NZD", "", "$", "", ",", "").Replace(text)
	cleaned = strings.TrimSpace(cleaned)
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("negative price %q", text)
	}
	return price, nil
}
