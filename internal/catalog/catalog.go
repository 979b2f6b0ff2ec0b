// Package catalog persists product records with merge-upsert semantics keyed
// by a deterministic identity derived from the product URL.
package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"github.com/stylemate/catalog-scraper/internal/types"
)

// Store is the interface for catalog backends.
type Store interface {
	// Upsert merge-writes a record into the catalog. Fields present in the
	// record overwrite the stored document, absent fields are preserved, and
	// the scrape timestamp is refreshed on every write.
	Upsert(ctx context.Context, rec *types.ProductRecord) error

	// Close flushes pending writes and releases resources.
	Close(ctx context.Context) error

	// Name returns the backend identifier.
	Name() string
}

// Identity derives the storage document id from a product's canonical URL.
// The same URL always maps to the same document regardless of crawl order.
func Identity(productURL string) string {
	sum := md5.Sum([]byte(productURL))
	return hex.EncodeToString(sum[:])
}
