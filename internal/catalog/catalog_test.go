package catalog

import (
	"testing"

	"github.com/stylemate/catalog-scraper/internal/types"
)

func TestIdentityDeterministic(t *testing.T) {
	url := "https://www.countryroad.co.nz/p/slim-fit-chino"

	a := Identity(url)
	b := Identity(url)
	if a != b {
		t.Fatalf("identity not stable: %q != %q", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d (%q)", len(a), a)
	}
}

func TestIdentityDistinct(t *testing.T) {
	urls := []string{
		"https://www.countryroad.co.nz/p/slim-fit-chino",
		"https://www.countryroad.co.nz/p/slim-fit-chino-2",
		"https://www.countryroad.co.nz/p/heritage-polo",
		"https://www.countryroad.co.nz/p/heritage-polo?colour=navy",
	}

	seen := make(map[string]string)
	for _, u := range urls {
		id := Identity(u)
		if prev, ok := seen[id]; ok {
			t.Errorf("identity collision: %q and %q both map to %s", prev, u, id)
		}
		seen[id] = u
	}
}

func testRecord() *types.ProductRecord {
	return &types.ProductRecord{
		Name:       "Slim Fit Chino",
		Brand:      "Country Road",
		Price:      129,
		ImageURL:   "https://www.countryroad.co.nz/img/chino.jpg",
		ProductURL: "https://www.countryroad.co.nz/p/slim-fit-chino",
		Category:   types.CategoryBottoms,
		Retailer:   types.Retailer{ID: "countryroad", Name: "Country Road"},
	}
}

func TestRecordFieldsOmitsEmptyColor(t *testing.T) {
	fields := recordFields(testRecord())

	if _, ok := fields["color"]; ok {
		t.Error("empty color must be omitted from the merge so a stored color survives")
	}
	if _, ok := fields["scrapedAt"]; ok {
		t.Error("scrapedAt must not be client-set; it is refreshed server-side")
	}

	for _, key := range []string{"name", "brand", "price", "imageUrl", "productUrl", "category", "retailer"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	if fields["category"] != "bottoms" {
		t.Errorf("category = %v, want bottoms", fields["category"])
	}
}

func TestRecordFieldsIncludesColorWhenKnown(t *testing.T) {
	rec := testRecord()
	rec.Color = "navy"

	fields := recordFields(rec)
	if fields["color"] != "navy" {
		t.Errorf("color = %v, want navy", fields["color"])
	}
}
