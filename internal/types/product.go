package types

import (
	"time"
)

// Category is one of the fixed catalog category labels.
type Category string

const (
	CategoryTops        Category = "tops"
	CategoryBottoms     Category = "bottoms"
	CategoryShoes       Category = "shoes"
	CategoryOuterwear   Category = "outerwear"
	CategoryAccessories Category = "accessories"

	// CategoryDefault is assigned when no keyword rule matches.
	CategoryDefault = CategoryTops
)

// Categories lists every valid category label.
var Categories = []Category{
	CategoryTops,
	CategoryBottoms,
	CategoryShoes,
	CategoryOuterwear,
	CategoryAccessories,
}

// IsValid reports whether c is one of the fixed category labels.
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// Retailer identifies the fixed source site a record was scraped from.
type Retailer struct {
	ID   string `bson:"id"   json:"id"   mapstructure:"id"   yaml:"id"`
	Name string `bson:"name" json:"name" mapstructure:"name" yaml:"name"`
}

// Candidate is a provisionally extracted product before validation.
// All four fields must be populated for the candidate to become a record.
type Candidate struct {
	Name       string
	ProductURL string
	ImageURL   string
	Price      float64
}

// ProductRecord is the unit persisted into the catalog. ProductURL is the
// record's natural key; the storage document id is derived from it.
type ProductRecord struct {
	Name       string    `bson:"name"       json:"name"`
	Brand      string    `bson:"brand"      json:"brand"`
	Price      float64   `bson:"price"      json:"price"`
	ImageURL   string    `bson:"imageUrl"   json:"imageUrl"`
	ProductURL string    `bson:"productUrl" json:"productUrl"`
	Category   Category  `bson:"category"   json:"category"`
	Color      string    `bson:"color,omitempty" json:"color,omitempty"`
	Retailer   Retailer  `bson:"retailer"   json:"retailer"`
	ScrapedAt  time.Time `bson:"scrapedAt,omitempty" json:"scrapedAt,omitempty"`
}

// Valid reports whether the record satisfies the emission invariant:
// non-empty name, product URL and image URL, and a non-negative price.
func (r *ProductRecord) Valid() bool {
	return r.Name != "" && r.ProductURL != "" && r.ImageURL != "" && r.Price >= 0
}
