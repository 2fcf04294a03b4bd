// Package places defines the core data model for the placedex catalog:
// normalized source observations, merged records, and the persisted
// canonical Place entity, together with the category rule table that
// drives classification.
package places

import (
	"github.com/agentstation/utc"
)

// Source identifies where a place observation originated.
type Source string

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// Known sources.
const (
	// SourceGoogle identifies scraped Google Places data.
	SourceGoogle Source = "google"

	// SourceWikidata identifies Wikidata knowledge-graph dumps.
	SourceWikidata Source = "wikidata"
)

// Place represents the persisted canonical entity for one real-world place.
// Its identity is the pair (Source, SourceDetail) where SourceDetail is the
// stable external key (Wikidata QID or scraped place id).
type Place struct {
	// Identity
	ID           string `json:"id" yaml:"id"`                       // Storage-assigned identifier
	Source       Source `json:"source" yaml:"source"`               // Originating source
	SourceDetail string `json:"source_detail" yaml:"source_detail"` // External identity key

	// Descriptive fields
	Name         string   `json:"name" yaml:"name"`
	City         *string  `json:"city,omitempty" yaml:"city,omitempty"`
	Country      *string  `json:"country,omitempty" yaml:"country,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Address      *string  `json:"address,omitempty" yaml:"address,omitempty"`
	Website      *string  `json:"website,omitempty" yaml:"website,omitempty"`
	PhoneNumber  *string  `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	OpeningHours *string  `json:"opening_hours,omitempty" yaml:"opening_hours,omitempty"`
	Description  *string  `json:"description,omitempty" yaml:"description,omitempty"`

	// Ratings
	Rating      *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty" yaml:"rating_count,omitempty"`

	// Classification
	CategorySlug string `json:"category_slug" yaml:"category_slug"`
	CategoryEn   string `json:"category_en" yaml:"category_en"`
	CategoryZh   string `json:"category_zh" yaml:"category_zh"`
	Tags         Tags   `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Media
	CoverImage string   `json:"cover_image,omitempty" yaml:"cover_image,omitempty"`
	Images     []string `json:"images,omitempty" yaml:"images,omitempty"`

	// Source-specific overflow (sitelinks, wikidataUrls, categoriesRaw, ...)
	CustomFields map[string]any `json:"custom_fields,omitempty" yaml:"custom_fields,omitempty"`

	// Per-source scrape metadata
	SourceDetails map[Source]*ScrapeDetail `json:"source_details,omitempty" yaml:"source_details,omitempty"`

	IsVerified bool `json:"is_verified" yaml:"is_verified"`

	// Timestamps for record keeping and auditing
	CreatedAt utc.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt utc.Time `json:"updated_at" yaml:"updated_at"`
}

// Tags holds the facet tags attached to a place beyond its primary category.
type Tags struct {
	Style     []string `json:"style,omitempty" yaml:"style,omitempty"`
	Architect []string `json:"architect,omitempty" yaml:"architect,omitempty"`
	Theme     []string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// IsEmpty reports whether no facet carries a tag.
func (t Tags) IsEmpty() bool {
	return len(t.Style) == 0 && len(t.Architect) == 0 && len(t.Theme) == 0
}

// ScrapeDetail records when a source last observed a place and through
// which searches it was found.
type ScrapeDetail struct {
	ScrapedAt  utc.Time    `json:"scraped_at" yaml:"scraped_at"`
	SearchHits []SearchHit `json:"search_hits,omitempty" yaml:"search_hits,omitempty"`
}

// SearchHit records one search result occurrence of a place. Hits are
// append-only and deduplicated by (SearchString, ScrapedAt).
type SearchHit struct {
	SearchString  string   `json:"search_string" yaml:"search_string"`
	Rank          int      `json:"rank" yaml:"rank"`
	ScrapedAt     utc.Time `json:"scraped_at" yaml:"scraped_at"`
	SearchPageURL string   `json:"search_page_url,omitempty" yaml:"search_page_url,omitempty"`
}

// Key returns the dedup key for a search hit.
func (h SearchHit) Key() string {
	return h.SearchString + "|" + h.ScrapedAt.Format("2006-01-02T15:04:05Z07:00")
}

// MappedPlace is one incoming, not-yet-persisted observation of a place in
// Place shape. Field mappers produce it; the importer either creates a new
// Place from it or reconciles it against the persisted one.
type MappedPlace struct {
	Source       Source
	SourceDetail string

	Name         string
	City         *string
	Country      *string
	Latitude     *float64
	Longitude    *float64
	Address      *string
	Website      *string
	PhoneNumber  *string
	OpeningHours *string
	Description  *string

	Rating      *float64
	RatingCount *int

	CategorySlug string
	CategoryEn   string
	CategoryZh   string
	Tags         Tags

	CoverImage string
	Images     []string

	CustomFields map[string]any

	ScrapedAt  utc.Time
	SearchHits []SearchHit
}

// Place converts a mapped place into a fresh Place entity with the given
// storage id. The ScrapedAt/SearchHits metadata lands under SourceDetails.
func (m *MappedPlace) Place(id string) *Place {
	now := utc.Now()
	p := &Place{
		ID:           id,
		Source:       m.Source,
		SourceDetail: m.SourceDetail,
		Name:         m.Name,
		City:         m.City,
		Country:      m.Country,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		Address:      m.Address,
		Website:      m.Website,
		PhoneNumber:  m.PhoneNumber,
		OpeningHours: m.OpeningHours,
		Description:  m.Description,
		Rating:       m.Rating,
		RatingCount:  m.RatingCount,
		CategorySlug: m.CategorySlug,
		CategoryEn:   m.CategoryEn,
		CategoryZh:   m.CategoryZh,
		Tags:         m.Tags,
		CoverImage:   m.CoverImage,
		Images:       append([]string(nil), m.Images...),
		CustomFields: m.CustomFields,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !m.ScrapedAt.IsZero() || len(m.SearchHits) > 0 {
		p.SourceDetails = map[Source]*ScrapeDetail{
			m.Source: {
				ScrapedAt:  m.ScrapedAt,
				SearchHits: append([]SearchHit(nil), m.SearchHits...),
			},
		}
	}
	return p
}
