// Package scrape maps scraped Google Places payloads to the incoming
// place shape. The mapper owns classification for this pipeline: the
// raw category signals never leave this boundary.
package scrape

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/utc"

	"github.com/placedex/placedex/pkg/classify"
	"github.com/placedex/placedex/pkg/errors"
	"github.com/placedex/placedex/pkg/places"
)

// Payload is one scraped place result as the scraping actor emits it.
type Payload struct {
	PlaceID     string   `json:"placeId"`
	Title       string   `json:"title"`
	City        *string  `json:"city,omitempty"`
	CountryCode *string  `json:"countryCode,omitempty"`
	Street      *string  `json:"street,omitempty"`
	Website     *string  `json:"website,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *latLng  `json:"location,omitempty"`
	TotalScore  *float64 `json:"totalScore,omitempty"`
	Reviews     *int     `json:"reviewsCount,omitempty"`

	CategoryName string   `json:"categoryName,omitempty"`
	Categories   []string `json:"categories,omitempty"`

	OpeningHours []Period `json:"openingHours,omitempty"`

	ImageURL string   `json:"imageUrl,omitempty"`
	Images   []string `json:"imageUrls,omitempty"`

	SearchString  string   `json:"searchString,omitempty"`
	Rank          int      `json:"rank,omitempty"`
	SearchPageURL string   `json:"searchPageUrl,omitempty"`
	ScrapedAt     utc.Time `json:"scrapedAt"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Period is one day's opening hours as scraped.
type Period struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// Mapper converts scraped payloads into mapped places, classifying
// each one from its category signals.
type Mapper struct {
	classifier *classify.Classifier
}

// NewMapper creates a mapper using the given classifier.
func NewMapper(classifier *classify.Classifier) *Mapper {
	return &Mapper{classifier: classifier}
}

// Map converts one payload. Payloads without a place id return an error
// satisfying errors.IsNoIdentity.
func (m *Mapper) Map(p *Payload) (*places.MappedPlace, error) {
	if strings.TrimSpace(p.PlaceID) == "" {
		return nil, errors.NewIdentityError("scrape", p.Title, "no place id")
	}

	category := m.classifier.FromSignals(classify.Signals{
		Categories:   p.Categories,
		CategoryName: p.CategoryName,
		SearchString: p.SearchString,
	})

	mapped := &places.MappedPlace{
		Source:       places.SourceGoogle,
		SourceDetail: p.PlaceID,
		Name:         p.Title,
		City:         p.City,
		Country:      p.CountryCode,
		Address:      p.Street,
		Website:      p.Website,
		PhoneNumber:  p.Phone,
		Description:  p.Description,
		Rating:       p.TotalScore,
		RatingCount:  p.Reviews,
		CategorySlug: category.Slug,
		CategoryEn:   category.En,
		CategoryZh:   category.Zh,
		CoverImage:   p.ImageURL,
		Images:       append([]string(nil), p.Images...),
		ScrapedAt:    p.ScrapedAt,
	}

	if p.Location != nil {
		lat, lng := p.Location.Lat, p.Location.Lng
		mapped.Latitude = &lat
		mapped.Longitude = &lng
	}
	if hours := formatOpeningHours(p.OpeningHours); hours != "" {
		mapped.OpeningHours = &hours
	}
	if mapped.CoverImage == "" && len(mapped.Images) > 0 {
		mapped.CoverImage = mapped.Images[0]
	}

	// Theme keywords add a tag but never change the category.
	mapped.Tags.Theme = m.classifier.Themes(p.SearchString)

	if p.SearchString != "" {
		mapped.SearchHits = []places.SearchHit{{
			SearchString:  p.SearchString,
			Rank:          p.Rank,
			ScrapedAt:     p.ScrapedAt,
			SearchPageURL: p.SearchPageURL,
		}}
	}
	if len(p.Categories) > 0 {
		mapped.CustomFields = map[string]any{
			"categoriesRaw": append([]string(nil), p.Categories...),
		}
	}
	return mapped, nil
}

// formatOpeningHours flattens scraped periods into one display string.
func formatOpeningHours(periods []Period) string {
	if len(periods) == 0 {
		return ""
	}
	parts := make([]string, 0, len(periods))
	for _, period := range periods {
		parts = append(parts, fmt.Sprintf("%s: %s", period.Day, period.Hours))
	}
	return strings.Join(parts, "; ")
}

// Decode reads a JSON array of scraped payloads and maps each one.
// Payloads with no place id are returned in the second slice so the
// caller can count them as skipped.
func (m *Mapper) Decode(r io.Reader, sourceFile string) ([]*places.MappedPlace, []error, error) {
	var payloads []*Payload
	if err := json.NewDecoder(r).Decode(&payloads); err != nil {
		return nil, nil, errors.NewParseError("json", sourceFile, "decoding scrape results", err)
	}

	mapped := make([]*places.MappedPlace, 0, len(payloads))
	var skipped []error
	for _, payload := range payloads {
		place, err := m.Map(payload)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		mapped = append(mapped, place)
	}
	return mapped, skipped, nil
}
