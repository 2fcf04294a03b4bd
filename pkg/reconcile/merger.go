// Package reconcile merges a new observation of a place against the
// persisted record sharing its identity key. Each field class has its own
// conflict policy; the policy set is idempotent under replay, so
// re-scrapes can be merged repeatedly without drift.
package reconcile

import (
	"github.com/agentstation/utc"

	"github.com/placedex/placedex/pkg/places"
)

// Merge reconciles an incoming observation against an existing persisted
// place and returns the reconciled place. Neither input is mutated.
//
// Field policies:
//   - identity (ID, Source, SourceDetail, CreatedAt): preserved from existing
//   - optional scalars (address, website, phone, description, ...): a
//     non-nil incoming value overwrites; nil leaves existing untouched
//   - ratingCount: maximum of both sides
//   - rating: follows the side with the greater ratingCount, incoming wins
//     ties
//   - openingHours: a side with a value beats a side without; when both
//     have one, the more recent scrape wins
//   - searchHits: set-union keyed by (searchString, scrapedAt); existing
//     hits are never dropped or overwritten
//   - images: set-union, existing order first
func Merge(existing *places.Place, incoming *places.MappedPlace) *places.Place {
	result := clone(existing)

	// Optional scalars: incoming ?? existing.
	result.City = coalesceStr(incoming.City, result.City)
	result.Country = coalesceStr(incoming.Country, result.Country)
	result.Latitude = coalesceFloat(incoming.Latitude, result.Latitude)
	result.Longitude = coalesceFloat(incoming.Longitude, result.Longitude)
	result.Address = coalesceStr(incoming.Address, result.Address)
	result.Website = coalesceStr(incoming.Website, result.Website)
	result.PhoneNumber = coalesceStr(incoming.PhoneNumber, result.PhoneNumber)
	result.Description = coalesceStr(incoming.Description, result.Description)

	if incoming.Name != "" {
		result.Name = incoming.Name
	}
	if incoming.CategorySlug != "" {
		result.CategorySlug = incoming.CategorySlug
		result.CategoryEn = incoming.CategoryEn
		result.CategoryZh = incoming.CategoryZh
	}
	if incoming.CoverImage != "" {
		result.CoverImage = incoming.CoverImage
	}

	mergeRating(result, incoming)
	mergeOpeningHours(result, existing, incoming)

	result.Images = unionStrings(result.Images, incoming.Images)
	result.Tags.Style = unionStrings(result.Tags.Style, incoming.Tags.Style)
	result.Tags.Architect = unionStrings(result.Tags.Architect, incoming.Tags.Architect)
	result.Tags.Theme = unionStrings(result.Tags.Theme, incoming.Tags.Theme)

	for key, value := range incoming.CustomFields {
		if result.CustomFields == nil {
			result.CustomFields = make(map[string]any)
		}
		result.CustomFields[key] = value
	}

	mergeScrapeDetail(result, incoming)

	result.UpdatedAt = utc.Now()
	return result
}

// mergeRating applies the take-greater policy: ratingCount becomes the
// maximum and rating follows whichever side held the greater count, with
// incoming winning ties. An incoming side with neither value is a no-op.
func mergeRating(result *places.Place, incoming *places.MappedPlace) {
	if incoming.Rating == nil && incoming.RatingCount == nil {
		return
	}

	existingCount := intOrZero(result.RatingCount)
	incomingCount := intOrZero(incoming.RatingCount)

	if incomingCount >= existingCount {
		result.Rating = coalesceFloat(incoming.Rating, result.Rating)
	}
	if incomingCount > existingCount {
		count := incomingCount
		result.RatingCount = &count
	}
}

// mergeOpeningHours applies "has a value beats is newer": recency only
// decides when both sides carry opening hours.
func mergeOpeningHours(result *places.Place, existing *places.Place, incoming *places.MappedPlace) {
	if incoming.OpeningHours == nil {
		return
	}
	if result.OpeningHours == nil {
		result.OpeningHours = incoming.OpeningHours
		return
	}

	existingScrape := scrapedAt(existing, incoming.Source)
	if !incoming.ScrapedAt.Before(existingScrape) {
		result.OpeningHours = incoming.OpeningHours
	}
}

// mergeScrapeDetail unions search hits and advances the scrape timestamp
// for the incoming source.
func mergeScrapeDetail(result *places.Place, incoming *places.MappedPlace) {
	if incoming.ScrapedAt.IsZero() && len(incoming.SearchHits) == 0 {
		return
	}

	if result.SourceDetails == nil {
		result.SourceDetails = make(map[places.Source]*places.ScrapeDetail)
	}
	detail := result.SourceDetails[incoming.Source]
	if detail == nil {
		detail = &places.ScrapeDetail{}
		result.SourceDetails[incoming.Source] = detail
	}

	if incoming.ScrapedAt.After(detail.ScrapedAt) {
		detail.ScrapedAt = incoming.ScrapedAt
	}

	seen := make(map[string]struct{}, len(detail.SearchHits))
	for _, hit := range detail.SearchHits {
		seen[hit.Key()] = struct{}{}
	}
	for _, hit := range incoming.SearchHits {
		if _, ok := seen[hit.Key()]; ok {
			continue
		}
		seen[hit.Key()] = struct{}{}
		detail.SearchHits = append(detail.SearchHits, hit)
	}
}

// scrapedAt returns the recorded scrape time of a source on a place.
func scrapedAt(p *places.Place, source places.Source) utc.Time {
	if detail, ok := p.SourceDetails[source]; ok && detail != nil {
		return detail.ScrapedAt
	}
	return utc.Time{}
}

// clone deep-copies the mutable parts of a place.
func clone(p *places.Place) *places.Place {
	out := *p

	out.Images = append([]string(nil), p.Images...)
	out.Tags.Style = append([]string(nil), p.Tags.Style...)
	out.Tags.Architect = append([]string(nil), p.Tags.Architect...)
	out.Tags.Theme = append([]string(nil), p.Tags.Theme...)

	if p.CustomFields != nil {
		out.CustomFields = make(map[string]any, len(p.CustomFields))
		for k, v := range p.CustomFields {
			out.CustomFields[k] = v
		}
	}
	if p.SourceDetails != nil {
		out.SourceDetails = make(map[places.Source]*places.ScrapeDetail, len(p.SourceDetails))
		for source, detail := range p.SourceDetails {
			copied := *detail
			copied.SearchHits = append([]places.SearchHit(nil), detail.SearchHits...)
			out.SourceDetails[source] = &copied
		}
	}
	return &out
}

func coalesceStr(incoming, existing *string) *string {
	if incoming != nil {
		return incoming
	}
	return existing
}

func coalesceFloat(incoming, existing *float64) *float64 {
	if incoming != nil {
		return incoming
	}
	return existing
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// unionStrings appends values from add that are not already in base.
func unionStrings(base, add []string) []string {
	if len(add) == 0 {
		return base
	}
	seen := make(map[string]struct{}, len(base))
	for _, v := range base {
		seen[v] = struct{}{}
	}
	for _, v := range add {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		base = append(base, v)
	}
	return base
}
