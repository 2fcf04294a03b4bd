package reconcile

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placedex/placedex/pkg/places"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func ts(day int) utc.Time {
	return utc.Time{Time: time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC)}
}

func existingPlace() *places.Place {
	return &places.Place{
		ID:           "pl_1",
		Source:       places.SourceGoogle,
		SourceDetail: "ChIJabc",
		Name:         "Casa de Vidro",
		Address:      strPtr("Rua General Almerio de Moura 200"),
		Website:      strPtr("https://old.example.org"),
		Rating:       floatPtr(4.0),
		RatingCount:  intPtr(50),
		CategorySlug: "museum",
		CategoryEn:   "Museum",
		CategoryZh:   "博物馆",
		SourceDetails: map[places.Source]*places.ScrapeDetail{
			places.SourceGoogle: {ScrapedAt: ts(1)},
		},
		CreatedAt: ts(1),
		UpdatedAt: ts(1),
	}
}

func TestIdentityAlwaysPreserved(t *testing.T) {
	existing := existingPlace()
	incoming := &places.MappedPlace{
		Source:       places.SourceGoogle,
		SourceDetail: "ChIJabc",
		Name:         "Renamed",
	}

	merged := Merge(existing, incoming)

	assert.Equal(t, "pl_1", merged.ID)
	assert.Equal(t, places.SourceGoogle, merged.Source)
	assert.Equal(t, "ChIJabc", merged.SourceDetail)
	assert.Equal(t, existing.CreatedAt, merged.CreatedAt)
}

func TestNonNullOverwriteLaw(t *testing.T) {
	t.Run("all-null incoming leaves existing untouched", func(t *testing.T) {
		existing := existingPlace()
		merged := Merge(existing, &places.MappedPlace{Source: places.SourceGoogle})

		diff := cmp.Diff(existing, merged,
			cmpopts.IgnoreFields(places.Place{}, "UpdatedAt"))
		assert.Empty(t, diff)
	})

	t.Run("non-null incoming overwrites every optional field", func(t *testing.T) {
		existing := existingPlace()
		incoming := &places.MappedPlace{
			Source:      places.SourceGoogle,
			Address:     strPtr("new address"),
			Website:     strPtr("https://new.example.org"),
			PhoneNumber: strPtr("+55 11 5555"),
			Description: strPtr("glass house museum"),
			City:        strPtr("Sao Paulo"),
			Country:     strPtr("Brazil"),
			Latitude:    floatPtr(-23.58),
			Longitude:   floatPtr(-46.7),
		}

		merged := Merge(existing, incoming)

		assert.Equal(t, "new address", *merged.Address)
		assert.Equal(t, "https://new.example.org", *merged.Website)
		assert.Equal(t, "+55 11 5555", *merged.PhoneNumber)
		assert.Equal(t, "glass house museum", *merged.Description)
		assert.Equal(t, "Sao Paulo", *merged.City)
		assert.Equal(t, "Brazil", *merged.Country)
		assert.Equal(t, -23.58, *merged.Latitude)
		assert.Equal(t, -46.7, *merged.Longitude)
	})
}

func TestTakeGreaterLaw(t *testing.T) {
	existing := existingPlace() // ratingCount=50, rating=4.0
	incoming := &places.MappedPlace{
		Source:      places.SourceGoogle,
		Rating:      floatPtr(3.5),
		RatingCount: intPtr(80),
	}

	merged := Merge(existing, incoming)

	assert.Equal(t, 80, *merged.RatingCount)
	assert.Equal(t, 3.5, *merged.Rating)
}

func TestRatingKeptWhenExistingCountGreater(t *testing.T) {
	existing := existingPlace() // ratingCount=50, rating=4.0
	incoming := &places.MappedPlace{
		Source:      places.SourceGoogle,
		Rating:      floatPtr(1.0),
		RatingCount: intPtr(10),
	}

	merged := Merge(existing, incoming)

	assert.Equal(t, 50, *merged.RatingCount)
	assert.Equal(t, 4.0, *merged.Rating)
}

func TestRatingTieGoesToIncoming(t *testing.T) {
	existing := existingPlace() // ratingCount=50
	incoming := &places.MappedPlace{
		Source:      places.SourceGoogle,
		Rating:      floatPtr(4.8),
		RatingCount: intPtr(50),
	}

	merged := Merge(existing, incoming)

	assert.Equal(t, 50, *merged.RatingCount)
	assert.Equal(t, 4.8, *merged.Rating)
}

func TestOpeningHoursHasValueBeatsNewer(t *testing.T) {
	t.Run("incoming nil keeps existing", func(t *testing.T) {
		existing := existingPlace()
		existing.OpeningHours = strPtr("Mo-Fr 9-17")

		merged := Merge(existing, &places.MappedPlace{
			Source:    places.SourceGoogle,
			ScrapedAt: ts(20), // newer, but carries no hours
		})
		assert.Equal(t, "Mo-Fr 9-17", *merged.OpeningHours)
	})

	t.Run("existing nil takes incoming even when older", func(t *testing.T) {
		existing := existingPlace()

		merged := Merge(existing, &places.MappedPlace{
			Source:       places.SourceGoogle,
			OpeningHours: strPtr("Sa-Su 10-18"),
			ScrapedAt:    ts(1),
		})
		assert.Equal(t, "Sa-Su 10-18", *merged.OpeningHours)
	})

	t.Run("both present, newer scrape wins", func(t *testing.T) {
		existing := existingPlace() // scraped ts(1)
		existing.OpeningHours = strPtr("Mo-Fr 9-17")

		newer := Merge(existing, &places.MappedPlace{
			Source:       places.SourceGoogle,
			OpeningHours: strPtr("daily 8-20"),
			ScrapedAt:    ts(15),
		})
		assert.Equal(t, "daily 8-20", *newer.OpeningHours)
	})

	t.Run("both present, older incoming loses", func(t *testing.T) {
		existing := existingPlace()
		existing.SourceDetails[places.SourceGoogle].ScrapedAt = ts(15)
		existing.OpeningHours = strPtr("Mo-Fr 9-17")

		older := Merge(existing, &places.MappedPlace{
			Source:       places.SourceGoogle,
			OpeningHours: strPtr("daily 8-20"),
			ScrapedAt:    ts(2),
		})
		assert.Equal(t, "Mo-Fr 9-17", *older.OpeningHours)
	})
}

func TestSearchHitsUnionLaw(t *testing.T) {
	hitA := places.SearchHit{SearchString: "brutalist sao paulo", Rank: 1, ScrapedAt: ts(1)}
	hitB := places.SearchHit{SearchString: "lina bo bardi", Rank: 3, ScrapedAt: ts(1)}
	hitC := places.SearchHit{SearchString: "glass house", Rank: 2, ScrapedAt: ts(10)}

	existing := existingPlace()
	existing.SourceDetails[places.SourceGoogle].SearchHits = []places.SearchHit{hitA, hitB}

	incoming := &places.MappedPlace{
		Source:     places.SourceGoogle,
		ScrapedAt:  ts(10),
		SearchHits: []places.SearchHit{hitB, hitC}, // B identical on both sides
	}

	merged := Merge(existing, incoming)
	hits := merged.SourceDetails[places.SourceGoogle].SearchHits

	require.Len(t, hits, 3)
	assert.Equal(t, []places.SearchHit{hitA, hitB, hitC}, hits)
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := existingPlace()
	incoming := &places.MappedPlace{
		Source:       places.SourceGoogle,
		Name:         "Casa de Vidro",
		Rating:       floatPtr(4.6),
		RatingCount:  intPtr(120),
		OpeningHours: strPtr("daily 9-18"),
		Website:      strPtr("https://new.example.org"),
		Images:       []string{"https://img/1.jpg", "https://img/2.jpg"},
		ScrapedAt:    ts(10),
		SearchHits: []places.SearchHit{
			{SearchString: "glass house", Rank: 1, ScrapedAt: ts(10)},
		},
	}

	once := Merge(existing, incoming)
	twice := Merge(once, incoming)

	diff := cmp.Diff(once, twice, cmpopts.IgnoreFields(places.Place{}, "UpdatedAt"))
	assert.Empty(t, diff, "replaying the same incoming record must not change the result")
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	existing := existingPlace()
	existing.Images = []string{"https://img/old.jpg"}
	incoming := &places.MappedPlace{
		Source: places.SourceGoogle,
		Images: []string{"https://img/new.jpg"},
	}

	merged := Merge(existing, incoming)

	assert.Equal(t, []string{"https://img/old.jpg"}, existing.Images)
	assert.Equal(t, []string{"https://img/new.jpg"}, incoming.Images)
	assert.Equal(t, []string{"https://img/old.jpg", "https://img/new.jpg"}, merged.Images)
}

func TestImagesUnionKeepsOrder(t *testing.T) {
	existing := existingPlace()
	existing.Images = []string{"a", "b"}

	merged := Merge(existing, &places.MappedPlace{
		Source: places.SourceGoogle,
		Images: []string{"b", "c", "a", "d"},
	})

	assert.Equal(t, []string{"a", "b", "c", "d"}, merged.Images)
}

func TestCustomFieldsShallowMerge(t *testing.T) {
	existing := existingPlace()
	existing.CustomFields = map[string]any{"sitelinks": 12, "kept": true}

	merged := Merge(existing, &places.MappedPlace{
		Source:       places.SourceGoogle,
		CustomFields: map[string]any{"sitelinks": 15, "categoriesRaw": []string{"museum"}},
	})

	assert.Equal(t, 15, merged.CustomFields["sitelinks"])
	assert.Equal(t, true, merged.CustomFields["kept"])
	assert.Equal(t, []string{"museum"}, merged.CustomFields["categoriesRaw"])
}
