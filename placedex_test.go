package placedex

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placedex/placedex/pkg/places"
)

const wikidataDump = `[
	{"item": "http://www.wikidata.org/entity/Q281521", "itemLabel": "Theatro Municipal",
	 "cityLabel": "Rio de Janeiro", "architects": ["Francisco de Oliveira Passos"]},
	{"item": "http://www.wikidata.org/entity/Q281521", "itemLabel": "Theatro Municipal",
	 "cityLabel": "Centro District", "styles": ["eclecticism"]},
	{"item": "http://www.wikidata.org/entity/Q1370368", "itemLabel": "National Library"}
]`

func TestImportWikidataEndToEnd(t *testing.T) {
	ctx := context.Background()

	client, err := New()
	require.NoError(t, err)
	defer client.Close()

	result, err := client.ImportWikidata(ctx, strings.NewReader(wikidataDump), "brazil.json", places.DataTypeArchitecture)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted, "duplicate QIDs merge before persisting")
	assert.Equal(t, 3, result.Stats.Total)
	assert.Equal(t, 2, result.Stats.Unique)

	count, err := client.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportScrapedEndToEnd(t *testing.T) {
	ctx := context.Background()

	client, err := New()
	require.NoError(t, err)
	defer client.Close()

	payloads := `[
		{"placeId": "p1", "title": "Moderna Museet", "categoryName": "Museum",
		 "searchString": "museum stockholm", "rank": 1, "scrapedAt": "2026-03-01T12:00:00Z"},
		{"title": "No Identity", "scrapedAt": "2026-03-01T12:00:00Z"}
	]`

	result, err := client.ImportScraped(ctx, strings.NewReader(payloads), "stockholm.json")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped, "payloads without a place id are skipped")
	assert.Equal(t, result.Inserted+result.Updated+result.Skipped+result.Failed, result.Total)
}

func TestImportScrapedReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()

	client, err := New()
	require.NoError(t, err)
	defer client.Close()

	payloads := `[{"placeId": "p1", "title": "Moderna Museet", "scrapedAt": "2026-03-01T12:00:00Z"}]`

	first, err := client.ImportScraped(ctx, strings.NewReader(payloads), "stockholm.json")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Inserted)

	second, err := client.ImportScraped(ctx, strings.NewReader(payloads), "stockholm.json")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Updated)

	count, err := client.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewWithSQLiteStore(t *testing.T) {
	client, err := New(WithStorePath(filepath.Join(t.TempDir(), "catalog.db")))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.ImportWikidata(context.Background(), strings.NewReader(wikidataDump), "brazil.json", places.DataTypeArchitecture)
	require.NoError(t, err)

	count, err := client.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(WithChunkSize(0))
	assert.Error(t, err)

	_, err = New(WithStore(nil))
	assert.Error(t, err)
}

func TestProvenanceTracking(t *testing.T) {
	client, err := New(WithProvenance(true))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.ImportWikidata(context.Background(), strings.NewReader(wikidataDump), "brazil.json", places.DataTypeArchitecture)
	require.NoError(t, err)

	assert.NotEmpty(t, client.Provenance())
}
