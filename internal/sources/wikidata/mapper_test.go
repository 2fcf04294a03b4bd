package wikidata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placedex/placedex/pkg/errors"
	"github.com/placedex/placedex/pkg/places"
)

func TestExtractQID(t *testing.T) {
	tests := []struct {
		name    string
		item    string
		want    string
		wantErr bool
	}{
		{name: "entity uri", item: "http://www.wikidata.org/entity/Q281521", want: "Q281521"},
		{name: "bare qid", item: "Q42", want: "Q42"},
		{name: "trailing whitespace", item: "Q42 ", want: "Q42"},
		{name: "empty", item: "", wantErr: true},
		{name: "no qid", item: "http://www.wikidata.org/entity/", wantErr: true},
		{name: "qid not at end", item: "Q42/statements", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qid, err := ExtractQID(tt.item)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsNoIdentity(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, qid)
		})
	}
}

func TestMapEntityArchitecture(t *testing.T) {
	lat, lng := -22.9085, -43.1291
	entity := &Entity{
		Item:       "http://www.wikidata.org/entity/Q281521",
		Label:      "Theatro Municipal",
		Lat:        &lat,
		Lng:        &lng,
		City:       "Rio de Janeiro",
		Architects: []string{"Francisco de Oliveira Passos"},
		Styles:     []string{"eclecticism"},
		Images:     []string{"https://commons.wikimedia.org/theatro.jpg"},
		Sitelinks:  []string{"https://en.wikipedia.org/wiki/Theatro_Municipal"},
	}

	rec, err := MapEntity(entity, "brazil.json", places.DataTypeArchitecture)
	require.NoError(t, err)

	assert.Equal(t, "Q281521", rec.IdentityKey)
	assert.Equal(t, "Theatro Municipal", rec.Name)
	assert.Equal(t, []string{"Rio de Janeiro"}, rec.Cities)
	require.NotNil(t, rec.Coordinates)
	assert.Equal(t, -22.9085, rec.Coordinates.Lat)
	assert.Equal(t, []string{"eclecticism"}, rec.Styles)
	assert.Equal(t, []string{"http://www.wikidata.org/entity/Q281521"}, rec.SourceURLs["wikidata"])
	assert.Equal(t, "brazil.json", rec.Provenance.SourceFile)
	assert.Equal(t, places.DataTypeArchitecture, rec.Provenance.DataType)
	assert.Nil(t, rec.CelebrityCounts, "architecture rows carry no celebrity counts")
}

func TestMapEntityCemeteryCounts(t *testing.T) {
	entity := &Entity{
		Item:        "Q1370368",
		Label:       "Cemitério São João Batista",
		ArtistCount: 3,
		TotalCount:  12,
	}

	rec, err := MapEntity(entity, "cemeteries.json", places.DataTypeCemetery)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"artist": 3, "total": 12}, rec.CelebrityCounts)
}

func TestMapEntityFallsBackToQIDName(t *testing.T) {
	rec, err := MapEntity(&Entity{Item: "Q99"}, "file.json", places.DataTypeArchitecture)
	require.NoError(t, err)
	assert.Equal(t, "Q99", rec.Name)
}

func TestDecodeSeparatesSkippedRows(t *testing.T) {
	input := `[
		{"item": "http://www.wikidata.org/entity/Q1", "itemLabel": "First"},
		{"item": "not-an-entity", "itemLabel": "Broken"},
		{"item": "Q3", "itemLabel": "Third"}
	]`

	records, skipped, err := Decode(strings.NewReader(input), "dump.json", places.DataTypeArchitecture)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Q1", records[0].IdentityKey)
	assert.Equal(t, "Q3", records[1].IdentityKey)

	require.Len(t, skipped, 1)
	assert.True(t, errors.IsNoIdentity(skipped[0]))
}

func TestDecodeMalformedDocument(t *testing.T) {
	_, _, err := Decode(strings.NewReader(`{"not": "an array"`), "dump.json", places.DataTypeArchitecture)
	require.Error(t, err)

	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
