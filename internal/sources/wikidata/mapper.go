// Package wikidata maps raw Wikidata dump rows to normalized source
// records. Decoding is strict: a row either yields a well-typed record
// or an error, so downstream reconciliation never sees loosely shaped
// data.
package wikidata

import (
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/placedex/placedex/pkg/errors"
	"github.com/placedex/placedex/pkg/places"
)

// qidPattern matches a Wikidata entity identifier, bare or at the end
// of an entity URI.
var qidPattern = regexp.MustCompile(`Q\d+$`)

// Entity is one row of a Wikidata dump as the query exporter emits it:
// entity URI, labels, and flattened claim values.
type Entity struct {
	Item       string   `json:"item"`
	Label      string   `json:"itemLabel"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	City       string   `json:"cityLabel,omitempty"`
	Architects []string `json:"architects,omitempty"`
	Styles     []string `json:"styles,omitempty"`
	Images     []string `json:"images,omitempty"`
	Sitelinks  []string `json:"sitelinks,omitempty"`

	// Cemetery dumps carry notable-interment counts per facet.
	ArtistCount    int `json:"artistCount,omitempty"`
	WriterCount    int `json:"writerCount,omitempty"`
	MusicianCount  int `json:"musicianCount,omitempty"`
	ScientistCount int `json:"scientistCount,omitempty"`
	TotalCount     int `json:"totalCount,omitempty"`
}

// ExtractQID returns the QID from an entity reference, which may be a
// bare identifier ("Q281521") or a full entity URI.
func ExtractQID(item string) (string, error) {
	qid := qidPattern.FindString(strings.TrimSpace(item))
	if qid == "" {
		return "", errors.NewIdentityError("wikidata", item, "no QID")
	}
	return qid, nil
}

// MapEntity converts one dump row into a source record. Rows without an
// extractable QID return an error satisfying errors.IsNoIdentity.
func MapEntity(e *Entity, sourceFile string, dataType places.DataType) (*places.SourceRecord, error) {
	qid, err := ExtractQID(e.Item)
	if err != nil {
		return nil, err
	}

	rec := &places.SourceRecord{
		IdentityKey: qid,
		Name:        e.Label,
		Architects:  append([]string(nil), e.Architects...),
		Styles:      append([]string(nil), e.Styles...),
		Images:      append([]string(nil), e.Images...),
		Provenance: places.RecordProvenance{
			SourceFile: sourceFile,
			DataType:   dataType,
		},
	}
	if rec.Name == "" {
		rec.Name = qid
	}

	if e.City != "" {
		rec.Cities = []string{e.City}
	}
	if e.Lat != nil && e.Lng != nil {
		rec.Coordinates = &places.Coordinates{Lat: *e.Lat, Lng: *e.Lng}
	}

	urls := map[string][]string{}
	if strings.HasPrefix(e.Item, "http") {
		urls["wikidata"] = []string{e.Item}
	}
	if len(e.Sitelinks) > 0 {
		urls["sitelinks"] = append([]string(nil), e.Sitelinks...)
	}
	if len(urls) > 0 {
		rec.SourceURLs = urls
	}

	if dataType == places.DataTypeCemetery {
		rec.CelebrityCounts = celebrityCounts(e)
	}
	return rec, nil
}

func celebrityCounts(e *Entity) map[string]int {
	counts := map[string]int{}
	for facet, n := range map[string]int{
		"artist":    e.ArtistCount,
		"writer":    e.WriterCount,
		"musician":  e.MusicianCount,
		"scientist": e.ScientistCount,
		"total":     e.TotalCount,
	} {
		if n > 0 {
			counts[facet] = n
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}

// Decode reads a JSON array of dump rows and maps each one. Rows with
// no extractable QID are returned in the second slice so the caller can
// count them as skipped; a malformed document fails the whole decode.
func Decode(r io.Reader, sourceFile string, dataType places.DataType) ([]*places.SourceRecord, []error, error) {
	var rows []*Entity
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, nil, errors.NewParseError("json", sourceFile, "decoding wikidata dump", err)
	}

	records := make([]*places.SourceRecord, 0, len(rows))
	var skipped []error
	for _, row := range rows {
		rec, err := MapEntity(row, sourceFile, dataType)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}
