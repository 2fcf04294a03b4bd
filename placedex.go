// Package placedex reconciles place records from heterogeneous sources
// into a single canonical catalog: scraped Google Places payloads and
// Wikidata dump rows are deduplicated by their stable external keys,
// classified against an ordered rule table, and merged field by field
// against previously persisted records.
package placedex

import (
	"context"
	"fmt"
	"io"

	"github.com/placedex/placedex/internal/sources/scrape"
	"github.com/placedex/placedex/internal/sources/wikidata"
	"github.com/placedex/placedex/internal/store"
	"github.com/placedex/placedex/pkg/classify"
	"github.com/placedex/placedex/pkg/importer"
	"github.com/placedex/placedex/pkg/places"
	"github.com/placedex/placedex/pkg/provenance"
)

// Placedex is the catalog client. One client owns one store handle;
// import runs are sequential per client.
type Placedex interface {
	// ImportWikidata reads a Wikidata dump and imports it under the
	// given data type (architecture or cemetery).
	ImportWikidata(ctx context.Context, r io.Reader, sourceFile string, dataType places.DataType) (*importer.Result, error)

	// ImportScraped reads scraped place payloads and imports them.
	ImportScraped(ctx context.Context, r io.Reader, sourceFile string) (*importer.Result, error)

	// ImportRecords imports already mapped source records.
	ImportRecords(ctx context.Context, records []*places.SourceRecord) (*importer.Result, error)

	// Count returns the number of persisted places.
	Count(ctx context.Context) (int, error)

	// Provenance returns the field-level provenance collected so far.
	// Empty unless the client was built WithProvenance.
	Provenance() provenance.Map

	// Close releases the underlying store.
	Close() error
}

type placedex struct {
	config     *config
	store      store.Store
	importer   *importer.Importer
	classifier *classify.Classifier
	mapper     *scrape.Mapper
	tracker    provenance.Tracker
}

// New creates a client with the given options. Without WithStore or
// WithStorePath the client runs against an in-memory store.
func New(opts ...Option) (Placedex, error) {
	p := &placedex{config: newConfig()}

	if err := p.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	if p.store == nil {
		if p.config.storePath != "" {
			s, err := store.OpenSQLite(p.config.storePath)
			if err != nil {
				return nil, fmt.Errorf("opening store: %w", err)
			}
			p.store = s
		} else {
			p.store = store.NewMemory()
		}
	}

	p.tracker = provenance.NewTracker(p.config.trackProvenance)
	p.classifier = classify.New(p.config.ruleTable, p.config.classifierOpts...)
	p.mapper = scrape.NewMapper(p.classifier)
	p.importer = importer.New(p.store,
		importer.WithChunkSize(p.config.chunkSize),
		importer.WithClassifier(p.classifier),
		importer.WithTracker(p.tracker),
	)
	return p, nil
}

func (p *placedex) options(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(p); err != nil {
			return err
		}
	}
	return nil
}

// ImportWikidata reads a Wikidata dump and imports it.
func (p *placedex) ImportWikidata(ctx context.Context, r io.Reader, sourceFile string, dataType places.DataType) (*importer.Result, error) {
	records, skipped, err := wikidata.Decode(r, sourceFile, dataType)
	if err != nil {
		return nil, err
	}

	result, err := p.importer.ImportRecords(ctx, records)
	if result != nil {
		result.Total += len(skipped)
		result.Skipped += len(skipped)
	}
	return result, err
}

// ImportScraped reads scraped place payloads and imports them.
func (p *placedex) ImportScraped(ctx context.Context, r io.Reader, sourceFile string) (*importer.Result, error) {
	mapped, skipped, err := p.mapper.Decode(r, sourceFile)
	if err != nil {
		return nil, err
	}

	result, err := p.importer.Persist(ctx, mapped)
	if result != nil {
		result.Total += len(skipped)
		result.Skipped += len(skipped)
	}
	return result, err
}

// ImportRecords imports already mapped source records.
func (p *placedex) ImportRecords(ctx context.Context, records []*places.SourceRecord) (*importer.Result, error) {
	return p.importer.ImportRecords(ctx, records)
}

// Count returns the number of persisted places.
func (p *placedex) Count(ctx context.Context) (int, error) {
	return p.store.Count(ctx)
}

// Provenance returns the field-level provenance collected so far.
func (p *placedex) Provenance() provenance.Map {
	return p.tracker.Map()
}

// Close releases the underlying store.
func (p *placedex) Close() error {
	return p.store.Close()
}
