// Package importer runs the import pipeline: it dedups source records
// through an identity registry, derives categories and tags for the
// merged records, reconciles each against the persisted place with the
// same identity, and upserts the outcome in fixed-size chunks.
package importer

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/placedex/placedex/internal/store"
	"github.com/placedex/placedex/pkg/classify"
	"github.com/placedex/placedex/pkg/errors"
	"github.com/placedex/placedex/pkg/facets"
	"github.com/placedex/placedex/pkg/logging"
	"github.com/placedex/placedex/pkg/places"
	"github.com/placedex/placedex/pkg/provenance"
	"github.com/placedex/placedex/pkg/reconcile"
	"github.com/placedex/placedex/pkg/registry"
)

// DefaultChunkSize bounds how many upserts run between progress
// checkpoints. A crash loses at most one chunk of work.
const DefaultChunkSize = 50

// Importer drives import batches against a single store. It is owned
// by one import run at a time and is not safe for concurrent use.
type Importer struct {
	store      store.Store
	chunkSize  int
	classifier *classify.Classifier
	tags       *facets.Builder
	tracker    provenance.Tracker
}

// New creates an importer backed by the given store.
func New(s store.Store, opts ...Option) *Importer {
	imp := &Importer{
		store:      s,
		chunkSize:  DefaultChunkSize,
		classifier: classify.New(places.DefaultRuleTable()),
		tags:       facets.New(),
		tracker:    provenance.NewTracker(false),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// ImportRecords runs the full pipeline for one batch of source records:
// registry dedup, classification, tag building, reconciliation, and
// chunked persistence. Records with no identity key are counted as
// skipped and never enter the registry.
func (i *Importer) ImportRecords(ctx context.Context, records []*places.SourceRecord) (*Result, error) {
	result := &Result{}
	logger := logging.Ctx(ctx)

	reg := registry.New(registry.WithTracker(i.tracker))
	for _, record := range records {
		if record == nil || record.IdentityKey == "" {
			result.recordSkipped()
			continue
		}
		reg.Register(record, record.Provenance.SourceFile)
	}
	result.Stats = reg.Stats()

	merged := reg.All()
	mapped := make([]*places.MappedPlace, 0, len(merged))
	for _, rec := range merged {
		mapped = append(mapped, i.mapRecord(rec))
	}

	logger.Info().
		Int("records", len(records)).
		Int("identities", len(mapped)).
		Int("skipped", result.Skipped).
		Msg("registry pass complete")

	if err := i.persist(ctx, mapped, result); err != nil {
		return result, err
	}
	return result, nil
}

// Persist upserts a batch of already mapped places without a registry
// pass. The scraped-place pipeline uses this directly because its
// mapper classifies and dedups per payload.
func (i *Importer) Persist(ctx context.Context, batch []*places.MappedPlace) (*Result, error) {
	result := &Result{}
	if err := i.persist(ctx, batch, result); err != nil {
		return result, err
	}
	return result, nil
}

// persist walks the batch in chunks. A failing record is recorded and
// the batch continues; only an unavailable store aborts the run.
func (i *Importer) persist(ctx context.Context, batch []*places.MappedPlace, result *Result) error {
	logger := logging.Ctx(ctx)

	for start := 0; start < len(batch); start += i.chunkSize {
		end := start + i.chunkSize
		if end > len(batch) {
			end = len(batch)
		}

		for _, mapped := range batch[start:end] {
			if err := i.persistOne(ctx, mapped, result); err != nil {
				return err
			}
		}

		logger.Debug().
			Int("done", end).
			Int("total", len(batch)).
			Msg("chunk persisted")
	}
	return nil
}

func (i *Importer) persistOne(ctx context.Context, mapped *places.MappedPlace, result *Result) error {
	if mapped == nil || mapped.SourceDetail == "" {
		result.recordSkipped()
		return nil
	}

	existing, err := i.store.FindByIdentity(ctx, mapped.Source, mapped.SourceDetail)
	switch {
	case err == nil:
		merged := reconcile.Merge(existing, mapped)
		if _, err := i.store.Update(ctx, existing.ID, merged); err != nil {
			return i.recordOrAbort(result, mapped.SourceDetail, "update", err)
		}
		result.recordUpdated()

	case errors.IsNotFound(err):
		if _, err := i.store.Create(ctx, mapped.Place("")); err != nil {
			return i.recordOrAbort(result, mapped.SourceDetail, "create", err)
		}
		result.recordInserted()

	default:
		return i.recordOrAbort(result, mapped.SourceDetail, "find", err)
	}
	return nil
}

// recordOrAbort isolates per-record failures but propagates store-level
// outages, which abort the remaining batch.
func (i *Importer) recordOrAbort(result *Result, identityKey, operation string, err error) error {
	if errors.IsStoreUnavailable(err) {
		return errors.NewImportError(identityKey, operation, err)
	}
	result.recordFailed(identityKey, errors.NewImportError(identityKey, operation, err))
	return nil
}

// mapRecord turns a merged registry record into the persistable shape,
// deriving its category and tags on the way.
func (i *Importer) mapRecord(rec *places.MergedRecord) *places.MappedPlace {
	mapped := &places.MappedPlace{
		Source:       places.SourceWikidata,
		SourceDetail: rec.IdentityKey,
		Name:         rec.Name,
		Images:       append([]string(nil), rec.Images...),
		ScrapedAt:    utc.Now(),
	}

	if len(rec.Cities) > 0 {
		city := rec.Cities[0]
		mapped.City = &city
	}
	if rec.Coordinates != nil {
		lat, lng := rec.Coordinates.Lat, rec.Coordinates.Lng
		mapped.Latitude = &lat
		mapped.Longitude = &lng
	}
	if len(rec.Images) > 0 {
		mapped.CoverImage = rec.Images[0]
	}

	var category places.Category
	switch rec.DataType {
	case places.DataTypeCemetery:
		category = i.classifier.Cemetery()
		mapped.Tags = i.tags.CemeteryTags(rec)
	default:
		category = i.classifier.FromName(rec.Name)
		mapped.Tags = i.tags.ArchitectureTags(rec)
	}
	mapped.CategorySlug = category.Slug
	mapped.CategoryEn = category.En
	mapped.CategoryZh = category.Zh

	if len(rec.SourceURLs) > 0 {
		mapped.CustomFields = map[string]any{
			"wikidataUrls": rec.SourceURLs,
		}
	}
	if len(rec.Cities) > 1 {
		if mapped.CustomFields == nil {
			mapped.CustomFields = map[string]any{}
		}
		mapped.CustomFields["cities"] = append([]string(nil), rec.Cities...)
	}
	return mapped
}
