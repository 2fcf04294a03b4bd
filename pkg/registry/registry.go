// Package registry provides first-pass deduplication of place records
// within one import run. Records sharing an identity key are merged
// incrementally as they register: collections union, scalars keep the
// first-registered value, celebrity counts keep the per-facet maximum.
//
// A Registry is an explicit object owned by a single import run. It is not
// safe for concurrent use and is never shared between runs.
package registry

import (
	"fmt"

	"github.com/placedex/placedex/pkg/places"
	"github.com/placedex/placedex/pkg/provenance"
)

// Stats summarizes registration accounting for one import run.
type Stats struct {
	Total      int // Number of Register calls
	Unique     int // Number of distinct identity keys
	Duplicates int // Total - Unique
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("%d records, %d unique, %d duplicates", s.Total, s.Unique, s.Duplicates)
}

// Registry deduplicates source records by identity key and merges
// duplicate observations field by field.
type Registry struct {
	entries map[string]*entry
	order   []string // first-seen key order, keeps All() deterministic
	total   int
	tracker provenance.Tracker
}

// entry pairs a merged record with the membership sets that make
// collection unions O(1) per element.
type entry struct {
	record *places.MergedRecord

	cities     map[string]struct{}
	architects map[string]struct{}
	styles     map[string]struct{}
	images     map[string]struct{}
}

// Option configures a Registry.
type Option func(*Registry)

// WithTracker enables provenance tracking of merge decisions.
func WithTracker(tracker provenance.Tracker) Option {
	return func(r *Registry) {
		r.tracker = tracker
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		tracker: provenance.NewTracker(false),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds one source record under its identity key. It returns true
// exactly the first time a key is seen and false on every subsequent call
// for the same key. Records with an empty identity key are rejected and
// never counted.
func (r *Registry) Register(record *places.SourceRecord, sourceFile string) bool {
	if record == nil || record.IdentityKey == "" {
		return false
	}
	r.total++

	e, exists := r.entries[record.IdentityKey]
	if !exists {
		e = newEntry(record, sourceFile)
		r.entries[record.IdentityKey] = e
		r.order = append(r.order, record.IdentityKey)

		r.tracker.Track(record.IdentityKey, "name", provenance.Provenance{
			SourceFile: sourceFile,
			Field:      "name",
			Value:      record.Name,
			Reason:     "first writer",
		})
		return true
	}

	r.merge(e, record, sourceFile)
	return false
}

// Get returns the merged record for a key, or nil if the key was never
// registered.
func (r *Registry) Get(key string) *places.MergedRecord {
	if e, ok := r.entries[key]; ok {
		return e.record
	}
	return nil
}

// All returns every merged record in first-registration order. No key
// appears twice.
func (r *Registry) All() []*places.MergedRecord {
	records := make([]*places.MergedRecord, 0, len(r.order))
	for _, key := range r.order {
		records = append(records, r.entries[key].record)
	}
	return records
}

// Len returns the number of distinct identity keys registered.
func (r *Registry) Len() int {
	return len(r.order)
}

// Stats returns registration accounting. Total counts Register calls for
// records that carried a key; Duplicates is always Total - Unique.
func (r *Registry) Stats() Stats {
	return Stats{
		Total:      r.total,
		Unique:     len(r.order),
		Duplicates: r.total - len(r.order),
	}
}

// newEntry starts a merged record from the first observation of a key.
// Collections are copied, never aliased, so the source record stays
// immutable.
func newEntry(record *places.SourceRecord, sourceFile string) *entry {
	e := &entry{
		record: &places.MergedRecord{
			IdentityKey:  record.IdentityKey,
			Name:         record.Name,
			Coordinates:  record.Coordinates,
			SourceFile:   sourceFile,
			DataType:     record.Provenance.DataType,
			Observations: 1,
		},
		cities:     make(map[string]struct{}),
		architects: make(map[string]struct{}),
		styles:     make(map[string]struct{}),
		images:     make(map[string]struct{}),
	}

	e.record.Cities = appendMissing(nil, e.cities, record.Cities)
	e.record.Architects = appendMissing(nil, e.architects, record.Architects)
	e.record.Styles = appendMissing(nil, e.styles, record.Styles)
	e.record.Images = appendMissing(nil, e.images, record.Images)

	if len(record.CelebrityCounts) > 0 {
		e.record.CelebrityCounts = make(map[string]int, len(record.CelebrityCounts))
		for facet, count := range record.CelebrityCounts {
			e.record.CelebrityCounts[facet] = count
		}
	}
	if len(record.SourceURLs) > 0 {
		e.record.SourceURLs = make(map[string][]string, len(record.SourceURLs))
		for kind, urls := range record.SourceURLs {
			e.record.SourceURLs[kind] = append([]string(nil), urls...)
		}
	}
	return e
}

// merge folds a duplicate observation into an existing entry. Every field
// policy here is associative and commutative, so registration order only
// affects the first-writer scalars and the order collections accumulate in.
func (r *Registry) merge(e *entry, record *places.SourceRecord, sourceFile string) {
	rec := e.record
	rec.Observations++

	// Collections: set union, first-seen order preserved.
	rec.Cities = appendMissing(rec.Cities, e.cities, record.Cities)
	rec.Architects = appendMissing(rec.Architects, e.architects, record.Architects)
	rec.Styles = appendMissing(rec.Styles, e.styles, record.Styles)
	rec.Images = appendMissing(rec.Images, e.images, record.Images)

	// Celebrity counts: per-facet maximum.
	for facet, count := range record.CelebrityCounts {
		if rec.CelebrityCounts == nil {
			rec.CelebrityCounts = make(map[string]int)
		}
		if count > rec.CelebrityCounts[facet] {
			rec.CelebrityCounts[facet] = count
		}
	}

	// Source URLs: union per kind.
	for kind, urls := range record.SourceURLs {
		if rec.SourceURLs == nil {
			rec.SourceURLs = make(map[string][]string)
		}
		rec.SourceURLs[kind] = appendMissingSlice(rec.SourceURLs[kind], urls)
	}

	// Name and coordinates stay first-writer-wins; nothing to do.

	for _, style := range record.Styles {
		r.tracker.Track(record.IdentityKey, "styles", provenance.Provenance{
			SourceFile: sourceFile,
			Field:      "styles",
			Value:      style,
			Reason:     "set union",
		})
	}
}

// appendMissing appends values not yet in seen, updating seen.
func appendMissing(dst []string, seen map[string]struct{}, values []string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

// appendMissingSlice appends values not already present, without a
// membership set. Used for the small per-kind URL lists.
func appendMissingSlice(dst []string, values []string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
