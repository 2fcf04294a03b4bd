// Package facets derives the style, architect, and theme facet tags that
// attach to a place beyond its primary category.
package facets

import (
	"strings"

	"github.com/placedex/placedex/pkg/places"
)

// defaultAggregateFiles are the consolidated top-level architecture files
// whose bulk-assigned style labels are unreliable. Styles from these files
// are suppressed; per-style files are curated and trusted.
var defaultAggregateFiles = []string{
	"architecture1.json",
	"architecture2.json",
}

// celebrityFacets are the specific cemetery facets, in output order.
var celebrityFacets = []string{"artist", "writer", "musician", "scientist"}

// Builder derives facet tags from merged records.
type Builder struct {
	aggregates map[string]struct{} // lowercased file names
}

// Option configures a Builder.
type Option func(*Builder)

// WithAggregateFiles overrides the set of style-suppressed source files.
// Comparison stays case-insensitive.
func WithAggregateFiles(files []string) Option {
	return func(b *Builder) {
		b.aggregates = make(map[string]struct{}, len(files))
		for _, f := range files {
			b.aggregates[strings.ToLower(f)] = struct{}{}
		}
	}
}

// New creates a tag builder.
func New(opts ...Option) *Builder {
	b := &Builder{}
	WithAggregateFiles(defaultAggregateFiles)(b)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ArchitectureTags builds the style and architect tags for an architecture
// record. Architect inclusion is unconditional; style inclusion depends on
// the record's source file not being one of the aggregate files.
func (b *Builder) ArchitectureTags(rec *places.MergedRecord) places.Tags {
	var tags places.Tags

	if len(rec.Architects) > 0 {
		tags.Architect = append([]string(nil), rec.Architects...)
	}

	if len(rec.Styles) > 0 && !b.isAggregate(rec.SourceFile) {
		tags.Style = append([]string(nil), rec.Styles...)
	}

	return tags
}

// CemeteryTags builds the theme tags for a cemetery record from its
// celebrity counts. Each specific facet with a positive count contributes
// its name; the generic "celebrity" tag fires only when no specific facet
// contributed and the aggregate total is positive.
func (b *Builder) CemeteryTags(rec *places.MergedRecord) places.Tags {
	var tags places.Tags
	if len(rec.CelebrityCounts) == 0 {
		return tags
	}

	for _, facet := range celebrityFacets {
		if rec.CelebrityCounts[facet] > 0 {
			tags.Theme = append(tags.Theme, facet)
		}
	}

	if len(tags.Theme) == 0 && rec.CelebrityCounts["total"] > 0 {
		tags.Theme = append(tags.Theme, "celebrity")
	}

	return tags
}

// isAggregate reports whether a source file is style-suppressed.
func (b *Builder) isAggregate(sourceFile string) bool {
	_, ok := b.aggregates[strings.ToLower(sourceFile)]
	return ok
}
