package importer

import (
	"github.com/placedex/placedex/pkg/classify"
	"github.com/placedex/placedex/pkg/facets"
	"github.com/placedex/placedex/pkg/provenance"
)

// Option configures an importer.
type Option func(*Importer)

// WithChunkSize overrides the persistence chunk size. Values below one
// are ignored.
func WithChunkSize(size int) Option {
	return func(i *Importer) {
		if size > 0 {
			i.chunkSize = size
		}
	}
}

// WithClassifier replaces the default classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(i *Importer) {
		if c != nil {
			i.classifier = c
		}
	}
}

// WithTagBuilder replaces the default tag builder.
func WithTagBuilder(b *facets.Builder) Option {
	return func(i *Importer) {
		if b != nil {
			i.tags = b
		}
	}
}

// WithTracker enables field-level provenance tracking during registry
// merges.
func WithTracker(tracker provenance.Tracker) Option {
	return func(i *Importer) {
		if tracker != nil {
			i.tracker = tracker
		}
	}
}
