package placedex

import (
	"github.com/placedex/placedex/internal/store"
	"github.com/placedex/placedex/pkg/classify"
	"github.com/placedex/placedex/pkg/errors"
	"github.com/placedex/placedex/pkg/importer"
	"github.com/placedex/placedex/pkg/places"
)

// Option is a function that configures a Placedex client.
type Option func(*placedex) error

type config struct {
	storePath       string
	chunkSize       int
	ruleTable       *places.RuleTable
	classifierOpts  []classify.Option
	trackProvenance bool
}

func newConfig() *config {
	return &config{chunkSize: importer.DefaultChunkSize}
}

// WithStore uses an already constructed store. The client takes
// ownership and closes it on Close.
func WithStore(s store.Store) Option {
	return func(p *placedex) error {
		if s == nil {
			return errors.NewValidationError("store", nil, "store must not be nil")
		}
		p.store = s
		return nil
	}
}

// WithStorePath opens a sqlite store at the given path.
func WithStorePath(path string) Option {
	return func(p *placedex) error {
		if path == "" {
			return errors.NewValidationError("storePath", path, "path must not be empty")
		}
		p.config.storePath = path
		return nil
	}
}

// WithChunkSize overrides the persistence chunk size.
func WithChunkSize(size int) Option {
	return func(p *placedex) error {
		if size <= 0 {
			return errors.NewValidationError("chunkSize", size, "chunk size must be positive")
		}
		p.config.chunkSize = size
		return nil
	}
}

// WithRuleTable replaces the built-in classification rule table.
func WithRuleTable(table *places.RuleTable) Option {
	return func(p *placedex) error {
		if table != nil {
			if err := table.Validate(); err != nil {
				return err
			}
		}
		p.config.ruleTable = table
		return nil
	}
}

// WithRuleTableFile loads the classification rule table from a YAML
// file.
func WithRuleTableFile(path string) Option {
	return func(p *placedex) error {
		table, err := places.LoadRuleTable(path)
		if err != nil {
			return err
		}
		p.config.ruleTable = table
		return nil
	}
}

// WithThemeKeywords overrides the theme vocabulary scanned in search
// strings.
func WithThemeKeywords(themes map[string][]string) Option {
	return func(p *placedex) error {
		p.config.classifierOpts = append(p.config.classifierOpts, classify.WithThemeKeywords(themes))
		return nil
	}
}

// WithProvenance enables field-level provenance tracking for import
// runs.
func WithProvenance(enabled bool) Option {
	return func(p *placedex) error {
		p.config.trackProvenance = enabled
		return nil
	}
}
