// Package classify assigns a normalized category to place records from
// noisy, multi-signal source labels. Matching is rule-table driven: an
// ordered list of keyword rules scanned in declaration order with first
// match winning, so specificity lives purely in table ordering.
package classify

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/placedex/placedex/pkg/places"
)

// Signals are the classification inputs for the scraped-place import.
// The three sources are tried strictly in priority order: Categories,
// then CategoryName, then SearchString. The first non-empty source is
// used exclusively; lower sources are ignored even when they would match.
type Signals struct {
	Categories   []string
	CategoryName string
	SearchString string
}

// Classifier is a pure, deterministic category classifier over an ordered
// rule table. The same input always yields the same category triple.
type Classifier struct {
	table  *places.RuleTable
	rules  []foldedRule
	themes []foldedTheme
	caser  cases.Caser
}

// foldedRule precomputes case-folded keywords for substring scanning.
type foldedRule struct {
	rule     places.Rule
	keywords []string
}

// foldedTheme precomputes case-folded theme vocabulary.
type foldedTheme struct {
	tag      string
	keywords []string
}

// Option configures a Classifier.
type Option func(*options)

type options struct {
	themes map[string][]string
}

// WithThemeKeywords overrides the theme vocabulary scanned in search
// strings.
func WithThemeKeywords(themes map[string][]string) Option {
	return func(o *options) {
		o.themes = themes
	}
}

// New creates a classifier over the given rule table. A nil table uses the
// built-in default.
func New(table *places.RuleTable, opts ...Option) *Classifier {
	if table == nil {
		table = places.DefaultRuleTable()
	}

	o := &options{themes: places.DefaultThemeKeywords()}
	for _, opt := range opts {
		opt(o)
	}

	caser := cases.Fold()
	c := &Classifier{
		table: table,
		caser: caser,
	}

	c.rules = make([]foldedRule, 0, len(table.Rules))
	for _, rule := range table.Rules {
		folded := foldedRule{rule: rule, keywords: make([]string, 0, len(rule.Keywords))}
		for _, kw := range rule.Keywords {
			folded.keywords = append(folded.keywords, caser.String(kw))
		}
		c.rules = append(c.rules, folded)
	}

	// Theme tags sorted by tag name would lose nothing, but map order is
	// random; keep a deterministic slice ordered by tag.
	tags := make([]string, 0, len(o.themes))
	for tag := range o.themes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		folded := foldedTheme{tag: tag}
		for _, kw := range o.themes[tag] {
			folded.keywords = append(folded.keywords, caser.String(kw))
		}
		c.themes = append(c.themes, folded)
	}

	return c
}

// Table returns the rule table the classifier was built over.
func (c *Classifier) Table() *places.RuleTable {
	return c.table
}

// FromName classifies by scanning a place name against the rule table.
// Matching is case-insensitive and substring-based, so a keyword can match
// inside a larger word. No match yields the table's fallback category.
// This is the keyword-from-name mode used by the architecture import.
func (c *Classifier) FromName(name string) places.Category {
	if cat, ok := c.match(name); ok {
		return cat
	}
	return c.table.Fallback
}

// Cemetery returns the fixed category every cemetery record classifies to,
// regardless of its name.
func (c *Classifier) Cemetery() places.Category {
	return places.CemeteryCategory()
}

// FromSignals classifies scraped-place signals through the priority chain.
// The first non-empty signal source is used exclusively: if the categories
// array is present, only it is consulted, even when it matches nothing.
func (c *Classifier) FromSignals(s Signals) places.Category {
	if categories := nonBlank(s.Categories); len(categories) > 0 {
		for _, category := range categories {
			if cat, ok := c.match(category); ok {
				return cat
			}
		}
		return c.table.Fallback
	}

	if strings.TrimSpace(s.CategoryName) != "" {
		if cat, ok := c.match(s.CategoryName); ok {
			return cat
		}
		return c.table.Fallback
	}

	if strings.TrimSpace(s.SearchString) != "" {
		if cat, ok := c.match(s.SearchString); ok {
			return cat
		}
	}

	return c.table.Fallback
}

// Themes scans a search string for the theme vocabulary and returns the
// matching theme tags. The result is independent of, and never overrides,
// the category decision.
func (c *Classifier) Themes(searchString string) []string {
	if strings.TrimSpace(searchString) == "" {
		return nil
	}

	folded := c.caser.String(searchString)
	var tags []string
	for _, theme := range c.themes {
		for _, kw := range theme.keywords {
			if strings.Contains(folded, kw) {
				tags = append(tags, theme.tag)
				break
			}
		}
	}
	return tags
}

// match scans the rule table in declaration order and returns the first
// rule with any keyword contained in the folded text.
func (c *Classifier) match(text string) (places.Category, bool) {
	if strings.TrimSpace(text) == "" {
		return places.Category{}, false
	}

	folded := c.caser.String(text)
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.rule.Category(), true
			}
		}
	}
	return places.Category{}, false
}

// nonBlank filters blank strings out of a signal list.
func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
