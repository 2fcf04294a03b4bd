package places

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/placedex/placedex/pkg/errors"
)

// Category is the complete classification triple for a place. En and Zh
// are always table lookups keyed by Slug, never independently computed.
type Category struct {
	Slug string `json:"slug" yaml:"slug"`
	En   string `json:"en" yaml:"en"`
	Zh   string `json:"zh" yaml:"zh"`
}

// Rule maps a keyword list to a category. Rules are matched in declaration
// order with first match winning, so specificity is expressed purely by
// ordering ("art gallery" before "museum"), not by a specificity score.
type Rule struct {
	Slug     string   `json:"slug" yaml:"slug"`
	En       string   `json:"en" yaml:"en"`
	Zh       string   `json:"zh" yaml:"zh"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Category returns the rule's category triple.
func (r Rule) Category() Category {
	return Category{Slug: r.Slug, En: r.En, Zh: r.Zh}
}

// RuleTable is an ordered category rule list plus the fallback category
// used when nothing matches. It is external configuration: deployments can
// load an override from YAML, and the classifier never reorders it.
type RuleTable struct {
	Rules    []Rule   `json:"rules" yaml:"rules"`
	Fallback Category `json:"fallback" yaml:"fallback"`
}

// Category resolves a category triple by slug, scanning rules in order and
// falling back to the table's fallback category.
func (t *RuleTable) Category(slug string) (Category, bool) {
	for _, rule := range t.Rules {
		if rule.Slug == slug {
			return rule.Category(), true
		}
	}
	if t.Fallback.Slug == slug {
		return t.Fallback, true
	}
	return Category{}, false
}

// DisplayNames returns the slug -> English display name mapping derived
// from the table.
func (t *RuleTable) DisplayNames() map[string]string {
	names := make(map[string]string, len(t.Rules)+1)
	for _, rule := range t.Rules {
		if _, ok := names[rule.Slug]; !ok {
			names[rule.Slug] = rule.En
		}
	}
	if t.Fallback.Slug != "" {
		if _, ok := names[t.Fallback.Slug]; !ok {
			names[t.Fallback.Slug] = t.Fallback.En
		}
	}
	return names
}

// Validate checks the table for structural problems: empty slugs, rules
// without keywords, or a missing fallback.
func (t *RuleTable) Validate() error {
	if t.Fallback.Slug == "" {
		return errors.NewValidationError("fallback", t.Fallback, "rule table needs a fallback category")
	}
	for i, rule := range t.Rules {
		if rule.Slug == "" {
			return errors.NewValidationError("rules", i, "rule has an empty slug")
		}
		if len(rule.Keywords) == 0 {
			return errors.NewValidationError("rules", rule.Slug, "rule has no keywords")
		}
	}
	return nil
}

// LoadRuleTable reads a rule table from a YAML file.
func LoadRuleTable(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is deployment configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var table RuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// CemeteryCategory is the fixed category every cemetery record classifies
// to regardless of name.
func CemeteryCategory() Category {
	return Category{Slug: "cemetery", En: "Cemetery", Zh: "墓园"}
}

// DefaultRuleTable returns the built-in ordered rule table. More specific
// rules must stay ahead of more general ones: "art gallery" matches before
// "museum", "concert hall" before "theater".
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Rules: []Rule{
			{Slug: "art-gallery", En: "Art Gallery", Zh: "美术馆", Keywords: []string{"art gallery", "art museum", "gallery", "kunsthalle"}},
			{Slug: "museum", En: "Museum", Zh: "博物馆", Keywords: []string{"museum", "museo", "musee"}},
			{Slug: "concert-hall", En: "Concert Hall", Zh: "音乐厅", Keywords: []string{"concert hall", "philharmonie", "opera house", "opera"}},
			{Slug: "theater", En: "Theater", Zh: "剧院", Keywords: []string{"theater", "theatre", "playhouse"}},
			{Slug: "library", En: "Library", Zh: "图书馆", Keywords: []string{"library", "bibliotheque", "bibliothek"}},
			{Slug: "church", En: "Church", Zh: "教堂", Keywords: []string{"church", "cathedral", "basilica", "chapel", "abbey"}},
			{Slug: "temple", En: "Temple", Zh: "寺庙", Keywords: []string{"temple", "shrine", "pagoda", "monastery"}},
			{Slug: "mosque", En: "Mosque", Zh: "清真寺", Keywords: []string{"mosque", "masjid"}},
			{Slug: "castle", En: "Castle", Zh: "城堡", Keywords: []string{"castle", "palace", "chateau", "fortress", "citadel"}},
			{Slug: "bridge", En: "Bridge", Zh: "桥梁", Keywords: []string{"bridge", "viaduct"}},
			{Slug: "tower", En: "Tower", Zh: "塔楼", Keywords: []string{"tower", "skyscraper"}},
			{Slug: "monument", En: "Monument", Zh: "纪念碑", Keywords: []string{"monument", "memorial", "mausoleum", "obelisk"}},
			{Slug: "park", En: "Park", Zh: "公园", Keywords: []string{"park", "garden", "botanical"}},
			{Slug: "cemetery", En: "Cemetery", Zh: "墓园", Keywords: []string{"cemetery", "graveyard", "necropolis"}},
			{Slug: "stadium", En: "Stadium", Zh: "体育场", Keywords: []string{"stadium", "arena", "velodrome"}},
			{Slug: "station", En: "Station", Zh: "车站", Keywords: []string{"station", "terminal", "airport"}},
			{Slug: "university", En: "University", Zh: "大学", Keywords: []string{"university", "college", "academy", "school"}},
			{Slug: "hotel", En: "Hotel", Zh: "酒店", Keywords: []string{"hotel", "hostel", "ryokan"}},
			{Slug: "restaurant", En: "Restaurant", Zh: "餐厅", Keywords: []string{"restaurant", "cafe", "bistro", "brasserie"}},
		},
		Fallback: Category{Slug: "attraction", En: "Attraction", Zh: "景点"},
	}
}

// DefaultThemeKeywords is the fixed vocabulary scanned in search strings to
// derive an additional theme tag. The match never overrides the category
// decision.
func DefaultThemeKeywords() map[string][]string {
	return map[string][]string{
		"feminist": {"feminist", "feminism", "women's history", "suffrage"},
		"lgbtq":    {"lgbtq", "queer history", "pride"},
	}
}
