package places

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleTableOrdering(t *testing.T) {
	table := DefaultRuleTable()
	require.NoError(t, table.Validate())

	// Specific rules must precede general ones.
	indexOf := func(slug string) int {
		for i, rule := range table.Rules {
			if rule.Slug == slug {
				return i
			}
		}
		t.Fatalf("slug %s not in table", slug)
		return -1
	}
	assert.Less(t, indexOf("art-gallery"), indexOf("museum"))
	assert.Less(t, indexOf("concert-hall"), indexOf("theater"))
}

func TestRuleTableCategoryLookup(t *testing.T) {
	table := DefaultRuleTable()

	cat, ok := table.Category("museum")
	require.True(t, ok)
	assert.Equal(t, "Museum", cat.En)
	assert.Equal(t, "博物馆", cat.Zh)

	fallback, ok := table.Category("attraction")
	require.True(t, ok)
	assert.Equal(t, table.Fallback, fallback)

	_, ok = table.Category("no-such-slug")
	assert.False(t, ok)
}

func TestDisplayNamesMatchesRules(t *testing.T) {
	table := DefaultRuleTable()
	names := table.DisplayNames()

	for _, rule := range table.Rules {
		assert.Equal(t, rule.En, names[rule.Slug])
	}
	assert.Equal(t, table.Fallback.En, names[table.Fallback.Slug])
}

func TestLoadRuleTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `rules:
  - slug: art-gallery
    en: Art Gallery
    zh: 美术馆
    keywords: [art gallery, gallery]
  - slug: museum
    en: Museum
    zh: 博物馆
    keywords: [museum]
fallback:
  slug: attraction
  en: Attraction
  zh: 景点
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadRuleTable(path)
	require.NoError(t, err)
	require.Len(t, table.Rules, 2)
	assert.Equal(t, "art-gallery", table.Rules[0].Slug)
	assert.Equal(t, "attraction", table.Fallback.Slug)
}

func TestLoadRuleTableRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing fallback",
			content: `rules:
  - slug: museum
    en: Museum
    zh: 博物馆
    keywords: [museum]
`,
		},
		{
			name: "rule without keywords",
			content: `rules:
  - slug: museum
    en: Museum
    zh: 博物馆
fallback: {slug: attraction, en: Attraction, zh: 景点}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := LoadRuleTable(path)
			assert.Error(t, err)
		})
	}
}

func TestMappedPlacePlace(t *testing.T) {
	city := "Rio de Janeiro"
	m := &MappedPlace{
		Source:       SourceWikidata,
		SourceDetail: "Q281521",
		Name:         "Theatro Municipal",
		City:         &city,
		Images:       []string{"https://example.org/a.jpg"},
	}

	p := m.Place("pl_123")

	assert.Equal(t, "pl_123", p.ID)
	assert.Equal(t, SourceWikidata, p.Source)
	assert.Equal(t, "Q281521", p.SourceDetail)
	assert.Equal(t, "Rio de Janeiro", *p.City)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Nil(t, p.SourceDetails) // no scrape metadata on the mapped place
}
