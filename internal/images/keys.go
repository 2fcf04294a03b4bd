// Package images derives object-storage keys for place imagery.
package images

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// DefaultPrefix is the object-store prefix for imported place images.
const DefaultPrefix = "places"

// KeyGenerator produces storage keys for downloaded images. Keys are
// derived from fresh random identifiers, never from the place identity,
// so re-imports of the same place never overwrite earlier objects.
type KeyGenerator struct {
	prefix string
}

// NewKeyGenerator creates a generator under the given prefix. An empty
// prefix uses DefaultPrefix.
func NewKeyGenerator(prefix string) *KeyGenerator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KeyGenerator{prefix: strings.Trim(prefix, "/")}
}

// Key returns a new storage key preserving the source URL's extension.
func (g *KeyGenerator) Key(sourceURL string) string {
	name := uuid.NewString()
	if ext := extension(sourceURL); ext != "" {
		name += ext
	}
	return g.prefix + "/" + name
}

// extension pulls a usable file extension off a source URL, dropping
// any query string.
func extension(sourceURL string) string {
	clean := sourceURL
	if idx := strings.IndexAny(clean, "?#"); idx >= 0 {
		clean = clean[:idx]
	}
	ext := strings.ToLower(path.Ext(clean))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg":
		return ext
	default:
		return ""
	}
}

// CoverKey returns a key under the cover/ subtree.
func (g *KeyGenerator) CoverKey(sourceURL string) string {
	return fmt.Sprintf("%s/cover/%s", g.prefix, path.Base(g.Key(sourceURL)))
}
