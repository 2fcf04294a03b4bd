package images

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyNeverRepeats(t *testing.T) {
	gen := NewKeyGenerator("places")

	a := gen.Key("https://img.example/photo.jpg")
	b := gen.Key("https://img.example/photo.jpg")

	assert.NotEqual(t, a, b, "keys must not derive from the source URL")
	assert.True(t, strings.HasPrefix(a, "places/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
}

func TestKeyDropsQueryString(t *testing.T) {
	gen := NewKeyGenerator("")

	key := gen.Key("https://images.unsplash.com/photo-1502602898657?w=800&fm=png")
	assert.True(t, strings.HasPrefix(key, DefaultPrefix+"/"))
	assert.False(t, strings.Contains(key, "?"))
}

func TestKeyUnknownExtensionOmitted(t *testing.T) {
	gen := NewKeyGenerator("places")

	key := gen.Key("https://img.example/photo.exe")
	assert.False(t, strings.Contains(key, "."), "unsafe extensions are dropped: %s", key)
}

func TestCoverKeyUnderCoverSubtree(t *testing.T) {
	gen := NewKeyGenerator("places")
	assert.True(t, strings.HasPrefix(gen.CoverKey("https://img.example/a.png"), "places/cover/"))
}
