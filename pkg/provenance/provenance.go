// Package provenance provides field-level tracking of which source file
// supplied each value of a merged place record.
package provenance

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Provenance tracks the origin of a field value.
type Provenance struct {
	SourceFile string    // File the value came from (e.g. "Brutalism.json")
	Field      string    // Field path (e.g. "name", "styles")
	Value      any       // The actual value
	Timestamp  time.Time // When the value was recorded
	Reason     string    // Why this value was kept (e.g. "first writer", "set union")
}

// Map tracks provenance for multiple records, keyed "identityKey:field".
type Map map[string][]Provenance

// Tracker manages provenance tracking during an import run.
type Tracker interface {
	// Track records provenance for a field
	Track(identityKey, field string, entry Provenance)

	// FindByField retrieves provenance for a specific field
	FindByField(identityKey, field string) []Provenance

	// FindByRecord retrieves all provenance for a record
	FindByRecord(identityKey string) map[string][]Provenance

	// Map returns the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker accepts
// calls and records nothing, so callers never need nil checks.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records provenance for a field.
func (t *tracker) Track(identityKey, field string, entry Provenance) {
	if !t.enabled {
		return
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	key := makeKey(identityKey, field)
	t.provenance[key] = append(t.provenance[key], entry)
}

// FindByField retrieves provenance for a specific field.
func (t *tracker) FindByField(identityKey, field string) []Provenance {
	if !t.enabled {
		return nil
	}
	return t.provenance[makeKey(identityKey, field)]
}

// FindByRecord retrieves all provenance for a record.
func (t *tracker) FindByRecord(identityKey string) map[string][]Provenance {
	if !t.enabled {
		return nil
	}

	result := make(map[string][]Provenance)
	prefix := identityKey + ":"
	for key, entries := range t.provenance {
		if field, found := strings.CutPrefix(key, prefix); found {
			result[field] = entries
		}
	}
	return result
}

// Map returns a copy of the complete provenance map.
func (t *tracker) Map() Map {
	if !t.enabled {
		return nil
	}

	result := make(Map, len(t.provenance))
	for k, v := range t.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

// Clear removes all provenance data.
func (t *tracker) Clear() {
	t.provenance = make(Map)
}

func makeKey(identityKey, field string) string {
	return identityKey + ":" + field
}

// String renders a human-readable provenance report, sorted for stable
// output.
func (m Map) String() string {
	var sb strings.Builder

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString(":\n")
		for _, entry := range m[key] {
			sb.WriteString(fmt.Sprintf("  - %v from %s (%s)\n",
				entry.Value, entry.SourceFile, entry.Reason))
		}
	}
	return sb.String()
}
