package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRoundTrip(t *testing.T) {
	tracker := NewTracker(true)

	tracker.Track("Q42", "name", Provenance{
		SourceFile: "architecture1.json",
		Field:      "name",
		Value:      "Fallingwater",
		Reason:     "first writer",
	})
	tracker.Track("Q42", "styles", Provenance{
		SourceFile: "Brutalism.json",
		Field:      "styles",
		Value:      []string{"Brutalism"},
		Reason:     "set union",
	})

	byField := tracker.FindByField("Q42", "name")
	require.Len(t, byField, 1)
	assert.Equal(t, "Fallingwater", byField[0].Value)
	assert.False(t, byField[0].Timestamp.IsZero(), "timestamp is filled in when absent")

	byRecord := tracker.FindByRecord("Q42")
	assert.Len(t, byRecord, 2)
	assert.Contains(t, byRecord, "name")
	assert.Contains(t, byRecord, "styles")

	assert.Empty(t, tracker.FindByRecord("Q99"))
}

func TestDisabledTrackerRecordsNothing(t *testing.T) {
	tracker := NewTracker(false)

	tracker.Track("Q42", "name", Provenance{Value: "x"})

	assert.Nil(t, tracker.FindByField("Q42", "name"))
	assert.Nil(t, tracker.Map())
}

func TestMapIsACopy(t *testing.T) {
	tracker := NewTracker(true)
	tracker.Track("Q1", "name", Provenance{Value: "a"})

	m := tracker.Map()
	m["Q1:name"] = append(m["Q1:name"], Provenance{Value: "b"})

	assert.Len(t, tracker.FindByField("Q1", "name"), 1)
}

func TestMapString(t *testing.T) {
	tracker := NewTracker(true)
	tracker.Track("Q1", "name", Provenance{SourceFile: "a.json", Value: "x", Reason: "first writer"})

	out := tracker.Map().String()
	assert.Contains(t, out, "Q1:name")
	assert.Contains(t, out, "a.json")
}
