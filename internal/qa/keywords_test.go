package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordSet_FoundIn(t *testing.T) {
	assert.True(t, tripKeywords.foundIn("Booked my FLIGHT to Lisbon"))
	assert.True(t, tripKeywords.foundIn("travelling next week"))
	assert.True(t, tripKeywords.foundIn("road trip!"))
	assert.False(t, tripKeywords.foundIn("staying home"))
	assert.False(t, tripKeywords.foundIn(""))

	// Substring semantics: "Carla" contains "car".
	assert.True(t, carKeywords.foundIn("Carla says hi"))
	assert.False(t, carKeywords.foundIn("bike only"))
}

func TestNewKeywordSet(t *testing.T) {
	k, err := newKeywordSet("Trip", "trip", " travel ")
	require.NoError(t, err)
	assert.True(t, k.foundIn("TRAVEL plans"))
	assert.True(t, k.foundIn("a short trip"))
	assert.False(t, k.foundIn("  "))

	_, err = newKeywordSet("", "  ")
	assert.Error(t, err)
}
