package cities

import (
	"testing"

	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(DefaultRegistry())
}

func TestNormalize_Exact(t *testing.T) {
	n := newTestNormalizer()

	got, err := n.Normalize("Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", got)

	got, err = n.Normalize("São Paulo")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", got)
}

func TestNormalize_Alias(t *testing.T) {
	n := newTestNormalizer()

	got, err := n.Normalize("Sao Paulo")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", got)
}

func TestNormalize_CaseInsensitive(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"tokyo", "Tokyo"},
		{"LONDON", "London"},
		{"new york", "New York"},
		{"sao paulo", "São Paulo"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := n.Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_RepairsDoubleEncoding(t *testing.T) {
	n := newTestNormalizer()

	// "São Paulo" after one bad latin-1 round trip.
	got, err := n.Normalize("SÃ£o Paulo")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", got)

	// And after two.
	got, err = n.Normalize("SÃƒÂ£o Paulo")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", got)
}

func TestNormalize_FirstTokenMatch(t *testing.T) {
	n := newTestNormalizer()

	got, err := n.Normalize("New York City")
	require.NoError(t, err)
	assert.Equal(t, "New York", got)
}

func TestNormalize_UnknownIsRejected(t *testing.T) {
	n := newTestNormalizer()

	for _, raw := range []string{"Berlin", "Osaka Prefecture", "", "   "} {
		_, err := n.Normalize(raw)
		require.Error(t, err, "raw %q", raw)
		kind, ok := model.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, model.KindNotFound, kind)
	}
}

func TestNormalize_SingleTokenNeverGuesses(t *testing.T) {
	n := newTestNormalizer()

	// "To" could be Tokyo or Toronto; an ambiguous fragment must not
	// silently resolve to either.
	_, err := n.Normalize("To")
	require.Error(t, err)
}

func TestMatchPattern(t *testing.T) {
	assert.Equal(t, "%paulo%", MatchPattern("São Paulo"))
	assert.Equal(t, "%york%", MatchPattern("New York"))
	assert.Equal(t, "%tokyo%", MatchPattern("Tokyo"))
}
