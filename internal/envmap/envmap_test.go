package envmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("parses key value pairs", func(t *testing.T) {
		m, err := Parse([]string{"A=1", "B=two=parts"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"A": "1", "B": "two=parts"}, m)
	})

	t.Run("allows empty values", func(t *testing.T) {
		m, err := Parse([]string{"A="})
		require.NoError(t, err)
		assert.Equal(t, "", m["A"])
	})

	t.Run("rejects entries without equals", func(t *testing.T) {
		_, err := Parse([]string{"BARE"})
		require.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("rejects empty keys", func(t *testing.T) {
		_, err := Parse([]string{"=v"})
		require.ErrorIs(t, err, ErrInvalidEntry)
	})
}

func TestFromList(t *testing.T) {
	m := FromList([]string{"A=1", "garbage", "B=2"})
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, m)
}

func TestOverlay(t *testing.T) {
	t.Run("later maps win", func(t *testing.T) {
		out := Overlay(
			map[string]string{"A": "1", "B": "1"},
			map[string]string{"B": "2", "C": "2"},
		)
		assert.Equal(t, map[string]string{"A": "1", "B": "2", "C": "2"}, out)
	})

	t.Run("inputs are not modified", func(t *testing.T) {
		base := map[string]string{"A": "1"}
		_ = Overlay(base, map[string]string{"A": "2"})
		assert.Equal(t, "1", base["A"])
	})

	t.Run("nil maps are fine", func(t *testing.T) {
		out := Overlay(nil, map[string]string{"A": "1"}, nil)
		assert.Equal(t, map[string]string{"A": "1"}, out)
	})
}

func TestToList(t *testing.T) {
	t.Run("sorted for determinism", func(t *testing.T) {
		out := ToList(map[string]string{"B": "2", "A": "1", "C": "3"})
		assert.Equal(t, []string{"A=1", "B=2", "C=3"}, out)
	})

	t.Run("empty map yields nil", func(t *testing.T) {
		assert.Nil(t, ToList(nil))
	})
}
