package exec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyledLabel(t *testing.T) {
	t.Run("plain when colors are off", func(t *testing.T) {
		o := Options{Prefix: "web", PrefixSuffix: " | ", Colors: ColorsOff}
		assert.Equal(t, "web | ", styledLabel(o))
	})

	t.Run("palette index stays in range for any prefix", func(t *testing.T) {
		// Long prefixes overflow the 32-bit hash; the index must not go
		// negative on any platform.
		for _, prefix := range []string{"web", strings.Repeat("zA9", 64), "ünïcode"} {
			o := Options{Prefix: prefix, PrefixSuffix: " | "}
			assert.Contains(t, styledLabel(o), prefix)
		}
	})
}
