package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepare(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		max      int
		expected string
	}{
		{"collapses whitespace", "ARTÍCULO 79.\n\n  El que matare\ta otro", 0, "ARTÍCULO 79. El que matare a otro"},
		{"joins hyphenated breaks", "homi-\ncidio culposo", 0, "homicidio culposo"},
		{"truncates by rune", "ñandú ñandú", 5, "ñandú"},
		{"trims cut at space", "uno dos tres", 4, "uno"},
		{"short text untouched", "uno", 10, "uno"},
		{"empty", "   ", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Prepare(tt.text, tt.max))
		})
	}
}

func TestFloat32s(t *testing.T) {
	assert.Equal(t, []float32{0.5, -1, 0}, Float32s([]float64{0.5, -1, 0}))
	assert.Empty(t, Float32s(nil))
}
