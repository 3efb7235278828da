package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOllamaProviderDefaultsAndClientTimeout(t *testing.T) {
	provider := NewOllamaProvider("", "")

	ollama, ok := provider.(*OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", ollama.BaseURL)
	assert.Equal(t, "nomic-embed-text", ollama.Model)

	// A hung backend must not stall callers forever
	require.NotNil(t, ollama.Client)
	assert.Greater(t, ollama.Client.Timeout.Seconds(), 0.0)
}

func TestNormalizeVector(t *testing.T) {
	normalized := normalizeVector([]float32{3, 4})

	var magnitude float64
	for _, v := range normalized {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
}

func TestNormalizeVectorZeroVector(t *testing.T) {
	assert.Equal(t, []float32{0, 0}, normalizeVector([]float32{0, 0}))
}
