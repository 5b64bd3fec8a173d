package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	counter, err := NewTokenCounter()
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		min  int
		max  int
	}{
		{"empty", "", 0, 0},
		{"single word", "Hello", 1, 2},
		{"short sentence", "This is a longer sentence with more words.", 8, 12},
		{"repeated words", strings.Repeat("word ", 100), 90, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := counter.CountTokens(tt.text)
			assert.GreaterOrEqual(t, tokens, tt.min)
			assert.LessOrEqual(t, tokens, tt.max)
		})
	}
}

func TestCountTokensNilFallback(t *testing.T) {
	var counter *TokenCounter
	assert.Equal(t, len("some text here")/4, counter.CountTokens("some text here"))
}

func TestCountTokensSimple(t *testing.T) {
	assert.Positive(t, CountTokensSimple("Hello world"))
	assert.Zero(t, CountTokensSimple(""))
}
