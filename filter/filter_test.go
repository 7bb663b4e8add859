package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/rustmaps/rustmaps"
)

func testMap() map[string]any {
	return map[string]any{
		"id":             "ABC123",
		"seed":           float64(1337),
		"size":           float64(4500),
		"url":            "https://rustmaps.com/map/4500_1337",
		"isStaging":      false,
		"totalMonuments": float64(21),
		"monuments": []any{
			map[string]any{"type": "Launch Site"},
			map[string]any{"type": "Oil Rig"},
		},
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `size >= 4000`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `contains(url, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "non boolean result",
			expression: `1 + 2`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `size >= 4000 and contains(Map.url, "rustmaps") and not isStaging`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewCompiler().Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.expression), f.Expression())
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{"top level key", `size == 4500`, true},
		{"Map member", `Map.seed == 1337`, true},
		{"case-insensitive contains", `contains(id, "abc")`, true},
		{"startsWith", `startsWith(url, "https://")`, true},
		{"endsWith", `endsWith(url, "_9999")`, false},
		{"lower", `lower(id) == "abc123"`, true},
		{"upper", `upper("abc") == "ABC"`, true},
		{"collection", `len(monuments) == 2`, true},
		{"boolean key", `not isStaging`, true},
		{"logical and", `size > 4000 and totalMonuments < 10`, false},
		{"missing key errors to no match", `missing > 3`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.Evaluate(testMap()))
		})
	}
}

func TestFilterMatchReportsEvaluationErrors(t *testing.T) {
	f, err := Compile(`missing > 3`)
	require.NoError(t, err)

	ok, err := f.Match(testMap())
	require.Error(t, err)
	assert.False(t, ok)

	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, `missing > 3`, evalErr.Expression)
}

func TestFilterSelect(t *testing.T) {
	f, err := Compile(`size >= 4000`)
	require.NoError(t, err)

	results := []rustmaps.MapResult{
		{SeedSize: rustmaps.SeedSize{Seed: 1, Size: 3000}, Data: map[string]any{"size": float64(3000)}},
		{SeedSize: rustmaps.SeedSize{Seed: 2, Size: 4500}, Data: nil},
		{SeedSize: rustmaps.SeedSize{Seed: 3, Size: 4500}, Data: map[string]any{"size": float64(4500)}},
	}

	selected := f.Select(results)
	require.Len(t, selected, 1)
	assert.Equal(t, 3, selected[0].SeedSize.Seed)
}

func TestCompilerCache(t *testing.T) {
	c := NewCompiler(WithCache(2))

	f1, err := c.Compile(`size > 1`)
	require.NoError(t, err)
	f2, err := c.Compile(`  size > 1  `)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
	assert.Equal(t, 1, c.Size())

	_, err = c.Compile(`size > 2`)
	require.NoError(t, err)
	_, err = c.Compile(`size > 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	// The oldest entry was evicted.
	f3, err := c.Compile(`size > 1`)
	require.NoError(t, err)
	assert.NotSame(t, f1, f3)

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCompilerWithoutCache(t *testing.T) {
	c := NewCompiler(WithCache(0))

	f1, err := c.Compile(`size > 1`)
	require.NoError(t, err)
	f2, err := c.Compile(`size > 1`)
	require.NoError(t, err)
	assert.NotSame(t, f1, f2)
	assert.Equal(t, 0, c.Size())
}

func TestWithCustomFunctions(t *testing.T) {
	c := NewCompiler(WithCustomFunctions(map[string]any{
		"isHuge": func(size float64) bool { return size >= 6000 },
	}))

	f, err := c.Compile(`isHuge(size)`)
	require.NoError(t, err)
	assert.False(t, f.Evaluate(testMap()))
	assert.True(t, f.Evaluate(map[string]any{"size": float64(6000)}))
}
