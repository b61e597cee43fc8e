package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KnoooW/spf-wca/internal/fitting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProducesValidSVGShape(t *testing.T) {
	series := []fitting.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 4}}
	curves := fitting.FitAll(series, 4)

	var buf bytes.Buffer
	require.NoError(t, write(&buf, series, curves, Budget{}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Contains(t, out, "<polyline")
	assert.Contains(t, out, "<circle")
}

func TestWriteDrawsBudgetAnnotations(t *testing.T) {
	series := []fitting.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	maxInput := 10
	maxRes := 50.0

	var buf bytes.Buffer
	require.NoError(t, write(&buf, series, nil, Budget{MaxInputSize: &maxInput, MaxRes: &maxRes}))

	out := buf.String()
	assert.Contains(t, out, "stroke-dasharray")
}

func TestRenderCreatesFileAndParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "chart.svg")

	series := []fitting.Point{{X: 0, Y: 1}, {X: 1, Y: 2}}
	require.NoError(t, Render(path, series, nil, Budget{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<svg"))
}

func TestBoundsHandlesEmptyInput(t *testing.T) {
	minX, maxX, minY, maxY := bounds(nil, nil, Budget{})
	assert.Equal(t, 0.0, minX)
	assert.Equal(t, 1.0, maxX)
	assert.Equal(t, 0.0, minY)
	assert.Equal(t, 1.0, maxY)
}
