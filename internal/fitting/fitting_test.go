package fitting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(n int) []Point {
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, Point{X: float64(i), Y: float64(i)})
	}
	return pts
}

func quadratic(n int) []Point {
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		pts = append(pts, Point{X: x, Y: x*x + 3})
	}
	return pts
}

func TestFitAllEmptySeriesReturnsNil(t *testing.T) {
	assert.Nil(t, FitAll(nil, 10))
}

func TestFitAllProjectsToHorizon(t *testing.T) {
	curves := FitAll(quadratic(6), 10)
	require.NotEmpty(t, curves)
	for _, c := range curves {
		assert.Equal(t, 11, len(c.Points))
		assert.Equal(t, float64(10), c.Points[len(c.Points)-1].X)
	}
}

func TestFitAllIncludesPolynomial(t *testing.T) {
	curves := FitAll(quadratic(6), 6)
	var found bool
	for _, c := range curves {
		if c.Name == "polynomial" {
			found = true
			for _, p := range c.Points {
				want := p.X*p.X + 3
				assert.InDelta(t, want, p.Y, 1e-6)
			}
		}
	}
	assert.True(t, found)
}

func TestFitExponentialRecoversParameters(t *testing.T) {
	series := make([]Point, 0, 8)
	for i := 0; i < 8; i++ {
		x := float64(i)
		series = append(series, Point{X: x, Y: 2 * math.Exp(0.5*x)})
	}
	curves := FitAll(series, 7)
	var found bool
	for _, c := range curves {
		if c.Name != "exponential" {
			continue
		}
		found = true
		for i, p := range c.Points {
			want := 2 * math.Exp(0.5*float64(i))
			assert.InDelta(t, want, p.Y, want*1e-3+1e-6)
		}
	}
	assert.True(t, found)
}

func TestFitLogarithmicSkipsNonPositiveX(t *testing.T) {
	series := []Point{{X: 0, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 3}}
	curves := FitAll(series, 2)
	var found bool
	for _, c := range curves {
		if c.Name == "logarithmic" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFitAllOmitsModelsWithoutEnoughSupportingPoints(t *testing.T) {
	series := []Point{{X: 0, Y: 5}}
	curves := FitAll(series, 3)
	assert.Empty(t, curves)
}

func TestLinearFitExactOnTwoPoints(t *testing.T) {
	fit := fitLinear([]float64{0, 1}, []float64{1, 3})
	assert.InDelta(t, 1.0, fit.a, 1e-9)
	assert.InDelta(t, 2.0, fit.b, 1e-9)
}
