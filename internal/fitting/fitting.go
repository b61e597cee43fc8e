// Package fitting fits analytic trend models to a (n, WC(n)) series and
// projects them out to a prediction horizon. There is no regression
// library anywhere in the retrieval pack this module was grounded on, so
// every fit here is closed-form least squares over math.Log/math.Exp —
// the same shape of computation the Java original's TrendLine hierarchy
// performs, just without a matrix library backing it.
package fitting

import "math"

// Point is one sample of a series, either observed or predicted.
type Point struct {
	X float64
	Y float64
}

// Curve is a fitted model's projection across [0, horizon], carrying the
// model's own label for the chart legend.
type Curve struct {
	Name   string
	Points []Point
}

// model is the minimal shape every trend line exposes once fit: a name for
// the legend and a predictor. fitters below either produce a model or
// report that the series doesn't support that model (e.g. power/log need
// strictly positive x).
type model interface {
	name() string
	predict(x float64) float64
}

// FitAll fits every supported trend model to series and returns each as a
// Curve sampled at every integer x in [0, horizon]. A model whose
// preconditions the series violates (e.g. a logarithmic fit needs x > 0
// somewhere) is silently omitted rather than fit on too few points — this
// mirrors the original only ever fitting models whose domain the data
// actually covers.
func FitAll(series []Point, horizon int) []Curve {
	if len(series) == 0 {
		return nil
	}

	var curves []Curve
	for _, f := range []func([]Point) (model, bool){
		fitPolynomial2,
		fitLogarithmic,
		fitPower,
		fitExponential,
		fitNLogN,
	} {
		m, ok := f(series)
		if !ok {
			continue
		}
		curves = append(curves, Curve{Name: m.name(), Points: sample(m, horizon)})
	}
	return curves
}

func sample(m model, horizon int) []Point {
	if horizon < 0 {
		horizon = 0
	}
	points := make([]Point, 0, horizon+1)
	for x := 0; x <= horizon; x++ {
		points = append(points, Point{X: float64(x), Y: m.predict(float64(x))})
	}
	return points
}

// linearFit is ordinary least squares for y = a + b*u over the paired
// transformed samples (u, y). It underlies every model below except the
// quadratic polynomial, which needs a 3-variable normal-equation solve
// instead of this 2-variable one.
type linearFit struct {
	a, b float64
}

func fitLinear(u, y []float64) linearFit {
	n := float64(len(u))
	var sumU, sumY, sumUU, sumUY float64
	for i := range u {
		sumU += u[i]
		sumY += y[i]
		sumUU += u[i] * u[i]
		sumUY += u[i] * y[i]
	}
	denom := n*sumUU - sumU*sumU
	if denom == 0 {
		return linearFit{a: sumY / n, b: 0}
	}
	b := (n*sumUY - sumU*sumY) / denom
	a := (sumY - b*sumU) / n
	return linearFit{a: a, b: b}
}

// polyModel is a degree-2 polynomial y = c0 + c1*x + c2*x^2, the original's
// default PolyTrendLine degree.
type polyModel struct{ c0, c1, c2 float64 }

func (p polyModel) name() string { return "polynomial" }
func (p polyModel) predict(x float64) float64 {
	return p.c0 + p.c1*x + p.c2*x*x
}

// fitPolynomial2 solves the normal equations for a quadratic fit directly
// via Cramer's rule over the 3x3 system, rather than pulling in a matrix
// library for a system this small.
func fitPolynomial2(series []Point) (model, bool) {
	if len(series) < 3 {
		return nil, false
	}
	var s0, s1, s2, s3, s4, sy, sxy, sx2y float64
	n := float64(len(series))
	s0 = n
	for _, p := range series {
		x, y := p.X, p.Y
		x2 := x * x
		s1 += x
		s2 += x2
		s3 += x2 * x
		s4 += x2 * x2
		sy += y
		sxy += x * y
		sx2y += x2 * y
	}

	// [s0 s1 s2][c0]   [sy]
	// [s1 s2 s3][c1] = [sxy]
	// [s2 s3 s4][c2]   [sx2y]
	det := det3(s0, s1, s2, s1, s2, s3, s2, s3, s4)
	if det == 0 {
		return nil, false
	}
	c0 := det3(sy, s1, s2, sxy, s2, s3, sx2y, s3, s4) / det
	c1 := det3(s0, sy, s2, s1, sxy, s3, s2, sx2y, s4) / det
	c2 := det3(s0, s1, sy, s1, s2, sxy, s2, s3, sx2y) / det
	return polyModel{c0: c0, c1: c1, c2: c2}, true
}

func det3(a, b, c, d, e, f, g, h, i float64) float64 {
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// transformedModel covers every trend line that linearizes to y' = a + b*u
// for some transform of x and/or y: logarithmic, power, exponential and
// n·log n.
type transformedModel struct {
	kind   string
	fit    linearFit
	invert func(fit linearFit, x float64) float64
}

func (t transformedModel) name() string            { return t.kind }
func (t transformedModel) predict(x float64) float64 { return t.invert(t.fit, x) }

// fitLogarithmic fits y = a + b*ln(x), skipping any x <= 0 sample — the
// model domain is (0, inf) and the series may legitimately start at n=0.
func fitLogarithmic(series []Point) (model, bool) {
	u, y := transformFiltered(series, func(x, _ float64) (float64, bool) {
		if x <= 0 {
			return 0, false
		}
		return math.Log(x), true
	})
	if len(u) < 2 {
		return nil, false
	}
	fit := fitLinear(u, y)
	return transformedModel{
		kind: "logarithmic",
		fit:  fit,
		invert: func(f linearFit, x float64) float64 {
			if x <= 0 {
				return f.a
			}
			return f.a + f.b*math.Log(x)
		},
	}, true
}

// fitPower fits y = a*x^b by linearizing to ln(y) = ln(a) + b*ln(x); both x
// and y must be strictly positive for the transform to be defined.
func fitPower(series []Point) (model, bool) {
	var logX, logY []float64
	for _, p := range series {
		if p.X <= 0 || p.Y <= 0 {
			continue
		}
		logX = append(logX, math.Log(p.X))
		logY = append(logY, math.Log(p.Y))
	}
	if len(logX) < 2 {
		return nil, false
	}
	fit := fitLinear(logX, logY)
	a := math.Exp(fit.a)
	b := fit.b
	return transformedModel{
		kind: "power",
		fit:  linearFit{a: a, b: b},
		invert: func(f linearFit, x float64) float64 {
			if x <= 0 {
				return 0
			}
			return f.a * math.Pow(x, f.b)
		},
	}, true
}

// fitExponential fits y = a*e^(b*x) by linearizing to ln(y) = ln(a) + b*x;
// y must be strictly positive.
func fitExponential(series []Point) (model, bool) {
	var xs, logY []float64
	for _, p := range series {
		if p.Y <= 0 {
			continue
		}
		xs = append(xs, p.X)
		logY = append(logY, math.Log(p.Y))
	}
	if len(xs) < 2 {
		return nil, false
	}
	fit := fitLinear(xs, logY)
	a := math.Exp(fit.a)
	b := fit.b
	return transformedModel{
		kind: "exponential",
		fit:  linearFit{a: a, b: b},
		invert: func(f linearFit, x float64) float64 {
			return f.a * math.Exp(f.b*x)
		},
	}, true
}

// fitNLogN fits y = a + b*(x*ln(x)), the shape a comparison-sort-style cost
// curve takes; x*ln(x) is defined as 0 at x=0 by convention (the limit).
func fitNLogN(series []Point) (model, bool) {
	u, y := transformFiltered(series, func(x, _ float64) (float64, bool) {
		if x < 0 {
			return 0, false
		}
		if x == 0 {
			return 0, true
		}
		return x * math.Log(x), true
	})
	if len(u) < 2 {
		return nil, false
	}
	fit := fitLinear(u, y)
	return transformedModel{
		kind: "nlogn",
		fit:  fit,
		invert: func(f linearFit, x float64) float64 {
			if x <= 0 {
				return f.a
			}
			return f.a + f.b*(x*math.Log(x))
		},
	}, true
}

func transformFiltered(series []Point, transform func(x, y float64) (float64, bool)) ([]float64, []float64) {
	var u, y []float64
	for _, p := range series {
		tu, ok := transform(p.X, p.Y)
		if !ok {
			continue
		}
		u = append(u, tu)
		y = append(y, p.Y)
	}
	return u, y
}
