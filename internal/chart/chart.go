// Package chart renders the projected worst-case growth curve to a
// minimal SVG file. No charting framework is in scope here, and nothing in
// the retrieval pack ships one either, so this is a small, purpose-built
// writer over plain text rather than an external plotting dependency.
package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KnoooW/spf-wca/internal/fitting"
)

const (
	width, height = 800, 500
	marginLeft    = 60
	marginRight   = 30
	marginTop     = 30
	marginBottom  = 50
)

var palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

// Budget carries optional resource budget annotations, drawn as reference
// lines the way WorstCaseChart's constructor overload does when a
// max-resource requirement is configured.
type Budget struct {
	MaxInputSize *int
	MaxRes       *float64
}

// Render writes an SVG chart of series (the observed WC(n) points) and
// curves (the fitted projections) to path, creating parent directories as
// needed.
func Render(path string, series []fitting.Point, curves []fitting.Curve, budget Budget) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("chart: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart: create %s: %w", path, err)
	}
	defer f.Close()
	return write(f, series, curves, budget)
}

func write(w io.Writer, series []fitting.Point, curves []fitting.Curve, budget Budget) error {
	minX, maxX, minY, maxY := bounds(series, curves, budget)

	plotX := func(x float64) float64 {
		if maxX == minX {
			return marginLeft
		}
		return marginLeft + (x-minX)/(maxX-minX)*(width-marginLeft-marginRight)
	}
	plotY := func(y float64) float64 {
		if maxY == minY {
			return height - marginBottom
		}
		return height - marginBottom - (y-minY)/(maxY-minY)*(height-marginTop-marginBottom)
	}

	bw := newBufWriter(w)
	bw.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	bw.printf(`<rect width="%d" height="%d" fill="white"/>`, width, height)

	bw.printf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black"/>`,
		float64(marginLeft), float64(height-marginBottom), float64(width-marginRight), float64(height-marginBottom))
	bw.printf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black"/>`,
		float64(marginLeft), float64(marginTop), float64(marginLeft), float64(height-marginBottom))

	if budget.MaxInputSize != nil {
		x := plotX(float64(*budget.MaxInputSize))
		bw.printf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="gray" stroke-dasharray="4,3"/>`,
			x, float64(marginTop), x, float64(height-marginBottom))
	}
	if budget.MaxRes != nil {
		y := plotY(*budget.MaxRes)
		bw.printf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="gray" stroke-dasharray="4,3"/>`,
			float64(marginLeft), y, float64(width-marginRight), y)
	}

	for i, c := range curves {
		color := palette[i%len(palette)]
		bw.printf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, color)
		for _, p := range c.Points {
			bw.printf("%.1f,%.1f ", plotX(p.X), plotY(p.Y))
		}
		bw.printf(`"/>`)
		bw.printf(`<text x="%.1f" y="%.1f" font-size="12" fill="%s">%s</text>`,
			float64(width-marginRight-90), float64(marginTop+14*i), color, c.Name)
	}

	for _, p := range series {
		bw.printf(`<circle cx="%.1f" cy="%.1f" r="2.5" fill="black"/>`, plotX(p.X), plotY(p.Y))
	}

	bw.printf(`</svg>`)
	return bw.err
}

func bounds(series []fitting.Point, curves []fitting.Curve, budget Budget) (minX, maxX, minY, maxY float64) {
	first := true
	consider := func(x, y float64) {
		if first {
			minX, maxX, minY, maxY = x, x, y, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	for _, p := range series {
		consider(p.X, p.Y)
	}
	for _, c := range curves {
		for _, p := range c.Points {
			consider(p.X, p.Y)
		}
	}
	if budget.MaxInputSize != nil {
		consider(float64(*budget.MaxInputSize), minY)
	}
	if budget.MaxRes != nil {
		consider(minX, *budget.MaxRes)
	}
	if first {
		return 0, 1, 0, 1
	}
	return
}

// bufWriter collects the first write error so callers don't have to check
// one after every printf.
type bufWriter struct {
	w   io.Writer
	err error
}

func newBufWriter(w io.Writer) *bufWriter { return &bufWriter{w: w} }

func (b *bufWriter) printf(format string, args ...interface{}) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.w, format, args...)
}
