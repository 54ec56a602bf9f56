// Package chart lays out a pie chart of contributor shares as SVG geometry.
//
// Slices start at 12 o'clock and run counter-clockwise in report order. The
// disc uses one radius on both axes so it always renders as a circle;
// templates only draw the computed paths and labels.
package chart

import (
	"math"
	"strconv"

	"budgetviz/internal/core"

	"github.com/shopspring/decimal"
)

// Palette is applied to slices in order and wraps around.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

const (
	// Distances are expressed as a fraction of the radius.
	pctDistance   = 0.6
	labelDistance = 1.1
)

// Layout fixes the drawing area.
type Layout struct {
	Width  float64
	Height float64
	Radius float64
}

// DefaultLayout leaves room on both sides of the disc for contributor names.
func DefaultLayout() Layout {
	return Layout{Width: 640, Height: 400, Radius: 150}
}

// Slice is one contributor's wedge.
type Slice struct {
	Name       string
	Percent    string // share annotation, one decimal
	Color      string
	Path       string // SVG path data; empty when Full or zero width
	Full       bool   // single slice covering the whole disc
	StartAngle float64
	EndAngle   float64

	PctX, PctY   string
	NameX, NameY string
	Anchor       string // text-anchor for the name label
}

// Pie is a laid out chart ready for rendering.
type Pie struct {
	Layout
	CX, CY string
	R      string
	Slices []Slice
}

// Empty reports whether there is nothing to draw.
func (p Pie) Empty() bool { return len(p.Slices) == 0 }

// ViewBox returns the SVG viewBox attribute.
func (p Pie) ViewBox() string {
	return "0 0 " + num(p.Width) + " " + num(p.Height)
}

// NewPie lays out one slice per summary. Slice size is the share relative to
// the sum of shares, so rounding never leaves a gap. A zero share keeps its
// labels but has no path; negative shares are not drawn.
func NewPie(summaries []core.ContributorSummary, layout Layout) Pie {
	cx, cy, r := layout.Width/2, layout.Height/2, layout.Radius
	pie := Pie{Layout: layout, CX: num(cx), CY: num(cy), R: num(r)}

	total := decimal.Zero
	for _, s := range summaries {
		if s.Share.IsPositive() {
			total = total.Add(s.Share)
		}
	}
	if !total.IsPositive() {
		return pie
	}

	cum := decimal.Zero
	for _, s := range summaries {
		if s.Share.IsNegative() {
			continue
		}
		start := cum.Div(total).InexactFloat64() * 2 * math.Pi
		cum = cum.Add(s.Share)
		end := cum.Div(total).InexactFloat64() * 2 * math.Pi
		frac := s.Share.Div(total).InexactFloat64()

		slice := Slice{
			Name:       s.Name,
			Percent:    core.FormatSliceLabel(s.Share),
			Color:      Palette[len(pie.Slices)%len(Palette)],
			StartAngle: start,
			EndAngle:   end,
		}
		switch {
		case frac >= 0.9999:
			slice.Full = true
		case frac > 0:
			slice.Path = wedgePath(cx, cy, r, start, end)
		}

		mid := (start + end) / 2
		px, py := polar(cx, cy, r*pctDistance, mid)
		nx, ny := polar(cx, cy, r*labelDistance, mid)
		if slice.Full {
			px, py = cx, cy
		}
		slice.PctX, slice.PctY = num(px), num(py)
		slice.NameX, slice.NameY = num(nx), num(ny)
		slice.Anchor = anchorFor(nx - cx)

		pie.Slices = append(pie.Slices, slice)
	}
	return pie
}

// polar converts an angle measured counter-clockwise from 12 o'clock to SVG
// coordinates, where y grows downwards.
func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx - r*math.Sin(angle), cy - r*math.Cos(angle)
}

func wedgePath(cx, cy, r, start, end float64) string {
	x0, y0 := polar(cx, cy, r, start)
	x1, y1 := polar(cx, cy, r, end)
	large := "0"
	if end-start > math.Pi {
		large = "1"
	}
	return "M" + num(cx) + "," + num(cy) +
		" L" + num(x0) + "," + num(y0) +
		" A" + num(r) + "," + num(r) + " 0 " + large + " 0 " + num(x1) + "," + num(y1) +
		" Z"
}

func anchorFor(dx float64) string {
	switch {
	case dx > 0.5:
		return "start"
	case dx < -0.5:
		return "end"
	default:
		return "middle"
	}
}

func num(v float64) string {
	if math.Abs(v) < 0.005 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
