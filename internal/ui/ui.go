// Package ui is a small immediate-mode toolkit for a single-row bar. Each
// frame the content callback describes the row again; the toolkit measures
// it, reports the size the content needs and the next repaint time, and
// later paints it onto a Canvas.
package ui

import (
	"math"
	"time"

	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/sizing"
)

// NoRepaint is the delay reported when no content asked for a repaint
const NoRepaint = time.Duration(math.MaxInt64)

// Canvas is a drawable the toolkit paints onto
type Canvas interface {
	CurrentSize() geometry.Size
	FillRect(x, y, w, h float64, c Color)
	DrawText(x, y float64, font, text string, c Color)
}

// Style controls fonts, colours and spacing
type Style struct {
	Font        string
	Foreground  Color
	Background  Color
	HighlightFg Color
	HighlightBg Color
	// Margin surrounds the whole panel
	Margin float64
	// Spacing separates items within a section and sections from each other
	Spacing float64
	// Padding surrounds the text of every item
	Padding float64
}

// DefaultStyle is used when no configuration overrides it
func DefaultStyle() Style {
	return Style{
		Font:        "monospace 10",
		Foreground:  MustParseColor("#ffffff"),
		Background:  MustParseColor("#000000"),
		HighlightFg: MustParseColor("#000000"),
		HighlightBg: MustParseColor("#ffffff"),
		Margin:      2,
		Spacing:     8,
		Padding:     4,
	}
}

type item struct {
	text      string
	highlight bool
	space     float64
	extent    Extent
}

func (it item) width() float64 {
	if it.text == "" {
		return it.space
	}
	return it.extent.Width
}

// Row collects the items of one section in left to right order
type Row struct {
	ui    *UI
	items []item
}

// Label adds plain text
func (r *Row) Label(text string) {
	r.add(text, false)
}

// Highlight adds text drawn in the highlight colours
func (r *Row) Highlight(text string) {
	r.add(text, true)
}

// Space adds empty horizontal space
func (r *Row) Space(px float64) {
	if px > 0 {
		r.items = append(r.items, item{space: px})
	}
}

func (r *Row) add(text string, highlight bool) {
	if text == "" {
		return
	}
	e := r.ui.measurer.MeasureText(r.ui.style.Font, text)
	pad := r.ui.style.Padding
	r.items = append(r.items, item{
		text:      text,
		highlight: highlight,
		extent:    Extent{Width: e.Width + 2*pad, Height: e.Height + 2*pad},
	})
}

func (r *Row) size(spacing float64) Extent {
	var e Extent
	for i, it := range r.items {
		if i > 0 {
			e.Width += spacing
		}
		e.Width += it.width()
		e.Height = max(e.Height, it.extent.Height)
	}
	return e
}

// UI is handed to the content callback for one frame
type UI struct {
	measurer Measurer
	style    Style
	now      time.Time
	repaint  time.Duration

	left, center, right Row
}

// Left describes the left aligned section
func (u *UI) Left(fn func(*Row)) { fn(&u.left) }

// Center describes the centred section
func (u *UI) Center(fn func(*Row)) { fn(&u.center) }

// Right describes the right aligned section
func (u *UI) Right(fn func(*Row)) { fn(&u.right) }

// Now is the time the frame started
func (u *UI) Now() time.Time { return u.now }

// RequestRepaintAfter asks for another frame after d. The shortest request
// of a frame wins.
func (u *UI) RequestRepaintAfter(d time.Duration) {
	u.repaint = min(u.repaint, max(d, 0))
}

// Frame is the result of running the content callback once
type Frame struct {
	// Content is the size the content needs including the panel margin
	Content sizing.MeasuredSize
	// Delay until the content wants to be drawn again, or NoRepaint
	Delay time.Duration

	left, center, right []item
	natural             Extent
}
