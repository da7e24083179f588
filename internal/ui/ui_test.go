package ui

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/sizing"
)

// fixedMeasurer gives every rune 10px and every line 20px
func fixedMeasurer(calls *int) Measurer {
	return MeasureFunc(func(_, text string) Extent {
		if calls != nil {
			*calls++
		}
		return Extent{Width: float64(len([]rune(text)) * 10), Height: 20}
	})
}

func testStyle() Style {
	s := DefaultStyle()
	s.Margin = 2
	s.Spacing = 5
	s.Padding = 0
	return s
}

type drawCall struct {
	text string
	x, y float64
}

type fakeCanvas struct {
	size  geometry.Size
	rects int
	texts []drawCall
}

func (c *fakeCanvas) CurrentSize() geometry.Size { return c.size }
func (c *fakeCanvas) FillRect(x, y, w, h float64, col Color) {
	c.rects++
}
func (c *fakeCanvas) DrawText(x, y float64, font, text string, col Color) {
	c.texts = append(c.texts, drawCall{text: text, x: x, y: y})
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.R, 1e-9)
	assert.InDelta(t, 128.0/255, c.G, 1e-9)
	assert.InDelta(t, 0.0, c.B, 1e-9)
	assert.InDelta(t, 1.0, c.A, 1e-9)
	assert.Equal(t, "#ff8000ff", c.String())

	c, err = ParseColor("#00000080")
	require.NoError(t, err)
	assert.InDelta(t, 128.0/255, c.A, 1e-9)

	c, err = ParseColor("#0E1419CC")
	require.NoError(t, err)
	assert.Equal(t, "#0e1419cc", c.String())

	for _, bad := range []string{"", "ff8000", "#fff", "#gg0000", "#12345", "#12345g", "#ff8000zz"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestCachedMeasurer(t *testing.T) {
	calls := 0
	m := NewCachedMeasurer(fixedMeasurer(&calls), 2)

	assert.Equal(t, 30.0, m.MeasureText("mono", "abc").Width)
	assert.Equal(t, 30.0, m.MeasureText("mono", "abc").Width)
	assert.Equal(t, 1, calls)

	m.MeasureText("sans", "abc")
	assert.Equal(t, 2, calls, "font is part of the key")

	m.MeasureText("mono", "x")
	assert.Equal(t, 2, m.Len(), "bounded by size")

	m.Purge()
	assert.Equal(t, 0, m.Len())
}

// The panel stretches over the whole surface, so the raw size never shrinks
// below the surface. The corrected content size has to be independent of
// the surface size or a fit axis would oscillate between frames.
func TestContentSizeIsCorrectedForChrome(t *testing.T) {
	tk := NewToolkit(MeasureFunc(func(_, _ string) Extent {
		return Extent{Width: 196, Height: 36}
	}), testStyle())
	content := func(u *UI) {
		u.Left(func(r *Row) { r.Label("content") })
	}

	for _, size := range []geometry.Size{{Width: 1920, Height: 1080}, {Width: 200, Height: 40}, {Width: 50, Height: 10}} {
		f := tk.Run(size, content)
		assert.Equal(t, sizing.MeasuredSize{Width: 200, Height: 40}, f.Content, "surface %s", size)
	}
}

func TestNaturalSizeAcrossSections(t *testing.T) {
	tk := NewToolkit(fixedMeasurer(nil), testStyle())
	f := tk.Run(geometry.Size{Width: 800, Height: 30}, func(u *UI) {
		u.Left(func(r *Row) {
			r.Highlight("1")
			r.Label("2")
		})
		u.Center(func(r *Row) {})
		u.Right(func(r *Row) { r.Label("12:00") })
	})

	// left: 10 + 5 + 10, gap 5, right: 50, margins 2*2
	assert.Equal(t, 84.0, f.Content.Width)
	assert.Equal(t, 24.0, f.Content.Height)
}

func TestRepaintRequests(t *testing.T) {
	tk := NewToolkit(fixedMeasurer(nil), testStyle())

	f := tk.Run(geometry.Size{Width: 10, Height: 10}, func(u *UI) {})
	assert.Equal(t, NoRepaint, f.Delay)

	f = tk.Run(geometry.Size{Width: 10, Height: 10}, func(u *UI) {
		u.RequestRepaintAfter(time.Second)
		u.RequestRepaintAfter(200 * time.Millisecond)
		u.RequestRepaintAfter(time.Minute)
	})
	assert.Equal(t, 200*time.Millisecond, f.Delay)

	f = tk.Run(geometry.Size{Width: 10, Height: 10}, func(u *UI) {
		u.RequestRepaintAfter(-time.Second)
	})
	assert.Equal(t, time.Duration(0), f.Delay)
}

func TestPaintPlacesSections(t *testing.T) {
	tk := NewToolkit(fixedMeasurer(nil), testStyle())
	tk.Run(geometry.Size{Width: 400, Height: 24}, func(u *UI) {
		u.Left(func(r *Row) { r.Highlight("ws") })
		u.Center(func(r *Row) { r.Label("title") })
		u.Right(func(r *Row) { r.Label("clock") })
	})

	c := &fakeCanvas{size: geometry.Size{Width: 400, Height: 24}}
	tk.Paint(c)

	require.Len(t, c.texts, 3)
	assert.Equal(t, drawCall{text: "ws", x: 2, y: 2}, c.texts[0])
	assert.Equal(t, drawCall{text: "clock", x: 400 - 2 - 50, y: 2}, c.texts[1])
	assert.Equal(t, drawCall{text: "title", x: (400 - 50) / 2.0, y: 2}, c.texts[2])
	assert.Equal(t, 2, c.rects, "background and one highlight")
}

func TestScaleChangePurgesCache(t *testing.T) {
	calls := 0
	m := NewCachedMeasurer(fixedMeasurer(&calls), 16)
	tk := NewToolkit(m, testStyle())
	content := func(u *UI) { u.Left(func(r *Row) { r.Label("abc") }) }

	tk.Run(geometry.Size{Width: 100, Height: 20}, content)
	tk.Run(geometry.Size{Width: 100, Height: 20}, content)
	assert.Equal(t, 1, calls)

	tk.OnEvent(WindowEvent{Kind: ScaleFactorChanged, Scale: 2})
	assert.Equal(t, 2.0, tk.ScaleFactor())
	tk.Run(geometry.Size{Width: 100, Height: 20}, content)
	assert.Equal(t, 2, calls)

	tk.OnEvent(WindowEvent{Kind: Resized, Size: geometry.Size{Width: 300, Height: 20}})
	assert.Equal(t, geometry.Size{Width: 300, Height: 20}, tk.Size())
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "resized 200x40", WindowEvent{Kind: Resized, Size: geometry.Size{Width: 200, Height: 40}}.String())
	assert.Equal(t, "close-requested", fmt.Sprint(WindowEvent{Kind: CloseRequested}))
}
