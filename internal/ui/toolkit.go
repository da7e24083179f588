package ui

import (
	"time"

	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/sizing"
)

// Toolkit runs content callbacks and paints the resulting frames. It is not
// safe for concurrent use; the render loop owns it.
type Toolkit struct {
	measurer Measurer
	style    Style
	size     geometry.Size
	scale    float64
	last     Frame
	now      func() time.Time
}

// NewToolkit creates a toolkit measuring text with m
func NewToolkit(m Measurer, style Style) *Toolkit {
	return &Toolkit{
		measurer: m,
		style:    style,
		scale:    1,
		now:      time.Now,
	}
}

// SetStyle replaces the style from the next frame on
func (t *Toolkit) SetStyle(s Style) {
	t.style = s
	t.purge()
}

// Style returns the active style
func (t *Toolkit) Style() Style {
	return t.style
}

// Size is the toolkit's notion of the surface size
func (t *Toolkit) Size() geometry.Size {
	return t.size
}

// ScaleFactor is the last scale factor reported by the window system
func (t *Toolkit) ScaleFactor() float64 {
	return t.scale
}

// Run lays out one frame for a surface of the given size. The content size
// of the frame is the natural size of the row plus the panel margin; the
// panel itself always stretches over the surface, so its raw size is
// corrected by the panel's minimum before it is reported.
func (t *Toolkit) Run(size geometry.Size, content func(*UI)) Frame {
	t.size = size

	u := &UI{
		measurer: t.measurer,
		style:    t.style,
		now:      t.now(),
		repaint:  NoRepaint,
	}
	u.left.ui, u.center.ui, u.right.ui = u, u, u
	content(u)

	natural := t.naturalSize(u)
	margin := 2 * t.style.Margin
	avail := Extent{
		Width:  max(float64(size.Width)-margin, 0),
		Height: max(float64(size.Height)-margin, 0),
	}
	panel := sizing.MeasuredSize{
		Width:  max(avail.Width, natural.Width),
		Height: max(avail.Height, natural.Height),
	}
	used := sizing.MeasuredSize{
		Width:  max(float64(size.Width), panel.Width+margin),
		Height: max(float64(size.Height), panel.Height+margin),
	}

	t.last = Frame{
		Content: sizing.CorrectForChrome(used, panel, sizing.MeasuredSize{Width: natural.Width, Height: natural.Height}),
		Delay:   u.repaint,
		left:    u.left.items,
		center:  u.center.items,
		right:   u.right.items,
		natural: natural,
	}
	return t.last
}

func (t *Toolkit) naturalSize(u *UI) Extent {
	var e Extent
	sections := 0
	for _, r := range []*Row{&u.left, &u.center, &u.right} {
		if len(r.items) == 0 {
			continue
		}
		s := r.size(t.style.Spacing)
		if sections > 0 {
			e.Width += t.style.Spacing
		}
		e.Width += s.Width
		e.Height = max(e.Height, s.Height)
		sections++
	}
	return e
}

// Paint draws the last frame onto c
func (t *Toolkit) Paint(c Canvas) {
	size := c.CurrentSize()
	w, h := float64(size.Width), float64(size.Height)
	st := t.style

	c.FillRect(0, 0, w, h, st.Background)

	f := t.last
	rowHeight := f.natural.Height
	top := st.Margin + max(h-2*st.Margin-rowHeight, 0)/2

	leftEnd := st.Margin + t.rowWidth(f.left)
	t.paintRow(c, f.left, st.Margin, top, rowHeight)

	rightWidth := t.rowWidth(f.right)
	rightStart := max(w-st.Margin-rightWidth, leftEnd+st.Spacing)
	t.paintRow(c, f.right, rightStart, top, rowHeight)

	centerWidth := t.rowWidth(f.center)
	x := (w - centerWidth) / 2
	if len(f.left) > 0 {
		x = max(x, leftEnd+st.Spacing)
	}
	if len(f.right) > 0 {
		x = min(x, rightStart-st.Spacing-centerWidth)
	}
	t.paintRow(c, f.center, max(x, st.Margin), top, rowHeight)
}

func (t *Toolkit) rowWidth(items []item) float64 {
	r := Row{items: items}
	return r.size(t.style.Spacing).Width
}

func (t *Toolkit) paintRow(c Canvas, items []item, x, top, rowHeight float64) {
	st := t.style
	for i, it := range items {
		if i > 0 {
			x += st.Spacing
		}
		if it.text != "" {
			y := top + (rowHeight-it.extent.Height)/2
			fg := st.Foreground
			if it.highlight {
				c.FillRect(x, top, it.extent.Width, rowHeight, st.HighlightBg)
				fg = st.HighlightFg
			}
			c.DrawText(x+st.Padding, y+st.Padding, st.Font, it.text, fg)
		}
		x += it.width()
	}
}

// OnEvent updates the toolkit's view of the window
func (t *Toolkit) OnEvent(ev WindowEvent) {
	switch ev.Kind {
	case Resized:
		t.size = ev.Size
	case ScaleFactorChanged:
		if ev.Scale > 0 && ev.Scale != t.scale {
			t.scale = ev.Scale
			// Font metrics change with the scale.
			t.purge()
		}
	}
}

// Destroy releases cached frame and text data
func (t *Toolkit) Destroy() {
	t.last = Frame{}
	t.purge()
}

func (t *Toolkit) purge() {
	if p, ok := t.measurer.(interface{ Purge() }); ok {
		p.Purge()
	}
}
