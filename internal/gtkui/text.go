package gtkui

import (
	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/pango"

	"github.com/chess10kp/mbar/internal/ui"
)

// pangoScale is the number of pango units per device unit
const pangoScale = 1024

// fontCache maps font strings such as "monospace 10" to parsed pango
// descriptions. It is only used on the GTK main thread.
type fontCache struct {
	fonts map[string]*pango.FontDescription
}

func newFontCache() *fontCache {
	return &fontCache{fonts: make(map[string]*pango.FontDescription)}
}

func (c *fontCache) get(font string) *pango.FontDescription {
	if desc, ok := c.fonts[font]; ok {
		return desc
	}
	desc := pango.FontDescriptionFromString(font)
	c.fonts[font] = desc
	return desc
}

// layout builds a pango layout for text on cr
func (c *fontCache) layout(cr *cairo.Context, font, text string) *pango.Layout {
	l := pango.CairoCreateLayout(cr)
	l.SetFontDescription(c.get(font))
	l.SetText(text, -1)
	return l
}

// Measurer measures text with pango on a scratch cairo context
type Measurer struct {
	fonts *fontCache
	cr    *cairo.Context
}

// MeasureText returns the logical extent of text in pixels
func (m *Measurer) MeasureText(font, text string) ui.Extent {
	var w, h int
	invoke(func() {
		if m.cr == nil {
			m.cr = cairo.Create(cairo.CreateImageSurface(cairo.FORMAT_ARGB32, 1, 1))
		}
		w, h = m.fonts.layout(m.cr, font, text).GetSize()
	})
	return ui.Extent{
		Width:  float64(w) / pangoScale,
		Height: float64(h) / pangoScale,
	}
}
