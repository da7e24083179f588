package gtkui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chess10kp/mbar/internal/bar"
	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/ui"
)

func TestDisplayListRecording(t *testing.T) {
	s := &Surface{size: geometry.Size{Width: 100, Height: 20}}
	white := ui.MustParseColor("#ffffff")

	s.Clear()
	s.FillRect(0, 0, 100, 20, white)
	s.DrawText(2, 2, "monospace 10", "", white)
	s.DrawText(2, 2, "monospace 10", "1", white)

	require.Len(t, s.pending, 2, "empty text is not recorded")
	assert.Equal(t, "", s.pending[0].text)
	assert.Equal(t, "1", s.pending[1].text)
	assert.Equal(t, geometry.Size{Width: 100, Height: 20}, s.CurrentSize())
}

func TestPresentBeforeRealize(t *testing.T) {
	s := &Surface{}
	s.Clear()
	s.FillRect(0, 0, 1, 1, ui.Color{})

	assert.ErrorIs(t, s.Present(), ErrNotRealized)
	assert.Empty(t, s.committed, "nothing is committed for an unrealized window")
}

func TestPushStopsWhileClosing(t *testing.T) {
	q := bar.NewQueue()
	s := &Surface{events: q}

	s.push(ui.WindowEvent{Kind: ui.Exposed})
	s.closing.Store(true)
	s.push(ui.WindowEvent{Kind: ui.Destroyed})

	events := q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, bar.WindowEvent{Kind: ui.Exposed}, events[0])
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "Dell U2720Q", joinNonEmpty("Dell", "U2720Q"))
	assert.Equal(t, "U2720Q", joinNonEmpty("", "U2720Q"))
	assert.Equal(t, "Dell", joinNonEmpty("Dell", ""))
}
