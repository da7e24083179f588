package statusbar

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chess10kp/mbar/internal/config"
	"github.com/chess10kp/mbar/internal/geometry"
	"github.com/chess10kp/mbar/internal/ui"
	"github.com/chess10kp/mbar/internal/wm"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingCanvas struct {
	texts []string
}

func (c *recordingCanvas) CurrentSize() geometry.Size               { return geometry.Size{Width: 2000, Height: 30} }
func (c *recordingCanvas) FillRect(x, y, w, h float64, col ui.Color) {}
func (c *recordingCanvas) DrawText(x, y float64, font, text string, col ui.Color) {
	c.texts = append(c.texts, text)
}

var runeMeasurer = ui.MeasureFunc(func(_, text string) ui.Extent {
	return ui.Extent{Width: float64(len([]rune(text))) * 8, Height: 16}
})

// render draws one frame of sb and returns the painted strings in paint order
func render(t *testing.T, sb *StatusBar, state wm.DesktopState) ([]string, ui.Frame) {
	t.Helper()
	tk := ui.NewToolkit(runeMeasurer, ui.DefaultStyle())
	frame := tk.Run(geometry.Size{Width: 2000, Height: 30}, func(u *ui.UI) { sb.Draw(u, state) })
	c := &recordingCanvas{}
	tk.Paint(c)
	return c.texts, frame
}

func TestCreateModuleKnowsEveryConfiguredName(t *testing.T) {
	for _, name := range config.ModuleNames {
		m, err := CreateModule(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, m.Name())
	}
	_, err := CreateModule("battery")
	assert.Error(t, err)
}

func TestStatusBarDrawsLayout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ModuleConfigs["time"] = config.ModuleConfig{Format: "15:04"}
	sb, err := New(&cfg, discard)
	require.NoError(t, err)

	state := wm.DesktopState{
		DesktopNames:   []string{"1", "2", "3"},
		DesktopLayout:  "splith",
		CurrentDesktop: 1,
		ActiveWindow:   wm.Window{ID: 9, Title: "vim"},
	}
	texts, frame := render(t, sb, state)

	require.Len(t, texts, 6)
	assert.Equal(t, []string{"1", "2", "3", "splith"}, texts[:4])
	assert.Len(t, texts[4], len("15:04"), "time on the right")
	assert.Equal(t, "vim", texts[5])
	assert.LessOrEqual(t, frame.Delay, time.Second)
}

func TestWorkspacesHighlightCurrent(t *testing.T) {
	tk := ui.NewToolkit(runeMeasurer, ui.DefaultStyle())
	m := NewWorkspacesModule()
	tk.Run(geometry.Size{Width: 300, Height: 30}, func(u *ui.UI) {
		u.Left(func(r *ui.Row) {
			m.Draw(u, r, wm.DesktopState{DesktopNames: []string{"a", "b"}, CurrentDesktop: 0})
		})
	})

	var fills int
	c := &countingCanvas{fills: &fills}
	tk.Paint(c)
	assert.Equal(t, 2, fills, "background and the current workspace")
}

type countingCanvas struct {
	recordingCanvas
	fills *int
}

func (c *countingCanvas) FillRect(x, y, w, h float64, col ui.Color) { *c.fills++ }

func TestCustomMessageOverIPC(t *testing.T) {
	cfg := config.DefaultConfig()
	sb, err := New(&cfg, discard)
	require.NoError(t, err)

	assert.False(t, sb.HandleIPCMessage("volume:up"))
	assert.True(t, sb.HandleIPCMessage("message: hello world "))

	texts, _ := render(t, sb, wm.DesktopState{})
	assert.Contains(t, texts, "hello world")

	// the message survives a reload that keeps the module
	cfg.Style.Font = "sans 11"
	require.NoError(t, sb.Reconfigure(&cfg))
	texts, _ = render(t, sb, wm.DesktopState{})
	assert.Contains(t, texts, "hello world")
}

func TestReconfigureDropsModules(t *testing.T) {
	cfg := config.DefaultConfig()
	sb, err := New(&cfg, discard)
	require.NoError(t, err)

	cfg.Layout = config.StatusBarLayout{Left: []string{"workspaces"}}
	require.NoError(t, sb.Reconfigure(&cfg))

	_, ok := sb.manager.GetModule("time")
	assert.False(t, ok)
	assert.Len(t, sb.manager.GetModules(), 1)
}

func TestReconfigureWithUnknownModuleKeepsSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ModuleConfigs["time"] = config.ModuleConfig{Format: "15:04"}
	sb, err := New(&cfg, discard)
	require.NoError(t, err)

	broken := config.DefaultConfig()
	broken.ModuleConfigs["time"] = config.ModuleConfig{Format: "05"}
	broken.Layout.Right = append(broken.Layout.Right, "battery")
	assert.Error(t, sb.Reconfigure(&broken))

	module, ok := sb.manager.GetModule("time")
	require.True(t, ok)
	assert.Equal(t, "15:04", module.(*TimeModule).format)
	_, ok = sb.manager.GetModule("battery")
	assert.False(t, ok)
}

func TestTitleTruncation(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "…", truncate("abc", 1))
	assert.Equal(t, "ünï…", truncate("ünïcödé", 4))

	m := NewTitleModule()
	require.NoError(t, m.Initialize(map[string]interface{}{"max_length": int64(3)}))
	assert.Equal(t, 3, m.maxLength)
}

func TestTimeModule(t *testing.T) {
	m := NewTimeModule()
	require.NoError(t, m.Initialize(map[string]interface{}{"format": "15:04:05"}))
	assert.Equal(t, "15:04:05", m.format)

	require.NoError(t, m.Initialize(nil))
	assert.Equal(t, defaultTimeFormat, m.format)

	now := time.Date(2024, 1, 1, 12, 0, 0, 250*int(time.Millisecond), time.UTC)
	assert.Equal(t, 750*time.Millisecond, untilNextSecond(now))
	assert.Equal(t, time.Second, untilNextSecond(now.Truncate(time.Second)))
}

func TestModuleManagerRegister(t *testing.T) {
	mm := NewModuleManager(discard)
	require.NoError(t, mm.RegisterModule(NewLayoutModule()))
	assert.Error(t, mm.RegisterModule(NewLayoutModule()))

	m, ok := mm.GetModule("layout")
	require.True(t, ok)
	assert.Equal(t, "layout", m.Name())

	mm.UnregisterModule("layout")
	_, ok = mm.GetModule("layout")
	assert.False(t, ok)
}
