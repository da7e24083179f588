// Package logging provides the bar's console log handler. It wraps log/slog
// and prints one human readable line per record:
//
//	[2024-05-01 12:00:00.123456 +0200] Info: connected backend=sway
//
// Records carrying a "component" attribute for one of the backend
// collaborators (sway, x11, gtk) are filtered one level stricter than the
// application's own records, so -v shows bar internals before backend chatter.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// LevelTrace is below slog.LevelDebug
const LevelTrace = slog.Level(-8)

// ComponentKey is the attribute naming the subsystem that logged a record
const ComponentKey = "component"

// BackendComponents log one level less verbose than the application
var BackendComponents = []string{"sway", "x11", "gtk"}

const timeFormat = "2006-01-02 15:04:05.000000 -0700"

var (
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	keyStyle   = lipgloss.NewStyle().Faint(true)
)

// LevelForVerbosity maps the net -v/-q count to a level: Error, Warn, Info,
// Debug and Trace for <=-2, -1, 0, 1 and >=2.
func LevelForVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= -2:
		return slog.LevelError
	case verbosity == -1:
		return slog.LevelWarn
	case verbosity == 0:
		return slog.LevelInfo
	case verbosity == 1:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// LevelName returns the prefix printed for a level
func LevelName(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "Trace"
	case l < slog.LevelInfo:
		return "Debug"
	case l < slog.LevelWarn:
		return "Info"
	case l < slog.LevelError:
		return "Warn"
	default:
		return "Error"
	}
}

// Options configures a Handler
type Options struct {
	// Verbosity is the net -v minus -q count
	Verbosity int
	// Color forces styling on or off; nil detects it from the writer
	Color *bool
	// Now overrides the clock, for tests
	Now func() time.Time
}

// Handler is a slog.Handler printing coloured single-line records
type Handler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Level
	backend   slog.Level
	color     bool
	now       func() time.Time
	attrs     []slog.Attr
	groups    []string
	component string
}

// NewHandler creates a handler writing to w
func NewHandler(w io.Writer, opts Options) *Handler {
	level := LevelForVerbosity(opts.Verbosity)
	h := &Handler{
		mu:      &sync.Mutex{},
		w:       w,
		level:   level,
		backend: LevelForVerbosity(opts.Verbosity - 1),
		now:     time.Now,
	}
	if opts.Now != nil {
		h.now = opts.Now
	}
	if opts.Color != nil {
		h.color = *opts.Color
	} else {
		h.color = isTerminal(w)
	}
	return h
}

// Setup installs a handler on stderr as the slog default
func Setup(verbosity int) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, Options{Verbosity: verbosity}))
	slog.SetDefault(logger)
	return logger
}

// Component returns a logger tagged with the given component name
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With(ComponentKey, name)
}

// Trace logs at LevelTrace
func Trace(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	l.Log(ctx, LevelTrace, msg, args...)
}

func (h *Handler) minLevel(component string) slog.Level {
	if slices.Contains(BackendComponents, component) {
		return h.backend
	}
	return h.level
}

// Enabled reports whether a record could pass. Backend records are checked
// again in Handle once their component is known.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	if h.component != "" {
		return l >= h.minLevel(h.component)
	}
	return l >= min(h.level, h.backend)
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	component := h.component
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == ComponentKey {
			component = a.Value.String()
			return false
		}
		return true
	})
	if r.Level < h.minLevel(component) {
		return nil
	}

	t := r.Time
	if t.IsZero() {
		t = h.now()
	}

	var b strings.Builder
	b.WriteString(h.style(timeStyle, "["+t.Format(timeFormat)+"]"))
	b.WriteByte(' ')
	b.WriteString(h.levelPrefix(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = slices.Clip(h.attrs)
	for _, a := range attrs {
		if a.Key == ComponentKey && len(h.groups) == 0 {
			h2.component = a.Value.String()
		}
		a.Key = h.qualify(a.Key)
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(slices.Clip(h.groups), name)
	return &h2
}

func (h *Handler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func (h *Handler) writeAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			ga.Key = a.Key + "." + ga.Key
			h.writeAttr(b, ga)
		}
		return
	}

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteByte(' ')
	b.WriteString(h.style(keyStyle, a.Key+"="))
	b.WriteString(val)
}

func (h *Handler) levelPrefix(l slog.Level) string {
	prefix := LevelName(l) + ":"
	switch {
	case l >= slog.LevelError:
		return h.style(errorStyle, prefix)
	case l >= slog.LevelWarn:
		return h.style(warnStyle, prefix)
	default:
		return prefix
	}
}

func (h *Handler) style(s lipgloss.Style, text string) string {
	if !h.color {
		return text
	}
	return s.Render(text)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
