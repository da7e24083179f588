// Package layer binds the parts of gtk-layer-shell the bar uses to place
// itself on Wayland compositors.
package layer

/*
#cgo pkg-config: gtk-layer-shell-0
#include <gtk-layer-shell.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

// IsSupported reports whether the compositor speaks the layer shell protocol
func IsSupported() bool {
	return C.gtk_layer_is_supported() != 0
}

// InitForWindow initializes a window as a layer shell surface
func InitForWindow(window unsafe.Pointer) {
	C.gtk_layer_init_for_window((*C.GtkWindow)(window))
}

// SetNamespace sets the namespace compositors use to match layer rules
func SetNamespace(window unsafe.Pointer, namespace string) {
	cs := C.CString(namespace)
	defer C.free(unsafe.Pointer(cs))
	C.gtk_layer_set_namespace((*C.GtkWindow)(window), cs)
}

// SetLayer sets the layer for a layer shell surface
func SetLayer(window unsafe.Pointer, layer Layer) {
	C.gtk_layer_set_layer((*C.GtkWindow)(window), C.GtkLayerShellLayer(layer))
}

// SetMonitor pins the surface to a GdkMonitor
func SetMonitor(window, monitor unsafe.Pointer) {
	C.gtk_layer_set_monitor((*C.GtkWindow)(window), (*C.GdkMonitor)(monitor))
}

// SetAnchor sets which edges to anchor the window to
func SetAnchor(window unsafe.Pointer, edge Edge, anchorTo bool) {
	var anchor C.gboolean
	if anchorTo {
		anchor = 1
	}
	C.gtk_layer_set_anchor((*C.GtkWindow)(window), C.GtkLayerShellEdge(edge), anchor)
}

// AutoExclusiveZoneEnable automatically sets the exclusive zone
// to match the window's size when anchored to edges
func AutoExclusiveZoneEnable(window unsafe.Pointer) {
	C.gtk_layer_auto_exclusive_zone_enable((*C.GtkWindow)(window))
}

// SetKeyboardMode sets the keyboard interactivity mode
func SetKeyboardMode(window unsafe.Pointer, mode KeyboardMode) {
	C.gtk_layer_set_keyboard_mode((*C.GtkWindow)(window), C.GtkLayerShellKeyboardMode(mode))
}

// Layer represents a layer shell layer
type Layer int

const (
	LayerBackground Layer = 0
	LayerBottom     Layer = 1
	LayerTop        Layer = 2
	LayerOverlay    Layer = 3
)

// Edge represents a screen edge
type Edge int

const (
	EdgeLeft   Edge = 0
	EdgeRight  Edge = 1
	EdgeTop    Edge = 2
	EdgeBottom Edge = 3
)

// KeyboardMode represents keyboard focus mode
type KeyboardMode int

const (
	KeyboardModeNone      KeyboardMode = 0
	KeyboardModeExclusive KeyboardMode = 1
	KeyboardModeOnDemand  KeyboardMode = 2
)

// Anchors returns the edges a top bar is anchored to. A bar spanning the
// screen width is anchored left and right as well; a narrower one is
// centred by anchoring only the top edge.
func Anchors(spanWidth bool) map[Edge]bool {
	return map[Edge]bool{
		EdgeTop:    true,
		EdgeBottom: false,
		EdgeLeft:   spanWidth,
		EdgeRight:  spanWidth,
	}
}
