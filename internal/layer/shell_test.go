package layer

import "testing"

func TestAnchors(t *testing.T) {
	full := Anchors(true)
	if !full[EdgeTop] || !full[EdgeLeft] || !full[EdgeRight] || full[EdgeBottom] {
		t.Errorf("full width bar anchors = %v", full)
	}

	centred := Anchors(false)
	if !centred[EdgeTop] || centred[EdgeLeft] || centred[EdgeRight] || centred[EdgeBottom] {
		t.Errorf("centred bar anchors = %v", centred)
	}
}
