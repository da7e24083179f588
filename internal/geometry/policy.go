package geometry

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

var (
	_ pflag.Value              = (*SizePolicy)(nil)
	_ encoding.TextUnmarshaler = (*SizePolicy)(nil)
)

// PolicyKind selects how one axis of the bar is sized
type PolicyKind int

const (
	FillScreen PolicyKind = iota
	FitContent
	Fixed
)

// String returns the string representation of PolicyKind
func (k PolicyKind) String() string {
	switch k {
	case FillScreen:
		return "screen"
	case FitContent:
		return "fit"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// SizePolicy is the sizing rule for a single axis. Pixels is only
// meaningful when Kind is Fixed.
type SizePolicy struct {
	Kind   PolicyKind
	Pixels uint32
}

// Screen returns a policy that fills the monitor dimension
func Screen() SizePolicy { return SizePolicy{Kind: FillScreen} }

// Fit returns a policy that follows the measured content
func Fit() SizePolicy { return SizePolicy{Kind: FitContent} }

// FixedSize returns a policy with a constant pixel size
func FixedSize(pixels uint32) SizePolicy { return SizePolicy{Kind: Fixed, Pixels: pixels} }

// ParseSizePolicy parses "screen", "fit" or a pixel count. Named variants
// are matched first and case-insensitively.
func ParseSizePolicy(s string) (SizePolicy, error) {
	data := strings.TrimSpace(s)
	switch {
	case strings.EqualFold(data, "screen"):
		return Screen(), nil
	case strings.EqualFold(data, "fit"):
		return Fit(), nil
	}

	n, err := strconv.ParseUint(data, 10, 32)
	if err != nil {
		return SizePolicy{}, fmt.Errorf("invalid size %q: expected screen, fit or a number of pixels", s)
	}
	return FixedSize(uint32(n)), nil
}

// String formats the policy the way ParseSizePolicy accepts it
func (p SizePolicy) String() string {
	if p.Kind == Fixed {
		return strconv.FormatUint(uint64(p.Pixels), 10)
	}
	return p.Kind.String()
}

// Set implements pflag.Value
func (p *SizePolicy) Set(s string) error {
	parsed, err := ParseSizePolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Type implements pflag.Value
func (p *SizePolicy) Type() string {
	return "size"
}

// UnmarshalText lets policies be read from TOML strings
func (p *SizePolicy) UnmarshalText(text []byte) error {
	return p.Set(string(text))
}

// MarshalText is the inverse of UnmarshalText
func (p SizePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
