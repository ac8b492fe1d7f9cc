package geom

import (
	"errors"
	"fmt"
	"strings"
)

// This file defines unit-safe length conversion. All layout math in this
// module normalizes to millimeters; conversion back to the original unit is
// lossless within floating-point tolerance.

// Unit represents the physical unit a dimension was authored in.
type Unit int

const (
	UnitMM Unit = iota // millimeters (canonical)
	UnitCM             // centimeters
	UnitIN             // inches
	UnitPX             // device pixels at ReferenceDPI
)

// Conversion constants.
const (
	MmPerIn = 25.4
	MmPerCm = 10.0

	// ReferenceDPI is the density at which on-canvas pixel coordinates are
	// interpreted. Matches the usual CSS reference density.
	ReferenceDPI = 96.0
)

// ErrInvalidDimension reports a non-positive or unparseable size.
var ErrInvalidDimension = errors.New("invalid dimension")

// UnitToString returns the interchange name for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "inch"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// ParseUnit maps an interchange name to a Unit. "in" is accepted as an
// alias for "inch".
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm":
		return UnitMM, nil
	case "cm":
		return UnitCM, nil
	case "inch", "in":
		return UnitIN, nil
	case "px":
		return UnitPX, nil
	default:
		return UnitMM, fmt.Errorf("unknown unit %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so Unit round-trips through
// JSON as its interchange name.
func (u Unit) MarshalText() ([]byte, error) {
	s := UnitToString(u)
	if s == "" {
		return nil, fmt.Errorf("unknown unit %d", int(u))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ToCanonical converts a value in the given unit to millimeters.
func ToCanonical(value float64, unit Unit) float64 {
	switch unit {
	case UnitMM:
		return value
	case UnitCM:
		return value * MmPerCm
	case UnitIN:
		return value * MmPerIn
	case UnitPX:
		return value * MmPerIn / ReferenceDPI
	default:
		return value
	}
}

// FromCanonical converts millimeters back into the given unit.
func FromCanonical(mm float64, unit Unit) float64 {
	switch unit {
	case UnitMM:
		return mm
	case UnitCM:
		return mm / MmPerCm
	case UnitIN:
		return mm / MmPerIn
	case UnitPX:
		return mm * ReferenceDPI / MmPerIn
	default:
		return mm
	}
}

// ToPixels converts millimeters to device pixels at the given density.
func ToPixels(mm float64, dpi float64) float64 {
	return mm * dpi / MmPerIn
}

// Dimensions is a width/height pair carrying its authored unit.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   Unit    `json:"unit"`
}

// Validate rejects non-positive sizes. Geometry math downstream assumes
// positive dimensions; violating this is a caller error.
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %gx%g%s", ErrInvalidDimension, d.Width, d.Height, UnitToString(d.Unit))
	}
	return nil
}

// WidthMM returns the width in canonical millimeters.
func (d Dimensions) WidthMM() float64 { return ToCanonical(d.Width, d.Unit) }

// HeightMM returns the height in canonical millimeters.
func (d Dimensions) HeightMM() float64 { return ToCanonical(d.Height, d.Unit) }
