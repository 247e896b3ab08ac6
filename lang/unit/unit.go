// Package unit enumerates the units a dimensioned number may carry and the
// exact ratios that convert between units of the same dimension class.
package unit

import (
	"math"
	"math/big"
	"strings"
)

// Unit tags a number with its unit of measure.
type Unit uint8

// Units. The zero value is [None].
const (
	None Unit = iota
	Percent

	// Absolute lengths.
	In
	Cm
	Pc
	Mm
	Q
	Pt
	Px

	// Angles.
	Deg
	Grad
	Rad
	Turn

	// Times.
	S
	Ms

	// Frequencies.
	Hz
	Khz

	// Resolutions.
	Dpi
	Dpcm
	Dppx

	// Relative lengths. Each is only comparable with itself.
	Em
	Rem
	Ex
	Ch
	Vw
	Vh
	Vmin
	Vmax
	Fr

	numUnits
)

// Class partitions units into groups whose members convert to one another.
type Class uint8

// Classes.
const (
	ClassNone Class = iota
	ClassPercent
	ClassLength
	ClassAngle
	ClassTime
	ClassFrequency
	ClassResolution
	ClassRelative
)

type info struct {
	name  string
	class Class
	// ratio converts one of this unit into the canonical unit of its class.
	ratio *big.Rat
}

var table = [numUnits]info{
	None:    {"", ClassNone, nil},
	Percent: {"%", ClassPercent, nil},

	In: {"in", ClassLength, big.NewRat(96, 1)},
	Cm: {"cm", ClassLength, big.NewRat(4800, 127)},
	Pc: {"pc", ClassLength, big.NewRat(16, 1)},
	Mm: {"mm", ClassLength, big.NewRat(480, 127)},
	Q:  {"q", ClassLength, big.NewRat(120, 127)},
	Pt: {"pt", ClassLength, big.NewRat(4, 3)},
	Px: {"px", ClassLength, big.NewRat(1, 1)},

	Deg:  {"deg", ClassAngle, big.NewRat(1, 1)},
	Grad: {"grad", ClassAngle, big.NewRat(9, 10)},
	Rad:  {"rad", ClassAngle, new(big.Rat).SetFloat64(180 / math.Pi)},
	Turn: {"turn", ClassAngle, big.NewRat(360, 1)},

	S:  {"s", ClassTime, big.NewRat(1000, 1)},
	Ms: {"ms", ClassTime, big.NewRat(1, 1)},

	Hz:  {"Hz", ClassFrequency, big.NewRat(1, 1)},
	Khz: {"kHz", ClassFrequency, big.NewRat(1000, 1)},

	Dpi:  {"dpi", ClassResolution, big.NewRat(1, 96)},
	Dpcm: {"dpcm", ClassResolution, big.NewRat(127, 4800)},
	Dppx: {"dppx", ClassResolution, big.NewRat(1, 1)},

	Em:   {"em", ClassRelative, nil},
	Rem:  {"rem", ClassRelative, nil},
	Ex:   {"ex", ClassRelative, nil},
	Ch:   {"ch", ClassRelative, nil},
	Vw:   {"vw", ClassRelative, nil},
	Vh:   {"vh", ClassRelative, nil},
	Vmin: {"vmin", ClassRelative, nil},
	Vmax: {"vmax", ClassRelative, nil},
	Fr:   {"fr", ClassRelative, nil},
}

// byName maps lowercase unit names to units.
var byName = func() map[string]Unit {
	m := make(map[string]Unit, numUnits)
	for u := range numUnits {
		m[strings.ToLower(table[u].name)] = u
	}

	return m
}()

// Parse returns the unit named s, case-insensitively.
// The empty string names [None].
func Parse(s string) (Unit, bool) {
	u, ok := byName[strings.ToLower(s)]

	return u, ok
}

// String returns the suffix rendered after a number carrying u.
func (u Unit) String() string {
	if u >= numUnits {
		return "?"
	}

	return table[u].name
}

// Class returns the dimension class of u.
func (u Unit) Class() Class {
	if u >= numUnits {
		return ClassNone
	}

	return table[u].class
}

// IsAngle reports whether u measures an angle.
func (u Unit) IsAngle() bool { return u.Class() == ClassAngle }

// Comparable reports whether numbers in units a and b can be combined by
// arithmetic or compared: the units are equal, either is unitless, or both
// belong to the same convertible class.
func Comparable(a, b Unit) bool {
	switch {
	case a == b, a == None, b == None:
		return true
	case a.Class() == ClassRelative, b.Class() == ClassRelative:
		return false
	}

	return a.Class() == b.Class()
}

// Ratio returns the factor that converts a magnitude in unit from into unit
// to, i.e. x(from) == x*Ratio(from, to)(to).
//
// Ratio returns 1 when either unit is None, when the units are equal, or when
// the units are not convertible; callers are expected to check [Comparable]
// first.
func Ratio(from, to Unit) *big.Rat {
	if from == to || from == None || to == None {
		return big.NewRat(1, 1)
	}

	f, t := table[from], table[to]
	if f.class != t.class || f.ratio == nil || t.ratio == nil {
		return big.NewRat(1, 1)
	}

	return new(big.Rat).Quo(f.ratio, t.ratio)
}
