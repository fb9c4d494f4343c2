// Package geo converts EXIF GPS data to decimal coordinates and resolves
// coordinates to place descriptions.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnresolved is returned when GPS info cannot be turned into a Coordinate.
var ErrUnresolved = errors.New("gps: unresolved coordinate")

// GPS IFD tag numbers used for conversion.
const (
	TagLatitudeRef  uint16 = 1
	TagLatitude     uint16 = 2
	TagLongitudeRef uint16 = 3
	TagLongitude    uint16 = 4
)

// Rational is an unsigned EXIF rational kept as read, so that a zero
// denominator survives until conversion.
type Rational struct {
	Num int64
	Den int64
}

// Float returns the value of r; ok is false for a zero denominator.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

func (r Rational) String() string {
	if f, ok := r.Float(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// MarshalJSON encodes r as a number, or as "num/den" when it has no value.
func (r Rational) MarshalJSON() ([]byte, error) {
	if f, ok := r.Float(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(r.String())
}

// Info is the raw GPS sub-IFD keyed by tag number. Reference tags hold a
// string, position tags hold []Rational; other tags hold whatever the
// decoder produced.
type Info map[uint16]any

func (g Info) sortedKeys() []uint16 {
	keys := make([]uint16, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (g Info) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range g.sortedKeys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: %s", k, formatValue(g[k]))
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes g as an object keyed by the decimal tag number.
func (g Info) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(g))
	for k, v := range g {
		m[strconv.Itoa(int(k))] = v
	}
	return json.Marshal(m)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []Rational:
		parts := make([]string, len(val))
		for i, r := range val {
			parts[i] = r.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// Coordinate is a position in signed decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lon)
}

// ToDecimalDegrees converts degrees, minutes and seconds to decimal degrees,
// negative for the southern and western hemispheres.
func ToDecimalDegrees(deg, minutes, seconds float64, ref string) float64 {
	d := deg + minutes/60 + seconds/3600
	if ref == "S" || ref == "W" {
		d = -d
	}
	return d
}

// Coordinates converts the latitude and longitude entries of g.
func Coordinates(g Info) (Coordinate, error) {
	lat, err := axis(g, TagLatitudeRef, TagLatitude)
	if err != nil {
		return Coordinate{}, err
	}
	lon, err := axis(g, TagLongitudeRef, TagLongitude)
	if err != nil {
		return Coordinate{}, err
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

func axis(g Info, refTag, dmsTag uint16) (float64, error) {
	ref, ok := g[refTag].(string)
	if !ok {
		return 0, fmt.Errorf("%w: tag %d is not a reference", ErrUnresolved, refTag)
	}
	dms, ok := g[dmsTag].([]Rational)
	if !ok || len(dms) != 3 {
		return 0, fmt.Errorf("%w: tag %d is not a DMS triple", ErrUnresolved, dmsTag)
	}
	var parts [3]float64
	for i, r := range dms {
		f, ok := r.Float()
		if !ok {
			return 0, fmt.Errorf("%w: tag %d has a zero denominator", ErrUnresolved, dmsTag)
		}
		parts[i] = f
	}
	return ToDecimalDegrees(parts[0], parts[1], parts[2], strings.TrimSpace(ref)), nil
}
