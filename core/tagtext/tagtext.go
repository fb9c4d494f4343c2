// Package tagtext parses the "key: value; key: value" debug strings that
// some camera firmwares write into the EXIF UserComment tag.
package tagtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/display"
)

var (
	tupleRe = regexp.MustCompile(`^\(\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\)$`)
	intRe   = regexp.MustCompile(`^-?\d+$`)
	floatRe = regexp.MustCompile(`^-?\d+\.\d+$`)
)

// Parse splits text on ';' into key/value pairs. Segments without ':' are
// skipped. Keys are translated through names; values are coerced by
// ParseValue. A repeated key keeps its first position and its last value.
func Parse(text string, names display.Table) *core.Record {
	rec := core.NewRecord()
	for _, seg := range strings.Split(text, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key, value, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		rec.Set(names.Translate(strings.TrimSpace(key)), ParseValue(value))
	}
	return rec
}

// ParseValue coerces a single debug value. It returns nil for "null" or an
// empty value, core.Tuple for "(x, y)", int64 or float64 for numbers and
// the trimmed string otherwise.
func ParseValue(raw string) any {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	if m := tupleRe.FindStringSubmatch(v); m != nil {
		x, errX := strconv.ParseFloat(m[1], 64)
		y, errY := strconv.ParseFloat(m[2], 64)
		if errX == nil && errY == nil {
			return core.Tuple{x, y}
		}
	}
	if intRe.MatchString(v) {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if floatRe.MatchString(v) || intRe.MatchString(v) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

// Join renders rec as "key: value" lines separated by newlines. Absent
// values print as null.
func Join(rec *core.Record) string {
	lines := make([]string, 0, rec.Len())
	for _, f := range rec.Fields() {
		lines = append(lines, f.Key+": "+formatValue(f.Value))
	}
	return strings.Join(lines, "\n")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case float64:
		return core.FormatFloat(val)
	default:
		return fmt.Sprint(val)
	}
}
