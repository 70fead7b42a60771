package sorting

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/arthur-debert/nanoref/types"
)

type valueKind int

const (
	kindMissing valueKind = iota
	kindNumber
	kindBool
	kindTime
	kindString
)

// fieldValue is a document field classified for comparison
type fieldValue struct {
	kind valueKind
	num  float64
	b    bool
	t    time.Time
	str  string
}

// Compare orders two documents by the given field, returning -1, 0 or
// 1. Documents missing the field (or carrying nil) compare after those
// that have it. Strings order through the collator, numbers by native
// value, booleans false before true, times chronologically. Values of
// different kinds fall back to normalized string comparison.
func (a *Analyzer) Compare(x, y types.Document, field string) int {
	vx := classifyField(x, field)
	vy := classifyField(y, field)

	if vx.kind == kindMissing || vy.kind == kindMissing {
		switch {
		case vx.kind == vy.kind:
			return 0
		case vx.kind == kindMissing:
			return 1
		default:
			return -1
		}
	}

	if vx.kind != vy.kind {
		return a.collator.CompareString(valueString(vx), valueString(vy))
	}

	switch vx.kind {
	case kindNumber:
		switch {
		case vx.num < vy.num:
			return -1
		case vx.num > vy.num:
			return 1
		default:
			return 0
		}
	case kindBool:
		switch {
		case vx.b == vy.b:
			return 0
		case !vx.b:
			return -1
		default:
			return 1
		}
	case kindTime:
		switch {
		case vx.t.Before(vy.t):
			return -1
		case vx.t.After(vy.t):
			return 1
		default:
			return 0
		}
	default:
		return a.collator.CompareString(vx.str, vy.str)
	}
}

// classifyField fetches and classifies a document field for comparison
func classifyField(doc types.Document, field string) fieldValue {
	v, ok := doc.Field(field)
	if !ok || v == nil {
		return fieldValue{kind: kindMissing}
	}

	switch tv := v.(type) {
	case time.Time:
		return fieldValue{kind: kindTime, t: tv}
	case bool:
		return fieldValue{kind: kindBool, b: tv}
	case string:
		if t, ok := parseTimeString(tv); ok {
			return fieldValue{kind: kindTime, t: t}
		}
		return fieldValue{kind: kindString, str: tv}
	}

	if n, err := cast.ToFloat64E(v); err == nil {
		return fieldValue{kind: kindNumber, num: n}
	}
	return fieldValue{kind: kindString, str: fmt.Sprintf("%v", v)}
}

// parseTimeString probes a string against common datetime layouts so
// stored datetime strings order chronologically
func parseTimeString(s string) (time.Time, bool) {
	for _, format := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// valueString normalizes a classified value for mixed-kind comparison.
// Times use RFC3339Nano so chronological and lexical order agree.
func valueString(v fieldValue) string {
	switch v.kind {
	case kindTime:
		return v.t.Format(time.RFC3339Nano)
	case kindNumber:
		return fmt.Sprintf("%v", v.num)
	case kindBool:
		return fmt.Sprintf("%v", v.b)
	default:
		return v.str
	}
}
