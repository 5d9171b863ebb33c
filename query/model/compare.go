package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numericTextRE = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

type normKind uint8

const (
	normNull normKind = iota
	normNumber
	normText
)

type normalized struct {
	kind normKind
	num  float64
	text string
}

// Normalize maps a value onto the domain used for every loose comparison:
// absent and null become negative infinity, numeric-looking text and
// booleans become numbers, other text stays text.
func Normalize(v Value) (num float64, text string, isNumber bool) {
	n := normalize(v)
	switch n.kind {
	case normNull:
		return math.Inf(-1), "", true
	case normNumber:
		return n.num, "", true
	default:
		return 0, n.text, false
	}
}

func normalize(v Value) normalized {
	switch v.kind {
	case KindInt:
		return normalized{kind: normNumber, num: float64(v.i)}
	case KindFloat:
		return normalized{kind: normNumber, num: v.f}
	case KindBool:
		if v.b {
			return normalized{kind: normNumber, num: 1}
		}
		return normalized{kind: normNumber, num: 0}
	case KindText:
		if numericTextRE.MatchString(v.text) {
			if f, err := strconv.ParseFloat(v.text, 64); err == nil {
				return normalized{kind: normNumber, num: f}
			}
		}
		return normalized{kind: normText, text: v.text}
	default:
		return normalized{kind: normNull, num: math.Inf(-1)}
	}
}

// LooseEqual reports whether a and b are equal after normalization.
// Absent and null are equal to each other and to nothing else.
func LooseEqual(a, b Value) bool {
	c, ok := LooseCompare(a, b)
	return ok && c == 0
}

// LooseCompare orders a against b after normalization. ok is false when
// the two cannot be ordered: text against a number or against null.
func LooseCompare(a, b Value) (cmp int, ok bool) {
	na, nb := normalize(a), normalize(b)
	switch {
	case na.kind == normText && nb.kind == normText:
		return strings.Compare(na.text, nb.text), true
	case na.kind == normText || nb.kind == normText:
		return 0, false
	case na.kind == normNull && nb.kind == normNull:
		return 0, true
	}
	// Null is negative infinity from here on.
	switch {
	case na.num < nb.num:
		return -1, true
	case na.num > nb.num:
		return 1, true
	default:
		return 0, true
	}
}

// CompareOrder is the total order used for sorting: null and absent first,
// then numbers, then text.
func CompareOrder(a, b Value) int {
	if c, ok := LooseCompare(a, b); ok {
		return c
	}
	na, nb := normalize(a), normalize(b)
	if na.kind < nb.kind {
		return -1
	}
	if na.kind > nb.kind {
		return 1
	}
	return 0
}

// Satisfies reports whether an actual value passes a comparator against
// an expected value. Incomparable pairs only satisfy the inequality comparators.
func Satisfies(actual Value, comparator Comparator, expected Value) bool {
	c, ok := LooseCompare(actual, expected)
	switch comparator.OrDefault() {
	case Equal:
		return ok && c == 0
	case NotEqual, NotEqualLtGt:
		return !ok || c != 0
	case Less:
		return ok && c < 0
	case LessOrEqual:
		return ok && c <= 0
	case Greater:
		return ok && c > 0
	case GreaterOrEqual:
		return ok && c >= 0
	}
	return false
}

// Contains reports whether v loosely equals one of values.
func Contains(values []Value, v Value) bool {
	for _, candidate := range values {
		if LooseEqual(v, candidate) {
			return true
		}
	}
	return false
}
