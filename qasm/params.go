package qasm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const number = `(\d+(?:\.\d*)?|\.\d+)`

// piExpr matches [sign] [k[*]] pi [*k] [/d], e.g. "-3*pi/4", "2pi", "pi*3 / 2".
var piExpr = regexp.MustCompile(`^([+-]?)\s*(?:` + number + `\s*\*?\s*)?pi(?:\s*\*\s*` + number + `)?(?:\s*/\s*` + number + `)?$`)

// ParseParam parses a gate parameter: a finite decimal number or a rational
// multiple of pi. It reports false for anything else, including a zero
// denominator. The fractions FormatParam writes symbolically parse to the
// correctly rounded value, the same float as the Go constant, e.g. math.Pi/3.
func ParseParam(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	}

	m := piExpr.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	num, den := factor(m[2])*factor(m[3]), factor(m[4])
	if den == 0 {
		return 0, false
	}
	v := math.Pi * num / den
	for _, pf := range piForms {
		if pf.num == num && pf.den == den {
			v = pf.value
			break
		}
	}
	if m[1] == "-" {
		v = -v
	}
	return v, true
}

// factor reads an optional numeric factor matched by piExpr; absent is 1.
func factor(s string) float64 {
	if s == "" {
		return 1
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// ParseParams parses a comma-separated parameter list. Empty items are
// skipped; it returns nil when any item fails to parse.
func ParseParams(input string) []float64 {
	var params []float64
	for part := range strings.SplitSeq(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		val, ok := ParseParam(part)
		if !ok {
			return nil
		}
		params = append(params, val)
	}
	return params
}

// piForm is num*pi/den. value is the constant expression, which can differ
// from the run-time product by an ulp.
type piForm struct {
	num, den float64
	value    float64
	display  string
}

// piForms lists the pi multiples FormatParam writes symbolically.
var piForms = []piForm{
	{2, 1, 2 * math.Pi, "2*pi"},
	{1, 1, math.Pi, "pi"},
	{1, 2, math.Pi / 2, "pi/2"},
	{1, 3, math.Pi / 3, "pi/3"},
	{1, 4, math.Pi / 4, "pi/4"},
	{1, 6, math.Pi / 6, "pi/6"},
	{1, 8, math.Pi / 8, "pi/8"},
	{3, 4, 3 * math.Pi / 4, "3*pi/4"},
	{3, 2, 3 * math.Pi / 2, "3*pi/2"},
	{2, 3, 2 * math.Pi / 3, "2*pi/3"},
}

// FormatParam formats a parameter, using pi notation only for values that are
// exactly one of the common pi fractions, and the shortest decimal otherwise.
// ParseParam(FormatParam(v)) == v for every finite v.
func FormatParam(val float64) string {
	for _, pf := range piForms {
		if val == pf.value {
			return pf.display
		}
		if val == -pf.value {
			return "-" + pf.display
		}
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}
