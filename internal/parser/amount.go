package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Unicode separators count as whitespace, so "1\u00a01/2" reads like "1 1/2".
const space = `[\s\p{Z}\x{FEFF}]`

const vulgarClass = `[\x{00BC}-\x{00BE}\x{2150}-\x{215E}]`

var vulgarFractions = map[rune]float64{
	'¼': 1.0 / 4,
	'½': 1.0 / 2,
	'¾': 3.0 / 4,
	'⅐': 1.0 / 7,
	'⅑': 1.0 / 9,
	'⅒': 1.0 / 10,
	'⅓': 1.0 / 3,
	'⅔': 2.0 / 3,
	'⅕': 1.0 / 5,
	'⅖': 2.0 / 5,
	'⅗': 3.0 / 5,
	'⅘': 4.0 / 5,
	'⅙': 1.0 / 6,
	'⅚': 5.0 / 6,
	'⅛': 1.0 / 8,
	'⅜': 3.0 / 8,
	'⅝': 5.0 / 8,
	'⅞': 7.0 / 8,
}

type amountRule struct {
	pattern *regexp.Regexp
	factor  func(m []string) float64
}

// Tried in order; the first match wins. None accepts a leading minus.
var amountRules = []amountRule{
	// 1 1/2
	{regexp.MustCompile(`^(\d+)` + space + `+(\d+)` + space + `*/` + space + `*(\d+)` + space + `*(?P<unit>.*)?$`), func(m []string) float64 {
		return number(m[1]) + number(m[2])/number(m[3])
	}},
	// 1 ½
	{regexp.MustCompile(`^(\d+)` + space + `+(` + vulgarClass + `)` + space + `*(?P<unit>.*)?$`), func(m []string) float64 {
		return number(m[1]) + vulgar(m[2])
	}},
	// 5/6
	{regexp.MustCompile(`^(\d+)` + space + `*/` + space + `*(\d+)` + space + `*(?P<unit>.*)?$`), func(m []string) float64 {
		return number(m[1]) / number(m[2])
	}},
	// ⅚
	{regexp.MustCompile(`^(` + vulgarClass + `)` + space + `*(?P<unit>.*)?$`), func(m []string) float64 {
		return vulgar(m[1])
	}},
	// 5,4 or 5.6
	{regexp.MustCompile(`^(\d*)[.,](\d+)` + space + `*(?P<unit>.*)?$`), func(m []string) float64 {
		return number(m[1] + "." + m[2])
	}},
	// 4
	{regexp.MustCompile(`^(\d+)` + space + `*(?P<unit>.*)?$`), func(m []string) float64 {
		return number(m[1])
	}},
}

// ParseAmount parses a quantity such as "1 1/2 cups", "⅚" or "2,5 kg".
// Text that matches no numeric form becomes a unit-only amount.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	for _, rule := range amountRules {
		m := rule.pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		factor := rule.factor(m)
		return Amount{
			Factor: &factor,
			Unit:   strings.TrimSpace(m[rule.pattern.SubexpIndex("unit")]),
		}
	}
	return Amount{Unit: s}
}

// number parses a run of ASCII digits, optionally with one '.'. Overlong
// runs saturate to +Inf.
func number(digits string) float64 {
	f, _ := strconv.ParseFloat(digits, 64)
	return f
}

func vulgar(glyph string) float64 {
	for _, r := range glyph {
		return vulgarFractions[r]
	}
	return 0
}
