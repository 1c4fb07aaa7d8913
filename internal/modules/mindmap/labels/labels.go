// Package labels normalizes model-generated mind-map titles into presentable labels.
package labels

import (
	"regexp"
	"strconv"
	"strings"
)

// MinLength is the shortest label Clean will return in place of the original input.
const MinLength = 2

const romanPattern = `(?:xc|xl|l?x{0,3})(?:ix|iv|v?i{0,3})`

var (
	adminPrefixRe    = regexp.MustCompile(`(?i)^\s*(?:unit|module|chapter|section|topic)\b[\s\-–—]*(?:(\d+(?:\.\d+)*|` + romanPattern + `)\b)?\s*[.:\-–—)]*\s*`)
	numeralDotRe     = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)([.)])?\s*`)
	bulletRe         = regexp.MustCompile(`^\s*(?:[-*•◦▪▸►–—>]+|\(?[a-zA-Z]\))\s+`)
	annotationRe     = regexp.MustCompile(`(?i)\(\s*\d+(?:\.\d+)?\s*(?:lecture|lab|tutorial|contact|credit)?\s*(?:hours?|hrs?|marks?|credits?)\s*\)|\b\d+(?:\.\d+)?\s*(?:lecture|lab|tutorial|contact|credit)?\s*(?:hours?|hrs?|marks?|credits?)\b`)
	annotationLeadRe = regexp.MustCompile(`(?i)^\s*(?:lecture|lab|tutorial|contact|credit)?\s*(?:hours?|hrs?|marks?|credits?)\b`)
	spaceRunRe       = regexp.MustCompile(`\s{2,}`)
	unitNumeralRe    = regexp.MustCompile(`(?i)^\s*(?:unit|module|chapter|section|topic)\b[\s\-–—]*(\d+|` + romanPattern + `)\b`)
	leadNumeralRe    = regexp.MustCompile(`^\s*(\d+)[.)]`)
)

const edgePunct = ":,;- \t\r\n"

// Clean strips administrative boilerplate (unit/module prefixes, numbering, bullets,
// hour and marks annotations) from a raw title. If nothing presentable is left the
// original input is returned unchanged, so Clean never turns a non-empty title into an
// empty one.
func Clean(raw string) string {
	out := Strip(raw)
	if len([]rune(out)) < MinLength {
		return raw
	}
	return out
}

// Strip applies the cleaning steps until they stop changing the text and returns the
// result, which may be empty.
func Strip(raw string) string {
	cur := raw
	for {
		next := stripOnce(cur)
		if next == cur {
			return next
		}
		cur = next
	}
}

func stripOnce(s string) string {
	s = adminPrefixRe.ReplaceAllString(s, "")
	s = stripNumeralPrefix(s)
	s = bulletRe.ReplaceAllString(s, "")
	s = annotationRe.ReplaceAllString(s, " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, edgePunct)
	s = strings.TrimSpace(s)
	return s
}

// stripNumeralPrefix removes "3. ", "3) " and "2.1 " style numbering, but leaves
// "3 hours ..." alone for the annotation step.
func stripNumeralPrefix(s string) string {
	m := numeralDotRe.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	digits := s[m[2]:m[3]]
	hasSep := m[4] >= 0
	if !hasSep && !strings.Contains(digits, ".") {
		return s
	}
	rest := s[m[1]:]
	if annotationLeadRe.MatchString(rest) {
		return s
	}
	return rest
}

// Numeral extracts the unit number a raw title was prefixed with ("Unit IV: ..." -> "4",
// "3. Cells" -> "3"). Roman numerals are converted to arabic. Returns "" when there is none.
func Numeral(raw string) string {
	if m := unitNumeralRe.FindStringSubmatch(raw); m != nil && m[1] != "" {
		if _, err := strconv.Atoi(m[1]); err == nil {
			return m[1]
		}
		if n := romanToInt(m[1]); n > 0 {
			return strconv.Itoa(n)
		}
	}
	if m := leadNumeralRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

func romanToInt(s string) int {
	values := map[byte]int{'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100}
	s = strings.ToLower(strings.TrimSpace(s))
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := values[s[i]]
		if !ok {
			return 0
		}
		if i+1 < len(s) && values[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}
