package identifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// First year of the unified numbering (Resolution CNJ 65/2008 back-fills
	// from 1998).
	cnjFirstYear = 1998
)

var (
	cnjStrict = mustBounded(`(\d{7})-?(\d{2})\.?(\d{4})\.?(\d)\.?(\d{2})\.?(\d{4})`)
	cnjLoose  = mustBounded(`(\d{1,7})[-.\s]*(\d{2})[-.\s]*(\d{4})[-.\s]*(\d)[-.\s]*(\d{2})[-.\s]*(\d{4})`)
	cnjFlat   = mustBounded(`\d{20}`)

	// J field of NNNNNNN-DD.AAAA.J.TR.OOOO
	validSegments = map[int]bool{1: true, 2: true, 3: true, 4: true, 6: true, 8: true, 9: true}
)

// CNJNumber holds the six fields of a unified CNJ process number
// (NNNNNNN-DD.AAAA.J.TR.OOOO). Fields keep their zero padding.
type CNJNumber struct {
	Sequential  string `json:"sequential"`
	CheckDigits string `json:"check_digits"`
	Year        string `json:"year"`
	Segment     string `json:"segment"`
	Court       string `json:"court"`
	Origin      string `json:"origin"`
}

// Formatted returns the canonical NNNNNNN-DD.AAAA.J.TR.OOOO form.
func (n CNJNumber) Formatted() string {
	return fmt.Sprintf("%s-%s.%s.%s.%s.%s", n.Sequential, n.CheckDigits, n.Year, n.Segment, n.Court, n.Origin)
}

// Digits returns the 20 digits without separators.
func (n CNJNumber) Digits() string {
	return n.Sequential + n.CheckDigits + n.Year + n.Segment + n.Court + n.Origin
}

// Identifier converts the number to an Identifier of KindCNJ.
func (n CNJNumber) Identifier() Identifier {
	return Identifier{Kind: KindCNJ, Formatted: n.Formatted(), Digits: n.Digits()}
}

// validate checks the structural rules: year range and segment code. The check
// digits are not verified.
func (n CNJNumber) validate() error {
	year, err := strconv.Atoi(n.Year)
	if err != nil {
		return fmt.Errorf("year %q is not numeric", n.Year)
	}
	if year < cnjFirstYear || year > time.Now().Year()+1 {
		return fmt.Errorf("year %d out of range", year)
	}

	segment, err := strconv.Atoi(n.Segment)
	if err != nil || !validSegments[segment] {
		return fmt.Errorf("segment %q is not a valid judicial segment", n.Segment)
	}
	return nil
}

// ParseCNJ parses a single process number in any accepted layout (formatted,
// loosely separated or 20 flat digits) and validates its year and segment.
func ParseCNJ(text string) (CNJNumber, error) {
	trimmed := strings.TrimSpace(text)

	for _, tier := range []func(string) []cnjMatch{strictCNJ, looseCNJ, flatCNJ} {
		for _, m := range tier(trimmed) {
			if m.start != 0 || m.end != len(trimmed) {
				continue
			}
			if err := m.number.validate(); err != nil {
				return CNJNumber{}, &ValidationError{Input: text, Reason: err.Error()}
			}
			return m.number, nil
		}
	}
	return CNJNumber{}, &ValidationError{Input: text, Reason: notCNJ}
}

const notCNJ = "not a CNJ process number"

type cnjMatch struct {
	start, end int
	number     CNJNumber
}

func strictCNJ(text string) []cnjMatch {
	return scanCNJ(text, cnjStrict, func(groups []string) CNJNumber {
		return CNJNumber{groups[1], groups[2], groups[3], groups[4], groups[5], groups[6]}
	})
}

func looseCNJ(text string) []cnjMatch {
	return scanCNJ(text, cnjLoose, func(groups []string) CNJNumber {
		return CNJNumber{strings.Repeat("0", 7-len(groups[1])) + groups[1], groups[2], groups[3], groups[4], groups[5], groups[6]}
	})
}

func flatCNJ(text string) []cnjMatch {
	return scanCNJ(text, cnjFlat, func(groups []string) CNJNumber {
		d := groups[0]
		return CNJNumber{d[0:7], d[7:9], d[9:13], d[13:14], d[14:16], d[16:20]}
	})
}

// scanCNJ returns every digit-bounded match of re in text, structurally valid
// or not. Callers decide what to do with invalid numbers.
func scanCNJ(text string, re *regexp.Regexp, build func([]string) CNJNumber) []cnjMatch {
	var matches []cnjMatch
	for _, loc := range findBounded(text, re) {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
		matches = append(matches, cnjMatch{start: loc[0], end: loc[1], number: build(groups)})
	}
	return matches
}

// extractCNJ runs the tiers in order and keeps the valid candidates of the
// first tier that yields any.
func extractCNJ(text string) []candidate {
	for _, tier := range []func(string) []cnjMatch{strictCNJ, looseCNJ, flatCNJ} {
		var found []candidate
		for _, m := range tier(text) {
			if m.number.validate() != nil {
				continue
			}
			found = append(found, candidate{pos: m.start, id: m.number.Identifier()})
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}
