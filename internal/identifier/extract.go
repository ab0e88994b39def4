package identifier

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// mustBounded compiles expr so that it only matches at the start of the input
// and never runs into a following digit. Group 1 is the whole identifier; the
// groups of expr follow it.
func mustBounded(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(` + expr + `)(?:\D|$)`)
}

// findBounded returns the submatch indexes of every match of a mustBounded
// pattern that starts and ends on a digit boundary. Index pair 0 spans the
// identifier itself. Matches are tried only where a run of digits begins, so a
// number embedded in a longer run (an 11-digit tail of a CNPJ, say) is never
// reported.
func findBounded(text string, re *regexp.Regexp) [][]int {
	var out [][]int

	for pos := 0; pos < len(text); {
		if !isDigit(text[pos]) || (pos > 0 && isDigit(text[pos-1])) {
			pos++
			continue
		}

		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			pos++
			continue
		}

		groups := loc[2:]
		for i := range groups {
			if groups[i] >= 0 {
				groups[i] += pos
			}
		}
		out = append(out, groups)
		pos = groups[1]
	}
	return out
}

type candidate struct {
	pos int
	id  Identifier
}

func extractDocuments(text string, kind Kind) []candidate {
	var found []candidate

	if kind.Has(KindCPF) {
		for _, loc := range findBounded(text, cpfPattern) {
			if id, ok := documentFromMatch(text[loc[0]:loc[1]], KindCPF); ok {
				found = append(found, candidate{pos: loc[0], id: id})
			}
		}
	}
	if kind.Has(KindCNPJ) {
		for _, loc := range findBounded(text, cnpjPattern) {
			if id, ok := documentFromMatch(text[loc[0]:loc[1]], KindCNPJ); ok {
				found = append(found, candidate{pos: loc[0], id: id})
			}
		}
	}
	return found
}

// ExtractCandidates returns every valid identifier of the requested kind found
// in text, in order of appearance. Repeated identifiers (same digits) are
// reported once, at their first position. It never fails: text without
// identifiers yields an empty slice.
func ExtractCandidates(text string, kind Kind) []Identifier {
	var found []candidate

	if kind&KindDocument != 0 {
		found = append(found, extractDocuments(text, kind)...)
	}
	if kind.Has(KindCNJ) {
		found = append(found, extractCNJ(text)...)
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	seen := make(map[string]bool, len(found))
	ids := make([]Identifier, 0, len(found))
	for _, c := range found {
		if seen[c.id.Digits] {
			continue
		}
		seen[c.id.Digits] = true
		ids = append(ids, c.id)
	}
	return ids
}

// ExtractFirst returns the first identifier of the requested kind in text.
func ExtractFirst(text string, kind Kind) (Identifier, bool) {
	ids := ExtractCandidates(text, kind)
	if len(ids) == 0 {
		return Identifier{}, false
	}
	return ids[0], true
}

// Validate reports whether value is a single valid identifier of kind. It
// accepts formatted and digits-only input and never panics.
func Validate(value string, kind Kind) bool {
	value = strings.TrimSpace(value)
	if value == "" || kind == KindNone {
		return false
	}

	if kind&KindDocument != 0 {
		switch IdentifyKind(value) {
		case KindCPF:
			if kind.Has(KindCPF) && onlyDocumentChars(value) {
				return true
			}
		case KindCNPJ:
			if kind.Has(KindCNPJ) && onlyDocumentChars(value) {
				return true
			}
		}
	}

	if kind.Has(KindCNJ) {
		if _, err := ParseCNJ(value); err == nil {
			return true
		}
	}
	return false
}

// Normalize returns the canonical formatted form of a single CPF, CNPJ or CNJ
// process number. Canonical input is returned unchanged.
func Normalize(value string) (string, error) {
	trimmed := strings.TrimSpace(value)

	switch IdentifyKind(trimmed) {
	case KindCPF:
		if onlyDocumentChars(trimmed) {
			return FormatCPF(trimmed), nil
		}
	case KindCNPJ:
		if onlyDocumentChars(trimmed) {
			return FormatCNPJ(trimmed), nil
		}
	}

	number, err := ParseCNJ(value)
	if err == nil {
		return number.Formatted(), nil
	}
	// a CNJ layout with a bad year or segment reports that reason
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Reason != notCNJ {
		return "", err
	}
	return "", &ValidationError{Input: value, Reason: "no valid CPF, CNPJ or CNJ process number"}
}

// onlyDocumentChars rejects values with anything other than digits and the
// usual CPF/CNPJ separators.
func onlyDocumentChars(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case isDigit(c), c == '.', c == '-', c == '/', c == ' ':
		default:
			return false
		}
	}
	return true
}
