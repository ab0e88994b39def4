// Package identifier finds, validates and formats the Brazilian identifiers
// accepted by the consultation tools: CPF and CNPJ documents and CNJ
// process numbers.
//
// All functions are stateless and safe for concurrent use.
package identifier

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies the family of an identifier. Kinds can be OR-ed together to
// ask the extraction functions for more than one family at once.
type Kind uint8

const (
	KindNone Kind = 0
	KindCPF  Kind = 1 << 0
	KindCNPJ Kind = 1 << 1
	KindCNJ  Kind = 1 << 2

	// KindDocument matches either a CPF or a CNPJ.
	KindDocument = KindCPF | KindCNPJ
	// KindAny matches every supported family.
	KindAny = KindDocument | KindCNJ
)

// Has reports whether k includes every bit of other.
func (k Kind) Has(other Kind) bool {
	return other != KindNone && k&other == other
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindCPF:
		return "CPF"
	case KindCNPJ:
		return "CNPJ"
	case KindCNJ:
		return "CNJ"
	case KindDocument:
		return "DOCUMENT"
	case KindAny:
		return "ANY"
	}

	var parts []string
	for _, single := range []Kind{KindCPF, KindCNPJ, KindCNJ} {
		if k.Has(single) {
			parts = append(parts, single.String())
		}
	}
	return strings.Join(parts, "|")
}

// MarshalText encodes the kind by name so it reads naturally in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names produced by String, case-insensitively.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts user supplied names (cpf, cnpj, cnj, process, document, any)
// to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cpf":
		return KindCPF, nil
	case "cnpj":
		return KindCNPJ, nil
	case "cnj", "process", "processo":
		return KindCNJ, nil
	case "document", "documento":
		return KindDocument, nil
	case "any":
		return KindAny, nil
	}
	return KindNone, fmt.Errorf("unknown identifier kind %q", name)
}

// Identifier is a validated identifier in its canonical formatted and
// digits-only forms.
type Identifier struct {
	Kind      Kind   `json:"kind"`
	Formatted string `json:"formatted"`
	Digits    string `json:"digits"`
}

func (id Identifier) String() string {
	return id.Formatted
}

// ValidationError reports an input from which no valid identifier could be
// derived.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Input, e.Reason)
}

var nonDigit = regexp.MustCompile(`\D`)

// CleanDigits removes every non-numeric character.
func CleanDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// isAllSameDigit checks if all digits in the string are the same
func isAllSameDigit(s string) bool {
	if len(s) == 0 {
		return false
	}

	first := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}

// toDigits converts an already cleaned string to its digit values.
func toDigits(s string) []int {
	digits := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		digits[i] = int(s[i] - '0')
	}
	return digits
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
