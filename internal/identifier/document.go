package identifier

import "strconv"

const (
	cpfLength  = 11
	cnpjLength = 14
)

var (
	// Separators are optional and may be inconsistent ("123.456789-09").
	cpfPattern  = mustBounded(`\d{3}[.\s]?\d{3}[.\s]?\d{3}[-.\s]?\d{2}`)
	cnpjPattern = mustBounded(`\d{2}[.\s]?\d{3}[.\s]?\d{3}[/.\s]?\d{4}[-.\s]?\d{2}`)

	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// FormatCPF formats a CPF as XXX.XXX.XXX-XX. Inputs without exactly 11 digits
// are returned unchanged.
func FormatCPF(cpf string) string {
	cleaned := CleanDigits(cpf)
	if len(cleaned) != cpfLength {
		return cpf
	}

	return cleaned[:3] + "." + cleaned[3:6] + "." + cleaned[6:9] + "-" + cleaned[9:11]
}

// FormatCNPJ formats CNPJ with dots, slash and dash (XX.XXX.XXX/XXXX-XX)
func FormatCNPJ(cnpj string) string {
	cleaned := CleanDigits(cnpj)
	if len(cleaned) != cnpjLength {
		return cnpj // Return original if invalid length
	}

	return cleaned[:2] + "." + cleaned[2:5] + "." + cleaned[5:8] + "/" + cleaned[8:12] + "-" + cleaned[12:14]
}

// ValidateCPF validates a CPF using the official weighted-sum algorithm.
// Formatting characters are ignored.
func ValidateCPF(cpf string) bool {
	cleaned := CleanDigits(cpf)

	if len(cleaned) != cpfLength || isAllSameDigit(cleaned) {
		return false
	}

	digits := toDigits(cleaned)
	return cpfCheckDigit(digits, 9) == digits[9] && cpfCheckDigit(digits, 10) == digits[10]
}

// ValidateCNPJ validates CNPJ using the official algorithm
func ValidateCNPJ(cnpj string) bool {
	cleaned := CleanDigits(cnpj)

	// Check length
	if len(cleaned) != cnpjLength {
		return false
	}

	// Check if all digits are the same
	if isAllSameDigit(cleaned) {
		return false
	}

	digits := toDigits(cleaned)

	// Validate first check digit
	if calculateCheckDigit(digits[:12], cnpjFirstWeights) != digits[12] {
		return false
	}

	// Validate second check digit
	return calculateCheckDigit(digits[:13], cnpjSecondWeights) == digits[13]
}

// CompleteCPF appends the two check digits to a 9-digit CPF base.
func CompleteCPF(base string) (string, error) {
	cleaned := CleanDigits(base)
	if len(cleaned) != 9 {
		return "", &ValidationError{Input: base, Reason: "CPF base must have 9 digits"}
	}

	digits := append(toDigits(cleaned), 0, 0)
	digits[9] = cpfCheckDigit(digits, 9)
	digits[10] = cpfCheckDigit(digits, 10)

	return cleaned + strconv.Itoa(digits[9]) + strconv.Itoa(digits[10]), nil
}

// CompleteCNPJ appends the two check digits to a 12-digit CNPJ base.
func CompleteCNPJ(base string) (string, error) {
	cleaned := CleanDigits(base)
	if len(cleaned) != 12 {
		return "", &ValidationError{Input: base, Reason: "CNPJ base must have 12 digits"}
	}

	digits := toDigits(cleaned)

	// Calculate first check digit
	firstCheck := calculateCheckDigit(digits, cnpjFirstWeights)

	// Add first check digit and calculate second
	digits = append(digits, firstCheck)
	secondCheck := calculateCheckDigit(digits, cnpjSecondWeights)

	return cleaned + strconv.Itoa(firstCheck) + strconv.Itoa(secondCheck), nil
}

// IdentifyKind classifies a document by digit count and check digits: 11 valid
// digits are a CPF, 14 valid digits a CNPJ. Anything else is KindNone.
func IdentifyKind(document string) Kind {
	cleaned := CleanDigits(document)

	switch len(cleaned) {
	case cpfLength:
		if ValidateCPF(cleaned) {
			return KindCPF
		}
	case cnpjLength:
		if ValidateCNPJ(cleaned) {
			return KindCNPJ
		}
	}
	return KindNone
}

// cpfCheckDigit computes the CPF check digit at position n (9 or 10) from the
// n digits before it: ((sum of d[i]*(n+1-i)) * 10 mod 11) mod 10.
func cpfCheckDigit(digits []int, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += digits[i] * (n + 1 - i)
	}
	return (sum * 10 % 11) % 10
}

// calculateCheckDigit calculates check digit using given weights
func calculateCheckDigit(digits []int, weights []int) int {
	sum := 0
	for i, digit := range digits {
		sum += digit * weights[i]
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// documentFromMatch turns a pattern match into an Identifier of the wanted
// kind, or reports false when the check digits fail.
func documentFromMatch(match string, kind Kind) (Identifier, bool) {
	digits := CleanDigits(match)

	switch kind {
	case KindCPF:
		if len(digits) == cpfLength && ValidateCPF(digits) {
			return Identifier{Kind: KindCPF, Formatted: FormatCPF(digits), Digits: digits}, true
		}
	case KindCNPJ:
		if len(digits) == cnpjLength && ValidateCNPJ(digits) {
			return Identifier{Kind: KindCNPJ, Formatted: FormatCNPJ(digits), Digits: digits}, true
		}
	}
	return Identifier{}, false
}
