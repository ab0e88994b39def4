package identifier

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"formatted", "529.982.247-25", true},
		{"digits only", "52998224725", true},
		{"second check digit wrong", "529.982.247-24", false},
		{"first check digit wrong", "529.982.247-15", false},
		{"invalid", "123.456.789-00", false},
		{"all same digit", "111.111.111-11", false},
		{"too short", "5299822472", false},
		{"too long", "529982247250", false},
		{"empty", "", false},
		{"letters", "abc.def.ghi-jk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCPF(tt.input))
		})
	}
}

func TestValidateCNPJ(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"formatted", "11.222.333/0001-81", true},
		{"digits only", "11222333000181", true},
		{"second check digit wrong", "11.222.333/0001-82", false},
		{"first check digit wrong", "11.222.333/0001-91", false},
		{"all same digit", "00.000.000/0000-00", false},
		{"cpf length", "52998224725", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCNPJ(tt.input))
		})
	}
}

func TestFormatDocuments(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	assert.Equal(t, "529.982.247-25", FormatCPF("529 982 247 25"))
	assert.Equal(t, "1234", FormatCPF("1234"))

	assert.Equal(t, "11.222.333/0001-81", FormatCNPJ("11222333000181"))
	assert.Equal(t, "11.222.333/0001-81", FormatCNPJ("11.222.333.0001.81"))
	assert.Equal(t, "112223", FormatCNPJ("112223"))
}

func TestCompleteDocuments(t *testing.T) {
	cpf, err := CompleteCPF("529.982.247")
	require.NoError(t, err)
	assert.Equal(t, "52998224725", cpf)

	cnpj, err := CompleteCNPJ("11.222.333/0001")
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", cnpj)

	_, err = CompleteCPF("123")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "123", verr.Input)

	_, err = CompleteCNPJ("1234567890123")
	require.ErrorAs(t, err, &verr)
}

func TestIdentifyKind(t *testing.T) {
	assert.Equal(t, KindCPF, IdentifyKind("529.982.247-25"))
	assert.Equal(t, KindCNPJ, IdentifyKind("11.222.333/0001-81"))
	assert.Equal(t, KindNone, IdentifyKind("123.456.789-00"))
	assert.Equal(t, KindNone, IdentifyKind("1234567890123"))
	assert.Equal(t, KindNone, IdentifyKind(""))
}

func randomDigits(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rng.Intn(10))
	}
	return string(b)
}

// flipDigit replaces the digit at i with a different one.
func flipDigit(s string, i int, rng *rand.Rand) string {
	old := int(s[i] - '0')
	next := (old + 1 + rng.Intn(9)) % 10
	return s[:i] + strconv.Itoa(next) + s[i+1:]
}

func TestCPFGeneratedNumbersValidate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	tampered, rejected := 0, 0
	for n := 0; n < 2000; n++ {
		cpf, err := CompleteCPF(randomDigits(rng, 9))
		require.NoError(t, err)
		if isAllSameDigit(cpf) {
			continue
		}
		require.True(t, ValidateCPF(cpf), "generated CPF %s must validate", cpf)

		// Check digits are unique per base, so changing either must fail.
		assert.False(t, ValidateCPF(flipDigit(cpf, 9, rng)), cpf)
		assert.False(t, ValidateCPF(flipDigit(cpf, 10, rng)), cpf)

		tampered++
		if !ValidateCPF(flipDigit(cpf, rng.Intn(9), rng)) {
			rejected++
		}
	}

	assert.Greater(t, float64(rejected)/float64(tampered), 0.85)
}

func TestCNPJGeneratedNumbersValidate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	tampered, rejected := 0, 0
	for n := 0; n < 2000; n++ {
		cnpj, err := CompleteCNPJ(randomDigits(rng, 12))
		require.NoError(t, err)
		if isAllSameDigit(cnpj) {
			continue
		}
		require.True(t, ValidateCNPJ(cnpj), "generated CNPJ %s must validate", cnpj)

		assert.False(t, ValidateCNPJ(flipDigit(cnpj, 12, rng)), cnpj)
		assert.False(t, ValidateCNPJ(flipDigit(cnpj, 13, rng)), cnpj)

		tampered++
		if !ValidateCNPJ(flipDigit(cnpj, rng.Intn(12), rng)) {
			rejected++
		}
	}

	assert.Greater(t, float64(rejected)/float64(tampered), 0.85)
}
