package usecase

const cnpjLength = 14

// NormalizeCNPJ drops punctuation, keeping only digits.
func NormalizeCNPJ(raw string) string {
	return digitsOnly(raw)
}

func digitsOnly(raw string) string {
	digits := make([]rune, 0, len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	return string(digits)
}

// ValidateCNPJ checks length and both check digits of a CNPJ. Formatting
// characters are ignored.
func ValidateCNPJ(raw string) bool {
	cnpj := NormalizeCNPJ(raw)
	if len(cnpj) != cnpjLength {
		return false
	}

	allSame := true
	for i := 1; i < cnpjLength; i++ {
		if cnpj[i] != cnpj[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	first := cnpjCheckDigit(cnpj[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	second := cnpjCheckDigit(cnpj[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	return int(cnpj[12]-'0') == first && int(cnpj[13]-'0') == second
}

func cnpjCheckDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
