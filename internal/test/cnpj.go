package test

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomCNPJ returns a pseudo-random CNPJ with valid check digits and the
// 0001 head-office branch.
func RandomCNPJ() string {
	rngMu.Lock()
	base := strconv.Itoa(10_000_000 + rng.Intn(89_999_999))
	rngMu.Unlock()

	digits := base + "0001"
	digits += strconv.Itoa(checkDigit(digits, []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}))
	digits += strconv.Itoa(checkDigit(digits, []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}))
	return digits
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	if rem := sum % 11; rem >= 2 {
		return 11 - rem
	}
	return 0
}
