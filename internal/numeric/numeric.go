// Package numeric holds the stateless integer math behind the bfhl operations.
package numeric

import (
	"errors"
	"math/big"
	"math/bits"
)

var (
	// ErrEmptyInput is returned when a reduction is asked to fold an empty sequence.
	ErrEmptyInput = errors.New("empty input")
	// ErrZeroOperand is returned by LCM when any element is zero.
	ErrZeroOperand = errors.New("zero operand")
	// ErrOverflow is returned when a result does not fit in 64 bits.
	ErrOverflow = errors.New("result overflows uint64")
)

// trialDivisionLimit bounds the inputs IsPrime checks by trial division.
// Above it the loop would run up to 2^31 iterations.
const trialDivisionLimit = 1 << 32

// Fibonacci returns the first n terms of 0, 1, 1, 2, 3, ...
// The result is never nil. Negative n yields an empty sequence.
func Fibonacci(n int) []*big.Int {
	if n < 0 {
		n = 0
	}
	seq := make([]*big.Int, 0, n)
	a, b := big.NewInt(0), big.NewInt(1)
	for i := 0; i < n; i++ {
		seq = append(seq, new(big.Int).Set(a))
		a.Add(a, b)
		a, b = b, a
	}
	return seq
}

// IsPrime reports whether n is prime. Values below 2 are never prime.
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n >= trialDivisionLimit {
		// exact for every input below 2^64
		return big.NewInt(n).ProbablyPrime(0)
	}
	for i := int64(2); i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// FilterPrimes returns the prime elements of values in their original order.
func FilterPrimes(values []int64) []int64 {
	primes := make([]int64, 0, len(values))
	for _, v := range values {
		if IsPrime(v) {
			primes = append(primes, v)
		}
	}
	return primes
}

// GCD returns the greatest common divisor of |a| and |b|.
func GCD(a, b int64) uint64 {
	return gcd(abs(a), abs(b))
}

func gcd(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	return gcd(b, a%b)
}

// HCF folds GCD across values. The result is always non-negative.
func HCF(values []int64) (uint64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	acc := abs(values[0])
	for _, v := range values[1:] {
		acc = gcd(acc, abs(v))
	}
	return acc, nil
}

// LCM folds the pairwise least common multiple across values.
// The result is always positive.
func LCM(values []int64) (uint64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	for _, v := range values {
		if v == 0 {
			return 0, ErrZeroOperand
		}
	}

	acc := abs(values[0])
	for _, v := range values[1:] {
		m := abs(v)
		hi, lo := bits.Mul64(acc/gcd(acc, m), m)
		if hi != 0 {
			return 0, ErrOverflow
		}
		acc = lo
	}
	return acc, nil
}

func abs(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}
