package numeric

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestFibonacci_Prefix(t *testing.T) {
	want := []int64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}
	got := Fibonacci(len(want))
	if len(got) != len(want) {
		t.Fatalf("expected %d terms, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Int64() != w {
			t.Errorf("term %d = %s, want %d", i, got[i], w)
		}
	}
}

func TestFibonacci_Zero(t *testing.T) {
	got := Fibonacci(0)
	if got == nil {
		t.Fatal("expected empty non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 terms, got %d", len(got))
	}
}

func TestFibonacci_NegativeIsEmpty(t *testing.T) {
	if got := Fibonacci(-3); len(got) != 0 {
		t.Errorf("expected 0 terms, got %d", len(got))
	}
}

func TestFibonacci_BeyondUint64(t *testing.T) {
	// F(100) = 354224848179261915075
	got := Fibonacci(101)
	want, _ := new(big.Int).SetString("354224848179261915075", 10)
	if got[100].Cmp(want) != 0 {
		t.Errorf("F(100) = %s, want %s", got[100], want)
	}
}

func TestIsPrime(t *testing.T) {
	tests := []struct {
		n     int64
		prime bool
	}{
		{math.MinInt64, false},
		{-7, false},
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{5, true},
		{6, false},
		{7, true},
		{8, false},
		{9, false},
		{11, true},
		{25, false},
		{7919, true},
		{65537, true},
		{4294967291, true},  // largest prime below 2^32
		{4294967297, false}, // 641 * 6700417
		{9223372036854775783, true},
		{math.MaxInt64, false},
	}

	for _, tt := range tests {
		if got := IsPrime(tt.n); got != tt.prime {
			t.Errorf("IsPrime(%d) = %v, want %v", tt.n, got, tt.prime)
		}
	}
}

func TestFilterPrimes(t *testing.T) {
	got := FilterPrimes([]int64{2, 3, 4, 5, 10})
	want := []int64{2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("FilterPrimes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FilterPrimes = %v, want %v", got, want)
		}
	}
}

func TestFilterPrimes_NoneIsEmptyNotNil(t *testing.T) {
	got := FilterPrimes([]int64{1, 4, -3})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestGCD(t *testing.T) {
	tests := []struct {
		a, b int64
		want uint64
	}{
		{12, 18, 6},
		{18, 12, 6},
		{7, 0, 7},
		{0, 7, 7},
		{0, 0, 0},
		{-4, 6, 2},
		{4, -6, 2},
		{math.MinInt64, 0, 1 << 63},
	}

	for _, tt := range tests {
		if got := GCD(tt.a, tt.b); got != tt.want {
			t.Errorf("GCD(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHCF(t *testing.T) {
	tests := []struct {
		values []int64
		want   uint64
	}{
		{[]int64{12, 18}, 6},
		{[]int64{12, 18, 27}, 3},
		{[]int64{17}, 17},
		{[]int64{-17}, 17},
		{[]int64{0, 5}, 5},
		{[]int64{8, 12, 20}, 4},
	}

	for _, tt := range tests {
		got, err := HCF(tt.values)
		if err != nil {
			t.Errorf("HCF(%v) unexpected error: %v", tt.values, err)
			continue
		}
		if got != tt.want {
			t.Errorf("HCF(%v) = %d, want %d", tt.values, got, tt.want)
		}
	}
}

func TestHCF_Empty(t *testing.T) {
	if _, err := HCF(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestLCM(t *testing.T) {
	tests := []struct {
		values []int64
		want   uint64
	}{
		{[]int64{4, 6}, 12},
		{[]int64{2, 3, 4}, 12},
		{[]int64{5}, 5},
		{[]int64{-4, 6}, 12},
		{[]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 2520},
	}

	for _, tt := range tests {
		got, err := LCM(tt.values)
		if err != nil {
			t.Errorf("LCM(%v) unexpected error: %v", tt.values, err)
			continue
		}
		if got != tt.want {
			t.Errorf("LCM(%v) = %d, want %d", tt.values, got, tt.want)
		}
	}
}

func TestLCM_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		want   error
	}{
		{"empty", []int64{}, ErrEmptyInput},
		{"zero", []int64{4, 0, 6}, ErrZeroOperand},
		{"leading zero", []int64{0, 5}, ErrZeroOperand},
		{"trailing zero", []int64{5, 0}, ErrZeroOperand},
		{"all zero", []int64{0, 0}, ErrZeroOperand},
		{"overflow", []int64{math.MaxInt64, math.MaxInt64 - 1}, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LCM(tt.values); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
