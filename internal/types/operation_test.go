package types

import "testing"

func TestOperationsPriorityOrder(t *testing.T) {
	want := []Operation{OpFibonacci, OpPrime, OpLCM, OpHCF, OpAI}
	got := Operations()
	if len(got) != len(want) {
		t.Fatalf("expected %d operations, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Operations()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestOperationLabel(t *testing.T) {
	tests := []struct {
		op    Operation
		label string
	}{
		{OpFibonacci, "fibonacci"},
		{OpAI, "AI"},
		{Operation("ai"), "unknown"},
		{Operation(""), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.Label(); got != tt.label {
			t.Errorf("%q.Label() = %q, want %q", tt.op, got, tt.label)
		}
	}
}
