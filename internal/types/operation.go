package types

// Operation names one branch of the multiplexed endpoint. The value is the
// request body key that selects it.
type Operation string

const (
	OpFibonacci Operation = "fibonacci"
	OpPrime     Operation = "prime"
	OpLCM       Operation = "lcm"
	OpHCF       Operation = "hcf"
	OpAI        Operation = "AI"
)

// Operations returns every operation in dispatch priority order. When a body
// carries several keys, the first one in this order wins.
func Operations() []Operation {
	return []Operation{OpFibonacci, OpPrime, OpLCM, OpHCF, OpAI}
}

// Valid returns true for the known operations.
func (o Operation) Valid() bool {
	switch o {
	case OpFibonacci, OpPrime, OpLCM, OpHCF, OpAI:
		return true
	default:
		return false
	}
}

// Label returns the metrics/log label for o. Unknown values collapse to "unknown".
func (o Operation) Label() string {
	if !o.Valid() {
		return "unknown"
	}
	return string(o)
}
