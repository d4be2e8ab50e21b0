package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrValidation marks a request body whose shape does not match the selected
// operation. It maps to HTTP 400.
var ErrValidation = errors.New("invalid request")

// Request is the parsed, validated form of a POST /bfhl body. The set of
// implementations is closed: FibonacciRequest, PrimeRequest, LCMRequest,
// HCFRequest and AIRequest.
type Request interface {
	Operation() Operation
	// Size is the magnitude of the input: n for fibonacci, the element count
	// for list operations, the prompt length in bytes for AI.
	Size() int
	isRequest()
}

type FibonacciRequest struct {
	N int
}

// PrimeRequest holds only the integer entries of the submitted list.
type PrimeRequest struct {
	Values []int64
}

type LCMRequest struct {
	Values []int64
}

type HCFRequest struct {
	Values []int64
}

type AIRequest struct {
	Prompt string
}

func (FibonacciRequest) Operation() Operation { return OpFibonacci }
func (PrimeRequest) Operation() Operation     { return OpPrime }
func (LCMRequest) Operation() Operation       { return OpLCM }
func (HCFRequest) Operation() Operation       { return OpHCF }
func (AIRequest) Operation() Operation        { return OpAI }

func (r FibonacciRequest) Size() int { return r.N }
func (r PrimeRequest) Size() int     { return len(r.Values) }
func (r LCMRequest) Size() int       { return len(r.Values) }
func (r HCFRequest) Size() int       { return len(r.Values) }
func (r AIRequest) Size() int        { return len(r.Prompt) }

func (FibonacciRequest) isRequest() {}
func (PrimeRequest) isRequest()     {}
func (LCMRequest) isRequest()       {}
func (HCFRequest) isRequest()       {}
func (AIRequest) isRequest()        {}

// ParseRequest decodes a JSON object body and selects the first operation key
// present, in Operations() order. A key counts as present even when its value
// is null. Remaining keys are ignored.
func ParseRequest(body []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object: %v", ErrValidation, err)
	}

	for _, op := range Operations() {
		raw, ok := fields[string(op)]
		if !ok {
			continue
		}
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidation, op, err)
		}
		return parseOperation(op, v)
	}
	return nil, fmt.Errorf("%w: no recognized operation key", ErrValidation)
}

func parseOperation(op Operation, v any) (Request, error) {
	switch op {
	case OpFibonacci:
		num, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: fibonacci must be a number", ErrValidation)
		}
		n, ok := toInt64(num)
		if !ok || n < 0 || n > math.MaxInt {
			return nil, fmt.Errorf("%w: fibonacci must be a non-negative integer", ErrValidation)
		}
		return FibonacciRequest{N: int(n)}, nil

	case OpPrime:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: prime must be an array", ErrValidation)
		}
		values := make([]int64, 0, len(items))
		for _, item := range items {
			num, ok := item.(json.Number)
			if !ok {
				continue
			}
			if n, ok := toInt64(num); ok {
				values = append(values, n)
			}
		}
		return PrimeRequest{Values: values}, nil

	case OpLCM, OpHCF:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be an array", ErrValidation, op)
		}
		values := make([]int64, 0, len(items))
		for i, item := range items {
			num, ok := item.(json.Number)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] must be an integer", ErrValidation, op, i)
			}
			n, ok := toInt64(num)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] must be an integer", ErrValidation, op, i)
			}
			values = append(values, n)
		}
		if op == OpLCM {
			return LCMRequest{Values: values}, nil
		}
		return HCFRequest{Values: values}, nil

	case OpAI:
		prompt, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: AI must be a string", ErrValidation)
		}
		return AIRequest{Prompt: prompt}, nil
	}
	return nil, fmt.Errorf("%w: unsupported operation %q", ErrValidation, op)
}

func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// toInt64 accepts any JSON number with an integral value that fits in an
// int64, so 5, 5.0 and 5e0 are all 5.
func toInt64(num json.Number) (int64, bool) {
	if n, err := num.Int64(); err == nil {
		return n, true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
