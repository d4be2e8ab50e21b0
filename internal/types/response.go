package types

// Envelope is the uniform response body of every endpoint. Failures carry
// only IsSuccess=false.
type Envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email,omitempty"`
	// Data is omitted only when nil; empty slices and zero values are kept.
	Data any `json:"data,omitempty"`
}

func Success(email string, data any) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email, Data: data}
}

func Health(email string) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email}
}

func Failure() Envelope {
	return Envelope{IsSuccess: false}
}
