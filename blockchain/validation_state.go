// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

// ValidationState carries the outcome of a consensus check. A zero-value
// ValidationState is valid (IsValid returns true); Invalid populates the
// rejection details.
type ValidationState struct {
	valid bool

	// DoSScore is the misbehavior-penalty weight of this rejection.
	DoSScore int

	// RejectCode is a short machine-readable rejection string, drawn
	// from the fixed vocabulary enumerated in the error-handling design
	// (e.g. "bad-txns-vin-empty").
	RejectCode string

	// Reason is a human-readable elaboration of RejectCode.
	Reason string

	// Corruption marks a rejection caused by malformed internal state
	// rather than adversarial input, e.g. a truncated cache record.
	Corruption bool
}

// Valid returns a ValidationState representing acceptance.
func Valid() ValidationState {
	return ValidationState{valid: true}
}

// Invalid returns a ValidationState rejecting a transaction with the
// given DoS score, reject code and human-readable reason.
func Invalid(dosScore int, rejectCode, reason string) ValidationState {
	return ValidationState{
		valid:      false,
		DoSScore:   dosScore,
		RejectCode: rejectCode,
		Reason:     reason,
	}
}

// IsValid reports whether the state represents acceptance.
func (s ValidationState) IsValid() bool { return s.valid }

// Error implements the error interface so a ValidationState can be
// returned and handled like any other Go error when convenient.
func (s ValidationState) Error() string {
	if s.valid {
		return ""
	}
	return s.RejectCode + ": " + s.Reason
}
