package models

import "encoding/json"

type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
	// VerdictNone means the component is not scorable or there was not enough data to decide.
	VerdictNone Verdict = ""
)

// Evaluable reports whether the verdict carries a correct/incorrect decision.
func (v Verdict) Evaluable() bool {
	return v == VerdictCorrect || v == VerdictIncorrect
}

// MarshalJSON encodes VerdictNone as null.
func (v Verdict) MarshalJSON() ([]byte, error) {
	if v == VerdictNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(v))
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = VerdictNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Verdict(s) {
	case VerdictCorrect, VerdictIncorrect:
		*v = Verdict(s)
	default:
		*v = VerdictNone
	}
	return nil
}

// VerdictMap is the per-component outcome of evaluating one question.
type VerdictMap map[int]Verdict
