package validation

import (
	"fmt"
	"strings"
)

const maxPatientAge = 150

// ValidatePatientRecord shape-validates a raw patient payload. Every
// violated field yields one structured error; a malformed payload is a
// result, never a panic.
func ValidatePatientRecord(in PatientInput) *RecordResult {
	var errs []Issue
	add := func(field, message string) {
		errs = append(errs, Issue{Field: field, Message: message, Kind: KindError})
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		add("name", "is required")
	}
	if in.Age < 0 {
		add("age", fmt.Sprintf("must not be negative, got %d", in.Age))
	}
	if in.Age > maxPatientAge {
		add("age", fmt.Sprintf("must be at most %d, got %d", maxPatientAge, in.Age))
	}
	if !Gender(in.Gender).Valid() {
		add("gender", fmt.Sprintf("unknown gender %q", in.Gender))
	}

	if len(errs) > 0 {
		return &RecordResult{IsValid: false, Errors: errs}
	}
	return &RecordResult{
		IsValid: true,
		Patient: &Patient{
			ID:     in.ID,
			Name:   name,
			Age:    in.Age,
			Gender: Gender(in.Gender),
		},
	}
}
