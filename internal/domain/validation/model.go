package validation

import (
	"github.com/google/uuid"

	"github.com/medguard/medguard/internal/domain/allergy"
	"github.com/medguard/medguard/internal/domain/interaction"
)

// IssueKind classifies a validation finding.
type IssueKind string

const (
	KindError   IssueKind = "error"
	KindWarning IssueKind = "warning"
	KindInfo    IssueKind = "info"
)

// Issue is one finding in a validation report. Field is set for shape
// violations and empty for safety findings.
type Issue struct {
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	Kind    IssueKind `json:"kind"`
}

// Gender is the closed set accepted on patient records.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var validGenders = map[Gender]bool{
	GenderMale: true, GenderFemale: true, GenderOther: true,
}

func (g Gender) Valid() bool { return validGenders[g] }

// Patient is a validated patient record.
type Patient struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Age       int                `json:"age"`
	Gender    Gender             `json:"gender"`
	Allergies []*allergy.Allergy `json:"allergies,omitempty"`
}

// PatientInput is the raw patient payload.
type PatientInput struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Age    int       `json:"age"`
	Gender string    `json:"gender"`
}

// RecordResult is the outcome of patient record validation.
type RecordResult struct {
	IsValid bool     `json:"is_valid"`
	Patient *Patient `json:"patient,omitempty"`
	Errors  []Issue  `json:"errors"`
}

// VitalSigns is a validated set of vital sign measurements.
type VitalSigns struct {
	HeartRate   int     `json:"heart_rate"`
	Temperature float64 `json:"temperature"`
	Systolic    int     `json:"systolic"`
	Diastolic   int     `json:"diastolic"`
}

// VitalsResult is the outcome of vital sign validation.
type VitalsResult struct {
	IsValid    bool        `json:"is_valid"`
	VitalSigns *VitalSigns `json:"vital_signs,omitempty"`
	Errors     []Issue     `json:"errors"`
}

// Report is the aggregate outcome of screening one candidate prescription.
// Built fresh per call and never mutated after return.
type Report struct {
	IsValid          bool                      `json:"is_valid"`
	Errors           []Issue                   `json:"errors"`
	Warnings         []Issue                   `json:"warnings"`
	Interactions     *interaction.CheckOutcome `json:"interactions,omitempty"`
	AllergyConflicts []*allergy.Conflict       `json:"allergy_conflicts"`
}

// SafetyReport is the outcome of a whole-patient safety sweep.
type SafetyReport struct {
	IsSafe          bool     `json:"is_safe"`
	Issues          []Issue  `json:"issues"`
	Recommendations []string `json:"recommendations"`
}
