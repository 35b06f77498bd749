package validation

import "fmt"

// VitalsInput is the raw vital sign payload.
type VitalsInput struct {
	HeartRate   int     `json:"heart_rate"`
	Temperature float64 `json:"temperature"`
	Systolic    int     `json:"systolic"`
	Diastolic   int     `json:"diastolic"`
}

// Measurement plausibility bounds. Values outside these are rejected as
// implausible readings, not clinical findings.
const (
	minTemperature = 34.0
	maxTemperature = 42.0
	minSystolic    = 60
	maxSystolic    = 250
	minDiastolic   = 30
	maxDiastolic   = 150
)

type heartRateRange struct{ low, high int }

// heartRateFor returns the acceptable resting heart rate band for the
// patient's life stage. Adult female resting rates run a few beats higher
// than male, so the adult band shifts by gender.
func heartRateFor(age int, gender Gender) heartRateRange {
	switch {
	case age < 1:
		return heartRateRange{100, 160}
	case age < 3:
		return heartRateRange{90, 150}
	case age < 6:
		return heartRateRange{80, 140}
	case age < 12:
		return heartRateRange{70, 120}
	default:
		switch gender {
		case GenderFemale:
			return heartRateRange{60, 105}
		case GenderMale:
			return heartRateRange{55, 100}
		default:
			return heartRateRange{55, 105}
		}
	}
}

// ValidateVitalSigns checks a set of measurements for physiological
// plausibility. The heart rate band depends on age and gender; temperature
// bounds are fixed; blood pressure needs diastolic strictly below systolic
// with both inside absolute bounds.
func ValidateVitalSigns(in VitalsInput, age int, gender Gender) *VitalsResult {
	var errs []Issue
	add := func(field, message string) {
		errs = append(errs, Issue{Field: field, Message: message, Kind: KindError})
	}

	hr := heartRateFor(age, gender)
	if in.HeartRate < hr.low || in.HeartRate > hr.high {
		add("heart_rate", fmt.Sprintf("must be between %d and %d bpm for this patient, got %d",
			hr.low, hr.high, in.HeartRate))
	}
	if in.Temperature < minTemperature || in.Temperature > maxTemperature {
		add("temperature", fmt.Sprintf("must be between %.1f and %.1f C, got %.1f",
			minTemperature, maxTemperature, in.Temperature))
	}
	if in.Systolic < minSystolic || in.Systolic > maxSystolic {
		add("systolic", fmt.Sprintf("must be between %d and %d mmHg, got %d",
			minSystolic, maxSystolic, in.Systolic))
	}
	if in.Diastolic < minDiastolic || in.Diastolic > maxDiastolic {
		add("diastolic", fmt.Sprintf("must be between %d and %d mmHg, got %d",
			minDiastolic, maxDiastolic, in.Diastolic))
	}
	if in.Diastolic >= in.Systolic {
		add("diastolic", fmt.Sprintf("must be strictly below systolic, got %d/%d",
			in.Systolic, in.Diastolic))
	}

	if len(errs) > 0 {
		return &VitalsResult{IsValid: false, Errors: errs}
	}
	return &VitalsResult{
		IsValid: true,
		VitalSigns: &VitalSigns{
			HeartRate:   in.HeartRate,
			Temperature: in.Temperature,
			Systolic:    in.Systolic,
			Diastolic:   in.Diastolic,
		},
	}
}
