package validation

import "testing"

func normalVitals() VitalsInput {
	return VitalsInput{HeartRate: 72, Temperature: 36.8, Systolic: 120, Diastolic: 80}
}

func TestValidateVitalSigns_Valid(t *testing.T) {
	res := ValidateVitalSigns(normalVitals(), 40, GenderMale)
	if !res.IsValid {
		t.Fatalf("expected valid vitals, got %v", res.Errors)
	}
	if res.VitalSigns == nil || res.VitalSigns.HeartRate != 72 {
		t.Errorf("vitals value missing: %+v", res.VitalSigns)
	}
}

func TestValidateVitalSigns_HeartRateByLifeStage(t *testing.T) {
	tests := []struct {
		name      string
		age       int
		gender    Gender
		heartRate int
		valid     bool
	}{
		{"infant high rate normal", 0, GenderFemale, 150, true},
		{"infant adult rate too low", 0, GenderFemale, 70, false},
		{"toddler", 2, GenderMale, 120, true},
		{"school age", 8, GenderMale, 100, true},
		{"school age too high", 8, GenderMale, 130, false},
		{"adult male at bound", 30, GenderMale, 100, true},
		{"adult male above bound", 30, GenderMale, 104, false},
		{"adult female above male bound", 30, GenderFemale, 104, true},
		{"elderly bradycardia", 80, GenderMale, 40, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := normalVitals()
			in.HeartRate = tt.heartRate
			res := ValidateVitalSigns(in, tt.age, tt.gender)
			if res.IsValid != tt.valid {
				t.Errorf("IsValid = %v, want %v (errors %v)", res.IsValid, tt.valid, res.Errors)
			}
		})
	}
}

func TestValidateVitalSigns_Temperature(t *testing.T) {
	in := normalVitals()
	in.Temperature = 42.5
	if res := ValidateVitalSigns(in, 40, GenderMale); res.IsValid {
		t.Error("temperature above bounds must be rejected")
	}
	in.Temperature = 33.0
	if res := ValidateVitalSigns(in, 40, GenderMale); res.IsValid {
		t.Error("temperature below bounds must be rejected")
	}
}

func TestValidateVitalSigns_BloodPressure(t *testing.T) {
	in := normalVitals()
	in.Systolic, in.Diastolic = 120, 120
	if res := ValidateVitalSigns(in, 40, GenderMale); res.IsValid {
		t.Error("diastolic equal to systolic must be rejected")
	}

	in = normalVitals()
	in.Systolic, in.Diastolic = 110, 115
	if res := ValidateVitalSigns(in, 40, GenderMale); res.IsValid {
		t.Error("diastolic above systolic must be rejected")
	}

	in = normalVitals()
	in.Systolic = 260
	if res := ValidateVitalSigns(in, 40, GenderMale); res.IsValid {
		t.Error("systolic outside absolute bounds must be rejected")
	}
}

func TestValidateVitalSigns_AggregatesErrors(t *testing.T) {
	res := ValidateVitalSigns(VitalsInput{HeartRate: 300, Temperature: 45, Systolic: 20, Diastolic: 200}, 40, GenderOther)
	if res.IsValid || res.VitalSigns != nil {
		t.Fatal("expected invalid result with no vitals value")
	}
	if len(res.Errors) < 4 {
		t.Errorf("every violated measurement reports, got %v", res.Errors)
	}
}
