package allergy

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medguard/medguard/internal/domain/prescription"
)

func testAllergy(reaction ReactionType, severity Severity, allergen string) *Allergy {
	return &Allergy{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		Allergen:  allergen,
		Reaction:  reaction,
		Severity:  severity,
	}
}

func testPrescription(t *testing.T, drugID string) *prescription.Prescription {
	t.Helper()
	p, err := prescription.New(prescription.Input{
		PatientID: uuid.New(),
		DrugID:    drugID,
		Dose:      250,
		Unit:      "mg",
		Route:     "oral",
		Frequency: "twice daily",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("building test prescription: %v", err)
	}
	return p
}

func mapping(allergen string, crossReactivity float64, drugs ...string) *DrugMapping {
	return &DrugMapping{
		ID:              uuid.New(),
		Allergen:        allergen,
		RelatedDrugIDs:  drugs,
		CrossReactivity: crossReactivity,
	}
}

func TestGradeRisk(t *testing.T) {
	policy := DefaultRiskPolicy()
	tests := []struct {
		name            string
		reaction        ReactionType
		severity        Severity
		crossReactivity float64
		want            RiskLevel
	}{
		{"anaphylaxis dominates even at negligible cross-reactivity", ReactionAnaphylaxis, SeverityMild, 0.01, RiskHigh},
		{"anaphylaxis at full cross-reactivity", ReactionAnaphylaxis, SeveritySevere, 1.0, RiskHigh},
		{"severe at threshold", ReactionRash, SeveritySevere, 0.5, RiskHigh},
		{"severe below threshold", ReactionRash, SeveritySevere, 0.49, RiskMedium},
		{"moderate high", ReactionUrticaria, SeverityModerate, 0.8, RiskHigh},
		{"moderate medium", ReactionUrticaria, SeverityModerate, 0.3, RiskMedium},
		{"moderate low", ReactionUrticaria, SeverityModerate, 0.29, RiskLow},
		{"mild medium", ReactionRash, SeverityMild, 0.8, RiskMedium},
		{"mild low", ReactionRash, SeverityMild, 0.79, RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAllergy(tt.reaction, tt.severity, "penicillin")
			if got := gradeRisk(a, tt.crossReactivity, policy); got != tt.want {
				t.Errorf("gradeRisk() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFindConflicts(t *testing.T) {
	allergies := []*Allergy{testAllergy(ReactionAnaphylaxis, SeveritySevere, "penicillin")}
	prescriptions := []*prescription.Prescription{
		testPrescription(t, "amoxicillin"),
		testPrescription(t, "lisinopril"),
	}
	mappings := []*DrugMapping{mapping("penicillin", 0.9, "amoxicillin", "ampicillin")}

	conflicts := FindConflicts(allergies, prescriptions, mappings, DefaultRiskPolicy())
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.DrugID != "amoxicillin" || c.Allergen != "penicillin" {
		t.Errorf("conflict names wrong pair: %+v", c)
	}
	if c.Risk != RiskHigh {
		t.Errorf("Risk = %s, want %s", c.Risk, RiskHigh)
	}
	if c.Recommendation == "" {
		t.Error("a conflict carries a recommendation")
	}
}

func TestFindConflicts_UnmappedAllergenSkipped(t *testing.T) {
	allergies := []*Allergy{testAllergy(ReactionAnaphylaxis, SeveritySevere, "latex")}
	prescriptions := []*prescription.Prescription{testPrescription(t, "amoxicillin")}
	mappings := []*DrugMapping{mapping("penicillin", 0.9, "amoxicillin")}

	if conflicts := FindConflicts(allergies, prescriptions, mappings, DefaultRiskPolicy()); len(conflicts) != 0 {
		t.Errorf("unmapped allergen must produce no conflicts, got %+v", conflicts)
	}
}

func TestFindConflicts_ExactNameMatchOnly(t *testing.T) {
	allergies := []*Allergy{testAllergy(ReactionRash, SeverityMild, "Penicillin")}
	prescriptions := []*prescription.Prescription{testPrescription(t, "amoxicillin")}
	mappings := []*DrugMapping{mapping("penicillin", 0.9, "amoxicillin")}

	if conflicts := FindConflicts(allergies, prescriptions, mappings, DefaultRiskPolicy()); len(conflicts) != 0 {
		t.Errorf("matching is by exact allergen name, got %+v", conflicts)
	}
}

func TestFindConflicts_EmptyInputs(t *testing.T) {
	policy := DefaultRiskPolicy()
	m := []*DrugMapping{mapping("penicillin", 0.9, "amoxicillin")}
	p := []*prescription.Prescription{testPrescription(t, "amoxicillin")}
	a := []*Allergy{testAllergy(ReactionRash, SeverityMild, "penicillin")}

	if got := FindConflicts(nil, p, m, policy); got != nil {
		t.Error("no allergies means no conflicts")
	}
	if got := FindConflicts(a, nil, m, policy); got != nil {
		t.Error("no prescriptions means no conflicts")
	}
	if got := FindConflicts(a, p, nil, policy); got != nil {
		t.Error("no mappings means no conflicts")
	}
}

func TestFindConflicts_GraduatedRecommendations(t *testing.T) {
	prescriptions := []*prescription.Prescription{testPrescription(t, "amoxicillin")}
	policy := DefaultRiskPolicy()

	high := FindConflicts([]*Allergy{testAllergy(ReactionAnaphylaxis, SeveritySevere, "penicillin")},
		prescriptions, []*DrugMapping{mapping("penicillin", 0.9, "amoxicillin")}, policy)
	medium := FindConflicts([]*Allergy{testAllergy(ReactionRash, SeveritySevere, "penicillin")},
		prescriptions, []*DrugMapping{mapping("penicillin", 0.4, "amoxicillin")}, policy)
	low := FindConflicts([]*Allergy{testAllergy(ReactionRash, SeverityMild, "penicillin")},
		prescriptions, []*DrugMapping{mapping("penicillin", 0.1, "amoxicillin")}, policy)

	if len(high) != 1 || len(medium) != 1 || len(low) != 1 {
		t.Fatal("expected one conflict per scenario")
	}
	if high[0].Recommendation == medium[0].Recommendation || medium[0].Recommendation == low[0].Recommendation {
		t.Error("recommendation text must be graduated by risk tier")
	}
}
