package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medguard/medguard/internal/domain/allergy"
	"github.com/medguard/medguard/internal/domain/interaction"
	"github.com/medguard/medguard/internal/domain/prescription"
)

type stubInteractions struct {
	outcome *interaction.CheckOutcome
	err     error
	calls   int
}

func (s *stubInteractions) CheckNewPrescription(_ context.Context, _ uuid.UUID, _ *prescription.Prescription, _ []*prescription.Prescription) (*interaction.CheckOutcome, error) {
	s.calls++
	return s.outcome, s.err
}

func (s *stubInteractions) ReviewMedications(_ context.Context, _ uuid.UUID, _ []*prescription.Prescription) (*interaction.CheckOutcome, error) {
	s.calls++
	return s.outcome, s.err
}

type stubAllergies struct {
	conflicts []*allergy.Conflict
	err       error
}

func (s *stubAllergies) CheckPrescriptions(_ context.Context, _ []*allergy.Allergy, _ []*prescription.Prescription) ([]*allergy.Conflict, error) {
	return s.conflicts, s.err
}

func cleanOutcome() *interaction.CheckOutcome {
	return &interaction.CheckOutcome{IsValid: true}
}

func candidateInput() prescription.Input {
	return prescription.Input{
		PatientID: uuid.New(),
		DrugID:    "aspirin",
		Dose:      81,
		Unit:      "mg",
		Route:     "oral",
		Frequency: "once daily",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func interactionRule(severity interaction.Severity) *interaction.Rule {
	return &interaction.Rule{
		ID:             uuid.MustParse("6b1f6a2e-0000-4000-8000-000000000001"),
		DrugIDs:        []string{"warfarin", "aspirin"},
		Severity:       severity,
		ClinicalEffect: "increased bleeding risk",
		Recommendation: "Use an alternative analgesic.",
	}
}

func TestValidateNewPrescription_ShapeGate(t *testing.T) {
	interactions := &stubInteractions{outcome: cleanOutcome()}
	svc := NewService(interactions, &stubAllergies{})

	bad := candidateInput()
	bad.Dose = -5
	bad.Route = "inhaled"
	report, err := svc.ValidateNewPrescription(context.Background(), uuid.New(), bad, nil, nil)
	if err != nil {
		t.Fatalf("ValidateNewPrescription() error = %v", err)
	}
	if report.IsValid {
		t.Error("malformed candidate must yield an invalid report")
	}
	if len(report.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %v", report.Errors)
	}
	if interactions.calls != 0 {
		t.Error("shape failure must short-circuit before any collaborator runs")
	}
}

func TestValidateNewPrescription_Clean(t *testing.T) {
	svc := NewService(&stubInteractions{outcome: cleanOutcome()}, &stubAllergies{})

	report, err := svc.ValidateNewPrescription(context.Background(), uuid.New(), candidateInput(), nil, nil)
	if err != nil {
		t.Fatalf("ValidateNewPrescription() error = %v", err)
	}
	if !report.IsValid {
		t.Errorf("expected valid report, got %+v", report)
	}
	if len(report.Errors) != 0 || len(report.Warnings) != 0 || len(report.AllergyConflicts) != 0 {
		t.Errorf("expected empty findings, got %+v", report)
	}
}

func TestValidateNewPrescription_MergesFindings(t *testing.T) {
	crit := interactionRule(interaction.SeverityContraindicated)
	moderate := interactionRule(interaction.SeverityModerate)
	moderate.ID = uuid.MustParse("6b1f6a2e-0000-4000-8000-000000000002")

	outcome := &interaction.CheckOutcome{
		IsValid:              false,
		Interactions:         []*interaction.Rule{crit, moderate},
		CriticalInteractions: []*interaction.Rule{crit},
	}
	conflicts := []*allergy.Conflict{
		{Allergen: "penicillin", DrugID: "amoxicillin", Risk: allergy.RiskHigh},
		{Allergen: "sulfa", DrugID: "sulfamethoxazole", Risk: allergy.RiskMedium},
		{Allergen: "codeine", DrugID: "tramadol", Risk: allergy.RiskLow},
	}
	svc := NewService(&stubInteractions{outcome: outcome}, &stubAllergies{conflicts: conflicts})

	report, err := svc.ValidateNewPrescription(context.Background(), uuid.New(), candidateInput(), nil, nil)
	if err != nil {
		t.Fatalf("ValidateNewPrescription() error = %v", err)
	}
	if report.IsValid {
		t.Error("blocking findings must invalidate the report")
	}
	// One critical interaction plus one high-risk conflict.
	if len(report.Errors) != 2 {
		t.Errorf("expected 2 blocking errors, got %v", report.Errors)
	}
	// One moderate interaction plus one medium-risk conflict; the low-risk
	// conflict stays out of the warnings.
	if len(report.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", report.Warnings)
	}
	if len(report.AllergyConflicts) != 3 {
		t.Errorf("all conflicts stay on the report, got %d", len(report.AllergyConflicts))
	}
}

func TestValidateNewPrescription_CollaboratorFailureFailsCall(t *testing.T) {
	svc := NewService(&stubInteractions{err: errors.New("knowledge base down")}, &stubAllergies{})
	if _, err := svc.ValidateNewPrescription(context.Background(), uuid.New(), candidateInput(), nil, nil); err == nil {
		t.Fatal("interaction checker failure must fail the validation call")
	}

	svc = NewService(&stubInteractions{outcome: cleanOutcome()}, &stubAllergies{err: errors.New("mapping store down")})
	if _, err := svc.ValidateNewPrescription(context.Background(), uuid.New(), candidateInput(), nil, nil); err == nil {
		t.Fatal("allergy checker failure must fail the validation call")
	}
}

func TestValidateNewPrescription_Idempotent(t *testing.T) {
	outcome := &interaction.CheckOutcome{
		IsValid:              false,
		Interactions:         []*interaction.Rule{interactionRule(interaction.SeverityMajor)},
		CriticalInteractions: []*interaction.Rule{interactionRule(interaction.SeverityMajor)},
		Recommendations:      []string{"Use an alternative analgesic."},
	}
	conflicts := []*allergy.Conflict{{Allergen: "penicillin", DrugID: "amoxicillin", Risk: allergy.RiskHigh}}
	svc := NewService(&stubInteractions{outcome: outcome}, &stubAllergies{conflicts: conflicts})

	patientID := uuid.MustParse("6b1f6a2e-0000-4000-8000-0000000000aa")
	in := candidateInput()
	in.PatientID = patientID

	first, err := svc.ValidateNewPrescription(context.Background(), patientID, in, nil, nil)
	if err != nil {
		t.Fatalf("first call error = %v", err)
	}
	second, err := svc.ValidateNewPrescription(context.Background(), patientID, in, nil, nil)
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("identical inputs must yield byte-identical reports:\n%s\n%s", a, b)
	}
}

func testPatient(age int) *Patient {
	return &Patient{ID: uuid.New(), Name: "Ada Martin", Age: age, Gender: GenderFemale}
}

func TestComprehensiveSafetyCheck_Safe(t *testing.T) {
	svc := NewService(&stubInteractions{outcome: cleanOutcome()}, &stubAllergies{})

	report, err := svc.PerformComprehensiveSafetyCheck(context.Background(), testPatient(40), nil)
	if err != nil {
		t.Fatalf("PerformComprehensiveSafetyCheck() error = %v", err)
	}
	if !report.IsSafe || len(report.Issues) != 0 {
		t.Errorf("expected safe report, got %+v", report)
	}
}

func TestComprehensiveSafetyCheck_BlockingFindings(t *testing.T) {
	crit := interactionRule(interaction.SeverityContraindicated)
	outcome := &interaction.CheckOutcome{
		IsValid:              false,
		Interactions:         []*interaction.Rule{crit},
		CriticalInteractions: []*interaction.Rule{crit},
		Recommendations:      []string{"Avoid concurrent use."},
	}
	conflicts := []*allergy.Conflict{{
		Allergen: "penicillin", DrugID: "amoxicillin",
		Risk: allergy.RiskHigh, Recommendation: "Use an alternative agent.",
	}}
	svc := NewService(&stubInteractions{outcome: outcome}, &stubAllergies{conflicts: conflicts})

	report, err := svc.PerformComprehensiveSafetyCheck(context.Background(), testPatient(40), nil)
	if err != nil {
		t.Fatalf("PerformComprehensiveSafetyCheck() error = %v", err)
	}
	if report.IsSafe {
		t.Error("blocking findings mean the patient is not safe")
	}
	if len(report.Issues) != 2 {
		t.Errorf("expected 2 issues, got %v", report.Issues)
	}
	found := map[string]bool{}
	for _, r := range report.Recommendations {
		if found[r] {
			t.Errorf("recommendations must be deduplicated, %q repeats", r)
		}
		found[r] = true
	}
}

func TestComprehensiveSafetyCheck_AgeAdvisory(t *testing.T) {
	svc := NewService(&stubInteractions{outcome: cleanOutcome()}, &stubAllergies{})

	for _, age := range []int{8, 70} {
		report, err := svc.PerformComprehensiveSafetyCheck(context.Background(), testPatient(age), nil)
		if err != nil {
			t.Fatalf("PerformComprehensiveSafetyCheck() error = %v", err)
		}
		if !report.IsSafe {
			t.Errorf("age %d: the advisory must not block", age)
		}
		if len(report.Recommendations) != 1 {
			t.Errorf("age %d: expected a dosing review recommendation, got %v", age, report.Recommendations)
		}
	}

	report, _ := svc.PerformComprehensiveSafetyCheck(context.Background(), testPatient(30), nil)
	if len(report.Recommendations) != 0 {
		t.Errorf("age 30: no advisory expected, got %v", report.Recommendations)
	}
}

func TestComprehensiveSafetyCheck_FailureFailsCall(t *testing.T) {
	svc := NewService(&stubInteractions{err: errors.New("knowledge base down")}, &stubAllergies{})
	if _, err := svc.PerformComprehensiveSafetyCheck(context.Background(), testPatient(40), nil); err == nil {
		t.Fatal("collaborator failure must fail the sweep")
	}
}
