package validation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medguard/medguard/internal/domain/allergy"
	"github.com/medguard/medguard/internal/domain/interaction"
	"github.com/medguard/medguard/internal/domain/prescription"
)

// InteractionChecker screens drug combinations against the interaction
// knowledge base.
type InteractionChecker interface {
	CheckNewPrescription(ctx context.Context, patientID uuid.UUID, candidate *prescription.Prescription, existing []*prescription.Prescription) (*interaction.CheckOutcome, error)
	ReviewMedications(ctx context.Context, patientID uuid.UUID, prescriptions []*prescription.Prescription) (*interaction.CheckOutcome, error)
}

// AllergyChecker screens prescriptions against documented allergies.
type AllergyChecker interface {
	CheckPrescriptions(ctx context.Context, allergies []*allergy.Allergy, prescriptions []*prescription.Prescription) ([]*allergy.Conflict, error)
}

// Service is the top-level safety facade. It composes shape validation, the
// interaction check, and the allergy conflict check into one report. A
// collaborator failure fails the whole call: an incomplete safety check is
// never reported as a clean one.
type Service struct {
	interactions InteractionChecker
	allergies    AllergyChecker
}

func NewService(interactions InteractionChecker, allergies AllergyChecker) *Service {
	return &Service{interactions: interactions, allergies: allergies}
}

// Dosing review is advised outside this age band.
const (
	dosingReviewMinAge = 12
	dosingReviewMaxAge = 65
)

// ValidateNewPrescription screens a candidate order end to end. A malformed
// candidate short-circuits into a report of field errors; otherwise the
// interaction and allergy checks run concurrently and their findings merge
// into one report.
func (s *Service) ValidateNewPrescription(ctx context.Context, patientID uuid.UUID, candidate prescription.Input, existing []*prescription.Prescription, allergies []*allergy.Allergy) (*Report, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient id is required")
	}

	p, err := prescription.New(candidate)
	if err != nil {
		shape, ok := err.(*prescription.ShapeError)
		if !ok {
			return nil, err
		}
		report := &Report{IsValid: false}
		for _, f := range shape.Fields {
			report.Errors = append(report.Errors, Issue{Field: f.Field, Message: f.Message, Kind: KindError})
		}
		return report, nil
	}

	type interactionResult struct {
		outcome *interaction.CheckOutcome
		err     error
	}
	type allergyResult struct {
		conflicts []*allergy.Conflict
		err       error
	}

	interactionCh := make(chan interactionResult, 1)
	allergyCh := make(chan allergyResult, 1)
	go func() {
		outcome, err := s.interactions.CheckNewPrescription(ctx, patientID, p, existing)
		interactionCh <- interactionResult{outcome, err}
	}()
	go func() {
		all := make([]*prescription.Prescription, 0, len(existing)+1)
		all = append(all, existing...)
		all = append(all, p)
		conflicts, err := s.allergies.CheckPrescriptions(ctx, allergies, all)
		allergyCh <- allergyResult{conflicts, err}
	}()

	ir := <-interactionCh
	ar := <-allergyCh
	if ir.err != nil {
		return nil, fmt.Errorf("interaction check: %w", ir.err)
	}
	if ar.err != nil {
		return nil, fmt.Errorf("allergy check: %w", ar.err)
	}

	report := &Report{
		Interactions:     ir.outcome,
		AllergyConflicts: ar.conflicts,
	}
	for _, r := range ir.outcome.Interactions {
		switch {
		case r.Severity.IsCritical():
			report.Errors = append(report.Errors, Issue{
				Message: fmt.Sprintf("critical drug interaction (%s): %s", r.Severity, r.ClinicalEffect),
				Kind:    KindError,
			})
		case r.Severity == interaction.SeverityModerate:
			report.Warnings = append(report.Warnings, Issue{
				Message: fmt.Sprintf("moderate drug interaction: %s", r.ClinicalEffect),
				Kind:    KindWarning,
			})
		}
	}
	for _, c := range ar.conflicts {
		switch c.Risk {
		case allergy.RiskHigh:
			report.Errors = append(report.Errors, Issue{
				Message: fmt.Sprintf("high-risk allergy conflict: %s with documented %s allergy", c.DrugID, c.Allergen),
				Kind:    KindError,
			})
		case allergy.RiskMedium:
			report.Warnings = append(report.Warnings, Issue{
				Message: fmt.Sprintf("allergy caution: %s with documented %s allergy", c.DrugID, c.Allergen),
				Kind:    KindWarning,
			})
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report, nil
}

// PerformComprehensiveSafetyCheck sweeps a patient's whole current
// medication list. Blocking findings become issues; everything advisory
// lands in the deduplicated recommendation list.
func (s *Service) PerformComprehensiveSafetyCheck(ctx context.Context, patient *Patient, prescriptions []*prescription.Prescription) (*SafetyReport, error) {
	if patient == nil {
		return nil, fmt.Errorf("patient is required")
	}

	outcome, err := s.interactions.ReviewMedications(ctx, patient.ID, prescriptions)
	if err != nil {
		return nil, fmt.Errorf("interaction review: %w", err)
	}
	conflicts, err := s.allergies.CheckPrescriptions(ctx, patient.Allergies, prescriptions)
	if err != nil {
		return nil, fmt.Errorf("allergy check: %w", err)
	}

	report := &SafetyReport{}
	seen := make(map[string]bool)
	recommend := func(text string) {
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		report.Recommendations = append(report.Recommendations, text)
	}

	for _, r := range outcome.CriticalInteractions {
		report.Issues = append(report.Issues, Issue{
			Message: fmt.Sprintf("critical drug interaction (%s): %s", r.Severity, r.ClinicalEffect),
			Kind:    KindError,
		})
	}
	for _, rec := range outcome.Recommendations {
		recommend(rec)
	}
	for _, c := range conflicts {
		if c.Risk == allergy.RiskHigh {
			report.Issues = append(report.Issues, Issue{
				Message: fmt.Sprintf("high-risk allergy conflict: %s with documented %s allergy", c.DrugID, c.Allergen),
				Kind:    KindError,
			})
		}
		recommend(c.Recommendation)
	}

	if patient.Age < dosingReviewMinAge || patient.Age > dosingReviewMaxAge {
		recommend("Patient age suggests a dosing review for all current prescriptions.")
	}

	report.IsSafe = len(report.Issues) == 0
	return report, nil
}
