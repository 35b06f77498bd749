package interaction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/medguard/medguard/internal/domain/audit"
	"github.com/medguard/medguard/internal/domain/prescription"
	"github.com/medguard/medguard/internal/platform/notification"
)

// AuditLogger records interaction checks on the clinical audit trail.
type AuditLogger interface {
	LogInteractionCheck(ctx context.Context, c audit.InteractionCheck) error
	LogCriticalInteraction(ctx context.Context, c audit.CriticalInteraction) error
}

// Notifier delivers critical alerts to the on-call clinician.
type Notifier interface {
	SendCriticalAlert(ctx context.Context, alert notification.CriticalAlert) error
}

// CheckOutcome is the result of screening one candidate prescription against
// a patient's current medication list.
type CheckOutcome struct {
	IsValid              bool     `json:"is_valid"`
	Interactions         []*Rule  `json:"interactions"`
	CriticalInteractions []*Rule  `json:"critical_interactions"`
	Recommendations      []string `json:"recommendations"`
}

// Service screens prescriptions against the interaction knowledge base.
// Every collaborator failure propagates to the caller: a check that could
// not complete is a failed check, not a clean one.
type Service struct {
	source   KnowledgeSource
	auditor  AuditLogger
	notifier Notifier
}

func NewService(source KnowledgeSource, auditor AuditLogger, notifier Notifier) *Service {
	return &Service{source: source, auditor: auditor, notifier: notifier}
}

// CheckNewPrescription screens candidate against the patient's existing
// prescriptions. Critical rules (major or contraindicated) each produce an
// audit record and an immediate alert; a summary audit record is written for
// every completed lookup, clean or not.
func (s *Service) CheckNewPrescription(ctx context.Context, patientID uuid.UUID, candidate *prescription.Prescription, existing []*prescription.Prescription) (*CheckOutcome, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient id is required")
	}
	if candidate == nil {
		return nil, fmt.Errorf("candidate prescription is required")
	}

	all := make([]*prescription.Prescription, 0, len(existing)+1)
	all = append(all, existing...)
	all = append(all, candidate)
	drugs := prescription.DrugSet(all...)

	rules, err := s.source.FindInteractions(ctx, drugs)
	if err != nil {
		return nil, fmt.Errorf("interaction lookup for patient %s: %w", patientID, err)
	}

	active := FindActiveInteractions(drugs, rules)
	sortRules(active)

	var critical []*Rule
	for _, r := range active {
		if r.Severity.IsCritical() {
			critical = append(critical, r)
		}
	}

	var failures []error
	for _, r := range critical {
		err := s.auditor.LogCriticalInteraction(ctx, audit.CriticalInteraction{
			PatientID:      patientID,
			RuleID:         r.ID,
			DrugIDs:        r.DrugIDs,
			Severity:       string(r.Severity),
			ClinicalEffect: r.ClinicalEffect,
		})
		if err != nil {
			failures = append(failures, err)
		}
	}
	failures = append(failures, s.dispatchAlerts(ctx, patientID, critical)...)

	// The summary record is written even when a per-interaction write or an
	// alert has already failed.
	err = s.auditor.LogInteractionCheck(ctx, audit.InteractionCheck{
		PatientID:        patientID,
		DrugIDs:          sortedDrugs(drugs),
		InteractionCount: len(active),
		CriticalCount:    len(critical),
	})
	if err != nil {
		failures = append(failures, err)
	}
	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}

	return &CheckOutcome{
		IsValid:              len(critical) == 0,
		Interactions:         active,
		CriticalInteractions: critical,
		Recommendations:      buildRecommendations(active),
	}, nil
}

// ReviewMedications screens a patient's full medication list without a
// candidate. Used for whole-patient review: findings are reported and a
// summary audit record is written, but no alerts fire since no order is
// being placed.
func (s *Service) ReviewMedications(ctx context.Context, patientID uuid.UUID, prescriptions []*prescription.Prescription) (*CheckOutcome, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient id is required")
	}
	drugs := prescription.DrugSet(prescriptions...)

	var active []*Rule
	if len(drugs) > 0 {
		rules, err := s.source.FindInteractions(ctx, drugs)
		if err != nil {
			return nil, fmt.Errorf("interaction lookup for patient %s: %w", patientID, err)
		}
		active = FindActiveInteractions(drugs, rules)
		sortRules(active)
	}

	var critical []*Rule
	for _, r := range active {
		if r.Severity.IsCritical() {
			critical = append(critical, r)
		}
	}

	err := s.auditor.LogInteractionCheck(ctx, audit.InteractionCheck{
		PatientID:        patientID,
		DrugIDs:          sortedDrugs(drugs),
		InteractionCount: len(active),
		CriticalCount:    len(critical),
	})
	if err != nil {
		return nil, err
	}

	return &CheckOutcome{
		IsValid:              len(critical) == 0,
		Interactions:         active,
		CriticalInteractions: critical,
		Recommendations:      buildRecommendations(active),
	}, nil
}

// dispatchAlerts sends one alert per critical rule, concurrently.
func (s *Service) dispatchAlerts(ctx context.Context, patientID uuid.UUID, critical []*Rule) []error {
	if len(critical) == 0 {
		return nil
	}
	errs := make([]error, len(critical))
	var wg sync.WaitGroup
	for i, r := range critical {
		wg.Add(1)
		go func(i int, r *Rule) {
			defer wg.Done()
			alert := notification.NewCriticalAlert(patientID, []notification.InteractionDetail{{
				RuleID:         r.ID,
				DrugIDs:        r.DrugIDs,
				Severity:       string(r.Severity),
				ClinicalEffect: r.ClinicalEffect,
			}})
			if err := s.notifier.SendCriticalAlert(ctx, alert); err != nil {
				errs[i] = fmt.Errorf("alert for rule %s: %w", r.ID, err)
			}
		}(i, r)
	}
	wg.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	return failed
}

var severityRank = map[Severity]int{
	SeverityContraindicated: 0,
	SeverityMajor:           1,
	SeverityModerate:        2,
	SeverityMinor:           3,
}

func sortRules(rules []*Rule) {
	sort.Slice(rules, func(i, j int) bool {
		ri, rj := severityRank[rules[i].Severity], severityRank[rules[j].Severity]
		if ri != rj {
			return ri < rj
		}
		return rules[i].ID.String() < rules[j].ID.String()
	})
}

func sortedDrugs(drugs map[string]struct{}) []string {
	out := make([]string, 0, len(drugs))
	for d := range drugs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func severityAdvice(s Severity) string {
	switch s {
	case SeverityContraindicated:
		return "This combination is an absolute contraindication. Locate an alternative therapy immediately."
	case SeverityMajor:
		return "This combination carries significant risk. Monitor the patient closely."
	case SeverityModerate:
		return "Periodic reassessment of this combination is advised."
	default:
		return "Monitor if convenient."
	}
}

// buildRecommendations collects rule recommendations plus severity advice,
// deduplicated in first-seen order.
func buildRecommendations(active []*Rule) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(text string) {
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		out = append(out, text)
	}
	for _, r := range active {
		add(r.Recommendation)
		add(severityAdvice(r.Severity))
	}
	return out
}
