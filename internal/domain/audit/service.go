package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service writes and reads the safety audit trail. Writes are part of the
// clinical record: a failed write is an error for the operation that
// triggered it, never silently dropped.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) LogInteractionCheck(ctx context.Context, c InteractionCheck) error {
	if c.PatientID == uuid.Nil {
		return fmt.Errorf("patient id is required")
	}
	e := &Event{
		ID:               uuid.New(),
		Type:             EventInteractionCheck,
		PatientID:        c.PatientID,
		DrugIDs:          c.DrugIDs,
		InteractionCount: &c.InteractionCount,
		CriticalCount:    &c.CriticalCount,
		RecordedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return fmt.Errorf("record interaction check: %w", err)
	}
	return nil
}

func (s *Service) LogCriticalInteraction(ctx context.Context, c CriticalInteraction) error {
	if c.PatientID == uuid.Nil {
		return fmt.Errorf("patient id is required")
	}
	if c.RuleID == uuid.Nil {
		return fmt.Errorf("rule id is required")
	}
	ruleID := c.RuleID
	e := &Event{
		ID:             uuid.New(),
		Type:           EventCriticalInteraction,
		PatientID:      c.PatientID,
		DrugIDs:        c.DrugIDs,
		RuleID:         &ruleID,
		Severity:       &c.Severity,
		ClinicalEffect: &c.ClinicalEffect,
		RecordedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return fmt.Errorf("record critical interaction: %w", err)
	}
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
