package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType discriminates the audit trail records.
type EventType string

const (
	EventInteractionCheck    EventType = "interaction_check"
	EventCriticalInteraction EventType = "critical_interaction"
)

// InteractionCheck summarizes one completed lookup against the interaction
// knowledge base. One is recorded per check regardless of the outcome.
type InteractionCheck struct {
	PatientID        uuid.UUID `json:"patient_id"`
	DrugIDs          []string  `json:"drug_ids"`
	InteractionCount int       `json:"interaction_count"`
	CriticalCount    int       `json:"critical_count"`
}

// CriticalInteraction records a single major or contraindicated rule that
// fired during a check.
type CriticalInteraction struct {
	PatientID      uuid.UUID `json:"patient_id"`
	RuleID         uuid.UUID `json:"rule_id"`
	DrugIDs        []string  `json:"drug_ids"`
	Severity       string    `json:"severity"`
	ClinicalEffect string    `json:"clinical_effect"`
}

// Event is the stored form of an audit record. Detail columns are sparse;
// which ones are set depends on Type.
type Event struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Type             EventType  `db:"event_type" json:"event_type"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	DrugIDs          []string   `db:"drug_ids" json:"drug_ids"`
	RuleID           *uuid.UUID `db:"rule_id" json:"rule_id,omitempty"`
	Severity         *string    `db:"severity" json:"severity,omitempty"`
	ClinicalEffect   *string    `db:"clinical_effect" json:"clinical_effect,omitempty"`
	InteractionCount *int       `db:"interaction_count" json:"interaction_count,omitempty"`
	CriticalCount    *int       `db:"critical_count" json:"critical_count,omitempty"`
	RecordedAt       time.Time  `db:"recorded_at" json:"recorded_at"`
}
