package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medguard/medguard/internal/platform/metrics"
)

// AlertTypeCriticalInteraction is the type tag carried by every critical
// drug-interaction alert.
const AlertTypeCriticalInteraction = "critical_drug_interaction"

// InteractionDetail is the slice of an interaction rule that travels with an
// alert.
type InteractionDetail struct {
	RuleID         uuid.UUID `json:"rule_id"`
	DrugIDs        []string  `json:"drug_ids"`
	Severity       string    `json:"severity"`
	ClinicalEffect string    `json:"clinical_effect,omitempty"`
}

// CriticalAlert is the structured payload sent to the on-call clinician when
// a critical drug interaction is found.
type CriticalAlert struct {
	Type                       string              `json:"type"`
	PatientID                  uuid.UUID           `json:"patient_id"`
	Interactions               []InteractionDetail `json:"interactions"`
	RequiresImmediateAttention bool                `json:"requires_immediate_attention"`
}

// NewCriticalAlert builds a well-formed alert for the given patient and rules.
func NewCriticalAlert(patientID uuid.UUID, interactions []InteractionDetail) CriticalAlert {
	return CriticalAlert{
		Type:                       AlertTypeCriticalInteraction,
		PatientID:                  patientID,
		Interactions:               interactions,
		RequiresImmediateAttention: true,
	}
}

// AlertService delivers critical alerts through the notification manager.
type AlertService struct {
	manager *Manager
	emailTo string
	smsTo   string
}

// NewAlertService constructs an AlertService. smsTo may be empty, in which
// case only email is sent.
func NewAlertService(manager *Manager, emailTo, smsTo string) *AlertService {
	return &AlertService{manager: manager, emailTo: emailTo, smsTo: smsTo}
}

// SendCriticalAlert renders and dispatches one alert. A delivery failure is
// returned to the caller; a failed safety alert must never be silent.
func (s *AlertService) SendCriticalAlert(ctx context.Context, alert CriticalAlert) error {
	if alert.Type != AlertTypeCriticalInteraction {
		return fmt.Errorf("unsupported alert type: %s", alert.Type)
	}
	data := map[string]string{
		"patient_id":      alert.PatientID.String(),
		"severity":        alertSeverity(alert),
		"drugs":           alertDrugs(alert),
		"clinical_effect": alertEffect(alert),
	}

	if _, err := s.manager.SendFromTemplate(ctx, "critical-drug-interaction", data, s.emailTo); err != nil {
		metrics.RecordCriticalAlert("failed")
		return fmt.Errorf("send critical alert email: %w", err)
	}
	if s.smsTo != "" {
		if _, err := s.manager.SendFromTemplate(ctx, "critical-drug-interaction-sms", data, s.smsTo); err != nil {
			metrics.RecordCriticalAlert("failed")
			return fmt.Errorf("send critical alert sms: %w", err)
		}
	}
	metrics.RecordCriticalAlert("sent")
	return nil
}

func alertSeverity(alert CriticalAlert) string {
	if len(alert.Interactions) == 0 {
		return "critical"
	}
	return alert.Interactions[0].Severity
}

func alertDrugs(alert CriticalAlert) string {
	var drugs []string
	for _, it := range alert.Interactions {
		drugs = append(drugs, strings.Join(it.DrugIDs, " + "))
	}
	return strings.Join(drugs, "; ")
}

func alertEffect(alert CriticalAlert) string {
	for _, it := range alert.Interactions {
		if it.ClinicalEffect != "" {
			return it.ClinicalEffect
		}
	}
	return ""
}
