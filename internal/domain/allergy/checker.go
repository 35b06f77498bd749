package allergy

import (
	"fmt"

	"github.com/medguard/medguard/internal/domain/prescription"
)

// RiskPolicy holds the cross-reactivity thresholds the risk grading uses.
// Values come from configuration; the defaults match accepted practice.
type RiskPolicy struct {
	SevereHigh     float64 // severe allergy graded high at or above this
	ModerateHigh   float64 // moderate allergy graded high at or above this
	ModerateMedium float64 // moderate allergy graded medium at or above this
	MildMedium     float64 // mild allergy graded medium at or above this
}

func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		SevereHigh:     0.5,
		ModerateHigh:   0.8,
		ModerateMedium: 0.3,
		MildMedium:     0.8,
	}
}

// FindConflicts screens the prescriptions against the patient's documented
// allergies. Pure. Allergen matching is by exact mapping name; an allergy
// with no mapping is skipped, not an error, since absence of knowledge is
// not evidence of safety or danger.
func FindConflicts(allergies []*Allergy, prescriptions []*prescription.Prescription, mappings []*DrugMapping, policy RiskPolicy) []*Conflict {
	if len(allergies) == 0 || len(prescriptions) == 0 || len(mappings) == 0 {
		return nil
	}

	byAllergen := make(map[string]*DrugMapping, len(mappings))
	for _, m := range mappings {
		if m != nil {
			byAllergen[m.Allergen] = m
		}
	}
	drugs := prescription.DrugSet(prescriptions...)

	var conflicts []*Conflict
	for _, a := range allergies {
		if a == nil {
			continue
		}
		m, ok := byAllergen[a.Allergen]
		if !ok {
			continue
		}
		for _, drug := range m.RelatedDrugIDs {
			if _, prescribed := drugs[drug]; !prescribed {
				continue
			}
			risk := gradeRisk(a, m.CrossReactivity, policy)
			conflicts = append(conflicts, &Conflict{
				Allergen:        a.Allergen,
				DrugID:          drug,
				Reaction:        a.Reaction,
				AllergySeverity: a.Severity,
				CrossReactivity: m.CrossReactivity,
				Risk:            risk,
				Recommendation:  riskAdvice(risk, drug, a.Allergen),
			})
		}
	}
	return conflicts
}

// gradeRisk applies the grading rules in priority order. A history of
// anaphylaxis dominates everything else.
func gradeRisk(a *Allergy, crossReactivity float64, policy RiskPolicy) RiskLevel {
	switch {
	case a.Reaction == ReactionAnaphylaxis:
		return RiskHigh
	case a.Severity == SeveritySevere:
		if crossReactivity >= policy.SevereHigh {
			return RiskHigh
		}
		return RiskMedium
	case a.Severity == SeverityModerate:
		switch {
		case crossReactivity >= policy.ModerateHigh:
			return RiskHigh
		case crossReactivity >= policy.ModerateMedium:
			return RiskMedium
		default:
			return RiskLow
		}
	default:
		if crossReactivity >= policy.MildMedium {
			return RiskMedium
		}
		return RiskLow
	}
}

func riskAdvice(risk RiskLevel, drugID, allergen string) string {
	switch risk {
	case RiskHigh:
		return fmt.Sprintf("Do not administer %s: absolute contraindication with the documented %s allergy. A reaction is potentially life-threatening. Use an alternative agent.", drugID, allergen)
	case RiskMedium:
		return fmt.Sprintf("Use caution with %s given the documented %s allergy. Close monitoring is required.", drugID, allergen)
	default:
		return fmt.Sprintf("Informational: %s has possible cross-reactivity with %s. Monitor the first dose.", drugID, allergen)
	}
}
