package interaction

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Severity classifies an interaction rule. The set is closed.
type Severity string

const (
	SeverityMinor           Severity = "minor"
	SeverityModerate        Severity = "moderate"
	SeverityMajor           Severity = "major"
	SeverityContraindicated Severity = "contraindicated"
)

var validSeverities = map[Severity]bool{
	SeverityMinor: true, SeverityModerate: true,
	SeverityMajor: true, SeverityContraindicated: true,
}

func (s Severity) Valid() bool { return validSeverities[s] }

// IsCritical reports whether the severity demands an immediate alert.
func (s Severity) IsCritical() bool {
	return s == SeverityMajor || s == SeverityContraindicated
}

// Rule is one entry in the drug interaction knowledge base. A rule is
// read-only reference data covering a combination of two or more drugs.
type Rule struct {
	ID             uuid.UUID `db:"id" json:"id"`
	DrugIDs        []string  `db:"drug_ids" json:"drug_ids"`
	Severity       Severity  `db:"severity" json:"severity"`
	Mechanism      string    `db:"mechanism" json:"mechanism"`
	ClinicalEffect string    `db:"clinical_effect" json:"clinical_effect"`
	Recommendation string    `db:"recommendation" json:"recommendation"`
}

// Input is the payload for creating or updating a rule.
type Input struct {
	DrugIDs        []string `json:"drug_ids"`
	Severity       string   `json:"severity"`
	Mechanism      string   `json:"mechanism"`
	ClinicalEffect string   `json:"clinical_effect"`
	Recommendation string   `json:"recommendation"`
}

// NewRule validates the payload and constructs a Rule. Drug identifiers are
// trimmed and deduplicated; the combination must keep at least two.
func NewRule(in Input) (*Rule, error) {
	seen := make(map[string]bool, len(in.DrugIDs))
	var drugs []string
	for _, d := range in.DrugIDs {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		drugs = append(drugs, d)
	}
	if len(drugs) < 2 {
		return nil, fmt.Errorf("a rule needs at least two distinct drugs")
	}
	if !Severity(in.Severity).Valid() {
		return nil, fmt.Errorf("unknown severity %q", in.Severity)
	}
	if strings.TrimSpace(in.ClinicalEffect) == "" {
		return nil, fmt.Errorf("clinical_effect is required")
	}
	return &Rule{
		ID:             uuid.New(),
		DrugIDs:        drugs,
		Severity:       Severity(in.Severity),
		Mechanism:      strings.TrimSpace(in.Mechanism),
		ClinicalEffect: strings.TrimSpace(in.ClinicalEffect),
		Recommendation: strings.TrimSpace(in.Recommendation),
	}, nil
}
