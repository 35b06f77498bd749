package allergy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReactionType is a documented allergic reaction. The set is closed.
type ReactionType string

const (
	ReactionAnaphylaxis      ReactionType = "anaphylaxis"
	ReactionAngioedema       ReactionType = "angioedema"
	ReactionRash             ReactionType = "rash"
	ReactionUrticaria        ReactionType = "urticaria"
	ReactionRespiratory      ReactionType = "respiratory"
	ReactionGastrointestinal ReactionType = "gastrointestinal"
	ReactionOther            ReactionType = "other"
)

var validReactions = map[ReactionType]bool{
	ReactionAnaphylaxis: true, ReactionAngioedema: true, ReactionRash: true,
	ReactionUrticaria: true, ReactionRespiratory: true,
	ReactionGastrointestinal: true, ReactionOther: true,
}

func (r ReactionType) Valid() bool { return validReactions[r] }

// Severity grades a documented allergy.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

var validSeverities = map[Severity]bool{
	SeverityMild: true, SeverityModerate: true, SeveritySevere: true,
}

func (s Severity) Valid() bool { return validSeverities[s] }

// Allergy is one documented patient allergy.
type Allergy struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	PatientID uuid.UUID    `db:"patient_id" json:"patient_id"`
	Allergen  string       `db:"allergen" json:"allergen"`
	Reaction  ReactionType `db:"reaction" json:"reaction"`
	Severity  Severity     `db:"severity" json:"severity"`
	OnsetDate *time.Time   `db:"onset_date" json:"onset_date,omitempty"`
	Notes     string       `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// Input is the raw allergy payload.
type Input struct {
	PatientID uuid.UUID  `json:"patient_id"`
	Allergen  string     `json:"allergen"`
	Reaction  string     `json:"reaction"`
	Severity  string     `json:"severity"`
	OnsetDate *time.Time `json:"onset_date,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// New validates the payload and constructs an Allergy.
func New(in Input) (*Allergy, error) {
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	allergen := strings.TrimSpace(in.Allergen)
	if allergen == "" {
		return nil, fmt.Errorf("allergen is required")
	}
	if !ReactionType(in.Reaction).Valid() {
		return nil, fmt.Errorf("unknown reaction %q", in.Reaction)
	}
	if !Severity(in.Severity).Valid() {
		return nil, fmt.Errorf("unknown severity %q", in.Severity)
	}
	return &Allergy{
		ID:        uuid.New(),
		PatientID: in.PatientID,
		Allergen:  allergen,
		Reaction:  ReactionType(in.Reaction),
		Severity:  Severity(in.Severity),
		OnsetDate: in.OnsetDate,
		Notes:     strings.TrimSpace(in.Notes),
	}, nil
}

// DrugMapping links an allergen to the drugs a patient with that allergy may
// react to, weighted by cross-reactivity likelihood.
type DrugMapping struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Allergen        string    `db:"allergen" json:"allergen"`
	RelatedDrugIDs  []string  `db:"related_drug_ids" json:"related_drug_ids"`
	CrossReactivity float64   `db:"cross_reactivity" json:"cross_reactivity"`
}

// MappingInput is the raw mapping payload.
type MappingInput struct {
	Allergen        string   `json:"allergen"`
	RelatedDrugIDs  []string `json:"related_drug_ids"`
	CrossReactivity float64  `json:"cross_reactivity"`
}

// NewMapping validates the payload and constructs a DrugMapping.
func NewMapping(in MappingInput) (*DrugMapping, error) {
	allergen := strings.TrimSpace(in.Allergen)
	if allergen == "" {
		return nil, fmt.Errorf("allergen is required")
	}
	var drugs []string
	seen := make(map[string]bool, len(in.RelatedDrugIDs))
	for _, d := range in.RelatedDrugIDs {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		drugs = append(drugs, d)
	}
	if len(drugs) == 0 {
		return nil, fmt.Errorf("related_drug_ids is required")
	}
	if in.CrossReactivity < 0 || in.CrossReactivity > 1 {
		return nil, fmt.Errorf("cross_reactivity must be in [0,1], got %v", in.CrossReactivity)
	}
	return &DrugMapping{
		ID:              uuid.New(),
		Allergen:        allergen,
		RelatedDrugIDs:  drugs,
		CrossReactivity: in.CrossReactivity,
	}, nil
}

// RiskLevel grades an allergy conflict.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Conflict is one finding of the allergy conflict checker.
type Conflict struct {
	Allergen        string       `json:"allergen"`
	DrugID          string       `json:"drug_id"`
	Reaction        ReactionType `json:"reaction"`
	AllergySeverity Severity     `json:"allergy_severity"`
	CrossReactivity float64      `json:"cross_reactivity"`
	Risk            RiskLevel    `json:"risk"`
	Recommendation  string       `json:"recommendation"`
}
