package prescription

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Route is the administration route of a prescription. The set is closed;
// anything else is a shape error.
type Route string

const (
	RouteOral          Route = "oral"
	RouteIntravenous   Route = "intravenous"
	RouteIntramuscular Route = "intramuscular"
	RouteSubcutaneous  Route = "subcutaneous"
	RouteTopical       Route = "topical"
)

var validRoutes = map[Route]bool{
	RouteOral: true, RouteIntravenous: true, RouteIntramuscular: true,
	RouteSubcutaneous: true, RouteTopical: true,
}

func (r Route) Valid() bool { return validRoutes[r] }

// Frequency is a constrained dosing-frequency code.
type Frequency string

const (
	OnceDaily       Frequency = "once daily"
	TwiceDaily      Frequency = "twice daily"
	ThreeTimesDaily Frequency = "three times daily"
	FourTimesDaily  Frequency = "four times daily"
	Every4Hours     Frequency = "every 4 hours"
	Every6Hours     Frequency = "every 6 hours"
	Every8Hours     Frequency = "every 8 hours"
	Every12Hours    Frequency = "every 12 hours"
	AtBedtime       Frequency = "at bedtime"
	AsNeeded        Frequency = "as needed"
)

var validFrequencies = map[Frequency]bool{
	OnceDaily: true, TwiceDaily: true, ThreeTimesDaily: true, FourTimesDaily: true,
	Every4Hours: true, Every6Hours: true, Every8Hours: true, Every12Hours: true,
	AtBedtime: true, AsNeeded: true,
}

func (f Frequency) Valid() bool { return validFrequencies[f] }

// FieldError is one violated constraint on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ShapeError aggregates every field-level violation found in an input.
// It is data, not a fault: callers report it and carry on.
type ShapeError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ShapeError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid prescription: " + strings.Join(msgs, "; ")
}

// Prescription is an immutable medication order. A value can only be
// obtained through New, so an invalid Prescription cannot exist.
type Prescription struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	DrugID       string     `db:"drug_id" json:"drug_id"`
	Dose         float64    `db:"dose" json:"dose"`
	Unit         string     `db:"unit" json:"unit"`
	Route        Route      `db:"route" json:"route"`
	Frequency    Frequency  `db:"frequency" json:"frequency"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
	SupersededBy *uuid.UUID `db:"superseded_by" json:"superseded_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Input is the raw order payload as submitted by a prescriber.
type Input struct {
	PatientID uuid.UUID  `json:"patient_id"`
	DrugID    string     `json:"drug_id"`
	Dose      float64    `json:"dose"`
	Unit      string     `json:"unit"`
	Route     string     `json:"route"`
	Frequency string     `json:"frequency"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// New validates the raw order and constructs a Prescription. On violation it
// returns a *ShapeError listing every bad field, not just the first.
func New(in Input) (*Prescription, error) {
	var fields []FieldError

	if in.PatientID == uuid.Nil {
		fields = append(fields, FieldError{"patient_id", "is required"})
	}
	if strings.TrimSpace(in.DrugID) == "" {
		fields = append(fields, FieldError{"drug_id", "is required"})
	}
	if in.Dose <= 0 {
		fields = append(fields, FieldError{"dose", fmt.Sprintf("must be positive, got %v", in.Dose)})
	}
	if strings.TrimSpace(in.Unit) == "" {
		fields = append(fields, FieldError{"unit", "is required"})
	}
	if !Route(in.Route).Valid() {
		fields = append(fields, FieldError{"route", fmt.Sprintf("unknown route %q", in.Route)})
	}
	if !Frequency(in.Frequency).Valid() {
		fields = append(fields, FieldError{"frequency", fmt.Sprintf("unknown frequency %q", in.Frequency)})
	}
	if in.StartDate.IsZero() {
		fields = append(fields, FieldError{"start_date", "is required"})
	}
	if in.EndDate != nil && !in.EndDate.After(in.StartDate) {
		fields = append(fields, FieldError{"end_date", "must be strictly after start_date"})
	}

	if len(fields) > 0 {
		return nil, &ShapeError{Fields: fields}
	}

	return &Prescription{
		ID:        uuid.New(),
		PatientID: in.PatientID,
		DrugID:    strings.TrimSpace(in.DrugID),
		Dose:      in.Dose,
		Unit:      strings.TrimSpace(in.Unit),
		Route:     Route(in.Route),
		Frequency: Frequency(in.Frequency),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}, nil
}

// DrugSet collects the distinct drug identifiers of the given prescriptions.
func DrugSet(prescriptions ...*Prescription) map[string]struct{} {
	set := make(map[string]struct{}, len(prescriptions))
	for _, p := range prescriptions {
		if p != nil {
			set[p.DrugID] = struct{}{}
		}
	}
	return set
}
