package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
	// ListActiveByPatient returns prescriptions in effect at asOf that have
	// not been superseded.
	ListActiveByPatient(ctx context.Context, patientID uuid.UUID, asOf time.Time) ([]*Prescription, error)
	// Supersede stores the replacement and marks the old record as
	// superseded by it. The old record itself is never mutated.
	Supersede(ctx context.Context, oldID uuid.UUID, replacement *Prescription) error
}
