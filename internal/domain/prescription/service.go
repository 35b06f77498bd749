package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new prescription order.
func (s *Service) Create(ctx context.Context, in Input) (*Prescription, error) {
	p, err := New(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Supersede replaces an existing order with a corrected one. The old record
// stays on file, marked as superseded.
func (s *Service) Supersede(ctx context.Context, oldID uuid.UUID, in Input) (*Prescription, error) {
	replacement, err := New(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Supersede(ctx, oldID, replacement); err != nil {
		return nil, err
	}
	return replacement, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// ListActiveByPatient returns the patient's current medication list.
func (s *Service) ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	return s.repo.ListActiveByPatient(ctx, patientID, time.Now().UTC())
}
