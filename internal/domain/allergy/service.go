package allergy

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medguard/medguard/internal/domain/prescription"
)

// Service manages patient allergies and allergen mappings, and runs the
// conflict check against them.
type Service struct {
	repo     Repository
	mappings MappingRepository
	policy   RiskPolicy
}

func NewService(repo Repository, mappings MappingRepository, policy RiskPolicy) *Service {
	return &Service{repo: repo, mappings: mappings, policy: policy}
}

func (s *Service) Create(ctx context.Context, in Input) (*Allergy, error) {
	a, err := New(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Allergy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Allergy, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CreateMapping(ctx context.Context, in MappingInput) (*DrugMapping, error) {
	m, err := NewMapping(in)
	if err != nil {
		return nil, err
	}
	if err := s.mappings.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) GetMapping(ctx context.Context, id uuid.UUID) (*DrugMapping, error) {
	return s.mappings.GetByID(ctx, id)
}

func (s *Service) ListMappings(ctx context.Context, limit, offset int) ([]*DrugMapping, int, error) {
	return s.mappings.List(ctx, limit, offset)
}

func (s *Service) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	return s.mappings.Delete(ctx, id)
}

// CheckPrescriptions screens the prescriptions against the given allergies,
// loading the relevant mappings. A mapping lookup failure fails the check.
func (s *Service) CheckPrescriptions(ctx context.Context, allergies []*Allergy, prescriptions []*prescription.Prescription) ([]*Conflict, error) {
	if len(allergies) == 0 || len(prescriptions) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(allergies))
	seen := make(map[string]bool, len(allergies))
	for _, a := range allergies {
		if a == nil || seen[a.Allergen] {
			continue
		}
		seen[a.Allergen] = true
		names = append(names, a.Allergen)
	}
	mappings, err := s.mappings.FindByAllergens(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("allergen mapping lookup: %w", err)
	}
	return FindConflicts(allergies, prescriptions, mappings, s.policy), nil
}
