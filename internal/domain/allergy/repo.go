package allergy

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores documented patient allergies.
type Repository interface {
	Create(ctx context.Context, a *Allergy) error
	GetByID(ctx context.Context, id uuid.UUID) (*Allergy, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Allergy, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MappingRepository stores allergen-to-drug cross-reactivity reference data.
// Implementations may be remote and may fail; callers treat a failure as a
// failed check.
type MappingRepository interface {
	Create(ctx context.Context, m *DrugMapping) error
	GetByID(ctx context.Context, id uuid.UUID) (*DrugMapping, error)
	// FindByAllergens returns the mappings whose allergen appears in the
	// given list.
	FindByAllergens(ctx context.Context, allergens []string) ([]*DrugMapping, error)
	List(ctx context.Context, limit, offset int) ([]*DrugMapping, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
