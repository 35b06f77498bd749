package interaction

import (
	"context"

	"github.com/google/uuid"
)

// KnowledgeSource looks up candidate interaction rules for a set of drugs.
// Implementations may be remote and may fail; callers treat a failure as a
// failed check, never as "no interactions".
type KnowledgeSource interface {
	FindInteractions(ctx context.Context, drugIDs map[string]struct{}) ([]*Rule, error)
}

// RuleRepository administers the knowledge base content.
type RuleRepository interface {
	KnowledgeSource
	Create(ctx context.Context, r *Rule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	Update(ctx context.Context, r *Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Rule, int, error)
}
