package interaction

import (
	"context"

	"github.com/google/uuid"
)

// RuleService administers the knowledge base content.
type RuleService struct {
	repo RuleRepository
}

func NewRuleService(repo RuleRepository) *RuleService {
	return &RuleService{repo: repo}
}

func (s *RuleService) Create(ctx context.Context, in Input) (*Rule, error) {
	r, err := NewRule(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RuleService) Get(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RuleService) Update(ctx context.Context, id uuid.UUID, in Input) (*Rule, error) {
	r, err := NewRule(in)
	if err != nil {
		return nil, err
	}
	r.ID = id
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RuleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *RuleService) List(ctx context.Context, limit, offset int) ([]*Rule, int, error) {
	return s.repo.List(ctx, limit, offset)
}
