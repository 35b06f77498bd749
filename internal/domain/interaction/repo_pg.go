package interaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) RuleRepository { return &repoPG{pool: pool} }

const cols = `id, drug_ids, severity, mechanism, clinical_effect, recommendation`

func scan(row pgx.Row) (*Rule, error) {
	var r Rule
	err := row.Scan(&r.ID, &r.DrugIDs, &r.Severity, &r.Mechanism, &r.ClinicalEffect, &r.Recommendation)
	return &r, err
}

// FindInteractions returns candidate rules touching any of the given drugs.
// The caller narrows them down to full-combination matches.
func (r *repoPG) FindInteractions(ctx context.Context, drugIDs map[string]struct{}) ([]*Rule, error) {
	if len(drugIDs) == 0 {
		return nil, nil
	}
	drugs := make([]string, 0, len(drugIDs))
	for d := range drugIDs {
		drugs = append(drugs, d)
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM interaction_rule WHERE drug_ids && $1`, drugs)
	if err != nil {
		return nil, fmt.Errorf("query knowledge base: %w", err)
	}
	defer rows.Close()
	var rules []*Rule
	for rows.Next() {
		rule, err := scan(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, rule *Rule) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO interaction_rule (id, drug_ids, severity, mechanism, clinical_effect, recommendation)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rule.ID, rule.DrugIDs, rule.Severity, rule.Mechanism, rule.ClinicalEffect, rule.Recommendation)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM interaction_rule WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rule *Rule) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE interaction_rule
		SET drug_ids = $2, severity = $3, mechanism = $4, clinical_effect = $5, recommendation = $6
		WHERE id = $1`,
		rule.ID, rule.DrugIDs, rule.Severity, rule.Mechanism, rule.ClinicalEffect, rule.Recommendation)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rule %s not found", rule.ID)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM interaction_rule WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rule %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Rule, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM interaction_rule`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM interaction_rule ORDER BY severity, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var rules []*Rule
	for rows.Next() {
		rule, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		rules = append(rules, rule)
	}
	return rules, total, rows.Err()
}
