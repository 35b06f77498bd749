package allergy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, patient_id, allergen, reaction, severity, onset_date, notes, created_at`

func scan(row pgx.Row) (*Allergy, error) {
	var a Allergy
	err := row.Scan(&a.ID, &a.PatientID, &a.Allergen, &a.Reaction, &a.Severity,
		&a.OnsetDate, &a.Notes, &a.CreatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Allergy) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_allergy (id, patient_id, allergen, reaction, severity, onset_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.PatientID, a.Allergen, a.Reaction, a.Severity, a.OnsetDate, a.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Allergy, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM patient_allergy WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Allergy, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM patient_allergy WHERE patient_id = $1 ORDER BY allergen`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Allergy
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient_allergy WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("allergy %s not found", id)
	}
	return nil
}

type mappingRepoPG struct{ pool *pgxpool.Pool }

func NewMappingRepoPG(pool *pgxpool.Pool) MappingRepository { return &mappingRepoPG{pool: pool} }

const mappingCols = `id, allergen, related_drug_ids, cross_reactivity`

func scanMapping(row pgx.Row) (*DrugMapping, error) {
	var m DrugMapping
	err := row.Scan(&m.ID, &m.Allergen, &m.RelatedDrugIDs, &m.CrossReactivity)
	return &m, err
}

func (r *mappingRepoPG) Create(ctx context.Context, m *DrugMapping) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO allergy_drug_mapping (id, allergen, related_drug_ids, cross_reactivity)
		VALUES ($1,$2,$3,$4)`,
		m.ID, m.Allergen, m.RelatedDrugIDs, m.CrossReactivity)
	return err
}

func (r *mappingRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DrugMapping, error) {
	return scanMapping(r.pool.QueryRow(ctx,
		`SELECT `+mappingCols+` FROM allergy_drug_mapping WHERE id = $1`, id))
}

func (r *mappingRepoPG) FindByAllergens(ctx context.Context, allergens []string) ([]*DrugMapping, error) {
	if len(allergens) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+mappingCols+` FROM allergy_drug_mapping WHERE allergen = ANY($1)`, allergens)
	if err != nil {
		return nil, fmt.Errorf("query allergen mappings: %w", err)
	}
	defer rows.Close()
	var items []*DrugMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *mappingRepoPG) List(ctx context.Context, limit, offset int) ([]*DrugMapping, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM allergy_drug_mapping`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+mappingCols+` FROM allergy_drug_mapping ORDER BY allergen LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*DrugMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *mappingRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM allergy_drug_mapping WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mapping %s not found", id)
	}
	return nil
}
