package prescription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, patient_id, drug_id, dose, unit, route, frequency,
	start_date, end_date, superseded_by, created_at`

func scan(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.DrugID, &p.Dose, &p.Unit, &p.Route, &p.Frequency,
		&p.StartDate, &p.EndDate, &p.SupersededBy, &p.CreatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prescription (id, patient_id, drug_id, dose, unit, route, frequency, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.PatientID, p.DrugID, p.Dose, p.Unit, p.Route, p.Frequency, p.StartDate, p.EndDate)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM prescription WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM prescription WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM prescription WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListActiveByPatient(ctx context.Context, patientID uuid.UUID, asOf time.Time) ([]*Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cols+` FROM prescription
		WHERE patient_id = $1
		  AND superseded_by IS NULL
		  AND start_date <= $2
		  AND (end_date IS NULL OR end_date > $2)
		ORDER BY start_date`, patientID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) Supersede(ctx context.Context, oldID uuid.UUID, replacement *Prescription) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin supersede: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO prescription (id, patient_id, drug_id, dose, unit, route, frequency, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		replacement.ID, replacement.PatientID, replacement.DrugID, replacement.Dose, replacement.Unit,
		replacement.Route, replacement.Frequency, replacement.StartDate, replacement.EndDate); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE prescription SET superseded_by = $2 WHERE id = $1 AND superseded_by IS NULL`,
		oldID, replacement.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prescription %s not found or already superseded", oldID)
	}

	return tx.Commit(ctx)
}
