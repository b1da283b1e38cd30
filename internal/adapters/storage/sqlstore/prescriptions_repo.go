package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/schedule"
)

type PrescriptionsRepo struct {
	db *sql.DB
	d  Dialect
}

func NewPrescriptionsRepo(db *sql.DB, d Dialect) *PrescriptionsRepo {
	return &PrescriptionsRepo{db: db, d: d}
}

const prescriptionColumns = `
	id, owner,
	name, dosage,
	frequency, start_date, end_date, times_per_day,
	schema_version, created_at`

func (r *PrescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	times, err := json.Marshal(p.TimesPerDay)
	if err != nil {
		return fmt.Errorf("encoding times: %w", err)
	}

	var end sql.NullString
	if p.EndDate != nil {
		end = sql.NullString{String: schedule.FormatDate(*p.EndDate), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, rebind(r.d, `
		INSERT INTO prescriptions (`+prescriptionColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?)
	`),
		p.ID,
		p.Owner,
		p.Name,
		p.Dosage,
		string(p.Frequency),
		schedule.FormatDate(p.StartDate),
		end,
		string(times),
		p.SchemaVersion,
		formatTimestamp(p.CreatedAt),
	)
	return err
}

func (r *PrescriptionsRepo) Get(ctx context.Context, owner, id string) (prescriptions.Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, rebind(r.d, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE id = ? AND owner = ?
	`), id, owner)

	p, err := scanPrescription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}
	return p, err
}

func (r *PrescriptionsRepo) ListByOwner(ctx context.Context, owner string) ([]prescriptions.Prescription, error) {
	return r.list(ctx, `WHERE owner = ? ORDER BY created_at ASC, id ASC`, owner)
}

func (r *PrescriptionsRepo) ListAll(ctx context.Context) ([]prescriptions.Prescription, error) {
	return r.list(ctx, `ORDER BY owner ASC, created_at ASC, id ASC`)
}

func (r *PrescriptionsRepo) list(ctx context.Context, tail string, args ...any) ([]prescriptions.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.d, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		`+tail), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]prescriptions.Prescription, 0)
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PrescriptionsRepo) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, rebind(r.d, `
		DELETE FROM prescriptions WHERE id = ? AND owner = ?
	`), id, owner)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return prescriptions.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPrescription decodifica una fila y la valida; filas corruptas o de
// otra versión de schema se reportan como error.
func scanPrescription(s rowScanner) (prescriptions.Prescription, error) {
	var (
		p         prescriptions.Prescription
		freq      string
		start     string
		end       sql.NullString
		times     string
		createdAt string
	)
	if err := s.Scan(
		&p.ID,
		&p.Owner,
		&p.Name,
		&p.Dosage,
		&freq,
		&start,
		&end,
		&times,
		&p.SchemaVersion,
		&createdAt,
	); err != nil {
		return prescriptions.Prescription{}, err
	}

	p.Frequency = schedule.Frequency(freq)

	var err error
	if p.StartDate, err = schedule.ParseDate(start); err != nil {
		return prescriptions.Prescription{}, fmt.Errorf("prescription %s: start_date: %w", p.ID, err)
	}
	if end.Valid {
		e, err := schedule.ParseDate(end.String)
		if err != nil {
			return prescriptions.Prescription{}, fmt.Errorf("prescription %s: end_date: %w", p.ID, err)
		}
		p.EndDate = &e
	}
	if err := json.Unmarshal([]byte(times), &p.TimesPerDay); err != nil {
		return prescriptions.Prescription{}, fmt.Errorf("prescription %s: times_per_day: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return prescriptions.Prescription{}, fmt.Errorf("prescription %s: created_at: %w", p.ID, err)
	}

	if err := p.Validate(); err != nil {
		return prescriptions.Prescription{}, fmt.Errorf("prescription %s: %w", p.ID, err)
	}
	return p, nil
}
