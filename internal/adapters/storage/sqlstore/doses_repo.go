package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"med-reminder/internal/domain/doses"
	"med-reminder/internal/domain/schedule"
)

type DosesRepo struct {
	db *sql.DB
	d  Dialect
}

func NewDosesRepo(db *sql.DB, d Dialect) *DosesRepo {
	return &DosesRepo{db: db, d: d}
}

func (r *DosesRepo) Put(ctx context.Context, m doses.TakenMarker) error {
	_, err := r.db.ExecContext(ctx, rebind(r.d, `
		INSERT INTO taken_markers (owner, date, event_key, prescription_id, time, taken_at)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT (owner, date, event_key) DO UPDATE SET
			prescription_id = excluded.prescription_id,
			time = excluded.time,
			taken_at = excluded.taken_at
	`),
		m.Owner,
		schedule.FormatDate(m.Date),
		m.Key(),
		m.PrescriptionID,
		m.Time,
		formatTimestamp(m.TakenAt),
	)
	return err
}

func (r *DosesRepo) Delete(ctx context.Context, owner string, date time.Time, key string) error {
	_, err := r.db.ExecContext(ctx, rebind(r.d, `
		DELETE FROM taken_markers WHERE owner = ? AND date = ? AND event_key = ?
	`), owner, schedule.FormatDate(date), key)
	return err
}

func (r *DosesRepo) ListByDate(ctx context.Context, owner string, date time.Time) ([]doses.TakenMarker, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.d, `
		SELECT prescription_id, time, taken_at
		FROM taken_markers
		WHERE owner = ? AND date = ?
		ORDER BY time ASC, prescription_id ASC
	`), owner, schedule.FormatDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	day := schedule.DateOf(date)
	out := make([]doses.TakenMarker, 0)
	for rows.Next() {
		m := doses.TakenMarker{Owner: owner, Date: day}
		var takenAt string
		if err := rows.Scan(&m.PrescriptionID, &m.Time, &takenAt); err != nil {
			return nil, err
		}
		if m.TakenAt, err = parseTimestamp(takenAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
