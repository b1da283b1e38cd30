package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"med-reminder/internal/domain/reminders"
)

type LinksRepo struct {
	db *sql.DB
	d  Dialect
}

func NewLinksRepo(db *sql.DB, d Dialect) *LinksRepo {
	return &LinksRepo{db: db, d: d}
}

func (r *LinksRepo) AddLink(ctx context.Context, a, b string) error {
	_, err := r.db.ExecContext(ctx, rebind(r.d, `
		INSERT INTO linked_users (identity, linked) VALUES (?, ?)
		ON CONFLICT (identity, linked) DO NOTHING
	`), a, b)
	return err
}

func (r *LinksRepo) ListLinked(ctx context.Context, identity string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.d, `
		SELECT linked FROM linked_users WHERE identity = ? ORDER BY linked ASC
	`), identity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var linked string
		if err := rows.Scan(&linked); err != nil {
			return nil, err
		}
		out = append(out, linked)
	}
	return out, rows.Err()
}

type PermissionsRepo struct {
	db  *sql.DB
	d   Dialect
	now func() time.Time
}

func NewPermissionsRepo(db *sql.DB, d Dialect) *PermissionsRepo {
	return &PermissionsRepo{db: db, d: d, now: time.Now}
}

func (r *PermissionsRepo) GetPermission(ctx context.Context, identity string) (reminders.Permission, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, rebind(r.d, `
		SELECT permission FROM notification_permissions WHERE identity = ?
	`), identity).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return reminders.PermissionDefault, nil
	}
	if err != nil {
		return "", err
	}

	p, ok := reminders.ParsePermission(raw)
	if !ok {
		return reminders.PermissionDefault, nil
	}
	return p, nil
}

func (r *PermissionsRepo) SetPermission(ctx context.Context, identity string, p reminders.Permission) error {
	_, err := r.db.ExecContext(ctx, rebind(r.d, `
		INSERT INTO notification_permissions (identity, permission, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (identity) DO UPDATE SET
			permission = excluded.permission,
			updated_at = excluded.updated_at
	`), identity, string(p), formatTimestamp(r.now()))
	return err
}
