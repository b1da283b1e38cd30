package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"med-reminder/internal/domain/invitations"
)

type InvitationsRepo struct {
	db *sql.DB
	d  Dialect
}

func NewInvitationsRepo(db *sql.DB, d Dialect) *InvitationsRepo {
	return &InvitationsRepo{db: db, d: d}
}

func (r *InvitationsRepo) Create(ctx context.Context, inv invitations.Invitation) error {
	_, err := r.db.ExecContext(ctx, rebind(r.d, `
		INSERT INTO invitations (id, from_identity, to_identity, status, created_at, updated_at)
		VALUES (?,?,?,?,?,?)
	`),
		inv.ID,
		inv.From,
		inv.To,
		string(inv.Status),
		formatTimestamp(inv.CreatedAt),
		formatTimestamp(inv.UpdatedAt),
	)
	return err
}

func (r *InvitationsRepo) Update(ctx context.Context, inv invitations.Invitation) error {
	res, err := r.db.ExecContext(ctx, rebind(r.d, `
		UPDATE invitations
		SET status = ?, updated_at = ?
		WHERE id = ?
	`), string(inv.Status), formatTimestamp(inv.UpdatedAt), inv.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return invitations.ErrNotFound
	}
	return nil
}

func (r *InvitationsRepo) GetByID(ctx context.Context, id string) (invitations.Invitation, error) {
	row := r.db.QueryRowContext(ctx, rebind(r.d, `
		SELECT id, from_identity, to_identity, status, created_at, updated_at
		FROM invitations
		WHERE id = ?
	`), id)

	inv, err := scanInvitation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return invitations.Invitation{}, invitations.ErrNotFound
	}
	return inv, err
}

func (r *InvitationsRepo) ListByRecipient(ctx context.Context, to string, status invitations.Status) ([]invitations.Invitation, error) {
	if status == "" {
		return r.list(ctx, `WHERE to_identity = ?`, to)
	}
	return r.list(ctx, `WHERE to_identity = ? AND status = ?`, to, string(status))
}

func (r *InvitationsRepo) ListBySender(ctx context.Context, from string) ([]invitations.Invitation, error) {
	return r.list(ctx, `WHERE from_identity = ?`, from)
}

func (r *InvitationsRepo) list(ctx context.Context, where string, args ...any) ([]invitations.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.d, `
		SELECT id, from_identity, to_identity, status, created_at, updated_at
		FROM invitations
		`+where+`
		ORDER BY created_at ASC, id ASC
	`), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]invitations.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanInvitation(s rowScanner) (invitations.Invitation, error) {
	var (
		inv                  invitations.Invitation
		status               string
		createdAt, updatedAt string
	)
	if err := s.Scan(&inv.ID, &inv.From, &inv.To, &status, &createdAt, &updatedAt); err != nil {
		return invitations.Invitation{}, err
	}
	inv.Status = invitations.Status(status)

	var err error
	if inv.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return invitations.Invitation{}, err
	}
	if inv.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return invitations.Invitation{}, err
	}
	return inv, nil
}
