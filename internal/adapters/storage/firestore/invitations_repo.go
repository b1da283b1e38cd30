package firestore

import (
	"context"

	"med-reminder/internal/domain/invitations"

	fs "cloud.google.com/go/firestore"
)

type InvitationsRepo struct {
	client *fs.Client
}

func NewInvitationsRepo(client *fs.Client) *InvitationsRepo {
	return &InvitationsRepo{client: client}
}

func (r *InvitationsRepo) coll() *fs.CollectionRef {
	return r.client.Collection(invitationsCollection)
}

func (r *InvitationsRepo) Create(ctx context.Context, inv invitations.Invitation) error {
	_, err := r.coll().Doc(inv.ID).Create(ctx, invitationDoc{
		From:      inv.From,
		To:        inv.To,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt.UTC(),
		UpdatedAt: inv.UpdatedAt.UTC(),
	})
	return err
}

func (r *InvitationsRepo) Update(ctx context.Context, inv invitations.Invitation) error {
	_, err := r.coll().Doc(inv.ID).Update(ctx, []fs.Update{
		{Path: "status", Value: string(inv.Status)},
		{Path: "updatedAt", Value: inv.UpdatedAt.UTC()},
	})
	if isNotFound(err) {
		return invitations.ErrNotFound
	}
	return err
}

func (r *InvitationsRepo) GetByID(ctx context.Context, id string) (invitations.Invitation, error) {
	if id == "" {
		return invitations.Invitation{}, invitations.ErrNotFound
	}

	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return invitations.Invitation{}, invitations.ErrNotFound
		}
		return invitations.Invitation{}, err
	}

	var d invitationDoc
	if err := snap.DataTo(&d); err != nil {
		return invitations.Invitation{}, err
	}
	return d.toDomain(snap.Ref.ID), nil
}

func (r *InvitationsRepo) ListByRecipient(ctx context.Context, to string, status invitations.Status) ([]invitations.Invitation, error) {
	q := r.coll().Where("to", "==", to)
	if status != "" {
		q = q.Where("status", "==", string(status))
	}
	return r.query(ctx, q)
}

func (r *InvitationsRepo) ListBySender(ctx context.Context, from string) ([]invitations.Invitation, error) {
	return r.query(ctx, r.coll().Where("from", "==", from))
}

func (r *InvitationsRepo) query(ctx context.Context, q fs.Query) ([]invitations.Invitation, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	out := make([]invitations.Invitation, 0, len(snaps))
	for _, snap := range snaps {
		var d invitationDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toDomain(snap.Ref.ID))
	}
	return out, nil
}
