package memory

import (
	"context"
	"errors"
	"sync"

	"med-reminder/internal/domain/invitations"
)

type invitationRepo struct {
	mu   sync.RWMutex
	byID map[string]invitations.Invitation
}

func NewInvitationRepo() invitations.Repository {
	return &invitationRepo{
		byID: make(map[string]invitations.Invitation),
	}
}

func (r *invitationRepo) Create(ctx context.Context, inv invitations.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inv.ID == "" {
		return errors.New("invitation id required")
	}
	if _, exists := r.byID[inv.ID]; exists {
		return errors.New("invitation already exists")
	}
	r.byID[inv.ID] = inv
	return nil
}

func (r *invitationRepo) Update(ctx context.Context, inv invitations.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[inv.ID]; !exists {
		return invitations.ErrNotFound
	}
	r.byID[inv.ID] = inv
	return nil
}

func (r *invitationRepo) GetByID(ctx context.Context, id string) (invitations.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byID[id]
	if !ok {
		return invitations.Invitation{}, invitations.ErrNotFound
	}
	return inv, nil
}

func (r *invitationRepo) ListByRecipient(ctx context.Context, to string, status invitations.Status) ([]invitations.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]invitations.Invitation, 0)
	for _, inv := range r.byID {
		if inv.To != to {
			continue
		}
		if status != "" && inv.Status != status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *invitationRepo) ListBySender(ctx context.Context, from string) ([]invitations.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]invitations.Invitation, 0)
	for _, inv := range r.byID {
		if inv.From == from {
			out = append(out, inv)
		}
	}
	return out, nil
}
