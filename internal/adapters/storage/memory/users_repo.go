package memory

import (
	"context"
	"sync"

	"med-reminder/internal/domain/invitations"
	"med-reminder/internal/domain/reminders"
)

type linkRepo struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

func NewLinkRepo() invitations.LinkRepository {
	return &linkRepo{sets: make(map[string]map[string]struct{})}
}

func (r *linkRepo) AddLink(ctx context.Context, a, b string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[a]
	if !ok {
		set = make(map[string]struct{})
		r.sets[a] = set
	}
	set[b] = struct{}{}
	return nil
}

func (r *linkRepo) ListLinked(ctx context.Context, identity string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.sets[identity]))
	for x := range r.sets[identity] {
		out = append(out, x)
	}
	return out, nil
}

type permissionRepo struct {
	mu    sync.RWMutex
	perms map[string]reminders.Permission
}

func NewPermissionRepo() reminders.PermissionRepository {
	return &permissionRepo{perms: make(map[string]reminders.Permission)}
}

func (r *permissionRepo) GetPermission(ctx context.Context, identity string) (reminders.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.perms[identity]; ok {
		return p, nil
	}
	return reminders.PermissionDefault, nil
}

func (r *permissionRepo) SetPermission(ctx context.Context, identity string, p reminders.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.perms[identity] = p
	return nil
}
