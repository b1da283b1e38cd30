package firestore

import (
	"context"

	"med-reminder/internal/domain/reminders"

	fs "cloud.google.com/go/firestore"
)

// UsersRepo guarda en users/{identity} el set linkedUsers y el permiso de
// notificaciones.
type UsersRepo struct {
	client *fs.Client
}

func NewUsersRepo(client *fs.Client) *UsersRepo {
	return &UsersRepo{client: client}
}

func (r *UsersRepo) AddLink(ctx context.Context, a, b string) error {
	_, err := userDocRef(r.client, a).Set(ctx, map[string]any{
		"linkedUsers": fs.ArrayUnion(b),
	}, fs.MergeAll)
	return err
}

func (r *UsersRepo) ListLinked(ctx context.Context, identity string) ([]string, error) {
	d, err := r.get(ctx, identity)
	if err != nil {
		return nil, err
	}
	if d.LinkedUsers == nil {
		return []string{}, nil
	}
	return d.LinkedUsers, nil
}

func (r *UsersRepo) GetPermission(ctx context.Context, identity string) (reminders.Permission, error) {
	d, err := r.get(ctx, identity)
	if err != nil {
		return "", err
	}
	p, ok := reminders.ParsePermission(d.NotificationPermission)
	if !ok {
		return reminders.PermissionDefault, nil
	}
	return p, nil
}

func (r *UsersRepo) SetPermission(ctx context.Context, identity string, p reminders.Permission) error {
	_, err := userDocRef(r.client, identity).Set(ctx, map[string]any{
		"notificationPermission": string(p),
	}, fs.MergeAll)
	return err
}

// get devuelve un userDoc vacío si el documento no existe.
func (r *UsersRepo) get(ctx context.Context, identity string) (userDoc, error) {
	snap, err := userDocRef(r.client, identity).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return userDoc{}, nil
		}
		return userDoc{}, err
	}

	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return userDoc{}, err
	}
	return d, nil
}
