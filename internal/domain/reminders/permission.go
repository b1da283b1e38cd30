package reminders

import (
	"context"
	"strings"
)

// Permission replica los estados del permiso de notificaciones del browser.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func ParsePermission(raw string) (Permission, bool) {
	switch p := Permission(strings.ToLower(strings.TrimSpace(raw))); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, true
	default:
		return "", false
	}
}

// PermissionRepository devuelve PermissionDefault para identidades sin registro.
type PermissionRepository interface {
	GetPermission(ctx context.Context, identity string) (Permission, error)
	SetPermission(ctx context.Context, identity string, p Permission) error
}
