package auth

import "strings"

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
}

// Identity es la identidad canónica del usuario: el email en minúsculas
// (o el user id si el proveedor no expone email).
func (c Claims) Identity() string {
	if e := strings.ToLower(strings.TrimSpace(c.Email)); e != "" {
		return e
	}
	return strings.ToLower(strings.TrimSpace(c.UserID))
}

// NormalizeIdentity aplica la misma normalización a una identidad que llega
// en un request (p.ej. destinatario de una invitación).
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PathSegment sanitiza una identidad para usarla como segmento de path en el
// document store: los puntos se reemplazan por "_".
func PathSegment(identity string) string {
	return strings.ReplaceAll(NormalizeIdentity(identity), ".", "_")
}
