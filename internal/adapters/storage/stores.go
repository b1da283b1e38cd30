package storage

import (
	"med-reminder/internal/domain/doses"
	"med-reminder/internal/domain/invitations"
	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/reminders"
)

// Stores agrupa los repositorios de un backend (memory, sql, firestore).
type Stores struct {
	Prescriptions prescriptions.Repository
	Doses         doses.Repository
	Invitations   invitations.Repository
	Links         invitations.LinkRepository
	Permissions   reminders.PermissionRepository

	// Close libera el backend; puede ser nil.
	Close func() error
}
