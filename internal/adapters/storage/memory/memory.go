package memory

import "med-reminder/internal/adapters/storage"

// New devuelve stores in-memory (default en dev y tests).
func New() storage.Stores {
	return storage.Stores{
		Prescriptions: NewPrescriptionRepo(),
		Doses:         NewDoseRepo(),
		Invitations:   NewInvitationRepo(),
		Links:         NewLinkRepo(),
		Permissions:   NewPermissionRepo(),
	}
}
