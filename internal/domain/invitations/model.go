package invitations

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Terminal: accepted y declined no tienen transiciones de salida.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

type Invitation struct {
	ID string

	From string // quien invita
	To   string // destinatario

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
