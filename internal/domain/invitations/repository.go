package invitations

import "context"

type Repository interface {
	Create(ctx context.Context, inv Invitation) error
	Update(ctx context.Context, inv Invitation) error
	GetByID(ctx context.Context, id string) (Invitation, error)
	// ListByRecipient filtra por status si status != "".
	ListByRecipient(ctx context.Context, to string, status Status) ([]Invitation, error)
	ListBySender(ctx context.Context, from string) ([]Invitation, error)
}

// LinkRepository guarda el set linkedUsers de cada identidad.
type LinkRepository interface {
	// AddLink une b en el set de a (merge-union; repetirlo no duplica).
	AddLink(ctx context.Context, a, b string) error
	ListLinked(ctx context.Context, identity string) ([]string, error)
}
