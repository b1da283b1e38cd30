package prescriptions

import "context"

// Repository devuelve ErrNotFound cuando (owner, id) no existe.
type Repository interface {
	Create(ctx context.Context, p Prescription) error
	Get(ctx context.Context, owner, id string) (Prescription, error)
	ListByOwner(ctx context.Context, owner string) ([]Prescription, error)
	ListAll(ctx context.Context) ([]Prescription, error)
	Delete(ctx context.Context, owner, id string) error
}
