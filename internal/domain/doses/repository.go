package doses

import (
	"context"
	"time"
)

type Repository interface {
	// Put crea o pisa el marker (last write wins).
	Put(ctx context.Context, m TakenMarker) error
	// Delete no falla si el marker no existe.
	Delete(ctx context.Context, owner string, date time.Time, key string) error
	ListByDate(ctx context.Context, owner string, date time.Time) ([]TakenMarker, error)
}
