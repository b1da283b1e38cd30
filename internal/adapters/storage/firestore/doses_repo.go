package firestore

import (
	"context"
	"time"

	"med-reminder/internal/domain/doses"
	"med-reminder/internal/domain/schedule"

	fs "cloud.google.com/go/firestore"
)

type DosesRepo struct {
	client *fs.Client
}

func NewDosesRepo(client *fs.Client) *DosesRepo {
	return &DosesRepo{client: client}
}

// events devuelve users/{owner}/taken/{YYYY-MM-DD}/events.
func (r *DosesRepo) events(owner string, date time.Time) *fs.CollectionRef {
	return userDocRef(r.client, owner).
		Collection(takenCollection).
		Doc(schedule.FormatDate(date)).
		Collection(eventsCollection)
}

func (r *DosesRepo) Put(ctx context.Context, m doses.TakenMarker) error {
	_, err := r.events(m.Owner, m.Date).Doc(m.Key()).Set(ctx, takenDoc{
		PrescriptionID: m.PrescriptionID,
		Time:           m.Time,
		Taken:          true,
		TakenAt:        m.TakenAt.UTC(),
	})
	return err
}

func (r *DosesRepo) Delete(ctx context.Context, owner string, date time.Time, key string) error {
	// Delete sin precondición no falla si el doc no existe
	_, err := r.events(owner, date).Doc(key).Delete(ctx)
	return err
}

func (r *DosesRepo) ListByDate(ctx context.Context, owner string, date time.Time) ([]doses.TakenMarker, error) {
	snaps, err := r.events(owner, date).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	out := make([]doses.TakenMarker, 0, len(snaps))
	for _, snap := range snaps {
		var d takenDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		if !d.Taken {
			continue
		}
		out = append(out, d.toDomain(owner, date))
	}
	return out, nil
}
