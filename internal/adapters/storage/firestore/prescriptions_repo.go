package firestore

import (
	"context"
	"sort"

	"med-reminder/internal/domain/prescriptions"

	fs "cloud.google.com/go/firestore"
)

type PrescriptionsRepo struct {
	client *fs.Client
}

func NewPrescriptionsRepo(client *fs.Client) *PrescriptionsRepo {
	return &PrescriptionsRepo{client: client}
}

func (r *PrescriptionsRepo) coll(owner string) *fs.CollectionRef {
	return userDocRef(r.client, owner).Collection(prescriptionsCollection)
}

func (r *PrescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	_, err := r.coll(p.Owner).Doc(p.ID).Create(ctx, toPrescriptionDoc(p))
	return err
}

func (r *PrescriptionsRepo) Get(ctx context.Context, owner, id string) (prescriptions.Prescription, error) {
	if id == "" {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}

	snap, err := r.coll(owner).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return prescriptions.Prescription{}, prescriptions.ErrNotFound
		}
		return prescriptions.Prescription{}, err
	}

	var d prescriptionDoc
	if err := snap.DataTo(&d); err != nil {
		return prescriptions.Prescription{}, err
	}
	return d.toDomain(snap.Ref.ID)
}

func (r *PrescriptionsRepo) ListByOwner(ctx context.Context, owner string) ([]prescriptions.Prescription, error) {
	snaps, err := r.coll(owner).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodePrescriptions(snaps)
}

// ListAll recorre todas las subcolecciones prescriptions (collection group).
func (r *PrescriptionsRepo) ListAll(ctx context.Context) ([]prescriptions.Prescription, error) {
	snaps, err := r.client.CollectionGroup(prescriptionsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodePrescriptions(snaps)
}

func (r *PrescriptionsRepo) Delete(ctx context.Context, owner, id string) error {
	_, err := r.coll(owner).Doc(id).Delete(ctx, fs.Exists)
	if isNotFound(err) {
		return prescriptions.ErrNotFound
	}
	return err
}

func decodePrescriptions(snaps []*fs.DocumentSnapshot) ([]prescriptions.Prescription, error) {
	out := make([]prescriptions.Prescription, 0, len(snaps))
	for _, snap := range snaps {
		var d prescriptionDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		p, err := d.toDomain(snap.Ref.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
