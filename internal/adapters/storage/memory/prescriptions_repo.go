package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"med-reminder/internal/domain/prescriptions"
)

type prescriptionRepo struct {
	mu   sync.RWMutex
	byID map[string]prescriptions.Prescription
}

func NewPrescriptionRepo() prescriptions.Repository {
	return &prescriptionRepo{
		byID: make(map[string]prescriptions.Prescription),
	}
}

func (r *prescriptionRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("prescription id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("prescription already exists")
	}
	r.byID[p.ID] = clonePrescription(p)
	return nil
}

func (r *prescriptionRepo) Get(ctx context.Context, owner, id string) (prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok || p.Owner != owner {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}
	return clonePrescription(p), nil
}

func (r *prescriptionRepo) ListByOwner(ctx context.Context, owner string) ([]prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prescriptions.Prescription, 0)
	for _, p := range r.byID {
		if p.Owner == owner {
			out = append(out, clonePrescription(p))
		}
	}
	return out, nil
}

func (r *prescriptionRepo) ListAll(ctx context.Context) ([]prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prescriptions.Prescription, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePrescription(p))
	}
	return out, nil
}

func (r *prescriptionRepo) Delete(ctx context.Context, owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok || p.Owner != owner {
		return prescriptions.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// clonePrescription evita compartir slices/punteros con el caller.
func clonePrescription(p prescriptions.Prescription) prescriptions.Prescription {
	p.TimesPerDay = append([]string(nil), p.TimesPerDay...)
	if p.EndDate != nil {
		end := *p.EndDate
		p.EndDate = &end
	}
	return p
}
