package firestore

import (
	"fmt"
	"time"

	"med-reminder/internal/domain/doses"
	"med-reminder/internal/domain/invitations"
	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/schedule"
)

// Documentos persistidos, campos en camelCase. startDate y endDate son
// Timestamps a medianoche UTC; al leer se toma la fecha calendario.

type prescriptionDoc struct {
	Owner         string     `firestore:"owner"`
	Name          string     `firestore:"name"`
	Dosage        string     `firestore:"dosage"`
	Frequency     string     `firestore:"frequency"`
	StartDate     time.Time  `firestore:"startDate"`
	EndDate       *time.Time `firestore:"endDate,omitempty"`
	TimesPerDay   []string   `firestore:"timesPerDay"`
	SchemaVersion int        `firestore:"schemaVersion"`
	CreatedAt     time.Time  `firestore:"createdAt"`
}

func toPrescriptionDoc(p prescriptions.Prescription) prescriptionDoc {
	d := prescriptionDoc{
		Owner:         p.Owner,
		Name:          p.Name,
		Dosage:        p.Dosage,
		Frequency:     string(p.Frequency),
		StartDate:     schedule.DateOf(p.StartDate),
		TimesPerDay:   p.TimesPerDay,
		SchemaVersion: p.SchemaVersion,
		CreatedAt:     p.CreatedAt.UTC(),
	}
	if p.EndDate != nil {
		end := schedule.DateOf(*p.EndDate)
		d.EndDate = &end
	}
	return d
}

func (d prescriptionDoc) toDomain(id string) (prescriptions.Prescription, error) {
	if d.StartDate.IsZero() {
		return prescriptions.Prescription{}, fmt.Errorf("prescription %s: missing startDate", id)
	}
	p := prescriptions.Prescription{
		ID:            id,
		Owner:         d.Owner,
		Name:          d.Name,
		Dosage:        d.Dosage,
		Frequency:     schedule.Frequency(d.Frequency),
		StartDate:     schedule.DateOf(d.StartDate.UTC()),
		TimesPerDay:   d.TimesPerDay,
		SchemaVersion: d.SchemaVersion,
		CreatedAt:     d.CreatedAt,
	}
	if d.EndDate != nil && !d.EndDate.IsZero() {
		end := schedule.DateOf(d.EndDate.UTC())
		p.EndDate = &end
	}
	if err := p.Validate(); err != nil {
		return prescriptions.Prescription{}, fmt.Errorf("prescription %s: %w", id, err)
	}
	return p, nil
}

type takenDoc struct {
	PrescriptionID string    `firestore:"prescriptionId"`
	Time           string    `firestore:"time"`
	Taken          bool      `firestore:"taken"`
	TakenAt        time.Time `firestore:"takenAt"`
}

func (d takenDoc) toDomain(owner string, date time.Time) doses.TakenMarker {
	return doses.TakenMarker{
		Owner:          owner,
		Date:           schedule.DateOf(date),
		PrescriptionID: d.PrescriptionID,
		Time:           d.Time,
		TakenAt:        d.TakenAt,
	}
}

type invitationDoc struct {
	From      string    `firestore:"from"`
	To        string    `firestore:"to"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func (d invitationDoc) toDomain(id string) invitations.Invitation {
	return invitations.Invitation{
		ID:        id,
		From:      d.From,
		To:        d.To,
		Status:    invitations.Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// userDoc es users/{identity}: set de vinculados y permiso de notificaciones.
type userDoc struct {
	LinkedUsers            []string `firestore:"linkedUsers"`
	NotificationPermission string   `firestore:"notificationPermission"`
}
