package firestore

import (
	"testing"
	"time"

	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrescriptionDoc_DatesAreTimestamps(t *testing.T) {
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	p := prescriptions.Prescription{
		ID: "rx-1", Owner: "ana@example.com", Name: "Amoxicillin", Dosage: "500mg",
		Frequency: schedule.Daily, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &end,
		TimesPerDay: []string{"20:00", "08:00"}, SchemaVersion: prescriptions.SchemaVersion,
		CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	d := toPrescriptionDoc(p)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d.StartDate)
	require.NotNil(t, d.EndDate)
	assert.Equal(t, end, *d.EndDate)

	got, err := d.toDomain("rx-1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPrescriptionDoc_ReadsTimestampFromAnotherWriter(t *testing.T) {
	// un cliente que guardó la fecha con hora distinta de cero
	d := prescriptionDoc{
		Owner: "ana@example.com", Name: "X", Dosage: "Y", Frequency: string(schedule.Weekly),
		StartDate:     time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		TimesPerDay:   []string{"08:00"},
		SchemaVersion: prescriptions.SchemaVersion,
	}

	got, err := d.toDomain("rx-2")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got.StartDate)
	assert.Nil(t, got.EndDate)
}

func TestPrescriptionDoc_MissingStartDate(t *testing.T) {
	d := prescriptionDoc{
		Owner: "ana@example.com", Name: "X", Dosage: "Y", Frequency: string(schedule.Daily),
		TimesPerDay: []string{"08:00"}, SchemaVersion: prescriptions.SchemaVersion,
	}

	_, err := d.toDomain("rx-3")
	assert.Error(t, err)
}
