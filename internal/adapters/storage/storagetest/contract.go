// Package storagetest tiene la batería común que todo backend de storage.Stores
// tiene que pasar.
package storagetest

import (
	"context"
	"testing"
	"time"

	"med-reminder/internal/adapters/storage"
	"med-reminder/internal/domain/doses"
	"med-reminder/internal/domain/invitations"
	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/reminders"
	"med-reminder/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run ejecuta la batería; newStores debe devolver un backend vacío por llamada.
func Run(t *testing.T, newStores func(t *testing.T) storage.Stores) {
	t.Run("prescriptions", func(t *testing.T) { testPrescriptions(t, newStores(t)) })
	t.Run("doses", func(t *testing.T) { testDoses(t, newStores(t)) })
	t.Run("invitations", func(t *testing.T) { testInvitations(t, newStores(t)) })
	t.Run("links", func(t *testing.T) { testLinks(t, newStores(t)) })
	t.Run("permissions", func(t *testing.T) { testPermissions(t, newStores(t)) })
}

func date(s string) time.Time {
	d, err := schedule.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func samplePrescription(id, owner string, created time.Time) prescriptions.Prescription {
	end := date("2024-01-31")
	return prescriptions.Prescription{
		ID:            id,
		Owner:         owner,
		Name:          "Amoxicillin",
		Dosage:        "500mg",
		Frequency:     schedule.EveryTwoDays,
		StartDate:     date("2024-01-01"),
		EndDate:       &end,
		TimesPerDay:   []string{"08:00", "20:00"},
		SchemaVersion: prescriptions.SchemaVersion,
		CreatedAt:     created,
	}
}

func testPrescriptions(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	a := samplePrescription("p-1", "ana@example.com", base)
	b := samplePrescription("p-2", "ana@example.com", base.Add(time.Minute))
	b.EndDate = nil
	b.Frequency = schedule.Daily
	other := samplePrescription("p-3", "bob@example.com", base)

	for _, p := range []prescriptions.Prescription{a, b, other} {
		require.NoError(t, s.Prescriptions.Create(ctx, p))
	}

	got, err := s.Prescriptions.Get(ctx, "ana@example.com", "p-1")
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, a.Frequency, got.Frequency)
	assert.True(t, a.StartDate.Equal(got.StartDate))
	require.NotNil(t, got.EndDate)
	assert.True(t, a.EndDate.Equal(*got.EndDate))
	assert.Equal(t, a.TimesPerDay, got.TimesPerDay)
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt))

	// otro dueño no la ve
	_, err = s.Prescriptions.Get(ctx, "bob@example.com", "p-1")
	assert.ErrorIs(t, err, prescriptions.ErrNotFound)

	list, err := s.Prescriptions.ListByOwner(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{"p-1", "p-2"}, ids)
	for _, p := range list {
		if p.ID == "p-2" {
			assert.Nil(t, p.EndDate)
		}
	}

	all, err := s.Prescriptions.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.ErrorIs(t, s.Prescriptions.Delete(ctx, "bob@example.com", "p-1"), prescriptions.ErrNotFound)
	require.NoError(t, s.Prescriptions.Delete(ctx, "ana@example.com", "p-1"))
	_, err = s.Prescriptions.Get(ctx, "ana@example.com", "p-1")
	assert.ErrorIs(t, err, prescriptions.ErrNotFound)
	assert.ErrorIs(t, s.Prescriptions.Delete(ctx, "ana@example.com", "p-1"), prescriptions.ErrNotFound)
}

func testDoses(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	day := date("2024-01-05")
	takenAt := time.Date(2024, 1, 5, 8, 3, 0, 0, time.UTC)

	m := doses.TakenMarker{Owner: "ana@example.com", Date: day, PrescriptionID: "p-1", Time: "08:00", TakenAt: takenAt}
	require.NoError(t, s.Doses.Put(ctx, m))

	// last write wins
	m.TakenAt = takenAt.Add(time.Minute)
	require.NoError(t, s.Doses.Put(ctx, m))

	require.NoError(t, s.Doses.Put(ctx, doses.TakenMarker{
		Owner: "ana@example.com", Date: date("2024-01-06"), PrescriptionID: "p-1", Time: "08:00", TakenAt: takenAt,
	}))

	list, err := s.Doses.ListByDate(ctx, "ana@example.com", day)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p-1-08:00", list[0].Key())
	assert.True(t, m.TakenAt.Equal(list[0].TakenAt))

	other, err := s.Doses.ListByDate(ctx, "bob@example.com", day)
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.Doses.Delete(ctx, "ana@example.com", day, m.Key()))
	require.NoError(t, s.Doses.Delete(ctx, "ana@example.com", day, m.Key()))

	list, err = s.Doses.ListByDate(ctx, "ana@example.com", day)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testInvitations(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	inv := invitations.Invitation{
		ID: "inv-1", From: "ana@example.com", To: "bob@example.com",
		Status: invitations.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Invitations.Create(ctx, inv))
	require.NoError(t, s.Invitations.Create(ctx, invitations.Invitation{
		ID: "inv-2", From: "carl@example.com", To: "bob@example.com",
		Status: invitations.StatusDeclined, CreatedAt: now, UpdatedAt: now,
	}))

	got, err := s.Invitations.GetByID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, inv.From, got.From)
	assert.Equal(t, invitations.StatusPending, got.Status)

	_, err = s.Invitations.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, invitations.ErrNotFound)

	pending, err := s.Invitations.ListByRecipient(ctx, "bob@example.com", invitations.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "inv-1", pending[0].ID)

	all, err := s.Invitations.ListByRecipient(ctx, "bob@example.com", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	sent, err := s.Invitations.ListBySender(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	inv.Status = invitations.StatusAccepted
	inv.UpdatedAt = now.Add(time.Hour)
	require.NoError(t, s.Invitations.Update(ctx, inv))

	got, err = s.Invitations.GetByID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, invitations.StatusAccepted, got.Status)
	assert.True(t, inv.UpdatedAt.Equal(got.UpdatedAt))

	assert.ErrorIs(t, s.Invitations.Update(ctx, invitations.Invitation{ID: "missing"}), invitations.ErrNotFound)
}

func testLinks(t *testing.T, s storage.Stores) {
	ctx := context.Background()

	require.NoError(t, s.Links.AddLink(ctx, "ana@example.com", "bob@example.com"))
	require.NoError(t, s.Links.AddLink(ctx, "ana@example.com", "bob@example.com"))
	require.NoError(t, s.Links.AddLink(ctx, "ana@example.com", "carl@example.com"))

	linked, err := s.Links.ListLinked(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob@example.com", "carl@example.com"}, linked)

	// la unión no es simétrica por sí sola
	linked, err = s.Links.ListLinked(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, linked)
}

func testPermissions(t *testing.T, s storage.Stores) {
	ctx := context.Background()

	p, err := s.Permissions.GetPermission(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, reminders.PermissionDefault, p)

	require.NoError(t, s.Permissions.SetPermission(ctx, "ana@example.com", reminders.PermissionGranted))
	require.NoError(t, s.Permissions.SetPermission(ctx, "ana@example.com", reminders.PermissionDenied))

	p, err = s.Permissions.GetPermission(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, reminders.PermissionDenied, p)
}
