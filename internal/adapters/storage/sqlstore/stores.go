package sqlstore

import (
	"database/sql"
	"time"

	"med-reminder/internal/adapters/storage"
)

// NewStores arma los repositorios sobre una conexión ya migrada.
func NewStores(db *sql.DB, d Dialect) storage.Stores {
	return storage.Stores{
		Prescriptions: NewPrescriptionsRepo(db, d),
		Doses:         NewDosesRepo(db, d),
		Invitations:   NewInvitationsRepo(db, d),
		Links:         NewLinksRepo(db, d),
		Permissions:   NewPermissionsRepo(db, d),
		Close:         db.Close,
	}
}

// timestamps y fechas se guardan como TEXT para que el mismo schema sirva
// en postgres y sqlite.
const timestampLayout = time.RFC3339Nano

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}
