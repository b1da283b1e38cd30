package doses

import (
	"time"

	"med-reminder/internal/domain/schedule"
)

// TakenMarker registra que una dosis (prescripción, fecha, horario) se tomó.
type TakenMarker struct {
	Owner          string
	Date           time.Time // fecha calendario (medianoche UTC)
	PrescriptionID string
	Time           string // HH:MM
	TakenAt        time.Time
}

// Key es el id del marker dentro de su fecha: "{prescriptionId}-{time}".
func (m TakenMarker) Key() string {
	return schedule.DoseKey(m.PrescriptionID, m.Time)
}
