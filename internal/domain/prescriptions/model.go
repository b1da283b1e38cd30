package prescriptions

import (
	"fmt"
	"strings"
	"time"

	"med-reminder/internal/domain/schedule"

	"github.com/samber/mo"
)

// SchemaVersion se persiste con cada prescripción; los adapters rechazan
// documentos de versiones que no saben leer.
const SchemaVersion = 1

type Prescription struct {
	ID    string
	Owner string // identidad dueña (email normalizado)

	Name   string
	Dosage string

	Frequency   schedule.Frequency
	StartDate   time.Time
	EndDate     *time.Time
	TimesPerDay []string

	SchemaVersion int
	CreatedAt     time.Time
}

func (p Prescription) Rule() schedule.Rule {
	return schedule.Rule{
		Frequency: p.Frequency,
		Start:     p.StartDate,
		End:       mo.PointerToOption(p.EndDate),
		Times:     p.TimesPerDay,
	}
}

// Validate chequea las invariantes de un registro persistido. Se usa al leer
// desde storage, además de en Create.
func (p Prescription) Validate() error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Owner) == "" {
		return fmt.Errorf("%w: id and owner required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Dosage) == "" {
		return fmt.Errorf("%w: name and dosage required", ErrInvalidInput)
	}
	if !p.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, p.Frequency)
	}
	if len(p.TimesPerDay) == 0 {
		return fmt.Errorf("%w: at least one time required", ErrInvalidInput)
	}
	for _, t := range p.TimesPerDay {
		if _, _, err := schedule.ParseClock(t); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if p.SchemaVersion != SchemaVersion {
		return fmt.Errorf("%w: unsupported schema version %d", ErrInvalidInput, p.SchemaVersion)
	}
	return nil
}
