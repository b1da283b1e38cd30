package schedule

import "strings"

type Frequency string

const (
	Daily        Frequency = "daily"
	EveryTwoDays Frequency = "every-2-days"
	Weekly       Frequency = "weekly"
)

// Step es la distancia en días entre dos fechas consecutivas con dosis.
// 0 para frecuencias desconocidas.
func (f Frequency) Step() int {
	switch f {
	case Daily:
		return 1
	case EveryTwoDays:
		return 2
	case Weekly:
		return 7
	default:
		return 0
	}
}

func (f Frequency) Valid() bool {
	return f.Step() > 0
}

func ParseFrequency(raw string) (Frequency, bool) {
	f := Frequency(strings.ToLower(strings.TrimSpace(raw)))
	return f, f.Valid()
}
