package schedule

import (
	"time"

	"github.com/samber/mo"
)

const DefaultWindowDays = 7

// Rule es la regla de recurrencia de una prescripción. Start y End son fechas
// calendario; la hora se ignora.
type Rule struct {
	Frequency Frequency
	Start     time.Time
	End       mo.Option[time.Time]
	Times     []string
}

// Window cubre [Start, Start+Days-1].
type Window struct {
	Start time.Time
	Days  int
}

func WeekFrom(start time.Time) Window {
	return Window{Start: DateOf(start), Days: DefaultWindowDays}
}

// Last es la última fecha (inclusive) de la ventana.
func (w Window) Last() time.Time {
	return DateOf(w.Start).AddDate(0, 0, w.Days-1)
}

func (w Window) Dates() []time.Time {
	if w.Days <= 0 {
		return nil
	}
	start := DateOf(w.Start)
	out := make([]time.Time, 0, w.Days)
	for i := 0; i < w.Days; i++ {
		out = append(out, start.AddDate(0, 0, i))
	}
	return out
}

type Dose struct {
	Date  time.Time
	Time  string
	Index int // posición en Times (los horarios pueden repetirse)
}

// Expand devuelve cada dosis de rule dentro de w, ordenadas por fecha y luego
// por el orden de Times. El día cero de la alineación es rule.Start, no el
// inicio de la ventana. Nunca falla: frecuencia desconocida, End < Start o
// ventana vacía devuelven nil.
func Expand(rule Rule, w Window) []Dose {
	step := rule.Frequency.Step()
	if step == 0 || w.Days <= 0 || len(rule.Times) == 0 {
		return nil
	}

	start := DateOf(rule.Start)
	end, bounded := rule.End.Get()
	if bounded {
		end = DateOf(end)
		if end.Before(start) {
			return nil
		}
	}

	var out []Dose
	for _, d := range w.Dates() {
		if d.Before(start) {
			continue
		}
		if bounded && d.After(end) {
			break
		}
		if daysBetween(start, d)%step != 0 {
			continue
		}
		for i, clock := range rule.Times {
			out = append(out, Dose{Date: d, Time: clock, Index: i})
		}
	}
	return out
}

// Describe arma el texto visible de una dosis.
func Describe(name, dosage, clock string) string {
	return name + " - " + dosage + " at " + clock
}

// DoseKey identifica una dosis dentro de una fecha.
func DoseKey(prescriptionID, clock string) string {
	return prescriptionID + "-" + clock
}
