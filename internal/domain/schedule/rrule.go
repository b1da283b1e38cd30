package schedule

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"
)

var ErrUnknownFrequency = errors.New("unknown frequency")

// ToRRule traduce la regla a una RRULE RFC 5545 anclada en dtstart (la primera
// dosis, fecha + horario). UNTIL cae en la fecha End al mismo horario para que
// el último día quede incluido.
func ToRRule(rule Rule, dtstart time.Time) (*rrule.RRule, error) {
	opt := rrule.ROption{
		Dtstart:  dtstart,
		Interval: 1,
	}

	switch rule.Frequency {
	case Daily:
		opt.Freq = rrule.DAILY
	case EveryTwoDays:
		opt.Freq = rrule.DAILY
		opt.Interval = 2
	case Weekly:
		opt.Freq = rrule.WEEKLY
	default:
		return nil, ErrUnknownFrequency
	}

	if end, ok := rule.End.Get(); ok {
		y, m, d := end.Date()
		opt.Until = time.Date(y, m, d, dtstart.Hour(), dtstart.Minute(), dtstart.Second(), 0, dtstart.Location())
	}

	return rrule.NewRRule(opt)
}

// RRuleValue es el valor de la propiedad RRULE (sin DTSTART).
func RRuleValue(rule Rule, dtstart time.Time) (string, error) {
	r, err := ToRRule(rule, dtstart)
	if err != nil {
		return "", err
	}
	return r.OrigOptions.RRuleString(), nil
}
