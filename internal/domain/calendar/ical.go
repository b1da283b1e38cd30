package calendar

import (
	"context"
	"time"

	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/ports/auth"

	ical "github.com/arran4/golang-ical"
)

const (
	productID   = "-//med-reminder//prescriptions//EN"
	doseLength  = 15 * time.Minute
	uidHostPart = "@med-reminder"
)

// ICS exporta las prescripciones de owner como feed iCalendar: un VEVENT por
// (prescripción, horario) con su RRULE.
func (s *Service) ICS(ctx context.Context, owner string) (string, error) {
	items, err := s.prescriptions.List(ctx, auth.NormalizeIdentity(owner))
	if err != nil {
		return "", err
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Pill Reminder")

	stamp := s.now().UTC()
	for _, p := range items {
		seen := map[string]bool{}
		for _, clock := range p.TimesPerDay {
			// horarios repetidos generan la misma serie
			if seen[clock] {
				continue
			}
			seen[clock] = true

			dtstart, err := schedule.FireTime(p.StartDate, clock, s.loc)
			if err != nil {
				s.log.Warn("skip invalid time in export", map[string]any{"prescription": p.ID, "time": clock})
				continue
			}
			rrule, err := schedule.RRuleValue(p.Rule(), dtstart)
			if err != nil {
				s.log.Warn("skip prescription in export", map[string]any{"prescription": p.ID, "error": err})
				continue
			}

			ev := cal.AddEvent(schedule.DoseKey(p.ID, clock) + uidHostPart)
			ev.SetDtStampTime(stamp)
			ev.SetCreatedTime(p.CreatedAt)
			ev.SetStartAt(dtstart)
			ev.SetEndAt(dtstart.Add(doseLength))
			ev.SetSummary(schedule.Describe(p.Name, p.Dosage, clock))
			ev.AddProperty(ical.ComponentPropertyRrule, rrule)
		}
	}

	return cal.Serialize(), nil
}
