package memory

import (
	"context"
	"sync"
	"time"

	"med-reminder/internal/domain/doses"
	"med-reminder/internal/domain/schedule"
)

// doseRepo replica el layout users/{owner}/taken/{date}/events/{key}.
type doseRepo struct {
	mu sync.RWMutex
	// owner -> date -> key -> marker
	byOwner map[string]map[string]map[string]doses.TakenMarker
}

func NewDoseRepo() doses.Repository {
	return &doseRepo{
		byOwner: make(map[string]map[string]map[string]doses.TakenMarker),
	}
}

func (r *doseRepo) Put(ctx context.Context, m doses.TakenMarker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dates, ok := r.byOwner[m.Owner]
	if !ok {
		dates = make(map[string]map[string]doses.TakenMarker)
		r.byOwner[m.Owner] = dates
	}
	day := schedule.FormatDate(m.Date)
	events, ok := dates[day]
	if !ok {
		events = make(map[string]doses.TakenMarker)
		dates[day] = events
	}
	events[m.Key()] = m
	return nil
}

func (r *doseRepo) Delete(ctx context.Context, owner string, date time.Time, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if events, ok := r.byOwner[owner][schedule.FormatDate(date)]; ok {
		delete(events, key)
	}
	return nil
}

func (r *doseRepo) ListByDate(ctx context.Context, owner string, date time.Time) ([]doses.TakenMarker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.byOwner[owner][schedule.FormatDate(date)]
	out := make([]doses.TakenMarker, 0, len(events))
	for _, m := range events {
		out = append(out, m)
	}
	return out, nil
}
