package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/schedule", weekHandler(svc))
	r.Get("/calendar.ics", icsHandler(svc))
}

type eventResponse struct {
	PrescriptionID string `json:"prescription_id"`
	Name           string `json:"name"`
	Dosage         string `json:"dosage"`
	Time           string `json:"time"`
	Text           string `json:"text"`
	Key            string `json:"key"`
	Taken          bool   `json:"taken"`
	CanMark        bool   `json:"can_mark"`
}

type dayResponse struct {
	Date   string          `json:"date"`
	Events []eventResponse `json:"events"`
}

type weekResponse struct {
	Owner  string        `json:"owner"`
	Viewer string        `json:"viewer"`
	Today  string        `json:"today"`
	Days   []dayResponse `json:"days"`
}

// weekHandler
// @Summary     Calendario de dosis (propio o de una identidad vinculada)
// @Tags        calendar
// @Produce     json
// @Param       start query string false "YYYY-MM-DD (default hoy)"
// @Param       days  query int    false "largo de la ventana (default 7)"
// @Param       owner query string false "identidad vinculada"
// @Success     200 {object} weekResponse
// @Failure     403 {string} string
// @Router      /schedule [get]
func weekHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()

		var start time.Time
		if raw := strings.TrimSpace(q.Get("start")); raw != "" {
			d, err := schedule.ParseDate(raw)
			if err != nil {
				http.Error(w, "invalid start", http.StatusBadRequest)
				return
			}
			start = d
		}

		days := 0
		if raw := strings.TrimSpace(q.Get("days")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "invalid days", http.StatusBadRequest)
				return
			}
			days = n
		}

		week, err := svc.Week(r.Context(), claims.Identity(), q.Get("owner"), start, days)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toWeekResponse(week))
	}
}

// icsHandler
// @Summary     Exportar prescripciones como iCalendar
// @Tags        calendar
// @Produce     text/calendar
// @Success     200 {string} string
// @Router      /calendar.ics [get]
func icsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		body, err := svc.ICS(r.Context(), claims.Identity())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="prescriptions.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

func toWeekResponse(week Week) weekResponse {
	out := weekResponse{
		Owner:  week.Owner,
		Viewer: week.Viewer,
		Today:  schedule.FormatDate(week.Today),
		Days:   make([]dayResponse, 0, len(week.Days)),
	}
	for _, d := range week.Days {
		day := dayResponse{Date: schedule.FormatDate(d.Date), Events: make([]eventResponse, 0, len(d.Events))}
		for _, e := range d.Events {
			day.Events = append(day.Events, eventResponse{
				PrescriptionID: e.PrescriptionID,
				Name:           e.Name,
				Dosage:         e.Dosage,
				Time:           e.Time,
				Text:           e.Text,
				Key:            e.Key,
				Taken:          e.Taken,
				CanMark:        e.CanMark,
			})
		}
		out.Days = append(out.Days, day)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
