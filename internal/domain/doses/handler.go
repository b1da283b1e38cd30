package doses

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/doses/{date}", func(dr chi.Router) {
		dr.Get("/", listTakenHandler(svc))
		dr.Put("/{prescriptionID}/{time}", markHandler(svc))
		dr.Delete("/{prescriptionID}/{time}", unmarkHandler(svc))
	})
}

type takenResponse struct {
	Key            string    `json:"key"`
	Owner          string    `json:"owner"`
	Date           string    `json:"date"`
	PrescriptionID string    `json:"prescription_id"`
	Time           string    `json:"time"`
	TakenAt        time.Time `json:"taken_at"`
}

func refFromRequest(r *http.Request) DoseRef {
	return DoseRef{
		Owner:          r.URL.Query().Get("owner"),
		PrescriptionID: chi.URLParam(r, "prescriptionID"),
		Date:           chi.URLParam(r, "date"),
		Time:           chi.URLParam(r, "time"),
	}
}

// markHandler
// @Summary     Marcar dosis de hoy como tomada
// @Tags        doses
// @Produce     json
// @Param       date path string true "YYYY-MM-DD (hoy)"
// @Param       prescriptionID path string true "prescription id"
// @Param       time path string true "HH:MM"
// @Success     200 {object} takenResponse
// @Failure     403 {string} string
// @Failure     409 {string} string
// @Router      /doses/{date}/{prescriptionID}/{time} [put]
func markHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.Mark(r.Context(), claims.Identity(), refFromRequest(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTakenResponse(m))
	}
}

func unmarkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Unmark(r.Context(), claims.Identity(), refFromRequest(r)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listTakenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		date, err := schedule.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		items, err := svc.ListByDate(r.Context(), claims.Identity(), date)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]takenResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toTakenResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toTakenResponse(m TakenMarker) takenResponse {
	return takenResponse{
		Key:            m.Key(),
		Owner:          m.Owner,
		Date:           schedule.FormatDate(m.Date),
		PrescriptionID: m.PrescriptionID,
		Time:           m.Time,
		TakenAt:        m.TakenAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
