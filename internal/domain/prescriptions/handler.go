package prescriptions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/middleware"
	"med-reminder/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// LinkChecker evita importar invitations (rompe ciclos).
type LinkChecker interface {
	IsLinked(ctx context.Context, a, b string) (bool, error)
}

func RegisterRoutes(r chi.Router, svc *Service, links LinkChecker) {
	r.Route("/prescriptions", func(pr chi.Router) {
		pr.Post("/", createPrescriptionHandler(svc))
		pr.Get("/", listPrescriptionsHandler(svc, links))
		pr.Get("/{id}", getPrescriptionHandler(svc))
		pr.Delete("/{id}", deletePrescriptionHandler(svc))
	})
}

type createPrescriptionRequest struct {
	Name        string   `json:"name"`
	Dosage      string   `json:"dosage"`
	Frequency   string   `json:"frequency"`  // daily | every-2-days | weekly
	StartDate   string   `json:"start_date"` // YYYY-MM-DD
	EndDate     string   `json:"end_date"`   // YYYY-MM-DD opcional
	TimesPerDay []string `json:"times_per_day"`
}

type prescriptionResponse struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	Dosage        string    `json:"dosage"`
	Frequency     string    `json:"frequency"`
	StartDate     string    `json:"start_date"`
	EndDate       *string   `json:"end_date,omitempty"`
	TimesPerDay   []string  `json:"times_per_day"`
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
}

// createPrescriptionHandler
// @Summary     Crear prescripción
// @Tags        prescriptions
// @Accept      json
// @Produce     json
// @Param       body body createPrescriptionRequest true "prescripción"
// @Success     201 {object} prescriptionResponse
// @Failure     400 {string} string
// @Failure     401 {string} string
// @Router      /prescriptions [post]
func createPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.Identity(), CreateInput{
			Name:        req.Name,
			Dosage:      req.Dosage,
			Frequency:   req.Frequency,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			TimesPerDay: req.TimesPerDay,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPrescriptionResponse(p))
	}
}

// listPrescriptionsHandler
// @Summary     Listar prescripciones propias o de una identidad vinculada
// @Tags        prescriptions
// @Produce     json
// @Param       owner query string false "identidad vinculada"
// @Success     200 {array} prescriptionResponse
// @Router      /prescriptions [get]
func listPrescriptionsHandler(svc *Service, links LinkChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		owner := claims.Identity()
		if raw := auth.NormalizeIdentity(r.URL.Query().Get("owner")); raw != "" && raw != owner {
			linked, err := links.IsLinked(r.Context(), owner, raw)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !linked {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			owner = raw
		}

		items, err := svc.List(r.Context(), owner)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]prescriptionResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPrescriptionResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), claims.Identity(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

// deletePrescriptionHandler
// @Summary     Borrar prescripción (cancela sus recordatorios)
// @Tags        prescriptions
// @Param       id path string true "prescription id"
// @Success     204
// @Failure     404 {string} string
// @Router      /prescriptions/{id} [delete]
func deletePrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.Identity(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPrescriptionResponse(p Prescription) prescriptionResponse {
	var end *string
	if p.EndDate != nil {
		s := schedule.FormatDate(*p.EndDate)
		end = &s
	}
	return prescriptionResponse{
		ID:            p.ID,
		Owner:         p.Owner,
		Name:          p.Name,
		Dosage:        p.Dosage,
		Frequency:     string(p.Frequency),
		StartDate:     schedule.FormatDate(p.StartDate),
		EndDate:       end,
		TimesPerDay:   p.TimesPerDay,
		SchemaVersion: p.SchemaVersion,
		CreatedAt:     p.CreatedAt,
	}
}

// writeJSON está duplicado en los handlers de cada módulo a propósito; si se
// repite en más lugares conviene extraerlo a un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

