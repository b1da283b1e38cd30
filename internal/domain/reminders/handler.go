package reminders

import (
	"encoding/json"
	"net/http"

	"med-reminder/internal/middleware"
	"med-reminder/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, sched *Scheduler, perms PermissionRepository, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	r.Route("/me/notifications", func(nr chi.Router) {
		nr.Get("/", getPermissionHandler(perms))
		nr.Put("/", setPermissionHandler(sched, perms, log))
	})
}

type permissionRequest struct {
	Permission string `json:"permission"`
}

type permissionResponse struct {
	Permission Permission `json:"permission"`
	Scheduled  int        `json:"scheduled"`
}

func getPermissionHandler(perms PermissionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := perms.GetPermission(r.Context(), claims.Identity())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, permissionResponse{Permission: p})
	}
}

// setPermissionHandler
// @Summary     Registrar el permiso de notificaciones del cliente
// @Description granted arma los recordatorios de los próximos 7 días; cualquier otro valor los cancela.
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Param       body body permissionRequest true "granted | denied | default"
// @Success     200 {object} permissionResponse
// @Router      /me/notifications [put]
func setPermissionHandler(sched *Scheduler, perms PermissionRepository, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req permissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		p, ok := ParsePermission(req.Permission)
		if !ok {
			http.Error(w, "permission must be granted, denied or default", http.StatusBadRequest)
			return
		}

		identity := claims.Identity()
		if err := perms.SetPermission(r.Context(), identity, p); err != nil {
			log.Error("set permission failed", map[string]any{"identity": identity, "error": err})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if p == PermissionGranted {
			if err := sched.PlanOwner(r.Context(), identity); err != nil {
				// el permiso quedó guardado; el próximo resync vuelve a intentar
				log.Warn("plan after grant failed", map[string]any{"identity": identity, "error": err})
			}
		} else {
			sched.CancelOwner(identity)
		}

		writeJSON(w, http.StatusOK, permissionResponse{Permission: p, Scheduled: sched.PendingFor(identity)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
