package invitations

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"med-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/invitations", func(ir chi.Router) {
		ir.Post("/", sendInvitationHandler(svc))
		ir.Get("/sent", listSentHandler(svc))
		ir.Post("/{invitationID}/accept", acceptInvitationHandler(svc))
		ir.Post("/{invitationID}/decline", declineInvitationHandler(svc))
	})

	r.Get("/me/invitations", listMyInvitationsHandler(svc))
	r.Get("/me/links", listLinksHandler(svc))
}

type sendInvitationRequest struct {
	To string `json:"to"`
}

type invitationResponse struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type linksResponse struct {
	LinkedUsers []string `json:"linked_users"`
}

// sendInvitationHandler
// @Summary     Invitar a otra identidad a vincular cuentas
// @Tags        invitations
// @Accept      json
// @Produce     json
// @Param       body body sendInvitationRequest true "destinatario"
// @Success     201 {object} invitationResponse
// @Router      /invitations [post]
func sendInvitationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req sendInvitationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		inv, err := svc.Send(r.Context(), claims.Identity(), req.To)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toInvitationResponse(inv))
	}
}

// listMyInvitationsHandler
// @Summary     Invitaciones pendientes recibidas
// @Tags        invitations
// @Produce     json
// @Success     200 {array} invitationResponse
// @Router      /me/invitations [get]
func listMyInvitationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListPending(r.Context(), claims.Identity())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvitationResponses(items))
	}
}

func listSentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListSent(r.Context(), claims.Identity())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvitationResponses(items))
	}
}

// acceptInvitationHandler
// @Summary     Aceptar invitación (vincula ambas identidades)
// @Tags        invitations
// @Produce     json
// @Param       invitationID path string true "invitation id"
// @Success     200 {object} invitationResponse
// @Failure     403 {string} string
// @Failure     409 {string} string
// @Router      /invitations/{invitationID}/accept [post]
func acceptInvitationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		inv, err := svc.Accept(r.Context(), chi.URLParam(r, "invitationID"), claims.Identity())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvitationResponse(inv))
	}
}

func declineInvitationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		inv, err := svc.Decline(r.Context(), chi.URLParam(r, "invitationID"), claims.Identity())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvitationResponse(inv))
	}
}

// listLinksHandler
// @Summary     Identidades vinculadas
// @Tags        invitations
// @Produce     json
// @Success     200 {object} linksResponse
// @Router      /me/links [get]
func listLinksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Identity() == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.Linked(r.Context(), claims.Identity())
		if err != nil {
			writeError(w, err)
			return
		}
		if items == nil {
			items = []string{}
		}
		writeJSON(w, http.StatusOK, linksResponse{LinkedUsers: items})
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

func toInvitationResponse(inv Invitation) invitationResponse {
	return invitationResponse{
		ID:        inv.ID,
		From:      inv.From,
		To:        inv.To,
		Status:    inv.Status,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func toInvitationResponses(items []Invitation) []invitationResponse {
	out := make([]invitationResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, toInvitationResponse(inv))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
