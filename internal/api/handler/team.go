package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/billing/internal/api/middleware"
	"github.com/daap14/billing/internal/api/response"
	"github.com/daap14/billing/internal/auth"
	"github.com/daap14/billing/internal/ledger"
	"github.com/daap14/billing/internal/team"
)

type teamResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	IsPersonal bool   `json:"isPersonal"`
	UserID     int64  `json:"userId"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type activationResponse struct {
	ID             int64  `json:"id"`
	ActivationDate string `json:"activationDate"`
	CycleType      string `json:"cycleType"`
	CycleNumber    int    `json:"cycleNumber"`
	AmountPaid     int64  `json:"amountPaid"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
}

type orderResponse struct {
	ID         int64              `json:"id"`
	PaidFor    bool               `json:"paidFor"`
	Activation activationResponse `json:"activation"`
	CreatedAt  string             `json:"createdAt"`
}

type subscriptionResponse struct {
	ID        int64           `json:"id"`
	Status    string          `json:"status"`
	TeamID    int64           `json:"teamId"`
	PlanID    int64           `json:"planId"`
	PlanName  string          `json:"planName"`
	Orders    []orderResponse `json:"orders"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

const timeLayout = "2006-01-02T15:04:05Z"

func toTeamResponse(t *team.Team) teamResponse {
	return teamResponse{
		ID:         t.ID,
		Name:       t.Name,
		IsPersonal: t.IsPersonal,
		UserID:     t.UserID,
		CreatedAt:  t.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:  t.UpdatedAt.UTC().Format(timeLayout),
	}
}

func toSubscriptionResponse(s *ledger.Subscription) subscriptionResponse {
	orders := make([]orderResponse, 0, len(s.Orders))
	for _, o := range s.Orders {
		a := o.Activation
		orders = append(orders, orderResponse{
			ID:      o.ID,
			PaidFor: o.PaidFor,
			Activation: activationResponse{
				ID:             a.ID,
				ActivationDate: a.ActivationDate.UTC().Format(timeLayout),
				CycleType:      string(a.CycleType),
				CycleNumber:    a.CycleNumber,
				AmountPaid:     a.AmountPaid,
				StartDate:      a.StartDate.UTC().Format(timeLayout),
				EndDate:        a.EndDate.UTC().Format(timeLayout),
			},
			CreatedAt: o.CreatedAt.UTC().Format(timeLayout),
		})
	}
	return subscriptionResponse{
		ID:        s.ID,
		Status:    string(s.Status),
		TeamID:    s.TeamID,
		PlanID:    s.PlanID,
		PlanName:  s.PlanName,
		Orders:    orders,
		CreatedAt: s.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: s.UpdatedAt.UTC().Format(timeLayout),
	}
}

// TeamHandler handles team and subscription read endpoints.
type TeamHandler struct {
	teams  team.Repository
	ledger ledger.Repository
	gate   middleware.AdminChecker
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teams team.Repository, ledgerRepo ledger.Repository, gate middleware.AdminChecker) *TeamHandler {
	return &TeamHandler{teams: teams, ledger: ledgerRepo, gate: gate}
}

// List handles GET /teams, returning the caller's own teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "API key is required", requestID)
		return
	}

	teams, err := h.teams.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("failed to list teams", "error", err, "userId", identity.UserID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to list teams", requestID)
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, toTeamResponse(&teams[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Subscriptions handles GET /teams/{id}/subscriptions. Only the team owner
// or an admin may read a team's subscriptions; anyone else gets 404.
func (h *TeamHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "API key is required", requestID)
		return
	}

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	t, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			writeTeamNotFound(w, requestID)
			return
		}
		slog.Error("failed to get team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to get team", requestID)
		return
	}

	// Someone else's team answers exactly like a missing one.
	if t.UserID != identity.UserID {
		if err := h.gate.RequireAdmin(r.Context(), identity.UserID); err != nil {
			if errors.Is(err, auth.ErrForbidden) {
				writeTeamNotFound(w, requestID)
				return
			}
			slog.Error("authorization check failed", "error", err, "userId", identity.UserID)
			response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Authorization check failed", requestID)
			return
		}
	}

	subs, err := h.ledger.ListByTeam(r.Context(), t.ID)
	if err != nil {
		slog.Error("failed to list subscriptions", "error", err, "teamId", t.ID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to list subscriptions", requestID)
		return
	}

	items := make([]subscriptionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, toSubscriptionResponse(&subs[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

func writeTeamNotFound(w http.ResponseWriter, requestID string) {
	response.Err(w, http.StatusNotFound, response.CodeNotFound, "Team not found", requestID)
}
