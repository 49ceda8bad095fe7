package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/billing/internal/api/middleware"
	"github.com/daap14/billing/internal/api/response"
	"github.com/daap14/billing/internal/api/validation"
	"github.com/daap14/billing/internal/plan"
)

type planResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// planMutationResponse is returned by create and update.
type planMutationResponse struct {
	Success bool         `json:"success"`
	Plan    planResponse `json:"plan"`
}

type quoteResponse struct {
	CurrentPlanID       int64       `json:"currentPlanId"`
	NewPlanID           int64       `json:"newPlanId"`
	RemainingDays       int         `json:"remainingDays"`
	DailyRateDifference json.Number `json:"dailyRateDifference"`
	ProratedPrice       json.Number `json:"proratedPrice"`
	ChargeAmount        int64       `json:"chargeAmount"`
	Direction           string      `json:"direction"`
}

func toPlanResponse(p *plan.Plan) planResponse {
	return planResponse{ID: p.ID, Name: p.Name, Price: p.Price}
}

func toQuoteResponse(q plan.Quote) quoteResponse {
	return quoteResponse{
		CurrentPlanID:       q.CurrentPlan.ID,
		NewPlanID:           q.NewPlan.ID,
		RemainingDays:       q.RemainingDays,
		DailyRateDifference: json.Number(q.DailyRateDifference.String()),
		ProratedPrice:       json.Number(q.ProratedPrice.String()),
		ChargeAmount:        q.ChargeAmount,
		Direction:           q.Direction(),
	}
}

// PlanHandler handles the plan catalog endpoints. Admin gating of create and
// update is applied by the router.
type PlanHandler struct {
	catalog *plan.Catalog
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(catalog *plan.Catalog) *PlanHandler {
	return &PlanHandler{catalog: catalog}
}

// Create handles POST /plans.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, ok := decodePlanRequest(w, r, requestID)
	if !ok {
		return
	}

	p, err := h.catalog.Create(r.Context(), req.Name, *req.Price)
	if err != nil {
		writePlanError(w, err, "create plan", requestID)
		return
	}

	response.Success(w, http.StatusCreated, planMutationResponse{Success: true, Plan: toPlanResponse(p)}, requestID)
}

// List handles GET /plans.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	plans, err := h.catalog.List(r.Context())
	if err != nil {
		writePlanError(w, err, "list plans", requestID)
		return
	}

	items := make([]planResponse, 0, len(plans))
	for i := range plans {
		items = append(items, toPlanResponse(&plans[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /plans/{id}.
func (h *PlanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	p, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		writePlanError(w, err, "get plan", requestID)
		return
	}

	response.Success(w, http.StatusOK, toPlanResponse(p), requestID)
}

// Update handles PUT /plans/{id}.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	req, ok := decodePlanRequest(w, r, requestID)
	if !ok {
		return
	}

	p, err := h.catalog.Update(r.Context(), id, req.Name, *req.Price)
	if err != nil {
		writePlanError(w, err, "update plan", requestID)
		return
	}

	response.Success(w, http.StatusOK, planMutationResponse{Success: true, Plan: toPlanResponse(p)}, requestID)
}

// ProratedUpgradePrice handles
// GET /plans/prorated-upgrade-price?currentPlanId=&newPlanId=&remainingDays=.
func (h *PlanHandler) ProratedUpgradePrice(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	values := r.URL.Query()
	var fieldErrors []validation.FieldError
	intParam := func(name string) int64 {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			fieldErrors = append(fieldErrors, validation.FieldError{Field: name, Message: name + " is required"})
			return 0
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fieldErrors = append(fieldErrors, validation.FieldError{Field: name, Message: name + " must be an integer"})
			return 0
		}
		return n
	}

	q := validation.ProrationQuery{
		CurrentPlanID: intParam("currentPlanId"),
		NewPlanID:     intParam("newPlanId"),
		RemainingDays: int(intParam("remainingDays")),
	}
	if len(fieldErrors) == 0 {
		fieldErrors = validation.ValidateProrationQuery(q)
	}
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, response.CodeValidation, "Input validation failed", fieldErrors, requestID)
		return
	}

	quote, err := h.catalog.ProratedUpgradePrice(r.Context(), q.CurrentPlanID, q.NewPlanID, q.RemainingDays)
	if err != nil {
		writePlanError(w, err, "calculate prorated upgrade price", requestID)
		return
	}

	response.Success(w, http.StatusOK, toQuoteResponse(quote), requestID)
}

func decodePlanRequest(w http.ResponseWriter, r *http.Request, requestID string) (validation.PlanRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req validation.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, response.CodeInvalidJSON, "Request body must be valid JSON", requestID)
		return req, false
	}

	req.Name = strings.TrimSpace(req.Name)

	if fieldErrors := validation.ValidatePlanRequest(req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, response.CodeValidation, "Input validation failed", fieldErrors, requestID)
		return req, false
	}
	return req, true
}

// parseID reads the {id} path parameter. Any integer is accepted; ids that
// were never issued are reported as not found by the store.
func parseID(w http.ResponseWriter, r *http.Request, requestID string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Err(w, http.StatusBadRequest, response.CodeInvalidID, "id must be an integer", requestID)
		return 0, false
	}
	return id, true
}

// writePlanError maps catalog errors onto HTTP responses.
func writePlanError(w http.ResponseWriter, err error, action, requestID string) {
	switch {
	case errors.Is(err, plan.ErrPlanNotFound):
		response.Err(w, http.StatusNotFound, response.CodeNotFound, "Plan not found", requestID)
	case errors.Is(err, plan.ErrInvalidPlan), errors.Is(err, plan.ErrInvalidRemainingDays):
		response.Err(w, http.StatusBadRequest, response.CodeValidation, err.Error(), requestID)
	case errors.Is(err, plan.ErrStoreUnavailable):
		response.Err(w, http.StatusServiceUnavailable, response.CodeStoreUnavailable, "Plan store is unavailable", requestID)
	default:
		slog.Error("failed to "+action, "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, fmt.Sprintf("Failed to %s", action), requestID)
	}
}
