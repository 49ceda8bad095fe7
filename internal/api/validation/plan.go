package validation

// PlanRequest mirrors the body of plan create and update requests.
// Price is a pointer so that an omitted price is distinguishable from zero.
type PlanRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Price *int64 `json:"price" validate:"required,gte=0"`
}

// ProrationQuery mirrors the query of the prorated upgrade price operation.
// Plan ids are not range checked; an unknown id is a not-found error.
type ProrationQuery struct {
	CurrentPlanID int64 `json:"currentPlanId"`
	NewPlanID     int64 `json:"newPlanId"`
	RemainingDays int   `json:"remainingDays" validate:"gte=0,lte=30"`
}

// ValidatePlanRequest validates a plan create or update request.
func ValidatePlanRequest(req PlanRequest) []FieldError {
	return Struct(req)
}

// ValidateProrationQuery validates a prorated upgrade price query.
func ValidateProrationQuery(q ProrationQuery) []FieldError {
	return Struct(q)
}
