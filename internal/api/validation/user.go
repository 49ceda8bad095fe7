package validation

// CreateUserRequest mirrors the body of a create user request.
type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Name     string  `json:"name" validate:"required,max=255"`
	Locale   string  `json:"locale" validate:"omitempty,min=2,max=35"`
	Timezone *string `json:"timezone" validate:"omitempty,timezone"`
	IsAdmin  bool    `json:"isAdmin"`
}

// ValidateCreateUserRequest validates the fields of a create user request.
func ValidateCreateUserRequest(req CreateUserRequest) []FieldError {
	return Struct(req)
}
