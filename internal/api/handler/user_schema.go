package handler

type registerUserRequest struct {
	Email       string   `json:"email"        validate:"required,email"`
	Username    string   `json:"username"     validate:"required,min=3,max=20"`
	Password    string   `json:"password"     validate:"required,min=8"`
	FirstName   string   `json:"first_name"   validate:"required"`
	LastName    string   `json:"last_name"    validate:"required"`
	CompanyName string   `json:"company_name"`
	PhoneNumber string   `json:"phone_number"`
	RoleIDs     []string `json:"role_ids"`
}

type updateUserRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name"  validate:"required"`
	CompanyName string `json:"company_name"`
	PhoneNumber string `json:"phone_number"`
}

type updateUserStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type updateUserRolesRequest struct {
	RoleIDs []string `json:"role_ids" validate:"required"`
}
