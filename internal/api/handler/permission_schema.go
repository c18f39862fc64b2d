package handler

type permissionRequest struct {
	Name        string `json:"name"        validate:"required"`
	SystemName  string `json:"system_name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}
