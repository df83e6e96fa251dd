package dto

type CreateContactDTO struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type UpdateContactStatusDTO struct {
	Status string `json:"status" binding:"required"`
}
