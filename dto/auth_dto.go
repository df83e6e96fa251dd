package dto

type LoginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileDTO updates the caller's own name and email.
type UpdateProfileDTO struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
