package response

import "auth-backend/internal/data/entity"

// UserResponse is the public projection of a user record. Password hashes and
// one-time tokens never leave the service.
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"fullname"`
	IsVerified bool   `json:"isVerified"`
}

func UserToResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		FullName:   user.FullName,
		IsVerified: user.IsVerified,
	}
}
