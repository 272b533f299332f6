package request

type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"fullname" validate:"required,min=1,max=100"`
	Password string  `json:"password" validate:"required,min=8,max=64"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,e164"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=64"`
}
