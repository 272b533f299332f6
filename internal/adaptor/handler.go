package adaptor

import (
	"auth-backend/internal/usecase"
	"auth-backend/pkg/token"
	"auth-backend/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth *AuthHandler
	User *UserHandler
}

func NewHandler(service *usecase.Service, codec *token.Codec, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth: NewAuthHandler(service.Auth, codec, config, log),
		User: NewUserHandler(service.User, log),
	}
}
