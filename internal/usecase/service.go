package usecase

import (
	"auth-backend/internal/data/repository"
	"auth-backend/pkg/mailer"
	"auth-backend/pkg/token"
	"auth-backend/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth AuthService
	User UserService
}

func NewService(
	repo *repository.Repository,
	codec *token.Codec,
	mail mailer.Sender,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth: NewAuthService(repo, codec, mail, config, log),
		User: NewUserService(repo.User, log),
	}
}
