package userservice

import (
	"context"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"go.uber.org/zap"
)

//go:generate mockgen -source=userservice.go -destination=mock_userservice.go -package=userservice

type Repo interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateBalance(ctx context.Context, id string, balance int64) (*domain.User, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

// CreateUser registers a user with a zero balance.
func (s *Service) CreateUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.Create(ctx, &domain.User{Email: email, Balance: 0})
	if err != nil {
		return nil, err
	}
	zap.L().Info("user created", zap.String("user_id", user.ID))
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBalance overwrites the balance. It is an administrative operation
// and accepts negative values.
func (s *Service) UpdateBalance(ctx context.Context, id string, balance int64) (*domain.User, error) {
	user, err := s.repo.UpdateBalance(ctx, id, balance)
	if err != nil {
		return nil, err
	}
	zap.L().Info("user balance set", zap.String("user_id", id), zap.Int64("balance", balance))
	return user, nil
}
