package service

import (
	"context"
	"fmt"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByWallet(ctx context.Context, wallet string) (domain.User, error)
	FindOrCreateByWallet(ctx context.Context, wallet string) (domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetByWallet(ctx context.Context, wallet string) (domain.User, error) {
	user, err := s.repo.FindOrCreateByWallet(ctx, wallet)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindOrCreateByWallet -> %w", err)
	}

	return user, nil
}
