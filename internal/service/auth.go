package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
)

var (
	ErrAdminNotFound    = repository.ErrAdminNotFound
	ErrAdminEmailExists = repository.ErrAdminEmailExists
	ErrWrongPassword    = errors.New("wrong password")
)

type AuthAdminRepository interface {
	CreateAdmin(ctx context.Context, admin domain.AdminAccount) (domain.AdminAccount, error)
	FindAdminByEmail(ctx context.Context, email string) (domain.AdminAccount, error)
}

// AuthService manages operator accounts. Wallet routes are public; only the
// admin surface signs up and logs in.
type AuthService struct {
	repo AuthAdminRepository
}

func NewAuthService(repo AuthAdminRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

func (s *AuthService) Signup(ctx context.Context, admin domain.AdminAccount) (domain.AdminAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AdminAccount{}, err
	}
	admin.Password = string(hash)

	created, err := s.repo.CreateAdmin(ctx, admin)
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("s.repo.CreateAdmin -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AdminAccount, error) {
	admin, err := s.repo.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return domain.AdminAccount{}, ErrAdminNotFound
		}

		return domain.AdminAccount{}, fmt.Errorf("s.repo.FindAdminByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return domain.AdminAccount{}, ErrWrongPassword
	}

	return admin, nil
}
