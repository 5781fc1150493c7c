package repository

import (
	"context"
	"fmt"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

var (
	ErrUserNotFound     = dao.ErrUserNotFound
	ErrWalletExists     = dao.ErrWalletExists
	ErrAdminNotFound    = dao.ErrAdminNotFound
	ErrAdminEmailExists = dao.ErrAdminEmailExists
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByWallet(ctx context.Context, wallet string) (dao.User, error)
	FindOrCreateByWallet(ctx context.Context, wallet string) (dao.User, error)
	AddClaimedTokens(ctx context.Context, userID uint, amount int64) error
	InsertAdmin(ctx context.Context, admin dao.AdminAccount) (dao.AdminAccount, error)
	FindAdminByEmail(ctx context.Context, email string) (dao.AdminAccount, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByWallet(ctx context.Context, wallet string) (domain.User, error) {
	found, err := r.dao.FindByWallet(ctx, wallet)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByWallet -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindOrCreateByWallet(ctx context.Context, wallet string) (domain.User, error) {
	found, err := r.dao.FindOrCreateByWallet(ctx, wallet)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindOrCreateByWallet -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) AddClaimedTokens(ctx context.Context, userID uint, amount int64) error {
	if err := r.dao.AddClaimedTokens(ctx, userID, amount); err != nil {
		return fmt.Errorf("r.dao.AddClaimedTokens -> %w", err)
	}

	return nil
}

func (r *UserRepository) CreateAdmin(ctx context.Context, admin domain.AdminAccount) (domain.AdminAccount, error) {
	created, err := r.dao.InsertAdmin(ctx, dao.AdminAccount{
		Email:    admin.Email,
		Password: admin.Password,
		Name:     admin.Name,
	})
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("r.dao.InsertAdmin -> %w", err)
	}

	return r.adminDaoToDomain(created), nil
}

func (r *UserRepository) FindAdminByEmail(ctx context.Context, email string) (domain.AdminAccount, error) {
	found, err := r.dao.FindAdminByEmail(ctx, email)
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("r.dao.FindAdminByEmail -> %w", err)
	}

	return r.adminDaoToDomain(found), nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:            u.ID,
		WalletAddress: u.WalletAddress,
		TwitterHandle: u.TwitterHandle,
		TotalPoints:   u.TotalPoints,
		ActivityTier:  domain.ActivityTier(u.ActivityTier),
		TotalClaimed:  u.TotalClaimed,
		Level:         u.Level,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (r *UserRepository) adminDaoToDomain(a dao.AdminAccount) domain.AdminAccount {
	return domain.AdminAccount{
		ID:        a.ID,
		Email:     a.Email,
		Password:  a.Password,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
