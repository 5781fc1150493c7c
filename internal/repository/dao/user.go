package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWalletExists     = errors.New("wallet already registered")
	ErrAdminNotFound    = errors.New("admin account not found")
	ErrAdminEmailExists = errors.New("admin account already exists")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	WalletAddress string `gorm:"uniqueIndex;not null"`
	TwitterHandle string
	TotalPoints   int64  `gorm:"not null;default:0"`
	ActivityTier  string `gorm:"not null;default:'LOW'"` // "HIGH", "MEDIUM" or "LOW"
	TotalClaimed  int64  `gorm:"not null;default:0"`
	Level         int    `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AdminAccount struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "wallet_address") {
			return User{}, ErrWalletExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByWallet(ctx context.Context, wallet string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "wallet_address = ?", wallet)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// FindOrCreateByWallet backs "created on first wallet interaction".
// ON CONFLICT DO NOTHING keeps concurrent first-touch requests safe.
func (d *UserDAO) FindOrCreateByWallet(ctx context.Context, wallet string) (User, error) {
	user := User{WalletAddress: wallet, ActivityTier: "LOW"}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet_address"}},
			DoNothing: true,
		}).
		Create(&user)
	if result.Error != nil {
		return User{}, result.Error
	}

	return d.FindByWallet(ctx, wallet)
}

func (d *UserDAO) AddClaimedTokens(ctx context.Context, userID uint, amount int64) error {
	result := d.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("total_claimed", gorm.Expr("total_claimed + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (d *UserDAO) InsertAdmin(ctx context.Context, admin AdminAccount) (AdminAccount, error) {
	result := d.db.WithContext(ctx).Create(&admin)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return AdminAccount{}, ErrAdminEmailExists
		}

		return AdminAccount{}, result.Error
	}

	return admin, nil
}

func (d *UserDAO) FindAdminByEmail(ctx context.Context, email string) (AdminAccount, error) {
	var admin AdminAccount

	result := d.db.WithContext(ctx).First(&admin, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AdminAccount{}, ErrAdminNotFound
		}

		return AdminAccount{}, result.Error
	}

	return admin, nil
}
