package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

var (
	ErrMintNotFound         = errors.New("mint record not found")
	ErrMintExists           = errors.New("mint record already exists for wallet")
	ErrPaymentSignatureUsed = errors.New("payment signature already consumed")
)

type MintRecord struct {
	ID uint `gorm:"primaryKey"`

	WalletAddress     string `gorm:"uniqueIndex;not null"`
	NFTNumber         int64  `gorm:"uniqueIndex;not null"`
	MintAddress       string `gorm:"not null"`
	CreateSignature   string `gorm:"not null"`
	TransferSignature string `gorm:"not null"`
	PaymentSignature  string `gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type MintDAO struct {
	db *gorm.DB
}

func NewMintDAO(db *gorm.DB) *MintDAO {
	return &MintDAO{
		db: db,
	}
}

func (d *MintDAO) FindByWallet(ctx context.Context, wallet string) (MintRecord, error) {
	var record MintRecord

	result := d.db.WithContext(ctx).First(&record, "wallet_address = ?", wallet)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return MintRecord{}, ErrMintNotFound
		}

		return MintRecord{}, result.Error
	}

	return record, nil
}

// InsertMintAndClaim performs the write half of a mint in one transaction:
// the MintRecord insert, the Approved -> Claimed transition and the audit
// entry succeed or fail together. Unique constraints on wallet_address and
// payment_signature resolve races; the advisory lock keeps nft_number
// gapless under concurrent mints of different wallets.
func (d *MintDAO) InsertMintAndClaim(ctx context.Context, record MintRecord, userID uint, now time.Time) (MintRecord, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext('mint_records_nft_number'))").Error; err != nil {
			return err
		}

		var maxNumber int64
		if err := tx.Model(&MintRecord{}).
			Select("COALESCE(MAX(nft_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}
		record.NFTNumber = maxNumber + 1

		if err := tx.Create(&record).Error; err != nil {
			return classifyMintInsertError(err)
		}

		result := tx.Model(&ApprovalRecord{}).
			Where("user_id = ? AND approved = true AND claimed = false", userID).
			Updates(map[string]interface{}{
				"claimed":    true,
				"claimed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		audit := AuditEntry{
			UserID:  userID,
			ActorID: userID,
			Action:  string(domain.AuditClaimed),
			Detail: domain.AuditDetail{
				Kind: domain.AuditClaimed,
				Extra: map[string]string{
					"mint_address":      record.MintAddress,
					"payment_signature": record.PaymentSignature,
				},
			},
		}

		return tx.Create(&audit).Error
	})
	if err != nil {
		return MintRecord{}, err
	}

	return record, nil
}

func classifyMintInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(pgErr.Message, "payment_signature") {
			return ErrPaymentSignatureUsed
		}
		return ErrMintExists
	}

	return err
}
