package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&AdminAccount{},
		&ApprovalRecord{},
		&AuditEntry{},
		&MintRecord{},
		&PaymentIntent{},
		&ClaimSettings{},
		&UserClaimControl{},
		&ClaimRecord{},
		&Campaign{},
	)
}
