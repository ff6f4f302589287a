package postgres

import (
	"log"

	"github.com/lunamarket/settlement-service/internal/config"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.LedgerDB.Dsn
	// TranslateError so unique violations surface as gorm.ErrDuplicatedKey
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.OrderModel{},
		&models.PaymentModel{},
		&models.OrderAccessModel{},
		&models.SellerPayoutModel{},
		&models.DisputeModel{},
		&models.SellerBankAccountModel{},
		&models.PlatformSettingModel{},
	)

	return db
}
