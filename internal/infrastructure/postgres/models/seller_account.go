package models

import "time"

type SellerBankAccountModel struct {
	SellerID      string `gorm:"primaryKey"`
	BankName      string
	AccountHolder string
	AccountRef    string
	Currency      string
	Enabled       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
