package model

import (
	"time"
)

// PaymentSetting 管理员配置的收款方式，每种支付方式一行
type PaymentSetting struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Method     string `gorm:"size:20;uniqueIndex;not null" json:"method"` // paypal, usdc, bank_transfer
	Configured bool   `gorm:"default:false" json:"configured"`

	// PayPal 收款信息
	PaypalEmail string `gorm:"size:100" json:"paypal_email,omitempty"`

	// USDC 收款钱包
	USDCWallet string `gorm:"size:100" json:"usdc_wallet,omitempty"`

	// 银行转账收款信息
	BankName          string `gorm:"size:100" json:"bank_name,omitempty"`
	BankIBAN          string `gorm:"size:50" json:"bank_iban,omitempty"`
	BankAccountHolder string `gorm:"size:100" json:"bank_account_holder,omitempty"`

	UpdatedBy *int64    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentSetting) TableName() string {
	return "payment_settings"
}
