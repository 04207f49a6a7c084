package model

import (
	"time"
)

type Payment struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	UserID int64  `gorm:"not null;index" json:"user_id"`
	Plan   string `gorm:"size:20;not null" json:"plan"` // casual, premium, golden
	Amount int    `gorm:"not null" json:"amount"`
	Method string `gorm:"column:payment_method;size:20;not null" json:"payment_method"` // paypal, usdc, bank_transfer
	Status string `gorm:"size:20;default:pending;index" json:"status"`                  // pending, approving, completed, failed, cancelled

	// PayPal 凭证
	PaypalOrderID string `gorm:"size:100" json:"paypal_order_id,omitempty"`
	PaypalPayerID string `gorm:"size:100" json:"paypal_payer_id,omitempty"`

	// USDC 凭证
	CryptoTxHash      string `gorm:"size:100" json:"crypto_tx_hash,omitempty"`
	CryptoFromAddress string `gorm:"size:100" json:"crypto_from_address,omitempty"`
	CryptoToAddress   string `gorm:"size:100" json:"crypto_to_address,omitempty"`

	// 银行转账凭证
	BankReference string `gorm:"size:50" json:"bank_reference,omitempty"`
	BankProofURL  string `gorm:"size:500" json:"bank_proof_url,omitempty"`

	IPAddress string `gorm:"size:50" json:"-"`
	UserAgent string `gorm:"size:255" json:"-"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
