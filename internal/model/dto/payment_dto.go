package dto

// CreateIntentRequest 创建支付意向请求
type CreateIntentRequest struct {
	Plan          string `json:"plan" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// BankInfo 银行转账收款信息
type BankInfo struct {
	BankName      string `json:"bank_name"`
	IBAN          string `json:"iban"`
	AccountHolder string `json:"account_holder"`
	Reference     string `json:"reference"`
}

// PaymentIntentData 创建支付意向后返回给付款人的信息
type PaymentIntentData struct {
	PaymentID     int64     `json:"payment_id"`
	Plan          string    `json:"plan"`
	Amount        int       `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	PaypalEmail   string    `json:"paypal_email,omitempty"`
	USDCWallet    string    `json:"usdc_wallet,omitempty"`
	BankInfo      *BankInfo `json:"bank_info,omitempty"`
}

// ConfirmPaypalRequest 提交 PayPal 支付凭证
type ConfirmPaypalRequest struct {
	PaymentID int64  `json:"payment_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	PayerID   string `json:"payer_id" binding:"required"`
}

// ConfirmCryptoRequest 提交 USDC 支付凭证
type ConfirmCryptoRequest struct {
	PaymentID   int64  `json:"payment_id" binding:"required"`
	TxHash      string `json:"tx_hash" binding:"required"`
	FromAddress string `json:"from_address" binding:"required"`
}

// ConfirmBankRequest 提交银行转账凭证
type ConfirmBankRequest struct {
	PaymentID int64  `json:"payment_id" binding:"required"`
	ProofURL  string `json:"proof_url" binding:"required"`
}

// ApprovePaymentRequest 管理员批准/拒绝支付请求
type ApprovePaymentRequest struct {
	PaymentID int64 `json:"payment_id" binding:"required"`
}

// UpdatePaymentSettingRequest 管理员配置收款方式请求
type UpdatePaymentSettingRequest struct {
	Method            string `json:"method" binding:"required"`
	PaypalEmail       string `json:"paypal_email,omitempty"`
	USDCWallet        string `json:"usdc_wallet,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	BankIBAN          string `json:"bank_iban,omitempty"`
	BankAccountHolder string `json:"bank_account_holder,omitempty"`
}
