package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/model"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/pkg/ws"
	"github.com/iaworks/iaworks_server/internal/repository"
)

var (
	ErrPaymentNotFound     = errors.New("支付记录不存在")
	ErrInvalidMethod       = errors.New("不支持的支付方式")
	ErrMethodNotConfigured = errors.New("该支付方式尚未配置")
	ErrPaymentFinalized    = errors.New("支付记录已结束，不能再提交凭证")
	ErrProofMismatch       = errors.New("凭证类型与支付方式不符")
)

// 支持的支付方式
var supportedMethods = map[string]struct{}{
	"paypal":        {},
	"usdc":          {},
	"bank_transfer": {},
}

type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	settingRepo *repository.SettingRepository
	userRepo    *repository.UserRepository
	cfg         *config.Config
	hub         *ws.Hub
	audit       *AuditService
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	settingRepo *repository.SettingRepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
	hub *ws.Hub,
	audit *AuditService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		settingRepo: settingRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		hub:         hub,
		audit:       audit,
	}
}

// CreateIntent 创建支付意向，返回付款所需的收款信息
func (s *PaymentService) CreateIntent(user *model.User, req *dto.CreateIntentRequest, ip, userAgent string) (*dto.PaymentIntentData, error) {
	level, ok := s.cfg.Plans.Levels[req.Plan]
	if !ok {
		return nil, ErrInvalidPlan
	}

	if _, ok := supportedMethods[req.PaymentMethod]; !ok {
		return nil, ErrInvalidMethod
	}

	setting, err := s.settingRepo.GetByMethod(req.PaymentMethod)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMethodNotConfigured
		}
		return nil, err
	}
	if !setting.Configured {
		return nil, ErrMethodNotConfigured
	}

	payment := &model.Payment{
		UserID:    user.ID,
		Plan:      req.Plan,
		Amount:    level.Price,
		Method:    req.PaymentMethod,
		Status:    "pending",
		IPAddress: ip,
		UserAgent: userAgent,
	}

	if req.PaymentMethod == "bank_transfer" {
		payment.BankReference = buildBankReference(user.UUID, time.Now())
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	s.audit.Record("payment", "info", "payment intent created",
		map[string]interface{}{"payment_id": payment.ID, "plan": req.Plan, "method": req.PaymentMethod},
		&user.ID, ip, userAgent)

	data := &dto.PaymentIntentData{
		PaymentID:     payment.ID,
		Plan:          payment.Plan,
		Amount:        payment.Amount,
		PaymentMethod: payment.Method,
	}

	switch req.PaymentMethod {
	case "paypal":
		data.PaypalEmail = setting.PaypalEmail
	case "usdc":
		data.USDCWallet = setting.USDCWallet
	case "bank_transfer":
		data.BankInfo = &dto.BankInfo{
			BankName:      setting.BankName,
			IBAN:          setting.BankIBAN,
			AccountHolder: setting.BankAccountHolder,
			Reference:     payment.BankReference,
		}
	}

	return data, nil
}

// ConfirmPaypal 提交 PayPal 付款凭证，支付单进入待审核
func (s *PaymentService) ConfirmPaypal(userID int64, req *dto.ConfirmPaypalRequest) error {
	payment, err := s.loadOwnedPayment(userID, req.PaymentID)
	if err != nil {
		return err
	}
	if payment.Method != "paypal" {
		return ErrProofMismatch
	}
	if err := s.checkConfirmable(payment); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"paypal_order_id": req.OrderID,
		"paypal_payer_id": req.PayerID,
	}
	if payment.Status != "pending" {
		fields["status"] = "pending"
	}

	if err := s.paymentRepo.UpdateFields(payment.ID, fields); err != nil {
		return err
	}

	s.notifyAdminsPending(payment)
	return nil
}

// ConfirmCrypto 提交 USDC 转账凭证
func (s *PaymentService) ConfirmCrypto(userID int64, req *dto.ConfirmCryptoRequest) error {
	payment, err := s.loadOwnedPayment(userID, req.PaymentID)
	if err != nil {
		return err
	}
	if payment.Method != "usdc" {
		return ErrProofMismatch
	}
	if err := s.checkConfirmable(payment); err != nil {
		return err
	}

	setting, err := s.settingRepo.GetByMethod("usdc")
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	fields := map[string]interface{}{
		"crypto_tx_hash":      req.TxHash,
		"crypto_from_address": req.FromAddress,
	}
	if setting != nil {
		fields["crypto_to_address"] = setting.USDCWallet
	}
	if payment.Status != "pending" {
		fields["status"] = "pending"
	}

	if err := s.paymentRepo.UpdateFields(payment.ID, fields); err != nil {
		return err
	}

	s.notifyAdminsPending(payment)
	return nil
}

// ConfirmBank 提交银行转账凭证（汇款回单的 URL）
func (s *PaymentService) ConfirmBank(userID int64, req *dto.ConfirmBankRequest) error {
	payment, err := s.loadOwnedPayment(userID, req.PaymentID)
	if err != nil {
		return err
	}
	if payment.Method != "bank_transfer" {
		return ErrProofMismatch
	}
	if err := s.checkConfirmable(payment); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"bank_proof_url": req.ProofURL,
	}
	if payment.Status != "pending" {
		fields["status"] = "pending"
	}

	if err := s.paymentRepo.UpdateFields(payment.ID, fields); err != nil {
		return err
	}

	s.notifyAdminsPending(payment)
	return nil
}

// GetPayment 获取单条支付记录（校验归属）
func (s *PaymentService) GetPayment(userID, paymentID int64) (*model.Payment, error) {
	return s.loadOwnedPayment(userID, paymentID)
}

// ListByUser 用户自己的支付历史
func (s *PaymentService) ListByUser(userID int64) ([]model.Payment, error) {
	return s.paymentRepo.ListByUser(userID)
}

// ListPending 管理端待审核支付单列表
func (s *PaymentService) ListPending() ([]dto.PaymentSummary, error) {
	payments, err := s.paymentRepo.ListByStatus("pending")
	if err != nil {
		return nil, err
	}

	approving, err := s.paymentRepo.ListByStatus("approving")
	if err != nil {
		return nil, err
	}
	payments = append(payments, approving...)

	return s.buildSummaries(payments), nil
}

// GetSettings 管理端查看所有收款方式配置
func (s *PaymentService) GetSettings() ([]model.PaymentSetting, error) {
	return s.settingRepo.ListAll()
}

// UpdateSetting 管理员配置收款方式
func (s *PaymentService) UpdateSetting(adminID int64, req *dto.UpdatePaymentSettingRequest) error {
	if _, ok := supportedMethods[req.Method]; !ok {
		return ErrInvalidMethod
	}

	setting := &model.PaymentSetting{
		Method:            req.Method,
		PaypalEmail:       req.PaypalEmail,
		USDCWallet:        req.USDCWallet,
		BankName:          req.BankName,
		BankIBAN:          req.BankIBAN,
		BankAccountHolder: req.BankAccountHolder,
		UpdatedBy:         &adminID,
	}

	// 收齐必要字段才算配置完成
	switch req.Method {
	case "paypal":
		setting.Configured = req.PaypalEmail != ""
	case "usdc":
		setting.Configured = req.USDCWallet != ""
	case "bank_transfer":
		setting.Configured = req.BankName != "" && req.BankIBAN != "" && req.BankAccountHolder != ""
	}

	if err := s.settingRepo.Upsert(setting); err != nil {
		return err
	}

	s.audit.Record("payment", "info", "payment setting updated",
		map[string]interface{}{"method": req.Method, "configured": setting.Configured},
		&adminID, "", "")
	return nil
}

func (s *PaymentService) loadOwnedPayment(userID, paymentID int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	// 归属校验失败时不暴露记录是否存在
	if payment.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// checkConfirmable 检查支付单是否还能提交凭证。
// 严格模式下只有 pending 可以提交；宽松模式下任何状态都允许重新提交，
// 支付单会被拉回 pending 重新走审核。
func (s *PaymentService) checkConfirmable(payment *model.Payment) error {
	if payment.Status == "pending" {
		return nil
	}
	if s.cfg.Policy.StrictPaymentStates {
		return ErrPaymentFinalized
	}
	return nil
}

func (s *PaymentService) notifyAdminsPending(payment *model.Payment) {
	s.audit.Record("payment", "info", "payment proof submitted",
		map[string]interface{}{"payment_id": payment.ID, "method": payment.Method},
		&payment.UserID, "", "")

	if s.hub != nil {
		_ = s.hub.BroadcastToAdmins(&ws.Event{
			Type: "payment_pending",
			Data: map[string]interface{}{
				"payment_id": payment.ID,
				"user_id":    payment.UserID,
				"plan":       payment.Plan,
				"amount":     payment.Amount,
				"method":     payment.Method,
			},
		})
	}
}

func (s *PaymentService) buildSummaries(payments []model.Payment) []dto.PaymentSummary {
	summaries := make([]dto.PaymentSummary, 0, len(payments))
	for _, p := range payments {
		summary := dto.PaymentSummary{
			ID:            p.ID,
			UserID:        p.UserID,
			Plan:          p.Plan,
			Amount:        p.Amount,
			PaymentMethod: p.Method,
			Status:        p.Status,
			CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		}

		if user, err := s.userRepo.GetByID(p.UserID); err == nil {
			summary.UserName = user.Name
			summary.UserEmail = user.Email
		}

		summaries = append(summaries, summary)
	}
	return summaries
}

// buildBankReference 生成银行转账参考号：IAW-<用户UUID后6位大写>-<毫秒时间戳后6位>
func buildBankReference(userUUID string, now time.Time) string {
	uuidPart := strings.ToUpper(userUUID)
	if len(uuidPart) > 6 {
		uuidPart = uuidPart[len(uuidPart)-6:]
	}

	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}

	return fmt.Sprintf("IAW-%s-%s", uuidPart, ms)
}
