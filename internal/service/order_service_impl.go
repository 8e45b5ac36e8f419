package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alimikegami/ppob-storefront/config"
	"github.com/alimikegami/ppob-storefront/internal/domain"
	"github.com/alimikegami/ppob-storefront/internal/dto"
	goodsprovider "github.com/alimikegami/ppob-storefront/internal/infrastructure/goods-provider"
	paymentgateway "github.com/alimikegami/ppob-storefront/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/ppob-storefront/internal/pricing"
	"github.com/alimikegami/ppob-storefront/internal/repository"
	pkgdto "github.com/alimikegami/ppob-storefront/pkg/dto"
	"github.com/alimikegami/ppob-storefront/pkg/errs"
	"github.com/alimikegami/ppob-storefront/pkg/utils"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"gopkg.in/gomail.v2"
)

type OrderServiceImpl struct {
	repository    repository.OrderRepository
	catalog       CatalogService
	gateway       paymentgateway.PaymentGateway
	provider      goodsprovider.GoodsProvider
	kafkaProducer *kafka.Conn
	config        *config.Config
}

func CreateOrderService(repository repository.OrderRepository, catalog CatalogService, gateway paymentgateway.PaymentGateway, provider goodsprovider.GoodsProvider, kafkaProducer *kafka.Conn, config *config.Config) OrderService {
	return &OrderServiceImpl{
		repository:    repository,
		catalog:       catalog,
		gateway:       gateway,
		provider:      provider,
		kafkaProducer: kafkaProducer,
		config:        config,
	}
}

func (s *OrderServiceImpl) Checkout(ctx context.Context, req dto.CheckoutRequest) (resp dto.CheckoutResponse, err error) {
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	req.BuyerSKUCode = strings.TrimSpace(req.BuyerSKUCode)
	req.CustomerNo = strings.TrimSpace(req.CustomerNo)

	if req.BuyerSKUCode == "" || req.CustomerNo == "" || req.PaymentMethod == "" {
		return resp, errs.ErrInvalidOrder
	}

	if !validCustomerNo(req.CustomerNo) {
		return resp, errs.ErrInvalidOrder
	}

	method, ok := domain.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return resp, errs.ErrUnsupportedPaymentMethod
	}

	if req.OrderID == "" {
		orderID, err := uuid.NewV7()
		if err != nil {
			return resp, fmt.Errorf("error generating order id: %v", err)
		}
		req.OrderID = orderID.String()
	}

	item, err := s.catalog.GetItem(ctx, req.BuyerSKUCode)
	if err != nil {
		return resp, err
	}

	// the charge amount is always recomputed here; req.GrossAmount is never used
	fee, feeLabel := pricing.ComputeFee(item.SellPrice, method)
	total := item.SellPrice + fee

	now := time.Now().Unix()
	order := domain.Order{
		OrderID:       req.OrderID,
		Category:      string(item.Category),
		BuyerSKUCode:  item.BuyerSKUCode,
		ProductName:   item.ProductName,
		CustomerNo:    req.CustomerNo,
		BasePrice:     item.SellPrice,
		FeeAmount:     fee,
		TotalAmount:   total,
		PaymentMethod: string(method),
		PaymentType:   effectivePaymentType(method),
		Status:        domain.OrderStatusCreated,
		ExpiredAt:     now + s.config.PaymentWindowSec,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// recording the order before calling the gateway is what makes the charge
	// idempotent per order id
	err = s.repository.AddOrder(ctx, order)
	if errors.Is(err, errs.ErrDuplicateOrder) {
		existing, getErr := s.repository.GetOrderByOrderID(ctx, order.OrderID)
		if getErr == nil && existing.Status == domain.OrderStatusCharged {
			return storedChargeResponse(existing, feeLabel), nil
		}

		return resp, errs.ErrDuplicateOrder
	}
	if err != nil {
		return resp, err
	}

	chargeResult, err := s.gateway.Charge(ctx, order, req.CustomerDetails)
	if err != nil {
		// charges are never retried automatically; the user has to re-initiate
		// checkout with a new order id
		if recordErr := s.repository.RecordFailure(ctx, order.OrderID, "", err.Error(), domain.OrderStatusFailed); recordErr != nil {
			log.Ctx(ctx).Error().Err(recordErr).Str("component", "Checkout").Str("order_id", order.OrderID).Msg("")
		}
		return resp, err
	}

	if expiredAt, convErr := utils.ConvertDateTimeWibToUnixTimestamp(chargeResult.ExpiryTime); convErr == nil {
		order.ExpiredAt = expiredAt
	}

	order.PaymentType = chargeResult.PaymentType
	order.QRString = optional(chargeResult.QRString)
	order.PaymentCode = optional(chargeResult.PaymentCode)
	order.RedirectURL = optional(chargeResult.RedirectURL)
	order.GatewayTransactionID = optional(chargeResult.TransactionID)

	if err = s.repository.MarkCharged(ctx, order); err != nil {
		return resp, err
	}

	return dto.CheckoutResponse{
		OrderID:           order.OrderID,
		ProductName:       order.ProductName,
		BasePrice:         order.BasePrice,
		FeeAmount:         order.FeeAmount,
		FeeLabel:          feeLabel,
		TotalAmount:       order.TotalAmount,
		PaymentMethod:     order.PaymentMethod,
		PaymentType:       order.PaymentType,
		TransactionStatus: chargeResult.TransactionStatus,
		QRString:          chargeResult.QRString,
		PaymentCode:       chargeResult.PaymentCode,
		RedirectURL:       chargeResult.RedirectURL,
		ExpiredAt:         chargeResult.ExpiryTime,
	}, nil
}

func (s *OrderServiceImpl) HandlePaymentNotification(ctx context.Context, req dto.PaymentNotification) (result dto.ReconciliationResult, err error) {
	if req.OrderID == "" {
		return result, errs.ErrInvalidOrder
	}

	order, err := s.repository.GetOrderByOrderID(ctx, req.OrderID)
	if err != nil {
		return result, err
	}

	result = dto.ReconciliationResult{
		OrderID: order.OrderID,
		Status:  string(order.Status),
	}

	switch order.Status {
	case domain.OrderStatusFulfilled:
		result.Fulfilled = true
		if order.SerialNumber != nil {
			result.SerialNumber = *order.SerialNumber
		}
		result.Message = "order already fulfilled"
		return result, nil
	case domain.OrderStatusPaid:
		// a previous delivery claimed the payment; fulfillment is either in
		// flight or needs manual reconciliation, never an automatic re-send
		result.Message = "payment recorded, fulfillment pending"
		return result, nil
	case domain.OrderStatusFailed, domain.OrderStatusExpired:
		result.Message = "order is terminal"
		return result, nil
	}

	// the webhook body is not trusted; the gateway is asked for the
	// authoritative status before anything is delivered
	status, err := s.gateway.TransactionStatus(ctx, order.OrderID)
	if err != nil {
		return result, err
	}

	switch status.TransactionStatus {
	case "settlement", "capture":
		if status.FraudStatus != "" && status.FraudStatus != "accept" {
			result.Message = fmt.Sprintf("fraud status %s, no action taken", status.FraudStatus)
			return result, nil
		}
	case "deny", "cancel":
		reason := fmt.Sprintf("gateway reported %s", status.TransactionStatus)
		if err := s.repository.RecordFailure(ctx, order.OrderID, "", reason, domain.OrderStatusFailed); err != nil {
			return result, err
		}
		result.Status = string(domain.OrderStatusFailed)
		result.Message = reason
		return result, nil
	case "expire":
		if err := s.repository.RecordFailure(ctx, order.OrderID, "", "payment window expired", domain.OrderStatusExpired); err != nil {
			return result, err
		}
		result.Status = string(domain.OrderStatusExpired)
		result.Message = "payment window expired"
		return result, nil
	default:
		result.Message = fmt.Sprintf("transaction status %s, no action taken", status.TransactionStatus)
		return result, nil
	}

	claimed, err := s.repository.ClaimPaid(ctx, order.OrderID, time.Now().Unix())
	if err != nil {
		return result, err
	}
	if !claimed {
		// a concurrent delivery won the transition; acknowledge without a
		// second provider call
		result.Message = "payment already being reconciled"
		return result, nil
	}

	return s.fulfill(ctx, order)
}

// fulfill delivers the goods for a freshly claimed payment. The SKU and
// customer number come from the stored order, never from gateway custom fields.
func (s *OrderServiceImpl) fulfill(ctx context.Context, order domain.Order) (result dto.ReconciliationResult, err error) {
	result = dto.ReconciliationResult{
		OrderID: order.OrderID,
		Status:  string(domain.OrderStatusPaid),
	}

	attempt, err := uuid.NewV7()
	if err != nil {
		return result, fmt.Errorf("error generating fulfillment ref id: %v", err)
	}
	refID := "DIGI-" + attempt.String()

	fulfillment, err := s.provider.Topup(ctx, order.BuyerSKUCode, order.CustomerNo, refID)
	if err != nil || !fulfillment.Success() {
		reason := fulfillment.Message
		if err != nil {
			reason = err.Error()
		}
		if reason == "" {
			reason = "provider rejected the transaction"
		}

		if recordErr := s.repository.RecordFailure(ctx, order.OrderID, refID, reason, domain.OrderStatusFailed); recordErr != nil {
			log.Ctx(ctx).Error().Err(recordErr).Str("component", "fulfill").Str("order_id", order.OrderID).Msg("")
		}

		// money has been collected but goods were not delivered; this must
		// reach an operator no matter what
		s.publishOrderEvent(ctx, "fulfillment_failed", order, "", reason)
		s.sendOperatorAlert(ctx, order, reason)

		result.Status = string(domain.OrderStatusFailed)
		result.Message = reason
		return result, nil
	}

	if err = s.repository.RecordFulfillment(ctx, order.OrderID, refID, fulfillment.SerialNumber); err != nil {
		return result, err
	}

	s.publishOrderEvent(ctx, "order_fulfilled", order, fulfillment.SerialNumber, "")

	result.Status = string(domain.OrderStatusFulfilled)
	result.Fulfilled = true
	result.SerialNumber = fulfillment.SerialNumber
	result.Message = fulfillment.Message
	return result, nil
}

func (s *OrderServiceImpl) GetOrder(ctx context.Context, orderID string) (resp dto.ReceiptResponse, err error) {
	order, err := s.repository.GetOrderByOrderID(ctx, orderID)
	if err != nil {
		return resp, err
	}

	resp = dto.ReceiptResponse{
		OrderID:         order.OrderID,
		ProductName:     order.ProductName,
		CustomerNo:      order.CustomerNo,
		BasePrice:       order.BasePrice,
		FeeAmount:       order.FeeAmount,
		TotalAmount:     order.TotalAmount,
		PaymentMethod:   order.PaymentMethod,
		PaymentType:     order.PaymentType,
		Status:          string(order.Status),
		TransactionTime: utils.ConvertDateTimeToHumanReadableFormat(order.CreatedAt),
	}

	if order.SerialNumber != nil {
		resp.SerialNumber = *order.SerialNumber
	}

	if order.Status == domain.OrderStatusCharged {
		if status, statusErr := s.gateway.TransactionStatus(ctx, order.OrderID); statusErr == nil {
			resp.TransactionStatus = status.TransactionStatus
		}
	}

	return resp, nil
}

func (s *OrderServiceImpl) GetOrders(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error) {
	orders, total, err := s.repository.GetOrders(ctx, filter)
	if err != nil {
		return response, err
	}

	records := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		record := dto.OrderResponse{
			OrderID:       order.OrderID,
			Category:      order.Category,
			ProductName:   order.ProductName,
			CustomerNo:    order.CustomerNo,
			TotalAmount:   order.TotalAmount,
			PaymentMethod: order.PaymentMethod,
			Status:        string(order.Status),
			CreatedAt:     utils.ConvertDateTimeToHumanReadableFormat(order.CreatedAt),
		}
		if order.SerialNumber != nil {
			record.SerialNumber = *order.SerialNumber
		}
		if order.FailureReason != nil {
			record.FailureReason = *order.FailureReason
		}
		records = append(records, record)
	}

	response.Records = records
	response.Metadata = pkgdto.Metadata{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}

	return response, nil
}

func (s *OrderServiceImpl) InquiryPLN(ctx context.Context, req dto.PLNInquiryRequest) (resp dto.InquiryResponse, err error) {
	if req.CustomerNo == "" || req.BuyerSKUCode == "" {
		return resp, errs.ErrInvalidOrder
	}

	refID, err := uuid.NewV7()
	if err != nil {
		return resp, fmt.Errorf("error generating inquiry ref id: %v", err)
	}

	return s.provider.InquiryPLN(ctx, req.BuyerSKUCode, req.CustomerNo, "PLN-"+refID.String())
}

func (s *OrderServiceImpl) InquiryPostpaid(ctx context.Context, req dto.PostpaidInquiryRequest) (resp dto.InquiryResponse, err error) {
	if req.CustomerNo == "" {
		return resp, errs.ErrInvalidOrder
	}

	refID, err := uuid.NewV7()
	if err != nil {
		return resp, fmt.Errorf("error generating inquiry ref id: %v", err)
	}

	return s.provider.InquiryPostpaid(ctx, req.CustomerNo, "PASCA-"+refID.String())
}

func (s *OrderServiceImpl) ExpireStaleOrders() {
	log.Info().Str("component", "ExpireStaleOrders").Msg("cron starts")

	count, err := s.repository.ExpireStaleOrders(context.Background(), time.Now().Unix())
	if err != nil {
		log.Error().Err(err).Str("component", "ExpireStaleOrders").Msg("")
		return
	}

	if count > 0 {
		log.Info().Int64("expired", count).Str("component", "ExpireStaleOrders").Msg("")
	}

	log.Info().Str("component", "ExpireStaleOrders").Msg("cron ends")
}

func (s *OrderServiceImpl) publishOrderEvent(ctx context.Context, eventType string, order domain.Order, serialNumber string, reason string) {
	if s.kafkaProducer == nil {
		return
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: eventType,
		Data: dto.OrderEvent{
			OrderID:      order.OrderID,
			BuyerSKUCode: order.BuyerSKUCode,
			CustomerNo:   order.CustomerNo,
			TotalAmount:  order.TotalAmount,
			Status:       eventType,
			SerialNumber: serialNumber,
			Reason:       reason,
			OccurredAt:   time.Now().Unix(),
		},
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "publishOrderEvent").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = s.writeKafkaMessageWithKey(jsonMsg, order.OrderID)
		if err == nil {
			return
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "publishOrderEvent").Msg("")
		time.Sleep(time.Second * time.Duration(i+1)) // Exponential backoff
	}

	log.Ctx(ctx).Error().Str("component", "publishOrderEvent").Str("order_id", order.OrderID).Msgf("failed to write Kafka message after %d attempts", maxRetries)
}

func (s *OrderServiceImpl) sendOperatorAlert(ctx context.Context, order domain.Order, reason string) {
	smtp := s.config.SMTPConfig
	if smtp.Host == "" || smtp.Operator == "" {
		return
	}

	message := gomail.NewMessage()
	message.SetHeader("From", smtp.Sender)
	message.SetHeader("To", smtp.Operator)
	message.SetHeader("Subject", fmt.Sprintf("[PPOB] Fulfillment failed for order %s", order.OrderID))
	message.SetBody("text/plain", fmt.Sprintf(
		"Order %s has been paid (Rp%d) but product delivery failed.\n\nProduct: %s\nCustomer: %s\nReason: %s\n\nManual reconciliation is required.",
		order.OrderID, order.TotalAmount, order.ProductName, order.CustomerNo, reason,
	))

	if err := utils.SendEmail(message, smtp.Sender, smtp.Password, smtp.Host, smtp.Port); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "sendOperatorAlert").Str("order_id", order.OrderID).Msg("")
	}
}

func (s *OrderServiceImpl) writeKafkaMessageWithKey(msg []byte, key string) error {
	_, err := s.kafkaProducer.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: msg,
		},
	)
	return err
}

// effectivePaymentType maps a storefront payment method onto the gateway
// payment type. dana is not supported by the core charge API, so it rides on
// gopay as a compatibility shim; alfamart is the gateway's cstore type.
func effectivePaymentType(method domain.PaymentMethod) string {
	switch method {
	case domain.PaymentMethodDana:
		return "gopay"
	case domain.PaymentMethodAlfamart:
		return "cstore"
	default:
		return string(method)
	}
}

func storedChargeResponse(order domain.Order, feeLabel string) dto.CheckoutResponse {
	resp := dto.CheckoutResponse{
		OrderID:       order.OrderID,
		ProductName:   order.ProductName,
		BasePrice:     order.BasePrice,
		FeeAmount:     order.FeeAmount,
		FeeLabel:      feeLabel,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		PaymentType:   order.PaymentType,
	}

	if order.QRString != nil {
		resp.QRString = *order.QRString
	}
	if order.PaymentCode != nil {
		resp.PaymentCode = *order.PaymentCode
	}
	if order.RedirectURL != nil {
		resp.RedirectURL = *order.RedirectURL
	}

	return resp
}

func validCustomerNo(customerNo string) bool {
	if len(customerNo) < 6 || len(customerNo) > 20 {
		return false
	}

	for _, r := range customerNo {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
