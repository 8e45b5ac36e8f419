package goodsprovider

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alimikegami/ppob-storefront/config"
	"github.com/alimikegami/ppob-storefront/internal/domain"
	"github.com/alimikegami/ppob-storefront/internal/dto"
	"github.com/alimikegami/ppob-storefront/pkg/errs"
	"github.com/alimikegami/ppob-storefront/pkg/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// GoodsProvider is the digital-goods side of the storefront: the wholesale
// price list, the actual delivery call, and non-charging customer inquiries.
type GoodsProvider interface {
	PriceList(ctx context.Context) ([]domain.CatalogItem, error)
	Topup(ctx context.Context, buyerSKUCode, customerNo, refID string) (domain.FulfillmentResult, error)
	InquiryPLN(ctx context.Context, buyerSKUCode, customerNo, refID string) (dto.InquiryResponse, error)
	InquiryPostpaid(ctx context.Context, customerNo, refID string) (dto.InquiryResponse, error)
}

type DigiflazzClient struct {
	baseURL  string
	username string
	apiKey   string
	cb       *gobreaker.CircuitBreaker[[]byte]
}

func CreateDigiflazzClient(config *config.Config, cb *gobreaker.CircuitBreaker[[]byte]) GoodsProvider {
	return &DigiflazzClient{
		baseURL:  config.DigiflazzConfig.BaseURL,
		username: config.DigiflazzConfig.Username,
		apiKey:   config.DigiflazzConfig.APIKey,
		cb:       cb,
	}
}

// Sign builds the Digiflazz request signature: md5(username + apiKey + salt),
// where salt is "prepaid" for price lists and the ref_id for transactions.
func Sign(username, apiKey, salt string) string {
	sum := md5.Sum([]byte(username + apiKey + salt))
	return hex.EncodeToString(sum[:])
}

func (c *DigiflazzClient) PriceList(ctx context.Context) ([]domain.CatalogItem, error) {
	payload := dto.PriceListRequest{
		Cmd:      "prepaid",
		Username: c.username,
		Sign:     Sign(c.username, c.apiKey, "prepaid"),
	}

	body, err := c.post(ctx, "/v1/price-list", payload)
	if err != nil {
		return nil, err
	}

	var response dto.PriceListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "PriceList").Msg("")
		return nil, errs.ErrUpstreamUnavailable
	}

	items := make([]domain.CatalogItem, 0, len(response.Data))
	for _, item := range response.Data {
		items = append(items, domain.CatalogItem{
			Category:     domain.CategoryFromProvider(item.Category),
			Brand:        item.Brand,
			ProductName:  item.ProductName,
			BasePrice:    coercePrice(item.Price),
			BuyerSKUCode: item.BuyerSKUCode,
		})
	}

	return items, nil
}

func (c *DigiflazzClient) Topup(ctx context.Context, buyerSKUCode, customerNo, refID string) (domain.FulfillmentResult, error) {
	payload := dto.TransactionRequest{
		Username:     c.username,
		BuyerSKUCode: buyerSKUCode,
		CustomerNo:   customerNo,
		RefID:        refID,
		Sign:         Sign(c.username, c.apiKey, refID),
	}

	data, err := c.transaction(ctx, payload)
	if err != nil {
		return domain.FulfillmentResult{}, err
	}

	return domain.FulfillmentResult{
		RefID:        refID,
		Status:       data.Status,
		ResponseCode: data.RC,
		Message:      data.Message,
		SerialNumber: data.SN,
		SellingPrice: data.SellingPrice,
	}, nil
}

func (c *DigiflazzClient) InquiryPLN(ctx context.Context, buyerSKUCode, customerNo, refID string) (dto.InquiryResponse, error) {
	payload := dto.TransactionRequest{
		Cmd:          "inq-pln",
		Username:     c.username,
		BuyerSKUCode: buyerSKUCode,
		CustomerNo:   customerNo,
		RefID:        refID,
		Sign:         Sign(c.username, c.apiKey, refID),
	}

	data, err := c.transaction(ctx, payload)
	if err != nil {
		return dto.InquiryResponse{}, err
	}

	subscriberPower := data.SubscriberPower
	if subscriberPower == "" {
		subscriberPower = data.SegmentPower
	}

	return dto.InquiryResponse{
		RefID:           refID,
		CustomerNo:      customerNo,
		CustomerName:    data.CustomerName,
		MeterNo:         customerNo,
		SubscriberPower: subscriberPower,
		Message:         data.Message,
	}, nil
}

func (c *DigiflazzClient) InquiryPostpaid(ctx context.Context, customerNo, refID string) (dto.InquiryResponse, error) {
	payload := dto.TransactionRequest{
		Cmd:          "inq-pasca",
		Username:     c.username,
		BuyerSKUCode: "pln-postpaid",
		CustomerNo:   customerNo,
		RefID:        refID,
		Sign:         Sign(c.username, c.apiKey, refID),
	}

	data, err := c.transaction(ctx, payload)
	if err != nil {
		return dto.InquiryResponse{}, err
	}

	if data.CustomerName == "" {
		return dto.InquiryResponse{}, errs.ErrNotFound
	}

	return dto.InquiryResponse{
		RefID:           refID,
		CustomerNo:      customerNo,
		CustomerName:    data.CustomerName,
		MeterNo:         customerNo,
		SubscriberPower: data.SubscriberPower,
		Month:           data.Month,
		BillAmount:      data.BillAmount,
		Message:         data.Message,
	}, nil
}

func (c *DigiflazzClient) transaction(ctx context.Context, payload dto.TransactionRequest) (dto.TransactionData, error) {
	body, err := c.post(ctx, "/v1/transaction", payload)
	if err != nil {
		return dto.TransactionData{}, err
	}

	var response dto.TransactionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "transaction").Msg("")
		return dto.TransactionData{}, errs.ErrUpstreamUnavailable
	}

	if response.Data == nil {
		message := response.Message
		if message == "" {
			message = "empty provider response"
		}
		return dto.TransactionData{}, errs.WrapFulfillment(message)
	}

	return *response.Data, nil
}

func (c *DigiflazzClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling provider request: %v", err)
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		statusCode, respBody, err := httpclient.SendRequest(ctx, httpclient.HttpRequest{
			URL:    c.baseURL + path,
			Method: "POST",
			Body:   jsonBody,
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
		})
		if err != nil {
			return nil, err
		}

		if statusCode != http.StatusOK {
			return nil, fmt.Errorf("provider returned non-OK status: %d", statusCode)
		}

		return respBody, nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "post").Str("path", path).Msg("")
		if httpclient.IsTimeout(err) {
			return nil, errs.ErrUpstreamTimeout
		}
		return nil, errs.ErrUpstreamUnavailable
	}

	return body, nil
}

func coercePrice(v interface{}) int64 {
	switch price := v.(type) {
	case float64:
		return int64(price)
	case string:
		parsed, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return 0
		}
		return int64(parsed)
	case json.Number:
		parsed, err := price.Int64()
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
