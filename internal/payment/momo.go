package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/config"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"

	"github.com/google/uuid"
)

type createRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type createResponse struct {
	PartnerCode  string `json:"partnerCode"`
	RequestID    string `json:"requestId"`
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message"`
	ResultCode   int    `json:"resultCode"`
	PayURL       string `json:"payUrl"`
}

type MomoClient struct {
	logger *slog.Logger
	cfg    config.Momo
	client *http.Client
}

func NewMomoClient(logger *slog.Logger, cfg config.Momo) *MomoClient {
	return &MomoClient{
		logger: logger.With(slog.String("gateway", "momo")),
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreatePaymentRequest asks the gateway for a hosted payment page for order.
func (c *MomoClient) CreatePaymentRequest(ctx context.Context, order entities.Order) (entities.PaymentRequest, error) {
	req := createRequest{
		PartnerCode: c.cfg.PartnerCode,
		RequestID:   uuid.NewString(),
		Amount:      order.Total,
		OrderID:     order.ID,
		OrderInfo:   "Thanh toan don hang " + order.Code,
		RedirectURL: c.cfg.RedirectURL,
		IpnURL:      c.cfg.IPNURL,
		RequestType: c.cfg.RequestType,
		Lang:        c.cfg.Lang,
	}
	req.Signature = Sign(c.cfg.SecretKey, createRawSignature(c.cfg.AccessKey, req))

	body, err := json.Marshal(req)
	if err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("%w: %v", entities.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return entities.PaymentRequest{}, fmt.Errorf("%w: status %d", entities.ErrGatewayUnavailable, resp.StatusCode)
	}

	var res createResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("%w: failed to decode response: %v", entities.ErrGatewayUnavailable, err)
	}

	if res.ResultCode != 0 || res.PayURL == "" {
		c.logger.WarnContext(ctx, "payment request rejected",
			slog.String("order_id", order.ID),
			slog.Int("result_code", res.ResultCode),
			slog.String("message", res.Message),
		)
		return entities.PaymentRequest{}, fmt.Errorf("%w: %s (code %d)", entities.ErrGatewayRejected, res.Message, res.ResultCode)
	}

	return entities.PaymentRequest{URL: res.PayURL, RequestID: req.RequestID}, nil
}

// VerifyCallback authenticates an IPN payload. It never touches order state.
func (c *MomoClient) VerifyCallback(cb entities.GatewayCallback) error {
	if cb.OrderID == "" || cb.TransID == 0 || cb.ResultCode == nil || cb.Signature == "" {
		return entities.ErrMissingFields
	}
	if !verify(c.cfg.SecretKey, callbackRawSignature(c.cfg.AccessKey, cb), cb.Signature) {
		return entities.ErrSignatureInvalid
	}
	return nil
}
