package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
)

// Sign returns the hex HMAC-SHA256 of raw keyed by secret.
func Sign(secret, raw string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(secret, raw, signature string) bool {
	expected := Sign(secret, raw)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Parameter order is fixed by the gateway: keys sorted alphabetically.
func createRawSignature(accessKey string, r createRequest) string {
	return fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		accessKey, r.Amount, r.ExtraData, r.IpnURL, r.OrderID, r.OrderInfo, r.PartnerCode, r.RedirectURL, r.RequestID, r.RequestType,
	)
}

func callbackRawSignature(accessKey string, cb entities.GatewayCallback) string {
	resultCode := 0
	if cb.ResultCode != nil {
		resultCode = *cb.ResultCode
	}
	return fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		accessKey, cb.Amount, cb.ExtraData, cb.Message, cb.OrderID, cb.OrderInfo, cb.OrderType,
		cb.PartnerCode, cb.PayType, cb.RequestID, cb.ResponseTime, resultCode, cb.TransID,
	)
}
