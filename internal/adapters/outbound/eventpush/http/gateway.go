package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"walletsync/internal/application/dto"
	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	maxErrorBodyBytes  = 1024
)

type Config struct {
	EndpointURL string
	HMACSecret  string
	Timeout     time.Duration
}

// Gateway delivers event batches to the listener endpoint as signed POSTs.
// Fire-and-forget per the port contract: a failed delivery is reported to
// the caller but never retried here.
type Gateway struct {
	endpointURL string
	hmacSecret  string
	client      *nethttp.Client
}

var _ portsout.PushEventGateway = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		endpointURL: strings.TrimSpace(cfg.EndpointURL),
		hmacSecret:  strings.TrimSpace(cfg.HMACSecret),
		client: &nethttp.Client{
			Timeout: timeout,
		},
	}
}

func (g *Gateway) PushEvents(ctx context.Context, batch dto.PushEventBatch) *apperrors.AppError {
	if g == nil || g.client == nil {
		return apperrors.NewInternal(
			"push_gateway_not_configured",
			"push event gateway is not configured",
			nil,
		)
	}
	if g.endpointURL == "" {
		return apperrors.NewInternal(
			"push_endpoint_missing",
			"push event endpoint url is missing",
			nil,
		)
	}
	if g.hmacSecret == "" {
		return apperrors.NewInternal(
			"push_hmac_secret_missing",
			"push event hmac secret is missing",
			nil,
		)
	}

	kind := strings.TrimSpace(batch.Kind)
	if kind == "" {
		return apperrors.NewValidation(
			"push_kind_missing",
			"push event kind is required",
			nil,
		)
	}
	if batch.DeliveryID == "" {
		batch.DeliveryID = uuid.NewString()
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return apperrors.NewInternal(
			"push_payload_encode_failed",
			"failed to encode push event batch",
			map[string]any{"error": err.Error(), "kind": kind},
		)
	}

	timestamp := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	signature := pushSignature(g.hmacSecret, timestamp, batch.DeliveryID, body)

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, g.endpointURL, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternal(
			"push_request_build_failed",
			"failed to build push event request",
			map[string]any{"error": err.Error()},
		)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-WalletSync-Delivery-Id", batch.DeliveryID)
	request.Header.Set("Idempotency-Key", batch.DeliveryID)
	request.Header.Set("X-WalletSync-Event-Kind", kind)
	request.Header.Set("X-WalletSync-Timestamp", timestamp)
	request.Header.Set("X-WalletSync-Signature", "sha256="+signature)

	response, err := g.client.Do(request)
	if err != nil {
		return apperrors.NewInternal(
			"push_delivery_failed",
			"failed to send push event request",
			map[string]any{"error": err.Error(), "kind": kind},
		)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		bodyPreview := ""
		raw, readErr := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		if readErr == nil {
			bodyPreview = strings.TrimSpace(string(raw))
		}
		return apperrors.NewInternal(
			"push_delivery_failed",
			"push endpoint returned non-2xx status",
			map[string]any{
				"status_code": response.StatusCode,
				"kind":        kind,
				"body":        bodyPreview,
			},
		)
	}

	return nil
}

func pushSignature(secret string, timestamp string, deliveryID string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(timestamp))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(deliveryID))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func BuildExpectedSignatureHeader(secret string, timestamp string, deliveryID string, body []byte) string {
	return fmt.Sprintf("sha256=%s", pushSignature(secret, timestamp, deliveryID, body))
}
